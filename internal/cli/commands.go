package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"Inventory/internal/catalog"
)

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive menu (default)",
		Args:  cobra.NoArgs,
		RunE: a.withShutdown(func(cmd *cobra.Command, _ []string) error {
			return a.runMenu(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		}),
	}
}

func newAddCmd(a *app) *cobra.Command {
	var id, name, quantity, price string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: a.command(func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(id) == "" {
				id = "p_" + uuid.NewString()
			}
			q, err := catalog.ParseQuantity(quantity)
			if err != nil {
				return err
			}
			p, err := catalog.ParsePrice(price)
			if err != nil {
				return err
			}
			rec, err := catalog.NewRecord(id, name, q, p)
			if err != nil {
				return err
			}
			if err := a.svc.Add(rec); err != nil {
				return err
			}
			if err := a.svc.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Added:")
			printRecord(cmd.OutOrStdout(), rec)
			return nil
		}),
	}

	cmd.Flags().StringVar(&id, "id", "", "product id (generated when empty)")
	cmd.Flags().StringVar(&name, "name", "", "product name")
	cmd.Flags().StringVar(&quantity, "quantity", "0", "units in stock")
	cmd.Flags().StringVar(&price, "price", "0", "unit price")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a product by id",
		Args:  cobra.ExactArgs(1),
		RunE: a.command(func(cmd *cobra.Command, args []string) error {
			rec, err := a.svc.Remove(args[0])
			if err != nil {
				return err
			}
			if err := a.svc.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed:")
			printRecord(cmd.OutOrStdout(), rec)
			return nil
		}),
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var name, quantity, price string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update name, quantity or price of a product",
		Args:  cobra.ExactArgs(1),
		RunE: a.command(func(cmd *cobra.Command, args []string) error {
			var p catalog.Patch
			if cmd.Flags().Changed("name") {
				p.Name = &name
			}
			if cmd.Flags().Changed("quantity") {
				q, err := catalog.ParseQuantity(quantity)
				if err != nil {
					return err
				}
				p.Quantity = &q
			}
			if cmd.Flags().Changed("price") {
				v, err := catalog.ParsePrice(price)
				if err != nil {
					return err
				}
				p.Price = &v
			}

			rec, err := a.svc.Update(args[0], p)
			if err != nil {
				return err
			}
			if err := a.svc.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Updated:")
			printRecord(cmd.OutOrStdout(), rec)
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&quantity, "quantity", "", "new quantity")
	cmd.Flags().StringVar(&price, "price", "", "new price")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: a.command(func(cmd *cobra.Command, args []string) error {
			rec, err := a.svc.Get(args[0])
			if err != nil {
				return err
			}
			printRecord(cmd.OutOrStdout(), rec)
			return nil
		}),
	}
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "Find products whose name contains text",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.command(func(cmd *cobra.Command, args []string) error {
			printMatches(cmd.OutOrStdout(), a.svc.FindByName(strings.Join(args, " ")))
			return nil
		}),
	}
}

func newListCmd(a *app) *cobra.Command {
	var sortKey string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every product",
		Args:  cobra.NoArgs,
		RunE: a.command(func(cmd *cobra.Command, _ []string) error {
			for _, rec := range a.svc.ListAll(sortKeyFromInput(sortKey)) {
				printRecord(cmd.OutOrStdout(), rec)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&sortKey, "sort", catalog.SortByName, "sort by name, id or value")
	return cmd
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show item count, total units and total value",
		Args:  cobra.NoArgs,
		RunE: a.command(func(cmd *cobra.Command, _ []string) error {
			printSummary(cmd.OutOrStdout(), a.svc.Summary())
			return nil
		}),
	}
}

func newExportCSVCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export-csv",
		Short: "Export the catalog as CSV",
		Args:  cobra.NoArgs,
		RunE: a.command(func(cmd *cobra.Command, _ []string) error {
			path := out
			if path == "" {
				path = a.cfg.CSVPath
			}
			if err := a.svc.ExportCSV(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "CSV exported to: %s\n", path)
			return nil
		}),
	}

	cmd.Flags().StringVar(&out, "out", "", "output path (default from csv_path)")
	return cmd
}
