package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"Inventory/internal/catalog"
)

// errQuit ends the menu loop; it is raised on "0" or end of input.
var errQuit = errors.New("quit")

var menuOptions = []struct{ key, label string }{
	{"1", "Add product"},
	{"2", "Remove product by ID"},
	{"3", "Update product"},
	{"4", "Search by name"},
	{"5", "Show all"},
	{"6", "Summary"},
	{"7", "Save"},
	{"8", "Load"},
	{"9", "Export CSV"},
	{"0", "Exit"},
}

type menu struct {
	a   *app
	in  *bufio.Reader
	out io.Writer
}

func (a *app) runMenu(ctx context.Context, in io.Reader, out io.Writer) error {
	m := &menu{a: a, in: bufio.NewReader(in), out: out}
	if a.loadErr != nil {
		fmt.Fprintf(out, "Error: %v\n", a.loadErr)
		fmt.Fprintln(out, "Starting with an empty catalog. Saving will replace the stored one.")
	}
	return m.run(ctx)
}

// run loops until the user exits. Operation errors are printed and never
// end the loop.
func (m *menu) run(ctx context.Context) error {
	for {
		fmt.Fprintln(m.out, "\n=== Inventory ===")
		for _, o := range menuOptions {
			fmt.Fprintf(m.out, "%s. %s\n", o.key, o.label)
		}

		op, err := m.prompt("Choose an option: ")
		if err != nil {
			return m.quit(err)
		}

		err = m.dispatch(ctx, strings.TrimSpace(op))
		switch {
		case errors.Is(err, errQuit):
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		case err != nil:
			fmt.Fprintf(m.out, "Error: %v\n", err)
		}
	}
}

func (m *menu) quit(err error) error {
	if errors.Is(err, errQuit) {
		fmt.Fprintln(m.out, "Goodbye!")
		return nil
	}
	return err
}

func (m *menu) dispatch(ctx context.Context, op string) error {
	svc := m.a.svc

	switch op {
	case "1":
		return m.add()

	case "2":
		id, err := m.promptRequired("ID to remove: ")
		if err != nil {
			return err
		}
		rec, err := svc.Remove(id)
		if err != nil {
			return err
		}
		fmt.Fprintln(m.out, "Removed:")
		printRecord(m.out, rec)

	case "3":
		return m.update()

	case "4":
		text, err := m.promptRequired("Text to search in the name: ")
		if err != nil {
			return err
		}
		printMatches(m.out, svc.FindByName(text))

	case "5":
		mode, err := m.prompt("Sort by [name|id|value] (enter=name): ")
		if err != nil {
			return err
		}
		for _, rec := range svc.ListAll(sortKeyFromInput(mode)) {
			printRecord(m.out, rec)
		}

	case "6":
		printSummary(m.out, svc.Summary())

	case "7":
		if err := svc.Save(ctx); err != nil {
			return err
		}
		fmt.Fprintf(m.out, "Saved to: %s\n", svc.Store.Location())

	case "8":
		if err := svc.Load(ctx); err != nil {
			return err
		}
		fmt.Fprintf(m.out, "Loaded from: %s\n", svc.Store.Location())

	case "9":
		path := m.a.cfg.CSVPath
		if err := svc.ExportCSV(path); err != nil {
			return err
		}
		fmt.Fprintf(m.out, "CSV exported to: %s\n", path)

	case "0":
		return errQuit

	default:
		fmt.Fprintln(m.out, "Invalid option, try again.")
	}
	return nil
}

func (m *menu) add() error {
	id, err := m.promptRequired("ID: ")
	if err != nil {
		return err
	}
	name, err := m.promptRequired("Name: ")
	if err != nil {
		return err
	}
	q, err := m.promptQuantity("Quantity: ")
	if err != nil {
		return err
	}
	p, err := m.promptPrice("Price: ")
	if err != nil {
		return err
	}

	rec, err := catalog.NewRecord(id, name, q, p)
	if err != nil {
		return err
	}
	if err := m.a.svc.Add(rec); err != nil {
		return err
	}
	fmt.Fprintln(m.out, "Product added.")
	return nil
}

// update reads optional fields; blanks leave a field unchanged and
// unparsable numbers are skipped with a notice.
func (m *menu) update() error {
	id, err := m.promptRequired("ID to update: ")
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, "Leave blank to keep the current value.")

	var p catalog.Patch
	name, err := m.prompt("New name: ")
	if err != nil {
		return err
	}
	if name = strings.TrimSpace(name); name != "" {
		p.Name = &name
	}

	rawQty, err := m.prompt("New quantity: ")
	if err != nil {
		return err
	}
	if rawQty = strings.TrimSpace(rawQty); rawQty != "" {
		if q, ok := parseWhole(rawQty); ok {
			p.Quantity = &q
		} else {
			fmt.Fprintln(m.out, "Invalid quantity, ignored.")
		}
	}

	rawPrice, err := m.prompt("New price: ")
	if err != nil {
		return err
	}
	if rawPrice = strings.TrimSpace(rawPrice); rawPrice != "" {
		if v, perr := decimal.NewFromString(rawPrice); perr == nil {
			p.Price = &v
		} else {
			fmt.Fprintln(m.out, "Invalid price, ignored.")
		}
	}

	rec, err := m.a.svc.Update(id, p)
	if err != nil {
		return err
	}
	fmt.Fprintln(m.out, "Updated:")
	printRecord(m.out, rec)
	return nil
}

func (m *menu) prompt(label string) (string, error) {
	fmt.Fprint(m.out, label)
	line, err := m.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", errQuit
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (m *menu) promptRequired(label string) (string, error) {
	for {
		s, err := m.prompt(label)
		if err != nil {
			return "", err
		}
		if s = strings.TrimSpace(s); s != "" {
			return s, nil
		}
		fmt.Fprintln(m.out, "Empty input. Try again.")
	}
}

func (m *menu) promptQuantity(label string) (int64, error) {
	for {
		s, err := m.prompt(label)
		if err != nil {
			return 0, err
		}
		q, err := catalog.ParseQuantity(s)
		if err == nil {
			return q, nil
		}
		fmt.Fprintf(m.out, "%v. Try again.\n", err)
	}
}

func (m *menu) promptPrice(label string) (decimal.Decimal, error) {
	for {
		s, err := m.prompt(label)
		if err != nil {
			return decimal.Decimal{}, err
		}
		p, err := catalog.ParsePrice(s)
		if err == nil {
			return p, nil
		}
		fmt.Fprintf(m.out, "%v. Try again.\n", err)
	}
}

// parseWhole accepts any integer, negative ones included, so the catalog
// reports the range error itself.
func parseWhole(s string) (int64, bool) {
	q, err := strconv.ParseInt(s, 10, 64)
	return q, err == nil
}
