package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"Inventory/internal/catalog"
	"Inventory/internal/config"
	"Inventory/pkg/kit"
)

const service = "inventory"

// app is the state shared by every subcommand for one invocation.
type app struct {
	v     *viper.Viper
	cfg   config.Config
	log   *zap.Logger
	svc   *catalog.Service
	close func() error

	// loadErr is the error from reading the stored catalog. Subcommands
	// return it; the menu reports it and starts empty.
	loadErr error
}

// Execute runs the command tree against the process arguments.
func Execute() {
	config.LoadDotenv()
	if err := NewRootCommand(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "inventory",
		Short:         "Manage a small product inventory",
		Long:          "inventory keeps a catalog of products with quantities and prices, persisted to JSON or SQLite and exportable to CSV.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			return a.open(cmd.Context(), cfgFile)
		},
		RunE: a.withShutdown(func(cmd *cobra.Command, _ []string) error {
			return a.runMenu(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		}),
	}
	root.SetIn(in)
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default .inventory.yaml)")
	pf.String("data-dir", "", "directory holding the catalog files")
	pf.String("store", "", "snapshot store: json or sqlite")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("metrics-textfile", "", "write prometheus metrics to this file on exit")
	_ = a.v.BindPFlag("data_dir", pf.Lookup("data-dir"))
	_ = a.v.BindPFlag("store", pf.Lookup("store"))
	_ = a.v.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("metrics_textfile", pf.Lookup("metrics-textfile"))

	root.AddCommand(
		newMenuCmd(a),
		newAddCmd(a),
		newRemoveCmd(a),
		newUpdateCmd(a),
		newGetCmd(a),
		newSearchCmd(a),
		newListCmd(a),
		newSummaryCmd(a),
		newExportCSVCmd(a),
	)
	return root
}

func (a *app) initConfig(cfgFile string) error {
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		a.v.SetConfigName(".inventory")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
	}

	a.v.SetEnvPrefix("INVENTORY")
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func (a *app) open(ctx context.Context, cfgFile string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := a.initConfig(cfgFile); err != nil {
		return err
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log, err = kit.NewLogger(service, cfg.LogLevel)
	if err != nil {
		return err
	}

	var metrics *kit.Metrics
	if cfg.MetricsTextfile != "" {
		metrics = kit.NewMetrics(prometheus.NewRegistry())
	}

	store, closeStore, err := openStore(ctx, cfg, a.log)
	if err != nil {
		return err
	}
	a.close = closeStore

	a.svc = catalog.NewService(store, a.log, metrics)
	a.loadErr = a.svc.Load(ctx)
	return nil
}

// withShutdown runs fn and then flushes metrics and closes the store, whether
// or not fn failed. cobra skips post-run hooks after an error, so this wraps
// RunE instead.
func (a *app) withShutdown(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if serr := a.shutdown(); err == nil {
				err = serr
			}
		}()
		return fn(cmd, args)
	}
}

// command is withShutdown for subcommands that need the stored catalog.
func (a *app) command(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return a.withShutdown(func(cmd *cobra.Command, args []string) error {
		if a.loadErr != nil {
			return a.loadErr
		}
		return fn(cmd, args)
	})
}

func (a *app) shutdown() error {
	var err error
	if a.svc != nil {
		err = a.svc.Flush(a.cfg.MetricsTextfile)
	}
	if a.close != nil {
		if cerr := a.close(); err == nil {
			err = cerr
		}
		a.close = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return err
}

func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (catalog.Store, func() error, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := catalog.OpenSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return catalog.NewJSONStore(cfg.JSONPath, log), func() error { return nil }, nil
	}
}
