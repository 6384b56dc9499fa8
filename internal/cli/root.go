// Package cli implements the circlectl command tree.
package cli

import (
	"github.com/spf13/cobra"

	"almostcircle/internal/config"
	xlog "almostcircle/internal/log"
	"almostcircle/internal/repository/sqlite"
)

// app holds the global flags and the config they resolve to
type app struct {
	configPath string
	dbPath     string
	dataDir    string
	logLevel   string

	cfg     *config.Config
	cfgFrom string // file cfg was read from, "" for defaults
}

// NewRootCmd builds the circlectl command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "circlectl",
		Short:         "Shapes, states and small HTTP tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: search the standard locations)")
	flags.StringVar(&a.dbPath, "db", "", "SQLite database path, overrides the config")
	flags.StringVar(&a.dataDir, "data-dir", "", "shape file directory, overrides the config")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level")

	root.AddCommand(
		newArgsCmd(),
		newAddItemCmd(),
		a.newShapesCmd(),
		a.newStatesCmd(),
		a.newHTTPCmd(),
		newTextCmd(),
		newFileCmd(),
		newListCmd(),
		a.newConfigCmd(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if a.configPath != "" {
		cfg, path, err = config.LoadFromPath(a.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return err
	}

	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	if a.dataDir != "" {
		cfg.Data.Dir = a.dataDir
	}

	xlog.Configure(xlog.Config{
		Level:   a.logLevel,
		Output:  cmd.ErrOrStderr(),
		Service: "circlectl",
	})
	a.cfg = cfg
	a.cfgFrom = path
	return nil
}

// openRepo opens the configured database. Callers close it.
func (a *app) openRepo() (*sqlite.Repository, error) {
	return sqlite.New(a.cfg.Database.Path)
}
