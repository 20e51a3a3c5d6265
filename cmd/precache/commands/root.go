// Package commands implements the CLI commands for precache.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/precache/internal/adapters/detector"
	"go.trai.ch/precache/internal/app"
	"go.trai.ch/precache/internal/build"
)

// Application is the set of operations the CLI drives.
type Application interface {
	Install(ctx context.Context, configPath string) error
	Activate(ctx context.Context, configPath string) ([]string, error)
	Serve(ctx context.Context, opts app.ServeOptions) error
	Caches(ctx context.Context, configPath string) ([]app.CacheSummary, error)
	Clean(ctx context.Context) ([]string, error)
}

// CLI represents the command line interface for precache.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "precache",
		Short:         "Offline cache for a web origin",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to precache.yaml (default: search from the working directory)")
	rootCmd.PersistentFlags().String("log-format", detector.FlagAuto, "Log format: auto, pretty or json")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newActivateCmd())
	rootCmd.AddCommand(c.newServeCmd())
	rootCmd.AddCommand(c.newCachesCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetLogFormatHook sets up a PersistentPreRunE function that passes the
// --log-format flag to fn before any command runs.
func (c *CLI) SetLogFormatHook(fn func(string) error) {
	c.rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		format, err := cmd.Flags().GetString("log-format")
		if err != nil {
			return err
		}
		return fn(format)
	}
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}

// SetOutput directs command output and errors to w. Used for testing.
func (c *CLI) SetOutput(w io.Writer) {
	c.rootCmd.SetOut(w)
	c.rootCmd.SetErr(w)
}
