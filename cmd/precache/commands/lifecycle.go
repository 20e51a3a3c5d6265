package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/precache/internal/app"
	"go.trai.ch/precache/internal/ui/output"
	"go.trai.ch/precache/internal/ui/style"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Fetch every asset of the manifest into its cache version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Install(cmd.Context(), configPath(cmd))
		},
	}
}

func (c *CLI) newActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate",
		Short: "Delete every cache version other than the manifest's",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deleted, err := c.app.Activate(cmd.Context(), configPath(cmd))
			printDeleted(cmd, deleted)
			return err
		},
	}
}

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Install the manifest and serve the origin cache-first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			listen, _ := cmd.Flags().GetString("listen")
			watch, _ := cmd.Flags().GetBool("watch")
			return c.app.Serve(cmd.Context(), app.ServeOptions{
				ConfigPath: configPath(cmd),
				Listen:     listen,
				Watch:      watch,
			})
		},
	}
	cmd.Flags().StringP("listen", "l", "", "Address to listen on (overrides the config file)")
	cmd.Flags().BoolP("watch", "w", false, "Re-install when the config file changes")
	return cmd
}

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Delete every cache version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			deleted, err := c.app.Clean(cmd.Context())
			printDeleted(cmd, deleted)
			return err
		},
	}
}

func printDeleted(cmd *cobra.Command, names []string) {
	r := output.NewRenderer(cmd.OutOrStdout())
	check := style.Active.Renderer(r)
	for _, name := range names {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s deleted %s\n", check.Render(style.Check), name)
	}
}
