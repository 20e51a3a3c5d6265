package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.trai.ch/precache/internal/app"
	"go.trai.ch/precache/internal/ui/output"
	"go.trai.ch/precache/internal/ui/style"
)

func (c *CLI) newCachesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "caches",
		Short: "List cache versions and the URLs they hold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			caches, err := c.app.Caches(cmd.Context(), configPath(cmd))
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			renderCaches(w, output.NewRenderer(w), caches)
			return nil
		},
	}
}

func renderCaches(w io.Writer, r *lipgloss.Renderer, caches []app.CacheSummary) {
	muted := style.Muted.Renderer(r)
	if len(caches) == 0 {
		_, _ = fmt.Fprintln(w, muted.Render("no caches"))
		return
	}

	header := style.Header.Renderer(r)
	active := style.Active.Renderer(r)
	stale := style.Stale.Renderer(r)

	for _, cache := range caches {
		icon, label := stale.Render(style.Circle), stale.Render("stale")
		if cache.Current {
			icon, label = active.Render(style.Dot), active.Render("current")
		}

		var b strings.Builder
		b.WriteString(icon + " " + header.Render(cache.Name) + "  " + label + "  ")
		b.WriteString(muted.Render(entryCount(len(cache.Entries)) + ", " + humanize.Bytes(uint64(cache.Size))))
		_, _ = fmt.Fprintln(w, b.String())

		for _, url := range cache.Entries {
			_, _ = fmt.Fprintln(w, "    "+url)
		}
	}
}

func entryCount(n int) string {
	if n == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", n)
}
