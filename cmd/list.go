package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mj1618/hintnav/internal/config"
	"github.com/mj1618/hintnav/internal/dom/cdp"
	"github.com/mj1618/hintnav/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the pages of the DevTools endpoint",
	Long: `List every page open behind --cdp-url with its URL and title. The page
that --page would attach to is marked selected.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if cfg.Backend.Name != config.BackendCDP {
		return fmt.Errorf("list needs the %s backend, not %s", config.BackendCDP, cfg.Backend.Name)
	}
	pages, err := cdp.ListPages(cmd.Context(), cfg.Backend.CDPURL, cfg.Backend.PageMatch)
	if err != nil {
		return err
	}
	if pages == nil {
		pages = []cdp.Page{}
	}
	return output.Print(pages)
}
