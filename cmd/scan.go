package cmd

import (
	"fmt"
	"image"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/hintnav/internal/output"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Label every actionable element and print the hint report",
	Long: `Run one hint scan and print each hint: its label, element, bounds, badge
anchor, score and the discovery passes that found it.

With --annotate the viewport is captured (a wireframe for fixtures) and the
badges are drawn onto it. With --show the badges stay on the page until
interrupted.

Examples:
  hintnav scan
  hintnav scan --fixture testdata/chat.html --format json --pretty
  hintnav scan --page discord --annotate hints.png`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().String("annotate", "", "Write a PNG of the viewport with badges drawn to this path")
	scanCmd.Flags().Bool("show", false, "Leave badges on the page until interrupted")
}

func runScan(cmd *cobra.Command, args []string) error {
	annotate, _ := cmd.Flags().GetString("annotate")
	show, _ := cmd.Flags().GetBool("show")
	ctx := cmd.Context()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	vp, err := s.provider.Backend.Viewport()
	if err != nil {
		return fmt.Errorf("viewport: %w", err)
	}

	// Capture before the badges go on the page; they are drawn afterwards.
	var shot image.Image
	if annotate != "" {
		if shot, err = output.Capture(ctx, s.provider.Screenshotter, vp); err != nil {
			return err
		}
	}

	if err := s.engine.Enter(); err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	hints := s.engine.Hints()

	result := output.NewScanResult(s.provider.Name, vp, hints)
	result.Page = s.provider.Target
	if annotate != "" {
		data, err := output.AnnotatePNG(shot, vp, hints)
		if err != nil {
			return err
		}
		if err := os.WriteFile(annotate, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", annotate, err)
		}
		result.Image = annotate
	}
	if err := output.Print(result); err != nil {
		return err
	}

	if show {
		// Keep the badges in step with the page while they are shown.
		s.engine.Start()
		if w := s.provider.Watcher; w != nil {
			go func() {
				if err := w.Watch(ctx); err != nil && ctx.Err() == nil {
					logger.Warn("cmd: watcher stopped", "err", err)
				}
			}()
		}
		fmt.Fprintln(os.Stderr, "Badges shown. Press Ctrl-C to remove them.")
		<-ctx.Done()
	}
	return nil
}
