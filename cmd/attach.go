package cmd

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mj1618/hintnav/internal/dom"
	"github.com/mj1618/hintnav/internal/mode"
	"github.com/mj1618/hintnav/internal/tui"
)

var attachCmd = &cobra.Command{
	Use:   "attach",
	Short: "Drive the page interactively from the keyboard",
	Long: `Open an interactive session on the page. Keys typed in the terminal go
through the mode controller:

  f       enter hint mode and show badges
  a-z     narrow the labels; a unique full label activates
  Enter   activate the exact match
  i       focus the first known input (insert mode)
  v       visual caret mode
  Esc     cancel hints, or leave insert / visual caret
  q       quit (normal mode)

Changes on the page rescan active hints.`,
	RunE: runAttach,
}

func init() {
	rootCmd.AddCommand(attachCmd)
}

func runAttach(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	g, gctx := errgroup.WithContext(ctx)

	// The refresher needs the program, which needs the model, which needs
	// the controller; refresh stays a no-op until the program exists.
	refresh := func() {}
	opts := []mode.Option{
		mode.WithLogger(logger),
		mode.OnChange(func(from, to mode.Mode) { refresh() }),
	}
	if b, ok := s.provider.Backend.(dom.Blurrer); ok {
		opts = append(opts, mode.WithBlurrer(b))
	}
	ctl := mode.New(s.engine, opts...)

	p := tea.NewProgram(tui.NewModel(ctl, s.engine, s.provider.Target), tea.WithAltScreen(), tea.WithContext(gctx))
	refresh = tui.Refresher(p)

	if obs, ok := s.provider.Backend.(dom.Observable); ok {
		unsub := obs.Subscribe(func(dom.Notification) { refresh() })
		defer unsub()
	}
	s.engine.Start()

	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
	if w := s.provider.Watcher; w != nil {
		g.Go(func() error {
			if err := w.Watch(gctx); err != nil && gctx.Err() == nil {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}
