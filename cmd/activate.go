package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mj1618/hintnav/internal/hint"
	"github.com/mj1618/hintnav/internal/output"
)

var activateCmd = &cobra.Command{
	Use:   "activate LABEL",
	Short: "Scan, type a hint label and activate its element",
	Long: `Run a scan, type LABEL one key at a time and confirm with Enter, then
report which dispatch strategy reached the element. Exits non-zero when
nothing was activated.

Examples:
  hintnav activate as
  hintnav activate F --fixture testdata/chat.html`,
	Args: cobra.ExactArgs(1),
	RunE: runActivate,
}

func init() {
	rootCmd.AddCommand(activateCmd)
}

func runActivate(cmd *cobra.Command, args []string) error {
	label := strings.ToUpper(strings.TrimSpace(args[0]))

	s, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.engine.Enter(); err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	var labels []string
	for _, h := range s.engine.Hints() {
		labels = append(labels, h.Label)
	}
	if !slices.Contains(labels, label) {
		result := output.ActivateResult{Label: label, Error: fmt.Sprintf("%v: %q", hint.ErrUnknownLabel, label)}
		if err := output.Print(result); err != nil {
			return err
		}
		return errActivationFailed
	}

	out := typeLabel(s.engine, label)
	result := output.NewActivateResult(out)
	if err := output.Print(result); err != nil {
		return err
	}
	if !result.OK {
		return errActivationFailed
	}
	return nil
}

// typeLabel types label into the engine and confirms it with Enter unless
// the letters alone resolved it.
func typeLabel(e *hint.Engine, label string) hint.Outcome {
	var out hint.Outcome
	for _, r := range label {
		if out = e.ForwardKey(string(r)); out.Resolved {
			return out
		}
	}
	return e.ForwardKey(hint.KeyEnter)
}
