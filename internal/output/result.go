package output

import (
	"time"

	"github.com/mj1618/hintnav/internal/dom"
	"github.com/mj1618/hintnav/internal/hint"
)

// ScanResult is the top-level output of the `scan` command.
type ScanResult struct {
	Backend  string        `yaml:"backend"         json:"backend"`
	Page     string        `yaml:"page,omitempty"  json:"page,omitempty"`
	TS       int64         `yaml:"ts"              json:"ts"`
	Viewport dom.Size      `yaml:"viewport"        json:"viewport"`
	Hints    []hint.Report `yaml:"hints"           json:"hints"`
	Image    string        `yaml:"image,omitempty" json:"image,omitempty"`
}

// NewScanResult stamps a scan report with the current time.
func NewScanResult(backend string, vp dom.Size, hints []hint.Report) ScanResult {
	if hints == nil {
		hints = []hint.Report{}
	}
	return ScanResult{Backend: backend, TS: time.Now().Unix(), Viewport: vp, Hints: hints}
}

// ActivateResult is the output of the `activate` command and the
// hint_activate tool.
type ActivateResult struct {
	OK         bool         `yaml:"ok"                    json:"ok"`
	Label      string       `yaml:"label"                 json:"label"`
	Strategy   string       `yaml:"strategy,omitempty"    json:"strategy,omitempty"`
	Target     *hint.Report `yaml:"target,omitempty"      json:"target,omitempty"`
	KnownInput bool         `yaml:"known_input,omitempty" json:"known_input,omitempty"`
	Error      string       `yaml:"error,omitempty"       json:"error,omitempty"`
}

// NewActivateResult summarises an engine outcome.
func NewActivateResult(out hint.Outcome) ActivateResult {
	act := out.Activation
	r := ActivateResult{
		OK:         out.Resolved && act.OK(),
		Label:      out.Label,
		Target:     out.Target,
		KnownInput: act.KnownInput,
	}
	if act.Strategy != hint.StrategyNone {
		r.Strategy = act.Strategy.String()
	}
	if act.Err != nil {
		r.Error = act.Err.Error()
	}
	return r
}
