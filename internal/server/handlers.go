package server

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/hintnav/internal/hint"
	"github.com/mj1618/hintnav/internal/output"
)

// KeysResult is the response of hint_keys.
type KeysResult struct {
	Active    bool                   `yaml:"active"              json:"active"`
	Typed     string                 `yaml:"typed,omitempty"     json:"typed,omitempty"`
	Aborted   bool                   `yaml:"aborted,omitempty"   json:"aborted,omitempty"`
	Matching  []string               `yaml:"matching,omitempty"  json:"matching,omitempty"`
	Activated *output.ActivateResult `yaml:"activated,omitempty" json:"activated,omitempty"`
}

// toText serializes a result to YAML for an MCP response.
func toText(v any) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

// ensureActiveLocked enters hint mode when no session is running.
// The caller must hold providerMu.
func (s *Server) ensureActiveLocked() error {
	if s.engine.Active() {
		return nil
	}
	if err := s.engine.Enter(); err != nil {
		return err
	}
	s.cache.Mark()
	return nil
}

func (s *Server) handleScan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	fresh := BoolParam(params, "fresh", false)
	annotate := BoolParam(params, "annotate", false)

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	vp, err := s.provider.Backend.Viewport()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("viewport: %v", err)), nil
	}

	var png []byte
	if annotate {
		// Capture without the in-page badges, then draw them ourselves.
		s.engine.Exit()
		s.cache.Invalidate()
		img, err := output.Capture(ctx, s.provider.Screenshotter, vp)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.ensureActiveLocked(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if png, err = output.AnnotatePNG(img, vp, s.engine.Hints()); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	} else if fresh || !s.engine.Active() || !s.cache.Fresh() {
		if err := s.engine.Enter(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		s.cache.Mark()
	}

	result := output.NewScanResult(s.provider.Name, vp, s.engine.Hints())
	result.Page = s.provider.Target
	text := mcp.TextContent{Type: "text", Text: toText(result)}
	if png == nil {
		return &mcp.CallToolResult{Content: []mcp.Content{text}}, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			text,
			mcp.ImageContent{
				Type:     "image",
				Data:     base64.StdEncoding.EncodeToString(png),
				MIMEType: "image/png",
			},
		},
	}, nil
}

func (s *Server) handleKeys(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	keys, err := SplitKeys(StringParam(params, "keys", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(keys) == 0 {
		return mcp.NewToolResultError("keys is required"), nil
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	if err := s.ensureActiveLocked(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result KeysResult
	for _, k := range keys {
		out := s.engine.ForwardKey(k)
		if out.Aborted {
			result.Aborted = true
			break
		}
		if out.Resolved {
			act := output.NewActivateResult(out)
			result.Activated = &act
			break
		}
	}

	result.Active = s.engine.Active()
	if result.Active {
		result.Typed = s.engine.Typed()
		for _, h := range s.engine.Hints() {
			if h.Match {
				result.Matching = append(result.Matching, h.Label)
			}
		}
	}
	if result.Activated != nil && !result.Activated.OK {
		return mcp.NewToolResultError(toText(result)), nil
	}
	return mcp.NewToolResultText(toText(result)), nil
}

func (s *Server) handleActivate(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	label := StringParam(params, "label", "")
	if label == "" {
		return mcp.NewToolResultError("label is required"), nil
	}

	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	if err := s.ensureActiveLocked(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := s.engine.Activate(label)
	if err != nil {
		result := output.ActivateResult{Label: label, Error: err.Error()}
		if errors.Is(err, hint.ErrUnknownLabel) {
			// The session stays up so the caller can pick another label.
			result.Error += " (call hint_scan for current labels)"
		}
		return mcp.NewToolResultError(toText(result)), nil
	}

	result := output.NewActivateResult(out)
	if !result.OK {
		return mcp.NewToolResultError(toText(result)), nil
	}
	return mcp.NewToolResultText(toText(result)), nil
}

func (s *Server) handleExit(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.providerMu.Lock()
	defer s.providerMu.Unlock()

	s.engine.Exit()
	s.cache.Invalidate()
	return mcp.NewToolResultText(toText(KeysResult{Active: false})), nil
}
