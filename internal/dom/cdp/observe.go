package cdp

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/go-rod/rod/lib/proto"

	"github.com/mj1618/hintnav/internal/dom"
)

//go:embed observer.js
var observerJS string

const bindingName = "__hintnav_binding"

// Subscribe implements dom.Observable. The page-side observer is installed
// with the first subscriber and stays until Close.
func (d *Document) Subscribe(fn func(dom.Notification)) func() {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn
	if !d.observed {
		d.observed = true
		if err := d.observe(); err != nil {
			d.logger.Warn("cdp: mutation bridge unavailable", "err", err)
		}
	}
	return func() {
		d.subMu.Lock()
		defer d.subMu.Unlock()
		delete(d.subs, id)
	}
}

// observe bridges the injected MutationObserver and the trusted wheel and
// mousedown listeners to subscribers through a runtime binding.
func (d *Document) observe() error {
	if err := (proto.RuntimeAddBinding{Name: bindingName}).Call(d.page); err != nil {
		d.logger.Debug("cdp: add binding failed (may already exist)", "err", err)
	}

	ctx, cancel := context.WithCancel(d.page.GetContext())
	d.stopObs = cancel
	wait := d.page.Context(ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name != bindingName {
			return
		}
		n, ok := parseNotification(e.Payload)
		if !ok {
			d.logger.Debug("cdp: unknown binding payload", "payload", e.Payload)
			return
		}
		if n == dom.SubtreeChanged {
			d.Forget()
		}
		d.notify(n)
	})
	go wait()

	if _, err := d.page.EvalOnNewDocument(fmt.Sprintf("(%s)(%q)", observerJS, bindingName)); err != nil {
		d.logger.Debug("cdp: persist observer failed", "err", err)
	}
	if _, err := d.page.Eval(observerJS, bindingName); err != nil {
		cancel()
		return fmt.Errorf("inject observer: %w", err)
	}
	return nil
}

func parseNotification(payload string) (dom.Notification, bool) {
	switch payload {
	case "subtree":
		return dom.SubtreeChanged, true
	case "pointer":
		return dom.PointerActivity, true
	default:
		return 0, false
	}
}

func (d *Document) notify(n dom.Notification) {
	d.subMu.Lock()
	fns := make([]func(dom.Notification), 0, len(d.subs))
	for _, fn := range d.subs {
		fns = append(fns, fn)
	}
	d.subMu.Unlock()
	for _, fn := range fns {
		fn(n)
	}
}

// Close stops the mutation bridge and removes everything injected into
// the page. The page itself is left open.
func (d *Document) Close() error {
	d.subMu.Lock()
	stop := d.stopObs
	d.stopObs = nil
	d.subMu.Unlock()
	if stop != nil {
		stop()
	}
	_, err := d.page.Eval(`() => { if (window.__hintnavObserver) window.__hintnavObserver.disconnect(); }`)
	if rerr := d.RemoveOverlay(); err == nil {
		err = rerr
	}
	return err
}
