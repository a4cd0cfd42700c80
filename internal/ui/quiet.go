package ui

import "io"

// quietPresenter drops progress lines but still prints diagnostics.
type quietPresenter struct {
	w io.Writer
}

func (p *quietPresenter) Run(events <-chan Event) error {
	for ev := range events {
		if ev.Type.Diagnostic() {
			writeDiagnostic(p.w, ev)
		}
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return ""
}
