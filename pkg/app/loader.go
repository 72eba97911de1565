package app

import (
	"context"

	"github.com/glorpus-work/blnotebook/pkg/command"
	"github.com/glorpus-work/blnotebook/pkg/platform"
)

// Loader builds refined App records.
type Loader struct {
	Runner command.Runner
	HostOS platform.OSType
}

// NewLoader returns a Loader for the current host.
func NewLoader(runner command.Runner) *Loader {
	return &Loader{Runner: runner, HostOS: platform.HostOSType()}
}

// Load runs both construction phases: New, then Refine when the record is strict.
func (l *Loader) Load(ctx context.Context, spec Spec) (*App, error) {
	a, err := New(spec, l.HostOS)
	if err != nil {
		return nil, err
	}
	if !a.Strict() || l.Runner == nil {
		return a, nil
	}
	return a.Refine(ctx, l.Runner)
}
