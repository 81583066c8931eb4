package viewpulse

import (
	"context"
	"fmt"
)

// Flow is a convenience builder that lets callers say Conf → From → To →
// Compute without touching the underlying hexagonal wiring.
type Flow struct {
	cfg  *Config
	opts []RuntimeOption
	err  error
}

// FlowOption mutates the Flow after configuration is loaded.
type FlowOption func(*Flow)

// Conf loads YAML from disk, applies FlowOption values, and returns a Flow builder.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return ConfFromConfig(cfg, opts...)
}

// ConfFromConfig bootstraps a Flow from an in-memory Config.
func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	f := &Flow{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// Config returns the underlying configuration so callers can tweak it before building a runtime.
func (f *Flow) Config() *Config {
	if f == nil {
		return nil
	}
	return f.cfg
}

// Options appends raw RuntimeOption values to the builder for advanced scenarios.
func (f *Flow) Options(opts ...RuntimeOption) *Flow {
	if f == nil {
		return nil
	}
	f.appendOptions(opts...)
	return f
}

// From reads rows from src instead of the configured source.
func (f *Flow) From(src RowSource) *Flow {
	if f == nil {
		return nil
	}
	if src == nil {
		f.fail(ErrNoSource)
		return f
	}
	f.appendOptions(WithSource(src))
	return f
}

// To writes the report to sink instead of the configured target.
func (f *Flow) To(sink ReportSink) *Flow {
	if f == nil {
		return nil
	}
	if sink == nil {
		f.fail(ErrNoSink)
		return f
	}
	f.appendOptions(WithSink(sink))
	return f
}

// ToCallback hands the finished report to fn.
func (f *Flow) ToCallback(name string, fn ReportBatchSink) *Flow {
	return f.To(NewCallbackSink(name, fn))
}

// Observe replaces the default observability backend.
func (f *Flow) Observe(obs Observability) *Flow {
	if f == nil {
		return nil
	}
	if obs != nil {
		f.appendOptions(WithObservability(obs))
	}
	return f
}

// Runtime builds the Runtime described by the flow.
func (f *Flow) Runtime() (*Runtime, error) {
	if f == nil {
		return nil, fmt.Errorf("flow is nil")
	}
	if f.err != nil {
		return nil, f.err
	}
	return NewRuntime(f.cfg, f.opts...)
}

// Compute is a shortcut for Runtime + Compute + Close.
func (f *Flow) Compute(ctx context.Context) (*ComputeResult, error) {
	rt, err := f.Runtime()
	if err != nil {
		return nil, err
	}
	defer rt.Close()
	return rt.Compute(ctx)
}

// Collect is a shortcut for Runtime + Collect + Close.
func (f *Flow) Collect(ctx context.Context) (*CollectResult, error) {
	rt, err := f.Runtime()
	if err != nil {
		return nil, err
	}
	defer rt.Close()
	return rt.Collect(ctx)
}

// WithFlowOptions appends RuntimeOption values during Conf.
func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return func(f *Flow) {
		if f != nil {
			f.appendOptions(opts...)
		}
	}
}

func (f *Flow) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

func (f *Flow) appendOptions(opts ...RuntimeOption) {
	for _, opt := range opts {
		if opt != nil {
			f.opts = append(f.opts, opt)
		}
	}
}
