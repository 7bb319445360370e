package loom

import "github.com/loom-dev/loom/pkg/debounce"

// UpdateMode selects how bound DOM writes are applied.
type UpdateMode uint8

const (
	// Batched coalesces writes per binding site; only the last scheduled
	// write for a site survives when the current batch drains. The default.
	Batched UpdateMode = iota
	// Eager applies every write synchronously and immediately.
	Eager
)

// String returns the mode's name.
func (m UpdateMode) String() string {
	switch m {
	case Batched:
		return "batched"
	case Eager:
		return "eager"
	default:
		return "unknown"
	}
}

// Options configures binding entry points.
type Options struct {
	// Mode is the DOM update mode.
	Mode UpdateMode

	// Serializer is the per-call partial serializer, consulted before the
	// global one.
	Serializer Serializer

	// DebounceWatches coalesces watch re-evaluation on its own debouncer.
	// Disabling forces synchronous re-evaluation on every dependency change.
	DebounceWatches bool

	// Loop backs batched writes and watch debouncing. Defaults to the
	// shared module loop; tests inject their own for isolation.
	Loop *debounce.Loop
}

// Option mutates Options.
type Option func(*Options)

func buildOptions(opts []Option) *Options {
	o := &Options{
		Mode:            Batched,
		DebounceWatches: true,
		Loop:            debounce.Shared(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithMode sets the DOM update mode.
func WithMode(m UpdateMode) Option {
	return func(o *Options) { o.Mode = m }
}

// WithSerializer sets the per-call partial serializer.
func WithSerializer(s Serializer) Option {
	return func(o *Options) { o.Serializer = s }
}

// WithWatchDebounce enables or disables watch re-evaluation debouncing.
func WithWatchDebounce(enabled bool) Option {
	return func(o *Options) { o.DebounceWatches = enabled }
}

// WithLoop sets the scheduler loop used for batching and watch debouncing.
func WithLoop(l *debounce.Loop) Option {
	return func(o *Options) { o.Loop = l }
}

// asOptionList converts resolved options back to the functional form, for
// nested Render calls that must inherit the parent's configuration.
func (o *Options) asOptionList() []Option {
	return []Option{func(dst *Options) { *dst = *o }}
}
