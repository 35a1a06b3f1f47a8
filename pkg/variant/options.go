package variant

// Config is the configuration of the engine.
type Config struct {
	// DisableGeneration makes the engine return existing variants only.
	DisableGeneration bool `json:"disable_generation" yaml:"disable_generation"`
}

// Option configures one manipulation.
type Option func(*Options)

// Options are the options of one manipulation.
type Options struct {
	// Generate lets the engine produce missing variants.
	Generate bool
}

// WithoutGeneration only returns variants already stored.
func WithoutGeneration() Option {
	return func(o *Options) { o.Generate = false }
}

// WithGeneration overrides Config.DisableGeneration for one manipulation.
func WithGeneration() Option {
	return func(o *Options) { o.Generate = true }
}

func (e *Engine) makeOptions(options ...Option) *Options {
	o := &Options{Generate: !e.config.DisableGeneration}
	for _, apply := range options {
		apply(o)
	}
	return o
}
