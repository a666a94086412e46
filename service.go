package uploadrules

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gobeaver/beaver-kit/config"
	"github.com/gobeaver/uploadrules/sniff"
)

// Global instance
var (
	defaultValidator *Validator
	defaultOnce      sync.Once
	defaultErr       error
)

// Builder loads configuration under a custom environment prefix
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// Init initializes the global Validator using the builder's prefix
func (b *Builder) Init() error {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return err
	}
	return Init(cfg)
}

// New creates a new Validator using the builder's prefix
func (b *Builder) New() (*Validator, error) {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return nil, err
	}
	return New(cfg)
}

// Init initializes the global Validator
func Init(configs ...*Config) error {
	defaultOnce.Do(func() {
		var cfg *Config
		if len(configs) > 0 {
			cfg = configs[0]
		} else {
			cfg, defaultErr = GetConfig()
			if defaultErr != nil {
				return
			}
		}

		defaultValidator, defaultErr = New(cfg)
	})

	return defaultErr
}

// New creates a Validator applying the configured rules to every field.
func New(cfg *Config) (*Validator, error) {
	table, err := NewTableFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var opts []ValidatorOption
	if cfg.Fingerprint {
		opts = append(opts, WithFingerprint())
	}

	v := NewValidator(table, opts...)
	if err := v.Bind("**", table.Names()...); err != nil {
		return nil, err
	}
	return v, nil
}

// NewTableFromConfig builds the rules enabled by cfg.
func NewTableFromConfig(cfg *Config) (*Table, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	table := NewTable()

	if cfg.MaxSize != 0 {
		rule, err := MaxSize(cfg.MaxSize)
		if err != nil {
			return nil, err
		}
		table.Add(rule)
	}

	if exts := splitList(cfg.Extensions); len(exts) > 0 {
		rule, err := Extensions(exts...)
		if err != nil {
			return nil, err
		}
		table.Add(rule)
	}

	if types := splitList(cfg.MIMETypes); len(types) > 0 {
		detector, err := sniff.ByName(cfg.Detector)
		if err != nil {
			return nil, err
		}
		rule, err := MIMETypes(detector, types...)
		if err != nil {
			return nil, err
		}
		table.Add(rule)
	}

	if bounds, ok := boundsFromConfig(cfg); ok {
		rule, err := Dimensions(bounds, WithHeaderLimit(cfg.HeaderLimit))
		if err != nil {
			return nil, err
		}
		table.Add(rule)
	}

	return table, nil
}

// boundsFromConfig treats zero values as unset bounds. Negative values are
// kept so that Dimensions rejects them.
func boundsFromConfig(cfg *Config) (Bounds, bool) {
	box := func(w, h int) *Box {
		if w == 0 && h == 0 {
			return nil
		}
		b := &Box{}
		if w != 0 {
			b.W = Px(w)
		}
		if h != 0 {
			b.H = Px(h)
		}
		return b
	}

	bounds := Bounds{
		Min: box(cfg.MinWidth, cfg.MinHeight),
		Max: box(cfg.MaxWidth, cfg.MaxHeight),
	}
	return bounds, bounds.Min != nil || bounds.Max != nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Default returns the global instance, initializing it from the environment
// on first use. It is safe to call concurrently with Init.
func Default() (*Validator, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	return defaultValidator, nil
}

// NewFromEnv creates instance from environment variables (convenience constructor)
func NewFromEnv() (*Validator, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg)
}

// Reset clears the global instance (for testing). It must not run
// concurrently with Init or Default.
func Reset() {
	defaultValidator = nil
	defaultOnce = sync.Once{}
	defaultErr = nil
}
