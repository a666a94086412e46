package uploadrules

import (
	"github.com/gobeaver/beaver-kit/config"
)

type Config struct {
	// Size limit in bytes; 0 disables the filesize rule
	MaxSize int64 `env:"UPLOADRULES_MAX_SIZE,default:10485760"` // 10MB default

	// Allow-lists, comma-separated; empty disables the rule
	Extensions string `env:"UPLOADRULES_EXTENSIONS"`
	MIMETypes  string `env:"UPLOADRULES_MIME_TYPES"`

	// Content detector used by the mimetype rule (magic, mimetype, file)
	Detector string `env:"UPLOADRULES_DETECTOR,default:magic"`

	// Pixel bounds; 0 leaves a bound unset
	MinWidth  int `env:"UPLOADRULES_MIN_WIDTH,default:0"`
	MinHeight int `env:"UPLOADRULES_MIN_HEIGHT,default:0"`
	MaxWidth  int `env:"UPLOADRULES_MAX_WIDTH,default:0"`
	MaxHeight int `env:"UPLOADRULES_MAX_HEIGHT,default:0"`

	// Bytes read while decoding an image header
	HeaderLimit int64 `env:"UPLOADRULES_HEADER_LIMIT,default:524288"`

	// Attach content fingerprints to reports
	Fingerprint bool `env:"UPLOADRULES_FINGERPRINT,default:false"`
}

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
