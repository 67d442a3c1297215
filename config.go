package googlestt

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultEndpoint     = "speech.googleapis.com:443"
	DefaultLanguageCode = "en-US"

	// DefaultModel is a sentinel: when the model equals it, the model field
	// is omitted from the configuration frame and the service picks one.
	DefaultModel = "default"

	DefaultSampleRate = 16000
)

// Config is the process-wide recognition defaults. It is a value snapshot:
// every session copies the fields it needs at creation time, so reloading a
// config file never perturbs sessions that already exist.
type Config struct {
	// ServiceAccountKeyPath points at a service-account JSON key. When empty
	// or unreadable, ambient default credentials are used instead.
	ServiceAccountKeyPath string `yaml:"service_account_key_path"`

	LanguageCode               string `yaml:"language_code"`
	Model                      string `yaml:"model"`
	EnableAutomaticPunctuation bool   `yaml:"enable_automatic_punctuation"`

	// Endpoint overrides the service endpoint, mainly for testing.
	Endpoint string `yaml:"endpoint"`

	// StreamTimeout, when positive, bounds the whole stream lifetime by
	// attaching a deadline to the stream context at Start time.
	StreamTimeout time.Duration `yaml:"stream_timeout"`
}

func (c *Config) applyDefaults() {
	if c.LanguageCode == "" {
		c.LanguageCode = DefaultLanguageCode
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	var c Config
	c.applyDefaults()
	return c
}

// LoadConfig reads a YAML configuration file. A missing file is not an
// error: the built-in defaults apply. A present but unparsable file is a
// config error.
func LoadConfig(path string) (Config, error) {
	var c Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c.applyDefaults()
			return c, nil
		}
		return c, NewErrorWithCause(ErrorStatusConfig, fmt.Sprintf("failed to read %s", path), err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, NewErrorWithCause(ErrorStatusConfig, fmt.Sprintf("failed to parse %s", path), err)
	}
	c.applyDefaults()
	return c, nil
}

// SessionConfig is the per-session copy of the recognition parameters.
type SessionConfig struct {
	Name                       string
	LanguageCode               string
	Model                      string
	SampleRate                 int
	EnableAutomaticPunctuation bool
	StreamTimeout              time.Duration
}
