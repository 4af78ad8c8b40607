package imgtag

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the file-level configuration of a Factory. Values missing from
// a config file keep their defaults.
type Config struct {
	Services ServicesConfig `yaml:"services"`
	Lazyload LazyloadConfig `yaml:"lazyload"`
	Noscript NoscriptConfig `yaml:"noscript"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Theme    []ThemeRoot    `yaml:"theme_roots" validate:"dive"`
	Assets   AssetsConfig   `yaml:"assets"`
	Debug    bool           `yaml:"debug"`
}

// AssetsConfig names the asset store a host opens with OpenAssetStore.
// An empty driver means attachments are not available.
type AssetsConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn" validate:"required_if=Driver postgres"`
}

// ServicesConfig holds the base URLs of the placeholder services.
type ServicesConfig struct {
	PicsumBaseURL      string `yaml:"picsum_base_url" validate:"required,url,endswith=/"`
	PlaceholderBaseURL string `yaml:"placeholder_base_url" validate:"required,url,endswith=/"`
	JoeSchmoeBaseURL   string `yaml:"joeschmoe_base_url" validate:"required,url,endswith=/"`
	UnsplashBaseURL    string `yaml:"unsplash_base_url" validate:"required,url,endswith=/"`
}

// LazyloadConfig holds the defaults of Image.Lazyload.
type LazyloadConfig struct {
	Placeholder      string   `yaml:"placeholder" validate:"required"`
	Classes          []string `yaml:"classes" validate:"dive,required"`
	Noscript         bool     `yaml:"noscript"`
	NoscriptPriority int      `yaml:"noscript_priority"`
	SizesAuto        bool     `yaml:"sizes_auto"`
}

// NoscriptConfig holds the defaults of Image.Noscript.
type NoscriptConfig struct {
	Class          string `yaml:"class" validate:"required"`
	BeforePriority int    `yaml:"before_priority"`
	AfterPriority  int    `yaml:"after_priority" validate:"gtfield=BeforePriority"`
}

// FetchConfig sizes the fetch memo and the outbound client.
type FetchConfig struct {
	TTL         time.Duration `yaml:"ttl" validate:"gte=0"`
	MaxEntries  int           `yaml:"max_entries" validate:"gte=0"`
	MaxBodySize int64         `yaml:"max_body_size" validate:"gte=0"`
	Timeout     time.Duration `yaml:"timeout" validate:"gte=0"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Services: ServicesConfig{
			PicsumBaseURL:      DefaultPicsumBaseURL,
			PlaceholderBaseURL: DefaultPlaceholderBaseURL,
			JoeSchmoeBaseURL:   DefaultJoeSchmoeBaseURL,
			UnsplashBaseURL:    DefaultUnsplashBaseURL,
		},
		Lazyload: LazyloadConfig{
			Placeholder:      BlankImageDataURI,
			Classes:          []string{ClassLazyload, ClassHideIfNoJS},
			Noscript:         true,
			NoscriptPriority: LazyloadNoscriptPriority,
			SizesAuto:        true,
		},
		Noscript: NoscriptConfig{
			Class:          ClassNoJS,
			BeforePriority: NoscriptBeforePriority,
			AfterPriority:  NoscriptAfterPriority,
		},
		Fetch: FetchConfig{
			TTL:         DefaultFetchCacheTTL,
			MaxEntries:  DefaultFetchCacheMaxEntries,
			MaxBodySize: DefaultFetchMaxBodySize,
			Timeout:     DefaultFetchTimeout,
		},
	}
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError(ErrMsgConfigRead, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML onto DefaultConfig and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, NewConfigError(ErrMsgConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var configValidator = validator.New()

// Validate checks the config against its field rules.
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return NewConfigError(ErrMsgConfigInvalid, err)
	}
	return nil
}
