package imgtag

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Factory.
type Option func(*factoryConfig)

// factoryConfig holds the internal configuration for a Factory.
type factoryConfig struct {
	logger     *zap.Logger
	assets     AssetResolver
	theme      ThemeResolver
	colors     ColorExtractor
	httpClient HTTPClient
	fetchCache FetchCache
	registerer prometheus.Registerer
	settings   *Config
	debug      bool
	backends   []Backend
}

// defaultFactoryConfig returns the default factory configuration.
func defaultFactoryConfig() *factoryConfig {
	return &factoryConfig{
		settings: DefaultConfig(),
	}
}

// WithLogger sets the logger for the factory and its elements.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *factoryConfig) {
		c.logger = logger
	}
}

// WithAssetResolver sets the collaborator that locates uploaded assets.
// Without one, attachment elements are always invalid.
func WithAssetResolver(resolver AssetResolver) Option {
	return func(c *factoryConfig) {
		c.assets = resolver
	}
}

// WithThemeResolver sets the collaborator that locates theme files.
// Without one, relative paths are never classified as theme files.
func WithThemeResolver(resolver ThemeResolver) Option {
	return func(c *factoryConfig) {
		c.theme = resolver
	}
}

// WithColorExtractor sets the dominant color collaborator.
func WithColorExtractor(extractor ColorExtractor) Option {
	return func(c *factoryConfig) {
		c.colors = extractor
	}
}

// WithHTTPClient sets the client used for outbound fetches.
// Default: an *http.Client with the configured fetch timeout
func WithHTTPClient(client HTTPClient) Option {
	return func(c *factoryConfig) {
		c.httpClient = client
	}
}

// WithFetchCache sets the memo shared by fetches of one session.
// Default: a MemoryFetchCache sized by the fetch config
func WithFetchCache(cache FetchCache) Option {
	return func(c *factoryConfig) {
		c.fetchCache = cache
	}
}

// WithMetrics registers the factory's prometheus collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *factoryConfig) {
		c.registerer = reg
	}
}

// WithConfig replaces the file-level configuration.
func WithConfig(cfg *Config) Option {
	return func(c *factoryConfig) {
		if cfg != nil {
			c.settings = cfg
		}
	}
}

// WithDebugOutput renders one attribute per line.
func WithDebugOutput(debug bool) Option {
	return func(c *factoryConfig) {
		c.debug = debug
	}
}

// WithBackends registers additional backends after the built-in ones.
func WithBackends(backends ...Backend) Option {
	return func(c *factoryConfig) {
		c.backends = append(c.backends, backends...)
	}
}

func (c *factoryConfig) debugOutput() bool {
	return c.debug || c.settings.Debug
}

func (c *factoryConfig) client() HTTPClient {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: c.settings.Fetch.Timeout}
}

func (c *factoryConfig) cache() FetchCache {
	if c.fetchCache != nil {
		return c.fetchCache
	}
	return NewMemoryFetchCache(MemoryFetchCacheConfig{
		TTL:        c.settings.Fetch.TTL,
		MaxEntries: c.settings.Fetch.MaxEntries,
	})
}
