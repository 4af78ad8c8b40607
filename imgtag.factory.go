package imgtag

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/itsatony/go-imgtag/internal"
)

// Factory classifies sources and builds image elements. It owns the backend
// registry and the session state shared by the elements it creates.
// A Factory is safe for concurrent use; the elements it returns are not.
type Factory struct {
	config   *factoryConfig
	registry *internal.Registry
	session  *Session
	diag     *diagnostics
	logger   *zap.Logger
}

// NewFactory creates a Factory with the built-in backends and any added
// with WithBackends.
func NewFactory(opts ...Option) (*Factory, error) {
	config := defaultFactoryConfig()
	for _, opt := range opts {
		opt(config)
	}
	if err := config.settings.Validate(); err != nil {
		return nil, err
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var metrics *Metrics
	if config.registerer != nil {
		m, err := registerMetrics(config.registerer)
		if err != nil {
			return nil, err
		}
		metrics = m
	}
	diag := newDiagnostics(logger, metrics)

	if config.theme == nil && len(config.settings.Theme) > 0 {
		config.theme = NewFilesystemThemeResolver(config.settings.Theme...)
	}
	if config.colors == nil {
		config.colors = QuantizingColorExtractor{}
	}

	f := &Factory{
		config:   config,
		registry: internal.NewRegistry(logger),
		session:  NewSession(newFetcher(config.client(), config.cache(), config.settings.Fetch.MaxBodySize, diag)),
		diag:     diag,
		logger:   logger,
	}

	for _, backend := range append(builtinBackends(), config.backends...) {
		if err := f.Register(backend); err != nil {
			return nil, err
		}
	}

	logger.Debug(LogMsgFactoryCreated, zap.Strings(LogFieldBackend, f.Types()))
	return f, nil
}

// MustNewFactory creates a Factory and panics on error.
func MustNewFactory(opts ...Option) *Factory {
	f, err := NewFactory(opts...)
	if err != nil {
		panic(err)
	}
	return f
}

func builtinBackends() []Backend {
	return []Backend{
		remoteBackend{},
		attachmentBackend{},
		themeBackend{},
		picsumBackend{},
		placeholderBackend{},
		joeSchmoeBackend{},
		unsplashBackend{},
	}
}

// registerMetrics turns the registration panic of promauto into an error.
func registerMetrics(reg prometheus.Registerer) (m *Metrics, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}
			m, err = nil, NewConfigError(ErrMsgMetricsRegister, cause)
		}
	}()
	return NewMetrics(reg), nil
}

// Register adds a backend. Type names must be unique; keywords already
// claimed by an earlier backend are skipped.
func (f *Factory) Register(backend Backend) error {
	if err := f.registry.Register(backend); err != nil {
		f.logger.Warn(LogMsgBackendRejected, zap.Error(err))
		return err
	}
	return nil
}

// MustRegister adds a backend and panics if registration fails.
func (f *Factory) MustRegister(backend Backend) {
	if err := f.Register(backend); err != nil {
		panic(err)
	}
}

// Types returns the registered element types, sorted.
func (f *Factory) Types() []string {
	return f.registry.List()
}

// Keywords returns the registered source keywords, sorted.
func (f *Factory) Keywords() []string {
	return f.registry.Keywords()
}

// Session returns the per-request state shared by the factory's elements.
func (f *Factory) Session() *Session {
	return f.session
}

// Reset starts a new session: the random counter restarts and the fetch
// memo is cleared.
func (f *Factory) Reset(ctx context.Context) error {
	f.logger.Debug(LogMsgSessionReset)
	return f.session.Reset(ctx)
}

// Create classifies source and builds the matching element:
//
//   - an integer, or a string of digits, is an attachment id
//   - a registered keyword selects that service
//   - an absolute or protocol-relative URL is a remote image
//   - a relative path the theme resolver can locate is a theme file
//
// Anything else is reported and yields a base element carrying attrs and
// settings, which is invalid unless attrs holds a src.
func (f *Factory) Create(ctx context.Context, source any, attrs, settings map[string]any) *Image {
	if id, ok := attachmentID(source); ok {
		return f.CreateType(ctx, TypeAttachment, attrs, withValue(settings, SettingID, id))
	}

	text, ok := source.(string)
	if !ok {
		if stringer, isStringer := source.(fmt.Stringer); isStringer {
			text, ok = stringer.String(), true
		}
	}
	text = strings.TrimSpace(text)
	if ok && text != StringValueEmpty {
		if backend, found := f.registry.Lookup(text); found {
			return f.build(ctx, backend.(Backend), attrs, settings)
		}
		if isRemoteURL(text) {
			return f.CreateType(ctx, TypeRemote, withValue(attrs, AttrSrc, text), settings)
		}
		if f.config.theme != nil {
			if _, err := f.config.theme.ResolveThemeFile(ctx, text); err == nil {
				return f.CreateType(ctx, TypeTheme, attrs, withValue(settings, SettingPath, text))
			}
		}
	}

	f.diag.sourceUnresolved(ctx, source)
	return f.build(ctx, nil, attrs, settings)
}

// CreateType builds an element of a registered type. An unknown type is
// reported and yields a base element.
func (f *Factory) CreateType(ctx context.Context, typeName string, attrs, settings map[string]any) *Image {
	if typeName == TypeBase || typeName == StringValueEmpty {
		return f.build(ctx, nil, attrs, settings)
	}
	backend, ok := f.registry.Get(typeName)
	if !ok {
		f.diag.unknownType(ctx, typeName)
		return f.build(ctx, nil, attrs, settings)
	}
	return f.build(ctx, backend.(Backend), attrs, settings)
}

func (f *Factory) build(ctx context.Context, backend Backend, attrs, settings map[string]any) *Image {
	img := &Image{factory: f, diag: f.diag}

	var defaults map[string]any
	var hooks StoreHooks
	if backend != nil {
		defaults = backend.SettingDefaults()
		if provider, ok := backend.(SettingHooksProvider); ok {
			hooks = provider.SettingHooks()
		}
	}
	img.settings = newSettingStore(defaults, hooks, settings, f.diag)
	img.attributes = newAttributeStore(attrs, f.diag)
	img.attributes.SetDebug(f.config.debugOutput())
	img.attributes.SetResolver(img)

	if backend != nil {
		img.generator = backend.New(ctx, img)
	}
	f.diag.elementCreated(img.Type())
	return img
}

// attachmentID accepts positive integers and strings of digits.
func attachmentID(source any) (int, bool) {
	switch v := source.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		id, ok := internal.ToInt(v)
		return int(id), ok && id > 0
	case string:
		s := strings.TrimSpace(v)
		if s == StringValueEmpty || strings.TrimLeft(s, digits) != StringValueEmpty {
			return 0, false
		}
		id, err := strconv.Atoi(s)
		return id, err == nil && id > 0
	}
	return 0, false
}

func isRemoteURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, URLSchemeHTTP) ||
		strings.HasPrefix(lower, URLSchemeHTTPS) ||
		strings.HasPrefix(lower, URLSchemeRelative)
}

// withValue returns a copy of values with key set.
func withValue(values map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(values)+1)
	maps.Copy(out, values)
	out[key] = value
	return out
}
