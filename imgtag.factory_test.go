package imgtag

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type cdnBackend struct {
	name     string
	keywords []string
}

func (b cdnBackend) TypeName() string                { return b.name }
func (b cdnBackend) Keywords() []string              { return b.keywords }
func (b cdnBackend) SettingDefaults() map[string]any { return map[string]any{"key": nil} }

func (b cdnBackend) SettingHooks() StoreHooks {
	return StoreHooks{SetByName: map[string]SetFunc{"key": StringSetting}}
}

func (b cdnBackend) New(_ context.Context, img *Image) SourceGenerator {
	return &cdnGenerator{img: img, name: b.name}
}

type cdnGenerator struct {
	img  *Image
	name string
}

func (g *cdnGenerator) Types() []string { return []string{g.name, TypeExternal} }

func (g *cdnGenerator) GenerateSource() string {
	if key := g.img.Settings().Text("key"); key != "" {
		return "https://cdn.test/" + key
	}
	return ""
}

func (g *cdnGenerator) ValidationChecks() []error {
	if g.img.Source() == "" {
		return []error{NewValidationFailure(g.name, ErrMsgMissingSrc)}
	}
	return nil
}

func (g *cdnGenerator) Rebind(img *Image) SourceGenerator {
	return &cdnGenerator{img: img, name: g.name}
}

func TestNewFactory(t *testing.T) {
	f, err := NewFactory()
	require.NoError(t, err)

	assert.Equal(t, []string{
		TypeAttachment, TypeJoeSchmoe, TypePicsum, TypePlaceholder, TypeRemote, TypeTheme, TypeUnsplash,
	}, f.Types())
	assert.Equal(t, []string{
		KeywordDimensionPlaceholder, TypeJoeSchmoe, KeywordJokeAvatar, KeywordPhotoPlaceholder,
		TypePicsum, TypePlaceholder, KeywordSceneSource, TypeUnsplash,
	}, f.Keywords())
	assert.NotNil(t, f.Session())
}

func TestNewFactory_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Services.PicsumBaseURL = "not a url"

	_, err := NewFactory(WithConfig(cfg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgConfigInvalid)

	assert.Panics(t, func() { MustNewFactory(WithConfig(cfg)) })
}

func TestNewFactory_DuplicateMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := NewFactory(WithMetrics(reg))
	require.NoError(t, err)

	_, err = NewFactory(WithMetrics(reg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgMetricsRegister)
}

func TestFactory_CreateClassification(t *testing.T) {
	ctx := context.Background()
	f := newTestFactory(t,
		WithAssetResolver(testAssets()),
		WithThemeResolver(newTestThemeResolver(t)),
	)

	tests := []struct {
		name   string
		source any
		want   string
	}{
		{"int", 42, TypeAttachment},
		{"int64", int64(42), TypeAttachment},
		{"digit string", " 42 ", TypeAttachment},
		{"keyword", "picsum", TypePicsum},
		{"keyword any case", "Photo-Placeholder", TypePicsum},
		{"https", "https://example.com/a.jpg", TypeRemote},
		{"http", "HTTP://example.com/a.jpg", TypeRemote},
		{"protocol relative", "//cdn.example.com/a.jpg", TypeRemote},
		{"theme path", "img/logo.png", TypeTheme},
		{"unknown path", "img/none.png", TypeBase},
		{"zero", 0, TypeBase},
		{"negative", -5, TypeBase},
		{"empty", "", TypeBase},
		{"unsupported", 1.5, TypeBase},
		{"nil", nil, TypeBase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Create(ctx, tt.source, nil, nil).Type())
		})
	}
}

func TestFactory_UnresolvedSourceKeepsInput(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	f := newTestFactory(t, WithLogger(zap.New(core)))

	img := f.Create(context.Background(), "nowhere", map[string]any{"src": "fallback.jpg"}, map[string]any{"note": "kept"})

	assert.Equal(t, TypeBase, img.Type())
	assert.Equal(t, `<img src="fallback.jpg" alt="" />`, img.Output())
	assert.Equal(t, "kept", img.Setting("note"))
	assert.Equal(t, 1, logs.FilterMessage(LogMsgSourceUnresolved).Len())
}

func TestFactory_CreateType(t *testing.T) {
	ctx := context.Background()
	f := newTestFactory(t)

	img := f.CreateType(ctx, TypePlaceholder, nil, map[string]any{"width": 10})
	assert.Equal(t, "https://via.placeholder.com/10x10", img.Source())

	unknown := f.CreateType(ctx, "nope", map[string]any{"src": "a.jpg"}, nil)
	assert.Equal(t, TypeBase, unknown.Type())
	assert.Equal(t, "a.jpg", unknown.Source())
}

func TestFactory_RemoteSourceWinsOverSrcAttribute(t *testing.T) {
	f := newTestFactory(t)
	img := f.Create(context.Background(), "https://example.com/a.jpg", map[string]any{"src": "other.jpg"}, nil)
	assert.Equal(t, "https://example.com/a.jpg", img.Source())
}

func TestFactory_Register(t *testing.T) {
	ctx := context.Background()
	f := newTestFactory(t, WithBackends(cdnBackend{name: "cdn", keywords: []string{"my-cdn", "picsum"}}))

	assert.Contains(t, f.Types(), "cdn")
	assert.Contains(t, f.Keywords(), "my-cdn")

	img := f.Create(ctx, "MY-CDN", nil, map[string]any{"key": "a.jpg"})
	assert.Equal(t, "cdn", img.Type())
	assert.Equal(t, `<img src="https://cdn.test/a.jpg" alt="" />`, img.Output())

	assert.Equal(t, TypePicsum, f.Create(ctx, "picsum", nil, nil).Type(), "built-in keywords are claimed first")

	assert.Error(t, f.Register(cdnBackend{name: "cdn"}))
	assert.Error(t, f.Register(cdnBackend{name: ""}))
	assert.Panics(t, func() { f.MustRegister(cdnBackend{name: TypePicsum}) })

	_, err := NewFactory(WithBackends(cdnBackend{name: TypeRemote}))
	assert.Error(t, err)
}

func TestFactory_DebugOutput(t *testing.T) {
	f := newTestFactory(t, WithDebugOutput(true))
	img := f.Create(context.Background(), "https://example.com/a.jpg", nil, nil)
	assert.Equal(t, "<img \nsrc=\"https://example.com/a.jpg\"\nalt=\"\" />", img.Output())
}

func TestImage_OutputFragments(t *testing.T) {
	f := newTestFactory(t)
	img := f.Create(context.Background(), "https://example.com/a.jpg", nil, map[string]any{
		SettingBeforeOutput: "<figure>",
		SettingAfterOutput:  map[int]string{20: "</figure>", 5: "<figcaption>A</figcaption>"},
	})

	assert.Equal(t,
		"<figure>\n<img src=\"https://example.com/a.jpg\" alt=\"\" />\n<figcaption>A</figcaption>\n</figure>",
		img.Output())
}

func TestImage_CloneIsIndependent(t *testing.T) {
	f := newTestFactory(t)
	img := f.Create(context.Background(), "picsum", nil, map[string]any{"width": 100})

	clone := img.Clone()
	require.NoError(t, clone.SetSetting("width", 200))
	require.NoError(t, clone.SetAttribute("class", "hero"))

	assert.Equal(t, "https://picsum.photos/100/100", img.Source())
	assert.Equal(t, "https://picsum.photos/200/200", clone.Source())
	assert.Nil(t, img.Attr("class"))
	assert.Equal(t, "hero", clone.Attr("class"))
}

func TestImage_Render(t *testing.T) {
	f := newTestFactory(t)
	img := f.Create(context.Background(), "https://example.com/a.jpg", nil, nil)

	var b strings.Builder
	require.NoError(t, img.Render(context.Background(), &b))
	assert.Equal(t, img.Output(), b.String())
}
