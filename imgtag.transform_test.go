package imgtag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNoscriptFallback = "<noscript>\n" +
	`<img src="https://example.com/a.jpg" srcset="a-300.jpg 300w, a-600.jpg 600w" sizes="100vw" class="photo no-js" alt="A" />` +
	"\n</noscript>"

func newResponsiveImage(t *testing.T, f *Factory) *Image {
	t.Helper()
	return f.Create(context.Background(), "https://example.com/a.jpg", map[string]any{
		"srcset": "a-300.jpg 300w, a-600.jpg 600w",
		"sizes":  "100vw",
		"class":  "photo",
		"alt":    "A",
	}, nil)
}

type fixedColors []string

func (c fixedColors) ExtractDominantColors(context.Context, string, int) ([]string, error) {
	if len(c) == 0 {
		return nil, errors.New("no colors")
	}
	return c, nil
}

func TestLazyload(t *testing.T) {
	f := newTestFactory(t)
	img := newResponsiveImage(t, f)
	original := img.Output()

	lazy := img.Lazyload()

	assert.Equal(t,
		`<img src="`+BlankImageDataURI+`" data-src="https://example.com/a.jpg" data-srcset="a-300.jpg 300w, a-600.jpg 600w" data-sizes="100vw" class="photo lazyload hide-if-no-js" alt="A" />`+
			"\n"+testNoscriptFallback,
		lazy.Output())
	assert.Equal(t, original, img.Output(), "the receiver is not modified")
	assert.Equal(t, TypeRemote, lazy.Type())
}

func TestLazyload_ComputedSource(t *testing.T) {
	f := newTestFactory(t)
	img := f.Create(context.Background(), "picsum", nil, map[string]any{"width": 300, "height": 200})

	lazy := img.Lazyload(WithoutNoscript())

	assert.Equal(t, "https://picsum.photos/300/200", lazy.Attr(AttrDataSrc))
	assert.Equal(t, BlankImageDataURI, lazy.Source())
	assert.Nil(t, lazy.Settings().GetOutput(SettingAfterOutput))
}

func TestLazyload_RandomSourceIsShared(t *testing.T) {
	f := newTestFactory(t)
	img := f.Create(context.Background(), "picsum", nil, map[string]any{"width": 300, "random": true})

	lazy := img.Lazyload()
	const src = "https://picsum.photos/300/300?random=1"

	assert.Equal(t, src, lazy.Attr(AttrDataSrc))
	fallback := lazy.Settings().GetOutput(SettingAfterOutput)
	require.Len(t, fallback, 1)
	assert.Contains(t, fallback[0], `src="`+src+`"`)
	assert.Equal(t, src, img.Source(), "the source element keeps its value")

	next := f.Create(context.Background(), "picsum", nil, map[string]any{"width": 300, "random": true})
	assert.Equal(t, "https://picsum.photos/300/300?random=2", next.Source())
}

func TestLazyload_SizesAuto(t *testing.T) {
	f := newTestFactory(t)
	img := f.Create(context.Background(), "https://example.com/a.jpg", map[string]any{
		"srcset": "a-300.jpg 300w",
	}, nil)

	assert.Equal(t, DataSizesAuto, img.Lazyload().Attr(AttrDataSizes))
	assert.Nil(t, img.Lazyload(WithSizesAuto(false)).Attr(AttrDataSizes))

	plain := f.Create(context.Background(), "https://example.com/a.jpg", nil, nil)
	assert.Nil(t, plain.Lazyload().Attr(AttrDataSizes), "no srcset, no sizes")
}

func TestLazyload_Options(t *testing.T) {
	f := newTestFactory(t)
	img := newResponsiveImage(t, f)
	require.NoError(t, img.Settings().AddOutput(SettingAfterOutput, "<p>cap</p>"))

	t.Run("default priority puts the fallback first", func(t *testing.T) {
		after := img.Lazyload().Settings().GetOutput(SettingAfterOutput)
		assert.Equal(t, []string{testNoscriptFallback, "<p>cap</p>"}, after)
	})

	t.Run("custom priority", func(t *testing.T) {
		after := img.Lazyload(WithNoscriptPriority(50)).Settings().GetOutput(SettingAfterOutput)
		assert.Equal(t, []string{"<p>cap</p>", testNoscriptFallback}, after)
	})

	t.Run("overrides", func(t *testing.T) {
		lazy := img.Lazyload(
			WithLazyAttributes(map[string]any{"class": "custom"}),
			WithLazySettings(map[string]any{SettingBeforeOutput: "<div>"}),
		)
		assert.Equal(t, "custom", lazy.Attr(AttrClass))
		assert.Equal(t, []string{"<div>"}, lazy.Settings().GetOutput(SettingBeforeOutput))
	})
}

func TestLazyload_ConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lazyload.Classes = []string{"lazy"}
	cfg.Lazyload.Placeholder = "/blank.gif"
	cfg.Lazyload.Noscript = false
	f := newTestFactory(t, WithConfig(cfg))

	lazy := f.Create(context.Background(), "https://example.com/a.jpg", nil, nil).Lazyload()

	assert.Equal(t, `<img src="/blank.gif" data-src="https://example.com/a.jpg" class="lazy" alt="" />`, lazy.Output())
}

func TestLazyload_ColorPlaceholder(t *testing.T) {
	ctx := context.Background()
	f := newTestFactory(t, WithThemeResolver(newTestThemeResolver(t)))
	img := f.Create(ctx, "img/logo.png", nil, nil)

	t.Run("factory extractor", func(t *testing.T) {
		lazy := img.Lazyload(WithoutNoscript(), WithColorPlaceholder(ctx, nil))
		assert.Equal(t, "background-color: #ffffff", lazy.Attr(AttrStyle))
	})

	t.Run("custom extractor", func(t *testing.T) {
		lazy := img.Lazyload(WithoutNoscript(), WithColorPlaceholder(ctx, fixedColors{"#123456"}))
		assert.Equal(t, "background-color: #123456", lazy.Attr(AttrStyle))
	})

	t.Run("extraction failure leaves style alone", func(t *testing.T) {
		lazy := img.Lazyload(WithoutNoscript(), WithColorPlaceholder(ctx, fixedColors{}))
		assert.Nil(t, lazy.Attr(AttrStyle))
	})

	t.Run("remote elements have no file", func(t *testing.T) {
		remote := f.Create(ctx, "https://example.com/a.jpg", nil, nil)
		lazy := remote.Lazyload(WithoutNoscript(), WithColorPlaceholder(ctx, fixedColors{"#123456"}))
		assert.Nil(t, lazy.Attr(AttrStyle))
	})
}

func TestNoscript(t *testing.T) {
	f := newTestFactory(t)
	img := f.Create(context.Background(), "https://example.com/a.jpg", map[string]any{
		"class": "lazyload x hide-if-no-js",
	}, map[string]any{SettingBeforeOutput: "<div>"})

	ns := img.Noscript()

	assert.Equal(t, "x no-js", ns.Attr(AttrClass))
	assert.Equal(t,
		"<noscript>\n<div>\n"+`<img src="https://example.com/a.jpg" class="x no-js" alt="" />`+"\n</noscript>",
		ns.Output())
	assert.Equal(t, "lazyload x hide-if-no-js", img.Attr(AttrClass))
}

func TestNoscript_Options(t *testing.T) {
	f := newTestFactory(t)
	img := f.Create(context.Background(), "https://example.com/a.jpg", nil, map[string]any{SettingBeforeOutput: "<div>"})

	ns := img.Noscript(
		WithNoscriptPriorities(20, 30),
		WithNoscriptAttributes(map[string]any{"title": "t"}),
		WithNoscriptSettings(map[string]any{SettingAfterOutput: "<span>"}),
	)

	assert.Equal(t, []string{"<div>", "<noscript>"}, ns.Settings().GetOutput(SettingBeforeOutput))
	assert.Equal(t, []string{"<span>", "</noscript>"}, ns.Settings().GetOutput(SettingAfterOutput))
	assert.Equal(t, "t", ns.Attr(AttrTitle))
}

func TestInto(t *testing.T) {
	ctx := context.Background()
	f := newTestFactory(t, WithAssetResolver(testAssets()))
	img := f.Create(ctx, "picsum", map[string]any{"alt": "A", "class": "c"}, map[string]any{"width": 300, "height": 200})

	t.Run("service to service", func(t *testing.T) {
		converted := img.Into(ctx, TypePlaceholder, nil, map[string]any{"text": "hi"})
		assert.Equal(t, TypePlaceholder, converted.Type())
		assert.Equal(t, "https://via.placeholder.com/300x200?text=hi", converted.Source())
		assert.Equal(t, "A", converted.Attr(AttrAlt))
		assert.Equal(t, "c", converted.Attr(AttrClass))
	})

	t.Run("src is not carried", func(t *testing.T) {
		remote := f.Create(ctx, "https://example.com/a.jpg", nil, nil)
		converted := remote.Into(ctx, TypeAttachment, nil, map[string]any{"id": 42})
		assert.Equal(t, "https://cdn.test/a.jpg", converted.Source())
	})

	t.Run("caller src is kept", func(t *testing.T) {
		converted := img.Into(ctx, TypeRemote, map[string]any{"src": "https://example.com/b.jpg"}, nil)
		assert.Equal(t, TypeRemote, converted.Type())
		assert.Equal(t, "https://example.com/b.jpg", converted.Source())
	})

	t.Run("remote target takes the rendered src", func(t *testing.T) {
		remote := f.Create(ctx, "https://example.com/a.jpg", map[string]any{"alt": "A"}, nil)
		back := remote.Into(ctx, TypePicsum, nil, map[string]any{"width": 300, "height": 200}).
			Into(ctx, TypeRemote, nil, nil)

		assert.Equal(t, TypeRemote, back.Type())
		assert.True(t, back.IsValid())
		assert.Equal(t, "https://picsum.photos/300/200", back.Source())
		assert.Equal(t, "A", back.Attr(AttrAlt))
	})

	t.Run("empty defaults are not carried", func(t *testing.T) {
		remote := f.Create(ctx, "https://example.com/a.jpg", nil, nil)
		converted := remote.Into(ctx, TypeAttachment, nil, map[string]any{"id": 42})
		assert.Equal(t, "A cat", converted.Attr(AttrAlt))
		assert.Equal(t, "1200", converted.Attr(AttrWidth))
	})

	t.Run("same type returns the element", func(t *testing.T) {
		assert.Same(t, img, img.Into(ctx, TypePicsum, nil, nil))
		assert.Same(t, img, img.Into(ctx, TypeService, nil, nil))
	})

	t.Run("unknown type yields a base element", func(t *testing.T) {
		converted := img.Into(ctx, "nope", nil, nil)
		assert.Equal(t, TypeBase, converted.Type())
		assert.False(t, converted.IsValid())
	})

	t.Run("round trip keeps attributes", func(t *testing.T) {
		original := f.Create(ctx, "picsum",
			map[string]any{"alt": "A", "class": "c d", "title": "T", "data-id": "7"},
			map[string]any{"width": 300, "height": 200},
		)
		back := original.Into(ctx, TypeJoeSchmoe, nil, nil).Into(ctx, TypePicsum, nil, nil)

		assert.Equal(t, TypePicsum, back.Type())
		assert.Equal(t, original.Attributes().GetAll(ContextEdit), back.Attributes().GetAll(ContextEdit))
		assert.Equal(t, original.Output(), back.Output())
	})
}
