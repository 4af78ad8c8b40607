package imgtag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFactory(t *testing.T, opts ...Option) *Factory {
	t.Helper()
	f, err := NewFactory(opts...)
	require.NoError(t, err)
	return f
}

func testAssets() *MemoryAssetStore {
	return NewMemoryAssetStore(
		&Asset{
			ID:       42,
			URL:      "https://cdn.test/a.jpg",
			Path:     "/var/media/a.jpg",
			MimeType: "image/jpeg",
			Width:    1200,
			Height:   800,
			Alt:      "A cat",
			Sizes: map[string]AssetSize{
				"thumb":  {URL: "https://cdn.test/a-150.jpg", Width: 150, Height: 100},
				"medium": {URL: "https://cdn.test/a-600.jpg", Width: 600, Height: 400},
			},
		},
		&Asset{
			ID:       43,
			URL:      "https://cdn.test/doc.pdf",
			MimeType: "application/pdf",
		},
	)
}

func TestPicsum_GenerateSource(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		want     string
	}{
		{"dimensions", map[string]any{"width": 800, "height": 600}, "https://picsum.photos/800/600"},
		{"single side is squared", map[string]any{"width": 300}, "https://picsum.photos/300/300"},
		{"image id", map[string]any{"width": 300, "height": 200, "image_id": 10}, "https://picsum.photos/id/10/300/200"},
		{"seed", map[string]any{"width": 300, "height": 200, "seed": "abc"}, "https://picsum.photos/seed/abc/300/200"},
		{"seed is escaped", map[string]any{"width": 300, "seed": "a b/c?d"}, "https://picsum.photos/seed/a%20b%2Fc%3Fd/300/300"},
		{"image id wins over seed", map[string]any{"width": 300, "image_id": "0", "seed": "abc"}, "https://picsum.photos/id/0/300/300"},
		{"blur flag", map[string]any{"width": 300, "blur": true}, "https://picsum.photos/300/300?blur"},
		{"blur string flag", map[string]any{"width": 300, "blur": "true"}, "https://picsum.photos/300/300?blur"},
		{"blur amount", map[string]any{"width": 300, "blur": "3"}, "https://picsum.photos/300/300?blur=3"},
		{"blur clamped", map[string]any{"width": 300, "blur": 15}, "https://picsum.photos/300/300?blur=10"},
		{"blur off", map[string]any{"width": 300, "blur": 0}, "https://picsum.photos/300/300"},
		{"grayscale and blur", map[string]any{"width": 300, "blur": 2, "grayscale": true}, "https://picsum.photos/300/300?blur=2&grayscale"},
		{"random", map[string]any{"width": 300, "random": true}, "https://picsum.photos/300/300?random=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFactory(t)
			img := f.Create(context.Background(), "picsum", nil, tt.settings)
			assert.Equal(t, tt.want, img.Source())
			assert.True(t, img.IsValid())
		})
	}
}

func TestPicsum_DimensionsFromAttributes(t *testing.T) {
	f := newTestFactory(t)
	img := f.Create(context.Background(), "photo-placeholder", map[string]any{"width": "120"}, nil)

	assert.Equal(t, "https://picsum.photos/120/120", img.Source())
	assert.Equal(t, `<img src="https://picsum.photos/120/120" width="120" alt="" />`, img.Output())
}

func TestPicsum_Output(t *testing.T) {
	f := newTestFactory(t)
	img := f.Create(context.Background(), "picsum", map[string]any{"alt": "Sunset"}, map[string]any{
		"width": 800, "height": 600, "grayscale": true, "blur": 1,
	})

	assert.Equal(t,
		`<img src="https://picsum.photos/800/600?blur=1&amp;grayscale" width="800" height="600" alt="Sunset" />`,
		img.Output())
	assert.Equal(t, []string{TypePicsum, TypeService, TypeExternal}, img.Types())
}

func TestPicsum_RandomIsStablePerElement(t *testing.T) {
	ctx := context.Background()
	f := newTestFactory(t)
	settings := map[string]any{"width": 100, "random": true}

	first := f.Create(ctx, "picsum", nil, settings)
	second := f.Create(ctx, "picsum", nil, settings)

	assert.Equal(t, "https://picsum.photos/100/100?random=1", first.Source())
	assert.Equal(t, "https://picsum.photos/100/100?random=2", second.Source())
	assert.Equal(t, first.Source(), first.Source(), "repeat renders keep the value")
	assert.Equal(t, first.Source(), first.Clone().Source(), "clones keep the value")

	require.NoError(t, f.Reset(ctx))
	third := f.Create(ctx, "picsum", nil, settings)
	assert.Equal(t, "https://picsum.photos/100/100?random=1", third.Source())
}

func TestServices_RequireDimension(t *testing.T) {
	for _, source := range []string{"picsum", "placeholder", "joeschmoe", "unsplash"} {
		t.Run(source, func(t *testing.T) {
			f := newTestFactory(t)
			img := f.Create(context.Background(), source, nil, nil)

			assert.Equal(t, source, img.Type())
			assert.False(t, img.IsValid())
			assert.Empty(t, img.Output())
			checks := img.ValidationChecks()
			require.Len(t, checks, 1)
			assert.Contains(t, checks[0].Error(), ErrMsgMissingDimension)
		})
	}
}

func TestPlaceholder_GenerateSource(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		want     string
	}{
		{"dimensions", map[string]any{"width": 300, "height": 200}, "https://via.placeholder.com/300x200"},
		{"background", map[string]any{"width": 300, "bg_color": "#ff0000"}, "https://via.placeholder.com/300x300/ff0000"},
		{"text color only", map[string]any{"width": 300, "text_color": "000"}, "https://via.placeholder.com/300x300/cccccc/000"},
		{"format", map[string]any{"width": 300, "format": "PNG"}, "https://via.placeholder.com/300x300.png"},
		{"unsupported format ignored", map[string]any{"width": 300, "format": "bmp"}, "https://via.placeholder.com/300x300"},
		{"text", map[string]any{"width": 300, "text": "Hello World"}, "https://via.placeholder.com/300x300?text=Hello+World"},
		{
			"everything",
			map[string]any{"width": 300, "height": 200, "bg_color": "#eee", "text_color": "333", "format": "png", "text": "Hi there"},
			"https://via.placeholder.com/300x200/eee/333.png?text=Hi+there",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFactory(t)
			img := f.Create(context.Background(), "dimension-placeholder", nil, tt.settings)
			assert.Equal(t, TypePlaceholder, img.Type())
			assert.Equal(t, tt.want, img.Source())
		})
	}
}

func TestJoeSchmoe_GenerateSource(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		want     string
	}{
		{"random avatar", map[string]any{"width": 100}, "https://joeschmoe.io/api/v1/random"},
		{"gender", map[string]any{"width": 100, "gender": "Female"}, "https://joeschmoe.io/api/v1/female/random"},
		{"seed", map[string]any{"height": 100, "gender": "male", "seed": "jane doe"}, "https://joeschmoe.io/api/v1/male/jane%20doe"},
		{"invalid gender ignored", map[string]any{"width": 100, "gender": "robot"}, "https://joeschmoe.io/api/v1/random"},
		{"cache buster", map[string]any{"width": 100, "random": true}, "https://joeschmoe.io/api/v1/random?random=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFactory(t)
			img := f.Create(context.Background(), "joke-avatar", nil, tt.settings)
			assert.Equal(t, tt.want, img.Source())
		})
	}
}

func TestUnsplash_GenerateSource(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		want     string
	}{
		{"dimensions", map[string]any{"width": 1600, "height": 900}, "https://source.unsplash.com/1600x900/"},
		{"image id", map[string]any{"width": 1600, "height": 900, "image_id": "abc"}, "https://source.unsplash.com/abc/1600x900/"},
		{"user likes", map[string]any{"width": 1600, "height": 900, "user": "erondu", "user_likes": true}, "https://source.unsplash.com/user/erondu/likes/1600x900/"},
		{"collection", map[string]any{"width": 1600, "height": 900, "collection": 190727}, "https://source.unsplash.com/collection/190727/1600x900/"},
		{"featured", map[string]any{"width": 1600, "height": 900, "featured": true}, "https://source.unsplash.com/featured/1600x900/"},
		{"random", map[string]any{"width": 1600, "height": 900, "random": true}, "https://source.unsplash.com/random/1600x900/?random=1"},
		{"update and search", map[string]any{"width": 1600, "height": 900, "update": "daily", "search": "nature, water"}, "https://source.unsplash.com/1600x900/daily/?nature,water"},
		{"search escaping", map[string]any{"width": 1600, "height": 900, "search": []string{"new york"}}, "https://source.unsplash.com/1600x900/?new+york"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFactory(t)
			img := f.Create(context.Background(), "scene-source", nil, tt.settings)
			assert.Equal(t, tt.want, img.Source())
		})
	}
}

func TestRemote(t *testing.T) {
	f := newTestFactory(t)
	img := f.Create(context.Background(), "https://example.com/a.jpg", map[string]any{"alt": "A"}, nil)

	assert.Equal(t, TypeRemote, img.Type())
	assert.True(t, img.IsType(TypeExternal))
	assert.True(t, img.IsValid(TypeRemote))
	assert.False(t, img.IsValid(TypeLocal))
	assert.Equal(t, `<img src="https://example.com/a.jpg" alt="A" />`, img.Output())
}

func TestAttachment(t *testing.T) {
	ctx := context.Background()
	f := newTestFactory(t, WithAssetResolver(testAssets()))

	t.Run("full size", func(t *testing.T) {
		img := f.Create(ctx, 42, nil, nil)

		require.Equal(t, TypeAttachment, img.Type())
		assert.True(t, img.IsType(TypeLocal, TypeInternal))
		assert.Equal(t, "https://cdn.test/a.jpg", img.Source())
		assert.Equal(t,
			`<img src="https://cdn.test/a.jpg" srcset="https://cdn.test/a-150.jpg 150w, https://cdn.test/a-600.jpg 600w, https://cdn.test/a.jpg 1200w" width="1200" height="800" alt="A cat" />`,
			img.Output())

		path, ok := img.Generator().(LocalFile).LocalPath()
		assert.True(t, ok)
		assert.Equal(t, "/var/media/a.jpg", path)
	})

	t.Run("named size", func(t *testing.T) {
		img := f.Create(ctx, "42", map[string]any{"alt": "Custom"}, map[string]any{"size": "thumb"})

		assert.Equal(t, "https://cdn.test/a-150.jpg", img.Source())
		assert.Equal(t, "150", img.Attr(AttrWidth))
		assert.Equal(t, "Custom", img.Attr(AttrAlt), "caller values win over asset data")
	})

	t.Run("explicit empty alt is kept", func(t *testing.T) {
		img := f.Create(ctx, 42, map[string]any{"alt": ""}, nil)
		assert.Contains(t, img.Output(), `height="800" alt="" />`)
	})

	t.Run("clone keeps the asset", func(t *testing.T) {
		img := f.Create(ctx, 42, nil, nil).Clone()
		require.NotNil(t, img.Generator().(*Attachment).Asset())
		assert.Equal(t, "https://cdn.test/a.jpg", img.Source())
	})

	t.Run("missing asset", func(t *testing.T) {
		img := f.Create(ctx, 7, nil, nil)
		assert.Equal(t, TypeAttachment, img.Type())
		assert.False(t, img.IsValid())
		assert.Empty(t, img.Output())
		require.Len(t, img.ValidationChecks(), 1)
		assert.Contains(t, img.ValidationChecks()[0].Error(), ErrMsgAssetNotFound)
	})

	t.Run("not an image", func(t *testing.T) {
		img := f.Create(ctx, 43, nil, nil)
		assert.False(t, img.IsValid())
		assert.Contains(t, img.ValidationChecks()[0].Error(), ErrMsgAssetNotImage)
	})

	t.Run("no resolver", func(t *testing.T) {
		bare := newTestFactory(t)
		img := bare.Create(ctx, 42, nil, nil)
		assert.False(t, img.IsValid())
		assert.Contains(t, img.ValidationChecks()[0].Error(), ErrMsgNoResolver)
	})
}

func TestBaseElement(t *testing.T) {
	f := newTestFactory(t)
	ctx := context.Background()

	img := f.CreateType(ctx, TypeBase, map[string]any{"src": "a.jpg"}, nil)
	assert.Equal(t, TypeBase, img.Type())
	assert.Nil(t, img.Generator())
	assert.True(t, img.IsValid())
	assert.Equal(t, `<img src="a.jpg" alt="" />`, img.Output())

	empty := f.CreateType(ctx, TypeBase, nil, nil)
	assert.False(t, empty.IsValid())
	assert.Empty(t, empty.String())
}
