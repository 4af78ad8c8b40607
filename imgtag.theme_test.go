package imgtag

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, width, height int, fill color.Color) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func newTestThemeResolver(t *testing.T) *FilesystemThemeResolver {
	t.Helper()
	child := t.TempDir()
	parent := t.TempDir()

	writePNG(t, filepath.Join(child, "img", "logo.png"), 4, 3, color.White)
	writePNG(t, filepath.Join(parent, "img", "logo.png"), 8, 8, color.Black)
	writePNG(t, filepath.Join(parent, "img", "hero.png"), 16, 9, color.Black)
	require.NoError(t, os.WriteFile(filepath.Join(parent, "notes.txt"), []byte("x"), 0o644))

	return NewFilesystemThemeResolver(
		ThemeRoot{Dir: child, BaseURL: "https://site.test/child/"},
		ThemeRoot{Dir: parent, BaseURL: "https://site.test/parent"},
	)
}

func TestFilesystemThemeResolver(t *testing.T) {
	ctx := context.Background()
	r := newTestThemeResolver(t)

	t.Run("child wins", func(t *testing.T) {
		file, err := r.ResolveThemeFile(ctx, "img/logo.png")
		require.NoError(t, err)
		assert.Equal(t, "https://site.test/child/img/logo.png", file.URL)
		assert.Equal(t, "img/logo.png", file.RelativePath)
		assert.Equal(t, 4, file.Width)
		assert.Equal(t, 3, file.Height)
	})

	t.Run("parent fallback", func(t *testing.T) {
		file, err := r.ResolveThemeFile(ctx, "/img/hero.png")
		require.NoError(t, err)
		assert.Equal(t, "https://site.test/parent/img/hero.png", file.URL)
		assert.Equal(t, 16, file.Width)
	})

	t.Run("non-image files have no dimensions", func(t *testing.T) {
		file, err := r.ResolveThemeFile(ctx, "notes.txt")
		require.NoError(t, err)
		assert.Zero(t, file.Width)
		assert.Zero(t, file.Height)
	})

	for _, p := range []string{"missing.png", "../secret.png", "img/../../secret.png", "img", "", "https://x.test/a.png"} {
		t.Run("rejects "+p, func(t *testing.T) {
			_, err := r.ResolveThemeFile(ctx, p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), ErrMsgThemeFileNotFound)
		})
	}
}

func TestTheme(t *testing.T) {
	ctx := context.Background()
	f := newTestFactory(t, WithThemeResolver(newTestThemeResolver(t)))

	img := f.Create(ctx, "img/logo.png", map[string]any{"alt": "Logo"}, nil)
	require.Equal(t, TypeTheme, img.Type())
	assert.True(t, img.IsType(TypeLocal))
	assert.Equal(t, `<img src="https://site.test/child/img/logo.png" width="4" height="3" alt="Logo" />`, img.Output())

	theme := img.Generator().(*Theme)
	require.NotNil(t, theme.File())
	path, ok := theme.LocalPath()
	assert.True(t, ok)
	assert.Equal(t, theme.File().AbsolutePath, path)

	direct := f.CreateType(ctx, TypeTheme, nil, map[string]any{"path": "missing.png"})
	assert.False(t, direct.IsValid())
	assert.Contains(t, direct.ValidationChecks()[0].Error(), ErrMsgThemeFileNotFound)
}

func TestQuantizingColorExtractor(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "red.png")
	writePNG(t, path, 8, 8, color.RGBA{R: 255, A: 255})

	colors, err := QuantizingColorExtractor{}.ExtractDominantColors(ctx, path, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"#ff0000"}, colors)

	_, err = QuantizingColorExtractor{}.ExtractDominantColors(ctx, filepath.Join(t.TempDir(), "none.png"), 1)
	assert.Error(t, err)
}

func TestImage_DominantColors(t *testing.T) {
	ctx := context.Background()
	f := newTestFactory(t, WithThemeResolver(newTestThemeResolver(t)))

	colors, err := f.Create(ctx, "img/logo.png", nil, nil).DominantColors(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"#ffffff"}, colors)

	_, err = f.Create(ctx, "https://example.com/a.jpg", nil, nil).DominantColors(ctx, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgNotLocal)
}
