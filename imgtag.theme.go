package imgtag

import (
	"context"
	"errors"
	"image"
	_ "image/gif"  // GIF header decoding
	_ "image/jpeg" // JPEG header decoding
	_ "image/png"  // PNG header decoding
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ThemeFile is a file located in one of the theme roots.
type ThemeFile struct {
	RelativePath string
	AbsolutePath string
	URL          string
	Width        int
	Height       int
}

// ThemeResolver locates files of the active theme.
type ThemeResolver interface {
	// ResolveThemeFile returns the file or a theme-file-not-found error.
	ResolveThemeFile(ctx context.Context, relativePath string) (*ThemeFile, error)
}

// ThemeRoot is one theme directory and the public URL it is served under.
type ThemeRoot struct {
	Dir     string `yaml:"dir" validate:"required"`
	BaseURL string `yaml:"base_url" validate:"required"`
}

// FilesystemThemeResolver resolves theme files from a child theme root and
// then its parent. Dimensions are read from the image header; files that
// are not GIF, JPEG or PNG resolve without them.
type FilesystemThemeResolver struct {
	roots []ThemeRoot
}

// NewFilesystemThemeResolver creates a resolver searching roots in order,
// child theme first.
func NewFilesystemThemeResolver(roots ...ThemeRoot) *FilesystemThemeResolver {
	return &FilesystemThemeResolver{roots: roots}
}

// ResolveThemeFile implements ThemeResolver. Paths escaping a root never
// resolve.
func (r *FilesystemThemeResolver) ResolveThemeFile(ctx context.Context, relativePath string) (*ThemeFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, ok := cleanThemePath(relativePath)
	if !ok {
		return nil, NewThemeFileNotFoundError(relativePath)
	}

	for _, root := range r.roots {
		abs := filepath.Join(root.Dir, filepath.FromSlash(clean))
		info, err := os.Stat(abs)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		if info.IsDir() {
			continue
		}
		file := &ThemeFile{
			RelativePath: clean,
			AbsolutePath: abs,
			URL:          strings.TrimSuffix(root.BaseURL, URLPathSep) + URLPathSep + clean,
		}
		file.Width, file.Height = probeDimensions(abs)
		return file, nil
	}
	return nil, NewThemeFileNotFoundError(relativePath)
}

// cleanThemePath normalizes a theme-relative path and rejects absolute
// paths, URLs and traversal out of the root.
func cleanThemePath(p string) (string, bool) {
	p = strings.TrimSpace(p)
	if p == StringValueEmpty || strings.Contains(p, URLSchemeSep) || strings.HasPrefix(p, URLSchemeRelative) {
		return StringValueEmpty, false
	}
	clean := path.Clean(strings.TrimPrefix(filepath.ToSlash(p), URLPathSep))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return StringValueEmpty, false
	}
	return clean, true
}

func probeDimensions(abs string) (int, int) {
	f, err := os.Open(abs)
	if err != nil {
		return 0, 0
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
