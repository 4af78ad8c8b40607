package imgtag

import (
	"context"
	"strconv"
)

type themeBackend struct{}

func (themeBackend) TypeName() string   { return TypeTheme }
func (themeBackend) Keywords() []string { return nil }

func (themeBackend) SettingDefaults() map[string]any {
	return map[string]any{SettingPath: nil}
}

func (themeBackend) SettingHooks() StoreHooks {
	return StoreHooks{
		SetByName: map[string]SetFunc{SettingPath: StringSetting},
	}
}

func (themeBackend) New(ctx context.Context, img *Image) SourceGenerator {
	t := &Theme{img: img}
	path := img.settings.Text(SettingPath)
	if path == StringValueEmpty {
		t.err = NewValidationFailure(TypeTheme, ErrMsgMissingThemePath)
		return t
	}
	resolver := img.themeResolver()
	if resolver == nil {
		t.err = NewValidationFailure(TypeTheme, ErrMsgNoResolver)
		return t
	}
	file, err := resolver.ResolveThemeFile(ctx, path)
	if err != nil {
		t.err = err
		return t
	}
	t.file = file
	if file.Width > 0 {
		_ = img.attributes.Add(AttrWidth, strconv.Itoa(file.Width))
	}
	if file.Height > 0 {
		_ = img.attributes.Add(AttrHeight, strconv.Itoa(file.Height))
	}
	return t
}

// Theme is the generator of elements backed by a file of the active theme.
type Theme struct {
	img  *Image
	file *ThemeFile
	err  error
}

// Types implements SourceGenerator.
func (t *Theme) Types() []string {
	return []string{TypeTheme, TypeLocal, TypeInternal}
}

// GenerateSource returns the public URL of the theme file.
func (t *Theme) GenerateSource() string {
	if t.file == nil {
		return StringValueEmpty
	}
	return t.file.URL
}

// ValidationChecks implements SourceGenerator.
func (t *Theme) ValidationChecks() []error {
	if t.err != nil {
		return []error{t.err}
	}
	if t.file == nil {
		return []error{NewValidationFailure(TypeTheme, ErrMsgThemeFileMissing)}
	}
	return nil
}

// Rebind implements SourceGenerator.
func (t *Theme) Rebind(img *Image) SourceGenerator {
	return &Theme{img: img, file: t.file, err: t.err}
}

// LocalPath implements LocalFile.
func (t *Theme) LocalPath() (string, bool) {
	if t.file == nil {
		return StringValueEmpty, false
	}
	return t.file.AbsolutePath, true
}

// File returns the resolved theme file, nil when resolution failed.
func (t *Theme) File() *ThemeFile {
	return t.file
}
