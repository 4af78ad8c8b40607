package imgtag

import (
	"context"
	"io"
	"slices"
	"strings"

	"github.com/a-h/templ"

	"github.com/itsatony/go-imgtag/internal"
)

var _ templ.Component = (*Image)(nil)

// Image is one generated image element: an attribute store, a setting store
// and the generator of its backend. Elements are value objects; every
// transformation works on a clone.
type Image struct {
	attributes *AttributeStore
	settings   *SettingStore
	generator  SourceGenerator
	factory    *Factory
	diag       *diagnostics
}

// Type returns the primary type of the element.
func (img *Image) Type() string {
	return img.Types()[0]
}

// Types returns the identity tags of the element, primary type first.
func (img *Image) Types() []string {
	if img.generator == nil {
		return []string{TypeBase}
	}
	return img.generator.Types()
}

// IsType reports whether the element carries any of types.
func (img *Image) IsType(types ...string) bool {
	own := img.Types()
	for _, t := range types {
		if slices.Contains(own, t) {
			return true
		}
	}
	return false
}

// ValidationChecks returns every validation failure of the element.
func (img *Image) ValidationChecks() []error {
	if img.generator == nil {
		if img.Source() == StringValueEmpty {
			return []error{NewValidationFailure(TypeBase, ErrMsgMissingSrc)}
		}
		return nil
	}
	return img.generator.ValidationChecks()
}

// IsValid reports whether the element passes validation. When types are
// given, an element of none of them is invalid without running the checks.
func (img *Image) IsValid(types ...string) bool {
	if len(types) > 0 && !img.IsType(types...) {
		return false
	}
	return len(img.ValidationChecks()) == 0
}

// Output renders the element, or "" when it is invalid.
func (img *Image) Output() string {
	return img.output(context.Background())
}

// String implements fmt.Stringer.
func (img *Image) String() string {
	return img.Output()
}

// Render implements templ.Component.
func (img *Image) Render(ctx context.Context, w io.Writer) error {
	_, err := io.WriteString(w, img.output(ctx))
	return err
}

func (img *Image) output(ctx context.Context) string {
	if failures := img.ValidationChecks(); len(failures) > 0 {
		img.diag.validationFailed(ctx, img.Type(), failures)
		return StringValueEmpty
	}

	var b strings.Builder
	if before := img.settings.GetOutput(SettingBeforeOutput); len(before) > 0 {
		b.WriteString(strings.Join(before, FragmentSep))
		b.WriteString(FragmentSep)
	}
	b.WriteString(ImgTagOpen)
	b.WriteString(img.attributes.String())
	b.WriteString(ImgTagClose)
	if after := img.settings.GetOutput(SettingAfterOutput); len(after) > 0 {
		b.WriteString(FragmentSep)
		b.WriteString(strings.Join(after, FragmentSep))
	}
	img.diag.rendered(img.Type())
	return b.String()
}

// Clone returns an element with independent copies of both stores.
func (img *Image) Clone() *Image {
	clone := &Image{
		attributes: img.attributes.Copy(),
		settings:   img.settings.Copy(),
		factory:    img.factory,
		diag:       img.diag,
	}
	clone.attributes.SetResolver(clone)
	if img.generator != nil {
		clone.generator = img.generator.Rebind(clone)
	}
	return clone
}

// Attributes returns the attribute store.
func (img *Image) Attributes() *AttributeStore {
	return img.attributes
}

// Settings returns the setting store.
func (img *Image) Settings() *SettingStore {
	return img.settings
}

// Generator returns the backend generator, nil for base elements.
func (img *Image) Generator() SourceGenerator {
	return img.generator
}

// Attr returns an attribute in view context.
func (img *Image) Attr(key string) any {
	return img.attributes.Get(key, ContextView)
}

// Setting returns a setting in edit context.
func (img *Image) Setting(key string) any {
	return img.settings.Get(key, ContextEdit)
}

// SetAttribute sets one attribute.
func (img *Image) SetAttribute(key string, value any) error {
	return img.attributes.Set(key, value)
}

// SetSetting sets one setting.
func (img *Image) SetSetting(key string, value any) error {
	return img.settings.Set(key, value)
}

// Source returns the effective src.
func (img *Image) Source() string {
	text, _ := internal.FormatScalar(img.attributes.Get(AttrSrc, ContextView))
	return text
}

// ResolveAttribute implements AttributeResolver for the element's own
// attribute store.
func (img *Image) ResolveAttribute(key string) (any, bool) {
	if img.generator == nil {
		return nil, false
	}
	if key == AttrSrc {
		if src := img.generator.GenerateSource(); src != StringValueEmpty {
			return src, true
		}
		return nil, false
	}
	if provider, ok := img.generator.(AttributeProvider); ok {
		return provider.ProvideAttribute(key)
	}
	return nil, false
}

// HTTP fetches the effective src through the session memo. force bypasses
// the memo.
func (img *Image) HTTP(ctx context.Context, force bool) (*Response, error) {
	src := img.Source()
	if src == StringValueEmpty {
		return nil, NewValidationFailure(img.Type(), ErrMsgMissingSrc)
	}
	if strings.HasPrefix(src, URLSchemeRelative) {
		src = URLSchemeHTTPS + strings.TrimPrefix(src, URLSchemeRelative)
	}
	return img.session().Fetcher().Get(ctx, src, force)
}

// DominantColors extracts up to count hex colors from the element's file.
// Only local elements have a file to inspect.
func (img *Image) DominantColors(ctx context.Context, count int) ([]string, error) {
	local, ok := img.generator.(LocalFile)
	if !ok {
		return nil, NewValidationFailure(img.Type(), ErrMsgNotLocal)
	}
	path, ok := local.LocalPath()
	if !ok {
		return nil, NewValidationFailure(img.Type(), ErrMsgNotLocal)
	}
	extractor := img.colorExtractor()
	if extractor == nil {
		return nil, NewValidationFailure(img.Type(), ErrMsgNoColorExtractor)
	}
	if count <= 0 {
		count = DefaultColorCount
	}
	return extractor.ExtractDominantColors(ctx, path, count)
}

func (img *Image) session() *Session {
	return img.factory.Session()
}

func (img *Image) colorExtractor() ColorExtractor {
	return img.factory.config.colors
}

func (img *Image) assetResolver() AssetResolver {
	return img.factory.config.assets
}

func (img *Image) themeResolver() ThemeResolver {
	return img.factory.config.theme
}

func (img *Image) services() ServicesConfig {
	return img.factory.config.settings.Services
}
