package imgtag

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// Placeholder image formats
const (
	FormatPNG  = "png"
	FormatJPG  = "jpg"
	FormatJPEG = "jpeg"
	FormatGIF  = "gif"
	FormatWebP = "webp"

	placeholderParamText = "text"
)

type placeholderBackend struct{}

func (placeholderBackend) TypeName() string { return TypePlaceholder }

func (placeholderBackend) Keywords() []string {
	return []string{TypePlaceholder, KeywordDimensionPlaceholder}
}

func (placeholderBackend) SettingDefaults() map[string]any {
	return map[string]any{
		SettingWidth:     nil,
		SettingHeight:    nil,
		SettingText:      nil,
		SettingBgColor:   nil,
		SettingTextColor: nil,
		SettingFormat:    nil,
	}
}

func (placeholderBackend) SettingHooks() StoreHooks {
	return StoreHooks{
		SetByName: map[string]SetFunc{
			SettingWidth:     IntSetting,
			SettingHeight:    IntSetting,
			SettingText:      StringSetting,
			SettingBgColor:   setHexColor,
			SettingTextColor: setHexColor,
			SettingFormat:    ChoiceSetting(FormatPNG, FormatJPG, FormatJPEG, FormatGIF, FormatWebP),
		},
	}
}

func (placeholderBackend) New(_ context.Context, img *Image) SourceGenerator {
	return &Placeholder{img: img}
}

// setHexColor stores colors without the leading hash.
func setHexColor(key string, value any) (any, error) {
	color, err := StringSetting(key, value)
	if err != nil || color == nil {
		return color, err
	}
	return strings.TrimPrefix(color.(string), "#"), nil
}

// Placeholder is the generator of plain dimension placeholders.
type Placeholder struct {
	img *Image
}

// Types implements SourceGenerator.
func (p *Placeholder) Types() []string {
	return serviceTypes(TypePlaceholder)
}

// GenerateSource builds base + {w}x{h} + /{bg} + /{fg} + .{format} + ?text=.
// A text color without a background color uses the service's default gray.
func (p *Placeholder) GenerateSource() string {
	width, height, ok := dimensions(p.img)
	if !ok {
		return StringValueEmpty
	}
	settings := p.img.settings

	var b strings.Builder
	b.WriteString(p.img.services().PlaceholderBaseURL)
	b.WriteString(strconv.Itoa(width) + URLDimensionSep + strconv.Itoa(height))

	bg := settings.Text(SettingBgColor)
	fg := settings.Text(SettingTextColor)
	if fg != StringValueEmpty && bg == StringValueEmpty {
		bg = PlaceholderDefaultBg
	}
	if bg != StringValueEmpty {
		b.WriteString(URLPathSep + bg)
	}
	if fg != StringValueEmpty {
		b.WriteString(URLPathSep + fg)
	}
	if format := settings.Text(SettingFormat); format != StringValueEmpty {
		b.WriteString(URLExtSep + format)
	}

	var params []string
	if text := settings.Text(SettingText); text != StringValueEmpty {
		params = append(params, placeholderParamText+"="+url.QueryEscape(text))
	}
	b.WriteString(joinQuery(params))
	return b.String()
}

// ValidationChecks implements SourceGenerator.
func (p *Placeholder) ValidationChecks() []error {
	return serviceDimensionChecks(p.img, TypePlaceholder)
}

// ProvideAttribute implements AttributeProvider.
func (p *Placeholder) ProvideAttribute(key string) (any, bool) {
	return provideDimension(p.img, key)
}

// Rebind implements SourceGenerator.
func (p *Placeholder) Rebind(img *Image) SourceGenerator {
	return &Placeholder{img: img}
}
