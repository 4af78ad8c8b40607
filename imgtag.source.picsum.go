package imgtag

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/itsatony/go-imgtag/internal"
)

// Picsum query parameters
const (
	picsumParamBlur      = "blur"
	picsumParamGrayscale = "grayscale"
	paramRandom          = "random"
)

type picsumBackend struct{}

func (picsumBackend) TypeName() string { return TypePicsum }

func (picsumBackend) Keywords() []string {
	return []string{TypePicsum, KeywordPhotoPlaceholder}
}

func (picsumBackend) SettingDefaults() map[string]any {
	return map[string]any{
		SettingBlur:      nil,
		SettingSeed:      nil,
		SettingWidth:     nil,
		SettingHeight:    nil,
		SettingRandom:    false,
		SettingImageID:   nil,
		SettingGrayscale: false,
	}
}

func (picsumBackend) SettingHooks() StoreHooks {
	return StoreHooks{
		SetByName: map[string]SetFunc{
			SettingBlur:      setBlur,
			SettingSeed:      StringSetting,
			SettingWidth:     IntSetting,
			SettingHeight:    IntSetting,
			SettingRandom:    BoolSetting,
			SettingImageID:   IntSetting,
			SettingGrayscale: BoolSetting,
		},
	}
}

func (picsumBackend) New(_ context.Context, img *Image) SourceGenerator {
	return &Picsum{img: img}
}

// setBlur keeps true as a bare blur flag and clamps numbers to 1..10.
// false and 0 turn blurring off.
func setBlur(key string, value any) (any, error) {
	if b, ok := value.(bool); ok {
		if b {
			return true, nil
		}
		return nil, nil
	}
	if s, ok := value.(string); ok {
		if b, isBool := internal.ParseBool(s); isBool && !isNumeric(s) {
			return setBlur(key, b)
		}
	}
	n, ok := internal.ToInt(value)
	if !ok {
		return nil, errors.New(ErrMsgInvalidInteger)
	}
	if n <= 0 {
		return nil, nil
	}
	return int(min(max(n, MinPicsumBlur), MaxPicsumBlur)), nil
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

// Picsum is the generator of photo placeholders.
type Picsum struct {
	img    *Image
	random int
}

// Types implements SourceGenerator.
func (p *Picsum) Types() []string {
	return serviceTypes(TypePicsum)
}

// GenerateSource builds
// base + (id/{id}/ | seed/{seed}/) + {w}/{h} + ?blur[=n]&grayscale&random=n.
func (p *Picsum) GenerateSource() string {
	width, height, ok := dimensions(p.img)
	if !ok {
		return StringValueEmpty
	}
	settings := p.img.settings

	var b strings.Builder
	b.WriteString(p.img.services().PicsumBaseURL)
	if id, ok := settings.Int(SettingImageID); ok && id >= 0 {
		b.WriteString(PicsumSegmentID + URLPathSep + strconv.Itoa(id) + URLPathSep)
	} else if seed := settings.Text(SettingSeed); seed != StringValueEmpty {
		b.WriteString(PicsumSegmentSeed + URLPathSep + url.PathEscape(seed) + URLPathSep)
	}
	b.WriteString(strconv.Itoa(width) + URLPathSep + strconv.Itoa(height))

	var params []string
	switch blur := settings.Get(SettingBlur, ContextEdit).(type) {
	case bool:
		if blur {
			params = append(params, picsumParamBlur)
		}
	case int:
		params = append(params, picsumParamBlur+"="+strconv.Itoa(blur))
	}
	if settings.Bool(SettingGrayscale) {
		params = append(params, picsumParamGrayscale)
	}
	if settings.Bool(SettingRandom) {
		params = append(params, paramRandom+"="+strconv.Itoa(randomValue(p.img, &p.random)))
	}
	b.WriteString(joinQuery(params))
	return b.String()
}

// ValidationChecks implements SourceGenerator.
func (p *Picsum) ValidationChecks() []error {
	return serviceDimensionChecks(p.img, TypePicsum)
}

// ProvideAttribute implements AttributeProvider.
func (p *Picsum) ProvideAttribute(key string) (any, bool) {
	return provideDimension(p.img, key)
}

// Rebind implements SourceGenerator.
func (p *Picsum) Rebind(img *Image) SourceGenerator {
	return &Picsum{img: img, random: carriedRandom(p.img, &p.random)}
}

// PicsumDetails is the metadata picsum publishes for one image.
type PicsumDetails struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	URL         string `json:"url"`
	DownloadURL string `json:"download_url"`
}

// Details fetches the metadata of the configured image id through the
// session fetch memo.
func (p *Picsum) Details(ctx context.Context) (*PicsumDetails, error) {
	id, ok := p.img.settings.Int(SettingImageID)
	if !ok || id < 0 {
		return nil, NewValidationFailure(TypePicsum, ErrMsgNoPicsumImage)
	}
	infoURL := p.img.services().PicsumBaseURL +
		PicsumSegmentID + URLPathSep + strconv.Itoa(id) + URLPathSep + PicsumSegmentInfo
	resp, err := p.img.session().Fetcher().Get(ctx, infoURL, false)
	if err != nil {
		return nil, err
	}
	var details PicsumDetails
	if err := json.Unmarshal(resp.Body, &details); err != nil {
		return nil, NewCodecError(ErrMsgSnapshotDecode, FormatJSON, err)
	}
	return &details, nil
}

// joinQuery renders params as a query string, "" when there are none.
func joinQuery(params []string) string {
	if len(params) == 0 {
		return StringValueEmpty
	}
	return URLQueryStart + strings.Join(params, URLQuerySep)
}
