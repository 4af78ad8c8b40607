package imgtag

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

type unsplashBackend struct{}

func (unsplashBackend) TypeName() string { return TypeUnsplash }

func (unsplashBackend) Keywords() []string {
	return []string{TypeUnsplash, KeywordSceneSource}
}

func (unsplashBackend) SettingDefaults() map[string]any {
	return map[string]any{
		SettingWidth:      nil,
		SettingHeight:     nil,
		SettingRandom:     false,
		SettingImageID:    nil,
		SettingUser:       nil,
		SettingUserLikes:  false,
		SettingCollection: nil,
		SettingFeatured:   false,
		SettingUpdate:     nil,
		SettingSearch:     []string{},
	}
}

func (unsplashBackend) SettingHooks() StoreHooks {
	return StoreHooks{
		SetByName: map[string]SetFunc{
			SettingWidth:      IntSetting,
			SettingHeight:     IntSetting,
			SettingRandom:     BoolSetting,
			SettingImageID:    StringSetting,
			SettingUser:       StringSetting,
			SettingUserLikes:  BoolSetting,
			SettingCollection: StringSetting,
			SettingFeatured:   BoolSetting,
			SettingUpdate:     ChoiceSetting(UpdateDaily, UpdateWeekly),
			SettingSearch:     ListSetting,
		},
	}
}

func (unsplashBackend) New(_ context.Context, img *Image) SourceGenerator {
	return &Unsplash{img: img}
}

// Unsplash is the generator of scenic placeholder photos.
type Unsplash struct {
	img    *Image
	random int
}

// Types implements SourceGenerator.
func (u *Unsplash) Types() []string {
	return serviceTypes(TypeUnsplash)
}

// GenerateSource builds base + segment + {w}x{h}/ + (daily/ | weekly/) +
// ?{terms} + &random=n. The segment is the first of image id, user (with
// likes), collection, featured and random that is configured.
func (u *Unsplash) GenerateSource() string {
	width, height, ok := dimensions(u.img)
	if !ok {
		return StringValueEmpty
	}
	settings := u.img.settings
	random := settings.Bool(SettingRandom)

	var b strings.Builder
	b.WriteString(u.img.services().UnsplashBaseURL)
	switch {
	case settings.Text(SettingImageID) != StringValueEmpty:
		b.WriteString(url.PathEscape(settings.Text(SettingImageID)) + URLPathSep)
	case settings.Text(SettingUser) != StringValueEmpty:
		b.WriteString(UnsplashSegmentUser + URLPathSep + url.PathEscape(settings.Text(SettingUser)) + URLPathSep)
		if settings.Bool(SettingUserLikes) {
			b.WriteString(UnsplashSegmentLikes + URLPathSep)
		}
	case settings.Text(SettingCollection) != StringValueEmpty:
		b.WriteString(UnsplashSegmentColl + URLPathSep + url.PathEscape(settings.Text(SettingCollection)) + URLPathSep)
	case settings.Bool(SettingFeatured):
		b.WriteString(UnsplashSegmentFeature + URLPathSep)
	case random:
		b.WriteString(UnsplashSegmentRandom + URLPathSep)
	}
	b.WriteString(strconv.Itoa(width) + URLDimensionSep + strconv.Itoa(height) + URLPathSep)
	if update := settings.Text(SettingUpdate); update != StringValueEmpty {
		b.WriteString(update + URLPathSep)
	}

	var params []string
	if terms, _ := settings.Get(SettingSearch, ContextEdit).([]string); len(terms) > 0 {
		escaped := make([]string, len(terms))
		for i, term := range terms {
			escaped[i] = url.QueryEscape(term)
		}
		params = append(params, strings.Join(escaped, DelimComma))
	}
	if random {
		params = append(params, paramRandom+"="+strconv.Itoa(randomValue(u.img, &u.random)))
	}
	b.WriteString(joinQuery(params))
	return b.String()
}

// ValidationChecks implements SourceGenerator.
func (u *Unsplash) ValidationChecks() []error {
	return serviceDimensionChecks(u.img, TypeUnsplash)
}

// ProvideAttribute implements AttributeProvider.
func (u *Unsplash) ProvideAttribute(key string) (any, bool) {
	return provideDimension(u.img, key)
}

// Rebind implements SourceGenerator.
func (u *Unsplash) Rebind(img *Image) SourceGenerator {
	return &Unsplash{img: img, random: carriedRandom(u.img, &u.random)}
}
