package imgtag

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

type joeSchmoeBackend struct{}

func (joeSchmoeBackend) TypeName() string { return TypeJoeSchmoe }

func (joeSchmoeBackend) Keywords() []string {
	return []string{TypeJoeSchmoe, KeywordJokeAvatar}
}

func (joeSchmoeBackend) SettingDefaults() map[string]any {
	return map[string]any{
		SettingWidth:  nil,
		SettingHeight: nil,
		SettingGender: nil,
		SettingSeed:   nil,
		SettingRandom: false,
	}
}

func (joeSchmoeBackend) SettingHooks() StoreHooks {
	return StoreHooks{
		SetByName: map[string]SetFunc{
			SettingWidth:  IntSetting,
			SettingHeight: IntSetting,
			SettingGender: ChoiceSetting(GenderMale, GenderFemale),
			SettingSeed:   StringSetting,
			SettingRandom: BoolSetting,
		},
	}
}

func (joeSchmoeBackend) New(_ context.Context, img *Image) SourceGenerator {
	return &JoeSchmoe{img: img}
}

// JoeSchmoe is the generator of cartoon avatars.
type JoeSchmoe struct {
	img    *Image
	random int
}

// Types implements SourceGenerator.
func (j *JoeSchmoe) Types() []string {
	return serviceTypes(TypeJoeSchmoe)
}

// GenerateSource builds base + {gender}/ + ({seed} | random) + ?random=n.
// The avatar is square; the dimensions only size the element.
func (j *JoeSchmoe) GenerateSource() string {
	if _, _, ok := dimensions(j.img); !ok {
		return StringValueEmpty
	}
	settings := j.img.settings

	var b strings.Builder
	b.WriteString(j.img.services().JoeSchmoeBaseURL)
	if gender := settings.Text(SettingGender); gender != StringValueEmpty {
		b.WriteString(gender + URLPathSep)
	}
	if seed := settings.Text(SettingSeed); seed != StringValueEmpty {
		b.WriteString(url.PathEscape(seed))
	} else {
		b.WriteString(JoeSchmoeSegmentRandom)
	}

	var params []string
	if settings.Bool(SettingRandom) {
		params = append(params, paramRandom+"="+strconv.Itoa(randomValue(j.img, &j.random)))
	}
	b.WriteString(joinQuery(params))
	return b.String()
}

// ValidationChecks implements SourceGenerator.
func (j *JoeSchmoe) ValidationChecks() []error {
	return serviceDimensionChecks(j.img, TypeJoeSchmoe)
}

// ProvideAttribute implements AttributeProvider.
func (j *JoeSchmoe) ProvideAttribute(key string) (any, bool) {
	return provideDimension(j.img, key)
}

// Rebind implements SourceGenerator.
func (j *JoeSchmoe) Rebind(img *Image) SourceGenerator {
	return &JoeSchmoe{img: img, random: carriedRandom(j.img, &j.random)}
}
