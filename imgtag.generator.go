package imgtag

import (
	"context"
	"strconv"
)

// SourceGenerator is the backend half of an element: it derives src from the
// element's stores and contributes backend validation rules.
type SourceGenerator interface {
	// Types returns the identity tags of the element, primary type first.
	Types() []string

	// GenerateSource computes src from the current settings and attributes.
	// An empty result leaves src to whatever the attribute store holds.
	GenerateSource() string

	// ValidationChecks returns one error per failed backend rule.
	ValidationChecks() []error

	// Rebind returns a copy of the generator bound to img. Cached per-instance
	// state, such as a drawn random value, is carried over.
	Rebind(img *Image) SourceGenerator
}

// AttributeProvider is implemented by generators that supply view values for
// attributes other than src, such as dimensions taken from settings.
type AttributeProvider interface {
	ProvideAttribute(key string) (any, bool)
}

// LocalFile is implemented by generators backed by a file on disk.
type LocalFile interface {
	LocalPath() (string, bool)
}

// Backend constructs generators of one element type.
type Backend interface {
	// TypeName is the primary type of the elements this backend builds.
	TypeName() string

	// Keywords are the source strings the factory maps to this backend.
	Keywords() []string

	// SettingDefaults is the settings schema of the backend.
	SettingDefaults() map[string]any

	// New creates the generator for img once its stores are seeded.
	New(ctx context.Context, img *Image) SourceGenerator
}

// SettingHooksProvider is implemented by backends whose settings need
// normalization beyond the kind-based defaults.
type SettingHooksProvider interface {
	SettingHooks() StoreHooks
}

// dimensions reads width and height from settings, falling back to the
// stored attributes. A single side is duplicated.
func dimensions(img *Image) (int, int, bool) {
	width, hasWidth := img.settings.Int(SettingWidth)
	height, hasHeight := img.settings.Int(SettingHeight)
	if !hasWidth || width <= 0 {
		width, hasWidth = attributeInt(img, AttrWidth)
	}
	if !hasHeight || height <= 0 {
		height, hasHeight = attributeInt(img, AttrHeight)
	}
	switch {
	case hasWidth && hasHeight:
		return width, height, true
	case hasWidth:
		return width, width, true
	case hasHeight:
		return height, height, true
	}
	return 0, 0, false
}

func attributeInt(img *Image, key string) (int, bool) {
	value := img.attributes.Get(key, ContextEdit)
	if value == nil {
		return 0, false
	}
	i, err := IntSetting(key, value)
	if err != nil || i == nil {
		return 0, false
	}
	n := i.(int)
	return n, n > 0
}

// serviceDimensionChecks is the validation rule shared by the placeholder
// services: at least one dimension must be known.
func serviceDimensionChecks(img *Image, typeName string) []error {
	if _, _, ok := dimensions(img); !ok {
		return []error{NewValidationFailure(typeName, ErrMsgMissingDimension)}
	}
	return nil
}

// provideDimension lets service elements render width and height from
// their settings.
func provideDimension(img *Image, key string) (any, bool) {
	if key != AttrWidth && key != AttrHeight {
		return nil, false
	}
	setting := SettingWidth
	if key == AttrHeight {
		setting = SettingHeight
	}
	if v, ok := img.settings.Int(setting); ok && v > 0 {
		return strconv.Itoa(v), true
	}
	return nil, false
}

// serviceTypes builds the identity tags of a placeholder service.
func serviceTypes(name string) []string {
	return []string{name, TypeService, TypeExternal}
}

// randomValue draws the per-instance random value from the session once.
func randomValue(img *Image, cached *int) int {
	if *cached == 0 {
		*cached = img.session().NextRandom()
	}
	return *cached
}

// carriedRandom draws the value before a copy is made, so every copy of an
// element shares one number.
func carriedRandom(img *Image, cached *int) int {
	if img.settings.Bool(SettingRandom) {
		return randomValue(img, cached)
	}
	return *cached
}
