package imgtag

import (
	"context"
	"strconv"
)

type attachmentBackend struct{}

func (attachmentBackend) TypeName() string   { return TypeAttachment }
func (attachmentBackend) Keywords() []string { return nil }

func (attachmentBackend) SettingDefaults() map[string]any {
	return map[string]any{
		SettingID:   nil,
		SettingSize: DefaultSrcSize,
	}
}

func (attachmentBackend) SettingHooks() StoreHooks {
	return StoreHooks{
		SetByName: map[string]SetFunc{
			SettingID:   IntSetting,
			SettingSize: StringSetting,
		},
	}
}

// New resolves the asset once and fills in the dimensions, srcset and alt
// text the caller did not set.
func (attachmentBackend) New(ctx context.Context, img *Image) SourceGenerator {
	a := &Attachment{img: img}
	id, ok := img.settings.Int(SettingID)
	if !ok || id <= 0 {
		a.err = NewValidationFailure(TypeAttachment, ErrMsgMissingAssetID)
		return a
	}
	resolver := img.assetResolver()
	if resolver == nil {
		a.err = NewValidationFailure(TypeAttachment, ErrMsgNoResolver)
		return a
	}
	asset, err := resolver.ResolveAsset(ctx, int64(id))
	if err != nil {
		a.err = err
		return a
	}
	a.asset = asset

	src := asset.Source(img.settings.Text(SettingSize))
	if src.Width > 0 {
		_ = img.attributes.Add(AttrWidth, strconv.Itoa(src.Width))
	}
	if src.Height > 0 {
		_ = img.attributes.Add(AttrHeight, strconv.Itoa(src.Height))
	}
	if srcset := asset.Srcset(); len(srcset) > 0 {
		_ = img.attributes.Add(AttrSrcset, srcset)
	}
	if asset.Alt != StringValueEmpty {
		_ = img.attributes.Add(AttrAlt, asset.Alt)
	}
	return a
}

// Attachment is the generator of elements backed by an uploaded asset.
type Attachment struct {
	img   *Image
	asset *Asset
	err   error
}

// Types implements SourceGenerator.
func (a *Attachment) Types() []string {
	return []string{TypeAttachment, TypeLocal, TypeInternal}
}

// GenerateSource returns the asset URL for the configured size.
func (a *Attachment) GenerateSource() string {
	if a.asset == nil {
		return StringValueEmpty
	}
	return a.asset.Source(a.img.settings.Text(SettingSize)).URL
}

// ValidationChecks implements SourceGenerator.
func (a *Attachment) ValidationChecks() []error {
	switch {
	case a.err != nil:
		return []error{a.err}
	case a.asset == nil:
		return []error{NewValidationFailure(TypeAttachment, ErrMsgAssetUnavailable)}
	case !a.asset.IsImage():
		return []error{NewValidationFailure(TypeAttachment, ErrMsgAssetNotImage)}
	case a.img.Source() == StringValueEmpty:
		return []error{NewValidationFailure(TypeAttachment, ErrMsgMissingSrc)}
	}
	return nil
}

// Rebind implements SourceGenerator.
func (a *Attachment) Rebind(img *Image) SourceGenerator {
	return &Attachment{img: img, asset: a.asset, err: a.err}
}

// LocalPath implements LocalFile.
func (a *Attachment) LocalPath() (string, bool) {
	if a.asset == nil || a.asset.Path == StringValueEmpty {
		return StringValueEmpty, false
	}
	return a.asset.Path, true
}

// Asset returns the resolved asset, nil when resolution failed.
func (a *Attachment) Asset() *Asset {
	return a.asset
}
