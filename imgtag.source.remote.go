package imgtag

import "context"

// remoteBackend builds elements for absolute URLs. The URL is stored as the
// src attribute by the factory; the generator adds nothing on top.
type remoteBackend struct{}

func (remoteBackend) TypeName() string                { return TypeRemote }
func (remoteBackend) Keywords() []string              { return nil }
func (remoteBackend) SettingDefaults() map[string]any { return nil }

func (remoteBackend) New(_ context.Context, img *Image) SourceGenerator {
	return &Remote{img: img}
}

// Remote is the generator of elements pointing at an arbitrary URL.
type Remote struct {
	img *Image
}

// Types implements SourceGenerator.
func (r *Remote) Types() []string {
	return []string{TypeRemote, TypeExternal}
}

// GenerateSource implements SourceGenerator. The src attribute is the source.
func (r *Remote) GenerateSource() string {
	return StringValueEmpty
}

// ValidationChecks implements SourceGenerator.
func (r *Remote) ValidationChecks() []error {
	if r.img.Source() == StringValueEmpty {
		return []error{NewValidationFailure(TypeRemote, ErrMsgMissingSrc)}
	}
	return nil
}

// Rebind implements SourceGenerator.
func (r *Remote) Rebind(img *Image) SourceGenerator {
	return &Remote{img: img}
}
