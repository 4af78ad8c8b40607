package imgtag

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/itsatony/go-imgtag/internal"
)

// Snapshot is the serializable state of an element. Importing it through a
// Factory rebuilds an equivalent element.
type Snapshot struct {
	Type         string         `json:"type" yaml:"type" msgpack:"type"`
	Attributes   map[string]any `json:"attributes,omitempty" yaml:"attributes,omitempty" msgpack:"attributes,omitempty"`
	Settings     map[string]any `json:"settings,omitempty" yaml:"settings,omitempty" msgpack:"settings,omitempty"`
	BeforeOutput []Fragment     `json:"before_output,omitempty" yaml:"before_output,omitempty" msgpack:"before_output,omitempty"`
	AfterOutput  []Fragment     `json:"after_output,omitempty" yaml:"after_output,omitempty" msgpack:"after_output,omitempty"`
}

// Export captures the stored attributes and settings of the element. Values
// a backend resolves lazily, such as an attachment src, are not captured.
func (img *Image) Export() *Snapshot {
	settings := img.settings.GetAll(ContextEdit)
	delete(settings, SettingBeforeOutput)
	delete(settings, SettingAfterOutput)
	for key, value := range settings {
		if value == nil {
			delete(settings, key)
		}
	}
	attrs := img.attributes.GetAll(ContextEdit)
	for key, value := range attrs {
		if internal.IsEmpty(value) && key != AttrAlt {
			delete(attrs, key)
		}
	}
	return &Snapshot{
		Type:         img.Type(),
		Attributes:   attrs,
		Settings:     settings,
		BeforeOutput: img.settings.Fragments(SettingBeforeOutput).Items(),
		AfterOutput:  img.settings.Fragments(SettingAfterOutput).Items(),
	}
}

// MarshalSnapshot encodes s as json, yaml or msgpack.
func MarshalSnapshot(s *Snapshot, format string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch normalizeFormat(format) {
	case FormatJSON:
		data, err = json.MarshalIndent(s, StringValueEmpty, jsonIndent)
	case FormatYAML:
		data, err = yaml.Marshal(s)
	case FormatMsgpack:
		data, err = msgpack.Marshal(s)
	default:
		return nil, NewCodecError(ErrMsgUnknownFormat, format, nil)
	}
	if err != nil {
		return nil, NewCodecError(ErrMsgSnapshotEncode, format, err)
	}
	return data, nil
}

// UnmarshalSnapshot decodes a snapshot encoded by MarshalSnapshot.
func UnmarshalSnapshot(data []byte, format string) (*Snapshot, error) {
	var (
		s   Snapshot
		err error
	)
	switch normalizeFormat(format) {
	case FormatJSON:
		err = json.Unmarshal(data, &s)
	case FormatYAML:
		err = yaml.Unmarshal(data, &s)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &s)
	default:
		return nil, NewCodecError(ErrMsgUnknownFormat, format, nil)
	}
	if err != nil {
		return nil, NewCodecError(ErrMsgSnapshotDecode, format, err)
	}
	return &s, nil
}

func normalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == formatAliasYML {
		return FormatYAML
	}
	return format
}

// Import rebuilds an element from a snapshot. Unknown types fall back to a
// base element, like CreateType.
func (f *Factory) Import(ctx context.Context, s *Snapshot) *Image {
	if s == nil {
		return f.CreateType(ctx, TypeBase, nil, nil)
	}
	img := f.CreateType(ctx, s.Type, s.Attributes, s.Settings)
	if len(s.BeforeOutput) > 0 {
		_ = img.settings.AddOutput(SettingBeforeOutput, s.BeforeOutput)
	}
	if len(s.AfterOutput) > 0 {
		_ = img.settings.AddOutput(SettingAfterOutput, s.AfterOutput)
	}
	return img
}
