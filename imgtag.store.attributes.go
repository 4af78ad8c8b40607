package imgtag

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/a-h/templ"

	"github.com/itsatony/go-imgtag/internal"
)

// stringAttributes accept a string or a number.
var stringAttributes = []string{AttrID, AttrSrc, AttrDataSrc, AttrTitle, AttrWidth, AttrHeight, AttrAlt}

// listAttributes maps each list attribute to its split and join delimiters.
var listAttributes = map[string][2]string{
	AttrClass:      {DelimClass, DelimClass},
	AttrStyle:      {DelimStyle, DelimStyleJoin},
	AttrSizes:      {DelimComma, DelimCommaJoin},
	AttrSrcset:     {DelimComma, DelimCommaJoin},
	AttrDataSizes:  {DelimComma, DelimCommaJoin},
	AttrDataSrcset: {DelimComma, DelimCommaJoin},
}

var attributeHooks = newAttributeHooks()

func newAttributeHooks() StoreHooks {
	hooks := StoreHooks{
		SetByName:  make(map[string]SetFunc),
		ViewByName: make(map[string]ViewFunc),
		SetByKind: map[ValueKind]SetFunc{
			KindList:  setListValue(DelimUnknownMap),
			KindMap:   rejectValue,
			KindBool:  rejectValue,
			KindOther: rejectValue,
		},
		ViewByKind: map[ValueKind]ViewFunc{
			KindList: viewListValue(DelimUnknownMap),
		},
	}
	for _, key := range stringAttributes {
		hooks.SetByName[key] = setStringValue
	}
	for key, delims := range listAttributes {
		hooks.SetByName[key] = setListValue(delims[0])
		hooks.ViewByName[key] = viewListValue(delims[1])
	}
	return hooks
}

func attributeDefaults() map[string]any {
	defaults := map[string]any{
		AttrAlt: StringValueEmpty,
	}
	for _, key := range stringAttributes {
		if _, ok := defaults[key]; !ok {
			defaults[key] = nil
		}
	}
	for key := range listAttributes {
		defaults[key] = []string{}
	}
	return defaults
}

func setStringValue(_ string, value any) (any, error) {
	if value == nil {
		return nil, errors.New(ErrMsgNilValue)
	}
	if _, ok := internal.FormatScalar(value); !ok || KindOf(value) == KindOther {
		return nil, errors.New(ErrMsgUnsupportedValue)
	}
	return value, nil
}

func setListValue(delim string) SetFunc {
	return func(_ string, value any) (any, error) {
		list, ok := internal.SplitList(value, delim)
		if !ok {
			return nil, errors.New(ErrMsgUnsupportedValue)
		}
		return internal.Dedupe(list), nil
	}
}

func viewListValue(join string) ViewFunc {
	return func(_ string, value any) any {
		list, ok := value.([]string)
		if !ok {
			list, _ = internal.SplitList(value, DelimClass)
		}
		if len(list) == 0 {
			return nil
		}
		return strings.Join(list, join)
	}
}

func rejectValue(_ string, _ any) (any, error) {
	return nil, errors.New(ErrMsgUnsupportedValue)
}

// AttributeStore holds the markup attributes of an element.
type AttributeStore struct {
	*PropertyStore
	debug bool
}

// NewAttributeStore creates an attribute store seeded with the known
// attribute defaults and then with values.
func NewAttributeStore(values map[string]any) *AttributeStore {
	return newAttributeStore(values, nil)
}

func newAttributeStore(values map[string]any, diag *diagnostics) *AttributeStore {
	s := &AttributeStore{
		PropertyStore: newPropertyStore(StoreNameAttributes, attributeHooks, attributeDefaults(), diag),
	}
	_ = s.SetAll(values)
	return s
}

// SetDebug switches String to one attribute per line.
func (s *AttributeStore) SetDebug(debug bool) {
	s.debug = debug
}

// Copy returns an independent deep copy.
func (s *AttributeStore) Copy() *AttributeStore {
	return &AttributeStore{PropertyStore: s.PropertyStore.Copy(), debug: s.debug}
}

// List returns a list attribute in edit form.
func (s *AttributeStore) List(key string) []string {
	switch list := s.Get(key, ContextEdit).(type) {
	case []string:
		return list
	case nil:
		return nil
	default:
		out, _ := internal.SplitList(list, DelimClass)
		return out
	}
}

// String serializes the attributes: known attributes in AttributeOrder,
// then the rest in insertion order, each value attribute-escaped.
func (s *AttributeStore) String() string {
	parts := make([]string, 0, s.Len())
	for _, key := range AttributeOrder {
		if part, ok := s.format(key); ok {
			parts = append(parts, part)
		}
	}
	for _, key := range s.order {
		if slices.Contains(AttributeOrder, key) {
			continue
		}
		if part, ok := s.format(key); ok {
			parts = append(parts, part)
		}
	}
	if s.debug {
		return AttrSepDebug + strings.Join(parts, AttrSepDebug)
	}
	return strings.Join(parts, AttrSep)
}

func (s *AttributeStore) format(key string) (string, bool) {
	value := s.Get(key, ContextView)
	if key == AttrAlt && value == nil {
		value = StringValueEmpty
	}
	if key != AttrAlt && internal.IsEmpty(value) {
		return StringValueEmpty, false
	}
	text, ok := internal.FormatScalar(value)
	if !ok {
		text = fmt.Sprint(value)
	}
	return fmt.Sprintf(AttrFmt, key, templ.EscapeString(text)), true
}
