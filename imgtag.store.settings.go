package imgtag

import (
	"errors"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/itsatony/go-imgtag/internal"
)

// Fragment is one piece of markup injected around the element output.
type Fragment struct {
	Priority int    `json:"priority" yaml:"priority" msgpack:"priority"`
	Text     string `json:"text" yaml:"text" msgpack:"text"`
}

// Fragments is a multimap of output fragments kept sorted by ascending
// priority; fragments of equal priority keep their insertion order.
type Fragments struct {
	items []Fragment
}

// NewFragments creates a fragment list from items.
func NewFragments(items ...Fragment) *Fragments {
	f := &Fragments{}
	for _, item := range items {
		f.Add(item.Priority, item.Text)
	}
	return f
}

// Add inserts text at priority. Blank text is ignored.
func (f *Fragments) Add(priority int, text string) {
	if strings.TrimSpace(text) == StringValueEmpty {
		return
	}
	f.items = append(f.items, Fragment{Priority: priority, Text: text})
	sort.SliceStable(f.items, func(i, j int) bool {
		return f.items[i].Priority < f.items[j].Priority
	})
}

// Merge appends every fragment of other.
func (f *Fragments) Merge(other *Fragments) {
	if other == nil {
		return
	}
	for _, item := range other.items {
		f.Add(item.Priority, item.Text)
	}
}

// Len returns the number of fragments.
func (f *Fragments) Len() int {
	if f == nil {
		return 0
	}
	return len(f.items)
}

// Items returns the fragments in output order.
func (f *Fragments) Items() []Fragment {
	if f == nil {
		return nil
	}
	return slices.Clone(f.items)
}

// Strings returns the fragment texts in output order, or nil when empty.
func (f *Fragments) Strings() []string {
	if f.Len() == 0 {
		return nil
	}
	out := make([]string, len(f.items))
	for i, item := range f.items {
		out[i] = item.Text
	}
	return out
}

// CloneValue implements the deep-copy contract used by the stores.
func (f *Fragments) CloneValue() any {
	if f == nil {
		return (*Fragments)(nil)
	}
	return &Fragments{items: slices.Clone(f.items)}
}

// toFragments normalizes fragment input. Plain values are placed at
// priority; integer map keys are used as priorities.
func toFragments(value any, priority int) (*Fragments, bool) {
	out := &Fragments{}
	ok := appendFragments(out, value, priority)
	return out, ok
}

func appendFragments(out *Fragments, value any, priority int) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		out.Add(priority, v)
		return true
	case []string:
		for _, item := range v {
			out.Add(priority, item)
		}
		return true
	case []any:
		ok := true
		for _, item := range v {
			ok = appendFragments(out, item, priority) && ok
		}
		return ok
	case *Fragments:
		out.Merge(v)
		return true
	case []Fragment:
		for _, item := range v {
			out.Add(item.Priority, item.Text)
		}
		return true
	case map[int]string:
		for _, key := range sortedIntKeys(v) {
			out.Add(key, v[key])
		}
		return true
	case map[int][]string:
		for _, key := range sortedIntKeys(v) {
			appendFragments(out, v[key], key)
		}
		return true
	case map[int]any:
		ok := true
		for _, key := range sortedIntKeys(v) {
			ok = appendFragments(out, v[key], key) && ok
		}
		return ok
	case map[string]any:
		numbered := make(map[int]any, len(v))
		var named []any
		for _, key := range sortedKeys(v) {
			if p, err := strconv.Atoi(strings.TrimSpace(key)); err == nil {
				numbered[p] = v[key]
				continue
			}
			named = append(named, v[key])
		}
		ok := appendFragments(out, numbered, priority)
		return appendFragments(out, named, priority) && ok
	}
	return false
}

func sortedIntKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}

var settingHooks = StoreHooks{
	SetByName: map[string]SetFunc{
		SettingBeforeOutput: setFragmentsValue,
		SettingAfterOutput:  setFragmentsValue,
	},
	SetByKind: map[ValueKind]SetFunc{
		KindInt:  IntSetting,
		KindBool: BoolSetting,
		KindList: ListSetting,
	},
	AddToByKind: map[ValueKind]AddToFunc{
		KindFragments: func(_ string, current, value any) (any, error) {
			incoming, ok := toFragments(value, DefaultOutputPriority)
			if !ok {
				return nil, errors.New(ErrMsgUnsupportedValue)
			}
			merged := current.(*Fragments).CloneValue().(*Fragments)
			merged.Merge(incoming)
			return merged, nil
		},
	},
	ViewByKind: map[ValueKind]ViewFunc{
		KindFragments: func(_ string, value any) any {
			texts := value.(*Fragments).Strings()
			if len(texts) == 0 {
				return nil
			}
			return strings.Join(texts, FragmentSep)
		},
	},
}

func setFragmentsValue(_ string, value any) (any, error) {
	fragments, ok := toFragments(value, DefaultOutputPriority)
	if !ok {
		return nil, errors.New(ErrMsgUnsupportedValue)
	}
	return fragments, nil
}

// IntSetting coerces numbers and numeric strings to int. Empty strings unset
// the key.
func IntSetting(_ string, value any) (any, error) {
	if s, ok := value.(string); ok && strings.TrimSpace(s) == StringValueEmpty {
		return nil, nil
	}
	if b, ok := value.(bool); ok {
		if b {
			return 1, nil
		}
		return 0, nil
	}
	i, ok := internal.ToInt(value)
	if !ok {
		return nil, errors.New(ErrMsgInvalidInteger)
	}
	return int(i), nil
}

// BoolSetting parses booleans, integers and the usual string spellings.
func BoolSetting(_ string, value any) (any, error) {
	b, ok := internal.ParseBool(value)
	if !ok {
		return nil, errors.New(ErrMsgInvalidBool)
	}
	return b, nil
}

// ListSetting splits strings on commas and flattens nested lists.
func ListSetting(_ string, value any) (any, error) {
	list, ok := internal.SplitList(value, DelimComma)
	if !ok {
		return nil, errors.New(ErrMsgUnsupportedValue)
	}
	return list, nil
}

// StringSetting accepts strings and numbers and stores them as strings.
// Empty strings unset the key.
func StringSetting(_ string, value any) (any, error) {
	s, ok := internal.FormatScalar(value)
	if !ok || KindOf(value) == KindOther {
		return nil, errors.New(ErrMsgUnsupportedValue)
	}
	s = strings.TrimSpace(s)
	if s == StringValueEmpty {
		return nil, nil
	}
	return s, nil
}

// ChoiceSetting accepts one of choices, case-insensitively. Empty strings
// unset the key.
func ChoiceSetting(choices ...string) SetFunc {
	return func(key string, value any) (any, error) {
		s, ok := value.(string)
		if !ok {
			return nil, errors.New(ErrMsgInvalidChoice)
		}
		s = strings.ToLower(strings.TrimSpace(s))
		if s == StringValueEmpty {
			return nil, nil
		}
		if !slices.Contains(choices, s) {
			return nil, errors.New(ErrMsgInvalidChoice)
		}
		return s, nil
	}
}

// SettingStore holds the generation options of an element. The reserved
// keys before_output and after_output always hold Fragments.
type SettingStore struct {
	*PropertyStore
}

// NewSettingStore creates a setting store from backend defaults, optional
// extra hooks and caller values.
func NewSettingStore(defaults map[string]any, extra StoreHooks, values map[string]any) *SettingStore {
	return newSettingStore(defaults, extra, values, nil)
}

func newSettingStore(defaults map[string]any, extra StoreHooks, values map[string]any, diag *diagnostics) *SettingStore {
	all := make(map[string]any, len(defaults)+2)
	for key, value := range defaults {
		all[key] = value
	}
	all[SettingBeforeOutput] = NewFragments()
	all[SettingAfterOutput] = NewFragments()

	s := &SettingStore{
		PropertyStore: newPropertyStore(StoreNameSettings, settingHooks.merged(extra), all, diag),
	}
	_ = s.SetAll(values)
	return s
}

// Copy returns an independent deep copy.
func (s *SettingStore) Copy() *SettingStore {
	return &SettingStore{PropertyStore: s.PropertyStore.Copy()}
}

// AddOutput merges fragments into before_output or after_output. Plain
// fragments use priority, DefaultOutputPriority when omitted.
func (s *SettingStore) AddOutput(position string, fragments any, priority ...int) error {
	if position != SettingBeforeOutput && position != SettingAfterOutput {
		return s.warn(position, fragments, errors.New(ErrMsgInvalidPosition))
	}
	p := DefaultOutputPriority
	if len(priority) > 0 {
		p = priority[0]
	}
	normalized, ok := toFragments(fragments, p)
	if !ok {
		return s.warn(position, fragments, errors.New(ErrMsgUnsupportedValue))
	}
	return s.AddTo(position, normalized)
}

// GetOutput returns the fragments of position in output order, or nil.
func (s *SettingStore) GetOutput(position string) []string {
	fragments, _ := s.entries[position].(*Fragments)
	return fragments.Strings()
}

// Fragments returns a copy of the fragments stored at position.
func (s *SettingStore) Fragments(position string) *Fragments {
	fragments, _ := s.entries[position].(*Fragments)
	if fragments == nil {
		return NewFragments()
	}
	return fragments.CloneValue().(*Fragments)
}

// Int returns an integer setting.
func (s *SettingStore) Int(key string) (int, bool) {
	i, ok := internal.ToInt(s.entries[key])
	return int(i), ok
}

// Text returns a setting formatted as text.
func (s *SettingStore) Text(key string) string {
	text, _ := internal.FormatScalar(s.entries[key])
	return text
}

// Bool returns a boolean setting; absent keys are false.
func (s *SettingStore) Bool(key string) bool {
	b, _ := internal.ParseBool(s.entries[key])
	return b
}
