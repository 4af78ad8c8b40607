package imgtag

import (
	"errors"
	"iter"
	"maps"
	"slices"
	"sort"

	"github.com/itsatony/go-imgtag/internal"
)

// ValueKind classifies stored values for kind-keyed hook dispatch.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
	KindMap
	KindFragments
	KindOther
)

var valueKindNames = [...]string{
	KindNull:      "null",
	KindString:    "string",
	KindInt:       "int",
	KindFloat:     "float",
	KindBool:      "bool",
	KindList:      "list",
	KindMap:       "map",
	KindFragments: "fragments",
	KindOther:     "other",
}

// String returns the kind name.
func (k ValueKind) String() string {
	if k < 0 || int(k) >= len(valueKindNames) {
		return valueKindNames[KindOther]
	}
	return valueKindNames[k]
}

// KindOf returns the kind of v.
func KindOf(v any) ValueKind {
	switch v.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case float32, float64:
		return KindFloat
	case bool:
		return KindBool
	case []string, []any:
		return KindList
	case map[string]any, map[string]string:
		return KindMap
	case *Fragments:
		return KindFragments
	}
	return KindOther
}

// ReadContext selects how a stored value is returned.
type ReadContext int

const (
	// ContextEdit returns the raw stored value.
	ContextEdit ReadContext = iota
	// ContextView returns the rendered representation used in output.
	ContextView
)

// SetFunc normalizes a value before it is stored. Returning a nil value
// unsets the key; returning an error rejects the value and leaves the store
// unchanged.
type SetFunc func(key string, value any) (any, error)

// AddToFunc combines an incoming value with the current one. The result is
// stored through the regular Set dispatch.
type AddToFunc func(key string, current, value any) (any, error)

// ViewFunc renders a stored value for output.
type ViewFunc func(key string, value any) any

// StoreHooks is the dispatch table of a store type. Name hooks win over kind
// hooks; kind hooks are looked up for the incoming value first and then for
// the key's default.
type StoreHooks struct {
	SetByName   map[string]SetFunc
	SetByKind   map[ValueKind]SetFunc
	AddToByName map[string]AddToFunc
	AddToByKind map[ValueKind]AddToFunc
	ViewByName  map[string]ViewFunc
	ViewByKind  map[ValueKind]ViewFunc
}

// merged returns a copy of h with the name hooks of extra layered on top.
func (h StoreHooks) merged(extra StoreHooks) StoreHooks {
	out := StoreHooks{
		SetByName:   maps.Clone(h.SetByName),
		SetByKind:   maps.Clone(h.SetByKind),
		AddToByName: maps.Clone(h.AddToByName),
		AddToByKind: maps.Clone(h.AddToByKind),
		ViewByName:  maps.Clone(h.ViewByName),
		ViewByKind:  maps.Clone(h.ViewByKind),
	}
	out.SetByName = mergeHooks(out.SetByName, extra.SetByName)
	out.SetByKind = mergeHooks(out.SetByKind, extra.SetByKind)
	out.AddToByName = mergeHooks(out.AddToByName, extra.AddToByName)
	out.AddToByKind = mergeHooks(out.AddToByKind, extra.AddToByKind)
	out.ViewByName = mergeHooks(out.ViewByName, extra.ViewByName)
	out.ViewByKind = mergeHooks(out.ViewByKind, extra.ViewByKind)
	return out
}

func mergeHooks[K comparable, V any](dst, src map[K]V) map[K]V {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[K]V, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

// AttributeResolver supplies view values for keys that hold nothing.
// Elements use it to compute src and dimensions at serialization time.
type AttributeResolver interface {
	ResolveAttribute(key string) (any, bool)
}

// PropertyStore is an ordered key/value container with defaults and
// hook-based normalization. It is not safe for concurrent mutation; every
// element owns its stores and clones them before deriving new elements.
type PropertyStore struct {
	name     string
	hooks    StoreHooks
	defaults map[string]any
	known    []string
	entries  map[string]any
	order    []string
	explicit map[string]struct{}
	resolver AttributeResolver
	diag     *diagnostics
}

// NewPropertyStore creates a store. Defaults are normalized through the
// hooks before being frozen; nil defaults mark a key as known without
// storing a value.
func NewPropertyStore(name string, hooks StoreHooks, defaults map[string]any) *PropertyStore {
	return newPropertyStore(name, hooks, defaults, nil)
}

func newPropertyStore(name string, hooks StoreHooks, defaults map[string]any, diag *diagnostics) *PropertyStore {
	s := &PropertyStore{
		name:     name,
		hooks:    hooks,
		defaults: make(map[string]any, len(defaults)),
		entries:  make(map[string]any, len(defaults)),
		explicit: make(map[string]struct{}),
		diag:     diag,
	}
	for _, key := range sortedKeys(defaults) {
		s.known = append(s.known, key)
		value := defaults[key]
		if value == nil {
			continue
		}
		normalized, err := s.normalize(key, value)
		if err != nil {
			s.warn(key, value, err)
			continue
		}
		if normalized == nil {
			continue
		}
		s.defaults[key] = normalized
		s.put(key, internal.DeepCopy(normalized))
	}
	return s
}

// Name returns the store name used in diagnostics.
func (s *PropertyStore) Name() string {
	return s.name
}

// Set stores value under key. Rejected values leave the store unchanged and
// return a configuration warning.
func (s *PropertyStore) Set(key string, value any) error {
	normalized, err := s.normalize(key, value)
	if err != nil {
		return s.warn(key, value, err)
	}
	if normalized == nil {
		s.Unset(key)
		return nil
	}
	s.put(key, normalized)
	s.explicit[key] = struct{}{}
	return nil
}

// SetAll applies every entry of values in lexical key order and returns the
// joined warnings of all rejected entries.
func (s *PropertyStore) SetAll(values map[string]any) error {
	var errs []error
	for _, key := range sortedKeys(values) {
		if err := s.Set(key, values[key]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Add sets key only if it is absent or still holds an empty default. An
// empty value set explicitly is kept.
func (s *PropertyStore) Add(key string, value any) error {
	if current, ok := s.entries[key]; ok && (!internal.IsEmpty(current) || s.IsExplicit(key)) {
		return nil
	}
	return s.Set(key, value)
}

// AddAll applies Add for every entry of values in lexical key order.
func (s *PropertyStore) AddAll(values map[string]any) error {
	var errs []error
	for _, key := range sortedKeys(values) {
		if err := s.Add(key, values[key]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AddTo merges value into the current value of key: strings concatenate,
// numbers add up, lists append and maps merge. An empty key behaves like Set.
func (s *PropertyStore) AddTo(key string, value any) error {
	current, ok := s.entries[key]
	if !ok || internal.IsEmpty(current) {
		return s.Set(key, value)
	}

	var combined any
	var err error
	switch {
	case s.hooks.AddToByName[key] != nil:
		combined, err = s.hooks.AddToByName[key](key, current, value)
	case s.hooks.AddToByKind[KindOf(value)] != nil:
		combined, err = s.hooks.AddToByKind[KindOf(value)](key, current, value)
	case s.hooks.AddToByKind[KindOf(current)] != nil:
		combined, err = s.hooks.AddToByKind[KindOf(current)](key, current, value)
	default:
		combined, err = combineValues(current, value)
	}
	if err != nil {
		return s.warn(key, value, err)
	}
	return s.Set(key, combined)
}

// Get returns the value of key. Edit context returns a copy of the raw value;
// view context renders it through the view hooks.
func (s *PropertyStore) Get(key string, ctx ReadContext) any {
	value := s.entries[key]
	if ctx == ContextEdit {
		return internal.DeepCopy(value)
	}
	return s.view(key, value)
}

// GetMany returns the values of keys. View context drops empty results.
func (s *PropertyStore) GetMany(keys []string, ctx ReadContext) map[string]any {
	out := make(map[string]any, len(keys))
	for _, key := range keys {
		value := s.Get(key, ctx)
		if ctx == ContextView && internal.IsEmpty(value) {
			continue
		}
		if ctx == ContextEdit {
			if _, ok := s.entries[key]; !ok {
				continue
			}
		}
		out[key] = value
	}
	return out
}

// GetAll returns every stored value. In view context known keys that can be
// resolved lazily are included and empty results are dropped.
func (s *PropertyStore) GetAll(ctx ReadContext) map[string]any {
	keys := s.Keys()
	if ctx == ContextView {
		for _, key := range s.known {
			if !slices.Contains(keys, key) {
				keys = append(keys, key)
			}
		}
	}
	return s.GetMany(keys, ctx)
}

// Has reports whether key holds a non-nil value.
func (s *PropertyStore) Has(key string) bool {
	value, ok := s.entries[key]
	return ok && value != nil
}

// IsExplicit reports whether key was set by a caller rather than holding
// its default.
func (s *PropertyStore) IsExplicit(key string) bool {
	_, ok := s.explicit[key]
	return ok
}

// Unset restores the default of key, or removes it when it has none.
func (s *PropertyStore) Unset(key string) {
	delete(s.explicit, key)
	if def, ok := s.defaults[key]; ok {
		s.put(key, internal.DeepCopy(def))
		return
	}
	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	s.order = slices.DeleteFunc(s.order, func(k string) bool { return k == key })
}

// All iterates raw values in insertion order.
func (s *PropertyStore) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, key := range s.order {
			if !yield(key, s.entries[key]) {
				return
			}
		}
	}
}

// Len returns the number of stored keys.
func (s *PropertyStore) Len() int {
	return len(s.order)
}

// Keys returns the stored keys in insertion order.
func (s *PropertyStore) Keys() []string {
	return slices.Clone(s.order)
}

// Defaults returns a copy of the frozen defaults.
func (s *PropertyStore) Defaults() map[string]any {
	return internal.DeepCopy(s.defaults).(map[string]any)
}

// Copy returns an independent deep copy. The resolver is not carried over;
// the new owner binds its own.
func (s *PropertyStore) Copy() *PropertyStore {
	out := &PropertyStore{
		name:     s.name,
		hooks:    s.hooks,
		defaults: s.defaults,
		known:    s.known,
		entries:  make(map[string]any, len(s.entries)),
		order:    slices.Clone(s.order),
		explicit: maps.Clone(s.explicit),
		diag:     s.diag,
	}
	for key, value := range s.entries {
		out.entries[key] = internal.DeepCopy(value)
	}
	return out
}

// SetResolver binds the view fallback for empty keys.
func (s *PropertyStore) SetResolver(resolver AttributeResolver) {
	s.resolver = resolver
}

func (s *PropertyStore) normalize(key string, value any) (any, error) {
	if fn := s.hooks.SetByName[key]; fn != nil {
		return fn(key, value)
	}
	kind := KindOf(value)
	if fn := s.hooks.SetByKind[kind]; fn != nil {
		return fn(key, value)
	}
	if def, ok := s.defaults[key]; ok {
		if defKind := KindOf(def); defKind != kind {
			if fn := s.hooks.SetByKind[defKind]; fn != nil {
				return fn(key, value)
			}
		}
	}
	if value == nil {
		return nil, errors.New(ErrMsgNilValue)
	}
	return internal.DeepCopy(value), nil
}

func (s *PropertyStore) view(key string, value any) any {
	if internal.IsEmpty(value) && s.resolver != nil {
		if resolved, ok := s.resolver.ResolveAttribute(key); ok {
			value = resolved
		}
	}
	if fn := s.hooks.ViewByName[key]; fn != nil {
		return fn(key, value)
	}
	if fn := s.hooks.ViewByKind[KindOf(value)]; fn != nil {
		return fn(key, value)
	}
	return internal.DeepCopy(value)
}

func (s *PropertyStore) put(key string, value any) {
	if _, ok := s.entries[key]; !ok {
		s.order = append(s.order, key)
	}
	s.entries[key] = value
}

func (s *PropertyStore) warn(key string, value any, reason error) error {
	err := NewConfigurationWarning(s.name, key, reason.Error(), value)
	s.diag.configWarning(s.name, key, err)
	return err
}

// combineValues is the AddTo fallback keyed by the current value's kind.
func combineValues(current, value any) (any, error) {
	switch KindOf(current) {
	case KindString:
		s, ok := internal.FormatScalar(value)
		if !ok {
			return nil, errors.New(ErrMsgUnsupportedValue)
		}
		return current.(string) + s, nil
	case KindInt:
		a, _ := internal.ToInt(current)
		if b, ok := internal.ToInt(value); ok {
			return int(a + b), nil
		}
		if b, ok := internal.ToFloat(value); ok {
			return float64(a) + b, nil
		}
		return nil, errors.New(ErrMsgUnsupportedValue)
	case KindFloat:
		a, _ := internal.ToFloat(current)
		b, ok := internal.ToFloat(value)
		if !ok {
			return nil, errors.New(ErrMsgUnsupportedValue)
		}
		return a + b, nil
	case KindList:
		out := toAnyList(current)
		if KindOf(value) == KindList {
			return append(out, toAnyList(value)...), nil
		}
		return append(out, value), nil
	case KindMap:
		incoming, ok := toAnyMap(value)
		if !ok {
			return nil, errors.New(ErrMsgUnsupportedValue)
		}
		out, _ := toAnyMap(current)
		maps.Copy(out, incoming)
		return out, nil
	case KindBool:
		return value, nil
	}
	return nil, errors.New(ErrMsgUnsupportedValue)
}

func toAnyList(v any) []any {
	switch list := v.(type) {
	case []string:
		out := make([]any, len(list))
		for i, item := range list {
			out[i] = item
		}
		return out
	case []any:
		return slices.Clone(list)
	}
	return nil
}

func toAnyMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return maps.Clone(m), true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, item := range m {
			out[k] = item
		}
		return out, true
	}
	return nil, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
