package internal

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// InternalBackend mirrors the public Backend interface for internal use.
// This allows the internal package to index backends without import cycles.
type InternalBackend interface {
	TypeName() string
	Keywords() []string
}

// Registry indexes backends by type name and by source keyword with
// first-come-wins semantics. It is thread-safe for concurrent read/write access.
type Registry struct {
	backends map[string]InternalBackend
	keywords map[string]string
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewRegistry creates a new backend registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgRegistryCreated)
	return &Registry{
		backends: make(map[string]InternalBackend),
		keywords: make(map[string]string),
		logger:   logger,
	}
}

// Register adds a backend to the registry.
// A second backend for the same type name is rejected with an error.
// Keywords already claimed by an earlier backend are skipped and logged.
func (r *Registry) Register(backend InternalBackend) error {
	if backend == nil {
		return NewRegistryError(ErrMsgNilBackend, StringValueEmpty)
	}

	typeName := backend.TypeName()
	if typeName == StringValueEmpty {
		return NewRegistryError(ErrMsgEmptyTypeName, StringValueEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.backends[typeName]; exists {
		r.logger.Warn(LogMsgBackendCollision, zap.String(LogFieldTypeName, typeName))
		return NewRegistryError(ErrMsgBackendAlreadyExists, typeName)
	}

	r.backends[typeName] = backend
	for _, keyword := range backend.Keywords() {
		keyword = normalizeKeyword(keyword)
		if keyword == StringValueEmpty {
			continue
		}
		if owner, claimed := r.keywords[keyword]; claimed {
			r.logger.Warn(LogMsgKeywordCollision,
				zap.String(LogFieldKeyword, keyword),
				zap.String(LogFieldExisting, owner),
				zap.String(LogFieldTypeName, typeName),
			)
			continue
		}
		r.keywords[keyword] = typeName
	}
	r.logger.Debug(LogMsgBackendRegistered, zap.String(LogFieldTypeName, typeName))
	return nil
}

// MustRegister adds a backend and panics if registration fails.
// Use this for built-in backends that must always be available.
func (r *Registry) MustRegister(backend InternalBackend) {
	if err := r.Register(backend); err != nil {
		panic(err)
	}
}

// Get retrieves a backend by type name.
func (r *Registry) Get(typeName string) (InternalBackend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	backend, exists := r.backends[typeName]
	return backend, exists
}

// Lookup resolves a source keyword, case-insensitively, to its backend.
func (r *Registry) Lookup(keyword string) (InternalBackend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeName, exists := r.keywords[normalizeKeyword(keyword)]
	if !exists {
		return nil, false
	}
	backend, exists := r.backends[typeName]
	return backend, exists
}

// Has checks if a backend is registered for the given type name.
func (r *Registry) Has(typeName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.backends[typeName]
	return exists
}

// List returns all registered type names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Keywords returns all claimed keywords in sorted order.
func (r *Registry) Keywords() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keywords := make([]string, 0, len(r.keywords))
	for keyword := range r.keywords {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)
	return keywords
}

// Count returns the number of registered backends.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.backends)
}

func normalizeKeyword(keyword string) string {
	return strings.ToLower(strings.TrimSpace(keyword))
}

// RegistryError represents a registry operation error
type RegistryError struct {
	Message  string
	TypeName string
}

// NewRegistryError creates a new registry error
func NewRegistryError(message, typeName string) *RegistryError {
	return &RegistryError{
		Message:  message,
		TypeName: typeName,
	}
}

// Error implements the error interface
func (e *RegistryError) Error() string {
	if e.TypeName != StringValueEmpty {
		return fmt.Sprintf(ErrFmtNameMessage, e.Message, e.TypeName)
	}
	return e.Message
}

// Registry error message constants
const (
	ErrMsgNilBackend           = "backend cannot be nil"
	ErrMsgEmptyTypeName        = "backend type name cannot be empty"
	ErrMsgBackendAlreadyExists = "backend already registered for type"
)
