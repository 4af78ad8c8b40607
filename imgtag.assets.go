package imgtag

import (
	"context"
	"maps"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Asset drivers
const (
	AssetDriverMemory   = "memory"
	AssetDriverPostgres = "postgres"

	mimeTypeImagePrefix = "image/"
	srcsetWidthSuffix   = "w"
)

// Asset is an uploaded media file with its generated sizes.
type Asset struct {
	ID        int64                `json:"id" yaml:"id"`
	URL       string               `json:"url" yaml:"url"`
	Path      string               `json:"path,omitempty" yaml:"path,omitempty"`
	MimeType  string               `json:"mime_type" yaml:"mime_type"`
	Width     int                  `json:"width" yaml:"width"`
	Height    int                  `json:"height" yaml:"height"`
	Alt       string               `json:"alt,omitempty" yaml:"alt,omitempty"`
	Sizes     map[string]AssetSize `json:"sizes,omitempty" yaml:"sizes,omitempty"`
	CreatedAt time.Time            `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" yaml:"updated_at"`
}

// AssetSize is one generated rendition of an asset.
type AssetSize struct {
	URL    string `json:"url" yaml:"url"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// AssetSource is the URL and dimensions of one rendition.
type AssetSource struct {
	URL    string
	Width  int
	Height int
}

// Source returns the rendition named size, or the full asset when no such
// rendition exists.
func (a *Asset) Source(size string) AssetSource {
	if s, ok := a.Sizes[size]; ok && s.URL != StringValueEmpty {
		return AssetSource{URL: s.URL, Width: s.Width, Height: s.Height}
	}
	return AssetSource{URL: a.URL, Width: a.Width, Height: a.Height}
}

// IsImage reports whether the asset has an image mime type.
func (a *Asset) IsImage() bool {
	return strings.HasPrefix(a.MimeType, mimeTypeImagePrefix)
}

// Srcset returns "url {width}w" candidates for every rendition and the full
// asset, by ascending width. Assets without renditions have no srcset.
func (a *Asset) Srcset() []string {
	if len(a.Sizes) == 0 {
		return nil
	}
	candidates := make([]AssetSize, 0, len(a.Sizes)+1)
	seen := make(map[string]bool, len(a.Sizes)+1)
	for _, s := range a.Sizes {
		if s.Width > 0 && s.URL != StringValueEmpty && !seen[s.URL] {
			seen[s.URL] = true
			candidates = append(candidates, s)
		}
	}
	if a.Width > 0 && !seen[a.URL] {
		candidates = append(candidates, AssetSize{URL: a.URL, Width: a.Width, Height: a.Height})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Width != candidates[j].Width {
			return candidates[i].Width < candidates[j].Width
		}
		return candidates[i].URL < candidates[j].URL
	})
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.URL + " " + strconv.Itoa(c.Width) + srcsetWidthSuffix
	}
	return out
}

// Clone returns a deep copy of the asset.
func (a *Asset) Clone() *Asset {
	if a == nil {
		return nil
	}
	out := *a
	out.Sizes = maps.Clone(a.Sizes)
	return &out
}

// AssetResolver locates uploaded assets by id.
type AssetResolver interface {
	// ResolveAsset returns the asset or an asset-not-found error.
	ResolveAsset(ctx context.Context, id int64) (*Asset, error)
}

// AssetStore is a persistent AssetResolver.
// Implementations must be safe for concurrent use.
type AssetStore interface {
	AssetResolver

	// SaveAsset inserts or replaces the asset with the same id.
	SaveAsset(ctx context.Context, asset *Asset) error

	// DeleteAsset removes an asset.
	DeleteAsset(ctx context.Context, id int64) error

	// ListAssets returns every asset ordered by id.
	ListAssets(ctx context.Context) ([]*Asset, error)

	// Close releases resources.
	Close() error
}

// AssetStoreDriver opens asset stores from a connection string.
type AssetStoreDriver interface {
	Open(connectionString string) (AssetStore, error)
}

// Asset driver registry
var (
	assetDriversMu sync.RWMutex
	assetDrivers   = make(map[string]AssetStoreDriver)
)

// RegisterAssetDriver registers an asset store driver by name.
// This is typically called from a driver's init() function.
// Panics if driver is nil or the name is already registered.
func RegisterAssetDriver(name string, driver AssetStoreDriver) {
	assetDriversMu.Lock()
	defer assetDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgStorageNilDriver)
	}
	if _, exists := assetDrivers[name]; exists {
		panic(ErrMsgStorageDuplicate + ": " + name)
	}
	assetDrivers[name] = driver
}

// OpenAssetStore opens an asset store using the named driver.
//
// Example:
//
//	store, err := imgtag.OpenAssetStore("memory", "")
//	store, err := imgtag.OpenAssetStore("postgres", "postgres://localhost/media?sslmode=disable")
func OpenAssetStore(driverName, connectionString string) (AssetStore, error) {
	assetDriversMu.RLock()
	driver, ok := assetDrivers[driverName]
	assetDriversMu.RUnlock()

	if !ok {
		return nil, NewStorageDriverNotFoundError(driverName)
	}
	return driver.Open(connectionString)
}

// ListAssetDrivers returns the names of all registered drivers, sorted.
func ListAssetDrivers() []string {
	assetDriversMu.RLock()
	defer assetDriversMu.RUnlock()

	names := make([]string, 0, len(assetDrivers))
	for name := range assetDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MemoryAssetStore is an in-memory AssetStore.
// It is primarily intended for testing and development.
type MemoryAssetStore struct {
	mu     sync.RWMutex
	assets map[int64]*Asset
	closed bool
}

// MemoryAssetStoreDriver is the driver for creating MemoryAssetStore instances.
type MemoryAssetStoreDriver struct{}

func init() {
	RegisterAssetDriver(AssetDriverMemory, &MemoryAssetStoreDriver{})
}

// Open creates a new MemoryAssetStore. The connection string is ignored.
func (d *MemoryAssetStoreDriver) Open(string) (AssetStore, error) {
	return NewMemoryAssetStore(), nil
}

// NewMemoryAssetStore creates an empty store, optionally seeded with assets.
func NewMemoryAssetStore(assets ...*Asset) *MemoryAssetStore {
	s := &MemoryAssetStore{assets: make(map[int64]*Asset, len(assets))}
	now := time.Now().UTC()
	for _, a := range assets {
		if a == nil || a.ID <= 0 {
			continue
		}
		stored := a.Clone()
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = now
		}
		stored.UpdatedAt = now
		s.assets[a.ID] = stored
	}
	return s
}

// ResolveAsset implements AssetResolver.
func (s *MemoryAssetStore) ResolveAsset(ctx context.Context, id int64) (*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	asset, ok := s.assets[id]
	if !ok {
		return nil, NewAssetNotFoundError(id)
	}
	return asset.Clone(), nil
}

// SaveAsset implements AssetStore.
func (s *MemoryAssetStore) SaveAsset(ctx context.Context, asset *Asset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if asset == nil {
		return NewStorageError(ErrMsgStorageNilAsset, nil)
	}
	if asset.ID <= 0 {
		return &StorageError{Message: ErrMsgStorageInvalidID, AssetID: asset.ID}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}
	now := time.Now().UTC()
	stored := asset.Clone()
	if existing, ok := s.assets[asset.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.assets[asset.ID] = stored
	return nil
}

// DeleteAsset implements AssetStore.
func (s *MemoryAssetStore) DeleteAsset(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}
	if _, ok := s.assets[id]; !ok {
		return NewAssetNotFoundError(id)
	}
	delete(s.assets, id)
	return nil
}

// ListAssets implements AssetStore.
func (s *MemoryAssetStore) ListAssets(ctx context.Context) ([]*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	out := make([]*Asset, 0, len(s.assets))
	for _, a := range s.assets {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Close implements AssetStore.
func (s *MemoryAssetStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.assets = nil
	return nil
}
