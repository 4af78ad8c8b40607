package imgtag

import (
	"fmt"
	"strconv"

	"github.com/itsatony/go-cuserr"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Configuration warnings
	ErrMsgUnsupportedValue = "unsupported value type for property"
	ErrMsgNilValue         = "nil value cannot be stored without an override"
	ErrMsgInvalidInteger   = "value is not an integer"
	ErrMsgInvalidBool      = "value is not a boolean"
	ErrMsgInvalidChoice    = "value is not one of the allowed choices"
	ErrMsgInvalidPosition  = "unknown output position"

	// Validation failures
	ErrMsgMissingSrc       = "element has no src"
	ErrMsgMissingDimension = "element needs a width or a height"
	ErrMsgAssetUnavailable = "referenced asset could not be located"
	ErrMsgAssetNotImage    = "referenced asset is not an image"
	ErrMsgThemeFileMissing = "theme file could not be located"
	ErrMsgMissingAssetID   = "element has no asset id"
	ErrMsgMissingThemePath = "element has no theme path"
	ErrMsgNoResolver       = "no resolver configured"

	// Source errors
	ErrMsgUnresolvedSource = "source could not be classified"
	ErrMsgUnknownType      = "no backend registered for type"
	ErrMsgAlreadyOfType    = "element is already of the target type"

	// Collaborator errors
	ErrMsgAssetNotFound     = "asset not found"
	ErrMsgThemeFileNotFound = "theme file not found"
	ErrMsgFetchFailed       = "fetch failed"
	ErrMsgFetchStatus       = "fetch returned an unexpected status"
	ErrMsgFetchTooLarge     = "response body exceeds the size limit"
	ErrMsgNotLocal          = "element does not reference a local file"
	ErrMsgNoColorExtractor  = "no color extractor configured"
	ErrMsgNoPicsumImage     = "picsum element has no image id"

	// Codec and config errors
	ErrMsgUnknownFormat   = "unknown snapshot format"
	ErrMsgSnapshotEncode  = "failed to encode snapshot"
	ErrMsgSnapshotDecode  = "failed to decode snapshot"
	ErrMsgConfigRead      = "failed to read config file"
	ErrMsgConfigParse     = "failed to parse config"
	ErrMsgConfigInvalid   = "config is invalid"
	ErrMsgCacheEncode     = "failed to encode cache entry"
	ErrMsgCacheDecode     = "failed to decode cache entry"
	ErrMsgMetricsRegister = "failed to register metrics"
)

// Error code constants for categorization
const (
	ErrCodeConfig     = "IMGTAG_CONFIG"
	ErrCodeValidation = "IMGTAG_VALIDATION"
	ErrCodeSource     = "IMGTAG_SOURCE"
	ErrCodeFetch      = "IMGTAG_FETCH"
	ErrCodeCodec      = "IMGTAG_CODEC"
)

// NewConfigurationWarning reports a value that a store refused to accept.
// The store is left unchanged; the warning is returned for the caller to
// inspect but never stops rendering.
func NewConfigurationWarning(store, property, reason string, value any) error {
	return cuserr.NewValidationError(ErrCodeConfig, reason).
		WithMetadata(MetaKeyStore, store).
		WithMetadata(MetaKeyProperty, property).
		WithMetadata(MetaKeyValueType, fmt.Sprintf("%T", value))
}

// NewValidationFailure creates one named validation failure for an element type.
func NewValidationFailure(elementType, reason string) error {
	return cuserr.NewValidationError(ErrCodeValidation, reason).
		WithMetadata(MetaKeyType, elementType).
		WithMetadata(MetaKeyReason, reason)
}

// NewUnresolvedSourceError reports a factory source that matched no backend.
func NewUnresolvedSourceError(source any) error {
	return cuserr.NewValidationError(ErrCodeSource, ErrMsgUnresolvedSource).
		WithMetadata(MetaKeySource, fmt.Sprint(source))
}

// NewUnknownTypeError reports a type name with no registered backend.
func NewUnknownTypeError(typeName string) error {
	return cuserr.NewNotFoundError(MetaKeyType, ErrMsgUnknownType).
		WithMetadata(MetaKeyType, typeName)
}

// NewConversionRefusedError reports an Into call targeting a type the
// element already has.
func NewConversionRefusedError(typeName string) error {
	return cuserr.NewValidationError(ErrCodeSource, ErrMsgAlreadyOfType).
		WithMetadata(MetaKeyType, typeName)
}

// NewAssetNotFoundError creates an error for an asset id with no record.
func NewAssetNotFoundError(id int64) error {
	return cuserr.NewNotFoundError(MetaKeyAssetID, ErrMsgAssetNotFound).
		WithMetadata(MetaKeyAssetID, strconv.FormatInt(id, 10))
}

// NewThemeFileNotFoundError creates an error for a theme path that exists
// in no configured root.
func NewThemeFileNotFoundError(path string) error {
	return cuserr.NewNotFoundError(MetaKeyPath, ErrMsgThemeFileNotFound).
		WithMetadata(MetaKeyPath, path)
}

// NewFetchError wraps a failed outbound request.
func NewFetchError(url string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeFetch, ErrMsgFetchFailed)
	} else {
		err = cuserr.NewInternalError(ErrCodeFetch, nil)
	}
	return err.WithMetadata(MetaKeyURL, url)
}

// NewFetchStatusError reports a non-2xx response.
func NewFetchStatusError(url string, status int) error {
	return cuserr.NewValidationError(ErrCodeFetch, ErrMsgFetchStatus).
		WithMetadata(MetaKeyURL, url).
		WithMetadata(MetaKeyStatus, strconv.Itoa(status))
}

// NewFetchTooLargeError reports a response body larger than limit bytes.
func NewFetchTooLargeError(url string, limit int64) error {
	return cuserr.NewValidationError(ErrCodeFetch, ErrMsgFetchTooLarge).
		WithMetadata(MetaKeyURL, url).
		WithMetadata(MetaKeyLimit, strconv.FormatInt(limit, 10))
}

// NewCodecError wraps a snapshot or cache encoding failure.
func NewCodecError(msg, format string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeCodec, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeCodec, msg)
	}
	return err.WithMetadata(MetaKeyFormat, format)
}

// NewConfigError wraps a config load or validation failure.
func NewConfigError(msg string, cause error) error {
	if cause != nil {
		return cuserr.WrapStdError(cause, ErrCodeConfig, msg)
	}
	return cuserr.NewValidationError(ErrCodeConfig, msg)
}

// StorageError represents an asset storage error.
type StorageError struct {
	Message string
	Driver  string
	AssetID int64
	Cause   error
}

// NewStorageError creates a storage error with an optional cause.
func NewStorageError(message string, cause error) *StorageError {
	return &StorageError{Message: message, Cause: cause}
}

// NewStorageDriverNotFoundError creates an error for an unknown asset driver.
func NewStorageDriverNotFoundError(driver string) error {
	return &StorageError{Message: ErrMsgStorageDriverNotFound, Driver: driver}
}

// NewStorageClosedError creates an error for operations on a closed store.
func NewStorageClosedError() error {
	return &StorageError{Message: ErrMsgStorageClosed}
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	msg := e.Message
	if e.Driver != StringValueEmpty {
		msg += ": " + e.Driver
	}
	if e.AssetID > 0 {
		msg += " #" + strconv.FormatInt(e.AssetID, 10)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// Storage error messages
const (
	ErrMsgStorageDriverNotFound = "asset storage driver not found"
	ErrMsgStorageClosed         = "asset store is closed"
	ErrMsgStorageNilAsset       = "asset cannot be nil"
	ErrMsgStorageInvalidID      = "asset id must be positive"
	ErrMsgStorageNilDriver      = "asset storage driver cannot be nil"
	ErrMsgStorageDuplicate      = "asset storage driver already registered"
	ErrMsgPostgresConnection    = "failed to connect to postgres"
	ErrMsgPostgresPing          = "failed to ping postgres"
	ErrMsgPostgresQuery         = "postgres query failed"
	ErrMsgPostgresMigration     = "postgres migration failed"
	ErrMsgPostgresScan          = "failed to scan postgres row"
	ErrMsgPostgresEmptyConnStr  = "postgres connection string is empty"
)
