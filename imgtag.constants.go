package imgtag

import "time"

// Attribute names
const (
	AttrID         = "id"
	AttrSrc        = "src"
	AttrDataSrc    = "data-src"
	AttrSrcset     = "srcset"
	AttrDataSrcset = "data-srcset"
	AttrSizes      = "sizes"
	AttrDataSizes  = "data-sizes"
	AttrClass      = "class"
	AttrWidth      = "width"
	AttrHeight     = "height"
	AttrTitle      = "title"
	AttrAlt        = "alt"
	AttrStyle      = "style"
)

// AttributeOrder is the fixed serialization order of known attributes.
// Attributes not listed here follow in insertion order.
var AttributeOrder = []string{
	AttrID,
	AttrSrc,
	AttrDataSrc,
	AttrSrcset,
	AttrDataSrcset,
	AttrSizes,
	AttrDataSizes,
	AttrClass,
	AttrWidth,
	AttrHeight,
	AttrTitle,
	AttrAlt,
	AttrStyle,
}

// List attribute delimiters (split, join)
const (
	DelimClass      = " "
	DelimStyle      = ";"
	DelimStyleJoin  = "; "
	DelimComma      = ","
	DelimCommaJoin  = ", "
	DelimUnknownMap = " "
)

// Setting names shared by several backends
const (
	SettingBeforeOutput = "before_output"
	SettingAfterOutput  = "after_output"
	SettingWidth        = "width"
	SettingHeight       = "height"
	SettingRandom       = "random"
	SettingSeed         = "seed"
	SettingImageID      = "image_id"
	SettingID           = "id"
	SettingSize         = "size"
	SettingPath         = "path"
)

// Picsum settings
const (
	SettingBlur      = "blur"
	SettingGrayscale = "grayscale"
)

// Placeholder settings
const (
	SettingText      = "text"
	SettingBgColor   = "bg_color"
	SettingTextColor = "text_color"
	SettingFormat    = "format"
)

// JoeSchmoe settings
const (
	SettingGender = "gender"
)

// Unsplash settings
const (
	SettingUser       = "user"
	SettingUserLikes  = "user_likes"
	SettingCollection = "collection"
	SettingFeatured   = "featured"
	SettingUpdate     = "update"
	SettingSearch     = "search"
)

// Element type names
const (
	TypeBase        = "base"
	TypeRemote      = "remote"
	TypeExternal    = "external"
	TypeAttachment  = "attachment"
	TypeLocal       = "local"
	TypeInternal    = "internal"
	TypeTheme       = "theme"
	TypeService     = "service"
	TypePicsum      = "picsum"
	TypePlaceholder = "placeholder"
	TypeJoeSchmoe   = "joeschmoe"
	TypeUnsplash    = "unsplash"
)

// Source keywords recognized by the factory (case-insensitive)
const (
	KeywordPhotoPlaceholder     = "photo-placeholder"
	KeywordDimensionPlaceholder = "dimension-placeholder"
	KeywordJokeAvatar           = "joke-avatar"
	KeywordSceneSource          = "scene-source"
)

// Service endpoints
const (
	DefaultPicsumBaseURL      = "https://picsum.photos/"
	DefaultPlaceholderBaseURL = "https://via.placeholder.com/"
	DefaultJoeSchmoeBaseURL   = "https://joeschmoe.io/api/v1/"
	DefaultUnsplashBaseURL    = "https://source.unsplash.com/"
)

// URL building blocks
const (
	URLSchemeHTTP          = "http://"
	URLSchemeHTTPS         = "https://"
	URLSchemeRelative      = "//"
	URLSchemeSep           = "://"
	URLPathSep             = "/"
	URLQueryStart          = "?"
	URLQuerySep            = "&"
	URLDimensionSep        = "x"
	URLExtSep              = "."
	PicsumSegmentID        = "id"
	PicsumSegmentSeed      = "seed"
	PicsumSegmentInfo      = "info"
	UnsplashSegmentUser    = "user"
	UnsplashSegmentLikes   = "likes"
	UnsplashSegmentColl    = "collection"
	UnsplashSegmentFeature = "featured"
	UnsplashSegmentRandom  = "random"
	JoeSchmoeSegmentRandom = "random"
	PlaceholderDefaultBg   = "cccccc"
)

// Setting value choices
const (
	GenderMale     = "male"
	GenderFemale   = "female"
	UpdateDaily    = "daily"
	UpdateWeekly   = "weekly"
	MinPicsumBlur  = 1
	MaxPicsumBlur  = 10
	DefaultSrcSize = "full"
)

// Output markup
const (
	ImgTagOpen        = "<img "
	ImgTagClose       = " />"
	AttrFmt           = `%s="%s"`
	AttrSep           = " "
	AttrSepDebug      = "\n"
	FragmentSep       = "\n"
	NoscriptOpen      = "<noscript>"
	NoscriptClose     = "</noscript>"
	StyleBackground   = "background-color: %s"
	BlankImageDataURI = "data:image/gif;base64,R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7"
)

// Lazyload classes
const (
	ClassLazyload     = "lazyload"
	ClassHideIfNoJS   = "hide-if-no-js"
	ClassNoJS         = "no-js"
	DataSizesAuto     = "auto"
	DefaultColorCount = 1
)

// Output fragment priorities
const (
	DefaultOutputPriority    = 10
	LazyloadNoscriptPriority = -10
	NoscriptBeforePriority   = -1000
	NoscriptAfterPriority    = 1000
)

// Fetch cache defaults
const (
	DefaultFetchCacheTTL        = 5 * time.Minute
	DefaultFetchCacheMaxEntries = 1000
	DefaultFetchMaxBodySize     = 1 << 20
	DefaultFetchTimeout         = 10 * time.Second
	DefaultRedisKeyPrefix       = "imgtag:fetch:"
)

// Snapshot formats
const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatMsgpack = "msgpack"

	formatAliasYML = "yml"
	jsonIndent     = "  "
)

// String constants
const (
	StringValueEmpty = ""
	digits           = "0123456789"
)

// Metadata keys for errors
const (
	MetaKeyStore     = "store"
	MetaKeyProperty  = "property"
	MetaKeyValueType = "value_type"
	MetaKeyReason    = "reason"
	MetaKeyType      = "element_type"
	MetaKeySource    = "source"
	MetaKeyURL       = "url"
	MetaKeyStatus    = "status"
	MetaKeyAssetID   = "asset_id"
	MetaKeyPath      = "path"
	MetaKeyFormat    = "format"
	MetaKeyLimit     = "limit"
)

// Store names used in diagnostics
const (
	StoreNameAttributes = "attributes"
	StoreNameSettings   = "settings"
)

// Log message constants
const (
	LogMsgFactoryCreated     = "image factory created"
	LogMsgElementCreated     = "image element created"
	LogMsgConfigWarning      = "configuration warning - value discarded"
	LogMsgValidationFailed   = "image element failed validation"
	LogMsgSourceUnresolved   = "source could not be classified"
	LogMsgUnknownType        = "no backend for element type - using base element"
	LogMsgConvertRefused     = "conversion refused - element already of target type"
	LogMsgFetchComplete      = "fetch complete"
	LogMsgFetchCacheHit      = "fetch served from cache"
	LogMsgFetchCacheError    = "fetch cache unavailable"
	LogMsgBackendRejected    = "backend registration rejected"
	LogMsgSessionReset       = "session reset"
	LogMsgAssetStoreOpened   = "asset store opened"
	LogMsgMigrationApplied   = "asset store migration applied"
	LogMsgColorExtractFailed = "dominant color extraction failed"
)

// Log field names
const (
	LogFieldStore    = "store"
	LogFieldProperty = "property"
	LogFieldType     = "element_type"
	LogFieldSource   = "source"
	LogFieldURL      = "url"
	LogFieldStatus   = "status"
	LogFieldDuration = "duration"
	LogFieldBackend  = "backend"
	LogFieldVersion  = "version"
	LogFieldDriver   = "driver"
)
