package internal

// String constants shared by the value helpers
const (
	StringValueEmpty = ""
	ListDelimSpace   = " "
	ListCutset       = " \t\r\n\v\f,;"
)

// Boolean spellings accepted by ParseBool
const (
	BoolStringTrue  = "true"
	BoolStringFalse = "false"
	BoolStringYes   = "yes"
	BoolStringNo    = "no"
	BoolStringOn    = "on"
	BoolStringOff   = "off"
	BoolStringOne   = "1"
	BoolStringZero  = "0"
)

// Error format strings
const (
	ErrFmtNameMessage = "%s: %s"
)

// Log message constants
const (
	LogMsgRegistryCreated   = "backend registry created"
	LogMsgBackendRegistered = "backend registered"
	LogMsgBackendCollision  = "backend registration collision - first-come-wins"
	LogMsgKeywordCollision  = "backend keyword already claimed - skipped"
)

// Log field names
const (
	LogFieldTypeName = "type_name"
	LogFieldKeyword  = "keyword"
	LogFieldExisting = "existing"
)
