package main

// Command names
const (
	CmdNameRender   = "render"
	CmdNameValidate = "validate"
	CmdNameVersion  = "version"
	CmdNameHelp     = "help"
)

// Flag names - long form
const (
	FlagSource         = "source"
	FlagType           = "type"
	FlagAttrs          = "attrs"
	FlagSettings       = "settings"
	FlagSnapshot       = "snapshot"
	FlagSnapshotFormat = "snapshot-format"
	FlagConfig         = "config"
	FlagOutput         = "output"
	FlagFormat         = "format"
	FlagLazyload       = "lazyload"
	FlagNoscript       = "noscript"
	FlagVerbose        = "verbose"
)

// Flag names - short form
const (
	FlagSourceShort   = "s"
	FlagTypeShort     = "t"
	FlagAttrsShort    = "a"
	FlagSettingsShort = "S"
	FlagConfigShort   = "c"
	FlagOutputShort   = "o"
	FlagFormatShort   = "F"
	FlagVerboseShort  = "v"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatHTML = "html"
	OutputFormatYAML = "yaml"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand      = "unknown command"
	ErrMsgInvalidFlags        = "invalid arguments"
	ErrMsgMissingSource       = "source, type or snapshot required"
	ErrMsgConflictingInput    = "snapshot cannot be combined with source or type"
	ErrMsgInvalidJSON         = "invalid JSON data"
	ErrMsgReadFileFailed      = "failed to read file"
	ErrMsgWriteOutputFailed   = "failed to write output"
	ErrMsgInvalidFormat       = "invalid output format"
	ErrMsgLoadConfigFailed    = "failed to load config"
	ErrMsgOpenAssetsFailed    = "failed to open asset store"
	ErrMsgFactoryFailed       = "failed to create image factory"
	ErrMsgSnapshotFailed      = "failed to read snapshot"
	ErrMsgExportFailed        = "failed to export element"
	ErrMsgElementInvalid      = "element is invalid"
	ErrMsgJSONMarshalFailed   = "failed to marshal JSON"
	ErrMsgUnknownSnapshotType = "cannot infer snapshot format"
	ErrMsgLazyloadNoscript    = "lazyload already adds a noscript fallback"
)

// Help flags accepted in place of a command
const (
	FlagHelpShort      = "-h"
	FlagHelpLong       = "--help"
	FlagHelpSingleDash = "-help"
)

// One-line command summaries for the overview
const (
	SummaryRender   = "print the <img> markup of an element"
	SummaryValidate = "report why an element would not render"
	SummaryVersion  = "print build information"
	SummaryHelp     = "print the usage of a command"
)

// Help text
const (
	HelpOverviewHeader = `imgtag builds HTML <img> elements from URLs, placeholder services,
uploaded assets and theme files.

Usage: imgtag <command> [flags]

Commands:`

	HelpRenderUsage = `Usage: imgtag render [flags]

Builds an element and prints its markup. Invalid elements print nothing
and exit with status 3.

Element flags:
    -s, --source <src>          URL, service keyword, asset id or theme path
    -t, --type <type>           build this element type, skipping source classification
    -a, --attrs <json>          attributes as a JSON object
    -S, --settings <json>       settings as a JSON object
    --snapshot <file>           import an exported element ("-" reads stdin)
    --snapshot-format <format>  json, yaml or msgpack (inferred from the extension)
    -c, --config <file>         YAML config with service URLs, theme roots and asset store

Output flags:
    --lazyload                  move src into data-src and append a noscript fallback
    --noscript                  wrap the markup in <noscript>
    -F, --format <format>       html, json or yaml (html)
    -o, --output <file>         write to a file instead of stdout
    -v, --verbose               log diagnostics to stderr

Examples:
    imgtag render -s picsum -S '{"width": 800, "height": 600}' -a '{"alt": "Sunset"}'
    imgtag render -s https://example.com/a.jpg --lazyload
    imgtag render -s 42 -c imgtag.yaml
    imgtag render --snapshot element.yaml -F json`

	HelpValidateUsage = `Usage: imgtag validate [flags]

Builds an element and lists its validation failures. Exits with status 3
when there is at least one.

Flags:
    -s, --source <src>          URL, service keyword, asset id or theme path
    -t, --type <type>           build this element type, skipping source classification
    -a, --attrs <json>          attributes as a JSON object
    -S, --settings <json>       settings as a JSON object
    --snapshot <file>           import an exported element ("-" reads stdin)
    --snapshot-format <format>  json, yaml or msgpack (inferred from the extension)
    -c, --config <file>         YAML config file
    -F, --format <format>       text or json (text)

Examples:
    imgtag validate -s picsum
    imgtag validate --snapshot element.json -F json`

	HelpVersionUsage = `Usage: imgtag version [flags]

Prints the module version, commit and build time.

Flags:
    -F, --format <format>   text or json (text)`

	HelpHelpUsage = `Usage: imgtag help [command]

Without a command, lists every command. With one, prints its flags.`
)

// Version output format templates
const (
	VersionTextTemplate = "go-imgtag version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
)

// Validation output format templates
const (
	ValidationTextSuccess     = "Element is valid"
	ValidationTextIssueHeader = "Validation failures:"
	ValidationTextIssueFormat = "  [%s] %s"
	ValidationTextSummary     = "%d failure(s)"
)

// CLI metadata
const (
	CLIName = "imgtag"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtUnknownCommand  = "%s: %s %q\n"
	FmtHelpHint        = "Run '%s help' to list commands.\n"
	FmtCommandLine     = "    %-10s %s\n"
	FmtHelpFooter      = "\nRun '%s help <command>' for the flags of a command.\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
	JSONIndent         = "  "
)
