package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-imgtag"
)

// validateConfig holds parsed validate command configuration
type validateConfig struct {
	input  elementInput
	format string
}

// validationOutput represents JSON output for validation
type validationOutput struct {
	Valid    bool     `json:"valid"`
	Type     string   `json:"type"`
	Types    []string `json:"types"`
	Source   string   `json:"source,omitempty"`
	Failures []string `json:"failures,omitempty"`
}

func runValidate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseValidateFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	logger := newLogger(cfg.input.verbose, stderr)
	defer func() { _ = logger.Sync() }()

	factory, closeAssets, err := newFactory(&cfg.input, logger)
	if err != nil {
		return reportError(err, stderr)
	}
	defer closeAssets()

	img, err := buildElement(context.Background(), factory, &cfg.input, stdin)
	if err != nil {
		return reportError(err, stderr)
	}

	if cfg.format == OutputFormatJSON {
		return outputValidationJSON(img, stdout)
	}
	return outputValidationText(img, stdout)
}

func parseValidateFlags(args []string) (*validateConfig, error) {
	fs := flag.NewFlagSet(CmdNameValidate, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &validateConfig{}
	cfg.input.register(fs)
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.input.validate(); err != nil {
		return nil, err
	}
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}
	return cfg, nil
}

func outputValidationText(img *imgtag.Image, stdout io.Writer) int {
	failures := img.ValidationChecks()
	if len(failures) == 0 {
		fmt.Fprintln(stdout, ValidationTextSuccess)
		return ExitCodeSuccess
	}

	fmt.Fprintln(stdout, ValidationTextIssueHeader)
	for _, failure := range failures {
		fmt.Fprintf(stdout, ValidationTextIssueFormat+FmtNewline, img.Type(), failure.Error())
	}
	fmt.Fprintf(stdout, ValidationTextSummary+FmtNewline, len(failures))
	return ExitCodeValidationError
}

func outputValidationJSON(img *imgtag.Image, stdout io.Writer) int {
	failures := img.ValidationChecks()
	output := validationOutput{
		Valid:  len(failures) == 0,
		Type:   img.Type(),
		Types:  img.Types(),
		Source: img.Source(),
	}
	for _, failure := range failures {
		output.Failures = append(output.Failures, failure.Error())
	}

	jsonBytes, err := json.MarshalIndent(output, "", JSONIndent)
	if err != nil {
		fmt.Fprintf(stdout, FmtErrorWithCause, ErrMsgJSONMarshalFailed, err)
		return ExitCodeError
	}
	fmt.Fprintln(stdout, string(jsonBytes))

	if !output.Valid {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}
