package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-imgtag"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	input      elementInput
	outputPath string
	format     string
	lazyload   bool
	noscript   bool
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
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

	ctx := context.Background()
	img, err := buildElement(ctx, factory, &cfg.input, stdin)
	if err != nil {
		return reportError(err, stderr)
	}

	switch {
	case cfg.lazyload:
		img = img.Lazyload()
	case cfg.noscript:
		img = img.Noscript()
	}

	var out []byte
	if cfg.format == OutputFormatHTML {
		html := img.Output()
		if html == "" {
			writeFailures(img, stderr)
			return ExitCodeValidationError
		}
		out = []byte(html + FmtNewline)
	} else {
		out, err = imgtag.MarshalSnapshot(img.Export(), cfg.format)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgExportFailed, err)
			return ExitCodeError
		}
	}

	if err := writeOutput(cfg.outputPath, out, stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}
	return ExitCodeSuccess
}

func parseRenderFlags(args []string) (*renderConfig, error) {
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &renderConfig{}
	cfg.input.register(fs)
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")
	fs.StringVar(&cfg.format, FlagFormat, OutputFormatHTML, "")
	fs.StringVar(&cfg.format, FlagFormatShort, OutputFormatHTML, "")
	fs.BoolVar(&cfg.lazyload, FlagLazyload, false, "")
	fs.BoolVar(&cfg.noscript, FlagNoscript, false, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.input.validate(); err != nil {
		return nil, err
	}
	switch cfg.format {
	case OutputFormatHTML, OutputFormatJSON, OutputFormatYAML:
	default:
		return nil, errors.New(ErrMsgInvalidFormat)
	}
	if cfg.lazyload && cfg.noscript {
		return nil, errors.New(ErrMsgLazyloadNoscript)
	}
	return cfg, nil
}

// reportError prints err and returns its exit code
func reportError(err error, stderr io.Writer) int {
	var cliErr *cliError
	if errors.As(err, &cliErr) {
		fmt.Fprintf(stderr, FmtErrorWithCause, cliErr.msg, cliErr.err)
		return cliErr.code
	}
	fmt.Fprintln(stderr, err)
	return ExitCodeError
}

func writeFailures(img *imgtag.Image, stderr io.Writer) {
	for _, failure := range img.ValidationChecks() {
		fmt.Fprintf(stderr, FmtErrorWithDetail, ErrMsgElementInvalid, failure.Error())
	}
}
