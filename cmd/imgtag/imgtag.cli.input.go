package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/itsatony/go-imgtag"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// elementInput holds the flags shared by every command that builds an element
type elementInput struct {
	source         string
	typeName       string
	attrsJSON      string
	settingsJSON   string
	snapshotPath   string
	snapshotFormat string
	configPath     string
	verbose        bool
}

func (in *elementInput) register(fs *flag.FlagSet) {
	fs.StringVar(&in.source, FlagSource, "", "")
	fs.StringVar(&in.source, FlagSourceShort, "", "")
	fs.StringVar(&in.typeName, FlagType, "", "")
	fs.StringVar(&in.typeName, FlagTypeShort, "", "")
	fs.StringVar(&in.attrsJSON, FlagAttrs, "", "")
	fs.StringVar(&in.attrsJSON, FlagAttrsShort, "", "")
	fs.StringVar(&in.settingsJSON, FlagSettings, "", "")
	fs.StringVar(&in.settingsJSON, FlagSettingsShort, "", "")
	fs.StringVar(&in.snapshotPath, FlagSnapshot, "", "")
	fs.StringVar(&in.snapshotFormat, FlagSnapshotFormat, "", "")
	fs.StringVar(&in.configPath, FlagConfig, "", "")
	fs.StringVar(&in.configPath, FlagConfigShort, "", "")
	fs.BoolVar(&in.verbose, FlagVerbose, false, "")
	fs.BoolVar(&in.verbose, FlagVerboseShort, false, "")
}

func (in *elementInput) validate() error {
	if in.snapshotPath != "" {
		if in.source != "" || in.typeName != "" {
			return errors.New(ErrMsgConflictingInput)
		}
		return nil
	}
	if in.source == "" && in.typeName == "" {
		return errors.New(ErrMsgMissingSource)
	}
	return nil
}

// cliError pairs a failure with the exit code and message it is reported with
type cliError struct {
	code int
	msg  string
	err  error
}

func (e *cliError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

// newLogger returns a console logger on stderr when verbose, a no-op logger
// otherwise
func newLogger(verbose bool, stderr io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(stderr),
		zap.DebugLevel,
	)
	return zap.New(core)
}

// newFactory loads the config, opens the configured asset store and builds
// the factory. The returned closer releases the asset store.
func newFactory(in *elementInput, logger *zap.Logger) (*imgtag.Factory, func(), error) {
	cfg := imgtag.DefaultConfig()
	if in.configPath != "" {
		loaded, err := imgtag.LoadConfig(in.configPath)
		if err != nil {
			return nil, nil, &cliError{code: ExitCodeInputError, msg: ErrMsgLoadConfigFailed, err: err}
		}
		cfg = loaded
	}

	opts := []imgtag.Option{imgtag.WithConfig(cfg), imgtag.WithLogger(logger)}
	closer := func() {}
	if cfg.Assets.Driver != "" {
		store, err := imgtag.OpenAssetStore(cfg.Assets.Driver, cfg.Assets.DSN)
		if err != nil {
			return nil, nil, &cliError{code: ExitCodeError, msg: ErrMsgOpenAssetsFailed, err: err}
		}
		logger.Debug(imgtag.LogMsgAssetStoreOpened, zap.String(imgtag.LogFieldDriver, cfg.Assets.Driver))
		opts = append(opts, imgtag.WithAssetResolver(store))
		closer = func() { _ = store.Close() }
	}

	factory, err := imgtag.NewFactory(opts...)
	if err != nil {
		closer()
		return nil, nil, &cliError{code: ExitCodeError, msg: ErrMsgFactoryFailed, err: err}
	}
	return factory, closer, nil
}

// buildElement creates the element described by in
func buildElement(ctx context.Context, f *imgtag.Factory, in *elementInput, stdin io.Reader) (*imgtag.Image, error) {
	if in.snapshotPath != "" {
		snapshot, err := readSnapshot(in.snapshotPath, in.snapshotFormat, stdin)
		if err != nil {
			return nil, &cliError{code: ExitCodeInputError, msg: ErrMsgSnapshotFailed, err: err}
		}
		return f.Import(ctx, snapshot), nil
	}

	attrs, err := parseJSONObject(in.attrsJSON)
	if err != nil {
		return nil, &cliError{code: ExitCodeInputError, msg: ErrMsgInvalidJSON, err: err}
	}
	settings, err := parseJSONObject(in.settingsJSON)
	if err != nil {
		return nil, &cliError{code: ExitCodeInputError, msg: ErrMsgInvalidJSON, err: err}
	}

	if in.typeName != "" {
		return f.CreateType(ctx, in.typeName, attrs, settings), nil
	}
	return f.Create(ctx, in.source, attrs, settings), nil
}

func readSnapshot(path, format string, stdin io.Reader) (*imgtag.Snapshot, error) {
	if format == "" {
		format = snapshotFormatFromPath(path)
	}
	if format == "" {
		return nil, errors.New(ErrMsgUnknownSnapshotType)
	}
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, err
	}
	return imgtag.UnmarshalSnapshot(data, format)
}

func snapshotFormatFromPath(path string) string {
	if path == InputSourceStdin {
		return imgtag.FormatJSON
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return imgtag.FormatJSON
	case ".yaml", ".yml":
		return imgtag.FormatYAML
	case ".msgpack", ".mp":
		return imgtag.FormatMsgpack
	}
	return ""
}

func parseJSONObject(s string) (map[string]any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var result map[string]any
	if err := json.Unmarshal([]byte(s), &result); err != nil {
		return nil, err
	}
	return result, nil
}
