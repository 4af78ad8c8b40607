package imgtag

import (
	"context"
	"fmt"
	"time"

	"github.com/zoobzio/capitan"
	"go.uber.org/zap"
)

// Signals emitted for host-facing warnings. Nothing in the render path is
// fatal; hosts subscribe to these to surface problems.
var (
	SignalConfigWarning    = capitan.NewSignal("imgtag.config.warning", "Property store rejected a value")
	SignalValidationFailed = capitan.NewSignal("imgtag.validation.failed", "Element failed validation and rendered empty")
	SignalSourceUnresolved = capitan.NewSignal("imgtag.source.unresolved", "Factory could not classify a source")
	SignalConvertRefused   = capitan.NewSignal("imgtag.convert.refused", "Conversion target equals the element type")
	SignalFetchComplete    = capitan.NewSignal("imgtag.fetch.complete", "Outbound fetch finished")
)

// Signal field keys.
var (
	KeyStore       = capitan.NewStringKey("store")
	KeyProperty    = capitan.NewStringKey("property")
	KeyElementType = capitan.NewStringKey("element_type")
	KeySource      = capitan.NewStringKey("source")
	KeyURL         = capitan.NewStringKey("url")
	KeyStatus      = capitan.NewIntKey("status")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// diagnostics fans a warning out to the logger, the signal bus and metrics.
// The zero value and a nil pointer are both usable.
type diagnostics struct {
	logger  *zap.Logger
	metrics *Metrics
}

func newDiagnostics(logger *zap.Logger, metrics *Metrics) *diagnostics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &diagnostics{logger: logger, metrics: metrics}
}

func (d *diagnostics) log() *zap.Logger {
	if d == nil || d.logger == nil {
		return zap.NewNop()
	}
	return d.logger
}

func (d *diagnostics) stats() *Metrics {
	if d == nil {
		return nil
	}
	return d.metrics
}

func (d *diagnostics) configWarning(store, property string, err error) {
	d.log().Warn(LogMsgConfigWarning,
		zap.String(LogFieldStore, store),
		zap.String(LogFieldProperty, property),
		zap.Error(err),
	)
	capitan.Emit(context.Background(), SignalConfigWarning,
		KeyStore.Field(store),
		KeyProperty.Field(property),
		KeyError.Field(err),
	)
	d.stats().configWarning(store)
}

func (d *diagnostics) validationFailed(ctx context.Context, typ string, failures []error) {
	for _, failure := range failures {
		d.log().Warn(LogMsgValidationFailed,
			zap.String(LogFieldType, typ),
			zap.Error(failure),
		)
		capitan.Error(ctx, SignalValidationFailed,
			KeyElementType.Field(typ),
			KeyError.Field(failure),
		)
	}
	d.stats().validationFailed(typ, len(failures))
	d.stats().rendered(typ, OutcomeInvalid)
}

func (d *diagnostics) rendered(typ string) {
	d.stats().rendered(typ, OutcomeRendered)
}

func (d *diagnostics) elementCreated(typ string) {
	d.log().Debug(LogMsgElementCreated, zap.String(LogFieldType, typ))
	d.stats().elementCreated(typ)
}

func (d *diagnostics) sourceUnresolved(ctx context.Context, source any) {
	src := fmt.Sprint(source)
	d.log().Warn(LogMsgSourceUnresolved, zap.String(LogFieldSource, src))
	capitan.Emit(ctx, SignalSourceUnresolved,
		KeySource.Field(src),
		KeyError.Field(NewUnresolvedSourceError(source)),
	)
}

func (d *diagnostics) unknownType(ctx context.Context, typ string) {
	d.log().Warn(LogMsgUnknownType, zap.String(LogFieldType, typ))
	capitan.Emit(ctx, SignalSourceUnresolved,
		KeySource.Field(typ),
		KeyError.Field(NewUnknownTypeError(typ)),
	)
}

func (d *diagnostics) convertRefused(ctx context.Context, typ string) {
	d.log().Warn(LogMsgConvertRefused, zap.String(LogFieldType, typ))
	capitan.Emit(ctx, SignalConvertRefused,
		KeyElementType.Field(typ),
		KeyError.Field(NewConversionRefusedError(typ)),
	)
}

func (d *diagnostics) fetchComplete(ctx context.Context, url string, status int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyURL.Field(url),
		KeyStatus.Field(status),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalFetchComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalFetchComplete, fields...)
	}
	d.log().Debug(LogMsgFetchComplete,
		zap.String(LogFieldURL, url),
		zap.Int(LogFieldStatus, status),
		zap.Duration(LogFieldDuration, duration),
		zap.Error(err),
	)
}

func (d *diagnostics) fetchLookup(result string) {
	d.stats().fetchLookup(result)
}
