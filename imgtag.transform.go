package imgtag

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/itsatony/go-imgtag/internal"
)

// LazyloadOption configures Lazyload.
type LazyloadOption func(*lazyloadOptions)

type lazyloadOptions struct {
	noscript         bool
	noscriptPriority int
	sizesAuto        bool
	attributes       map[string]any
	settings         map[string]any
	colorCtx         context.Context
	colorExtractor   ColorExtractor
}

// WithoutNoscript skips the <noscript> fallback.
func WithoutNoscript() LazyloadOption {
	return func(o *lazyloadOptions) {
		o.noscript = false
	}
}

// WithNoscriptPriority sets the after_output priority of the fallback.
// Default: -10
func WithNoscriptPriority(priority int) LazyloadOption {
	return func(o *lazyloadOptions) {
		o.noscriptPriority = priority
	}
}

// WithSizesAuto toggles data-sizes="auto" for elements with a srcset.
// Default: true
func WithSizesAuto(enabled bool) LazyloadOption {
	return func(o *lazyloadOptions) {
		o.sizesAuto = enabled
	}
}

// WithLazyAttributes overrides attributes of the lazy element.
func WithLazyAttributes(attrs map[string]any) LazyloadOption {
	return func(o *lazyloadOptions) {
		o.attributes = attrs
	}
}

// WithLazySettings overrides settings of the lazy element.
func WithLazySettings(settings map[string]any) LazyloadOption {
	return func(o *lazyloadOptions) {
		o.settings = settings
	}
}

// WithColorPlaceholder paints the lazy element with its dominant color
// until the real image loads. A nil extractor uses the factory's.
func WithColorPlaceholder(ctx context.Context, extractor ColorExtractor) LazyloadOption {
	return func(o *lazyloadOptions) {
		o.colorCtx = ctx
		o.colorExtractor = extractor
	}
}

// Lazyload returns a copy of the element prepared for a lazy-loading script:
// src, sizes and srcset move to their data-* counterparts, src becomes a
// blank placeholder and a <noscript> fallback of the original is appended.
func (img *Image) Lazyload(opts ...LazyloadOption) *Image {
	cfg := img.factory.config.settings.Lazyload
	o := lazyloadOptions{
		noscript:         cfg.Noscript,
		noscriptPriority: cfg.NoscriptPriority,
		sizesAuto:        cfg.SizesAuto,
	}
	for _, opt := range opts {
		opt(&o)
	}

	lazy := img.Clone()
	attrs := lazy.attributes
	fillAttribute(attrs, AttrDataSrc, attrs.Get(AttrSrc, ContextView))
	fillAttribute(attrs, AttrDataSizes, attrs.Get(AttrSizes, ContextEdit))
	fillAttribute(attrs, AttrDataSrcset, attrs.Get(AttrSrcset, ContextEdit))
	attrs.Unset(AttrSizes)
	attrs.Unset(AttrSrcset)
	_ = attrs.Set(AttrSrc, cfg.Placeholder)
	_ = attrs.AddTo(AttrClass, cfg.Classes)

	if o.sizesAuto &&
		internal.IsEmpty(attrs.Get(AttrDataSizes, ContextEdit)) &&
		!internal.IsEmpty(attrs.Get(AttrDataSrcset, ContextEdit)) {
		_ = attrs.Set(AttrDataSizes, DataSizesAuto)
	}

	if o.colorCtx != nil {
		lazy.applyColorPlaceholder(o.colorCtx, img, o.colorExtractor)
	}

	_ = attrs.SetAll(o.attributes)
	_ = lazy.settings.SetAll(o.settings)

	if o.noscript {
		fallback := img.Clone()
		fallback.settings.Unset(SettingBeforeOutput)
		fallback.settings.Unset(SettingAfterOutput)
		if markup := fallback.Noscript().Output(); markup != StringValueEmpty {
			_ = lazy.settings.AddOutput(SettingAfterOutput, markup, o.noscriptPriority)
		}
	}
	return lazy
}

func (img *Image) applyColorPlaceholder(ctx context.Context, source *Image, extractor ColorExtractor) {
	var colors []string
	var err error
	if extractor != nil {
		path, ok := localPath(source)
		if !ok {
			return
		}
		colors, err = extractor.ExtractDominantColors(ctx, path, DefaultColorCount)
	} else {
		colors, err = source.DominantColors(ctx, DefaultColorCount)
	}
	if err != nil || len(colors) == 0 {
		img.diag.log().Debug(LogMsgColorExtractFailed,
			zap.String(LogFieldType, source.Type()),
			zap.Error(err),
		)
		return
	}
	_ = img.attributes.AddTo(AttrStyle, fmt.Sprintf(StyleBackground, colors[0]))
}

func localPath(img *Image) (string, bool) {
	local, ok := img.generator.(LocalFile)
	if !ok {
		return StringValueEmpty, false
	}
	return local.LocalPath()
}

// fillAttribute adds value to key when value carries something.
func fillAttribute(attrs *AttributeStore, key string, value any) {
	if internal.IsEmpty(value) {
		return
	}
	_ = attrs.Add(key, value)
}

// NoscriptOption configures Noscript.
type NoscriptOption func(*noscriptOptions)

type noscriptOptions struct {
	beforePriority int
	afterPriority  int
	attributes     map[string]any
	settings       map[string]any
}

// WithNoscriptPriorities sets where the <noscript> tags are injected.
// Default: -1000 and 1000
func WithNoscriptPriorities(before, after int) NoscriptOption {
	return func(o *noscriptOptions) {
		o.beforePriority = before
		o.afterPriority = after
	}
}

// WithNoscriptAttributes overrides attributes of the noscript element.
func WithNoscriptAttributes(attrs map[string]any) NoscriptOption {
	return func(o *noscriptOptions) {
		o.attributes = attrs
	}
}

// WithNoscriptSettings overrides settings of the noscript element.
func WithNoscriptSettings(settings map[string]any) NoscriptOption {
	return func(o *noscriptOptions) {
		o.settings = settings
	}
}

// Noscript returns a copy of the element wrapped in <noscript> tags with the
// lazy-loading classes replaced by the no-js class.
func (img *Image) Noscript(opts ...NoscriptOption) *Image {
	cfg := img.factory.config.settings
	o := noscriptOptions{
		beforePriority: cfg.Noscript.BeforePriority,
		afterPriority:  cfg.Noscript.AfterPriority,
	}
	for _, opt := range opts {
		opt(&o)
	}

	ns := img.Clone()
	classes := slices.DeleteFunc(ns.attributes.List(AttrClass), func(class string) bool {
		return slices.Contains(cfg.Lazyload.Classes, class)
	})
	_ = ns.attributes.Set(AttrClass, classes)
	_ = ns.attributes.AddTo(AttrClass, cfg.Noscript.Class)
	_ = ns.attributes.SetAll(o.attributes)
	_ = ns.settings.SetAll(o.settings)
	_ = ns.settings.AddOutput(SettingBeforeOutput, NoscriptOpen, o.beforePriority)
	_ = ns.settings.AddOutput(SettingAfterOutput, NoscriptClose, o.afterPriority)
	return ns
}

// Into converts the element to targetType, carrying its attributes and
// settings under the given overrides. src is dropped so the new backend can
// compute its own, except for remote targets, which take the rendered src.
// Empty defaults are not carried. Converting to a type the element already
// has returns the element itself.
func (img *Image) Into(ctx context.Context, targetType string, attrs, settings map[string]any) *Image {
	if img.IsType(targetType) {
		img.diag.convertRefused(ctx, targetType)
		return img
	}

	carriedAttrs := img.attributes.GetAll(ContextEdit)
	for key, value := range carriedAttrs {
		if internal.IsEmpty(value) && !img.attributes.IsExplicit(key) {
			delete(carriedAttrs, key)
		}
	}
	delete(carriedAttrs, AttrSrc)
	if targetType == TypeRemote {
		if src := img.Source(); src != StringValueEmpty {
			carriedAttrs[AttrSrc] = src
		}
	}
	maps.Copy(carriedAttrs, attrs)

	carriedSettings := img.settings.GetAll(ContextEdit)
	maps.Copy(carriedSettings, settings)

	return img.factory.CreateType(ctx, targetType, carriedAttrs, carriedSettings)
}
