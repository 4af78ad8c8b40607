// Package imgtag generates HTML <img> elements from heterogeneous image
// sources: uploaded assets, theme files, remote URLs and placeholder
// services.
//
// Every element pairs an attribute store (markup attributes) with a setting
// store (generation options) and a backend generator that derives src.
//
// # Basic Usage
//
// Create a factory and let it classify the source:
//
//	factory := imgtag.MustNewFactory()
//	img := factory.Create(ctx, "photo-placeholder", map[string]any{
//	    "alt": "Sunset",
//	}, map[string]any{
//	    "width": 800, "height": 600, "grayscale": true,
//	})
//	fmt.Println(img.Output())
//	// <img src="https://picsum.photos/800/600?grayscale" width="800" height="600" alt="Sunset" />
//
// # Sources
//
// Create understands:
//
//	42                          attachment (uploaded asset, needs WithAssetResolver)
//	"https://example.com/a.jpg" remote
//	"//cdn.example.com/a.jpg"   remote
//	"picsum", "photo-placeholder", "placeholder", "dimension-placeholder",
//	"joeschmoe", "joke-avatar", "unsplash", "scene-source"
//	                            placeholder services
//	"img/logo.png"              theme file (needs WithThemeResolver or theme_roots)
//
// Unclassifiable sources produce a base element, which renders only if a
// src attribute was supplied. Nothing on the render path fails loudly:
// rejected values and invalid elements are reported through the logger,
// capitan signals and optional prometheus metrics, and an invalid element
// renders as the empty string.
//
// # Transformations
//
// Lazyload, Noscript and Into derive new elements and never modify the
// receiver:
//
//	lazy := img.Lazyload()
//	fallback := img.Noscript()
//	remote := img.Into(ctx, "remote", nil, nil)
//
// # Custom Backends
//
// Implement Backend and SourceGenerator and register them with the factory:
//
//	factory := imgtag.MustNewFactory(imgtag.WithBackends(&myCDNBackend{}))
//	img := factory.Create(ctx, "my-cdn", nil, map[string]any{"id": "abc"})
package imgtag
