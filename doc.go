// Package starchart renders stylized star chart images.
//
// # Overview
//
// A scene is described by a [SceneConfig]: concentric rings with dashes,
// ticks and labels, a two-population stochastic star field, and an HDR
// post-processing stack (bloom, chromatic aberration, vignette, grain,
// tonemapping and color grading). [Render] turns a validated scene into a
// [RenderResult] holding the final image and four named linear-light
// layers.
//
// # Quick Start
//
//	cfg := starchart.DefaultSceneConfig()
//	cfg.Rings[0].Label = "ECLIPTIC"
//
//	res, err := starchart.Render(ctx, cfg, starchart.WithSeed(42))
//	if err != nil {
//	    return err
//	}
//	img := res.Image.ToImage()
//
// # Determinism
//
// Every random decision draws from a substream derived from the scene seed
// and a fixed subsystem name, and every pixel filter runs over fixed row
// bands. The same scene and seed produce the same pixels regardless of
// [WithWorkers].
//
// # Pipeline
//
// Star generation and ring layout run concurrently. Labels are then placed
// per ring, the stars layer and the UI layers are drawn concurrently at
// ssaa× resolution, and the post stack filters at that resolution before a
// final box downsample. The context passed to [Render] is checked between
// stages.
//
// # Coordinate System
//
// Chart positions are polar: r in [0,1] is the fraction of the chart
// radius and angles are in degrees, 0 pointing right and increasing
// clockwise on screen (image y grows down). The unit circle spans 92% of
// the shorter image side at zero camera tilt.
//
// # Scope
//
// The package performs no file I/O and parses no text formats. YAML scene
// files are handled by the loader package and image encoding by the
// encode package.
package starchart

// Version is the current version of the module.
const Version = "0.1.0"
