// Package rings computes the projected geometry of chart rings: the camera
// projection, dense ring polylines with arc length, tick marks and dash
// segments. Everything here is a pure function of its inputs.
package rings

import (
	"errors"
	"math"
)

// Geometry errors. Callers attach the ring index.
var (
	// ErrBehindCamera is returned when part of a ring lies at or behind
	// the camera plane.
	ErrBehindCamera = errors.New("rings: point behind camera")

	// ErrNonFinite is returned when projection yields NaN or Inf.
	ErrNonFinite = errors.New("rings: non-finite projected geometry")

	// ErrDegenerate is returned when a ring projects to a point.
	ErrDegenerate = errors.New("rings: ring projects to a point")
)

const (
	// cameraDistance is the distance from the camera to the chart center
	// in world units.
	cameraDistance = 6.0

	// chartFill is the fraction of the shorter image side covered by the
	// unit-radius diameter at zero tilt.
	chartFill = 0.92

	nearPlane = 1e-5
)

// Point is a supersampled pixel position.
type Point struct{ X, Y float64 }

// Projection is a perspective camera looking at the chart plane, which is
// tilted by Tilt about the horizontal axis.
type Projection struct {
	Width, Height int
	CenterX       float64
	CenterY       float64
	BaseRadius    float64 // pixels per unit radius at zero tilt
	Focal         float64
	Distance      float64
	UnitScale     float64 // world units per unit radius
	Tilt          float64 // radians

	sinTilt, cosTilt float64
}

// NewProjection builds the camera for a width×height supersampled frame.
func NewProjection(width, height int, tiltDeg, fovDeg float64) Projection {
	base := float64(min(width, height)) * 0.5 * chartFill
	fov := math.Max(1e-3, fovDeg*math.Pi/180)
	focal := (float64(height) / 2) / math.Tan(fov/2)
	tilt := tiltDeg * math.Pi / 180

	return Projection{
		Width:      width,
		Height:     height,
		CenterX:    float64(width) / 2,
		CenterY:    float64(height) / 2,
		BaseRadius: base,
		Focal:      focal,
		Distance:   cameraDistance,
		UnitScale:  base * cameraDistance / focal,
		Tilt:       tilt,
		sinTilt:    math.Sin(tilt),
		cosTilt:    math.Cos(tilt),
	}
}

// ProjectPoint projects the chart point at radius r (unit disc) and angle
// theta (radians). It also returns the perspective magnification relative
// to the chart center.
func (p Projection) ProjectPoint(r, theta float64) (Point, float64, error) {
	xw := math.Cos(theta) * r * p.UnitScale
	yw := math.Sin(theta) * r * p.UnitScale

	yc := yw * p.cosTilt
	zc := p.Distance + yw*p.sinTilt
	if !(zc > nearPlane) {
		if math.IsNaN(zc) {
			return Point{}, 0, ErrNonFinite
		}
		return Point{}, 0, ErrBehindCamera
	}

	pt := Point{
		X: p.CenterX + p.Focal*xw/zc,
		Y: p.CenterY + p.Focal*yc/zc,
	}
	if !finite(pt.X) || !finite(pt.Y) {
		return Point{}, 0, ErrNonFinite
	}
	return pt, p.Distance / zc, nil
}

// Project implements the star field projector contract.
func (p Projection) Project(r, theta float64) (x, y, magnification float64, ok bool) {
	pt, mag, err := p.ProjectPoint(r, theta)
	if err != nil {
		return 0, 0, 0, false
	}
	return pt.X, pt.Y, mag, true
}

// Scale returns pixels per unit radius at zero tilt.
func (p Projection) Scale() float64 { return p.BaseRadius }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
