/*
Copyright © 2026 the thermsim authors.
This file is part of thermsim.

thermsim is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

thermsim is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with thermsim.  If not, see <http://www.gnu.org/licenses/>.
*/

package therm

import (
	"fmt"
	"math"
)

// BoundaryKind tags which external condition a surface face is exposed to.
// Ground is reserved and unreachable on a core solver path; the driver must
// resolve it to something else (or reject the model) before reaching therm.
type BoundaryKind int

const (
	Adiabatic BoundaryKind = iota
	Space
	AmbientTemperature
	Outdoor
	Ground
)

// ErrGroundBoundaryUnreachable is returned if a march is ever asked to
// resolve a Ground boundary; it signals a modeling bug upstream, not a
// recoverable condition.
var ErrGroundBoundaryUnreachable = fmt.Errorf("therm: Ground boundary is unreachable on the core solver path")

// Roughness indexes the TARP exterior-surface roughness classes, from very
// rough (1) to very smooth (6).
type Roughness int

const (
	VeryRough Roughness = iota + 1
	Rough
	MediumRough
	MediumSmooth
	Smooth
	VerySmooth
)

// tarpRoughnessCoefficients gives the (a,b,c,d) coefficients of the TARP
// combined-coefficient correlation per roughness class, ordered VeryRough..
// VerySmooth.
var tarpRoughnessCoefficients = [6][4]float64{
	{1.670, 0.5030, 0.0000, 0.0000}, // VeryRough
	{1.290, 0.6280, 0.0000, 0.0000}, // Rough
	{1.000, 0.8260, 0.0000, 0.0000}, // MediumRough
	{0.760, 0.8930, 0.0000, 0.0000}, // MediumSmooth
	{0.450, 1.0000, 0.0000, 0.0000}, // Smooth
	{0.080, 1.2400, 0.0000, 0.0000}, // VerySmooth
}

// ConvectionParams carries the resolved per-side inputs to the convective
// coefficient correlations for one surface face.
type ConvectionParams struct {
	AirTemp     float64 // °C
	SkyTemp     float64 // °C, effective sky temperature
	SurfTemp    float64 // °C, current surface temperature
	CosTilt     float64 // cosine of surface tilt, flipped on the outdoor face
	Roughness   Roughness
	WindSpeed   float64 // m/s, ignored for interior (natural) coefficients
	Windward    bool
	Override    float64 // user-overriding h, W/m²K; 0 means "not overridden"
	HasOverride bool
}

// Windward reports whether a surface with the given cosine-of-tilt and
// horizontal wind/normal alignment is exposed windward: a near-horizontal
// surface (|cos tilt| >= 0.98) is always treated as windward, since wind
// direction is ill-defined for a roof or floor.
func Windward(cosTilt, normalDotWindHoriz float64) bool {
	if math.Abs(cosTilt) >= 0.98 {
		return true
	}
	return normalDotWindHoriz > 0
}

// TARPNatural returns the TARP natural (buoyancy-driven) convective
// coefficient for an interior surface face.
func TARPNatural(p ConvectionParams) float64 {
	deltaT := p.SurfTemp - p.AirTemp
	// Interior surfaces: the correlation branches on tilt and the sign of
	// deltaT (heat flow direction relative to the surface orientation).
	absCos := math.Abs(p.CosTilt)
	switch {
	case absCos >= 0.9: // near-horizontal: floor/ceiling
		if (p.CosTilt > 0 && deltaT > 0) || (p.CosTilt < 0 && deltaT < 0) {
			return 9.482 * cubeRoot(math.Abs(deltaT)) / (7.283 - absCos)
		}
		return 1.810 * cubeRoot(math.Abs(deltaT)) / (1.382 + absCos)
	default: // near-vertical wall
		return 1.31 * cubeRoot(math.Abs(deltaT))
	}
}

func cubeRoot(v float64) float64 {
	if v < 0 {
		return -math.Cbrt(-v)
	}
	return math.Cbrt(v)
}

// TARPCombined returns the TARP combined (forced + natural) convective
// coefficient for an exterior surface face.
func TARPCombined(p ConvectionParams) float64 {
	coef := tarpRoughnessCoefficients[p.Roughness-1]
	hn := TARPNatural(p)
	hf := coef[0] + coef[1]*p.WindSpeed
	if !p.Windward {
		hf *= 0.5
	}
	return math.Sqrt(hn*hn + hf*hf)
}

// ResolveConvectionCoefficient picks the user override if present,
// otherwise computes the TARP natural or combined coefficient depending on
// whether the face is interior (Space/Adiabatic) or exterior (Outdoor/
// AmbientTemperature). It does not handle a NaN result: substituting a NaN
// side is ReconcileNaNCoefficients' job, per the open question decision
// recorded in SPEC_FULL.md.
func ResolveConvectionCoefficient(kind BoundaryKind, p ConvectionParams) (float64, error) {
	if kind == Ground {
		return 0, ErrGroundBoundaryUnreachable
	}
	if p.HasOverride {
		return p.Override, nil
	}
	switch kind {
	case Adiabatic, Space:
		return TARPNatural(p), nil
	case Outdoor, AmbientTemperature:
		return TARPCombined(p), nil
	default:
		return 0, fmt.Errorf("therm: ResolveConvectionCoefficient: unsupported boundary kind %d", kind)
	}
}

// ErrNaNConvection is surfaced (not returned as a hard error) when both
// sides of a surface yield a NaN convective coefficient and the fallback of
// 2.0 W/m²K was substituted on both sides.
var ErrNaNConvection = fmt.Errorf("therm: both convection coefficients were NaN, substituted 2.0 W/m²K")

// ReconcileNaNCoefficients applies the both-sides-NaN / one-side-NaN
// substitution rule to a pair of front/back convective coefficients,
// returning the possibly-adjusted pair and, if both were NaN, a non-nil
// warning (not a fatal error) the caller may log.
func ReconcileNaNCoefficients(hFront, hBack float64) (float64, float64, error) {
	fNaN, bNaN := math.IsNaN(hFront), math.IsNaN(hBack)
	switch {
	case fNaN && bNaN:
		return 2.0, 2.0, ErrNaNConvection
	case fNaN:
		return hBack, hBack, nil
	case bNaN:
		return hFront, hFront, nil
	default:
		return hFront, hBack, nil
	}
}

// boltzmann is the Stefan-Boltzmann constant, W/(m²K⁴).
const boltzmann = 5.670374419e-8

// LinearizedRadiativeCoefficient returns h_r = 4·ε·σ·((T_rad+T_surf)/2 +
// 273.15)³, the linearized radiative exchange coefficient for a surface
// face with emissivity emissivity, given the effective radiant (sky or
// space) temperature tRad and the surface temperature tSurf, both in °C.
func LinearizedRadiativeCoefficient(emissivity, tRad, tSurf float64) float64 {
	meanK := (tRad+tSurf)/2 + 273.15
	return 4 * emissivity * boltzmann * meanK * meanK * meanK
}
