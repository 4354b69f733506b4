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

// Package perez implements the Perez (1990/1993) all-weather sky luminance
// distribution, discretized onto a reinhart.Sky patch vector.
package perez

import (
	"fmt"
	"math"
	"time"

	"github.com/spatialmodel/thermsim/dmat"
	"github.com/spatialmodel/thermsim/sky/reinhart"
)

// Unit names solar (W/(m²·sr)) or visible (cd/m²-equivalent) radiances.
// Vector does not read Unit: it always returns solar radiances.
type Unit int

const (
	Solar Unit = iota
	Visible
)

// referenceEfficacy is the 179 lm/W broadband reference efficacy spec 4.D's
// normalization divides by.
const referenceEfficacy = 179.0

// Parameters are the inputs to a single Perez sky evaluation.
type Parameters struct {
	SunDir                 [3]float64 // unit vector, site frame, +Z up
	Date                   time.Time
	DirectNormal           float64 // Edn, W/m²
	DiffuseHorizontal      float64 // Edh, W/m²
	DewPointC              float64
	Albedo                 float64
	Unit                   Unit
	AddSky, AddSun         bool
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// extraterrestrialIrradiance returns E0, the extraterrestrial direct-normal
// irradiance on date, accounting for the Earth-Sun distance correction.
func extraterrestrialIrradiance(date time.Time) float64 {
	const solarConstant = 1367.0
	n := float64(date.UTC().YearDay())
	return solarConstant * (1 + 0.033*math.Cos(2*math.Pi*n/365))
}

// airMass returns the relative optical air mass given zenith angle z
// (radians).
func airMass(z float64) float64 {
	zDeg := z * 180 / math.Pi
	denom := math.Cos(z) + 0.15*math.Pow(93.885-zDeg, -1.253)
	if denom <= 0 {
		return 1e6 // sun at/below horizon: air mass effectively infinite
	}
	return 1 / denom
}

// Vector computes the discretized sky radiance/luminance column for the
// given Parameters on sky. The returned matrix has shape (sky.NumBins(),1).
func Vector(sky *reinhart.Sky, p Parameters) (*dmat.Matrix, error) {
	n := sky.NumBins()
	out := dmat.Zeros(n, 1)

	cosZ := p.SunDir[2]
	if p.DirectNormal+p.DiffuseHorizontal < 1e-4 || cosZ <= 0 {
		return out, nil
	}

	// Ground bin.
	groundVal := p.Albedo * (p.DiffuseHorizontal + math.Max(0, cosZ)*p.DirectNormal) / (math.Pi * referenceEfficacy)
	if err := out.Set(sky.GroundBin(), 0, groundVal); err != nil {
		return nil, fmt.Errorf("perez: Vector: %w", err)
	}

	if p.AddSky {
		if err := fillSkyBins(sky, p, cosZ, out); err != nil {
			return nil, fmt.Errorf("perez: Vector: %w", err)
		}
	}

	if p.AddSun && p.DirectNormal > 1e-4 {
		if err := addSunBins(sky, p, out); err != nil {
			return nil, fmt.Errorf("perez: Vector: %w", err)
		}
	}

	return out, nil
}

func fillSkyBins(sky *reinhart.Sky, p Parameters, cosZ float64, out *dmat.Matrix) error {
	z := math.Acos(clamp(cosZ, -1, 1))
	m := airMass(z)
	const clearK = 1.041
	epsNumerator := (p.DiffuseHorizontal+p.DirectNormal)/p.DiffuseHorizontal + clearK*z*z*z
	epsilon := epsNumerator / (1 + clearK*z*z*z)
	if math.IsNaN(epsilon) || math.IsInf(epsilon, 0) {
		epsilon = 1 // fully overcast / Edh~0 degenerate case
	}
	epsilon = math.Min(epsilon, 11.9)
	bin := clearnessBin(epsilon)

	e0 := extraterrestrialIrradiance(p.Date)
	delta := clamp(p.DiffuseHorizontal*m/e0, 0.01, 9e9)

	a, b, c, d, e := shapeParameters(bin, z, delta)

	raw := make([]float64, sky.NumBins())
	var integral float64
	for i := 0; i < sky.NumBins(); i++ {
		if i == sky.GroundBin() {
			continue
		}
		x, y, zc, err := sky.BinDir(i)
		if err != nil {
			return err
		}
		dir := [3]float64{x, y, zc}
		cosZeta := clamp(zc, -1, 1)
		cosGamma := clamp(dot3(dir, p.SunDir), -1, 1)
		gamma := math.Acos(cosGamma)

		denomCosZeta := math.Max(cosZeta, 0.01)
		l := (1 + a*math.Exp(b/denomCosZeta)) * (1 + c*math.Exp(d*gamma) + e*cosGamma*cosGamma)
		if math.IsNaN(l) {
			l = 0
		}
		raw[i] = l

		sa, err := sky.BinSolidAngle(i)
		if err != nil {
			return err
		}
		integral += l * sa * math.Max(cosZeta, 0)
	}
	if integral <= 0 {
		return nil
	}
	norm := p.DiffuseHorizontal / integral / referenceEfficacy
	for i := 0; i < sky.NumBins(); i++ {
		if i == sky.GroundBin() {
			continue
		}
		if err := out.AddAt(i, 0, raw[i]*norm); err != nil {
			return err
		}
	}
	return nil
}

func addSunBins(sky *reinhart.Sky, p Parameters, out *dmat.Matrix) error {
	type candidate struct {
		bin int
		dot float64
	}
	var top []candidate
	for i := 0; i < sky.NumBins(); i++ {
		if i == sky.GroundBin() {
			continue
		}
		x, y, z, err := sky.BinDir(i)
		if err != nil {
			return err
		}
		dot := dot3([3]float64{x, y, z}, p.SunDir)
		top = append(top, candidate{bin: i, dot: dot})
	}
	// Partial selection of the 4 largest dot products.
	for i := 0; i < len(top); i++ {
		best := i
		for j := i + 1; j < len(top); j++ {
			if top[j].dot > top[best].dot {
				best = j
			}
		}
		top[i], top[best] = top[best], top[i]
		if i == 3 {
			break
		}
	}
	if len(top) > 4 {
		top = top[:4]
	}

	var sumW float64
	weights := make([]float64, len(top))
	for i, c := range top {
		w := 1 / (1.002 - c.dot)
		weights[i] = w
		sumW += w
	}
	if sumW <= 0 {
		return nil
	}
	flux := p.DirectNormal / referenceEfficacy
	for i, c := range top {
		sa, err := sky.BinSolidAngle(c.bin)
		if err != nil {
			return err
		}
		if sa <= 0 {
			continue
		}
		share := flux * weights[i] / sumW
		if err := out.AddAt(c.bin, 0, share/sa); err != nil {
			return err
		}
	}
	return nil
}
