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

// Package weather defines the per-timestep weather record the driver
// consumes. Parsing EPW or JSON weather files is an external collaborator's
// job; this package only carries the typed record and the cloud-cover
// solar reconstruction spec.md §6 calls for.
package weather

import (
	"fmt"
	"math"
	"time"
)

// Record is one timestep of observed (or reconstructed) weather.
type Record struct {
	Date              time.Time
	DewPointC         float64
	DryBulbC          float64
	DirectNormal      float64 // W/m²
	DiffuseHorizontal float64 // W/m²
	GlobalHorizontal  float64 // W/m²
	WindSpeed         float64 // m/s
	WindDirection     float64 // radians
	OpaqueSkyCover    float64 // fraction 0-1
	RelativeHumidity  float64 // fraction 0-1
	Pressure          float64 // Pa
}

// Validate reports an error if r's fractional fields are out of their
// documented [0,1] range or its irradiances are negative.
func (r Record) Validate() error {
	if r.OpaqueSkyCover < 0 || r.OpaqueSkyCover > 1 {
		return fmt.Errorf("weather: Record.Validate: opaque sky cover %v out of [0,1]", r.OpaqueSkyCover)
	}
	if r.RelativeHumidity < 0 || r.RelativeHumidity > 1 {
		return fmt.Errorf("weather: Record.Validate: relative humidity %v out of [0,1]", r.RelativeHumidity)
	}
	if r.DirectNormal < 0 || r.DiffuseHorizontal < 0 || r.GlobalHorizontal < 0 {
		return fmt.Errorf("weather: Record.Validate: irradiance fields must be non-negative, got Edn=%v Edh=%v Egh=%v", r.DirectNormal, r.DiffuseHorizontal, r.GlobalHorizontal)
	}
	return nil
}

// EstimateSolarFromCloudCover reconstructs missing direct-normal and
// diffuse-horizontal irradiance from opaque sky cover and solar altitude,
// using the classic clear-sky-attenuated correlation: clearness decreases
// roughly as the cube of the cloud fraction, and an increasing share of the
// remaining flux is redirected from the direct to the diffuse component as
// cover increases.
func EstimateSolarFromCloudCover(cloudCover, solarAltitudeRad, extraterrestrialNormal float64) (directNormal, diffuseHorizontal float64) {
	if solarAltitudeRad <= 0 || extraterrestrialNormal <= 0 {
		return 0, 0
	}
	clearness := 1 - 0.75*math.Pow(cloudCover, 3)
	if clearness < 0.05 {
		clearness = 0.05
	}
	sinAlt := math.Sin(solarAltitudeRad)
	clearSkyNormal := extraterrestrialNormal * math.Exp(-0.357/sinAlt)
	directNormal = clearSkyNormal * clearness

	diffuseFraction := 0.2 + 0.8*cloudCover
	globalHorizontal := extraterrestrialNormal * clearness * sinAlt
	diffuseHorizontal = globalHorizontal * diffuseFraction
	if directNormal < 0 {
		directNormal = 0
	}
	if diffuseHorizontal < 0 {
		diffuseHorizontal = 0
	}
	return directNormal, diffuseHorizontal
}
