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

// Package sun computes the sun's position in a site-local frame (+X east,
// +Y north, +Z up) from site geolocation and a date/time, the solar-geometry
// input the driver feeds to sky/perez each timestep.
package sun

import (
	"math"
	"time"
)

// Site is the geolocation the Perez sky model and the driver's sun-position
// step are evaluated against, per spec.md §6 "site details".
type Site struct {
	LatitudeRad        float64
	LongitudeRad       float64
	StandardMeridianRad float64
	ElevationM         float64
}

// declinationRad returns the solar declination (radians) for the given UTC
// day of year, using the same Spencer-series approximation style as
// other_examples' ASCE solar model (asin of a sine-series in day-of-year).
func declinationRad(dayOfYear float64) float64 {
	b := (356.6 + 0.9856*dayOfYear) * math.Pi / 180
	c := (278.97 + 0.9856*dayOfYear + 1.9165*math.Sin(b)) * math.Pi / 180
	return math.Asin(0.39785 * math.Sin(c))
}

// equationOfTimeMinutes returns the equation of time (minutes), the
// discrepancy between apparent and mean solar time, as a function of day of
// year.
func equationOfTimeMinutes(dayOfYear float64) float64 {
	gamma := 2 * math.Pi / 365 * (dayOfYear - 1)
	return 229.18 * (0.000075 +
		0.001868*math.Cos(gamma) - 0.032077*math.Sin(gamma) -
		0.014615*math.Cos(2*gamma) - 0.040849*math.Sin(2*gamma))
}

// Position returns the unit sun direction in the site-local frame (+X east,
// +Y north, +Z up) at date, plus the solar zenith angle (radians) and solar
// altitude (radians) for convenience. The clock reading of date, taken in
// UTC, is the site's local standard time on site.StandardMeridianRad.
//
// Standard (clock) time is converted to apparent solar time using the
// longitude-vs-standard-meridian offset and the equation of time, the same
// two corrections other_examples' ASCE solar model applies before computing
// the hour angle.
func Position(site Site, date time.Time) (dir [3]float64, zenith, altitude float64) {
	utc := date.UTC()
	dayOfYear := float64(utc.YearDay())
	decl := declinationRad(dayOfYear)

	eqtMin := equationOfTimeMinutes(dayOfYear)
	longitudeCorrectionMin := (site.LongitudeRad - site.StandardMeridianRad) * 180 / math.Pi * 4
	clockMin := float64(utc.Hour())*60 + float64(utc.Minute()) + float64(utc.Second())/60
	solarTimeMin := clockMin + longitudeCorrectionMin + eqtMin
	hourAngle := (solarTimeMin/60 - 12) * 15 * math.Pi / 180

	lat := site.LatitudeRad
	cosZenith := math.Sin(lat)*math.Sin(decl) + math.Cos(lat)*math.Cos(decl)*math.Cos(hourAngle)
	cosZenith = math.Max(-1, math.Min(1, cosZenith))
	zenith = math.Acos(cosZenith)
	altitude = math.Pi/2 - zenith

	sinAz := -math.Cos(decl) * math.Sin(hourAngle)
	cosAz := (math.Sin(decl) - math.Sin(lat)*cosZenith) / (math.Cos(lat) * math.Sin(zenith))
	if math.IsNaN(cosAz) || math.IsInf(cosAz, 0) {
		cosAz = 1 // sun at zenith: azimuth undefined, default to north
	}
	cosAz = math.Max(-1, math.Min(1, cosAz))
	azimuth := math.Atan2(sinAz, cosAz) // 0 = north, +east

	cosAlt := math.Cos(altitude)
	dir = [3]float64{
		math.Sin(azimuth) * cosAlt,
		math.Cos(azimuth) * cosAlt,
		math.Sin(altitude),
	}
	return dir, zenith, altitude
}
