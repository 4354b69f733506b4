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

package sun

import (
	"math"
	"testing"
	"time"
)

func TestPositionUnitDirection(t *testing.T) {
	site := Site{LatitudeRad: 40 * math.Pi / 180, LongitudeRad: -105 * math.Pi / 180, StandardMeridianRad: -105 * math.Pi / 180}
	date := time.Date(2026, 6, 21, 18, 0, 0, 0, time.UTC)
	dir, _, _ := Position(site, date)
	length := math.Sqrt(dir[0]*dir[0] + dir[1]*dir[1] + dir[2]*dir[2])
	if math.Abs(length-1) > 1e-9 {
		t.Errorf("sun direction length = %v, want 1", length)
	}
}

func TestPositionNoonAltitudeExceedsMorning(t *testing.T) {
	site := Site{LatitudeRad: 40 * math.Pi / 180, LongitudeRad: -105 * math.Pi / 180, StandardMeridianRad: -105 * math.Pi / 180}
	morning := time.Date(2026, 6, 21, 8, 0, 0, 0, time.UTC) // 8am local standard time
	noon := time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC)   // noon local standard time, near solar noon
	_, _, altMorning := Position(site, morning)
	_, _, altNoon := Position(site, noon)
	if altNoon <= altMorning {
		t.Errorf("altitude at local midday (%v) should exceed mid-morning (%v)", altNoon, altMorning)
	}
}

func TestPositionZenithPlusAltitudeIsHalfPi(t *testing.T) {
	site := Site{LatitudeRad: -41 * math.Pi / 180, LongitudeRad: 175 * math.Pi / 180, StandardMeridianRad: 180 * math.Pi / 180}
	date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, zenith, altitude := Position(site, date)
	if math.Abs(zenith+altitude-math.Pi/2) > 1e-9 {
		t.Errorf("zenith+altitude = %v, want π/2", zenith+altitude)
	}
}

func TestPositionNorthernWinterLowerThanSummerAtNoon(t *testing.T) {
	site := Site{LatitudeRad: 40 * math.Pi / 180, LongitudeRad: -105 * math.Pi / 180, StandardMeridianRad: -105 * math.Pi / 180}
	summerNoon := time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC)
	winterNoon := time.Date(2026, 12, 21, 12, 0, 0, 0, time.UTC)
	_, _, altSummer := Position(site, summerNoon)
	_, _, altWinter := Position(site, winterNoon)
	if altSummer <= altWinter {
		t.Errorf("a northern-hemisphere site should see a higher midday sun in June (%v) than December (%v)", altSummer, altWinter)
	}
}
