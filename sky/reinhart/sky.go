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

// Package reinhart implements the Reinhart refinement of the Tregenza sky
// tessellation: a bidirectional map between a unit-sphere direction and a
// patch index on a refinable discretized sky dome, used as the domain for
// the Perez sky model's radiance vector.
package reinhart

import (
	"fmt"
	"math"
	"sort"
)

// tnaz gives the number of azimuthal bins per row of the base (MF=1)
// Tregenza tessellation, one entry per latitudinal band from the horizon up.
var tnaz = [7]int{30, 30, 24, 24, 18, 12, 6}

// Sky is a Reinhart sky tessellation at a given refinement factor.
type Sky struct {
	MF int

	numRows      int // 7*MF
	rowHeight    float64
	rowStart     []int       // bin index at which each row begins (after the ground bin)
	rowCount     []int       // bins in each row
	rowMaxSin    []float64   // sin(max altitude) per row, ascending: for binary search
	rowAltBounds [][2]float64
	numBins      int // 144*MF^2 + 2
	groundBin    int // always 0
	capBin       int // always numBins-1
}

// New builds the Reinhart tessellation for refinement factor mf (mf >= 1).
func New(mf int) (*Sky, error) {
	if mf < 1 {
		return nil, fmt.Errorf("reinhart: New: MF must be >= 1, got %d", mf)
	}
	s := &Sky{MF: mf}
	s.numRows = 7 * mf
	s.rowHeight = (math.Pi / 2) / (float64(s.numRows) + 0.5)

	s.rowStart = make([]int, s.numRows)
	s.rowCount = make([]int, s.numRows)
	s.rowMaxSin = make([]float64, s.numRows)
	s.rowAltBounds = make([][2]float64, s.numRows)

	offset := 1 // bin 0 is the ground
	for r := 0; r < s.numRows; r++ {
		count := mf * tnaz[r/mf]
		s.rowStart[r] = offset
		s.rowCount[r] = count
		minAlt := float64(r) * s.rowHeight
		maxAlt := float64(r+1) * s.rowHeight
		s.rowAltBounds[r] = [2]float64{minAlt, maxAlt}
		s.rowMaxSin[r] = math.Sin(maxAlt)
		offset += count
	}
	s.numBins = offset + 1 // + cap
	s.groundBin = 0
	s.capBin = s.numBins - 1
	if s.numBins != 144*mf*mf+2 {
		return nil, fmt.Errorf("reinhart: New: internal bin count %d does not match 144*MF^2+2=%d", s.numBins, 144*mf*mf+2)
	}
	return s, nil
}

// NumBins returns the total number of patches, including the ground (index
// 0) and the polar cap (the last index).
func (s *Sky) NumBins() int { return s.numBins }

// GroundBin returns the reserved ground-hemisphere bin index (always 0).
func (s *Sky) GroundBin() int { return s.groundBin }

// CapBin returns the polar-cap bin index (always NumBins()-1).
func (s *Sky) CapBin() int { return s.capBin }

func (s *Sky) rowOf(bin int) int {
	for r := 0; r < s.numRows; r++ {
		if bin >= s.rowStart[r] && bin < s.rowStart[r]+s.rowCount[r] {
			return r
		}
	}
	return -1
}

// BinDir returns the unit centre direction of patch i, using the convention
// +Y north, +X east, +Z up. The ground bin returns (0,0,-1); the cap bin
// returns (0,0,1).
func (s *Sky) BinDir(i int) (x, y, z float64, err error) {
	if i < 0 || i >= s.numBins {
		return 0, 0, 0, fmt.Errorf("reinhart: BinDir: index %d out of range [0,%d)", i, s.numBins)
	}
	if i == s.groundBin {
		return 0, 0, -1, nil
	}
	if i == s.capBin {
		return 0, 0, 1, nil
	}
	r := s.rowOf(i)
	if r < 0 {
		return 0, 0, 0, fmt.Errorf("reinhart: BinDir: index %d is not in any row", i)
	}
	pos := i - s.rowStart[r]
	alt := (s.rowAltBounds[r][0] + s.rowAltBounds[r][1]) / 2
	binWidth := 2 * math.Pi / float64(s.rowCount[r])
	az := float64(pos) * binWidth
	cosAlt := math.Cos(alt)
	x = math.Sin(az) * cosAlt
	y = math.Cos(az) * cosAlt
	z = math.Sin(alt)
	return x, y, z, nil
}

// DirToBin returns the patch index containing unit direction (x,y,z).
func (s *Sky) DirToBin(x, y, z float64) (int, error) {
	norm := math.Sqrt(x*x + y*y + z*z)
	if norm < 1e-12 {
		return 0, fmt.Errorf("reinhart: DirToBin: direction is the zero vector")
	}
	x, y, z = x/norm, y/norm, z/norm
	if z < 0 {
		return s.groundBin, nil
	}
	// Binary search over ascending sin(max altitude) per row.
	r := sort.Search(s.numRows, func(r int) bool { return z <= s.rowMaxSin[r] })
	if r >= s.numRows {
		return s.capBin, nil
	}
	binWidth := 2 * math.Pi / float64(s.rowCount[r])
	az := math.Atan2(x, y)
	if az < 0 {
		az += 2 * math.Pi
	}
	pos := int(math.Round(az/binWidth)) % s.rowCount[r]
	if pos < 0 {
		pos += s.rowCount[r]
	}
	return s.rowStart[r] + pos, nil
}

// BinSolidAngle returns the solid angle (steradians) subtended by patch i.
func (s *Sky) BinSolidAngle(i int) (float64, error) {
	if i < 0 || i >= s.numBins {
		return 0, fmt.Errorf("reinhart: BinSolidAngle: index %d out of range [0,%d)", i, s.numBins)
	}
	if i == s.capBin {
		return 2 * math.Pi * (1 - math.Cos(s.rowHeight/2)), nil
	}
	if i == s.groundBin {
		return 2 * math.Pi * (1 - math.Cos(s.rowHeight)), nil
	}
	r := s.rowOf(i)
	if r < 0 {
		return 0, fmt.Errorf("reinhart: BinSolidAngle: index %d is not in any row", i)
	}
	sinLow := math.Sin(s.rowAltBounds[r][0])
	sinTop := math.Sin(s.rowAltBounds[r][1])
	return 2 * math.Pi * (sinTop - sinLow) / float64(s.rowCount[r]), nil
}

// TotalSolidAngle sums BinSolidAngle over every bin, including the ground.
func (s *Sky) TotalSolidAngle() (float64, error) {
	var total float64
	for i := 0; i < s.numBins; i++ {
		sa, err := s.BinSolidAngle(i)
		if err != nil {
			return 0, err
		}
		total += sa
	}
	return total, nil
}

// SkySolidAngle sums BinSolidAngle over the sky bins only (every bin except
// the ground). It should equal 2π (the upper hemisphere) within tight
// numerical tolerance, since the row and cap solid angles telescope exactly.
func (s *Sky) SkySolidAngle() (float64, error) {
	total, err := s.TotalSolidAngle()
	if err != nil {
		return 0, err
	}
	ground, err := s.BinSolidAngle(s.groundBin)
	if err != nil {
		return 0, err
	}
	return total - ground, nil
}
