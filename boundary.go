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

package thermsim

import (
	"fmt"

	"github.com/spatialmodel/thermsim/therm"
)

// BoundaryKind tags which of the five model-input boundary variants a
// surface face names. Ground is reserved: it is valid as a model-input
// value but unreachable on the core solver path, the way spec.md requires.
type BoundaryKind int

const (
	BoundaryAdiabatic BoundaryKind = iota
	BoundarySpace
	BoundaryAmbientTemperature
	BoundaryOutdoor
	BoundaryGround
)

// Boundary is the tagged-variant descriptor a Surface or Fenestration names
// for one face (Design Note "dynamic behavior over substance kind" applies
// the same pattern here: every consumer pattern-matches Kind and fails
// explicitly on Ground rather than silently defaulting).
type Boundary struct {
	Kind BoundaryKind

	// Space is valid when Kind == BoundarySpace.
	Space SpaceHandle

	// FixedTemperature is valid when Kind == BoundaryAmbientTemperature.
	FixedTemperature float64
}

// therm converts b's Kind to the solver-facing therm.BoundaryKind. Ground
// converts to therm.Ground, which the solver itself rejects; this function
// never rejects Ground on its own, since a model may legitimately carry an
// unused Ground-bound boundary before the driver ever marches it.
func (b Boundary) therm() therm.BoundaryKind {
	switch b.Kind {
	case BoundaryAdiabatic:
		return therm.Adiabatic
	case BoundarySpace:
		return therm.Space
	case BoundaryAmbientTemperature:
		return therm.AmbientTemperature
	case BoundaryOutdoor:
		return therm.Outdoor
	default:
		return therm.Ground
	}
}

// ResolveAmbient returns the ambient air temperature a boundary presents to
// the thermal solver, given the current space temperature (meaningful only
// for BoundarySpace) and the current outdoor dry-bulb temperature
// (meaningful only for BoundaryOutdoor). Adiabatic has no physical ambient
// temperature; the solver sets an Adiabatic face's h to zero, so the
// returned value is unused but kept finite (0) to avoid propagating NaN.
func (b Boundary) ResolveAmbient(spaceTemp, outdoorDryBulb float64) (float64, error) {
	switch b.Kind {
	case BoundaryAdiabatic:
		return 0, nil
	case BoundarySpace:
		return spaceTemp, nil
	case BoundaryAmbientTemperature:
		return b.FixedTemperature, nil
	case BoundaryOutdoor:
		return outdoorDryBulb, nil
	case BoundaryGround:
		return 0, fmt.Errorf("thermsim: Boundary.ResolveAmbient: %w", therm.ErrGroundBoundaryUnreachable)
	default:
		return 0, fmt.Errorf("thermsim: Boundary.ResolveAmbient: unsupported boundary kind %d", b.Kind)
	}
}
