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

// Package thermsim is the multiphysics building-performance simulation
// driver: it owns the Model arena, the SimulationState vector, and the
// per-timestep Driver that calls into sky/reinhart, sky/perez, and therm.
package thermsim

import (
	"fmt"
	"strconv"
)

// StateElementKind tags what a SimulationState slot represents.
type StateElementKind int

const (
	ElementBoundaryTemperature StateElementKind = iota
	ElementNodeTemperature
	ElementSolarIrradiance
	ElementHVACConsumption
	ElementLuminaireLevel
)

func (k StateElementKind) String() string {
	switch k {
	case ElementBoundaryTemperature:
		return "boundary_temp"
	case ElementNodeTemperature:
		return "node_temp"
	case ElementSolarIrradiance:
		return "solar_irradiance"
	case ElementHVACConsumption:
		return "hvac_consumption"
	case ElementLuminaireLevel:
		return "luminaire_level"
	default:
		return "unknown"
	}
}

// StateElement is a typed descriptor for one slot in a SimulationState:
// what kind of quantity it is, which model entity (by arena index) owns it,
// and (for per-node quantities) which node.
type StateElement struct {
	Kind     StateElementKind
	EntityID int
	NodeID   int // -1 when the element is not per-node
	Role     string
	Owner    string // entity name, for stable stringification
}

// String returns a deterministic descriptor used as a CSV header column,
// stable across runs for the same model.
func (e StateElement) String() string {
	s := e.Owner + ":" + e.Kind.String()
	if e.Role != "" {
		s += ":" + e.Role
	}
	if e.NodeID >= 0 {
		s += ":" + strconv.Itoa(e.NodeID)
	}
	return s
}

// SimulationState is a dense vector of scalars indexed by a parallel vector
// of StateElement descriptors. The header is grown at model-build time;
// values are then read and mutated in place every timestep by both a
// controller and the physics march.
type SimulationState struct {
	headers []StateElement
	values  []float64
	index   map[string]int
}

// NewSimulationState returns an empty state with no declared elements.
func NewSimulationState() *SimulationState {
	return &SimulationState{index: make(map[string]int)}
}

// Declare grows the state header with a new element and returns its index.
// Declaring the same descriptor twice is an error: headers must be unique.
func (s *SimulationState) Declare(e StateElement) (int, error) {
	key := e.String()
	if _, exists := s.index[key]; exists {
		return 0, fmt.Errorf("thermsim: SimulationState.Declare: duplicate state element %q", key)
	}
	idx := len(s.headers)
	s.headers = append(s.headers, e)
	s.values = append(s.values, 0)
	s.index[key] = idx
	return idx, nil
}

// Len returns the number of declared elements.
func (s *SimulationState) Len() int { return len(s.headers) }

// Header returns the descriptor at idx.
func (s *SimulationState) Header(idx int) (StateElement, error) {
	if idx < 0 || idx >= len(s.headers) {
		return StateElement{}, fmt.Errorf("thermsim: SimulationState.Header: index %d out of range", idx)
	}
	return s.headers[idx], nil
}

// Get returns the current value at idx.
func (s *SimulationState) Get(idx int) (float64, error) {
	if idx < 0 || idx >= len(s.values) {
		return 0, fmt.Errorf("thermsim: SimulationState.Get: index %d out of range", idx)
	}
	return s.values[idx], nil
}

// Set writes v at idx.
func (s *SimulationState) Set(idx int, v float64) error {
	if idx < 0 || idx >= len(s.values) {
		return fmt.Errorf("thermsim: SimulationState.Set: index %d out of range", idx)
	}
	s.values[idx] = v
	return nil
}

// Find resolves a descriptor to its index, for a controller that knows the
// descriptor shape but not the build-time index.
func (s *SimulationState) Find(e StateElement) (int, bool) {
	idx, ok := s.index[e.String()]
	return idx, ok
}

// Headers returns the CSV column names in declared order, stable across
// runs of the same model.
func (s *SimulationState) Headers() []string {
	out := make([]string, len(s.headers))
	for i, h := range s.headers {
		out[i] = h.String()
	}
	return out
}
