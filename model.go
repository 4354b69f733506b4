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

// SubstanceHandle, ConstructionHandle, SpaceHandle, and SurfaceHandle are
// by-index references into a Model's arenas. Surfaces store handles rather
// than names; name lookups happen once, at build time (Design Note "shared
// ownership of Model entities").
type SubstanceHandle int
type ConstructionHandle int
type SpaceHandle int
type SurfaceHandle int

// Space is a thermal zone: a name and a volume used by the (external)
// air-flow model.
type Space struct {
	Name   string
	Volume float64 // m³
}

// Model is the arena owning every named entity a built simulation
// references: substances, constructions, spaces, and surfaces. Surfaces
// hold handles into this arena, never names, once the model is built.
type Model struct {
	substances   []*therm.Substance
	constructions []*therm.Construction
	spaces       []*Space
	surfaces     []*therm.Surface

	substanceByName   map[string]SubstanceHandle
	constructionByName map[string]ConstructionHandle
	spaceByName       map[string]SpaceHandle
}

// NewModel returns an empty Model arena.
func NewModel() *Model {
	return &Model{
		substanceByName:   make(map[string]SubstanceHandle),
		constructionByName: make(map[string]ConstructionHandle),
		spaceByName:       make(map[string]SpaceHandle),
	}
}

// AddSubstance registers sub and returns its handle. Substance names must
// be unique within a Model.
func (m *Model) AddSubstance(sub *therm.Substance) (SubstanceHandle, error) {
	if _, exists := m.substanceByName[sub.Name]; exists {
		return 0, fmt.Errorf("thermsim: Model.AddSubstance: duplicate substance name %q", sub.Name)
	}
	h := SubstanceHandle(len(m.substances))
	m.substances = append(m.substances, sub)
	m.substanceByName[sub.Name] = h
	return h, nil
}

// Substance resolves a handle to its Substance.
func (m *Model) Substance(h SubstanceHandle) (*therm.Substance, error) {
	if int(h) < 0 || int(h) >= len(m.substances) {
		return nil, fmt.Errorf("thermsim: Model.Substance: handle %d out of range", h)
	}
	return m.substances[int(h)], nil
}

// GetSubstance resolves a substance by name to its handle.
func (m *Model) GetSubstance(name string) (SubstanceHandle, error) {
	h, ok := m.substanceByName[name]
	if !ok {
		return 0, fmt.Errorf("thermsim: Model.GetSubstance: no substance named %q", name)
	}
	return h, nil
}

// AddConstruction registers cons and returns its handle.
func (m *Model) AddConstruction(cons *therm.Construction) (ConstructionHandle, error) {
	if _, exists := m.constructionByName[cons.Name]; exists {
		return 0, fmt.Errorf("thermsim: Model.AddConstruction: duplicate construction name %q", cons.Name)
	}
	h := ConstructionHandle(len(m.constructions))
	m.constructions = append(m.constructions, cons)
	m.constructionByName[cons.Name] = h
	return h, nil
}

// Construction resolves a handle to its Construction.
func (m *Model) Construction(h ConstructionHandle) (*therm.Construction, error) {
	if int(h) < 0 || int(h) >= len(m.constructions) {
		return nil, fmt.Errorf("thermsim: Model.Construction: handle %d out of range", h)
	}
	return m.constructions[int(h)], nil
}

// GetConstruction resolves a construction by name to its handle.
func (m *Model) GetConstruction(name string) (ConstructionHandle, error) {
	h, ok := m.constructionByName[name]
	if !ok {
		return 0, fmt.Errorf("thermsim: Model.GetConstruction: no construction named %q", name)
	}
	return h, nil
}

// AddSpace registers sp and returns its handle.
func (m *Model) AddSpace(sp *Space) (SpaceHandle, error) {
	if _, exists := m.spaceByName[sp.Name]; exists {
		return 0, fmt.Errorf("thermsim: Model.AddSpace: duplicate space name %q", sp.Name)
	}
	h := SpaceHandle(len(m.spaces))
	m.spaces = append(m.spaces, sp)
	m.spaceByName[sp.Name] = h
	return h, nil
}

// Space resolves a handle to its Space.
func (m *Model) Space(h SpaceHandle) (*Space, error) {
	if int(h) < 0 || int(h) >= len(m.spaces) {
		return nil, fmt.Errorf("thermsim: Model.Space: handle %d out of range", h)
	}
	return m.spaces[int(h)], nil
}

// GetSpace resolves a space by name to its handle.
func (m *Model) GetSpace(name string) (SpaceHandle, error) {
	h, ok := m.spaceByName[name]
	if !ok {
		return 0, fmt.Errorf("thermsim: Model.GetSpace: no space named %q", name)
	}
	return h, nil
}

// AddSurface registers surf (already built against one of this Model's
// constructions) and returns its handle.
func (m *Model) AddSurface(surf *therm.Surface) SurfaceHandle {
	h := SurfaceHandle(len(m.surfaces))
	m.surfaces = append(m.surfaces, surf)
	return h
}

// Surface resolves a handle to its Surface.
func (m *Model) Surface(h SurfaceHandle) (*therm.Surface, error) {
	if int(h) < 0 || int(h) >= len(m.surfaces) {
		return nil, fmt.Errorf("thermsim: Model.Surface: handle %d out of range", h)
	}
	return m.surfaces[int(h)], nil
}

// Surfaces returns every registered surface handle, in registration order.
func (m *Model) Surfaces() []SurfaceHandle {
	out := make([]SurfaceHandle, len(m.surfaces))
	for i := range out {
		out[i] = SurfaceHandle(i)
	}
	return out
}
