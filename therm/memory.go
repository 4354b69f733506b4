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

	"github.com/spatialmodel/thermsim/dmat"
)

// ChunkMemory is the preallocated scratch a single chunk's march reuses
// every timestep: the m×1 working vectors and the m×m coefficient matrices.
type ChunkMemory struct {
	Temps, Aux, Q      *dmat.Matrix
	K1, K2, K3, K4      *dmat.Matrix
	K, C                *dmat.Matrix
}

// NewChunkMemory allocates scratch for a chunk of m nodes.
func NewChunkMemory(m int) (*ChunkMemory, error) {
	if m <= 0 {
		return nil, fmt.Errorf("therm: NewChunkMemory: m must be positive, got %d", m)
	}
	vecs := make([]*dmat.Matrix, 7)
	for i := range vecs {
		vecs[i] = dmat.Zeros(m, 1)
	}
	k, err := dmat.New(0, m, m)
	if err != nil {
		return nil, fmt.Errorf("therm: NewChunkMemory: %w", err)
	}
	c, err := dmat.New(0, m, m)
	if err != nil {
		return nil, fmt.Errorf("therm: NewChunkMemory: %w", err)
	}
	return &ChunkMemory{
		Temps: vecs[0], Aux: vecs[1], Q: vecs[2],
		K1: vecs[3], K2: vecs[4], K3: vecs[5], K4: vecs[6],
		K: k, C: c,
	}, nil
}

// SurfaceMemory is the full set of scratch a surface's march borrows: the
// whole-construction node-temperature and solar-absorbed columns, plus one
// ChunkMemory per chunk (no-mass chunks first, then massive chunks, matching
// the march order in 4.G).
type SurfaceMemory struct {
	NodeTemps    *dmat.Matrix
	SolarAbsorbed *dmat.Matrix

	NomassChunks  []*ChunkMemory
	MassiveChunks []*ChunkMemory
}

// NewSurfaceMemory allocates scratch for a surface whose construction
// discretizes to d.
func NewSurfaceMemory(d *Discretization) (*SurfaceMemory, error) {
	n := len(d.Nodes)
	sm := &SurfaceMemory{
		NodeTemps:     dmat.Zeros(n, 1),
		SolarAbsorbed: dmat.Zeros(n, 1),
	}
	for _, r := range d.NomassChunks {
		cm, err := NewChunkMemory(r.Len())
		if err != nil {
			return nil, fmt.Errorf("therm: NewSurfaceMemory: no-mass chunk [%d,%d): %w", r.Start, r.End, err)
		}
		sm.NomassChunks = append(sm.NomassChunks, cm)
	}
	for _, r := range d.MassiveChunks {
		cm, err := NewChunkMemory(r.Len())
		if err != nil {
			return nil, fmt.Errorf("therm: NewSurfaceMemory: massive chunk [%d,%d): %w", r.Start, r.End, err)
		}
		sm.MassiveChunks = append(sm.MassiveChunks, cm)
	}
	return sm, nil
}
