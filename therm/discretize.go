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

// Package therm discretizes a layered wall construction into a node/segment
// network, partitions it into massive and no-mass chunks, and marches a
// surface's temperatures forward in time.
package therm

import (
	"fmt"
	"math"
)

// SubstanceKind tags whether a Substance is an opaque solid or a gas cavity.
type SubstanceKind int

const (
	SubstanceNormal SubstanceKind = iota
	SubstanceGas
)

// Substance is a thermophysical material property set. Normal substances
// carry conductivity/density/specific heat; Gas substances carry an R-value
// function of mean cavity temperature instead.
type Substance struct {
	Name string
	Kind SubstanceKind

	Conductivity    float64 // k, W/(m·K)
	Density         float64 // ρ, kg/m³
	SpecificHeat    float64 // cp, J/(kg·K)
	FrontAbsorptance float64
	BackAbsorptance  float64
	SolarTransmittance float64

	// GasRValue, when Kind==SubstanceGas, returns the cavity's R-value
	// (m²K/W) given its mean temperature in °C.
	GasRValue func(meanTempC float64) float64
}

// Material is one layer of a Construction: a Substance reference plus a
// thickness.
type Material struct {
	Substance *Substance
	Thickness float64 // m
}

// Construction is an ordered, front-to-back stack of Materials.
type Construction struct {
	Name     string
	Layers   []Material
}

// Node is one point in a Discretization's node list.
type Node struct {
	Mass       float64 // kg/m², 0 for a massless node
	Resistance float64 // resistance (m²K/W) to the NEXT node; 0 for the last node

	// HalfResistance is this node's own half-width resistance (m²K/W): half
	// of a solid segment's dx/k, or half of a gas cavity's full R-value.
	// Resistance is the series sum of two neighboring nodes' HalfResistance;
	// a node at the front or back of the whole Discretization also uses its
	// own HalfResistance in series with the external film coefficient, since
	// the film couples to the node's face, not its center.
	HalfResistance float64
}

// IsMassive reports whether n carries thermal mass.
func (n Node) IsMassive() bool { return n.Mass > 0 }

// ChunkRange is a half-open [Start,End) range of node indices.
type ChunkRange struct {
	Start, End int
}

// Len returns the number of nodes in the range.
func (c ChunkRange) Len() int { return c.End - c.Start }

// Discretization is the node/segment network derived from a Construction.
type Discretization struct {
	Nodes            []Node
	NElements        []int // per material layer
	MassiveChunks    []ChunkRange
	NomassChunks     []ChunkRange
	TstepSubdivision int
}

// stabilityConstant is the Fourier-number stability bound C_stab for
// explicit RK4 marching of a single conduction node.
const stabilityConstant = 0.5

// Discretize builds the node/segment network for cons, subject to a target
// user timestep dtUser, a maximum node spacing dxMax, and a minimum allowed
// sub-timestep dtMin. It returns a diagnostic error if no subdivision of
// dtUser can satisfy both the stability criterion and dtMin.
func Discretize(cons *Construction, dtUser, dxMax, dtMin float64) (*Discretization, error) {
	if dxMax <= 0 {
		return nil, fmt.Errorf("therm: Discretize: dxMax must be positive, got %v", dxMax)
	}
	d := &Discretization{NElements: make([]int, len(cons.Layers))}

	// alphas[i] holds the Fourier diffusivity-over-spacing-squared term for
	// each massive node produced, used below to find tstep_subdivision.
	var alphas []float64

	// halfRes[i] holds node i's own half-width resistance, recorded alongside
	// d.Nodes as they're built; Resistance-to-next is filled in afterward as
	// the series sum of each adjacent pair (see the loop below Discretize's
	// per-layer pass), so an inter-layer boundary node never collapses to the
	// zero placeholder that only the true last node of the construction
	// should carry.
	var halfRes []float64

	for li, mat := range cons.Layers {
		sub := mat.Substance
		switch sub.Kind {
		case SubstanceGas:
			meanT := 20.0 // nominal cavity mean temperature at build time
			r := sub.GasRValue(meanT)
			if r <= 0 {
				return nil, fmt.Errorf("therm: Discretize: layer %d (%s) has non-positive gas R-value %v", li, sub.Name, r)
			}
			d.NElements[li] = 0
			d.Nodes = append(d.Nodes, Node{Mass: 0})
			halfRes = append(halfRes, r/2)
		case SubstanceNormal:
			n := int(math.Ceil(mat.Thickness / dxMax))
			if n < 1 {
				n = 1
			}
			d.NElements[li] = n
			dx := mat.Thickness / float64(n)
			mass := sub.Density * sub.SpecificHeat * dx
			alpha := sub.Conductivity / (sub.Density * sub.SpecificHeat)
			half := dx / (2 * sub.Conductivity) // half-slice resistance, m²K/W
			for k := 0; k < n; k++ {
				d.Nodes = append(d.Nodes, Node{Mass: mass})
				halfRes = append(halfRes, half)
				alphas = append(alphas, alpha/(dx*dx))
			}
		default:
			return nil, fmt.Errorf("therm: Discretize: layer %d (%s): unsupported substance kind %d", li, sub.Name, sub.Kind)
		}
	}
	if len(d.Nodes) == 0 {
		return nil, fmt.Errorf("therm: Discretize: construction %q has no layers", cons.Name)
	}

	// A node's Resistance-to-next is the series sum of its own and its right
	// neighbor's half-width resistance, so interior layer interfaces get a
	// finite value instead of the 0 that only the construction's true last
	// node should carry.
	for i := range d.Nodes {
		d.Nodes[i].HalfResistance = halfRes[i]
		if i < len(d.Nodes)-1 {
			d.Nodes[i].Resistance = halfRes[i] + halfRes[i+1]
		}
	}

	s, err := findSubdivision(alphas, dtUser, dtMin)
	if err != nil {
		return nil, fmt.Errorf("therm: Discretize: construction %q: %w", cons.Name, err)
	}
	d.TstepSubdivision = s

	d.MassiveChunks, d.NomassChunks = chunkNodes(d.Nodes)
	return d, nil
}

func findSubdivision(alphas []float64, dtUser, dtMin float64) (int, error) {
	if len(alphas) == 0 {
		return 1, nil
	}
	var maxAlpha float64
	for _, a := range alphas {
		if a > maxAlpha {
			maxAlpha = a
		}
	}
	if maxAlpha <= 0 {
		return 1, nil
	}
	for s := 1; ; s++ {
		dt := dtUser / float64(s)
		if dt < dtMin {
			return 0, fmt.Errorf("cannot subdivide below dtMin=%v while meeting stability (reached s=%d, dt=%v)", dtMin, s, dt)
		}
		if maxAlpha*dt <= stabilityConstant {
			return s, nil
		}
	}
}

// chunkNodes partitions a node list into massive and no-mass chunks per the
// adjacency rule: runs of massive nodes form massive chunks, runs of
// massless nodes form no-mass chunks, each contiguous and non-overlapping.
func chunkNodes(nodes []Node) (massive, nomass []ChunkRange) {
	if len(nodes) == 0 {
		return nil, nil
	}
	start := 0
	curMassive := nodes[0].IsMassive()
	for i := 1; i <= len(nodes); i++ {
		if i == len(nodes) || nodes[i].IsMassive() != curMassive {
			r := ChunkRange{Start: start, End: i}
			if curMassive {
				massive = append(massive, r)
			} else {
				nomass = append(nomass, r)
			}
			if i < len(nodes) {
				start = i
				curMassive = nodes[i].IsMassive()
			}
		}
	}
	return massive, nomass
}
