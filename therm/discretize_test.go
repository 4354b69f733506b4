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

import "testing"

func polyurethane() *Substance {
	return &Substance{
		Name: "polyurethane", Kind: SubstanceNormal,
		Conductivity: 0.025, Density: 24, SpecificHeat: 1590,
	}
}

func brickwork() *Substance {
	return &Substance{
		Name: "brickwork", Kind: SubstanceNormal,
		Conductivity: 0.816, Density: 1700, SpecificHeat: 800,
	}
}

func TestDiscretizeSingleMassiveLayer(t *testing.T) {
	cons := &Construction{Name: "brickwork-panel", Layers: []Material{{Substance: brickwork(), Thickness: 0.2}}}
	d, err := Discretize(cons, 600, 0.05, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Nodes) != 4 {
		t.Fatalf("got %d nodes, want 4 (0.2m / 0.05m max spacing)", len(d.Nodes))
	}
	for i, n := range d.Nodes {
		if !n.IsMassive() {
			t.Errorf("node %d: expected massive", i)
		}
	}
	if len(d.MassiveChunks) != 1 || d.MassiveChunks[0] != (ChunkRange{0, 4}) {
		t.Errorf("massive chunks = %v, want one chunk [0,4)", d.MassiveChunks)
	}
	if len(d.NomassChunks) != 0 {
		t.Errorf("nomass chunks = %v, want none", d.NomassChunks)
	}
}

// A gas cavity between two brick layers should discretize to a single
// massless node forming its own no-mass chunk, per spec.md §8 scenario 5's
// "no-mass chunk" construction.
func TestDiscretizeNoMassGasLayer(t *testing.T) {
	cavity := &Substance{
		Name: "airgap", Kind: SubstanceGas,
		GasRValue: func(meanTempC float64) float64 { return 0.18 },
	}
	cons := &Construction{Name: "cavity-wall", Layers: []Material{
		{Substance: brickwork(), Thickness: 0.1},
		{Substance: cavity, Thickness: 0.05},
		{Substance: brickwork(), Thickness: 0.1},
	}}
	d, err := Discretize(cons, 600, 0.05, 1)
	if err != nil {
		t.Fatal(err)
	}
	massive, nomass := 0, 0
	for _, n := range d.Nodes {
		if n.IsMassive() {
			massive++
		} else {
			nomass++
		}
	}
	if nomass != 1 {
		t.Errorf("got %d no-mass nodes, want exactly 1 (the gas cavity)", nomass)
	}
	if massive == 0 {
		t.Errorf("expected at least one massive node from the brick layers")
	}
	if len(d.NomassChunks) != 1 {
		t.Errorf("expected the single gas node to form its own chunk, got %v", d.NomassChunks)
	}
}

func TestDiscretizeZeroRValueGasIsError(t *testing.T) {
	cavity := &Substance{Name: "bad", Kind: SubstanceGas, GasRValue: func(float64) float64 { return 0 }}
	cons := &Construction{Name: "bad-wall", Layers: []Material{{Substance: cavity, Thickness: 0.05}}}
	if _, err := Discretize(cons, 600, 0.05, 1); err == nil {
		t.Fatal("expected an error for a non-positive gas R-value")
	}
}

func TestDiscretizeNoLayersIsError(t *testing.T) {
	cons := &Construction{Name: "empty"}
	if _, err := Discretize(cons, 600, 0.05, 1); err == nil {
		t.Fatal("expected an error for a construction with no layers")
	}
}

// A highly diffusive, thick node at a long user timestep should force
// subdivision (tstep_subdivision > 1) to keep the Fourier number within the
// stability bound.
func TestDiscretizeRequiresSubdivisionForFastDiffusion(t *testing.T) {
	fast := &Substance{Name: "fast", Kind: SubstanceNormal, Conductivity: 200, Density: 1, SpecificHeat: 1}
	cons := &Construction{Name: "metal-block", Layers: []Material{{Substance: fast, Thickness: 1}}}
	d, err := Discretize(cons, 600, 1, 0.001)
	if err != nil {
		t.Fatal(err)
	}
	if d.TstepSubdivision <= 1 {
		t.Errorf("got TstepSubdivision=%d, want >1 for a highly diffusive thick node", d.TstepSubdivision)
	}
}

func TestDiscretizeUnsatisfiableSubdivisionIsError(t *testing.T) {
	fast := &Substance{Name: "fast", Kind: SubstanceNormal, Conductivity: 200, Density: 1, SpecificHeat: 1}
	cons := &Construction{Name: "metal-sheet", Layers: []Material{{Substance: fast, Thickness: 0.01}}}
	if _, err := Discretize(cons, 600, 0.01, 590); err == nil {
		t.Fatal("expected an error when dtMin forbids satisfying the stability bound")
	}
}
