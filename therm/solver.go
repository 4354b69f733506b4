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
	"math"

	"github.com/spatialmodel/thermsim/dmat"
	"gonum.org/v1/gonum/floats"
)

// Surface is the per-surface solver state: the construction's
// Discretization, cached geometric scalars, emissivities, per-node
// absorption shares, and optional user-overriding convection coefficients.
type Surface struct {
	Name           string
	Discretization *Discretization
	Memory         *SurfaceMemory

	Area, Perimeter float64
	CosTilt         float64 // cosine of tilt relative to the front face
	WindAltitudeMod float64

	FrontEmissivity, BackEmissivity float64
	FrontAbsorptionShare           []float64 // len == len(Discretization.Nodes)
	BackAbsorptionShare            []float64

	FrontRoughness, BackRoughness Roughness
	FrontOverrideH, BackOverrideH float64
	FrontHasOverride, BackHasOverride bool
}

// BoundaryInputs is the resolved, per-timestep external condition on one
// face of a Surface, as computed by the driver from the SimulationState.
type BoundaryInputs struct {
	Kind            BoundaryKind
	AmbientTemp     float64
	SkyTemp         float64 // effective radiant temperature for h_r
	WindSpeed       float64
	WindDirHorizDot float64 // n̂·wind_dir_horizontal, exterior faces only
	SolarIrradiance float64 // incident flux, W/m²; NaN/negative clamped to 0
}

// MarchResult is the outcome of one Surface.March call.
type MarchResult struct {
	FrontFlow, BackFlow float64 // W/m², positive = heat flowing INTO the surface from that face
	Warnings            []error
}

func clampSolar(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

// March advances surface s's node temperatures by dt given the resolved
// front/back boundary conditions, running all no-mass chunks first and then
// all massive chunks, and returns the computed front/back convective heat
// flows. Non-convergence of the no-mass iteration and NaN convection
// coefficients are reported via MarchResult.Warnings, not a fatal error;
// shape mismatches, singular solves, and a Ground boundary are fatal.
func (s *Surface) March(dt float64, front, back BoundaryInputs) (*MarchResult, error) {
	if front.Kind == Ground || back.Kind == Ground {
		return nil, ErrGroundBoundaryUnreachable
	}
	d := s.Discretization
	n := len(d.Nodes)
	temps := s.Memory.NodeTemps.Data()

	frontIrr := clampSolar(front.SolarIrradiance)
	backIrr := clampSolar(back.SolarIrradiance)
	solar := s.Memory.SolarAbsorbed.Data()
	for i := 0; i < n; i++ {
		solar[i] = s.FrontAbsorptionShare[i]*frontIrr + s.BackAbsorptionShare[i]*backIrr
	}

	result := &MarchResult{}

	hConvFront, err := ResolveConvectionCoefficient(front.Kind, s.frontConvectionParams(front, temps[0]))
	if err != nil {
		return nil, fmt.Errorf("therm: March: surface %q: %w", s.Name, err)
	}
	hConvBack, err := ResolveConvectionCoefficient(back.Kind, s.backConvectionParams(back, temps[n-1]))
	if err != nil {
		return nil, fmt.Errorf("therm: March: surface %q: %w", s.Name, err)
	}
	hConvFront, hConvBack, warn := ReconcileNaNCoefficients(hConvFront, hConvBack)
	if warn != nil {
		result.Warnings = append(result.Warnings, warn)
	}

	hRadFront := LinearizedRadiativeCoefficient(s.FrontEmissivity, front.SkyTemp, temps[0])
	hRadBack := LinearizedRadiativeCoefficient(s.BackEmissivity, back.SkyTemp, temps[n-1])
	hFrontTotal := hConvFront + hRadFront
	hBackTotal := hConvBack + hRadBack
	// An Adiabatic face exchanges no heat with its surroundings.
	if front.Kind == Adiabatic {
		hFrontTotal = 0
	}
	if back.Kind == Adiabatic {
		hBackTotal = 0
	}

	for ci, r := range d.NomassChunks {
		cm := s.Memory.NomassChunks[ci]
		nw, err := s.stepNomassChunk(r, cm, temps, solar, hFrontTotal, front.AmbientTemp, hBackTotal, back.AmbientTemp)
		if err != nil {
			return nil, fmt.Errorf("therm: March: surface %q: no-mass chunk [%d,%d): %w", s.Name, r.Start, r.End, err)
		}
		if nw != nil {
			result.Warnings = append(result.Warnings, nw)
		}
	}
	for ci, r := range d.MassiveChunks {
		cm := s.Memory.MassiveChunks[ci]
		if err := s.stepMassiveChunk(r, cm, dt, temps, solar, hFrontTotal, front.AmbientTemp, hBackTotal, back.AmbientTemp); err != nil {
			return nil, fmt.Errorf("therm: March: surface %q: massive chunk [%d,%d): %w", s.Name, r.Start, r.End, err)
		}
	}

	result.FrontFlow = seriesConductance(hFrontTotal, d.Nodes[0].HalfResistance) * (front.AmbientTemp - temps[0])
	result.BackFlow = seriesConductance(hBackTotal, d.Nodes[n-1].HalfResistance) * (back.AmbientTemp - temps[n-1])
	return result, nil
}

func (s *Surface) frontConvectionParams(b BoundaryInputs, surfTemp float64) ConvectionParams {
	return ConvectionParams{
		AirTemp: b.AmbientTemp, SkyTemp: b.SkyTemp, SurfTemp: surfTemp,
		CosTilt: s.CosTilt, Roughness: s.FrontRoughness, WindSpeed: b.WindSpeed,
		Windward: Windward(s.CosTilt, b.WindDirHorizDot),
		Override: s.FrontOverrideH, HasOverride: s.FrontHasOverride,
	}
}

func (s *Surface) backConvectionParams(b BoundaryInputs, surfTemp float64) ConvectionParams {
	cosTilt := -s.CosTilt
	return ConvectionParams{
		AirTemp: b.AmbientTemp, SkyTemp: b.SkyTemp, SurfTemp: surfTemp,
		CosTilt: cosTilt, Roughness: s.BackRoughness, WindSpeed: b.WindSpeed,
		Windward: Windward(cosTilt, b.WindDirHorizDot),
		Override: s.BackOverrideH, HasOverride: s.BackHasOverride,
	}
}

// seriesConductance combines a film coefficient h (W/m²K) in series with a
// node's own half-width resistance halfRes (m²K/W), since the film couples
// to the node's face while the node's temperature is assigned at its
// center. h==0 (an unresolved or deliberately zero coefficient) yields 0,
// not a division by a zero reciprocal.
func seriesConductance(h, halfRes float64) float64 {
	if h == 0 {
		return 0
	}
	return 1 / (1/h + halfRes)
}

// buildChunkSystem fills K (conductance, W/m²K) and q (W/m²) for the nodes
// in r, given the full current node-temperature vector globalTemps and the
// per-node absorbed solar column solar. Boundary nodes of the whole
// Discretization couple to the resolved external h/T, in series with that
// node's own half-width resistance; internal chunk boundaries couple to the
// adjacent chunk's last-known node temperature.
func buildChunkSystem(d *Discretization, r ChunkRange, globalTemps, solar []float64, hFrontTotal, tFront, hBackTotal, tBack float64, K, q *dmat.Matrix) error {
	m := r.Len()
	if K.Rows() != m || K.Cols() != m || q.Rows() != m {
		return fmt.Errorf("buildChunkSystem: scratch shape mismatch for chunk of %d nodes", m)
	}
	K.Clear()
	q.Clear()
	nodes := d.Nodes
	n := len(nodes)

	for idx := 0; idx < m; idx++ {
		gi := r.Start + idx
		var diag, qi float64

		// Left coupling.
		if idx > 0 {
			g := 1 / nodes[gi-1].Resistance
			if err := K.Set(idx, idx-1, g); err != nil {
				return err
			}
			diag -= g
		} else if gi == 0 {
			g := seriesConductance(hFrontTotal, nodes[gi].HalfResistance)
			diag -= g
			qi += g * tFront
		} else {
			g := 1 / nodes[gi-1].Resistance
			diag -= g
			qi += g * globalTemps[gi-1]
		}

		// Right coupling.
		if idx < m-1 {
			g := 1 / nodes[gi].Resistance
			if err := K.Set(idx, idx+1, g); err != nil {
				return err
			}
			diag -= g
		} else if gi == n-1 {
			g := seriesConductance(hBackTotal, nodes[gi].HalfResistance)
			diag -= g
			qi += g * tBack
		} else {
			g := 1 / nodes[gi].Resistance
			diag -= g
			qi += g * globalTemps[gi+1]
		}

		qi += solar[gi]
		if err := K.Set(idx, idx, diag); err != nil {
			return err
		}
		if err := q.Set(idx, 0, qi); err != nil {
			return err
		}
	}
	return nil
}

func (s *Surface) stepMassiveChunk(r ChunkRange, cm *ChunkMemory, dt float64, globalTemps, solar []float64, hFrontTotal, tFront, hBackTotal, tBack float64) error {
	if err := buildChunkSystem(s.Discretization, r, globalTemps, solar, hFrontTotal, tFront, hBackTotal, tBack, cm.K, cm.Q); err != nil {
		return err
	}
	m := r.Len()
	for i := 0; i < m; i++ {
		mass := s.Discretization.Nodes[r.Start+i].Mass
		if mass <= 0 {
			return fmt.Errorf("stepMassiveChunk: node %d has non-positive mass %v", r.Start+i, mass)
		}
		cm.C.Set(i, i, mass)
		for j := 0; j < m; j++ {
			v, _ := cm.K.At(i, j)
			cm.K.Set(i, j, v*dt/mass)
		}
		qv, _ := cm.Q.At(i, 0)
		cm.Q.Set(i, 0, qv*dt/mass)
	}
	copy(cm.Temps.Data(), globalTemps[r.Start:r.End])

	deriv := func(dst, tprime *dmat.Matrix) error {
		if err := dmat.NDiagProductInto(dst, cm.K, tprime, 3); err != nil {
			return err
		}
		qd := cm.Q.Data()
		dd := dst.Data()
		for i := range dd {
			dd[i] += qd[i]
		}
		return nil
	}

	combine := func(dst, base, slope *dmat.Matrix, scale float64) {
		bd, sd, dd := base.Data(), slope.Data(), dst.Data()
		for i := range dd {
			dd[i] = bd[i] + sd[i]*scale
		}
	}

	if err := deriv(cm.K1, cm.Temps); err != nil {
		return err
	}
	combine(cm.Aux, cm.Temps, cm.K1, 0.5)
	if err := deriv(cm.K2, cm.Aux); err != nil {
		return err
	}
	combine(cm.Aux, cm.Temps, cm.K2, 0.5)
	if err := deriv(cm.K3, cm.Aux); err != nil {
		return err
	}
	combine(cm.Aux, cm.Temps, cm.K3, 1.0)
	if err := deriv(cm.K4, cm.Aux); err != nil {
		return err
	}

	td, k1, k2, k3, k4 := cm.Temps.Data(), cm.K1.Data(), cm.K2.Data(), cm.K3.Data(), cm.K4.Data()
	for i := range td {
		td[i] += (k1[i] + 2*k2[i] + 2*k3[i] + k4[i]) / 6
	}
	copy(globalTemps[r.Start:r.End], td)
	return nil
}

// ErrNomassNonConvergence is the warning value surfaced when a no-mass
// chunk's damped iteration exceeds its cap or its error strictly increases;
// the caller proceeds with the best-so-far temperatures.
var ErrNomassNonConvergence = fmt.Errorf("therm: no-mass chunk iteration did not converge, proceeding with last iterate")

func (s *Surface) stepNomassChunk(r ChunkRange, cm *ChunkMemory, globalTemps, solar []float64, hFrontTotal, tFront, hBackTotal, tBack float64) (error, error) {
	m := r.Len()
	tracker := NewConvergenceTracker()
	for {
		if err := buildChunkSystem(s.Discretization, r, globalTemps, solar, hFrontTotal, tFront, hBackTotal, tBack, cm.K, cm.Q); err != nil {
			return nil, err
		}
		qd := cm.Q.Data()
		for i := 0; i < m; i++ {
			qd[i] = -qd[i]
		}
		if err := dmat.SolveBanded(cm.K, cm.Q, cm.Aux, 3); err != nil {
			return nil, fmt.Errorf("stepNomassChunk: %w", err)
		}

		newT := cm.Aux.Data()
		avgErr := floats.Distance(globalTemps[r.Start:r.End], newT, 1) / float64(m)

		apply, stop, warn := tracker.Step(avgErr)
		if apply {
			for i := 0; i < m; i++ {
				gi := r.Start + i
				globalTemps[gi] = (globalTemps[gi] + newT[i]) / 2
			}
		}
		if stop {
			return warn, nil
		}
	}
}

// ConvergenceTracker implements the iteration-count-dependent tolerance and
// hard cap used by the no-mass solver's damped sweep, generalized so a
// caller driving many timesteps toward an annual periodic steady state can
// reuse the same termination rule against its own error metric.
type ConvergenceTracker struct {
	iter    int
	prevErr float64
}

// NewConvergenceTracker returns a tracker ready for its first Step call.
func NewConvergenceTracker() *ConvergenceTracker {
	return &ConvergenceTracker{prevErr: math.Inf(1)}
}

// Step records one iteration's average per-node L1 error and reports
// whether the caller should apply the damped update that produced it and
// whether the sweep should stop. An error that strictly increased over the
// previous iteration stops the sweep without applying that iteration's
// update; otherwise the update is applied and the sweep stops once the
// error falls under the iteration-dependent tolerance (0.01 for the first
// 100 iterations, 0.5 after), with a nil warn, or the hard cap of 19000
// iterations is hit. Hitting the cap and a strictly increasing error are
// both reported via warn (ErrNomassNonConvergence) as a non-fatal, "proceed
// with the best estimate" condition.
func (c *ConvergenceTracker) Step(avgErr float64) (apply, stop bool, warn error) {
	if avgErr > c.prevErr {
		return false, true, ErrNomassNonConvergence
	}
	c.prevErr = avgErr
	c.iter++
	threshold := 0.5
	if c.iter < 100 {
		threshold = 0.01
	}
	switch {
	case avgErr < threshold:
		return true, true, nil
	case c.iter >= 19000:
		return true, true, ErrNomassNonConvergence
	}
	return true, false, nil
}
