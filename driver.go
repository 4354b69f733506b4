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
	"io"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/spatialmodel/thermsim/dmat"
	"github.com/spatialmodel/thermsim/geo"
	"github.com/spatialmodel/thermsim/sky/perez"
	"github.com/spatialmodel/thermsim/sky/reinhart"
	"github.com/spatialmodel/thermsim/sun"
	"github.com/spatialmodel/thermsim/therm"
	"github.com/spatialmodel/thermsim/weather"
)

// AirFlowModel is the external air-flow collaborator (spec.md §1: "the
// air-flow model's infiltration empiricism ... expose[s] no novel algorithm"
// and is out of scope for this core). The driver calls it once per timestep,
// between the sky step and the thermal march, exactly where spec 4.H step 4
// places it.
type AirFlowModel interface {
	Step(state *SimulationState, weather weather.Record, date time.Time) error
}

// NoopAirFlow is an AirFlowModel that does nothing, for callers exercising
// the thermal/sky subsystems in isolation (e.g. the §8 scenario-seed tests,
// which drive ambient boundaries directly rather than through an air-flow
// solver).
type NoopAirFlow struct{}

// Step implements AirFlowModel.
func (NoopAirFlow) Step(*SimulationState, weather.Record, time.Time) error { return nil }

// SurfaceEntry binds one registered Surface's physics (therm.Surface), its
// geometry (for the sun-dot-normal solar projection), its two named
// boundaries, and the SimulationState slots the driver reads/writes for it
// every timestep.
type SurfaceEntry struct {
	Handle   SurfaceHandle
	Geometry *geo.Loop3D
	Front    Boundary
	Back     Boundary

	frontSolarIdx, backSolarIdx int
	nodeTempIdx                 []int
}

// Driver orchestrates one simulation: per spec 4.H, at each date it calls
// the controller, computes sun position, builds the Perez sky vector and
// projects it onto each surface, runs the (external) air-flow model, marches
// every thermal surface, and leaves the results in State for the caller to
// read or emit as output.
//
// Driver mirrors run.go's DomainManipulator pipeline: a fixed ordered
// sequence of steps, each mutating the one shared SimulationState, with the
// per-surface march step fanned out concurrently the way Calculations fans
// per-cell work out across runtime.GOMAXPROCS(0) workers.
type Driver struct {
	Model      *Model
	State      *SimulationState
	Site       sun.Site
	Sky        *reinhart.Sky
	Controller Controller
	AirFlow    AirFlowModel
	Log        io.Writer // progress/warning sink; nil is valid (discards)

	surfaces     []*SurfaceEntry
	spaceTempIdx map[SpaceHandle]int
	dt           float64 // seconds, the (possibly subdivided) march timestep
}

// NewDriver returns a Driver for model/state using a Reinhart sky of
// refinement mf, marching at timestep dtSeconds. site and controller may be
// zero-value/nil; a nil controller is treated as NoopController, and a nil
// airFlow is treated as NoopAirFlow.
func NewDriver(model *Model, state *SimulationState, site sun.Site, mf int, dtSeconds float64, controller Controller, airFlow AirFlowModel, log io.Writer) (*Driver, error) {
	sky, err := reinhart.New(mf)
	if err != nil {
		return nil, fmt.Errorf("thermsim: NewDriver: %w", err)
	}
	if controller == nil {
		controller = NoopController{}
	}
	if airFlow == nil {
		airFlow = NoopAirFlow{}
	}
	return &Driver{
		Model: model, State: state, Site: site, Sky: sky,
		Controller: controller, AirFlow: airFlow, Log: log, dt: dtSeconds,
		spaceTempIdx: make(map[SpaceHandle]int),
	}, nil
}

// RegisterSpace declares the SimulationState element holding space h's
// current air temperature (an ElementBoundaryTemperature, "air" role), so
// that surfaces whose boundary names this space can resolve it in
// resolveBoundary. The (external) air-flow/HVAC model is expected to write
// this slot each timestep; it starts at 0.
func (d *Driver) RegisterSpace(h SpaceHandle) (int, error) {
	sp, err := d.Model.Space(h)
	if err != nil {
		return 0, fmt.Errorf("thermsim: RegisterSpace: %w", err)
	}
	idx, err := d.State.Declare(StateElement{Kind: ElementBoundaryTemperature, EntityID: int(h), Owner: sp.Name, Role: "air", NodeID: -1})
	if err != nil {
		return 0, fmt.Errorf("thermsim: RegisterSpace: %w", err)
	}
	d.spaceTempIdx[h] = idx
	return idx, nil
}

func (d *Driver) logf(format string, args ...interface{}) {
	if d.Log == nil {
		return
	}
	fmt.Fprintf(d.Log, format+"\n", args...)
}

// RegisterSurface declares the SimulationState elements a registered
// Surface needs (front/back solar irradiance, one temperature per node) and
// returns the bookkeeping entry the driver's Step uses to find them again.
// Surfaces must be registered once, after every Model entity they reference
// has been added, and before the first Step call.
func (d *Driver) RegisterSurface(h SurfaceHandle, loop *geo.Loop3D, front, back Boundary) (*SurfaceEntry, error) {
	surf, err := d.Model.Surface(h)
	if err != nil {
		return nil, fmt.Errorf("thermsim: RegisterSurface: %w", err)
	}
	if !loop.Closed() {
		return nil, fmt.Errorf("thermsim: RegisterSurface: surface %q geometry loop must be closed", surf.Name)
	}

	entry := &SurfaceEntry{Handle: h, Geometry: loop, Front: front, Back: back}

	frontIdx, err := d.State.Declare(StateElement{Kind: ElementSolarIrradiance, EntityID: int(h), Owner: surf.Name, Role: "front", NodeID: -1})
	if err != nil {
		return nil, fmt.Errorf("thermsim: RegisterSurface: %w", err)
	}
	backIdx, err := d.State.Declare(StateElement{Kind: ElementSolarIrradiance, EntityID: int(h), Owner: surf.Name, Role: "back", NodeID: -1})
	if err != nil {
		return nil, fmt.Errorf("thermsim: RegisterSurface: %w", err)
	}
	entry.frontSolarIdx, entry.backSolarIdx = frontIdx, backIdx

	n := len(surf.Discretization.Nodes)
	entry.nodeTempIdx = make([]int, n)
	for i := 0; i < n; i++ {
		idx, err := d.State.Declare(StateElement{Kind: ElementNodeTemperature, EntityID: int(h), Owner: surf.Name, NodeID: i})
		if err != nil {
			return nil, fmt.Errorf("thermsim: RegisterSurface: %w", err)
		}
		entry.nodeTempIdx[i] = idx
	}

	d.surfaces = append(d.surfaces, entry)
	return entry, nil
}

// Step advances the simulation by one timestep ending at date, given the
// weather record in effect, following spec 4.H's fixed order: controller,
// sun position, sky vector + solar projection, air-flow, then the per-surface
// thermal march.
func (d *Driver) Step(date time.Time, rec weather.Record) error {
	if err := d.Controller.Control(d.State, date); err != nil {
		return fmt.Errorf("thermsim: Driver.Step: controller: %w", err)
	}

	sunDir, _, altitude := sun.Position(d.Site, date)

	skyVec, err := perez.Vector(d.Sky, perez.Parameters{
		SunDir:            sunDir,
		Date:              date,
		DirectNormal:      rec.DirectNormal,
		DiffuseHorizontal: rec.DiffuseHorizontal,
		DewPointC:         rec.DewPointC,
		Albedo:            0.2,
		Unit:              perez.Solar,
		AddSky:            true,
		AddSun:            altitude > 0,
	})
	if err != nil {
		return fmt.Errorf("thermsim: Driver.Step: sky vector: %w", err)
	}

	for _, entry := range d.surfaces {
		if err := d.projectSolar(entry, skyVec, sunDir, rec); err != nil {
			return fmt.Errorf("thermsim: Driver.Step: %w", err)
		}
	}

	if err := d.AirFlow.Step(d.State, rec, date); err != nil {
		return fmt.Errorf("thermsim: Driver.Step: air-flow: %w", err)
	}

	return d.marchSurfaces(rec)
}

// projectSolar accumulates the incident diffuse-plus-sun flux on one
// surface's front and back faces: each sky patch's radiance times the
// patch's solid angle times the cosine of incidence on the face (clamped to
// non-negative, since a patch behind the surface contributes nothing),
// following spec 4.H step 3. The front face looks along the geometry loop's
// outward normal; the back face looks along its reverse.
func (d *Driver) projectSolar(entry *SurfaceEntry, skyVec *dmat.Matrix, sunDir [3]float64, rec weather.Record) error {
	n := entry.Geometry.Normal()
	normal := [3]float64{n.X, n.Y, n.Z}

	frontFlux, err := integrateIncidentFlux(d.Sky, skyVec, normal)
	if err != nil {
		return fmt.Errorf("projectSolar: front: %w", err)
	}
	backFlux, err := integrateIncidentFlux(d.Sky, skyVec, [3]float64{-normal[0], -normal[1], -normal[2]})
	if err != nil {
		return fmt.Errorf("projectSolar: back: %w", err)
	}
	if err := d.State.Set(entry.frontSolarIdx, frontFlux); err != nil {
		return err
	}
	return d.State.Set(entry.backSolarIdx, backFlux)
}

// integrateIncidentFlux sums radiance[i]*solidAngle[i]*max(0, dir[i]·normal)
// over every sky patch (including the ground and cap bins), the broadband
// irradiance a flat unit-area surface facing normal receives from the given
// discretized sky.
func integrateIncidentFlux(sky *reinhart.Sky, skyVec *dmat.Matrix, normal [3]float64) (float64, error) {
	var total float64
	for i := 0; i < sky.NumBins(); i++ {
		radiance, err := skyVec.At(i, 0)
		if err != nil {
			return 0, err
		}
		if radiance <= 0 {
			continue
		}
		x, y, z, err := sky.BinDir(i)
		if err != nil {
			return 0, err
		}
		cosIncidence := x*normal[0] + y*normal[1] + z*normal[2]
		if cosIncidence <= 0 {
			continue
		}
		sa, err := sky.BinSolidAngle(i)
		if err != nil {
			return 0, err
		}
		total += radiance * sa * cosIncidence
	}
	return total, nil
}

// marchSurfaces runs every registered surface's therm.Surface.March with the
// boundary conditions resolved from the current SimulationState, fanned out
// across runtime.GOMAXPROCS(0) workers the way run.go's Calculations
// distributes per-cell work: surfaces are independent given the snapshot of
// space temperatures at the start of the timestep (§5).
func (d *Driver) marchSurfaces(rec weather.Record) error {
	nprocs := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	errs := make([]error, len(d.surfaces))

	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			for ii := pp; ii < len(d.surfaces); ii += nprocs {
				errs[ii] = d.marchOne(d.surfaces[ii], rec)
			}
		}(pp)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("thermsim: Driver.Step: surface %d: %w", i, err)
		}
	}
	return nil
}

func (d *Driver) marchOne(entry *SurfaceEntry, rec weather.Record) error {
	surf, err := d.Model.Surface(entry.Handle)
	if err != nil {
		return err
	}

	frontIn, err := d.resolveBoundary(entry.Front, rec)
	if err != nil {
		return err
	}
	backIn, err := d.resolveBoundary(entry.Back, rec)
	if err != nil {
		return err
	}
	frontSolar, err := d.State.Get(entry.frontSolarIdx)
	if err != nil {
		return err
	}
	backSolar, err := d.State.Get(entry.backSolarIdx)
	if err != nil {
		return err
	}
	frontIn.SolarIrradiance = frontSolar
	backIn.SolarIrradiance = backSolar
	frontIn.WindSpeed, backIn.WindSpeed = rec.WindSpeed, rec.WindSpeed
	// Wind direction is given as a compass bearing (radians, 0=north,
	// +east); the horizontal wind unit vector is (sin, cos) in the same
	// (+X east, +Y north) frame the surface normal uses.
	windX, windY := math.Sin(rec.WindDirection), math.Cos(rec.WindDirection)
	n := entry.Geometry.Normal()
	windDirHorizDot := n.X*windX + n.Y*windY
	frontIn.WindDirHorizDot = windDirHorizDot
	backIn.WindDirHorizDot = -windDirHorizDot

	result, err := surf.March(d.dt, frontIn, backIn)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		d.logf("thermsim: surface %q: %v", surf.Name, w)
	}

	temps := surf.Memory.NodeTemps.Data()
	for i, idx := range entry.nodeTempIdx {
		if err := d.State.Set(idx, temps[i]); err != nil {
			return err
		}
	}
	return nil
}

// resolveBoundary converts a model Boundary plus the current weather record
// into the therm.BoundaryInputs the solver needs: ambient temperature (from
// the space's SimulationState air-temperature slot, the ambient time series,
// or a fixed value, per Boundary.ResolveAmbient) and an effective sky
// temperature for the linearized radiative coefficient (the outdoor
// dry-bulb, absent a separate IR-irradiance state entry).
func (d *Driver) resolveBoundary(b Boundary, rec weather.Record) (therm.BoundaryInputs, error) {
	var spaceTemp float64
	if b.Kind == BoundarySpace {
		idx, ok := d.spaceTempIdx[b.Space]
		if ok {
			t, err := d.State.Get(idx)
			if err != nil {
				return therm.BoundaryInputs{}, err
			}
			spaceTemp = t
		}
	}
	ambient, err := b.ResolveAmbient(spaceTemp, rec.DryBulbC)
	if err != nil {
		return therm.BoundaryInputs{}, err
	}
	return therm.BoundaryInputs{
		Kind:        b.therm(),
		AmbientTemp: ambient,
		SkyTemp:     rec.DryBulbC,
	}, nil
}
