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
	"math"
	"testing"
	"time"

	"github.com/spatialmodel/thermsim/geo"
	"github.com/spatialmodel/thermsim/sun"
	"github.com/spatialmodel/thermsim/therm"
	"github.com/spatialmodel/thermsim/weather"
)

// squarePanel returns a closed 2x2 m loop in the z=0 plane, facing +Z, per
// spec.md §8 scenario 3/4 ("a 20mm brickwork panel, 2x2 m² at z=0").
func squarePanel(t *testing.T) *geo.Loop3D {
	t.Helper()
	pts := []geo.Point3D{
		{X: -1, Y: -1, Z: 0},
		{X: 1, Y: -1, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: -1, Y: 1, Z: 0},
	}
	l, err := geo.NewFromPoints(pts)
	if err != nil {
		t.Fatalf("NewFromPoints: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return l
}

func brickworkConstruction(t *testing.T) *therm.Construction {
	t.Helper()
	brick := &therm.Substance{
		Name: "brickwork", Kind: therm.SubstanceNormal,
		Conductivity: 0.816, Density: 1700, SpecificHeat: 800,
		FrontAbsorptance: 0.6, BackAbsorptance: 0.6,
	}
	return &therm.Construction{
		Name:   "brickwork-panel",
		Layers: []therm.Material{{Substance: brick, Thickness: 0.020}},
	}
}

// buildPanelSurface discretizes cons and returns a therm.Surface with
// uniform absorption shares, wired with its own SurfaceMemory, wrapped in a
// Model and registered against a fresh Driver whose Site/Sky/Controller are
// irrelevant to a directly-marched steady-state test (both boundaries are
// Outdoor, never Space).
func buildPanelSurface(t *testing.T, dtUser float64) (*Driver, *SurfaceEntry) {
	t.Helper()
	cons := brickworkConstruction(t)
	disc, err := therm.Discretize(cons, dtUser, 0.01, 0.01)
	if err != nil {
		t.Fatalf("Discretize: %v", err)
	}
	mem, err := therm.NewSurfaceMemory(disc)
	if err != nil {
		t.Fatalf("NewSurfaceMemory: %v", err)
	}
	n := len(disc.Nodes)
	shares := make([]float64, n)
	solverSurf := &therm.Surface{
		Name: "panel", Discretization: disc, Memory: mem,
		Area: 4, Perimeter: 8, CosTilt: 1,
		FrontEmissivity: 0.9, BackEmissivity: 0.9,
		FrontAbsorptionShare: shares, BackAbsorptionShare: append([]float64(nil), shares...),
		FrontRoughness: therm.MediumRough, BackRoughness: therm.MediumRough,
	}

	model := NewModel()
	h := model.AddSurface(solverSurf)

	state := NewSimulationState()
	site := sun.Site{LatitudeRad: -41.41 * math.Pi / 180, LongitudeRad: -174.87 * math.Pi / 180}
	drv, err := NewDriver(model, state, site, 1, dtUser, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	loop := squarePanel(t)
	entry, err := drv.RegisterSurface(h, loop, Boundary{Kind: BoundaryOutdoor}, Boundary{Kind: BoundaryOutdoor})
	if err != nil {
		t.Fatalf("RegisterSurface: %v", err)
	}
	return drv, entry
}

// stepDirect bypasses Driver.Step's sun/sky/air-flow pipeline (irrelevant to
// a pure steady-state boundary-condition test) and marches the surface
// directly against the given ambient temperatures and IR sky temperature.
func stepDirect(t *testing.T, drv *Driver, entry *SurfaceEntry, tFront, tBack, dt float64) *therm.MarchResult {
	t.Helper()
	surf, err := drv.Model.Surface(entry.Handle)
	if err != nil {
		t.Fatalf("Surface: %v", err)
	}
	front := therm.BoundaryInputs{Kind: therm.Outdoor, AmbientTemp: tFront, SkyTemp: tFront}
	back := therm.BoundaryInputs{Kind: therm.Outdoor, AmbientTemp: tBack, SkyTemp: tBack}
	res, err := surf.March(dt, front, back)
	if err != nil {
		t.Fatalf("March: %v", err)
	}
	return res
}

func TestDriverBrickworkSteadyEqualTemperatures(t *testing.T) {
	const dt = 60.0
	drv, entry := buildPanelSurface(t, dt)
	surf, _ := drv.Model.Surface(entry.Handle)

	var res *therm.MarchResult
	for i := 0; i < 2000; i++ {
		res = stepDirect(t, drv, entry, 10, 10, dt)
	}
	for i, temp := range surf.Memory.NodeTemps.Data() {
		if math.Abs(temp-10) > 0.002 {
			t.Errorf("node %d: temperature %.5f not within 0.002 of 10", i, temp)
		}
	}
	if math.Abs(res.FrontFlow-res.BackFlow) > 0.5 {
		t.Errorf("|front-back| flow = %.4f, want < 0.5", math.Abs(res.FrontFlow-res.BackFlow))
	}
}

func TestDriverBrickworkAsymmetric(t *testing.T) {
	const dt = 60.0
	drv, entry := buildPanelSurface(t, dt)

	var res *therm.MarchResult
	for i := 0; i < 3000; i++ {
		res = stepDirect(t, drv, entry, 10, 30, dt)
	}
	// Front faces the cold side (10C): heat should flow out of the front
	// face (i.e. ambient-minus-surface is negative, flow <= ~0); the back
	// faces the warm side (30C), so the back flow should be >= ~0.
	if res.FrontFlow > 1e-3 {
		t.Errorf("front flow = %.5f, want <= ~0 (heat flowing out to the cold side)", res.FrontFlow)
	}
	if res.BackFlow < -1e-3 {
		t.Errorf("back flow = %.5f, want >= ~0 (heat flowing in from the warm side)", res.BackFlow)
	}
}

func TestDriverRegisterSurfaceDeclaresStateElements(t *testing.T) {
	drv, entry := buildPanelSurface(t, 60)
	if drv.State.Len() == 0 {
		t.Fatal("expected RegisterSurface to declare state elements")
	}
	if _, err := drv.State.Header(entry.frontSolarIdx); err != nil {
		t.Fatalf("Header(frontSolarIdx): %v", err)
	}
	if len(entry.nodeTempIdx) == 0 {
		t.Fatal("expected at least one node temperature element")
	}
}

func TestDriverStepRunsFullPipeline(t *testing.T) {
	drv, _ := buildPanelSurface(t, 60)
	rec := weather.Record{
		Date: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		DirectNormal: 500, DiffuseHorizontal: 100, DryBulbC: 20, DewPointC: 10,
	}
	if err := drv.Step(rec.Date, rec); err != nil {
		t.Fatalf("Step: %v", err)
	}
}

func TestBoundaryGroundUnreachable(t *testing.T) {
	b := Boundary{Kind: BoundaryGround}
	if _, err := b.ResolveAmbient(0, 0); err == nil {
		t.Fatal("expected an error resolving a Ground boundary")
	}
}
