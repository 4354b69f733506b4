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
	"testing"

	"github.com/spatialmodel/thermsim/therm"
)

func TestModelAddAndResolveSubstance(t *testing.T) {
	m := NewModel()
	h, err := m.AddSubstance(&therm.Substance{Name: "brick"})
	if err != nil {
		t.Fatal(err)
	}
	sub, err := m.Substance(h)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Name != "brick" {
		t.Errorf("got %q, want %q", sub.Name, "brick")
	}
	got, err := m.GetSubstance("brick")
	if err != nil {
		t.Fatal(err)
	}
	if got != h {
		t.Errorf("GetSubstance handle = %v, want %v", got, h)
	}
}

func TestModelAddSubstanceDuplicateNameIsError(t *testing.T) {
	m := NewModel()
	if _, err := m.AddSubstance(&therm.Substance{Name: "brick"}); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddSubstance(&therm.Substance{Name: "brick"}); err == nil {
		t.Fatal("expected an error registering a duplicate substance name")
	}
}

func TestModelSubstanceOutOfRangeHandleIsError(t *testing.T) {
	m := NewModel()
	if _, err := m.Substance(SubstanceHandle(0)); err == nil {
		t.Fatal("expected an error resolving a handle into an empty arena")
	}
}

func TestModelSpaceRoundTrip(t *testing.T) {
	m := NewModel()
	h, err := m.AddSpace(&Space{Name: "living-room", Volume: 60})
	if err != nil {
		t.Fatal(err)
	}
	sp, err := m.Space(h)
	if err != nil {
		t.Fatal(err)
	}
	if sp.Volume != 60 {
		t.Errorf("got volume %v, want 60", sp.Volume)
	}
}

func TestModelSurfacesOrder(t *testing.T) {
	m := NewModel()
	h1 := m.AddSurface(&therm.Surface{Name: "wall-1"})
	h2 := m.AddSurface(&therm.Surface{Name: "wall-2"})
	handles := m.Surfaces()
	if len(handles) != 2 || handles[0] != h1 || handles[1] != h2 {
		t.Errorf("got %v, want [%v %v] in registration order", handles, h1, h2)
	}
}
