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

import "testing"

func TestSimulationStateDeclareAndGetSet(t *testing.T) {
	s := NewSimulationState()
	idx, err := s.Declare(StateElement{Kind: ElementNodeTemperature, Owner: "wall", NodeID: 0})
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if err := s.Set(idx, 21.5); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(idx)
	if err != nil {
		t.Fatal(err)
	}
	if got != 21.5 {
		t.Errorf("got %v, want 21.5", got)
	}
}

func TestSimulationStateDuplicateDeclareIsError(t *testing.T) {
	s := NewSimulationState()
	e := StateElement{Kind: ElementNodeTemperature, Owner: "wall", NodeID: 0}
	if _, err := s.Declare(e); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Declare(e); err == nil {
		t.Fatal("expected an error declaring a duplicate descriptor")
	}
}

func TestSimulationStateOutOfRangeIsError(t *testing.T) {
	s := NewSimulationState()
	if _, err := s.Get(0); err == nil {
		t.Fatal("expected an error reading an undeclared index")
	}
	if err := s.Set(0, 1); err == nil {
		t.Fatal("expected an error writing an undeclared index")
	}
	if _, err := s.Header(0); err == nil {
		t.Fatal("expected an error on Header of an undeclared index")
	}
}

func TestSimulationStateFind(t *testing.T) {
	s := NewSimulationState()
	e := StateElement{Kind: ElementSolarIrradiance, Owner: "roof", Role: "front", NodeID: -1}
	idx, err := s.Declare(e)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := s.Find(e)
	if !ok || got != idx {
		t.Errorf("Find = (%v,%v), want (%v,true)", got, ok, idx)
	}
	if _, ok := s.Find(StateElement{Kind: ElementSolarIrradiance, Owner: "roof", Role: "back", NodeID: -1}); ok {
		t.Error("Find should not match a different descriptor")
	}
}

func TestSimulationStateHeadersStableOrder(t *testing.T) {
	s := NewSimulationState()
	s.Declare(StateElement{Kind: ElementNodeTemperature, Owner: "wall", NodeID: 0})
	s.Declare(StateElement{Kind: ElementNodeTemperature, Owner: "wall", NodeID: 1})
	headers := s.Headers()
	want := []string{"wall:node_temp:0", "wall:node_temp:1"}
	for i, h := range headers {
		if h != want[i] {
			t.Errorf("header %d = %q, want %q", i, h, want[i])
		}
	}
}
