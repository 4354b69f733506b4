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

import "time"

// Controller is the runtime-scripted control routine: once per timestep it
// reads and writes SimulationState entries by descriptor (HVAC setpoints,
// fenestration open fractions, luminaire power). Whether the scripting host
// is an embedded interpreter, an FFI callback, or a plain library call is
// outside this core; Driver only needs this interface (Design Note
// "runtime-scripted control").
type Controller interface {
	Control(state *SimulationState, date time.Time) error
}

// NoopController is a Controller that leaves the state untouched, useful
// for research-mode API callers that drive the state entirely externally
// between Driver.Step calls.
type NoopController struct{}

// Control implements Controller.
func (NoopController) Control(*SimulationState, time.Time) error { return nil }
