/*
Copyright © 2024 the dyncore authors.
This file is part of dyncore.

dyncore is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

dyncore is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with dyncore.  If not, see <http://www.gnu.org/licenses/>.
*/

package dyncore

import "fmt"

// ShapeError indicates that two or more arrays passed to an operator do not
// have compatible shapes (ring counts, spectral dimensions, or layer
// counts). It is a caller error: it is not recoverable and is always
// reported synchronously, from the call that detected it.
type ShapeError struct {
	Op   string
	Msg  string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("dyncore: %s: %s", e.Op, e.Msg)
}

func shapeErrorf(op, format string, args ...interface{}) error {
	return &ShapeError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// ConfigError indicates a problem detected while validating a model or
// spectral-grid configuration, before the first RHS evaluation: truncation/
// grid incompatibility, a missing orography file, or an inconsistent
// sigma-level partition.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dyncore: invalid configuration (%s): %s", e.Field, e.Msg)
}

func configErrorf(field, format string, args ...interface{}) error {
	return &ConfigError{Field: field, Msg: fmt.Sprintf(format, args...)}
}
