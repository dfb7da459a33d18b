// seehuhn.de/go/contour - iso-contours of gridded data
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package contour

import (
	"errors"
	"fmt"
)

// ErrConfig is wrapped by all configuration errors.  Use errors.Is to
// test for it.
var ErrConfig = errors.New("invalid configuration")

// ConfigError reports an invalid input parameter.  The generator is left
// unchanged when a ConfigError is returned.
type ConfigError struct {
	Param string // name of the offending parameter
	Msg   string // the violated constraint
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("contour: %s: %s", e.Param, e.Msg)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

func configErrorf(param, format string, args ...any) error {
	return &ConfigError{Param: param, Msg: fmt.Sprintf(format, args...)}
}

// InternalError reports a broken invariant inside the contour tracer.
// This indicates a bug, not a problem with the input data.
type InternalError struct {
	Op   string // "lines" or "filled"
	Msg  string
	Dump string // state of the classifier cache at the time of the fault
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("contour: internal error in %s: %s", e.Op, e.Msg)
}

// fault is the panic value used inside the tracer.
type fault struct {
	msg string
}

// faultf aborts the current query.  The panic is recovered by the
// generator and turned into an *InternalError.
func faultf(format string, args ...any) {
	panic(fault{msg: fmt.Sprintf(format, args...)})
}

func (f fault) Error() string {
	return f.msg
}

// catch runs fn and converts a panic inside fn into an error.
func catch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(fault); ok {
				err = f
			} else {
				err = fault{msg: fmt.Sprint(r)}
			}
		}
	}()
	fn()
	return nil
}
