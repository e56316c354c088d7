/*
 * errors.go, part of goreport.
 *
 * Copyright 2026 the goreport authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package report

import (
	"errors"
	"fmt"
)

// The kinds of failure a report can produce. Every Error returned by this
// library unwraps to one of them, so callers can use errors.Is.
var (
	ErrMalformedRecord   = errors.New("malformed record")
	ErrNonMonotonicStep  = errors.New("non-monotonic step")
	ErrUnknownObservable = errors.New("unknown observable")
	ErrEmptyInput        = errors.New("empty input")
)

//Error is the general structure for goreport errors. It fulfills Decorated and FileError.
type Error struct {
	kind     error
	message  string
	filename string //the input file that has problems, or empty string if none.
	line     int    //1-based, 0 if unknown
	deco     []string
	critical bool
}

//NewError returns an error of the given kind, tied to filename and line (line can be 0).
func NewError(kind error, filename string, line int, message string) *Error {
	return &Error{kind: kind, message: message, filename: filename, line: line, critical: true}
}

func newError(kind error, filename string, line int, caller, format string, args ...interface{}) *Error {
	E := NewError(kind, filename, line, fmt.Sprintf(format, args...))
	E.deco = []string{caller}
	return E
}

func (E *Error) Error() string {
	loc := E.filename
	if E.line > 0 {
		loc = fmt.Sprintf("%s:%d", E.filename, E.line)
	}
	if loc == "" {
		return fmt.Sprintf("%v: %s", E.kind, E.message)
	}
	return fmt.Sprintf("%s: %v: %s", loc, E.kind, E.message)
}

//Unwrap returns the kind of the error.
func (E *Error) Unwrap() error { return E.kind }

//Decorate adds the name of a calling function (plus, optionally, extra info in the
//form "Function: info") to the error, and returns the current decoration.
//An empty string just returns the decoration.
func (E *Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//FileName returns the file the error is associated with.
func (E *Error) FileName() string { return E.filename }

//Line returns the 1-based line in FileName where the problem was found, or 0.
func (E *Error) Line() int { return E.line }

//Critical returns true if the error is critical, false otherwise
func (E *Error) Critical() bool { return E.critical }

//Message returns the error message, without kind or location.
func (E *Error) Message() string { return E.message }

//errDecorate decorates err with caller if it is one of ours, and returns it.
func errDecorate(err error, caller string) error {
	var E *Error
	if errors.As(err, &E) {
		E.Decorate(caller)
	}
	return err
}
