/*
 * parse.go, part of goreport.
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
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/rmera/goreport/internal/logging"
)

//FormatVersion is the version of the report grammar this package reads and writes.
const FormatVersion = 1

//DefaultFields is the field declaration assumed when a report has none.
var DefaultFields = []string{"step", "time", "energy"}

const (
	stepField = "step"
	timeField = "time"
)

type parseConfig struct {
	fields   []string
	defaults []string
	comment  string
	strict   bool
	logger   *slog.Logger
}

//ParseOption changes the way Parse reads a report.
type ParseOption func(*parseConfig)

//WithFields sets the field declaration, overriding whatever the report declares.
func WithFields(names ...string) ParseOption {
	return func(c *parseConfig) { c.fields = append([]string(nil), names...) }
}

//WithDefaultFields sets the field declaration assumed for reports that do not
//declare one (DefaultFields otherwise).
func WithDefaultFields(names ...string) ParseOption {
	return func(c *parseConfig) {
		if len(names) > 0 {
			c.defaults = append([]string(nil), names...)
		}
	}
}

//WithCommentPrefix sets the comment marker (default "#"). The declaration and version
//lines are the marker followed by "!" and "%", respectively.
func WithCommentPrefix(p string) ParseOption {
	return func(c *parseConfig) {
		if p != "" {
			c.comment = p
		}
	}
}

//WithStrictColumns makes lines with more columns than declared fields an error.
func WithStrictColumns() ParseOption {
	return func(c *parseConfig) { c.strict = true }
}

//WithLogger sets a logger for debug output. By default nothing is logged.
func WithLogger(l *slog.Logger) ParseOption {
	return func(c *parseConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

//layout holds a validated field declaration.
type layout struct {
	fields  []string
	timeCol int      //-1 if absent
	obsCols []int    //columns holding observables
	names   []string //names of the observables, shared by all records
}

func newLayout(fields []string) (*layout, error) {
	if len(fields) == 0 || fields[0] != stepField {
		return nil, fmt.Errorf("the first declared field must be %q, got %v", stepField, fields)
	}
	L := &layout{fields: fields, timeCol: -1}
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if seen[f] {
			return nil, fmt.Errorf("field %q declared twice", f)
		}
		seen[f] = true
		switch {
		case i == 0:
		case f == timeField:
			L.timeCol = i
		default:
			L.obsCols = append(L.obsCols, i)
			L.names = append(L.names, f)
		}
	}
	return L, nil
}

//Parse reads a report from r and returns its steps as a Series. source names the
//input in errors (normally the file name). The grammar is described in the package
//documentation.
func Parse(r io.Reader, source string, opts ...ParseOption) (*Series, error) {
	c := &parseConfig{comment: "#", logger: logging.Discard()}
	for _, o := range opts {
		o(c)
	}
	declare := c.comment + "!"
	version := c.comment + "%"
	fixed := c.fields != nil
	fields := DefaultFields
	if c.defaults != nil {
		fields = c.defaults
	}
	if fixed {
		fields = c.fields
	}
	L, err := newLayout(fields)
	if err != nil {
		return nil, newError(ErrMalformedRecord, source, 0, "Parse", "%s", err.Error())
	}
	S := &Series{source: source}
	var prev *StepRecord
	var declared, hasLastTime bool
	var lastT float64
	buf := bufio.NewReader(r)
	for lineno := 1; ; lineno++ {
		str, rerr := buf.ReadString('\n')
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return nil, fmt.Errorf("reading %s: %w", source, rerr)
		}
		if rerr != nil && str == "" {
			break
		}
		line := strings.TrimSpace(str)
		switch {
		case line == "":
		case strings.HasPrefix(line, version):
			if err := checkVersion(strings.TrimPrefix(line, version)); err != nil {
				return nil, newError(ErrMalformedRecord, source, lineno, "Parse", "%s", err.Error())
			}
		case strings.HasPrefix(line, declare):
			if fixed {
				c.logger.Debug("ignoring field declaration", "source", source, "line", lineno)
				break
			}
			if prev != nil {
				return nil, newError(ErrMalformedRecord, source, lineno, "Parse", "field declaration after the first step")
			}
			if declared {
				return nil, newError(ErrMalformedRecord, source, lineno, "Parse", "second field declaration")
			}
			declared = true
			L, err = newLayout(strings.Fields(strings.TrimPrefix(line, declare)))
			if err != nil {
				return nil, newError(ErrMalformedRecord, source, lineno, "Parse", "%s", err.Error())
			}
		case strings.HasPrefix(line, c.comment):
		default:
			rec, err := L.parseLine(line, lineno, c.strict)
			if err != nil {
				err.filename = source
				return nil, err
			}
			if prev != nil && rec.step <= prev.step {
				return nil, newError(ErrNonMonotonicStep, source, lineno, "Parse", "step %d follows step %d", rec.step, prev.step)
			}
			if rec.hasTime {
				if hasLastTime && rec.time < lastT {
					return nil, newError(ErrNonMonotonicStep, source, lineno, "Parse", "time %g at step %d follows time %g", rec.time, rec.step, lastT)
				}
				lastT, hasLastTime = rec.time, true
			}
			S.records = append(S.records, rec)
			prev = &S.records[len(S.records)-1]
		}
		if rerr != nil {
			break
		}
	}
	if len(S.records) == 0 {
		return nil, newError(ErrEmptyInput, source, 0, "Parse", "no step records found")
	}
	c.logger.Debug("parsed report", "source", source, "records", len(S.records), "fields", L.fields)
	return S, nil
}

func checkVersion(s string) error {
	f := strings.Fields(s)
	if len(f) != 2 || f[0] != "goreport-format" {
		return fmt.Errorf("bad version line %q", s)
	}
	v, err := strconv.Atoi(f[1])
	if err != nil || v != FormatVersion {
		return fmt.Errorf("unsupported format version %q (want %d)", f[1], FormatVersion)
	}
	return nil
}

//parseLine reads one step line according to the layout.
func (L *layout) parseLine(line string, lineno int, strict bool) (StepRecord, *Error) {
	cols := strings.Fields(line)
	if len(cols) < len(L.fields) {
		return StepRecord{}, newError(ErrMalformedRecord, "", lineno, "parseLine", "expected %d fields %v, found %d", len(L.fields), L.fields, len(cols))
	}
	if strict && len(cols) > len(L.fields) {
		return StepRecord{}, newError(ErrMalformedRecord, "", lineno, "parseLine", "expected %d fields %v, found %d", len(L.fields), L.fields, len(cols))
	}
	step, err := strconv.Atoi(cols[0])
	if err != nil {
		return StepRecord{}, newError(ErrMalformedRecord, "", lineno, "parseLine", "step %q is not an integer", cols[0])
	}
	R := StepRecord{step: step, line: lineno, names: L.names, values: make([]float64, len(L.obsCols))}
	if L.timeCol > 0 {
		R.time, err = parseNumber(cols[L.timeCol])
		if err != nil {
			return StepRecord{}, newError(ErrMalformedRecord, "", lineno, "parseLine", "field %q: %s", timeField, err.Error())
		}
		R.hasTime = true
	}
	for i, col := range L.obsCols {
		R.values[i], err = parseNumber(cols[col])
		if err != nil {
			return StepRecord{}, newError(ErrMalformedRecord, "", lineno, "parseLine", "field %q: %s", L.fields[col], err.Error())
		}
	}
	return R, nil
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

//ParseFile opens the file at path (decompressing it if needed, see Open) and parses it.
//The file is closed before returning.
func ParseFile(path string, opts ...ParseOption) (*Series, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	S, err := Parse(f, path, opts...)
	if err != nil {
		return nil, errDecorate(err, "ParseFile")
	}
	return S, nil
}

//ParseFiles parses each file in order. If one fails, it returns the series parsed
//until then, and the error.
func ParseFiles(paths []string, opts ...ParseOption) ([]*Series, error) {
	ret := make([]*Series, 0, len(paths))
	for _, p := range paths {
		S, err := ParseFile(p, opts...)
		if err != nil {
			return ret, errDecorate(err, "ParseFiles")
		}
		ret = append(ret, S)
	}
	return ret, nil
}
