/*
 * record.go, part of goreport.
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

import "fmt"

//StepRecord is one simulation step: its index, optionally its simulation time,
//and a set of named numeric observables. A StepRecord is immutable: the
//constructor copies its input and no method changes it.
type StepRecord struct {
	step    int
	time    float64
	hasTime bool
	line    int
	names   []string //shared between records of one parse, never handed out.
	values  []float64
}

//RecordOption sets optional properties of a StepRecord on construction.
type RecordOption func(*StepRecord)

//AtTime sets the simulation time of the record.
func AtTime(t float64) RecordOption {
	return func(R *StepRecord) {
		R.time = t
		R.hasTime = true
	}
}

//AtLine records the source line the record was read from.
func AtLine(line int) RecordOption {
	return func(R *StepRecord) { R.line = line }
}

//NewStepRecord returns a record for the given step, with the observables named in
//names taking the corresponding values. Both slices are copied.
func NewStepRecord(step int, names []string, values []float64, opts ...RecordOption) (StepRecord, error) {
	R := StepRecord{step: step}
	for _, o := range opts {
		o(&R)
	}
	if len(names) != len(values) {
		return StepRecord{}, newError(ErrMalformedRecord, "", R.line, "NewStepRecord", "%d names given for %d values", len(names), len(values))
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			return StepRecord{}, newError(ErrMalformedRecord, "", R.line, "NewStepRecord", "empty or repeated observable name %q", n)
		}
		seen[n] = true
	}
	R.names = append([]string(nil), names...)
	R.values = append([]float64(nil), values...)
	return R, nil
}

//Step returns the step index.
func (R StepRecord) Step() int { return R.step }

//Time returns the simulation time and whether the record carries one.
func (R StepRecord) Time() (float64, bool) { return R.time, R.hasTime }

//Line returns the line of the source the record came from, or 0.
func (R StepRecord) Line() int { return R.line }

//Value returns the value of the named observable, and false if the record does not have it.
func (R StepRecord) Value(name string) (float64, bool) {
	for i, n := range R.names {
		if n == name {
			return R.values[i], true
		}
	}
	return 0, false
}

//Has returns true if the record has the named observable.
func (R StepRecord) Has(name string) bool {
	_, ok := R.Value(name)
	return ok
}

//Names returns a copy of the observable names, in record order.
func (R StepRecord) Names() []string {
	return append([]string(nil), R.names...)
}

//NumObservables returns the number of observables in the record.
func (R StepRecord) NumObservables() int { return len(R.names) }

func (R StepRecord) String() string {
	s := fmt.Sprintf("step %d", R.step)
	if R.hasTime {
		s += fmt.Sprintf(" t=%g", R.time)
	}
	for i, n := range R.names {
		s += fmt.Sprintf(" %s=%g", n, R.values[i])
	}
	return s
}

//shifted returns a copy of the record with step and time moved by the given offsets.
//The observables are shared, which is fine since they are never modified.
func (R StepRecord) shifted(dstep int, dtime float64) StepRecord {
	R.step += dstep
	if R.hasTime {
		R.time += dtime
	}
	return R
}
