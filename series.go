/*
 * series.go, part of goreport.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

//Series is an ordered sequence of StepRecords, normally the content of one input file.
//Step indices are strictly increasing and, for records that carry it, time does not
//decrease. A Series can only be built through NewSeries, the parsers, or Merge, so
//it is final once built.
type Series struct {
	source  string
	records []StepRecord
}

//NewSeries checks the ordering of records and returns a Series owning a copy of them.
func NewSeries(source string, records []StepRecord) (*Series, error) {
	if err := checkOrder(source, records); err != nil {
		return nil, errDecorate(err, "NewSeries")
	}
	return &Series{source: source, records: append([]StepRecord(nil), records...)}, nil
}

//checkOrder returns an ErrNonMonotonicStep error pointing at the first record out of order.
//Times are compared with the last record that had one, so records without a time
//in between do not hide a jump backwards.
func checkOrder(source string, records []StepRecord) error {
	var last StepRecord
	var hasLast bool
	for i, cur := range records {
		if i > 0 && cur.step <= records[i-1].step {
			return newError(ErrNonMonotonicStep, source, cur.line, "checkOrder", "step %d follows step %d", cur.step, records[i-1].step)
		}
		ct, ok := cur.Time()
		if !ok {
			continue
		}
		if lt, _ := last.Time(); hasLast && ct < lt {
			return newError(ErrNonMonotonicStep, source, cur.line, "checkOrder", "time %g at step %d follows time %g at step %d", ct, cur.step, lt, last.step)
		}
		last, hasLast = cur, true
	}
	return nil
}

//lastTime returns the time of the last record that has one.
func lastTime(records []StepRecord) (float64, bool) {
	for i := len(records) - 1; i >= 0; i-- {
		if t, ok := records[i].Time(); ok {
			return t, true
		}
	}
	return 0, false
}

//firstTime returns the time of the first record that has one.
func firstTime(records []StepRecord) (float64, bool) {
	for _, r := range records {
		if t, ok := r.Time(); ok {
			return t, true
		}
	}
	return 0, false
}

//Len returns the number of records. It is safe to call on a nil Series.
func (S *Series) Len() int {
	if S == nil {
		return 0
	}
	return len(S.records)
}

//Source returns the name of the input the series was read from.
func (S *Series) Source() string { return S.source }

//Record returns the ith record. It panics if i is out of range.
func (S *Series) Record(i int) StepRecord { return S.records[i] }

//Records returns a copy of the records.
func (S *Series) Records() []StepRecord {
	return append([]StepRecord(nil), S.records...)
}

//Names returns the observable names present in the series, in order of first appearance.
func (S *Series) Names() []string {
	var ret []string
	seen := make(map[string]bool)
	for _, r := range S.records {
		for _, n := range r.names {
			if !seen[n] {
				seen[n] = true
				ret = append(ret, n)
			}
		}
	}
	return ret
}

//Has returns true if at least one record has the named observable.
func (S *Series) Has(name string) bool {
	for _, r := range S.records {
		if r.Has(name) {
			return true
		}
	}
	return false
}

//Column returns the values of the named observable and the indexes of the records they come
//from. Records without the observable are skipped.
func (S *Series) Column(name string) ([]float64, []int) {
	var vals []float64
	var idx []int
	for i, r := range S.records {
		if v, ok := r.Value(name); ok {
			vals = append(vals, v)
			idx = append(idx, i)
		}
	}
	return vals, idx
}

//Steps returns the step indices.
func (S *Series) Steps() []int {
	ret := make([]int, len(S.records))
	for i, r := range S.records {
		ret[i] = r.step
	}
	return ret
}

//Times returns the simulation times, and false if any record lacks one.
func (S *Series) Times() ([]float64, bool) {
	ret := make([]float64, len(S.records))
	for i, r := range S.records {
		t, ok := r.Time()
		if !ok {
			return nil, false
		}
		ret[i] = t
	}
	return ret, true
}

//Dense returns a matrix with one row per record. The first column is the
//step index, the following ones the requested observables (all of them, if none
//is given), with NaN where a record lacks the observable.
func (S *Series) Dense(names ...string) *mat.Dense {
	if len(names) == 0 {
		names = S.Names()
	}
	if len(S.records) == 0 {
		return nil
	}
	D := mat.NewDense(len(S.records), len(names)+1, nil)
	for i, r := range S.records {
		D.Set(i, 0, float64(r.step))
		for j, n := range names {
			v, ok := r.Value(n)
			if !ok {
				v = math.NaN()
			}
			D.Set(i, j+1, v)
		}
	}
	return D
}
