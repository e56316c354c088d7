/*
 * aggregate.go, part of goreport.
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
	"encoding/json"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

//Axis names for AggregateResult.Axis
const (
	AxisTime = "time"
	AxisStep = "step"
)

//AggregateResult summarizes one observable over a Series. It is a value, computed
//on demand by Aggregate, and never modified afterwards.
type AggregateResult struct {
	Source     string
	Observable string
	Axis       string  //the integration variable, AxisTime or AxisStep
	N          int     //records that had the observable
	Mean       float64 //arithmetic mean
	StdDev     float64 //population standard deviation
	Min        float64
	Max        float64
	Integral   float64 //trapezoidal integral over Axis, NaN if N<2
	From       float64 //first value of the axis
	To         float64 //last value of the axis
}

//MarshalJSON writes the result with lowercase keys. NaN values are written as null.
func (A AggregateResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Source     string   `json:"source"`
		Observable string   `json:"observable"`
		Axis       string   `json:"axis"`
		N          int      `json:"n"`
		Mean       *float64 `json:"mean"`
		StdDev     *float64 `json:"stddev"`
		Min        *float64 `json:"min"`
		Max        *float64 `json:"max"`
		Integral   *float64 `json:"integral"`
		From       *float64 `json:"from"`
		To         *float64 `json:"to"`
	}{
		Source:     A.Source,
		Observable: A.Observable,
		Axis:       A.Axis,
		N:          A.N,
		Mean:       nullNaN(A.Mean),
		StdDev:     nullNaN(A.StdDev),
		Min:        nullNaN(A.Min),
		Max:        nullNaN(A.Max),
		Integral:   nullNaN(A.Integral),
		From:       nullNaN(A.From),
		To:         nullNaN(A.To),
	})
}

func nullNaN(f float64) *float64 {
	if math.IsNaN(f) {
		return nil
	}
	return &f
}

//axis returns the integration variable for the records at idx: time, if all of them
//have it and it does not decrease, or the step index.
func (S *Series) axis(idx []int) ([]float64, string) {
	x := make([]float64, len(idx))
	for i, j := range idx {
		t, ok := S.records[j].Time()
		if !ok || (i > 0 && t < x[i-1]) {
			for k, l := range idx {
				x[k] = float64(S.records[l].step)
			}
			return x, AxisStep
		}
		x[i] = t
	}
	return x, AxisTime
}

//Aggregate computes the mean, spread and trapezoidal integral of the named observable
//over S. Records that lack the observable are left out. The integral is taken over
//simulation time when all the records involved carry it and it does not decrease, and over
//the step index otherwise.
//With fewer than 2 records the integral is NaN.
func Aggregate(S *Series, observable string) (AggregateResult, error) {
	if S.Len() == 0 {
		return AggregateResult{}, newError(ErrEmptyInput, "", 0, "Aggregate", "no records to aggregate")
	}
	y, idx := S.Column(observable)
	if len(y) == 0 {
		return AggregateResult{}, newError(ErrUnknownObservable, S.source, 0, "Aggregate", "%q is not present in any record (available: %v)", observable, S.Names())
	}
	x, axis := S.axis(idx)
	A := AggregateResult{
		Source:     S.source,
		Observable: observable,
		Axis:       axis,
		N:          len(y),
		Min:        floats.Min(y),
		Max:        floats.Max(y),
		From:       x[0],
		To:         x[len(x)-1],
		Integral:   math.NaN(),
	}
	A.Mean, A.StdDev = stat.PopMeanStdDev(y, nil)
	if len(y) >= 2 {
		A.Integral = integrate.Trapezoidal(x, y)
	}
	return A, nil
}

//Cumulative returns the integration axis (see Aggregate) and the running trapezoidal
//integral of the observable along it. The first value of the integral is 0.
func Cumulative(S *Series, observable string) (x, cum []float64, axis string, err error) {
	if S.Len() == 0 {
		return nil, nil, "", newError(ErrEmptyInput, "", 0, "Cumulative", "no records to integrate")
	}
	y, idx := S.Column(observable)
	if len(y) == 0 {
		return nil, nil, "", newError(ErrUnknownObservable, S.source, 0, "Cumulative", "%q is not present in any record", observable)
	}
	x, axis = S.axis(idx)
	return x, CumTrapz(x, y), axis, nil
}

//CumTrapz returns the cumulative trapezoidal integral of y over x. Unlike
//integrate.Trapezoidal, x does not need to be sorted: the integral follows the
//path, so segments where x decreases contribute with the opposite sign.
//It panics if the slices have different lengths.
func CumTrapz(x, y []float64) []float64 {
	if len(x) != len(y) {
		panic("goreport.CumTrapz: x and y must have the same length")
	}
	ret := make([]float64, len(x))
	for i := 1; i < len(x); i++ {
		ret[i] = ret[i-1] + 0.5*(x[i]-x[i-1])*(y[i]+y[i-1])
	}
	return ret
}
