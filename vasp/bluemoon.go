/*
 * bluemoon.go, part of goreport.
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

package vasp

import (
	"fmt"

	report "github.com/rmera/goreport"
	"gonum.org/v1/gonum/stat"
)

//ConvergencePoint is the running estimate of the free energy gradient after
//a number of steps.
type ConvergencePoint struct {
	Steps    int     `json:"steps"`    //steps averaged, after the dropped ones
	Gradient float64 `json:"gradient"` //<|z|^(-1/2)*(lambda+GkT)> / <|z|^(-1/2)>
	StdDev   float64 `json:"stddev"`   //population standard deviation of lambda over the same steps
}

//GradientConvergence follows the blue moon estimate of the free energy gradient for
//constraint cons (1-based) as the run goes. The first drop records are discarded
//as equilibration, then an estimate is produced every interval records, and one
//for the whole run. An interval of 0 or less gives only the latter.
//With a single constraint |z|^(-1/2) is 1, and the gradient is just the mean lambda.
func GradientConvergence(S *report.Series, cons, drop, interval int) ([]ConvergencePoint, error) {
	if S.Len() == 0 {
		return nil, report.NewError(report.ErrEmptyInput, "", 0, "no records")
	}
	lambda, _ := S.Column(Lambda(cons))
	zdet, _ := S.Column(ZDet(cons))
	zg, _ := S.Column(ZG(cons))
	if len(lambda) == 0 || len(zdet) != len(lambda) || len(zg) != len(lambda) {
		return nil, report.NewError(report.ErrUnknownObservable, S.Source(), 0, fmt.Sprintf("no complete blue moon data for constraint %d", cons))
	}
	if drop < 0 {
		drop = 0
	}
	if drop >= len(lambda) {
		return nil, report.NewError(report.ErrEmptyInput, S.Source(), 0, "all the steps were dropped")
	}
	lambda, zdet, zg = lambda[drop:], zdet[drop:], zg[drop:]
	if interval <= 0 {
		interval = len(lambda)
	}
	var ret []ConvergencePoint
	for i := interval; ; i += interval {
		n := min(i, len(lambda))
		_, std := stat.PopMeanStdDev(lambda[:n], nil)
		ret = append(ret, ConvergencePoint{
			Steps:    n,
			Gradient: stat.Mean(zg[:n], nil) / stat.Mean(zdet[:n], nil),
			StdDev:   std,
		})
		if n == len(lambda) {
			break
		}
	}
	return ret, nil
}

//FreeEnergyGradient returns the blue moon estimate of the free energy gradient for
//constraint cons, over all the records after the first drop.
func FreeEnergyGradient(S *report.Series, cons, drop int) (float64, error) {
	c, err := GradientConvergence(S, cons, drop, 0)
	if err != nil {
		return 0, err
	}
	return c[len(c)-1].Gradient, nil
}
