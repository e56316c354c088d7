/*
 * merge.go, part of goreport.
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

import "strings"

//Merge concatenates the series in the given order, for simulations whose output was
//split across several files. A series whose first step does not come after the last
//step merged so far is renumbered to start right after it, keeping its own spacing.
//Times are shifted the same way when the first time of a series comes before the last
//time merged so far, even if records without a time lie between them. The input
//series are not modified.
func Merge(series []*Series) (*Series, error) {
	var total int
	var sources []string
	for _, S := range series {
		if S == nil {
			continue
		}
		total += S.Len()
		sources = append(sources, S.source)
	}
	if len(sources) == 0 {
		return nil, newError(ErrEmptyInput, "", 0, "Merge", "no series to merge")
	}
	M := &Series{source: strings.Join(sources, ","), records: make([]StepRecord, 0, total)}
	for _, S := range series {
		if S.Len() == 0 {
			continue
		}
		if len(M.records) == 0 {
			M.records = append(M.records, S.records...)
			continue
		}
		last := M.records[len(M.records)-1]
		first := S.records[0]
		var dstep int
		if first.step <= last.step {
			dstep = last.step + 1 - first.step
		}
		var dtime float64
		lt, okl := lastTime(M.records)
		ft, okf := firstTime(S.records)
		if okl && okf && ft < lt {
			dtime = lt + timeSpacing(S, M) - ft
		}
		for _, r := range S.records {
			M.records = append(M.records, r.shifted(dstep, dtime))
		}
	}
	return M, nil
}

//timeSpacing guesses the time between consecutive steps, from the series being appended
//or, failing that, from the end of the merged one. It returns 0 if neither tells.
func timeSpacing(next, merged *Series) float64 {
	for _, recs := range [][]StepRecord{next.records, merged.records[max(0, len(merged.records)-2):]} {
		if len(recs) < 2 {
			continue
		}
		t0, ok0 := recs[0].Time()
		t1, ok1 := recs[1].Time()
		if ok0 && ok1 && t1 > t0 {
			return t1 - t0
		}
	}
	return 0
}
