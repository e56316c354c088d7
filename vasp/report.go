/*
 * report.go, part of goreport.
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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	report "github.com/rmera/goreport"
	"github.com/rmera/goreport/internal/logging"
)

//Options control how the VASP readers go through a file.
type Options struct {
	NCons    int          //number of constraints. 0 means: detect it from the first step.
	MaxSteps int          //stop after this many MD steps. 0 reads the whole file.
	Logger   *slog.Logger //nil means no logging.
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return logging.Discard()
	}
	return o.Logger
}

//Names of the observables in the series produced by this package. i is the
//1-based index of the constraint.
func CV(i int) string     { return fmt.Sprintf("cv_%d", i) }     //value of the collective variable
func Lambda(i int) string { return fmt.Sprintf("lambda_%d", i) } //Lagrange multiplier
func ZDet(i int) string   { return fmt.Sprintf("zdet_%d", i) }   //|Z|^(-1/2)
func GkT(i int) string    { return fmt.Sprintf("gkt_%d", i) }    //GkT
func ZG(i int) string     { return fmt.Sprintf("zg_%d", i) }     //|Z|^(-1/2)*(lambda+GkT)
func Grad(i int) string   { return fmt.Sprintf("grad_%d", i) }   //ZG/ZDet, the free energy gradient sample
func RC(i int) string     { return fmt.Sprintf("rc_%d", i) }     //reaction coordinate in TFILOG
func FEG(i int) string    { return fmt.Sprintf("feg_%d", i) }    //free energy gradient in TFILOG

//errTruncated signals that the input ended in the middle of a block.
var errTruncated = errors.New("input ends inside a block")

//parser holds what the VASP readers share.
type parser struct {
	L      *lineReader
	source string
	ncons  int
	log    *slog.Logger
}

func (p *parser) malformed(line int, format string, args ...interface{}) error {
	return report.NewError(report.ErrMalformedRecord, p.source, line, fmt.Sprintf(format, args...))
}

//rows reads p.ncons lines or, if p.ncons is 0, lines until one for which stop
//returns true (that one is put back). For each line it returns the numbers in
//the columns cols.
func (p *parser) rows(stop func(string) bool, cols ...int) ([][]float64, error) {
	var ret [][]float64
	for i := 0; p.ncons == 0 || i < p.ncons; i++ {
		line, err := p.L.next()
		if errors.Is(err, io.EOF) {
			if p.ncons == 0 && len(ret) > 0 {
				return ret, nil
			}
			return nil, errTruncated
		}
		if err != nil {
			return nil, err
		}
		if p.ncons == 0 && stop(line) {
			p.L.unread()
			break
		}
		fields := strings.Fields(line)
		vals := make([]float64, len(cols))
		for j, c := range cols {
			if c >= len(fields) {
				return nil, p.malformed(p.L.line(), "expected at least %d columns, found %d", c+1, len(fields))
			}
			vals[j], err = strconv.ParseFloat(fields[c], 64)
			if err != nil {
				return nil, p.malformed(p.L.line(), "column %d: %q is not a number", c+1, fields[c])
			}
		}
		ret = append(ret, vals)
	}
	if len(ret) == 0 {
		return nil, p.malformed(p.L.line(), "empty block")
	}
	return ret, nil
}

//stepNumber returns the integer that follows the word key in line, or def if there is none.
func stepNumber(line, key string, def int) int {
	fields := strings.Fields(line)
	for i, f := range fields {
		if f == key && i+1 < len(fields) {
			if n, err := strconv.Atoi(fields[i+1]); err == nil {
				return n
			}
		}
	}
	return def
}

//one MD step of a REPORT file, as it is being read.
type bmStep struct {
	step int
	line int
	cv   []float64
	bm   [][]float64 //lambda, zdet, gkt, zg
}

//ReadReport reads the constrained MD (blue moon) information from a VASP REPORT file.
//Each MD step ("MD step No. N") becomes a record with, for each constraint i, the
//observables CV(i) (if the step has a ">Const_coord" block), Lambda(i), ZDet(i),
//GkT(i), ZG(i) and Grad(i), from the ">Blue_moon" block. A step without a blue moon
//block is an error, except at the end of the file, where it is taken as a truncated
//run and dropped.
func ReadReport(r io.Reader, source string, o Options) (*report.Series, error) {
	p := &parser{L: newLineReader(r), source: source, ncons: o.NCons, log: o.logger()}
	var recs []report.StepRecord
	var cur *bmStep
	count := 0
	for {
		line, err := p.L.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", source, err)
		}
		switch {
		case strings.HasPrefix(line, "MD step No."):
			if cur != nil {
				rec, err := p.bmRecord(cur)
				if err != nil {
					return nil, err
				}
				recs = append(recs, rec)
			}
			count++
			cur = &bmStep{step: stepNumber(line, "No.", count), line: p.L.line()}
		case strings.HasPrefix(line, ">Const_coord"):
			if cur == nil {
				return nil, p.malformed(p.L.line(), ">Const_coord block before the first MD step")
			}
			rows, err := p.rows(notPrefixed("cc>"), 2)
			if errors.Is(err, errTruncated) {
				cur = p.dropTruncated(cur)
				break
			}
			if err != nil {
				return nil, err
			}
			p.ncons = len(rows)
			cur.cv = column(rows, 0)
		case strings.HasPrefix(line, ">Blue_moon"):
			if cur == nil {
				return nil, p.malformed(p.L.line(), ">Blue_moon block before the first MD step")
			}
			//the header: lambda |z|^(-1/2) GkT |z|^(-1/2)*(lambda+GkT)
			if _, err := p.L.next(); err != nil {
				cur = p.dropTruncated(cur)
				break
			}
			rows, err := p.rows(notPrefixed("b_m>"), 1, 2, 3, 4)
			if errors.Is(err, errTruncated) {
				cur = p.dropTruncated(cur)
				break
			}
			if err != nil {
				return nil, err
			}
			p.ncons = len(rows)
			cur.bm = rows
		}
		if cur != nil && cur.bm != nil && o.MaxSteps > 0 && count >= o.MaxSteps {
			break
		}
	}
	if cur != nil {
		if cur.bm == nil {
			p.dropTruncated(cur)
		} else {
			rec, err := p.bmRecord(cur)
			if err != nil {
				return nil, err
			}
			recs = append(recs, rec)
		}
	}
	if len(recs) == 0 {
		return nil, report.NewError(report.ErrEmptyInput, source, 0, "no MD step with blue moon information")
	}
	p.log.Debug("read REPORT", "source", source, "steps", len(recs), "constraints", p.ncons)
	return report.NewSeries(source, recs)
}

func (p *parser) dropTruncated(cur *bmStep) *bmStep {
	p.log.Warn("dropping truncated MD step", "source", p.source, "step", cur.step, "line", cur.line)
	return nil
}

func (p *parser) bmRecord(cur *bmStep) (report.StepRecord, error) {
	if cur.bm == nil {
		return report.StepRecord{}, p.malformed(cur.line, "MD step %d has no >Blue_moon block", cur.step)
	}
	if cur.cv != nil && len(cur.cv) != len(cur.bm) {
		return report.StepRecord{}, p.malformed(cur.line, "MD step %d has %d constraint values but %d blue moon lines", cur.step, len(cur.cv), len(cur.bm))
	}
	var names []string
	var values []float64
	for k, row := range cur.bm {
		i := k + 1
		if row[1] == 0 {
			return report.StepRecord{}, p.malformed(cur.line, "MD step %d, constraint %d: |z|^(-1/2) is zero", cur.step, i)
		}
		if cur.cv != nil {
			names = append(names, CV(i))
			values = append(values, cur.cv[k])
		}
		names = append(names, Lambda(i), ZDet(i), GkT(i), ZG(i), Grad(i))
		values = append(values, row[0], row[1], row[2], row[3], row[3]/row[1])
	}
	return report.NewStepRecord(cur.step, names, values, report.AtLine(cur.line))
}

func notPrefixed(prefix string) func(string) bool {
	return func(s string) bool { return !strings.HasPrefix(s, prefix) }
}

func column(rows [][]float64, c int) []float64 {
	ret := make([]float64, len(rows))
	for i, r := range rows {
		ret[i] = r[c]
	}
	return ret
}

//ReadReportFile opens the file at path (see report.Open) and reads it with ReadReport.
func ReadReportFile(path string, o Options) (*report.Series, error) {
	f, err := report.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadReport(f, path, o)
}

//NConstraints returns the number of constraints with blue moon data in S.
func NConstraints(S *report.Series) int {
	n := 0
	for S.Has(Lambda(n+1)) {
		n++
	}
	return n
}

//BlueMoonColumns returns, for constraint i, the observables written to the BM-i.dat
//tables: the collective variable (if present in S), lambda, |z|^(-1/2), |z|^(-1/2)*(lambda+GkT)
//and the gradient.
func BlueMoonColumns(S *report.Series, i int) []string {
	var ret []string
	if S.Has(CV(i)) {
		ret = append(ret, CV(i))
	}
	return append(ret, Lambda(i), ZDet(i), ZG(i), Grad(i))
}
