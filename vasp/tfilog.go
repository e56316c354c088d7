/*
 * tfilog.go, part of goreport.
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
	"strings"

	report "github.com/rmera/goreport"
)

func tfiBlockEnd(s string) bool {
	return s == "" || strings.HasPrefix(s, "->") || strings.Contains(s, "MD STEP")
}

//ReadTFILOG reads the thermodynamic forces from a TFILOG file (slow-growth and
//thermodynamic integration runs). Each "MD STEP" header starts a record with, for each
//constraint i, RC(i) from the "-> REACTIVE" block and FEG(i) from the "-> FREE ENERGY"
//block. Steps that lack the free energy block are dropped at the end of the file,
//and are an error elsewhere.
func ReadTFILOG(r io.Reader, source string, o Options) (*report.Series, error) {
	p := &parser{L: newLineReader(r), source: source, ncons: o.NCons, log: o.logger()}
	var recs []report.StepRecord
	type tfiStep struct {
		step, line int
		rc, feg    []float64
	}
	var cur *tfiStep
	record := func() error {
		if cur.feg == nil {
			return p.malformed(cur.line, "MD step %d has no free energy block", cur.step)
		}
		if cur.rc != nil && len(cur.rc) != len(cur.feg) {
			return p.malformed(cur.line, "MD step %d has %d reaction coordinates but %d gradients", cur.step, len(cur.rc), len(cur.feg))
		}
		var names []string
		var values []float64
		for k, g := range cur.feg {
			if cur.rc != nil {
				names = append(names, RC(k+1))
				values = append(values, cur.rc[k])
			}
			names = append(names, FEG(k+1))
			values = append(values, g)
		}
		rec, err := report.NewStepRecord(cur.step, names, values, report.AtLine(cur.line))
		if err != nil {
			return err
		}
		recs = append(recs, rec)
		return nil
	}
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
		case strings.Contains(line, "MD STEP"):
			if cur != nil {
				if err := record(); err != nil {
					return nil, err
				}
			}
			count++
			cur = &tfiStep{step: stepNumber(line, "STEP", count), line: p.L.line()}
		case strings.HasPrefix(line, "-> REACTIVE"):
			if cur == nil {
				return nil, p.malformed(p.L.line(), "reactive coordinate block before the first MD step")
			}
			p.L.next() //blank line
			rows, err := p.rows(tfiBlockEnd, 1)
			if errors.Is(err, errTruncated) {
				p.log.Warn("dropping truncated MD step", "source", source, "step", cur.step)
				cur = nil
				break
			}
			if err != nil {
				return nil, err
			}
			p.ncons = len(rows)
			cur.rc = column(rows, 0)
		case strings.HasPrefix(line, "-> FREE ENERGY"):
			if cur == nil {
				return nil, p.malformed(p.L.line(), "free energy block before the first MD step")
			}
			p.L.next() //blank line
			p.L.next() //RC FEG FEG1 FEG2 header
			rows, err := p.rows(tfiBlockEnd, 2)
			if errors.Is(err, errTruncated) {
				p.log.Warn("dropping truncated MD step", "source", source, "step", cur.step)
				cur = nil
				break
			}
			if err != nil {
				return nil, err
			}
			p.ncons = len(rows)
			cur.feg = column(rows, 0)
		}
		if cur != nil && cur.feg != nil && o.MaxSteps > 0 && count >= o.MaxSteps {
			break
		}
	}
	if cur != nil {
		if cur.feg == nil {
			p.log.Warn("dropping truncated MD step", "source", source, "step", cur.step)
		} else if err := record(); err != nil {
			return nil, err
		}
	}
	if len(recs) == 0 {
		return nil, report.NewError(report.ErrEmptyInput, source, 0, "no MD step with thermodynamic forces")
	}
	p.log.Debug("read TFILOG", "source", source, "steps", len(recs), "constraints", p.ncons)
	return report.NewSeries(source, recs)
}

//ReadTFILOGFile opens the file at path (see report.Open) and reads it with ReadTFILOG.
func ReadTFILOGFile(path string, o Options) (*report.Series, error) {
	f, err := report.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTFILOG(f, path, o)
}
