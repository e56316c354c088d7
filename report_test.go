/*
 * report_test.go, part of goreport.
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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const threeSteps = `# thermodynamic integration, test run
#! step time energy
1 0.0 -10.0
2 1.0 -10.5
3 2.0 -11.0
`

func mustParse(Te *testing.T, s, source string, opts ...ParseOption) *Series {
	Te.Helper()
	S, err := Parse(strings.NewReader(s), source, opts...)
	if err != nil {
		Te.Fatalf("parsing %s: %v", source, err)
	}
	return S
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestParseCount(Te *testing.T) {
	var b strings.Builder
	b.WriteString("#% goreport-format 1\n#! step time energy lambda\n\n")
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "%d %f %f %f\n", 10+2*i, 0.5*float64(i), -1.0*float64(i), 0.02*float64(i))
	}
	S := mustParse(Te, b.String(), "count")
	if S.Len() != 50 {
		Te.Fatalf("expected 50 records, got %d", S.Len())
	}
	steps := S.Steps()
	for i := 1; i < len(steps); i++ {
		if steps[i] <= steps[i-1] {
			Te.Errorf("steps not increasing at %d: %d after %d", i, steps[i], steps[i-1])
		}
	}
	if names := S.Names(); len(names) != 2 || names[0] != "energy" || names[1] != "lambda" {
		Te.Errorf("unexpected observables %v", names)
	}
	r := S.Record(3)
	if r.Line() != 7 {
		Te.Errorf("record 3 should come from line 7, got %d", r.Line())
	}
	if v, ok := r.Value("lambda"); !ok || !near(v, 0.06) {
		Te.Errorf("lambda of record 3 is %v (%v)", v, ok)
	}
}

func TestAggregateEnergy(Te *testing.T) {
	S := mustParse(Te, threeSteps, "three")
	A, err := Aggregate(S, "energy")
	if err != nil {
		Te.Fatal(err)
	}
	if !near(A.Mean, -10.5) {
		Te.Errorf("mean: expected -10.5, got %v", A.Mean)
	}
	if !near(A.Integral, -21.0) {
		Te.Errorf("integral: expected -21.0, got %v", A.Integral)
	}
	if A.Axis != AxisTime || A.From != 0 || A.To != 2 || A.N != 3 {
		Te.Errorf("unexpected axis info %+v", A)
	}
	if A.Min != -11 || A.Max != -10 {
		Te.Errorf("unexpected range %v %v", A.Min, A.Max)
	}
	B, err := Aggregate(S, "energy")
	if err != nil {
		Te.Fatal(err)
	}
	if A != B {
		Te.Errorf("aggregating twice gave %+v and %+v", A, B)
	}
}

func TestAggregateStepAxis(Te *testing.T) {
	S := mustParse(Te, "1 4\n3 6\n", "noTime", WithFields("step", "force"))
	A, err := Aggregate(S, "force")
	if err != nil {
		Te.Fatal(err)
	}
	if A.Axis != AxisStep || !near(A.Integral, 10) || !near(A.Mean, 5) || !near(A.StdDev, 1) {
		Te.Errorf("unexpected result %+v", A)
	}
}

func TestAggregateSingleRecord(Te *testing.T) {
	S := mustParse(Te, "#! step time energy\n7 0.5 -3.25\n", "single")
	A, err := Aggregate(S, "energy")
	if err != nil {
		Te.Fatalf("a single record should not fail: %v", err)
	}
	if !math.IsNaN(A.Integral) {
		Te.Errorf("integral of one record should be NaN, got %v", A.Integral)
	}
	if A.Mean != -3.25 || A.N != 1 {
		Te.Errorf("unexpected result %+v", A)
	}
	j, err := json.Marshal(A)
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(string(j), `"integral":null`) || !strings.Contains(string(j), `"mean":-3.25`) {
		Te.Errorf("unexpected JSON %s", j)
	}
}

func TestAggregateErrors(Te *testing.T) {
	S := mustParse(Te, threeSteps, "three")
	_, err := Aggregate(S, "lambda")
	if !errors.Is(err, ErrUnknownObservable) {
		Te.Errorf("expected ErrUnknownObservable, got %v", err)
	}
	_, err = Aggregate(nil, "energy")
	if !errors.Is(err, ErrEmptyInput) {
		Te.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestParseErrors(Te *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []ParseOption
		kind  error
		line  int
	}{
		{"non-numeric energy", "#! step time energy\n1 0.0 -10.0\n2 1.0 abc\n3 2.0 -11.0\n", nil, ErrMalformedRecord, 3},
		{"missing field", "1 0.0 -10.0\n2 1.0\n", nil, ErrMalformedRecord, 2},
		{"float step", "1.5 0.0 -10.0\n", nil, ErrMalformedRecord, 1},
		{"nan value", "1 0.0 NaN\n", nil, ErrMalformedRecord, 1},
		{"extra column, strict", "1 0.0 -10.0 4\n", []ParseOption{WithStrictColumns()}, ErrMalformedRecord, 1},
		{"repeated step", "1 0.0 -10.0\n2 1.0 -10.5\n2 2.0 -11.0\n", nil, ErrNonMonotonicStep, 3},
		{"decreasing step", "5 0.0 -10.0\n4 1.0 -10.5\n", nil, ErrNonMonotonicStep, 2},
		{"time backwards", "1 1.0 -10.0\n2 0.5 -10.5\n", nil, ErrNonMonotonicStep, 2},
		{"late declaration", "1 1.0 -10.0\n#! step energy\n", nil, ErrMalformedRecord, 2},
		{"second declaration", "#! step time energy\n#! step energy\n1 -10.0\n", nil, ErrMalformedRecord, 2},
		{"step not first", "#! time step energy\n1 1.0 -10.0\n", nil, ErrMalformedRecord, 1},
		{"other version", "#% goreport-format 2\n1 1.0 -10.0\n", nil, ErrMalformedRecord, 1},
		{"only comments", "# nothing here\n\n", nil, ErrEmptyInput, 0},
	}
	for _, tt := range tests {
		Te.Run(tt.name, func(Te *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), "bad.dat", tt.opts...)
			if !errors.Is(err, tt.kind) {
				Te.Fatalf("expected %v, got %v", tt.kind, err)
			}
			var E *Error
			if !errors.As(err, &E) {
				Te.Fatalf("error %v is not a *Error", err)
			}
			if E.Line() != tt.line || E.FileName() != "bad.dat" {
				Te.Errorf("expected bad.dat:%d, got %s:%d", tt.line, E.FileName(), E.Line())
			}
			if tt.line > 0 && !strings.Contains(err.Error(), fmt.Sprintf("bad.dat:%d", tt.line)) {
				Te.Errorf("message %q does not point to the line", err.Error())
			}
		})
	}
}

func TestParseOptions(Te *testing.T) {
	//the given fields override the declaration in the file.
	S := mustParse(Te, "#! step time energy\n1 2 3 4\n", "opts", WithFields("step", "a", "b", "c"))
	if _, ok := S.Record(0).Time(); ok {
		Te.Errorf("no time field was declared")
	}
	if v, _ := S.Record(0).Value("c"); v != 4 {
		Te.Errorf("expected c=4, got %v", v)
	}
	S = mustParse(Te, "; a comment\n;! step x\n1 2\n", "semicolon", WithCommentPrefix(";"))
	if !S.Has("x") || S.Has("energy") {
		Te.Errorf("unexpected observables %v", S.Names())
	}
	//default fields only apply without a declaration.
	S = mustParse(Te, "1 300.5\n2 301.0\n", "temps", WithDefaultFields("step", "temperature"))
	if v, _ := S.Record(1).Value("temperature"); v != 301 {
		Te.Errorf("expected temperature=301, got %v", v)
	}
	S = mustParse(Te, "#! step time energy\n1 0 -3\n", "declared", WithDefaultFields("step", "temperature"))
	if !S.Has("energy") || S.Has("temperature") {
		Te.Errorf("the declaration should win over the default fields: %v", S.Names())
	}
	//no trailing newline
	S = mustParse(Te, "1 0 1\n2 1 2", "notrail")
	if S.Len() != 2 {
		Te.Errorf("expected 2 records, got %d", S.Len())
	}
}

func TestMerge(Te *testing.T) {
	A := mustParse(Te, threeSteps, "a")
	B := mustParse(Te, "1 0.0 -11.5\n2 1.0 -12.0\n", "b")
	M, err := Merge([]*Series{A, B})
	if err != nil {
		Te.Fatal(err)
	}
	if M.Len() != A.Len()+B.Len() {
		Te.Fatalf("expected %d records, got %d", A.Len()+B.Len(), M.Len())
	}
	want := []int{1, 2, 3, 4, 5}
	for i, s := range M.Steps() {
		if s != want[i] {
			Te.Errorf("step %d: expected %d, got %d", i, want[i], s)
		}
	}
	times, ok := M.Times()
	if !ok || times[3] != 3 || times[4] != 4 {
		Te.Errorf("unexpected times %v", times)
	}
	if B.Record(0).Step() != 1 {
		Te.Errorf("merge modified its input")
	}
	if M.Source() != "a,b" {
		Te.Errorf("unexpected source %q", M.Source())
	}
	//already continuous series are left alone
	C := mustParse(Te, "10 10.0 -1\n", "c")
	M, err = Merge([]*Series{A, C})
	if err != nil {
		Te.Fatal(err)
	}
	if r := M.Record(3); r.Step() != 10 {
		Te.Errorf("expected step 10, got %d", r.Step())
	}
	if _, err := Merge(nil); !errors.Is(err, ErrEmptyInput) {
		Te.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := Merge([]*Series{nil}); !errors.Is(err, ErrEmptyInput) {
		Te.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestMergeUntimedGap(Te *testing.T) {
	A := mustParse(Te, threeSteps, "a")
	B := mustParse(Te, "#! step pressure\n1 5\n2 6\n", "b")
	C := mustParse(Te, "#! step time energy\n1 0.0 -12\n2 1.0 -13\n", "c")
	M, err := Merge([]*Series{A, B, C})
	if err != nil {
		Te.Fatal(err)
	}
	if t, _ := M.Record(5).Time(); t != 3 {
		Te.Errorf("expected the third file to start at time 3, got %g", t)
	}
	if s := M.Record(6).Step(); s != 7 {
		Te.Errorf("expected step 7, got %d", s)
	}
	R, err := Aggregate(M, "energy")
	if err != nil {
		Te.Fatal(err)
	}
	if R.Axis != AxisTime || R.N != 5 || !near(R.Integral, -45) || R.To != 4 {
		Te.Errorf("unexpected result %+v", R)
	}
}

func TestNewSeries(Te *testing.T) {
	r1, err := NewStepRecord(1, []string{"x"}, []float64{1}, AtTime(0))
	if err != nil {
		Te.Fatal(err)
	}
	r2, _ := NewStepRecord(1, []string{"x"}, []float64{2}, AtTime(1), AtLine(12))
	if _, err := NewSeries("mem", []StepRecord{r1, r2}); !errors.Is(err, ErrNonMonotonicStep) {
		Te.Errorf("expected ErrNonMonotonicStep, got %v", err)
	}
	//a record without a time does not hide a jump backwards
	t5, _ := NewStepRecord(1, []string{"x"}, []float64{1}, AtTime(5))
	nt, _ := NewStepRecord(2, []string{"x"}, []float64{2})
	t1, _ := NewStepRecord(3, []string{"x"}, []float64{3}, AtTime(1), AtLine(7))
	if _, err := NewSeries("mem", []StepRecord{t5, nt, t1}); !errors.Is(err, ErrNonMonotonicStep) {
		Te.Errorf("expected ErrNonMonotonicStep, got %v", err)
	}
	//and Aggregate does not integrate over unsorted times
	U := &Series{source: "mem", records: []StepRecord{t5, t1}}
	if A, err := Aggregate(U, "x"); err != nil || A.Axis != AxisStep || !near(A.Integral, 4) {
		Te.Errorf("expected a step axis, got %+v (%v)", A, err)
	}
	if _, err := NewStepRecord(1, []string{"x", "x"}, []float64{1, 2}); !errors.Is(err, ErrMalformedRecord) {
		Te.Errorf("expected ErrMalformedRecord, got %v", err)
	}
	names := []string{"x"}
	r3, _ := NewStepRecord(2, names, []float64{3})
	names[0] = "y"
	if !r3.Has("x") {
		Te.Errorf("NewStepRecord should copy its input")
	}
	S, err := NewSeries("mem", []StepRecord{r1, r3})
	if err != nil {
		Te.Fatal(err)
	}
	D := S.Dense("x")
	if r, c := D.Dims(); r != 2 || c != 2 || D.At(1, 0) != 2 || D.At(1, 1) != 3 {
		Te.Errorf("unexpected matrix %v", D)
	}
	//r3 has no time, so the step is used.
	A, err := Aggregate(S, "x")
	if err != nil {
		Te.Fatal(err)
	}
	if A.Axis != AxisStep || !near(A.Integral, 2) {
		Te.Errorf("unexpected result %+v", A)
	}
}

func TestCumulative(Te *testing.T) {
	S := mustParse(Te, threeSteps, "three")
	x, cum, axis, err := Cumulative(S, "energy")
	if err != nil {
		Te.Fatal(err)
	}
	if axis != AxisTime || len(x) != 3 || cum[0] != 0 || !near(cum[1], -10.25) || !near(cum[2], -21.0) {
		Te.Errorf("unexpected cumulative integral %v over %v", cum, x)
	}
	//going back along the path cancels what was gained
	back := CumTrapz([]float64{0, 1, 0}, []float64{1, 1, 1})
	if !near(back[2], 0) || !near(back[1], 1) {
		Te.Errorf("unexpected path integral %v", back)
	}
}

func TestDatRoundTrip(Te *testing.T) {
	S := mustParse(Te, threeSteps, "three")
	var b bytes.Buffer
	if err := WriteDat(&b, S); err != nil {
		Te.Fatal(err)
	}
	if !strings.HasPrefix(b.String(), "#% goreport-format 1\n#! step time energy\n") {
		Te.Errorf("unexpected header in\n%s", b.String())
	}
	S2 := mustParse(Te, b.String(), "again")
	if S2.Len() != S.Len() {
		Te.Fatalf("expected %d records, got %d", S.Len(), S2.Len())
	}
	for i := 0; i < S.Len(); i++ {
		v1, _ := S.Record(i).Value("energy")
		v2, _ := S2.Record(i).Value("energy")
		if math.Abs(v1-v2) > 1e-6 {
			Te.Errorf("record %d: %v became %v", i, v1, v2)
		}
	}
	if err := WriteDat(&b, S, "lambda"); !errors.Is(err, ErrUnknownObservable) {
		Te.Errorf("expected ErrUnknownObservable, got %v", err)
	}
}

func TestCompressedFiles(Te *testing.T) {
	S := mustParse(Te, threeSteps, "three")
	dir := Te.TempDir()
	for _, ext := range []string{".dat", ".zst", ".gz", ".s2"} {
		name := filepath.Join(dir, "report"+ext)
		if err := WriteDatFile(name, S); err != nil {
			Te.Fatalf("%s: %v", ext, err)
		}
		S2, err := ParseFile(name)
		if err != nil {
			Te.Fatalf("%s: %v", ext, err)
		}
		A, err := Aggregate(S2, "energy")
		if err != nil {
			Te.Fatal(err)
		}
		if !near(A.Mean, -10.5) || S2.Source() != name {
			Te.Errorf("%s: unexpected result %+v", ext, A)
		}
	}
}

func TestParseFiles(Te *testing.T) {
	dir := Te.TempDir()
	good := filepath.Join(dir, "good.dat")
	bad := filepath.Join(dir, "bad.dat")
	os.WriteFile(good, []byte(threeSteps), 0644)
	os.WriteFile(bad, []byte("1 0 1\n2 1 x\n"), 0644)
	series, err := ParseFiles([]string{good, bad, good})
	if !errors.Is(err, ErrMalformedRecord) {
		Te.Fatalf("expected ErrMalformedRecord, got %v", err)
	}
	if len(series) != 1 || series[0].Len() != 3 {
		Te.Errorf("the first file should have been kept, got %d series", len(series))
	}
	var E *Error
	if errors.As(err, &E) {
		if E.FileName() != bad || E.Line() != 2 {
			Te.Errorf("expected %s:2, got %s:%d", bad, E.FileName(), E.Line())
		}
		deco := E.Decorate("")
		if len(deco) == 0 || deco[len(deco)-1] != "ParseFiles" {
			Te.Errorf("unexpected decoration %v", deco)
		}
	}
	if _, err := ParseFile(filepath.Join(dir, "missing.dat")); !errors.Is(err, os.ErrNotExist) {
		Te.Errorf("expected a not-exist error, got %v", err)
	}
}
