package ti

import (
	"bytes"
	"errors"
	"math"
	"testing"

	report "github.com/rmera/goreport"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func series(Te *testing.T, coords, grads []float64) *report.Series {
	var recs []report.StepRecord
	for i := range coords {
		r, err := report.NewStepRecord(i+1, []string{"cv_1", "grad_1"}, []float64{coords[i], grads[i]})
		if err != nil {
			Te.Fatal(err)
		}
		recs = append(recs, r)
	}
	S, err := report.NewSeries("mem", recs)
	if err != nil {
		Te.Fatal(err)
	}
	return S
}

func TestIntegrate(Te *testing.T) {
	S := series(Te, []float64{3, 2, 1, 0}, []float64{-1, -1, 1, 1})
	P, err := Integrate(S, "cv_1", "grad_1", 0)
	if err != nil {
		Te.Fatal(err)
	}
	want := []float64{0, 1, 1, 0}
	for i, v := range P.Energy {
		if !near(v, want[i]) {
			Te.Errorf("point %d: expected %v, got %v", i, want[i], v)
		}
	}
	if P.Direction != 1 {
		Te.Errorf("the coordinate decreases, expected direction 1, got %v", P.Direction)
	}
	if i, e := P.Extreme(); i != 2 || !near(e, 1) {
		Te.Errorf("expected the barrier at point 2 with 1, got %d with %v", i, e)
	}
	P, err = Integrate(S, "cv_1", "grad_1", 2)
	if err != nil {
		Te.Fatal(err)
	}
	if P.Len() != 2 {
		Te.Errorf("expected 2 frames, got %d", P.Len())
	}
	if _, err := Integrate(S, "cv_2", "grad_1", 0); !errors.Is(err, report.ErrUnknownObservable) {
		Te.Errorf("expected ErrUnknownObservable, got %v", err)
	}
}

func TestBinned(Te *testing.T) {
	S := series(Te, []float64{1.02, 1.04, 1.12, 1.18, 1.35}, []float64{1, 3, 2, 4, 6})
	P, err := Binned(S, "cv_1", "grad_1", BinOptions{})
	if err != nil {
		Te.Fatal(err)
	}
	if P.Len() != 3 {
		Te.Fatalf("expected 3 populated bins, got %d: %v", P.Len(), P.Coord)
	}
	coords := []float64{1.05, 1.15, 1.35}
	grads := []float64{2, 3, 6}
	energies := []float64{0, 0.25, 1.15}
	counts := []int{2, 2, 1}
	for i := range coords {
		if !near(P.Coord[i], coords[i]) || !near(P.Gradient[i], grads[i]) || !near(P.Energy[i], energies[i]) || P.Count[i] != counts[i] {
			Te.Errorf("bin %d: got coord %v gradient %v energy %v count %d", i, P.Coord[i], P.Gradient[i], P.Energy[i], P.Count[i])
		}
	}
	if !near(P.StdDev[0], 1) || !near(P.StdDev[2], 0) {
		Te.Errorf("unexpected deviations %v", P.StdDev)
	}
	if i, e := P.Extreme(); i != 0 || e != 0 {
		Te.Errorf("expected the minimum at the start, got %d with %v", i, e)
	}
	P, err = Binned(S, "cv_1", "grad_1", BinOptions{Low: 1.1, High: 1.4, HasRegion: true})
	if err != nil {
		Te.Fatal(err)
	}
	if P.Len() != 2 || !near(P.Energy[1], 0.9) {
		Te.Errorf("unexpected profile in region: %v %v", P.Coord, P.Energy)
	}
	if _, err := Binned(S, "cv_1", "grad_1", BinOptions{Low: 2, High: 3, HasRegion: true}); !errors.Is(err, report.ErrEmptyInput) {
		Te.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestWriteProfile(Te *testing.T) {
	S := series(Te, []float64{1.02, 1.04, 1.12, 1.18, 1.35}, []float64{1, 3, 2, 4, 6})
	P, err := Binned(S, "cv_1", "grad_1", BinOptions{Width: 0.1})
	if err != nil {
		Te.Fatal(err)
	}
	var b bytes.Buffer
	if err := WriteProfile(&b, P); err != nil {
		Te.Fatal(err)
	}
	S2, err := report.Parse(&b, "profile")
	if err != nil {
		Te.Fatal(err)
	}
	if S2.Len() != 3 {
		Te.Fatalf("expected 3 rows, got %d", S2.Len())
	}
	if v, ok := S2.Record(2).Value(EnergyField); !ok || math.Abs(v-1.15) > 1e-6 {
		Te.Errorf("unexpected energy %v (%v)", v, ok)
	}
	if v, ok := S2.Record(0).Value(CountField); !ok || v != 2 {
		Te.Errorf("unexpected count %v (%v)", v, ok)
	}
	if err := WriteProfile(&b, &Profile{}); !errors.Is(err, report.ErrEmptyInput) {
		Te.Errorf("expected ErrEmptyInput, got %v", err)
	}
}
