package histo

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestHistoIO(Te *testing.T) {
	D := NewData([]float64{0, 1, 2, 3, 4, 8}, []float64{1, 6, 3, 2, 4, 5, 7, 6, 3.5, 3, 5, 1, 1, 0, 0, 5, 8, 1, 2, 3, 44, 3, 7, 3, 1, 3, 5, 32, 1}, 3)
	want := []float64{2, 6, 2, 7, 9}
	for i, v := range D.View() {
		if v != want[i] {
			Te.Errorf("bin %d: expected %v, got %v", i, want[i], v)
		}
	}
	j, err := json.Marshal(D)
	if err != nil {
		Te.Fatal(err)
	}
	D2 := new(Data)
	if err := json.Unmarshal(j, D2); err != nil {
		Te.Fatal(err)
	}
	if D2.ID() != 3 || D2.Sum() != D.Sum() {
		Te.Errorf("unexpected histogram after JSON: %v", D2)
	}
}

func TestBinning(Te *testing.T) {
	div := Dividers(1.0, 1.3, 0.1)
	if len(div) != 4 {
		Te.Fatalf("expected 4 dividers, got %v", div)
	}
	D := NewData(div, nil)
	pairs := [][2]float64{{1.0, 1}, {1.05, 3}, {1.15, 2}, {1.3, 10}, {2.0, 99}}
	added := 0
	for _, p := range pairs {
		if D.AddPair(p[0], p[1]) {
			added++
		}
	}
	if added != 4 {
		Te.Errorf("expected 4 points in range, got %d", added)
	}
	c := D.Counts()
	if c[0] != 2 || c[1] != 1 || c[2] != 1 {
		Te.Errorf("unexpected counts %v", c)
	}
	m := D.BinMean()
	s := D.BinStdDev()
	if m[0] != 2 || m[1] != 2 || m[2] != 10 || s[0] != 1 || s[1] != 0 {
		Te.Errorf("unexpected means %v or deviations %v", m, s)
	}
	D.Normalize()
	if math.Abs(D.Sum()-1) > 1e-12 {
		Te.Errorf("normalized histogram sums %v", D.Sum())
	}
	if c2 := D.Counts(); c2[0] != 2 {
		Te.Errorf("counts should not depend on normalization: %v", c2)
	}
	ctr := D.Centers()
	if math.Abs(ctr[0]-1.05) > 1e-12 {
		Te.Errorf("unexpected centers %v", ctr)
	}
	if D.Bin(0.99) != -1 || D.Bin(1.3) != 2 {
		Te.Errorf("unexpected bins %d %d", D.Bin(0.99), D.Bin(1.3))
	}
}

func TestAddData(Te *testing.T) {
	D := NewData(Dividers(0, 3, 1), nil)
	D.AddData(0.5, 1.5, 1.7, 4)
	if c := D.Counts(); c[0] != 1 || c[1] != 2 || c[2] != 0 {
		Te.Errorf("unexpected counts %v", c)
	}
	D.Normalize()
	D.AddData(2.5)
	if !D.Normalized() {
		Te.Errorf("AddData should keep the histogram normalized")
	}
	want := []float64{0.2, 0.4, 0.2}
	for i, v := range D.View() {
		if math.Abs(v-want[i]) > 1e-12 {
			Te.Errorf("bin %d: expected %v, got %v", i, want[i], v)
		}
	}
	D.UnNormalize()
	if c := D.Counts(); c[2] != 1 || math.Abs(D.Sum()-4) > 1e-12 {
		Te.Errorf("unexpected counts %v after un-normalizing", c)
	}
	str := D.String()
	if !strings.Contains(str, "ID: -1") || !strings.Contains(str, "0.00-1.00") || !strings.Contains(str, "TotalData: 5") {
		Te.Errorf("unexpected representation:\n%s", str)
	}
}
