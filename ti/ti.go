//Package ti integrates free energy gradients, sampled along a collective variable,
//into free energy profiles (thermodynamic integration).
package ti

import (
	"fmt"
	"io"
	"math"

	report "github.com/rmera/goreport"
	"github.com/rmera/goreport/histo"
	"gonum.org/v1/gonum/floats"
)

//Column names of the tables written by WriteProfile.
const (
	CoordField    = "coord"
	GradientField = "gradient"
	EnergyField   = "energy"
	StdDevField   = "stddev"
	CountField    = "count"
)

//DefaultBinWidth is the width of the collective variable bins used by Binned
//when none is given.
const DefaultBinWidth = 0.1

//Profile is a free energy profile along a collective variable.
//StdDev and Count are only set for binned profiles.
type Profile struct {
	Coord    []float64 `json:"coord"`
	Gradient []float64 `json:"gradient"`
	Energy   []float64 `json:"energy"` //cumulative integral of Gradient over Coord
	StdDev   []float64 `json:"stddev,omitempty"`
	Count    []int     `json:"count,omitempty"`
	//1 if the coordinate decreased along the run (the profile climbs to a barrier),
	//-1 otherwise (it goes down to a minimum).
	Direction float64 `json:"direction"`
}

//Len returns the number of points in the profile.
func (P *Profile) Len() int {
	if P == nil {
		return 0
	}
	return len(P.Coord)
}

//pairs returns the coordinate and gradient of the first nframes records of S
//that have both (all of them if nframes <= 0).
func pairs(S *report.Series, coord, grad string, nframes int) ([]float64, []float64, error) {
	if S.Len() == 0 {
		return nil, nil, report.NewError(report.ErrEmptyInput, "", 0, "no records to integrate")
	}
	var x, y []float64
	for _, r := range S.Records() {
		if nframes > 0 && len(x) >= nframes {
			break
		}
		c, okc := r.Value(coord)
		g, okg := r.Value(grad)
		if !okc || !okg {
			continue
		}
		x = append(x, c)
		y = append(y, g)
	}
	if len(x) == 0 {
		return nil, nil, report.NewError(report.ErrUnknownObservable, S.Source(), 0, fmt.Sprintf("no record has both %q and %q", coord, grad))
	}
	return x, y, nil
}

func direction(x []float64) float64 {
	if x[0]-x[len(x)-1] > 0 {
		return 1
	}
	return -1
}

//Integrate returns the free energy profile obtained by integrating the observable grad
//over the observable coord, record by record, for the first nframes records of S
//(all of them if nframes <= 0). Records lacking either observable are skipped.
func Integrate(S *report.Series, coord, grad string, nframes int) (*Profile, error) {
	x, y, err := pairs(S, coord, grad, nframes)
	if err != nil {
		return nil, err
	}
	return &Profile{
		Coord:     x,
		Gradient:  y,
		Energy:    report.CumTrapz(x, y),
		Direction: direction(x),
	}, nil
}

//BinOptions control Binned.
type BinOptions struct {
	Width   float64 //bin width. 0 means DefaultBinWidth
	NFrames int     //use only the first NFrames records. 0 or less means all.
	//If HasRegion is true, only bins with Low < center < High are integrated.
	Low, High float64
	HasRegion bool
}

//Binned groups the gradient samples in bins of the collective variable and integrates
//the mean gradient of each bin over the bin centers. The bins cover the sampled range,
//with edges on multiples of the bin width. Empty bins are dropped.
func Binned(S *report.Series, coord, grad string, o BinOptions) (*Profile, error) {
	x, y, err := pairs(S, coord, grad, o.NFrames)
	if err != nil {
		return nil, err
	}
	w := o.Width
	if w <= 0 {
		w = DefaultBinWidth
	}
	if o.HasRegion && o.Low >= o.High {
		return nil, report.NewError(report.ErrMalformedRecord, S.Source(), 0, fmt.Sprintf("empty region (%g, %g)", o.Low, o.High))
	}
	xmin, xmax := floats.Min(x), floats.Max(x)
	lo := math.Min(xmin, math.Floor(xmin/w+1e-9)*w)
	hi := math.Ceil(xmax/w-1e-9) * w
	H := histo.NewData(histo.Dividers(lo, hi, w), nil)
	for i, c := range x {
		H.AddPair(c, y[i])
	}
	counts := H.Counts()
	centers := H.Centers()
	means := H.BinMean()
	stds := H.BinStdDev()
	P := &Profile{Direction: direction(x)}
	for i, n := range counts {
		if n == 0 {
			continue
		}
		if o.HasRegion && !(o.Low < centers[i] && centers[i] < o.High) {
			continue
		}
		P.Coord = append(P.Coord, centers[i])
		P.Gradient = append(P.Gradient, means[i])
		P.StdDev = append(P.StdDev, stds[i])
		P.Count = append(P.Count, n)
	}
	if len(P.Coord) == 0 {
		return nil, report.NewError(report.ErrEmptyInput, S.Source(), 0, "no populated bin in the region")
	}
	P.Energy = report.CumTrapz(P.Coord, P.Gradient)
	return P, nil
}

//Extreme returns the index and free energy of the barrier of the profile: the highest
//point if the coordinate decreased during the run, the lowest otherwise. The starting
//point (energy 0) is returned if no point is beyond it. It returns -1 for an empty profile.
func (P *Profile) Extreme() (int, float64) {
	if P.Len() == 0 {
		return -1, math.NaN()
	}
	ind, mark := 0, 0.0
	for i, v := range P.Energy {
		if P.Direction*v >= mark {
			mark = P.Direction * v
			ind = i
		}
	}
	return ind, P.Energy[ind]
}

//ToSeries returns the profile as a series, one record per point, with the point's
//1-based index as step.
func (P *Profile) ToSeries(source string) (*report.Series, error) {
	if P.Len() == 0 {
		return nil, report.NewError(report.ErrEmptyInput, source, 0, "empty profile")
	}
	names := []string{CoordField, GradientField, EnergyField}
	binned := len(P.StdDev) == P.Len() && len(P.Count) == P.Len()
	if binned {
		names = append(names, StdDevField, CountField)
	}
	recs := make([]report.StepRecord, 0, P.Len())
	for i := range P.Coord {
		vals := []float64{P.Coord[i], P.Gradient[i], P.Energy[i]}
		if binned {
			vals = append(vals, P.StdDev[i], float64(P.Count[i]))
		}
		r, err := report.NewStepRecord(i+1, names, vals)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return report.NewSeries(source, recs)
}

//WriteProfile writes the profile to w as a table that report.Parse can read.
func WriteProfile(w io.Writer, P *Profile) error {
	S, err := P.ToSeries("profile")
	if err != nil {
		return err
	}
	return report.WriteDat(w, S)
}

//WriteProfileFile writes the profile to the file at path, compressed according to
//its extension.
func WriteProfileFile(path string, P *Profile) error {
	S, err := P.ToSeries(path)
	if err != nil {
		return err
	}
	return report.WriteDatFile(path, S)
}
