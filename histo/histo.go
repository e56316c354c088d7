package histo

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//Data is a histogram over the intervals defined by its dividers. Besides counting
//the points that fall in each bin, it can keep the sum (and sum of squares) of a value
//attached to each point, so per-bin means can be obtained, as needed to bin a free
//energy gradient by the collective variable it was sampled at.
type Data struct {
	id         int
	normalized bool
	total      int
	dividers   []float64
	histo      []float64
	sums       []float64 //of the values given with AddPair, per bin
	sqsums     []float64
}

func (D *Data) MarshalJSON() ([]byte, error) {
	j, err := json.Marshal(struct {
		ID         int       `json:"id"`
		Normalized bool      `json:"normalized"`
		Total      int       `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Histo      []float64 `json:"histo"`
		Sums       []float64 `json:"sums,omitempty"`
		SqSums     []float64 `json:"sqsums,omitempty"`
	}{
		ID:         D.id,
		Normalized: D.normalized,
		Total:      D.total,
		Dividers:   D.dividers,
		Histo:      D.histo,
		Sums:       D.sums,
		SqSums:     D.sqsums,
	})
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (D *Data) UnmarshalJSON(b []byte) error {
	var a struct {
		ID         int       `json:"id"`
		Normalized bool      `json:"normalized"`
		Total      int       `json:"total"`
		Dividers   []float64 `json:"dividers"`
		Histo      []float64 `json:"histo"`
		Sums       []float64 `json:"sums,omitempty"`
		SqSums     []float64 `json:"sqsums,omitempty"`
	}

	err := json.Unmarshal(b, &a)
	if err != nil {
		return err
	}
	D.id = a.ID
	D.normalized = a.Normalized
	D.total = a.Total
	D.dividers = a.Dividers
	D.histo = a.Histo
	D.sums = a.Sums
	D.sqsums = a.SqSums
	return nil
}

//ID returns the ID of the histogram
func (D *Data) ID() int {
	return D.id
}

//String prints a -hopefully- pretty string representation of
//the histogram. The representation uses 3 lines of text
func (D *Data) String() string {
	ret := fmt.Sprintf("ID: %d, Normalized: %v, TotalData: %d\n", D.id, D.normalized, D.total)
	d := make([]string, 0, len(D.dividers)-1)
	h := make([]string, 0, len(D.dividers)-1)
	for i, v := range D.histo {
		d = append(d, fmt.Sprintf("%4.2f-%4.2f", D.dividers[i], D.dividers[i+1]))
		h = append(h, fmt.Sprintf("%9.3f", v))
	}
	return ret + fmt.Sprintf("%s\n%s", strings.Join(d, " "), strings.Join(h, " "))
}

//Dividers returns the edges of bins of the given width covering [min, max]. The
//first edge is min and the last one is the first that reaches max. It panics if
//width is not positive or max < min.
func Dividers(min, max, width float64) []float64 {
	if width <= 0 || max < min {
		panic("goReport/histo.Dividers: width must be positive and max>=min")
	}
	n := int(math.Ceil((max-min)/width - 1e-9))
	if n < 1 {
		n = 1
	}
	ret := make([]float64, n+1)
	for i := range ret {
		ret[i] = min + float64(i)*width
	}
	ret[n] = math.Max(ret[n], max) //rounding could leave max out.
	return ret
}

//NewData returns a new histogram from the dividers and rawdata given
//rawdata can be nil. In that case, an empty histogram is created.
//if an ID for the histogram is given, it will be set. If not, the ID will
//be set to -1.
func NewData(dividers []float64, rawdata []float64, ID ...int) *Data {
	d := new(Data)
	//I prefer to copy the slice to avoid somebody changing it from outside
	d.dividers = append([]float64(nil), dividers...)
	d.histo = make([]float64, len(dividers)-1)
	d.sums = make([]float64, len(dividers)-1)
	d.sqsums = make([]float64, len(dividers)-1)
	if rawdata != nil {
		d.ReHisto(d.dividers, rawdata)
	}
	d.id = -1
	if len(ID) > 0 {
		d.id = ID[0]
	}
	return d
}

//Bin returns the index of the bin where x falls, or -1 if it is out of range.
//Bins include their lower edge, the last one also its upper edge.
func (D *Data) Bin(x float64) int {
	last := len(D.dividers) - 1
	if last < 1 || x < D.dividers[0] || x > D.dividers[last] {
		return -1
	}
	if x == D.dividers[last] {
		return last - 1
	}
	return sort.Search(last, func(i int) bool { return D.dividers[i+1] > x })
}

//AddData adds the given data point(s) to the histogram.
//Points out of range are omitted, but counted in the total.
func (D *Data) AddData(point ...float64) {
	var norma bool
	if D.normalized {
		norma = true
		D.UnNormalize()
	}
	for _, v := range point {
		if b := D.Bin(v); b >= 0 {
			D.histo[b]++
		}
	}
	D.total += len(point)
	//if it was normalized, we should return it to that state
	if norma {
		D.Normalize()
	}
}

//AddPair adds a point at x carrying the value v. It returns false if x is out of
//range, in which case nothing is added.
func (D *Data) AddPair(x, v float64) bool {
	b := D.Bin(x)
	if b < 0 {
		return false
	}
	var norma bool
	if D.normalized {
		norma = true
		D.UnNormalize()
	}
	D.histo[b]++
	D.total++
	D.sums[b] += v
	D.sqsums[b] += v * v
	if norma {
		D.Normalize()
	}
	return true
}

//Counts returns the number of points in each bin, regardless of normalization.
func (D *Data) Counts() []int {
	ret := make([]int, len(D.histo))
	f := 1.0
	if D.normalized {
		f = float64(D.total)
	}
	for i, v := range D.histo {
		ret[i] = int(math.Round(v * f))
	}
	return ret
}

//BinMean returns the mean of the values added with AddPair in each bin, NaN for empty bins.
func (D *Data) BinMean() []float64 {
	c := D.Counts()
	ret := make([]float64, len(c))
	for i, n := range c {
		ret[i] = math.NaN()
		if n > 0 {
			ret[i] = D.sums[i] / float64(n)
		}
	}
	return ret
}

//BinStdDev returns the population standard deviation of the values in each bin,
//NaN for empty bins.
func (D *Data) BinStdDev() []float64 {
	c := D.Counts()
	means := D.BinMean()
	ret := make([]float64, len(c))
	for i, n := range c {
		ret[i] = math.NaN()
		if n > 0 {
			ret[i] = math.Sqrt(math.Max(0, D.sqsums[i]/float64(n)-means[i]*means[i]))
		}
	}
	return ret
}

//Centers returns the middle point of each bin.
func (D *Data) Centers() []float64 {
	ret := make([]float64, len(D.histo))
	for i := range ret {
		ret[i] = 0.5 * (D.dividers[i] + D.dividers[i+1])
	}
	return ret
}

//Normalized Returns true if the histogram is normalized
func (D *Data) Normalized() bool {
	return D.normalized
}

//Normalize normalizes the histogram
func (D *Data) Normalize() {
	D.normaunnorma(true)
}

//UnNormalize un-normalizes the histogram
func (D *Data) UnNormalize() {
	D.normaunnorma(false)
}

//normalizes or un-normalizes the histogram depending
//on whether normalize is true
func (D *Data) normaunnorma(normalize bool) {
	if D.total <= 0 || D.normalized == normalize {
		return
	}
	n := float64(D.total)
	D.normalized = false
	if normalize {
		n = 1 / float64(D.total)
		D.normalized = true
	}
	floats.Scale(n, D.histo)
}

//View returns the histogram values themselves, not a copy.
func (D *Data) View() []float64 {
	return D.histo
}

//Sum returns the sum of the histogram values
func (D *Data) Sum() float64 {
	return floats.Sum(D.histo)
}

//ReHisto recomputes the histogram counts from rawdata with the given dividers.
//Values attached with AddPair are lost.
func (D *Data) ReHisto(dividers, rawdata []float64) {
	raw := append([]float64(nil), rawdata...)
	sort.Float64s(raw)
	//stat.Histogram just panics instead of omitting the values that are off limits
	//so we remove them here before the call.
	maxi := sort.SearchFloat64s(raw, dividers[len(dividers)-1])
	mini := sort.SearchFloat64s(raw, dividers[0])
	raw = raw[mini:maxi]
	D.dividers = append(D.dividers[:0], dividers...)
	D.total = len(raw) //as this could have been modified
	D.normalized = false
	D.histo = stat.Histogram(nil, dividers, raw, nil)
	D.sums = make([]float64, len(D.histo))
	D.sqsums = make([]float64, len(D.histo))
}
