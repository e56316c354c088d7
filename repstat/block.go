//Package repstat has statistical tools for the time series in simulation reports:
//Flyvbjerg-Petersen reblocking and time correlation functions.
package repstat

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

//ErrShortSeries is returned when there is too little data for the analysis.
var ErrShortSeries = errors.New("too few data points")

//ErrZeroVariance is returned when a correlation is requested for constant data.
var ErrZeroVariance = errors.New("data have zero variance")

//BlockLevel contains the statistics of the data averaged in blocks of BlockSize
//consecutive points.
type BlockLevel struct {
	Level     int     `json:"level"`
	BlockSize int     `json:"block_size"`
	N         int     `json:"n"` //number of blocks
	Mean      float64 `json:"mean"`
	StdErr    float64 `json:"std_err"`     //standard error of the mean, assuming the blocks are independent
	StdErrErr float64 `json:"std_err_err"` //estimated error of StdErr
}

func (B BlockLevel) String() string {
	return fmt.Sprintf("%3d %8d %8d %14.6g %14.6g %14.6g", B.Level, B.BlockSize, B.N, B.Mean, B.StdErr, B.StdErrErr)
}

//Reblock performs the Flyvbjerg-Petersen blocking analysis on data. Level 0 are the
//data themselves, each further level averages consecutive pairs of the previous one
//(dropping the last point if their number is odd), as long as at least 2 blocks remain.
func Reblock(data []float64) ([]BlockLevel, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("reblocking %d points: %w", len(data), ErrShortSeries)
	}
	d := append([]float64(nil), data...)
	nlevels := int(math.Log2(float64(len(data))))
	ret := make([]BlockLevel, 0, nlevels)
	for i := 0; i < nlevels; i++ {
		n := len(d)
		mean, variance := stat.MeanVariance(d, nil) //unbiased variance
		se := math.Sqrt(variance / float64(n))
		ret = append(ret, BlockLevel{
			Level:     i,
			BlockSize: 1 << i,
			N:         n,
			Mean:      mean,
			StdErr:    se,
			StdErrErr: se / math.Sqrt(2*float64(n-1)),
		})
		half := n / 2
		for j := 0; j < half; j++ {
			d[j] = 0.5 * (d[2*j] + d[2*j+1])
		}
		d = d[:half]
	}
	return ret, nil
}

//OptimalBlock returns the index, in levels, of the smallest block size B for which
//B^3 > 2 ndata (StdErr_B/StdErr_0)^4, where ndata is the number of original points.
//That is the level whose standard error should be trusted. It returns -1 if no level
//fulfills the criterion, which means the series is too short for a reliable estimate.
func OptimalBlock(levels []BlockLevel, ndata int) int {
	if len(levels) == 0 || levels[0].StdErr == 0 {
		return -1
	}
	se0 := levels[0].StdErr
	for i, l := range levels {
		b3 := math.Pow(float64(l.BlockSize), 3)
		if b3 > 2*float64(ndata)*math.Pow(l.StdErr/se0, 4) {
			return i
		}
	}
	return -1
}
