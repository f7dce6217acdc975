// Package dataset reads delimited digit files into typed rows and matrix
// views for training and evaluation.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/thebargaintenor/mnist-mlnet/pkg/errors"
)

// PixelCount is the fixed pixel vector length of one digit row (28x28).
const PixelCount = 784

// Digit is one dataset row: a numeric class label followed by a fixed-length
// grayscale intensity vector. Rows are immutable after loading.
type Digit struct {
	Label  float64
	Pixels []float64
}

// LoadDigits reads a delimited file of digit rows in file order. Each row
// holds the label in the first field and PixelCount pixel intensities after
// it. A wrong field count or a non-numeric field fails the load with a
// FormatError; a missing file surfaces the wrapped open error, matchable with
// fs.ErrNotExist.
func LoadDigits(path string, hasHeader bool, sep rune) ([]Digit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening dataset %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = sep
	// Field count is validated per row so the error can name the row.
	reader.FieldsPerRecord = -1

	row := 0
	if hasHeader {
		row++
		if _, err := reader.Read(); err != nil {
			if err == io.EOF {
				return nil, errors.Wrapf(errors.ErrEmptyData, "%s", path)
			}
			return nil, errors.Wrapf(err, "reading header of %s", path)
		}
	}

	var digits []Digit
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, errors.NewFormatError(path, row, -1, err.Error())
		}
		if len(record) != PixelCount+1 {
			return nil, errors.NewFormatError(path, row, -1,
				"expected "+strconv.Itoa(PixelCount+1)+" fields, got "+strconv.Itoa(len(record)))
		}

		label, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, errors.NewFormatError(path, row, 0, "cannot parse label "+strconv.Quote(record[0]))
		}

		pixels := make([]float64, PixelCount)
		for j := 1; j < len(record); j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, errors.NewFormatError(path, row, j, "cannot parse pixel "+strconv.Quote(record[j]))
			}
			pixels[j-1] = v
		}

		digits = append(digits, Digit{Label: label, Pixels: pixels})
	}

	if len(digits) == 0 {
		return nil, errors.Wrapf(errors.ErrEmptyData, "%s", path)
	}
	return digits, nil
}

// Matrices materializes the rows as a dense feature matrix and a label
// column, preserving row order.
func Matrices(digits []Digit) (*mat.Dense, *mat.VecDense) {
	n := len(digits)
	X := mat.NewDense(n, PixelCount, nil)
	y := mat.NewVecDense(n, nil)
	for i, d := range digits {
		X.SetRow(i, d.Pixels)
		y.SetVec(i, d.Label)
	}
	return X, y
}

// SampleAt selects rows at the given indices, in the order given. An index
// outside the dataset is a ValueError.
func SampleAt(digits []Digit, indices []int) ([]Digit, error) {
	out := make([]Digit, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(digits) {
			return nil, errors.NewValueError("dataset.SampleAt",
				"index "+strconv.Itoa(idx)+" out of range for "+strconv.Itoa(len(digits))+" rows")
		}
		out = append(out, digits[idx])
	}
	return out, nil
}
