package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/thebargaintenor/mnist-mlnet/pkg/errors"
)

// Concatenate joins feature column blocks in the given order into one flat
// feature matrix. With a single block this is an identity copy; it stays a
// distinct step so more feature columns can be added without touching the
// trainer. Blocks must agree on row count.
func Concatenate(blocks ...mat.Matrix) (*mat.Dense, error) {
	if len(blocks) == 0 {
		return nil, errors.NewValueError("preprocessing.Concatenate", "no feature blocks given")
	}

	rows, _ := blocks[0].Dims()
	totalCols := 0
	for _, b := range blocks {
		r, c := b.Dims()
		if r != rows {
			return nil, errors.NewDimensionError("preprocessing.Concatenate", rows, r, 0)
		}
		totalCols += c
	}

	out := mat.NewDense(rows, totalCols, nil)
	colOffset := 0
	for _, b := range blocks {
		_, c := b.Dims()
		for i := 0; i < rows; i++ {
			for j := 0; j < c; j++ {
				out.Set(i, colOffset+j, b.At(i, j))
			}
		}
		colOffset += c
	}
	return out, nil
}
