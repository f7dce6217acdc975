// Package preprocessing holds the transformation steps applied before
// training: label encoding, feature assembly, optional standardization, and
// the pipeline composing them with a terminal classifier.
package preprocessing

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/thebargaintenor/mnist-mlnet/core/model"
	"github.com/thebargaintenor/mnist-mlnet/pkg/errors"
)

// LabelEncoder maps raw label values to dense class indices. Indices are
// assigned in ascending label order: index 0 is the smallest observed value.
// The mapping is fitted once on training labels and reused for inference;
// transforming a value outside the fitted domain is an UnknownLabelError.
type LabelEncoder struct {
	state *model.State

	classes []float64
	index   map[float64]int
}

// NewLabelEncoder creates an unfitted LabelEncoder.
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{state: model.NewState()}
}

// Fit builds the value-to-index mapping from the distinct values in y.
func (e *LabelEncoder) Fit(y *mat.VecDense) error {
	if y == nil || y.Len() == 0 {
		return errors.Wrap(errors.ErrEmptyData, "LabelEncoder.Fit")
	}

	seen := make(map[float64]struct{})
	for i := 0; i < y.Len(); i++ {
		v := y.AtVec(i)
		if math.IsNaN(v) {
			return errors.NewValueError("LabelEncoder.Fit", "label is NaN")
		}
		seen[v] = struct{}{}
	}

	e.classes = make([]float64, 0, len(seen))
	for v := range seen {
		e.classes = append(e.classes, v)
	}
	sort.Float64s(e.classes)

	e.index = make(map[float64]int, len(e.classes))
	for i, v := range e.classes {
		e.index[v] = i
	}

	e.state.SetFitted(1, y.Len())
	return nil
}

// Transform encodes each label in y as its class index.
func (e *LabelEncoder) Transform(y *mat.VecDense) (*mat.VecDense, error) {
	if err := e.state.RequireFitted("LabelEncoder", "Transform"); err != nil {
		return nil, err
	}

	out := mat.NewVecDense(y.Len(), nil)
	for i := 0; i < y.Len(); i++ {
		idx, err := e.encodeOne("LabelEncoder.Transform", y.AtVec(i))
		if err != nil {
			return nil, err
		}
		out.SetVec(i, float64(idx))
	}
	return out, nil
}

// FitTransform fits on y and returns the encoded labels.
func (e *LabelEncoder) FitTransform(y *mat.VecDense) (*mat.VecDense, error) {
	if err := e.Fit(y); err != nil {
		return nil, err
	}
	return e.Transform(y)
}

// InverseTransform decodes class indices back to original label values.
func (e *LabelEncoder) InverseTransform(idx *mat.VecDense) (*mat.VecDense, error) {
	if err := e.state.RequireFitted("LabelEncoder", "InverseTransform"); err != nil {
		return nil, err
	}

	out := mat.NewVecDense(idx.Len(), nil)
	for i := 0; i < idx.Len(); i++ {
		label, err := e.DecodeOne(int(idx.AtVec(i)))
		if err != nil {
			return nil, err
		}
		out.SetVec(i, label)
	}
	return out, nil
}

// EncodeOne returns the class index for a single label value.
func (e *LabelEncoder) EncodeOne(label float64) (int, error) {
	if err := e.state.RequireFitted("LabelEncoder", "EncodeOne"); err != nil {
		return 0, err
	}
	return e.encodeOne("LabelEncoder.EncodeOne", label)
}

// encodeOne looks up a fitted label, reporting op as the failing operation.
func (e *LabelEncoder) encodeOne(op string, label float64) (int, error) {
	idx, ok := e.index[label]
	if !ok {
		return 0, errors.NewUnknownLabelError(op, label, e.classes)
	}
	return idx, nil
}

// DecodeOne returns the label value for a single class index.
func (e *LabelEncoder) DecodeOne(idx int) (float64, error) {
	if err := e.state.RequireFitted("LabelEncoder", "DecodeOne"); err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(e.classes) {
		return 0, errors.NewValueError("LabelEncoder.DecodeOne", "class index out of range")
	}
	return e.classes[idx], nil
}

// Classes returns the fitted label values in index order.
func (e *LabelEncoder) Classes() []float64 {
	out := make([]float64, len(e.classes))
	copy(out, e.classes)
	return out
}

// NClasses returns the number of distinct fitted label values.
func (e *LabelEncoder) NClasses() int {
	return len(e.classes)
}
