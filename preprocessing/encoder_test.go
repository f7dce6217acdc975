package preprocessing

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/thebargaintenor/mnist-mlnet/pkg/errors"
)

func TestLabelEncoder_FitAssignsIndicesByValue(t *testing.T) {
	y := mat.NewVecDense(6, []float64{9, 0, 4, 9, 0, 2})

	enc := NewLabelEncoder()
	if err := enc.Fit(y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	want := []float64{0, 2, 4, 9}
	got := enc.Classes()
	if len(got) != len(want) {
		t.Fatalf("Classes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Classes()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if enc.NClasses() != 4 {
		t.Errorf("NClasses() = %d, want 4", enc.NClasses())
	}
}

func TestLabelEncoder_Transform(t *testing.T) {
	enc := NewLabelEncoder()
	if err := enc.Fit(mat.NewVecDense(4, []float64{3, 1, 7, 1})); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	encoded, err := enc.Transform(mat.NewVecDense(3, []float64{7, 1, 3}))
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}

	// Sorted domain {1, 3, 7} maps to indices {0, 1, 2}.
	want := []float64{2, 0, 1}
	for i := range want {
		if encoded.AtVec(i) != want[i] {
			t.Errorf("encoded[%d] = %v, want %v", i, encoded.AtVec(i), want[i])
		}
	}
}

func TestLabelEncoder_RoundTrip(t *testing.T) {
	y := mat.NewVecDense(10, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})

	enc := NewLabelEncoder()
	encoded, err := enc.FitTransform(y)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	decoded, err := enc.InverseTransform(encoded)
	if err != nil {
		t.Fatalf("InverseTransform() error = %v", err)
	}

	for i := 0; i < y.Len(); i++ {
		if decoded.AtVec(i) != y.AtVec(i) {
			t.Errorf("round trip of %v gave %v", y.AtVec(i), decoded.AtVec(i))
		}
	}
}

func TestLabelEncoder_UnknownLabelFailsFast(t *testing.T) {
	enc := NewLabelEncoder()
	if err := enc.Fit(mat.NewVecDense(3, []float64{0, 1, 2})); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	_, err := enc.Transform(mat.NewVecDense(2, []float64{1, 5}))
	if err == nil {
		t.Fatal("expected error for unseen label")
	}
	var labelErr *errors.UnknownLabelError
	if !errors.As(err, &labelErr) {
		t.Fatalf("expected UnknownLabelError, got %v", err)
	}
	if labelErr.Label != 5 {
		t.Errorf("Label = %v, want 5", labelErr.Label)
	}
	if labelErr.Op != "LabelEncoder.Transform" {
		t.Errorf("Op = %q, want LabelEncoder.Transform", labelErr.Op)
	}
}

func TestLabelEncoder_EncodeOneReportsItsOwnOp(t *testing.T) {
	enc := NewLabelEncoder()
	if err := enc.Fit(mat.NewVecDense(3, []float64{0, 1, 2})); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	_, err := enc.EncodeOne(5)
	var labelErr *errors.UnknownLabelError
	if !errors.As(err, &labelErr) {
		t.Fatalf("expected UnknownLabelError, got %v", err)
	}
	if labelErr.Op != "LabelEncoder.EncodeOne" {
		t.Errorf("Op = %q, want LabelEncoder.EncodeOne", labelErr.Op)
	}
}

func TestLabelEncoder_NotFitted(t *testing.T) {
	enc := NewLabelEncoder()
	_, err := enc.Transform(mat.NewVecDense(1, []float64{0}))
	var notFitted *errors.NotFittedError
	if !errors.As(err, &notFitted) {
		t.Fatalf("expected NotFittedError, got %v", err)
	}
}

func TestLabelEncoder_DecodeOutOfRange(t *testing.T) {
	enc := NewLabelEncoder()
	if err := enc.Fit(mat.NewVecDense(2, []float64{0, 1})); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if _, err := enc.DecodeOne(2); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if _, err := enc.DecodeOne(-1); err == nil {
		t.Error("expected error for negative index")
	}
}
