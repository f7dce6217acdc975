package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// stubClassifier returns canned predictions and probabilities.
type stubClassifier struct {
	preds []float64
	proba *mat.Dense
}

func (s *stubClassifier) Fit(X, y mat.Matrix) error { return nil }

func (s *stubClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	return mat.NewDense(len(s.preds), 1, s.preds), nil
}

func (s *stubClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	return s.proba, nil
}

func (s *stubClassifier) Classes() []int {
	_, c := s.proba.Dims()
	classes := make([]int, c)
	for i := range classes {
		classes[i] = i
	}
	return classes
}

func TestEvaluateClassifier(t *testing.T) {
	clf := &stubClassifier{
		preds: []float64{0, 1, 1, 2},
		proba: mat.NewDense(4, 3, []float64{
			0.7, 0.2, 0.1,
			0.1, 0.8, 0.1,
			0.3, 0.5, 0.2,
			0.2, 0.2, 0.6,
		}),
	}
	X := mat.NewDense(4, 2, nil)
	// Sample 2 is truly class 2 but predicted class 1.
	y := mat.NewVecDense(4, []float64{0, 1, 2, 2})

	result, err := EvaluateClassifier(clf, X, y)
	if err != nil {
		t.Fatalf("EvaluateClassifier() error = %v", err)
	}

	if math.Abs(result.MicroAccuracy-0.75) > 1e-9 {
		t.Errorf("MicroAccuracy = %v, want 0.75", result.MicroAccuracy)
	}
	// Class 0: 1/1, class 1: 1/1, class 2: 1/2.
	wantMacro := (1.0 + 1.0 + 0.5) / 3
	if math.Abs(result.MacroAccuracy-wantMacro) > 1e-9 {
		t.Errorf("MacroAccuracy = %v, want %v", result.MacroAccuracy, wantMacro)
	}

	wantLogLoss := -(math.Log(0.7) + math.Log(0.8) + math.Log(0.2) + math.Log(0.6)) / 4
	if math.Abs(result.LogLoss-wantLogLoss) > 1e-9 {
		t.Errorf("LogLoss = %v, want %v", result.LogLoss, wantLogLoss)
	}

	wantReduction := 1 - wantLogLoss/math.Log(3)
	if math.Abs(result.LogLossReduction-wantReduction) > 1e-9 {
		t.Errorf("LogLossReduction = %v, want %v", result.LogLossReduction, wantReduction)
	}

	if result.Confusion.At(2, 1) != 1 {
		t.Errorf("Confusion[2,1] = %v, want 1", result.Confusion.At(2, 1))
	}

	// Range invariants.
	if result.MicroAccuracy < 0 || result.MicroAccuracy > 1 {
		t.Errorf("MicroAccuracy %v outside [0,1]", result.MicroAccuracy)
	}
	if result.MacroAccuracy < 0 || result.MacroAccuracy > 1 {
		t.Errorf("MacroAccuracy %v outside [0,1]", result.MacroAccuracy)
	}
	if result.LogLoss < 0 {
		t.Errorf("LogLoss %v negative", result.LogLoss)
	}
	if result.LogLossReduction > 1 {
		t.Errorf("LogLossReduction %v exceeds 1", result.LogLossReduction)
	}
}
