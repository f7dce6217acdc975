// Package metrics computes aggregate classification metrics for fitted
// models.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/thebargaintenor/mnist-mlnet/pkg/errors"
)

// Probabilities below this are clipped before taking logarithms.
const probEpsilon = 1e-15

// AccuracyScore computes micro accuracy: the fraction of predictions matching
// the true label, pooled over all samples.
func AccuracyScore(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("AccuracyScore", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("AccuracyScore", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// MacroAccuracy computes the mean of per-class accuracy rates, weighting each
// class equally regardless of its sample count. Classes absent from yTrue are
// excluded from the mean.
func MacroAccuracy(yTrue, yPred *mat.VecDense, nClasses int) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MacroAccuracy", "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MacroAccuracy", n, yPred.Len(), 0)
	}
	if nClasses < 2 {
		return 0, errors.NewValueError("MacroAccuracy", "need at least 2 classes")
	}

	correct := make([]int, nClasses)
	total := make([]int, nClasses)
	for i := 0; i < n; i++ {
		k := int(yTrue.AtVec(i))
		if k < 0 || k >= nClasses {
			return 0, errors.NewValueError("MacroAccuracy", "true label outside class range")
		}
		total[k]++
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct[k]++
		}
	}

	sum, present := 0.0, 0
	for k := 0; k < nClasses; k++ {
		if total[k] == 0 {
			continue
		}
		sum += float64(correct[k]) / float64(total[k])
		present++
	}
	if present == 0 {
		return 0, errors.NewValueError("MacroAccuracy", "no class present in yTrue")
	}
	return sum / float64(present), nil
}

// LogLoss computes the mean negative log-probability assigned to the true
// class. proba holds one probability row per sample, columns ordered by class
// index; probabilities are clipped away from zero before the logarithm.
func LogLoss(yTrue *mat.VecDense, proba mat.Matrix) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("LogLoss", "empty vector")
	}
	r, c := proba.Dims()
	if r != n {
		return 0, errors.NewDimensionError("LogLoss", n, r, 0)
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		k := int(yTrue.AtVec(i))
		if k < 0 || k >= c {
			return 0, errors.NewValueError("LogLoss", "true label outside probability columns")
		}
		p := proba.At(i, k)
		if p < probEpsilon {
			p = probEpsilon
		}
		sum -= math.Log(p)
	}
	return sum / float64(n), nil
}

// LogLossReduction computes the relative improvement of logLoss over the
// uniform-probability baseline log(nClasses). 1 is a perfect model, 0 matches
// the baseline, negative is worse than uniform guessing.
func LogLossReduction(logLoss float64, nClasses int) (float64, error) {
	if nClasses < 2 {
		return 0, errors.NewValueError("LogLossReduction", "need at least 2 classes")
	}
	if logLoss < 0 {
		return 0, errors.NewValueError("LogLossReduction", "log-loss cannot be negative")
	}
	baseline := math.Log(float64(nClasses))
	return 1 - logLoss/baseline, nil
}

// ConfusionMatrix counts predictions per (true class, predicted class) pair.
// Rows are true classes, columns predicted classes.
func ConfusionMatrix(yTrue, yPred *mat.VecDense, nClasses int) (*mat.Dense, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "empty vector")
	}
	if yPred.Len() != n {
		return nil, errors.NewDimensionError("ConfusionMatrix", n, yPred.Len(), 0)
	}

	out := mat.NewDense(nClasses, nClasses, nil)
	for i := 0; i < n; i++ {
		t := int(yTrue.AtVec(i))
		p := int(yPred.AtVec(i))
		if t < 0 || t >= nClasses || p < 0 || p >= nClasses {
			return nil, errors.NewValueError("ConfusionMatrix", "label outside class range")
		}
		out.Set(t, p, out.At(t, p)+1)
	}
	return out, nil
}
