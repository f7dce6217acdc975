package metrics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/thebargaintenor/mnist-mlnet/core/model"
	"github.com/thebargaintenor/mnist-mlnet/pkg/errors"
)

// ClassificationMetrics is the immutable result of one evaluation pass over a
// held-out set.
type ClassificationMetrics struct {
	MicroAccuracy    float64
	MacroAccuracy    float64
	LogLoss          float64
	LogLossReduction float64
	Confusion        *mat.Dense
}

// EvaluateClassifier applies a fitted classifier to every row of X and
// aggregates classification metrics against the encoded true labels y. It has
// no side effects on the model.
func EvaluateClassifier(clf model.Classifier, X mat.Matrix, y *mat.VecDense) (*ClassificationMetrics, error) {
	nClasses := len(clf.Classes())
	if nClasses < 2 {
		return nil, errors.NewValueError("EvaluateClassifier", "classifier reports fewer than 2 classes")
	}

	predMat, err := clf.Predict(X)
	if err != nil {
		return nil, errors.Wrap(err, "evaluating predictions")
	}
	proba, err := clf.PredictProba(X)
	if err != nil {
		return nil, errors.Wrap(err, "evaluating probabilities")
	}

	r, _ := predMat.Dims()
	yPred := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		yPred.SetVec(i, predMat.At(i, 0))
	}

	micro, err := AccuracyScore(y, yPred)
	if err != nil {
		return nil, err
	}
	macro, err := MacroAccuracy(y, yPred, nClasses)
	if err != nil {
		return nil, err
	}
	logLoss, err := LogLoss(y, proba)
	if err != nil {
		return nil, err
	}
	reduction, err := LogLossReduction(logLoss, nClasses)
	if err != nil {
		return nil, err
	}
	confusion, err := ConfusionMatrix(y, yPred, nClasses)
	if err != nil {
		return nil, err
	}

	return &ClassificationMetrics{
		MicroAccuracy:    micro,
		MacroAccuracy:    macro,
		LogLoss:          logLoss,
		LogLossReduction: reduction,
		Confusion:        confusion,
	}, nil
}
