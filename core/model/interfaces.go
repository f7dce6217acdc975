package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for components trained on labeled data.
type Fitter interface {
	// Fit trains the component on feature matrix X and target column y.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for fitted models that produce predictions.
type Predictor interface {
	// Predict returns one predicted value per input row.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Transformer is the interface for data transformation steps.
type Transformer interface {
	// Fit learns the parameters the transformation needs.
	Fit(X mat.Matrix) error

	// Transform applies the fitted transformation.
	Transform(X mat.Matrix) (mat.Matrix, error)

	// FitTransform fits on X and returns the transformed X.
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// Classifier is the interface for multiclass classification models.
type Classifier interface {
	Fitter
	Predictor

	// PredictProba returns per-class probability estimates, one row per
	// sample, columns ordered by class index.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the class indices seen during fitting.
	Classes() []int
}
