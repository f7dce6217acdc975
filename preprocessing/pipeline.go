package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/thebargaintenor/mnist-mlnet/core/model"
	"github.com/thebargaintenor/mnist-mlnet/pkg/errors"
)

// Step is one named transformation in a Pipeline.
type Step struct {
	Name        string
	Transformer model.Transformer
}

// Pipeline composes an ordered sequence of named transformation steps with a
// terminal classifier. Fit runs fit-transform through every step in order and
// fits the classifier on the result; Predict and PredictProba replay the
// fitted transforms before scoring. This is plain function composition, not a
// generic estimator framework.
type Pipeline struct {
	state *model.State

	steps      []Step
	classifier model.Classifier
}

// NewPipeline creates a pipeline ending in the given classifier.
func NewPipeline(classifier model.Classifier, steps ...Step) (*Pipeline, error) {
	if classifier == nil {
		return nil, errors.NewValueError("preprocessing.NewPipeline", "classifier is nil")
	}
	for _, s := range steps {
		if s.Name == "" || s.Transformer == nil {
			return nil, errors.NewValueError("preprocessing.NewPipeline", "step needs a name and a transformer")
		}
	}
	return &Pipeline{
		state:      model.NewState(),
		steps:      steps,
		classifier: classifier,
	}, nil
}

// Fit fit-transforms X through every step, then fits the classifier on the
// transformed features and encoded labels y.
func (p *Pipeline) Fit(X, y mat.Matrix) error {
	cur := X
	for _, s := range p.steps {
		transformed, err := s.Transformer.FitTransform(cur)
		if err != nil {
			return errors.Wrapf(err, "pipeline step %q", s.Name)
		}
		cur = transformed
	}

	if err := p.classifier.Fit(cur, y); err != nil {
		return errors.Wrap(err, "pipeline classifier")
	}

	r, c := X.Dims()
	p.state.SetFitted(c, r)
	return nil
}

// Predict applies the fitted transforms and returns the classifier's
// predicted class indices.
func (p *Pipeline) Predict(X mat.Matrix) (mat.Matrix, error) {
	cur, err := p.applySteps(X, "Predict")
	if err != nil {
		return nil, err
	}
	return p.classifier.Predict(cur)
}

// PredictProba applies the fitted transforms and returns the classifier's
// per-class probabilities.
func (p *Pipeline) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	cur, err := p.applySteps(X, "PredictProba")
	if err != nil {
		return nil, err
	}
	return p.classifier.PredictProba(cur)
}

// Classes returns the class indices of the terminal classifier.
func (p *Pipeline) Classes() []int {
	return p.classifier.Classes()
}

func (p *Pipeline) applySteps(X mat.Matrix, method string) (mat.Matrix, error) {
	if err := p.state.RequireFitted("Pipeline", method); err != nil {
		return nil, err
	}
	cur := X
	for _, s := range p.steps {
		transformed, err := s.Transformer.Transform(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline step %q", s.Name)
		}
		cur = transformed
	}
	return cur, nil
}
