// Package linear implements a multiclass maximum-entropy linear classifier
// fitted by stochastic dual coordinate ascent.
package linear

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/thebargaintenor/mnist-mlnet/core/model"
	"github.com/thebargaintenor/mnist-mlnet/core/parallel"
	"github.com/thebargaintenor/mnist-mlnet/pkg/errors"
)

// Row counts above this are scored in parallel.
const parallelThreshold = 1000

// SDCAClassifier is a multiclass linear model with a softmax posterior,
// trained by minimizing L2-regularized multinomial logistic loss through its
// dual: one dual variable vector per sample on the class simplex, updated one
// sample at a time while the primal weights are maintained incrementally.
//
// Labels passed to Fit must be dense class indices 0..C-1 (see
// preprocessing.LabelEncoder). The model is immutable once fitted.
type SDCAClassifier struct {
	state *model.State

	// Hyperparameters
	maxIter   int     // optimization epochs
	lambda    float64 // L2 regularization strength
	tol       float64 // stop when the mean dual update falls below this
	seed      int64   // shuffle seed
	normalize bool    // internal max-abs feature scaling
	trackLoss bool    // record primal objective per epoch

	// Fitted parameters
	coef_      [][]float64 // nClasses x nFeatures, raw input space
	intercept_ []float64   // per-class bias
	classes_   []int
	nClasses_  int
	nFeatures_ int
	nIter_     int // epochs actually run

	lossHistory []float64
}

// NewSDCAClassifier creates a classifier with the fixed defaults: 50 epochs,
// lambda 1e-4, tolerance 1e-4, seed 1, normalization on.
func NewSDCAClassifier(opts ...Option) *SDCAClassifier {
	c := &SDCAClassifier{
		state:     model.NewState(),
		maxIter:   50,
		lambda:    1e-4,
		tol:       1e-4,
		seed:      1,
		normalize: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fit trains the model on feature matrix X and encoded label column y.
// If the stopping tolerance is not met within the epoch budget, a
// ConvergenceWarning is raised and the best iterate found is kept; Fit still
// succeeds.
func (c *SDCAClassifier) Fit(X, y mat.Matrix) error {
	n, d := X.Dims()
	yRows, yCols := y.Dims()

	if n == 0 || d == 0 {
		return errors.Wrap(errors.ErrEmptyData, "SDCAClassifier.Fit")
	}
	if yRows != n {
		return errors.NewDimensionError("SDCAClassifier.Fit", n, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValueError("SDCAClassifier.Fit", "y must be a column vector")
	}
	if c.maxIter < 1 {
		return errors.NewValueError("SDCAClassifier.Fit", "maxIter must be at least 1")
	}
	if c.lambda <= 0 {
		return errors.NewValueError("SDCAClassifier.Fit", "lambda must be positive")
	}

	labels, nClasses, err := encodedLabels(y, n)
	if err != nil {
		return err
	}

	// Max-abs column scale, folded back into the weights after training so
	// prediction sees raw inputs.
	colScale := make([]float64, d)
	for j := range colScale {
		colScale[j] = 1.0
	}
	if c.normalize {
		for j := 0; j < d; j++ {
			maxAbs := 0.0
			for i := 0; i < n; i++ {
				if v := math.Abs(X.At(i, j)); v > maxAbs {
					maxAbs = v
				}
			}
			if maxAbs > 0 {
				colScale[j] = maxAbs
			}
		}
	}

	// Dual variables start at the true-class vertex of the simplex, which
	// corresponds to zero primal weights.
	alpha := make([][]float64, n)
	for i := range alpha {
		alpha[i] = make([]float64, nClasses)
		alpha[i][labels[i]] = 1.0
	}

	weights := make([][]float64, nClasses)
	for k := range weights {
		weights[k] = make([]float64, d)
	}
	bias := make([]float64, nClasses)

	// Squared norms of the scaled rows, plus 1 for the bias coordinate.
	xNorms := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 1.0
		for j := 0; j < d; j++ {
			v := X.At(i, j) / colScale[j]
			sum += v * v
		}
		xNorms[i] = sum
	}

	lambdaN := c.lambda * float64(n)
	rng := rand.New(rand.NewSource(c.seed))
	xi := make([]float64, d)
	scores := make([]float64, nClasses)
	probs := make([]float64, nClasses)

	c.lossHistory = nil
	converged := false

	for epoch := 1; epoch <= c.maxIter; epoch++ {
		totalMove := 0.0
		for _, i := range rng.Perm(n) {
			for j := 0; j < d; j++ {
				xi[j] = X.At(i, j) / colScale[j]
			}

			for k := 0; k < nClasses; k++ {
				z := bias[k]
				row := weights[k]
				for j := 0; j < d; j++ {
					z += row[j] * xi[j]
				}
				scores[k] = z
			}
			softmaxInto(probs, scores)

			// Move the dual toward the current posterior; the step keeps it
			// on the simplex and bounds the primal change by the row norm.
			step := lambdaN / (lambdaN + xNorms[i])
			if step > 1 {
				step = 1
			}
			for k := 0; k < nClasses; k++ {
				delta := step * (probs[k] - alpha[i][k])
				if delta == 0 {
					continue
				}
				alpha[i][k] += delta
				totalMove += math.Abs(delta)

				scale := -delta / lambdaN
				row := weights[k]
				for j := 0; j < d; j++ {
					row[j] += scale * xi[j]
				}
				bias[k] += scale
			}
		}

		c.nIter_ = epoch
		if c.trackLoss {
			c.lossHistory = append(c.lossHistory, c.primalObjective(X, labels, weights, bias, colScale))
		}
		if totalMove/float64(n) < c.tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("SDCA", c.maxIter, c.tol))
	}

	// Fold the normalization into the stored weights.
	c.coef_ = make([][]float64, nClasses)
	for k := 0; k < nClasses; k++ {
		c.coef_[k] = make([]float64, d)
		for j := 0; j < d; j++ {
			c.coef_[k][j] = weights[k][j] / colScale[j]
		}
	}
	c.intercept_ = bias
	c.nClasses_ = nClasses
	c.nFeatures_ = d
	c.classes_ = make([]int, nClasses)
	for k := range c.classes_ {
		c.classes_[k] = k
	}

	c.state.SetFitted(d, n)
	return nil
}

// Predict returns the argmax class index for each input row.
func (c *SDCAClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	scores, err := c.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	r, _ := scores.Dims()
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		best, bestScore := 0, math.Inf(-1)
		for k := 0; k < c.nClasses_; k++ {
			if s := scores.At(i, k); s > bestScore {
				bestScore = s
				best = k
			}
		}
		out.Set(i, 0, float64(best))
	}
	return out, nil
}

// PredictProba returns the softmax class probabilities for each input row.
// Each row sums to 1.
func (c *SDCAClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	scores, err := c.DecisionFunction(X)
	if err != nil {
		return nil, err
	}

	r, _ := scores.Dims()
	out := mat.NewDense(r, c.nClasses_, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		probs := make([]float64, c.nClasses_)
		row := make([]float64, c.nClasses_)
		for i := start; i < end; i++ {
			for k := 0; k < c.nClasses_; k++ {
				row[k] = scores.At(i, k)
			}
			softmaxInto(probs, row)
			out.SetRow(i, probs)
		}
	})
	return out, nil
}

// DecisionFunction returns the raw per-class linear scores for each row.
func (c *SDCAClassifier) DecisionFunction(X mat.Matrix) (mat.Matrix, error) {
	if err := c.state.RequireFitted("SDCAClassifier", "DecisionFunction"); err != nil {
		return nil, err
	}

	r, cols := X.Dims()
	if cols != c.nFeatures_ {
		return nil, errors.NewDimensionError("SDCAClassifier.DecisionFunction", c.nFeatures_, cols, 1)
	}

	out := mat.NewDense(r, c.nClasses_, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for k := 0; k < c.nClasses_; k++ {
				z := c.intercept_[k]
				row := c.coef_[k]
				for j := 0; j < c.nFeatures_; j++ {
					z += row[j] * X.At(i, j)
				}
				out.Set(i, k, z)
			}
		}
	})
	return out, nil
}

// Classes returns the class indices seen during fitting.
func (c *SDCAClassifier) Classes() []int {
	out := make([]int, len(c.classes_))
	copy(out, c.classes_)
	return out
}

// NIter returns the number of epochs the optimizer ran.
func (c *SDCAClassifier) NIter() int {
	return c.nIter_
}

// LossHistory returns the primal objective after each epoch. Empty unless
// the classifier was built with WithLossTracking(true).
func (c *SDCAClassifier) LossHistory() []float64 {
	out := make([]float64, len(c.lossHistory))
	copy(out, c.lossHistory)
	return out
}

// GetParams returns the hyperparameters.
func (c *SDCAClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"max_iter":  c.maxIter,
		"lambda":    c.lambda,
		"tol":       c.tol,
		"seed":      c.seed,
		"normalize": c.normalize,
	}
}

// primalObjective computes mean cross-entropy plus the L2 term, in the
// normalized feature space the optimizer works in.
func (c *SDCAClassifier) primalObjective(X mat.Matrix, labels []int, weights [][]float64, bias []float64, colScale []float64) float64 {
	n, d := X.Dims()
	nClasses := len(weights)

	scores := make([]float64, nClasses)
	probs := make([]float64, nClasses)
	loss := 0.0
	for i := 0; i < n; i++ {
		for k := 0; k < nClasses; k++ {
			z := bias[k]
			row := weights[k]
			for j := 0; j < d; j++ {
				z += row[j] * X.At(i, j) / colScale[j]
			}
			scores[k] = z
		}
		softmaxInto(probs, scores)
		p := probs[labels[i]]
		if p < 1e-15 {
			p = 1e-15
		}
		loss -= math.Log(p)
	}
	loss /= float64(n)

	reg := 0.0
	for k := range weights {
		for _, w := range weights[k] {
			reg += w * w
		}
	}
	return loss + 0.5*c.lambda*reg
}

// encodedLabels validates that y holds dense integer class indices and
// returns them with the class count.
func encodedLabels(y mat.Matrix, n int) ([]int, int, error) {
	labels := make([]int, n)
	maxLabel := 0
	for i := 0; i < n; i++ {
		v := y.At(i, 0)
		if v != math.Trunc(v) || v < 0 {
			return nil, 0, errors.NewValueError("SDCAClassifier.Fit",
				"labels must be non-negative class indices; encode them first")
		}
		labels[i] = int(v)
		if labels[i] > maxLabel {
			maxLabel = labels[i]
		}
	}
	nClasses := maxLabel + 1
	if nClasses < 2 {
		return nil, 0, errors.NewValueError("SDCAClassifier.Fit", "need at least 2 classes")
	}
	return labels, nClasses, nil
}

// softmaxInto writes the softmax of scores into dst, shifting by the max
// score for numerical stability.
func softmaxInto(dst, scores []float64) {
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}
	sum := 0.0
	for k, s := range scores {
		e := math.Exp(s - maxScore)
		dst[k] = e
		sum += e
	}
	for k := range dst {
		dst[k] /= sum
	}
}
