package linear

// Option is a functional option for SDCAClassifier.
type Option func(*SDCAClassifier)

// WithMaxIter sets the maximum number of optimization epochs.
func WithMaxIter(maxIter int) Option {
	return func(c *SDCAClassifier) {
		c.maxIter = maxIter
	}
}

// WithL2 sets the L2 regularization strength lambda.
func WithL2(lambda float64) Option {
	return func(c *SDCAClassifier) {
		c.lambda = lambda
	}
}

// WithTol sets the stopping tolerance on the mean dual update magnitude
// per epoch.
func WithTol(tol float64) Option {
	return func(c *SDCAClassifier) {
		c.tol = tol
	}
}

// WithSeed sets the random seed for the per-epoch sample shuffles. The same
// seed and data reproduce the same fit.
func WithSeed(seed int64) Option {
	return func(c *SDCAClassifier) {
		c.seed = seed
	}
}

// WithNormalize controls the internal max-abs feature normalization applied
// during optimization. The scaling is folded back into the stored weights, so
// Predict always operates on raw inputs. Enabled by default.
func WithNormalize(normalize bool) Option {
	return func(c *SDCAClassifier) {
		c.normalize = normalize
	}
}

// WithLossTracking enables recording the primal objective after each epoch,
// retrievable through LossHistory. Costs one extra scoring pass per epoch.
func WithLossTracking(track bool) Option {
	return func(c *SDCAClassifier) {
		c.trackLoss = track
	}
}
