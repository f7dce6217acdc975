package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/thebargaintenor/mnist-mlnet/dataset"
	"github.com/thebargaintenor/mnist-mlnet/linear"
	"github.com/thebargaintenor/mnist-mlnet/metrics"
	"github.com/thebargaintenor/mnist-mlnet/pkg/errors"
	"github.com/thebargaintenor/mnist-mlnet/pkg/log"
	"github.com/thebargaintenor/mnist-mlnet/preprocessing"
)

type trainConfig struct {
	trainFile     string
	testFile      string
	maxIter       int
	l2            float64
	tol           float64
	seed          int64
	standardize   bool
	sampleIndices []int
	lossCurve     string
}

// runTrain executes the whole batch job: load, fit, evaluate, report. Any
// error aborts the run.
func runTrain(out io.Writer, cfg trainConfig) error {
	trainDigits, err := dataset.LoadDigits(cfg.trainFile, true, ',')
	if err != nil {
		return err
	}
	Xtrain, yTrain := dataset.Matrices(trainDigits)
	slog.Info("training data loaded",
		log.SamplesKey, len(trainDigits),
		log.FeaturesKey, dataset.PixelCount,
	)

	encoder := preprocessing.NewLabelEncoder()
	yEncoded, err := encoder.FitTransform(yTrain)
	if err != nil {
		return err
	}

	features, err := preprocessing.Concatenate(Xtrain)
	if err != nil {
		return err
	}

	var steps []preprocessing.Step
	if cfg.standardize {
		steps = append(steps, preprocessing.Step{
			Name:        "standardize",
			Transformer: preprocessing.NewStandardScaler(),
		})
	}

	clf := linear.NewSDCAClassifier(
		linear.WithMaxIter(cfg.maxIter),
		linear.WithL2(cfg.l2),
		linear.WithTol(cfg.tol),
		linear.WithSeed(cfg.seed),
		linear.WithLossTracking(cfg.lossCurve != ""),
	)
	pipe, err := preprocessing.NewPipeline(clf, steps...)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := pipe.Fit(features, yEncoded); err != nil {
		return err
	}
	slog.Info("training complete",
		log.OperationKey, "fit",
		log.ClassesKey, encoder.NClasses(),
		log.DurationKey, time.Since(start).Milliseconds(),
		"epochs", clf.NIter(),
	)

	if cfg.lossCurve != "" {
		if err := writeLossCurve(cfg.lossCurve, clf.LossHistory()); err != nil {
			return err
		}
	}

	testDigits, err := dataset.LoadDigits(cfg.testFile, true, ',')
	if err != nil {
		return err
	}
	Xtest, yTest := dataset.Matrices(testDigits)

	// Fails fast if the test set holds a label the encoder never saw.
	yTestEncoded, err := encoder.Transform(yTest)
	if err != nil {
		return err
	}
	testFeatures, err := preprocessing.Concatenate(Xtest)
	if err != nil {
		return err
	}

	result, err := metrics.EvaluateClassifier(pipe, testFeatures, yTestEncoded)
	if err != nil {
		return err
	}
	printMetrics(out, result)

	samples, err := dataset.SampleAt(testDigits, cfg.sampleIndices)
	if err != nil {
		return err
	}
	return printSamplePredictions(out, pipe, encoder, samples)
}

// printMetrics writes the four aggregate metric lines.
func printMetrics(out io.Writer, m *metrics.ClassificationMetrics) {
	fmt.Fprintf(out, "MicroAccuracy:    %.4f\n", m.MicroAccuracy)
	fmt.Fprintf(out, "MacroAccuracy:    %.4f\n", m.MacroAccuracy)
	fmt.Fprintf(out, "LogLoss:          %.4f\n", m.LogLoss)
	fmt.Fprintf(out, "LogLossReduction: %.4f\n", m.LogLossReduction)
}

// printSamplePredictions writes a header of class labels followed by one line
// per sampled digit: its true label and the per-class scores, tab-separated.
func printSamplePredictions(out io.Writer, pipe *preprocessing.Pipeline, encoder *preprocessing.LabelEncoder, samples []dataset.Digit) error {
	if len(samples) == 0 {
		return nil
	}

	X, _ := dataset.Matrices(samples)
	features, err := preprocessing.Concatenate(X)
	if err != nil {
		return err
	}
	proba, err := pipe.PredictProba(features)
	if err != nil {
		return errors.Wrap(err, "scoring sampled digits")
	}

	fmt.Fprint(out, "\nTruth")
	for _, class := range encoder.Classes() {
		fmt.Fprintf(out, "\t%g", class)
	}
	fmt.Fprintln(out)

	_, nClasses := proba.Dims()
	for i, d := range samples {
		fmt.Fprintf(out, "%g", d.Label)
		for k := 0; k < nClasses; k++ {
			fmt.Fprintf(out, "\t%.4f", proba.At(i, k))
		}
		fmt.Fprintln(out)
	}
	return nil
}
