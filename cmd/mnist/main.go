// Command mnist trains a multiclass linear classifier on an MNIST digit CSV,
// evaluates it on a held-out file, and prints the metrics together with
// per-class scores for a handful of test digits.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/thebargaintenor/mnist-mlnet/pkg/log"
)

var logLevel string

func main() {
	root := &cobra.Command{
		Use:               "mnist",
		Short:             "Train and evaluate a linear digit classifier",
		PersistentPreRunE: setupLogging,
		SilenceUsage:      true,
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "logging level: debug, info, warn or error")

	root.AddCommand(trainCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	return log.SetupLogger(logLevel)
}

func trainCommand() *cobra.Command {
	var cfg trainConfig

	cmd := &cobra.Command{
		Use:   "train --train-file mnist_train.csv --test-file mnist_test.csv",
		Short: "Trains on the train file, evaluates on the test file, and prints sample predictions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runTrain(cmd.OutOrStdout(), cfg); err != nil {
				slog.Error("run failed", log.ErrAttr(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfg.trainFile, "train-file", "i", "", "training data CSV")
	cmd.Flags().StringVarP(&cfg.testFile, "test-file", "t", "", "held-out test data CSV")
	cmd.Flags().IntVar(&cfg.maxIter, "max-iter", 50, "maximum optimization epochs")
	cmd.Flags().Float64Var(&cfg.l2, "l2", 1e-4, "L2 regularization strength")
	cmd.Flags().Float64Var(&cfg.tol, "tol", 1e-4, "stopping tolerance on the mean dual update")
	cmd.Flags().Int64Var(&cfg.seed, "seed", 1, "random seed for the optimizer shuffles")
	cmd.Flags().BoolVar(&cfg.standardize, "standardize", false, "standardize pixel columns before training")
	cmd.Flags().IntSliceVar(&cfg.sampleIndices, "sample-index", []int{5, 16, 28, 63, 129}, "test rows to print predictions for")
	cmd.Flags().StringVar(&cfg.lossCurve, "loss-curve", "", "write a training loss curve PNG to this path")

	_ = cmd.MarkFlagRequired("train-file")
	_ = cmd.MarkFlagRequired("test-file")

	return cmd
}
