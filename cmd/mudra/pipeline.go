package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/dataset"
	"github.com/ayusman/mudra/internal/input"
	"github.com/ayusman/mudra/internal/model"
	"github.com/ayusman/mudra/internal/store"
)

// segmentCmd is pipeline stage 1: write segmented hand images from a raw
// labeled corpus.
func segmentCmd() *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "segment",
		Short: "write segmented hand images from a raw labeled corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			enc, err := dataset.NewEncoder(cfg)
			if err != nil {
				return err
			}
			n, err := dataset.NewBuilder(enc).ExportSegmented(in, out)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{"images": n, "out": out}).Info("segmentation finished")
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "raw corpus root (one subdirectory per gesture label)")
	cmd.Flags().StringVar(&out, "out", "", "output directory for segmented images")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}

// datasetCmd is pipeline stage 2: build the labeled feature dataset.
func datasetCmd() *cobra.Command {
	var corpus, out string

	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "build a feature dataset from a labeled corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			enc, err := dataset.NewEncoder(cfg)
			if err != nil {
				return err
			}
			ds, err := dataset.NewBuilder(enc).Build(corpus)
			if err != nil {
				return err
			}
			if err := ds.Save(out); err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"samples": len(ds.Samples),
				"labels":  ds.Labels(),
				"out":     out,
			}).Info("dataset written")
			return nil
		},
	}
	cmd.Flags().StringVar(&corpus, "corpus", "", "corpus root (one subdirectory per gesture label)")
	cmd.Flags().StringVar(&out, "out", "", "output dataset file")
	cmd.MarkFlagRequired("corpus")
	cmd.MarkFlagRequired("out")
	return cmd
}

// trainCmd is pipeline stage 3: fit the classifier families and keep the best.
func trainCmd() *cobra.Command {
	var (
		datasetPath string
		out         string
		plotPath    string
		seed        int64
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "train classifiers on a dataset and save the best model",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := dataset.Load(datasetPath)
			if err != nil {
				return err
			}

			trainer := &model.Trainer{Seed: seed, PlotPath: plotPath}
			trained, err := trainer.Train(ds)
			if err != nil {
				return err
			}
			if err := trained.Save(out); err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"family":   trained.Family,
				"accuracy": trained.Accuracy,
				"out":      out,
			}).Info("model written")

			// Record the run; history is convenience, not correctness.
			st, err := openStore()
			if err != nil {
				logrus.WithError(err).Warn("training run not recorded")
				return nil
			}
			defer st.Close()
			params, _ := json.Marshal(trained.Params)
			if _, err := st.Runs().Record(store.Run{
				DatasetPath: datasetPath,
				Family:      trained.Family,
				Accuracy:    trained.Accuracy,
				Params:      string(params),
			}); err != nil {
				logrus.WithError(err).Warn("training run not recorded")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&datasetPath, "dataset", "", "dataset file produced by 'mudra dataset'")
	cmd.Flags().StringVar(&out, "out", "", "output model file")
	cmd.Flags().StringVar(&plotPath, "plot", "", "optional accuracy bar chart (PNG)")
	cmd.Flags().Int64Var(&seed, "seed", 42, "train/test split seed")
	cmd.MarkFlagRequired("dataset")
	cmd.MarkFlagRequired("out")
	return cmd
}

// runCmd is pipeline stage 4: live classification and input dispatch.
func runCmd() *cobra.Command {
	var (
		modelPath string
		cameraID  int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run live gesture classification and dispatch input events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("camera") {
				cfg.CameraID = cameraID
			}

			// A feature-parameter mismatch must fail here, before the camera
			// is touched.
			trained, err := model.Load(modelPath, cfg.Feature)
			if err != nil {
				return err
			}
			logrus.WithFields(logrus.Fields{
				"family":  trained.Family,
				"classes": trained.Classes,
			}).Info("model loaded")

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := st.Actions().Count()
			if err != nil {
				return err
			}
			if n == 0 {
				logrus.Info("seeding default gesture-action bindings")
				if err := st.Actions().SeedDefaults(); err != nil {
					return err
				}
			}
			actions, err := st.Actions().List()
			if err != nil {
				return err
			}

			dispatcher := &input.Router{
				OS:      input.RobotDispatcher{},
				Command: input.NewCommandDispatcher(time.Duration(cfg.CommandTimeoutMs) * time.Millisecond),
			}

			live, err := app.New(cfg, capture.NewWebcam(cfg.CameraID), trained, dispatcher, actions)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := live.Run(ctx); err != nil {
				return errors.Wrap(err, "live classification failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "model file produced by 'mudra train'")
	cmd.Flags().IntVar(&cameraID, "camera", 0, "camera device ID")
	cmd.MarkFlagRequired("model")
	return cmd
}
