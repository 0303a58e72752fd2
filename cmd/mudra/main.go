package main

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/store"
)

var (
	configPath string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:           "mudra",
		Short:         "Hand gesture to input control",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a JSON config overlay")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(segmentCmd(), datasetCmd(), trainCmd(), runCmd(), actionsCmd(), runsCmd())

	if err := root.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

// loadConfig applies the --config overlay on top of defaults.
func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}

// dataDir returns ~/.mudra, creating it on first use.
func dataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".mudra")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// openStore opens the application database under the data directory.
func openStore() (*store.Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	return store.New(filepath.Join(dir, "mudra.db"))
}
