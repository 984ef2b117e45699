package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github/itish2003/localassist/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	dataDir  string
	logLevel string

	cfg *config.Config
)

var errNoCommand = errors.New("no command given")

var rootCmd = &cobra.Command{
	Use:   "localassist",
	Short: "Local multimodal assistant for papers and images",
	Long: `Organizes PDF papers into topic folders and indexes papers and images
so they can be found later with a natural-language query.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == cmd.Root() {
			return nil
		}
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Help()
		return errNoCommand
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml or $HOME/.localassist/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data_dir", "", "data directory (overrides data_dir from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log_level", "", "log level: debug, info, warn, error")
}

func loadConfig(cmd *cobra.Command) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("data_dir") {
		loaded.DataDir = dataDir
	}
	if cmd.Flags().Changed("log_level") {
		loaded.LogLevel = logLevel
	}
	if err := loaded.Finalize(); err != nil {
		return err
	}

	level, err := logrus.ParseLevel(loaded.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	cfg = loaded
	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errNoCommand) {
			rootCmd.PrintErrln("Error:", err)
		}
		return 1
	}
	return 0
}
