package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/trunov/thumbd/internal/config"
)

func NewRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:          "thumbd",
		Short:        "Thumbnail generation worker",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "config.json", "path to config file")

	cmd.AddCommand(
		NewRunCmd(&cfgFile),
		NewMigrateCmd(&cfgFile),
		NewEnqueueCmd(&cfgFile),
		NewJobsCmd(&cfgFile),
	)
	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(file string) (*config.Config, error) {
	cfg := config.NewConfig()
	if err := cfg.Read(file); err != nil {
		return nil, err
	}
	return cfg, nil
}
