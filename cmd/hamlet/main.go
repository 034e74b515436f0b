package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/napolitain/hamlet/internal/config"
	"github.com/napolitain/hamlet/internal/saves"
)

// options are the flags shared by every subcommand
type options struct {
	dataDir string
	driver  string
	target  string
	slot    string
	quiet   bool
}

func newRootCmd() *cobra.Command {
	cfg, envErr := config.FromEnv()
	if envErr != nil {
		cfg = config.Default()
	}
	opts := &options{
		dataDir: cfg.DataDir,
		driver:  string(cfg.SaveDriver),
		target:  cfg.SaveTarget,
		slot:    cfg.Slot,
	}

	rootCmd := &cobra.Command{
		Use:   "hamlet",
		Short: "Hamlet idle economy",
		Long: `Play a hamlet economy from the command line. Every command loads
the save slot, applies one action and writes the slot back.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// A broken HAMLET_* variable must not fall back to the default store
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return envErr
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.dataDir, "data", "d", opts.dataDir, "Path to data directory holding catalog.yaml")
	flags.StringVar(&opts.driver, "store", opts.driver, "Save store: memory, file, sqlite, postgres, s3")
	flags.StringVar(&opts.target, "target", opts.target, "Save directory, database path, DSN or bucket")
	flags.StringVarP(&opts.slot, "slot", "s", opts.slot, "Save slot")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Minimal output")

	s3 := cfg.S3
	rootCmd.AddCommand(
		newCmd(opts, s3),
		statusCmd(opts, s3),
		clickCmd(opts, s3),
		sellCmd(opts, s3),
		buyCmd(opts, s3),
		demolishCmd(opts, s3),
		upgradeCmd(opts, s3),
		renameCmd(opts, s3),
		autoSellCmd(opts, s3),
		tickCmd(opts, s3),
		planCmd(opts, s3),
	)
	return rootCmd
}

func (o *options) saveOptions(s3 saves.S3Config) saves.Options {
	return saves.Options{Driver: saves.Driver(o.driver), Target: o.target, S3: s3}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorColor.Sprint("Error: ", err))
		os.Exit(1)
	}
}
