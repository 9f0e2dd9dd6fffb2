// Package cli wires the tally commands. The root command doubles as the
// replay command: `tally transactions.csv` and `tally replay transactions.csv`
// are the same run.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tally-ledger/tally/internal/config"
)

var (
	cfgFile string
	verbose bool

	cfg config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tally [FILE]",
	Short: "Replay a transaction stream into final account snapshots",
	Long: `Tally folds an ordered CSV stream of deposits, withdrawals, disputes,
resolves, and chargebacks over an empty account store and prints one
snapshot row per client: available, held, and total funds plus the locked
flag. All state derives from the input — nothing is carried between runs.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runReplay(cmd, args)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $TALLY_HOME/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		log, err = newLogger(verbose)
		if err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		return nil
	}
}

// Execute runs the CLI. Errors are printed to stderr by the caller.
func Execute() error {
	defer func() {
		if log != nil {
			log.Sync()
		}
	}()
	return rootCmd.Execute()
}

// newLogger builds the stderr logger. Stdout must stay a clean CSV stream,
// so nothing is ever logged there.
func newLogger(debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return zc.Build()
}
