package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tally-ledger/tally/internal/app/replay"
	"github.com/tally-ledger/tally/internal/infra/csvio"
	"github.com/tally-ledger/tally/internal/infra/memstore"
	"github.com/tally-ledger/tally/internal/infra/sqlite"
	"github.com/tally-ledger/tally/internal/ledger"
)

// ─── replay ─────────────────────────────────────────────────────────────────

var (
	flagStrict    bool
	flagAuditDB   string
	flagPrecision int
)

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Replay a transaction file and print account snapshots",
	Long: `Replay decodes the CSV transaction stream in FILE, applies every
transaction in arrival order, and writes the final account snapshots to
stdout as CSV. Any malformed row or standard transaction without an amount
aborts the run with a non-zero exit and no partial output.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	for _, fs := range []*cobra.Command{rootCmd, replayCmd} {
		fs.Flags().BoolVar(&flagStrict, "strict", false, "enable all strict gates (reject overdrafts, locked accounts, non-positive amounts)")
		fs.Flags().StringVar(&flagAuditDB, "audit-db", "", "sqlite file to export the run's journal and snapshots into")
		fs.Flags().IntVar(&flagPrecision, "precision", -1, "fractional digits in output amounts (default from config)")
	}
}

// engineOptions merges the config's strict gates with the --strict flag.
func engineOptions() ledger.Options {
	opts := ledger.Options{
		RejectOverdrafts:  cfg.Strict.RejectOverdrafts,
		RejectLocked:      cfg.Strict.RejectLocked,
		RejectNonPositive: cfg.Strict.RejectNonPositive,
	}
	if flagStrict {
		opts = ledger.Options{RejectOverdrafts: true, RejectLocked: true, RejectNonPositive: true}
	}
	return opts
}

func outputPrecision() int {
	if flagPrecision >= 0 {
		return flagPrecision
	}
	return cfg.Output.Precision
}

func auditPath() string {
	if flagAuditDB != "" {
		return flagAuditDB
	}
	return cfg.Audit.Path
}

// replayFile folds the file through a fresh engine and returns it with the
// run report.
func replayFile(path string) (*ledger.Engine, replay.Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, replay.Report{}, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	engine := ledger.New(memstore.NewJournal(), memstore.NewAccounts(), engineOptions(), log)
	report, err := replay.NewRunner(engine, log).Run(file, path)
	if err != nil {
		return nil, report, err
	}
	return engine, report, nil
}

// exportAudit writes the audit export when a path is configured.
func exportAudit(engine *ledger.Engine, report replay.Report) error {
	path := auditPath()
	if path == "" {
		return nil
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ExportRun(report, engine.Journal(), engine.Accounts()); err != nil {
		return fmt.Errorf("audit export: %w", err)
	}
	log.Info("audit export written",
		zap.String("path", path),
		zap.String("run_id", report.RunID.String()),
	)
	return nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	engine, report, err := replayFile(args[0])
	if err != nil {
		return err
	}

	writer := csvio.NewWriter(os.Stdout, outputPrecision())
	if err := writer.WriteAccounts(engine.Accounts().Snapshot()); err != nil {
		return fmt.Errorf("write snapshots: %w", err)
	}

	return exportAudit(engine, report)
}
