package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Decron/SheetFire/internal/client"
	"github.com/Decron/SheetFire/internal/config"
	"github.com/Decron/SheetFire/internal/grid"
	"github.com/Decron/SheetFire/internal/logging"
	"github.com/Decron/SheetFire/internal/push"
	"github.com/Decron/SheetFire/internal/settings"
)

type pushFlags struct {
	file         string
	settingsPath string
	endpoint     string
	collection   string
	idField      string
	includeID    bool
	secret       string
	startRow     int
	rowCount     int
	dryRun       bool
	maxErrors    int
	timeout      time.Duration
}

func pushCmd() *cobra.Command {
	var f pushFlags
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push CSV rows to a write endpoint",
		Long: `Push reads a CSV file whose first row is the header, locates the
identifier column, and sends one write per data row to the endpoint.
Rows with a blank identifier are skipped; one row's failure never
aborts the batch.

Endpoint, collection, identifier field, and inclusion flag resolve from
flags, then the persisted settings file, then built-in defaults. The
secret is taken from --secret, the SHEETFIRE_SECRET environment
variable, or an interactive prompt; it is never written to the settings
file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPush(f)
		},
	}

	cmd.Flags().StringVar(&f.file, "file", "", "CSV file to push (required)")
	cmd.Flags().StringVar(&f.settingsPath, "settings", ".sheetfire.json", "persisted settings file")
	cmd.Flags().StringVar(&f.endpoint, "endpoint", "", "write endpoint URL (overrides settings)")
	cmd.Flags().StringVar(&f.collection, "collection", "", "target collection (overrides settings)")
	cmd.Flags().StringVar(&f.idField, "id-field", "", "identifier column name (overrides settings)")
	cmd.Flags().BoolVar(&f.includeID, "include-id", false, "also write the identifier under its own field name")
	cmd.Flags().StringVar(&f.secret, "secret", "", "shared secret (falls back to SHEETFIRE_SECRET, then a prompt)")
	cmd.Flags().IntVar(&f.startRow, "start", 2, "first data row, 1-based (row 1 is the header)")
	cmd.Flags().IntVar(&f.rowCount, "count", 0, "rows to push (0 = through the last row)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "validate server-side without persisting")
	cmd.Flags().IntVar(&f.maxErrors, "max-errors", 10, "error lines to print before collapsing the rest")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "overall batch timeout (0 = none)")
	cmd.MarkFlagRequired("file")
	return cmd
}

func runPush(f pushFlags) error {
	logging.Setup("info", "text")

	eff, err := resolveEffective(f)
	if err != nil {
		return err
	}
	if eff.Secret == "" {
		return fmt.Errorf("no secret provided; aborting before any writes")
	}

	csv, err := grid.OpenCSV(f.file)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.file, err)
	}

	count := f.rowCount
	if count <= 0 {
		count = csv.RowCount() - (f.startRow - 2)
		if count < 0 {
			count = 0
		}
	}

	c := client.New(eff.Endpoint, http.DefaultClient)
	p := push.New(csv, c, eff, slog.Default())

	ctx := context.Background()
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	slog.Info("pushing rows",
		"file", f.file,
		"endpoint", eff.Endpoint,
		"collection", eff.Collection,
		"start", f.startRow,
		"count", count,
		"dry_run", f.dryRun,
	)

	summary, err := p.Run(ctx, f.startRow, count, client.Credential{Secret: eff.Secret}, f.dryRun)
	if err != nil {
		return err
	}

	fmt.Println(summary.Report(f.maxErrors))
	if summary.SkippedErrors > 0 {
		return fmt.Errorf("%d row(s) failed", summary.SkippedErrors)
	}
	return nil
}

// resolveEffective layers flags over the persisted settings file and the
// built-in defaults. The secret never comes from the settings file.
func resolveEffective(f pushFlags) (config.Effective, error) {
	st, err := settings.OpenFile(f.settingsPath)
	if err != nil {
		return config.Effective{}, fmt.Errorf("open settings %s: %w", f.settingsPath, err)
	}

	local, legacy := config.SnapshotsFromStore(st)
	eff := config.Resolve(local, legacy, resolveSecret(f.secret))

	if f.endpoint != "" {
		eff.Endpoint = f.endpoint
	}
	if f.collection != "" {
		eff.Collection = f.collection
	}
	if f.idField != "" {
		eff.IDField = f.idField
	}
	if f.includeID {
		eff.IncludeIDField = true
	}
	return eff, nil
}

// resolveSecret checks the flag, then the environment, then prompts. An
// empty answer stays empty; the caller aborts before any writes.
func resolveSecret(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("SHEETFIRE_SECRET"); env != "" {
		return env
	}
	fmt.Fprint(os.Stderr, "secret: ")
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}
