package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"cardconjurer/internal/card"
	"cardconjurer/internal/cardset"
	"cardconjurer/internal/config"
	"cardconjurer/internal/imagestore"
	"cardconjurer/internal/importer"
	"cardconjurer/internal/platform/logger"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <set-id> <file>...",
		Short: "Import saved-card JSON exports into a set",
		Long: `Import reads one or more CardConjurer saved-card exports (a JSON array
of {"key": ..., "data": {...}} records) and creates a card in the set for
every record with a name. Records that cannot be imported are listed and
skipped.

Examples:
  cardctl import 3 saved-cards.json
  cardctl import 3 part1.json part2.json`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			setID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || setID <= 0 {
				return fmt.Errorf("invalid set id %q", args[0])
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Env, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
			if err != nil {
				return fmt.Errorf("connect to %s: %w", config.RedactDSN(cfg.DatabaseDSN), err)
			}
			defer pool.Close()

			images := imagestore.NewFS(cfg.MediaRoot, cfg.MediaURL, cfg.ImageWidth, cfg.ImageHeight, log)
			sets := cardset.NewService(cardset.NewPostgresRepo(pool, cfg.DBTimeout))
			cards := card.NewService(card.NewPostgresRepo(pool, cfg.DBTimeout), sets, images, log)

			report, err := importer.NewService(sets, cards, log).ImportFiles(ctx, setID, args[1:]...)
			if err != nil {
				log.Error("import failed", zap.Error(err))
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func printReport(w io.Writer, r *importer.Report) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	bold.Fprintf(w, "%s\n", r.Set)
	for _, c := range r.Imported {
		green.Fprintf(w, "  + ")
		fmt.Fprintf(w, "%s (#%d)\n", c.Name, c.ID)
	}
	for _, e := range r.Errors {
		yellow.Fprintf(w, "  ! ")
		fmt.Fprintf(w, "%s\n", e.Error())
	}
	fmt.Fprintf(w, "%d imported, %d skipped\n", r.Count(), len(r.Errors))
}
