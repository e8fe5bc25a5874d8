package main

import (
	"fmt"

	"github.com/alex65536/league/internal/database"
	"github.com/alex65536/league/internal/league"
	"github.com/alex65536/league/internal/util/style"
	"github.com/spf13/cobra"
)

var syncStatusCmd = &cobra.Command{
	Use:   "sync-status",
	Args:  cobra.ExactArgs(0),
	Short: "Persist the effective status of tournaments",
	Long: `Tournament status is derived from its dates when the tournament is read. This command
stores the derived status for every tournament whose stored status is outdated.

It is safe to run periodically, for example from cron.
`,
}

func init() {
	p := syncStatusCmd.Flags()
	optsPath := p.StringP(
		"options", "o", "",
		"options file",
	)
	if err := syncStatusCmd.MarkFlagRequired("options"); err != nil {
		panic(err)
	}

	syncStatusCmd.RunE = func(cmd *cobra.Command, _args []string) error {
		opts, err := readOptions(*optsPath)
		if err != nil {
			return err
		}
		opts.FillDefaults()
		log := makeLogger(&opts)

		db, err := database.New(log, opts.DB)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		mgr := league.NewManager(log, league.Config{DB: db}, opts.League)
		cnt, err := mgr.SyncTournamentStatuses(cmd.Context())
		if err != nil {
			return fmt.Errorf("sync statuses: %w", err)
		}
		out := style.Stdout()
		attr := style.Green
		if cnt == 0 {
			attr = style.Reset
		}
		out.Printf("%v tournaments updated\n", out.Paint(fmt.Sprint(cnt), style.Bold, attr))
		return nil
	}
}
