package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"syscall"

	"github.com/BurntSushi/toml"
	"github.com/alex65536/league/internal/database"
	"github.com/alex65536/league/internal/feed"
	"github.com/alex65536/league/internal/league"
	"github.com/alex65536/league/internal/userauth"
	"github.com/alex65536/league/internal/util/signal"
	"github.com/alex65536/league/internal/webui"
	"github.com/itbasis/go-clock"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Args:  cobra.ExactArgs(0),
	Short: "Start league server",
	Long: `League is a web application to manage a sports league.

This command runs the league web server.
`,
}

func loadSecrets(path string) (Secrets, error) {
	rawSecrets, err := os.ReadFile(path)
	if err != nil {
		rawSecrets = nil
		if !errors.Is(err, os.ErrNotExist) {
			return Secrets{}, fmt.Errorf("read secrets: %w", err)
		}
	}
	var secrets Secrets
	if err := toml.Unmarshal(rawSecrets, &secrets); err != nil {
		return Secrets{}, fmt.Errorf("unmarshal secrets: %w", err)
	}
	secretsChanged, err := secrets.GenerateMissing()
	if err != nil {
		return Secrets{}, fmt.Errorf("generate secrets: %w", err)
	}
	if secretsChanged {
		newRawSecrets, err := toml.Marshal(&secrets)
		if err != nil {
			return Secrets{}, fmt.Errorf("marshal secrets: %w", err)
		}
		if err := os.WriteFile(path, newRawSecrets, 0600); err != nil {
			return Secrets{}, fmt.Errorf("write secrets: %w", err)
		}
	}
	return secrets, nil
}

func init() {
	p := serverCmd.Flags()
	optsPath := p.StringP(
		"options", "o", "",
		"options file",
	)
	secretsPath := p.StringP(
		"secrets", "s", "",
		"secrets file",
	)
	if err := serverCmd.MarkFlagRequired("options"); err != nil {
		panic(err)
	}
	if err := serverCmd.MarkFlagRequired("secrets"); err != nil {
		panic(err)
	}

	serverCmd.RunE = func(cmd *cobra.Command, _args []string) error {
		secrets, err := loadSecrets(*secretsPath)
		if err != nil {
			return err
		}
		opts, err := readOptions(*optsPath)
		if err != nil {
			return err
		}
		if err := opts.MixSecrets(&secrets); err != nil {
			return fmt.Errorf("mix secrets into options: %w", err)
		}
		opts.FillDefaults()

		log := makeLogger(&opts)

		ctx, cancel := signal.NotifyContext(context.Background(), log, os.Interrupt, syscall.SIGTERM)
		defer cancel()

		db, err := database.New(log, opts.DB)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()
		clk := clock.New()
		userMgr, err := userauth.NewManager(log, userauth.ManagerConfig{
			DB:    db,
			Clock: clk,
		}, opts.Users)
		if err != nil {
			return fmt.Errorf("create user manager: %w", err)
		}
		defer userMgr.Close()

		hub := feed.NewHub()
		defer hub.Close()
		leagueMgr := league.NewManager(log, league.Config{
			DB:       db,
			Clock:    clk,
			Listener: hub,
		}, opts.League)

		mux := http.NewServeMux()
		if err := webui.Handle(ctx, log, mux, opts.Prefix, webui.Config{
			League:              leagueMgr,
			UserManager:         userMgr,
			Feed:                hub,
			SessionStoreFactory: db,
		}, opts.WebUI); err != nil {
			return fmt.Errorf("handle webui: %w", err)
		}

		servs, err := newServers(ctx, log, &opts, mux)
		if err != nil {
			return fmt.Errorf("create servers: %w", err)
		}
		servs.Go()
		defer servs.Shutdown()

		<-ctx.Done()
		return nil
	}
}
