package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/medogram/medoterm/internal/api"
	"github.com/medogram/medoterm/internal/app"
	"github.com/medogram/medoterm/internal/auth"
	"github.com/medogram/medoterm/internal/bus"
	"github.com/medogram/medoterm/internal/chat"
	"github.com/medogram/medoterm/internal/feed"
	"github.com/medogram/medoterm/internal/payment"
	"github.com/medogram/medoterm/internal/profile"
	"github.com/medogram/medoterm/internal/session"
	"github.com/medogram/medoterm/internal/store"
	"github.com/medogram/medoterm/internal/tui"
	"github.com/medogram/medoterm/internal/visit"
	"github.com/medogram/medoterm/internal/wallet"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	flag.Parse()

	profileName := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(profileName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var ui *tui.App
	fxApp := fx.New(
		fx.NopLogger,
		app.Module(app.Params{ProfileName: profileName}),
		fx.Invoke(func(
			s *session.Store,
			client *api.Client,
			flow *auth.Flow,
			cs *chat.Session,
			list *feed.List,
			wizard *visit.Wizard,
			pay *payment.Initiator,
			w *wallet.Service,
			db *store.DB,
			b *bus.Bus,
			logger *zap.Logger,
		) {
			ui = tui.NewApp(tui.Deps{
				ProfileName: profileName,
				Session:     s,
				API:         client,
				Flow:        flow,
				Chat:        cs,
				Feed:        list,
				Wizard:      wizard,
				Payment:     pay,
				Wallet:      w,
				Store:       db,
				Bus:         b,
				Logger:      logger,
			})
		}),
	)

	startCtx := context.Background()
	if err := fxApp.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	runErr := ui.Run()
	ui.Stop()
	if err := fxApp.Stop(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}
