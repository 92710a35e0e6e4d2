package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"ledgerbot/internal/access"
	"ledgerbot/internal/bot"
	"ledgerbot/internal/config"
	"ledgerbot/internal/ledger"
	"ledgerbot/internal/logging"
	"ledgerbot/internal/report"
	"ledgerbot/internal/store"
	"ledgerbot/internal/telegram"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)

	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal().Err(err).Msg("load bot config failed")
	}
	opsCfg, err := config.LoadOps()
	if err != nil {
		log.Fatal().Err(err).Msg("load ops config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}
	if err := st.Bootstrap(ctx); err != nil {
		log.Fatal().Err(err).Msg("schema bootstrap failed")
	}

	eng := ledger.New(st)
	resolver := access.NewResolver(st, cfg.MasterID)
	registry := access.NewRegistry(st, resolver)

	client := telegram.NewClient(cfg.APIBaseURL, cfg.Token)

	var dispatcher *bot.Dispatcher
	scheduler := report.NewScheduler(func(ctx context.Context, chatID int64) {
		dispatcher.SendDailyReport(ctx, chatID)
	})
	defer scheduler.Close()
	dispatcher = bot.New(client, eng, resolver, registry, scheduler, st, cfg.MasterID)

	jobs, err := st.ListReportJobs(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("list report jobs failed")
	}
	for _, j := range jobs {
		scheduler.Set(j.ChatID, j.Hour, j.Minute)
	}
	log.Info().Int("jobs", len(jobs)).Msg("report schedules restored")

	opsServer := &http.Server{
		Addr:              opsCfg.HTTPAddr,
		Handler:           newRouter(st),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		log.Info().Str("addr", opsCfg.HTTPAddr).Msg("ops http listening")
		if err := opsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("ops server stopped")
		}
	}()

	poller := &telegram.Poller{
		Client:  client,
		Handler: dispatcher,
		Timeout: cfg.PollTimeout,
	}
	log.Info().Int64("master_id", cfg.MasterID).Msg("polling for updates")
	poller.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("ops server shutdown")
	}
	log.Info().Msg("bot stopped")
}
