package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lexmanager/internal/auth"
	"lexmanager/internal/cliente"
	"lexmanager/internal/config"
	"lexmanager/internal/dashboard"
	"lexmanager/internal/db"
	"lexmanager/internal/documento"
	"lexmanager/internal/financeiro"
	httpx "lexmanager/internal/http"
	"lexmanager/internal/http/handler"
	"lexmanager/internal/jobs"
	"lexmanager/internal/logger"
	"lexmanager/internal/mail"
	"lexmanager/internal/prazo"
	"lexmanager/internal/processo"
	"lexmanager/internal/scheduler"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}

	loc, err := time.LoadLocation(cfg.AlertTZ)
	if err != nil {
		log.Fatal().Err(err).Str("tz", cfg.AlertTZ).Msg("invalid ALERT_TZ")
	}

	mailer := mail.New(cfg)
	jwtSvc := auth.NewJWT(cfg.JWTSecret)

	authSvc := &auth.Service{DB: gdb, JWT: jwtSvc, Mailer: mailer, Log: log}
	clienteSvc := &cliente.Service{DB: gdb}
	processoSvc := &processo.Service{DB: gdb}
	prazoSvc := &prazo.Service{DB: gdb, Loc: loc}
	financeiroSvc := &financeiro.Service{DB: gdb}
	documentoSvc := &documento.Service{DB: gdb, UploadDir: cfg.UploadDir}
	dashboardSvc := &dashboard.Service{DB: gdb}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue := &jobs.Repo{DB: gdb}
	worker := &jobs.Worker{
		ID:     cfg.WorkerID,
		Queue:  queue,
		Notifs: prazoSvc,
		Mailer: mailer,
		Log:    log,
	}
	go worker.Run(ctx)
	log.Info().Str("worker", cfg.WorkerID).Msg("alert worker started")

	if cfg.SchedulerEnabled {
		sched := &scheduler.Scheduler{DB: gdb, Finder: prazoSvc, Queue: queue, Log: log}
		c, err := sched.Start(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("scheduler start failed")
		}
		defer c.Stop()
	}

	router := httpx.NewRouter(httpx.Deps{
		Cfg:        &cfg,
		JWT:        jwtSvc,
		Auth:       &handler.AuthHandler{Svc: authSvc},
		Users:      &handler.UsersHandler{Svc: authSvc},
		Clientes:   &handler.ClientesHandler{Svc: clienteSvc},
		Processos:  &handler.ProcessosHandler{Svc: processoSvc},
		Prazos:     &handler.PrazosHandler{Svc: prazoSvc},
		Financeiro: &handler.FinanceiroHandler{Svc: financeiroSvc},
		Documentos: &handler.DocumentosHandler{Svc: documentoSvc},
		Dashboard:  &handler.DashboardHandler{Svc: dashboardSvc},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}
