package main

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/hiring-board/internal/api"
	"github.com/maxaizer/hiring-board/internal/auth"
	"github.com/maxaizer/hiring-board/internal/config"
	"github.com/maxaizer/hiring-board/internal/docstore"
	"github.com/maxaizer/hiring-board/internal/logger"
	"github.com/maxaizer/hiring-board/internal/metrics"
	"github.com/maxaizer/hiring-board/internal/notify"
	"github.com/maxaizer/hiring-board/internal/repositories"
	"github.com/maxaizer/hiring-board/internal/services"
	log "github.com/sirupsen/logrus"
	"os/signal"
	"syscall"
	"time"
)

func runNotifier(cfg config.NotifyConfig, bus EventBus.Bus) {
	if !cfg.Enabled() {
		log.Info("telegram notifications disabled")
		return
	}

	if _, err := notify.NewNotifier(cfg.TelegramToken, cfg.AdminChatID, bus); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).Errorf("can't create notifier: %v", err)
	}
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metricsServer := metrics.StartMetricsServer(cfg.App.MetricsAddr)

	dbContext, err := docstore.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	paths := docstore.Paths{AppID: cfg.App.AppID}
	bus := EventBus.New()

	users := repositories.NewCachedUsers(repositories.NewUsersRepository(dbContext, paths))
	jobs := repositories.NewJobsRepository(dbContext, paths, bus)
	applications := repositories.NewApplicationsRepository(dbContext, paths, jobs, bus)

	provider, err := auth.NewProvider(dbContext, paths, auth.NewHasher(auth.DefaultHashParams), bus, cfg.App.SessionTTL)
	if err != nil {
		log.Fatalf("can't create auth provider: %v", err)
	}
	if err = provider.OnAuthStateChanged(users.OnAuthStateChanged); err != nil {
		log.Fatalf("can't subscribe to auth state: %v", err)
	}

	cleaner, err := services.NewSessionsCleaner(provider)
	if err != nil {
		log.Fatalf("can't create sessions cleaner: %v", err)
	}
	defer cleaner.Stop()

	runNotifier(cfg.Notify, bus)

	server, err := api.NewServer(cfg.App.HttpAddr, cfg.App.SignInRatePerSecond, api.Dependencies{
		Auth:         provider,
		Sessions:     services.NewSessionResolver(users),
		Jobs:         jobs,
		Applications: applications,
		Health:       dbContext,
	})
	if err != nil {
		log.Fatalf("can't create http server: %v", err)
	}

	go func() {
		if err := server.Run(); err != nil {
			log.Fatalf("http server stopped: %v", err)
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down services...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("http server shutdown: %v", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("metrics server shutdown: %v", err)
	}
	bus.WaitAsync()
	log.Info("Services stopped.")
}
