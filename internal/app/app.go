package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"go-rest-auth-starter/internal/config"
	"go-rest-auth-starter/internal/health"
	"go-rest-auth-starter/internal/observability"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	Server        *http.Server
	Observability *observability.Runtime
	Readiness     *health.ProbeRunner
	janitor       *Janitor
}

func New(
	cfg *config.Config,
	logger *slog.Logger,
	server *http.Server,
	runtime *observability.Runtime,
	readiness *health.ProbeRunner,
	janitor *Janitor,
) *App {
	return &App{
		Config:        cfg,
		Logger:        logger,
		Server:        server,
		Observability: runtime,
		Readiness:     readiness,
		janitor:       janitor,
	}
}

// Run serves until ctx is cancelled, then drains in-flight requests and
// flushes telemetry within the configured shutdown budgets.
func (a *App) Run(ctx context.Context) error {
	if a.janitor != nil {
		a.janitor.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	a.Logger.Info("server listening", "addr", a.Server.Addr, "env", a.Config.Env)

	select {
	case err := <-errCh:
		a.StopBackgroundTasks()
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	drainCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownHTTPDrainTimeout)
	defer cancel()
	if err := a.Server.Shutdown(drainCtx); err != nil {
		a.Logger.Error("http drain failed", "error", err)
	}

	a.StopBackgroundTasks()

	obsCtx, cancelObs := context.WithTimeout(context.Background(), a.Config.ShutdownObservabilityTimeout)
	defer cancelObs()
	if err := a.Observability.Shutdown(obsCtx); err != nil {
		a.Logger.Error("observability shutdown failed", "error", err)
	}
	return nil
}

func (a *App) StopBackgroundTasks() {
	if a.janitor != nil {
		a.janitor.Stop()
	}
}
