package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booking-api/config"
	"booking-api/repositories"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// runServer conecta todo, arranca el HTTP y espera SIGINT/SIGTERM
func runServer(cfg *config.Config, logger *logrus.Logger) error {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	if err := migrate(db, logger); err != nil {
		return err
	}

	sessions, err := repositories.NewSessionRepository(cfg, logger)
	if err != nil {
		return err
	}

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		sessions.Close()
		return err
	}

	app := newApplication(cfg, db, logger, sessions, publisher)
	router, err := app.routes()
	if err != nil {
		return err
	}

	stopCleanup := make(chan struct{})
	app.limiter.StartCleanup(time.Minute, stopCleanup)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	runErr := serveUntilSignal(server, quit, logger)
	close(stopCleanup)

	if err := publisher.Close(); err != nil {
		logger.WithError(err).Error("Error closing publisher")
	}
	if err := sessions.Close(); err != nil {
		logger.WithError(err).Error("Error closing session store")
	}

	if runErr != nil {
		return fmt.Errorf("http server failed: %w", runErr)
	}

	logger.Info("Booking API shut down complete")
	return nil
}

// serveUntilSignal arranca el server y espera una señal o una falla del listener
// (por ejemplo, el puerto ocupado). Devuelve esa falla; nil si se apagó por señal.
func serveUntilSignal(server *http.Server, quit <-chan os.Signal, logger *logrus.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", server.Addr).Info("Booking API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var runErr error
	select {
	case runErr = <-serverErr:
		logger.WithError(runErr).Error("HTTP server failed")
	case sig := <-quit:
		logger.WithField("signal", sig.String()).Info("Shutting down Booking API")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Error shutting down server")
	}
	return runErr
}
