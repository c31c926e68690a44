package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/amaumene/animesearch/internal/constants"
	"github.com/amaumene/animesearch/internal/handlers"
	"github.com/amaumene/animesearch/internal/middleware"
	"github.com/amaumene/animesearch/internal/services"
	"github.com/amaumene/animesearch/pkg/security"
)

func RunServeCommand() *cobra.Command {
	var port string

	command := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP search API",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := InitializeServices(true)
			if err != nil {
				return err
			}
			defer container.Close()

			if port != "" {
				container.Config.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, container)
		},
	}

	command.Flags().StringVar(&port, "port", "", "port to listen on (overrides PORT)")
	return command
}

func newRouter(container *services.Container) *gin.Engine {
	if container.Config.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(container.Logger))
	r.Use(middleware.CORS())
	// promhttp compresses on its own
	r.Use(middleware.Gzip("/metrics"))
	r.Use(middleware.Timeout(constants.SearchTimeout))

	handlers.New(container, container.Config).RegisterRoutes(r)
	return r
}

func serve(ctx context.Context, container *services.Container) error {
	log := container.Logger

	container.FeedCache.StartCleanup(ctx, constants.CacheCleanupInterval)

	if key := container.Config.APIKey; key != "" {
		log.Infof("[App] search API requires key %s", security.NewAPIKeyValidator().MaskAPIKey(key))
	}

	srv := &http.Server{
		Addr:    ":" + container.Config.Port,
		Handler: newRouter(container),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("[App] starting HTTP server on port %s", container.Config.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
	}

	log.Infof("[App] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown")
	}
	return nil
}
