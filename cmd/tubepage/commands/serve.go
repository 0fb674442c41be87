package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/friendsofgo/errors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nrfta/tubepage/internal/api"
	"github.com/nrfta/tubepage/internal/db"
	"github.com/nrfta/tubepage/internal/identity"
	"github.com/nrfta/tubepage/internal/logging"
	"github.com/nrfta/tubepage/internal/metrics"
	"github.com/nrfta/tubepage/internal/store"
)

func newServeCommand(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := setup(ctx, *configFile)
			if err != nil {
				return err
			}
			defer rt.close()

			return serve(ctx, rt)
		},
	}
}

func serve(ctx context.Context, rt *runtime) error {
	if rt.cfg.Server.Mode != "" {
		gin.SetMode(rt.cfg.Server.Mode)
	}

	var exec boil.ContextExecutor = rt.db
	if rt.cfg.Breaker.Enabled {
		exec = db.NewBreaker(rt.db, rt.cfg.Breaker, rt.log)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	server := api.NewServer(api.Deps{
		Store: store.New(exec,
			store.WithLogger(rt.log),
			store.WithMetrics(m),
			store.WithPageConfig(rt.cfg.Paging.PageConfig()),
		),
		Resolver:    identity.NewResolver(rt.cfg.Auth.Secret, rt.cfg.Auth.Issuer, exec),
		DB:          rt.db,
		Metrics:     m,
		Gatherer:    reg,
		Log:         rt.log,
		CORSOrigins: rt.cfg.Server.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         rt.cfg.Server.Addr,
		Handler:      server.Handler(),
		ReadTimeout:  rt.cfg.Server.ReadTimeout,
		WriteTimeout: rt.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		rt.log.WithFields(logrus.Fields{
			"addr":             srv.Addr,
			logging.VersionKey: Version,
		}).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server stopped")
	case <-ctx.Done():
	}

	rt.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
