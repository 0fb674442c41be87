package commands

import (
	"context"
	"database/sql"

	"github.com/friendsofgo/errors"
	"github.com/sirupsen/logrus"

	"github.com/nrfta/tubepage/internal/config"
	"github.com/nrfta/tubepage/internal/db"
	"github.com/nrfta/tubepage/internal/logging"
)

// runtime is what every command needs: config, logger and a database.
type runtime struct {
	cfg *config.Config
	log *logrus.Logger
	db  *sql.DB
}

func setup(ctx context.Context, configFile string) (*runtime, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	log, err := logging.New(cfg.Logger)
	if err != nil {
		return nil, err
	}

	conn, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	return &runtime{cfg: cfg, log: log, db: conn}, nil
}

func (r *runtime) close() {
	if err := r.db.Close(); err != nil {
		r.log.WithError(err).Warn("failed to close database")
	}
}
