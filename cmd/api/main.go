package main

import (
	"context"
	"net/http"

	"github.com/devlibrary/devlib/pkg/config"
	"github.com/devlibrary/devlib/pkg/database"
	"github.com/devlibrary/devlib/pkg/migrations"
	"github.com/devlibrary/devlib/pkg/sequence"
	"github.com/devlibrary/devlib/pkg/server"
	"github.com/devlibrary/devlib/pkg/uploadstore"
	"github.com/devlibrary/devlib/pkg/version"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	log.Info("starting devlib", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	group, err := migrations.BringUpToDate(ctx, db)
	if err != nil {
		log.Err(err).Fatal("migrations error")
	}
	if group.ID == 0 {
		log.Info("no new migrations to run")
	} else {
		log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
	}

	// Bring the book ID counter in line with the catalog before serving
	// traffic, so allocation never reissues an ID after a restart.
	if err := sequence.NewService(db).Reconcile(ctx); err != nil {
		log.Err(err).Fatal("sequence reconcile error")
	}

	uploads, err := uploadstore.New(cfg.UploadsDir)
	if err != nil {
		log.Err(err).Fatal("upload store error")
	}
	log.Info("upload store initialized", logger.Data{"path": uploads.Dir()})

	srv, err := server.New(cfg, db, uploads)
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		log.Info("server started", logger.Data{"addr": srv.Addr})
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	<-graceful
	log.Info("starting graceful shutdown")

	err = srv.Shutdown(ctx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	err = db.Close()
	if err != nil {
		log.Err(err).Error("database close error")
	}
	log.Info("database closed")
}
