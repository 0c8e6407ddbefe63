package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"goterm/adapters/api"
	"goterm/adapters/flatfile"
	"goterm/adapters/postgres"
	"goterm/app"
	"goterm/domain/enrich"
	"goterm/domain/ontology"
	"goterm/internal"
	"goterm/internal/config"
	"goterm/internal/engine"
	"goterm/ports"
)

func main() {
	_ = godotenv.Load()

	logger := internal.DefaultLogger

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration failed: %v", err)
		os.Exit(1)
	}

	aspect, err := ontology.ParseAspect(cfg.Analysis.Aspect)
	if err != nil {
		logger.Error("invalid aspect: %v", err)
		os.Exit(1)
	}
	mode, err := enrich.ParseMode(cfg.Analysis.Mode)
	if err != nil {
		logger.Error("invalid mode: %v", err)
		os.Exit(1)
	}
	correction, err := enrich.ParseCorrection(cfg.Analysis.Correction)
	if err != nil {
		logger.Error("invalid correction: %v", err)
		os.Exit(1)
	}

	logger.Info("loading ontology from %s", cfg.Data.OntologyFile)
	graph, err := flatfile.LoadOBO(cfg.Data.OntologyFile)
	if err != nil {
		logger.Error("ontology load failed: %v", err)
		os.Exit(1)
	}
	logger.Info("loading associations from %s", cfg.Data.AssociationFile)
	source, err := flatfile.LoadAssociations(cfg.Data.AssociationFile)
	if err != nil {
		logger.Error("association load failed: %v", err)
		os.Exit(1)
	}

	eng, err := engine.New(engine.Config{
		PopulationSize: cfg.Analysis.PopulationSize,
		Aspect:         aspect,
		Annotation:     source,
		Graph:          graph,
	})
	if err != nil {
		logger.Error("engine construction failed: %v", err)
		os.Exit(1)
	}

	var store ports.ResultStore
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			logger.Error("database connection failed: %v", err)
			os.Exit(1)
		}
		defer db.Close()
		if _, err := db.Exec(postgres.Schema); err != nil {
			logger.Error("schema migration failed: %v", err)
			os.Exit(1)
		}
		store = postgres.NewResultRepository(db)
		logger.Info("result persistence enabled")
	}

	svc := app.NewEnrichmentService(eng, store, mode, correction)
	server := api.NewServer(svc, cfg.Analysis.Alpha)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("listening on %s", addr)
	if err := http.ListenAndServe(addr, server.Handler()); err != nil {
		logger.Error("server failed: %v", err)
		os.Exit(1)
	}
}
