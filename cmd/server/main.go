package main

import (
	"github.com/rs/zerolog/log"

	"github.com/greenlab/leafscan/internal/advice"
	"github.com/greenlab/leafscan/internal/config"
	"github.com/greenlab/leafscan/internal/detector"
	"github.com/greenlab/leafscan/internal/handlers"
	"github.com/greenlab/leafscan/internal/logging"
	"github.com/greenlab/leafscan/internal/model"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.LogLevel)

	classifier := model.Load(cfg.ModelPath, cfg.MetadataPath)
	defer classifier.Close()

	det := detector.New(classifier, advice.Labels, advice.DefaultTable(), detector.Options{
		EnhanceContrast: cfg.EnhanceContrast,
		IsolateLeaf:     cfg.IsolateLeaf,
		Gate:            cfg.Gate(),
	})

	router := handlers.Router(handlers.New(det, classifier), cfg.CORSAllowOrigin)

	log.Info().Str("port", cfg.Port).Msg("starting plant disease detector API")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
