package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"sketch-imprint/internal/config"
	"sketch-imprint/internal/db"
	"sketch-imprint/internal/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	filePath := flag.String("file", "prompts.csv", "path to a category,text csv or a deck json file")
	category := flag.String("category", "", "deck name for json files (defaults to the file name)")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("failed to load .env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	conn, err := db.Open(cfg.DatabaseURL, db.PoolConfig{MaxOpenConns: 1})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	records, err := readPrompts(*filePath, *category)
	if err != nil {
		log.Fatal().Err(err).Str("file", *filePath).Msg("failed to read prompts")
	}

	inserted, err := db.ImportPrompts(conn, records)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to upsert prompts")
	}
	log.Info().Int("prompts", inserted).Str("file", *filePath).Msg("loaded prompts")
}

func readPrompts(path, category string) ([]db.PromptRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if category == "" {
			category = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return db.ReadPromptsJSON(file, category)
	}
	return db.ReadPromptsCSV(file)
}
