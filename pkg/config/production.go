package config

import (
	"os"
	"strconv"
)

func loadProductionConfig(cfg *Config) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err == nil {
		cfg.ServerPort = port
	}

	cfg.DatabaseFilePath = "/data/devlib.sqlite"
	if p := os.Getenv("DATABASE_FILE_PATH"); p != "" {
		cfg.DatabaseFilePath = p
	}

	cfg.FrontendURL = os.Getenv("FRONTEND_URL")
	if dir := os.Getenv("UPLOADS_DIR"); dir != "" {
		cfg.UploadsDir = dir
	}
}
