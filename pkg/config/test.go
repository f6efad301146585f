package config

func loadTestConfig(cfg *Config) {
	cfg.DatabaseFilePath = "file::memory:?cache=shared"
	cfg.FrontendURL = "http://localhost:5173"
	cfg.JWTSecret = "test-secret"
	cfg.ServerHost = "127.0.0.1"
	// Port 0 lets the OS pick a free port so parallel test runs don't collide.
	cfg.ServerPort = 0
}
