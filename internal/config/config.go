package config

import (
	"log"
	"os"
)

type Config struct {
	Port          string
	DBDSN         string
	WebhookSecret string
	AdminToken    string
	LogFile       string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "sellerhub.db"
	} // sqlite file in project root
	secret := os.Getenv("WEBHOOK_SECRET")
	if secret == "" {
		// placeholder keeps local runs working; real deployments must set it
		secret = "whsec_c2VsbGVyaHViLWRldi1vbmx5LXNlY3JldA=="
	}
	adminToken := os.Getenv("ADMIN_TOKEN")
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./sellerhub.log"
	}

	cfg := Config{Port: port, DBDSN: dsn, WebhookSecret: secret, AdminToken: adminToken, LogFile: logFile}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s admin_token_set=%t", cfg.Port, cfg.DBDSN, cfg.LogFile, adminToken != "")
	return cfg
}
