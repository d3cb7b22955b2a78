package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string

	UploadDir string

	// AlertTZ is the IANA zone all due-date window arithmetic runs in.
	// Host-local time is deliberately not used.
	AlertTZ          string
	SchedulerEnabled bool
	WorkerID         string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          mustGetenv("DATABASE_URL"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",

		MailHost: getenv("MAIL_HOST", "localhost"),
		MailPort: getenvInt("MAIL_PORT", 1025),
		MailUser: getenv("MAIL_USER", ""),
		MailPass: getenv("MAIL_PASS", ""),
		MailFrom: getenv("MAIL_FROM", "noreply@lexmanager.local"),

		UploadDir: getenv("UPLOAD_DIR", "./uploads"),

		AlertTZ:          getenv("ALERT_TZ", "UTC"),
		SchedulerEnabled: getenv("SCHEDULER_ENABLED", "true") == "true",
		WorkerID:         getenv("WORKER_ID", "worker-1"),
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	cfg.JWTSecret = mustGetenv("JWT_SECRET")
	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}
