package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost             string
	DBUser             string
	DBPassword         string
	DBName             string
	DBPort             string
	AppPort            string
	AppEnv             string
	JWTSecret          string
	UploadDir          string
	OnboardingFailMode string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:             os.Getenv("DB_HOST"),
		DBUser:             os.Getenv("DB_USER"),
		DBPassword:         os.Getenv("DB_PASSWORD"),
		DBName:             os.Getenv("DB_NAME"),
		DBPort:             os.Getenv("DB_PORT"),
		AppPort:            os.Getenv("APP_PORT"),
		AppEnv:             os.Getenv("APP_ENV"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		UploadDir:          os.Getenv("UPLOAD_DIR"),
		OnboardingFailMode: os.Getenv("ONBOARDING_FAIL_MODE"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	if cfg.UploadDir == "" {
		cfg.UploadDir = "./uploads"
	}

	// Source behavior is fail-open on onboarding status fetch errors;
	// keep that as the default unless explicitly set to deny.
	if cfg.OnboardingFailMode != "deny" {
		cfg.OnboardingFailMode = "allow"
	}

	return cfg
}
