package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Model
	GoogleProjectID string `env:"GOOGLE_CLOUD_PROJECT,required"`
	VertexLocation  string `env:"VERTEX_LOCATION" envDefault:"us-central1"`
	GeminiModel     string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash-exp"`

	// Sessions
	SessionJWTSecret string `env:"SESSION_JWT_SECRET,required"`

	// Records: JSON file by default, Postgres when DATABASE_URL is set.
	DataFile    string `env:"MEDICAL_DATA_FILE" envDefault:"user_medical_data.json"`
	DatabaseURL string `env:"DATABASE_URL"`

	// Optional backends
	RedisAddr    string `env:"REDIS_ADDR"`
	UploadBucket string `env:"UPLOAD_BUCKET"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
