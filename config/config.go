package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config enthält alle Konfigurationsparameter aus Umgebungsvariablen.
// Alle Werte haben Defaults, damit das Tool auch ohne .env lauffähig ist.
type Config struct {
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5433"`
	DBName     string `envconfig:"DB_NAME" default:"academic"`
	DBUser     string `envconfig:"DB_USER" default:"academic"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"academic"`

	// GROBID-Service für die strukturierte Header-Extraktion
	GrobidURL string `envconfig:"GROBID_URL" default:"http://localhost:8070"`

	// Anzahl der PDF-Seiten, aus denen Rohtext gezogen wird
	TextMaxPages int `envconfig:"TEXT_MAX_PAGES" default:"2"`
}

// DSN gibt den Data Source Name für die PostgreSQL-Verbindung zurück.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Load lädt die Konfiguration aus den Umgebungsvariablen.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return &c, err
}
