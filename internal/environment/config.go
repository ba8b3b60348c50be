// Package environment reads process configuration from .env files and
// environment variables.
package environment

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/programme-lv/activecode/internal/jobe"
	"github.com/programme-lv/activecode/internal/xdg"
)

const appName = "activecode"

type EnvConfig struct {
	JobeURL           string        `env:"JOBE_URL" envDefault:"http://localhost:4000"`
	JobeAPIKey        string        `env:"JOBE_API_KEY"`
	JobeRunPath       string        `env:"JOBE_RUN_PATH" envDefault:"/jobe/index.php/restapi/runs/"`
	JobeFilePath      string        `env:"JOBE_FILE_PATH" envDefault:"/jobe/index.php/restapi/files/"`
	JobeLanguagesPath string        `env:"JOBE_LANGUAGES_PATH" envDefault:"/jobe/index.php/restapi/languages"`
	JobeTimeout       time.Duration `env:"JOBE_TIMEOUT" envDefault:"30s"`

	DataFileDir         string `env:"DATAFILE_DIR"`
	DataFileS3Bucket    string `env:"DATAFILE_S3_BUCKET"`
	DataFileS3Prefix    string `env:"DATAFILE_S3_PREFIX"`
	DataFileConcurrency int    `env:"DATAFILE_UPLOAD_CONCURRENCY" envDefault:"8"`
	AWSRegion           string `env:"AWS_REGION" envDefault:"eu-central-1"`

	NATSURL     string `env:"NATS_URL"`
	NATSSubject string `env:"NATS_SUBJECT" envDefault:"activecode.events"`
	EventSQSURL string `env:"EVENT_SQS_URL"`

	LogLevel             slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LegacyTestPrecedence bool       `env:"LEGACY_TEST_PRECEDENCE"`
}

// LoadDotEnv loads .env from the working directory and then from the XDG
// config directories. Variables already set are never overridden and
// missing files are skipped.
func LoadDotEnv() error {
	files := []string{}
	if _, err := os.Stat(".env"); err == nil {
		files = append(files, ".env")
	}
	files = append(files, xdg.New().ConfigFiles(appName, ".env")...)
	if len(files) == 0 {
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

// ReadEnvConfig loads .env files and parses the environment.
func ReadEnvConfig() (*EnvConfig, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := env.ParseAs[EnvConfig]()
	if err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}
	if cfg.JobeURL == "" {
		return nil, errors.New("JOBE_URL must not be empty")
	}
	return &cfg, nil
}

func (c *EnvConfig) Jobe() jobe.Config {
	return jobe.Config{
		BaseURL:       c.JobeURL,
		APIKey:        c.JobeAPIKey,
		RunPath:       c.JobeRunPath,
		FilePath:      c.JobeFilePath,
		LanguagesPath: c.JobeLanguagesPath,
		Timeout:       c.JobeTimeout,
	}
}
