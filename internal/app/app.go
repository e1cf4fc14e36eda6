// Package app holds the startup sequence shared by the commands.
package app

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cognicore/reelmood/internal/logging"
	"github.com/cognicore/reelmood/pkg/reelmood"
	"github.com/cognicore/reelmood/pkg/reelmood/config"
)

// DefaultEnvFile is loaded when present and no other file is named.
const DefaultEnvFile = ".env"

// App is a configured process: settings, logger and components.
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Components *config.Components
}

// Setup loads environment files, configuration, the logger and all
// components. A missing default .env is not an error; a missing file named
// explicitly is.
func Setup(configPath string, envFiles ...string) (*App, error) {
	if err := loadEnv(envFiles); err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	comp, err := (&config.Loader{Config: cfg, Logger: logger}).Load()
	if err != nil {
		logger.Sync()
		return nil, err
	}

	return &App{Config: cfg, Logger: logger, Components: comp}, nil
}

// Engine builds the chat and sentiment facade over the loaded components.
func (a *App) Engine() *reelmood.Engine {
	return reelmood.FromComponents(a.Components, a.Config.Chat.AnnotateSentiment, a.Logger)
}

// Close flushes the logger.
func (a *App) Close() {
	a.Logger.Sync()
}

func loadEnv(files []string) error {
	if len(files) == 0 || (len(files) == 1 && files[0] == "") {
		err := godotenv.Load(DefaultEnvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", DefaultEnvFile, err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}
