package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	configadapter "github.com/shubhampopalghat/userbot/internal/adapters/config"
	"github.com/shubhampopalghat/userbot/internal/adapters/prompt"
	jsonrepo "github.com/shubhampopalghat/userbot/internal/adapters/repo/json"
	tgadapter "github.com/shubhampopalghat/userbot/internal/adapters/telegram"
	"github.com/shubhampopalghat/userbot/internal/application"
	"github.com/shubhampopalghat/userbot/internal/ports"
)

type app struct {
	cfg        application.Config
	log        zerolog.Logger
	repo       ports.AccountRepository
	pool       *application.Pool
	opener     application.SessionOpener
	onboarding *application.Onboarding
	dispatcher *application.Dispatcher
	prompter   ports.Prompter
}

func wireApp() (*app, error) {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if os.Getenv("USERBOT_DEBUG") != "" {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	cfg, err := configadapter.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	repo, err := jsonrepo.NewRepository(cfg.RegistryPath, log)
	if err != nil {
		return nil, fmt.Errorf("wire account registry: %w", err)
	}

	pool := application.NewPool(log)
	opener := application.SessionOpener{
		Factory:     tgadapter.Factory{},
		SessionsDir: cfg.SessionsDir,
	}
	prompter := prompt.New(os.Stdin, os.Stdout)
	normalizer := application.NewProfileNormalizer(cfg.AvatarPath, log)

	return &app{
		cfg:        cfg,
		log:        log,
		repo:       repo,
		pool:       pool,
		opener:     opener,
		onboarding: application.NewOnboarding(repo, pool, opener, prompter, normalizer, log),
		dispatcher: application.NewDispatcher(cfg, ports.SystemClock{}, log),
		prompter:   prompter,
	}, nil
}
