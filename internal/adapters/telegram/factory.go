package telegram

import (
	"fmt"
	"os"
	"path/filepath"

	tg "github.com/amarnathcjd/gogram/telegram"

	"github.com/shubhampopalghat/userbot/internal/ports"
)

// Factory provisions gogram clients keyed to per-account session token
// files. The token files are owned entirely by gogram; we only hand it the
// path.
type Factory struct{}

var _ ports.TelegramClientFactory = Factory{}

func (Factory) New(cfg ports.SessionConfig) (ports.TelegramClient, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.SessionPath), 0o700); err != nil {
		return nil, fmt.Errorf("create sessions directory: %w", err)
	}

	client, err := tg.NewClient(tg.ClientConfig{
		AppID:    int32(cfg.APIID),
		AppHash:  cfg.APIHash,
		Session:  cfg.SessionPath,
		LogLevel: tg.LogError,
	})
	if err != nil {
		return nil, fmt.Errorf("new telegram client: %w", err)
	}

	return &Client{tg: client}, nil
}
