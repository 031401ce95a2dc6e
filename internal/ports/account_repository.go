package ports

import (
	"context"

	"github.com/shubhampopalghat/userbot/internal/domain"
)

// AccountRepository persists the flat account registry. Load treats a
// missing or unparseable backing document as an empty registry, never as an
// error, so a corrupt file can't keep the program from starting.
type AccountRepository interface {
	Load(ctx context.Context) (map[domain.AccountName]domain.AccountRecord, error)
	Save(ctx context.Context, records map[domain.AccountName]domain.AccountRecord) error
	Path() string
}
