package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type AccountName string

// AccountRecord is the durable registry entry for one Telegram account.
// Records are created on first successful login and only ever touched again
// to backfill Phone when it was unknown at creation time.
type AccountRecord struct {
	Name    AccountName
	APIID   int
	APIHash string
	Phone   string
}

func (r AccountRecord) Validate() error {
	if strings.TrimSpace(string(r.Name)) == "" {
		return fmt.Errorf("account name is required")
	}
	if r.APIID <= 0 {
		return fmt.Errorf("api id must be a positive integer")
	}
	if strings.TrimSpace(r.APIHash) == "" {
		return fmt.Errorf("api hash is required")
	}

	return nil
}

// ParseAPIID validates the free-text API id prompt input.
func ParseAPIID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("api id must be a positive integer, got %q", raw)
	}

	return id, nil
}

// Identity is the self-identity snapshot returned by the platform after
// authorization.
type Identity struct {
	UserID    int64
	FirstName string
	LastName  string
	Username  string
	Phone     string
}

func (id Identity) DisplayName() string {
	if id.FirstName == "" {
		return "Unknown"
	}

	return id.FirstName
}
