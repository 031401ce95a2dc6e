package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrNoActiveAccount = errors.New("no active account selected")

	// Login challenges surfaced by the platform client.
	ErrTwoFactorRequired = errors.New("two-factor password required")
	ErrCodeInvalid       = errors.New("verification code invalid")
	ErrPasswordInvalid   = errors.New("two-factor password invalid")

	// Membership outcomes surfaced by join/leave calls.
	ErrAlreadyParticipant = errors.New("already a participant")
	ErrNotParticipant     = errors.New("not a participant")
	ErrInviteExpired      = errors.New("invite link expired")
	ErrTooManyChannels    = errors.New("joined too many channels")
)

// FloodWaitError is the platform's transient throttling signal carrying the
// suggested retry delay.
type FloodWaitError struct {
	Wait time.Duration
}

func (e *FloodWaitError) Error() string {
	return fmt.Sprintf("flood wait: retry after %s", e.Wait)
}

// AsFloodWait unwraps err into a FloodWaitError if it is one.
func AsFloodWait(err error) (*FloodWaitError, bool) {
	var flood *FloodWaitError
	if errors.As(err, &flood) {
		return flood, true
	}

	return nil, false
}
