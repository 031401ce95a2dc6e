package telegram

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shubhampopalghat/userbot/internal/domain"
)

var floodWaitSeconds = regexp.MustCompile(`\d+`)

// classify maps platform RPC errors onto the domain sentinels so callers
// switch on variants instead of error text. Matching the message text here is
// a compatibility shim: the wire protocol reports error classes as uppercase
// tokens inside the message.
func classify(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "USER_ALREADY_PARTICIPANT"):
		return fmt.Errorf("%w: %s", domain.ErrAlreadyParticipant, msg)
	case strings.Contains(msg, "USER_NOT_PARTICIPANT"):
		return fmt.Errorf("%w: %s", domain.ErrNotParticipant, msg)
	case strings.Contains(msg, "INVITE_HASH_EXPIRED"):
		return fmt.Errorf("%w: %s", domain.ErrInviteExpired, msg)
	case strings.Contains(msg, "CHANNELS_TOO_MUCH"):
		return fmt.Errorf("%w: %s", domain.ErrTooManyChannels, msg)
	case strings.Contains(msg, "SESSION_PASSWORD_NEEDED"):
		return fmt.Errorf("%w: %s", domain.ErrTwoFactorRequired, msg)
	case strings.Contains(msg, "PHONE_CODE_INVALID"), strings.Contains(msg, "PHONE_CODE_EXPIRED"):
		return fmt.Errorf("%w: %s", domain.ErrCodeInvalid, msg)
	case strings.Contains(msg, "PASSWORD_HASH_INVALID"):
		return fmt.Errorf("%w: %s", domain.ErrPasswordInvalid, msg)
	case strings.Contains(msg, "FLOOD_WAIT"):
		return &domain.FloodWaitError{Wait: parseFloodWait(msg)}
	}

	return err
}

// parseFloodWait pulls the suggested delay out of a FLOOD_WAIT_N message.
// Zero means the caller should apply its default wait.
func parseFloodWait(msg string) time.Duration {
	match := floodWaitSeconds.FindString(msg)
	if match == "" {
		return 0
	}

	seconds, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}

	return time.Duration(seconds) * time.Second
}
