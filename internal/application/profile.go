package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/shubhampopalghat/userbot/internal/ports"
)

// ProfileDisplayName is the fixed display name applied to every account
// after login.
const ProfileDisplayName = "UserBot @NexoUnion"

// ProfileNormalizer rewrites a freshly authorized account to the fixed
// profile: display name, empty bio, no username, a single stock avatar.
// Every step is isolated so one failure never blocks the next, and the whole
// sequence is idempotent.
type ProfileNormalizer struct {
	avatarPath string
	log        zerolog.Logger
}

func NewProfileNormalizer(avatarPath string, log zerolog.Logger) *ProfileNormalizer {
	return &ProfileNormalizer{avatarPath: avatarPath, log: log}
}

func (n *ProfileNormalizer) Normalize(ctx context.Context, client ports.TelegramClient) error {
	if err := client.UpdateProfile(ctx, ProfileDisplayName, "", ""); err != nil {
		return fmt.Errorf("update profile name: %w", err)
	}
	n.log.Info().Msg("profile name updated")

	if err := client.ClearUsername(ctx); err != nil {
		n.log.Warn().Err(err).Msg("could not remove username")
	} else {
		n.log.Info().Msg("username removed")
	}

	if removed, err := client.DeleteAvatars(ctx); err != nil {
		n.log.Warn().Err(err).Msg("could not remove profile photos")
	} else if removed > 0 {
		n.log.Info().Int("count", removed).Msg("profile photos removed")
	}

	n.uploadAvatar(ctx, client)
	return nil
}

func (n *ProfileNormalizer) uploadAvatar(ctx context.Context, client ports.TelegramClient) {
	if _, err := os.Stat(n.avatarPath); err != nil {
		// Missing asset is non-fatal: create the expected directory and
		// remind the operator to drop the image in.
		n.log.Warn().Str("path", n.avatarPath).Msg("profile picture not found")
		if err := os.MkdirAll(filepath.Dir(n.avatarPath), 0o755); err != nil {
			n.log.Warn().Err(err).Msg("could not create pictures directory")
		}
		return
	}

	if err := client.UploadAvatar(ctx, n.avatarPath); err != nil {
		n.log.Warn().Err(err).Msg("could not set profile picture")
		return
	}
	n.log.Info().Msg("new profile picture set")
}
