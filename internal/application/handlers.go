package application

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/shubhampopalghat/userbot/internal/ports"
)

// handlers holds the per-activation state shared by the five trigger
// handlers.
type handlers struct {
	client   ports.TelegramClient
	cfg      Config
	clock    ports.Clock
	log      zerolog.Logger
	isActive func() bool
}

// banAll enumerates the chat's participants and removes everyone but the
// invoking identity, pausing between removals. Per-participant failures are
// counted, never fatal.
func (h *handlers) banAll(ctx context.Context, event ports.MessageEvent) error {
	chat := event.Chat()

	me, err := h.client.Me(ctx)
	if err != nil {
		return fmt.Errorf("fetch self identity: %w", err)
	}

	participants, err := h.client.Participants(ctx, chat)
	if err != nil {
		return fmt.Errorf("enumerate participants: %w", err)
	}

	_, _ = event.Reply(ctx, fmt.Sprintf("🚫 Starting to ban %d members...", len(participants)))

	banned, failed := 0, 0
	for _, participant := range participants {
		if participant.UserID == me.UserID {
			continue
		}

		if err := h.client.RemoveParticipant(ctx, chat, participant.UserID); err != nil {
			failed++
			h.log.Warn().Err(err).Int64("user", participant.UserID).Msg("ban failed")
			continue
		}
		banned++
		h.clock.Sleep(h.cfg.Delays.Ban)
	}

	_, err = event.Reply(ctx, fmt.Sprintf("✅ Banned: %d | ❌ Failed: %d", banned, failed))
	return err
}

// cleanupServiceMessages walks the most recent messages of the chat and
// deletes every platform service action, plus senderless messages that still
// carry text (the deleted-account heuristic). The progress notice and the
// completion summary both clean themselves up.
func (h *handlers) cleanupServiceMessages(ctx context.Context, event ports.MessageEvent) error {
	chat := event.Chat()

	progress, _ := event.Reply(ctx, "🗑️ Starting to delete service messages...")

	messages, err := h.client.RecentMessages(ctx, chat, h.cfg.CleanupScanLimit)
	if err != nil {
		return fmt.Errorf("scan recent messages: %w", err)
	}

	deleted := 0
	for _, message := range messages {
		if !message.Service && (message.HasSender || message.Text == "") {
			continue
		}

		ref := ports.MessageRef{Chat: chat, ID: message.ID}
		if err := h.client.DeleteMessage(ctx, ref); err != nil {
			h.log.Warn().Err(err).Int32("message", message.ID).Msg("delete failed")
			continue
		}
		deleted++
		h.clock.Sleep(h.cfg.Delays.Delete)
	}

	_ = h.client.DeleteMessage(ctx, progress)

	h.replyEphemeral(ctx, event, fmt.Sprintf("✅ Deleted %d service messages!", deleted))
	return nil
}

// activeStatus posts a short self-deleting identity summary.
func (h *handlers) activeStatus(ctx context.Context, event ports.MessageEvent) error {
	me, err := h.client.Me(ctx)
	if err != nil {
		return fmt.Errorf("fetch self identity: %w", err)
	}

	status := "🔴 INACTIVE"
	if h.isActive() {
		status = "🟢 ACTIVE"
	}
	username := me.Username
	if username == "" {
		username = "None"
	}

	h.replyEphemeral(ctx, event, fmt.Sprintf(
		"**Userbot Status:** %s\n**User:** %s %s\n**Username:** @%s\n**User ID:** %d",
		status, me.FirstName, me.LastName, username, me.UserID,
	))
	return nil
}

// replyEphemeral posts text and deletes it again after the summary TTL.
func (h *handlers) replyEphemeral(ctx context.Context, event ports.MessageEvent, text string) {
	ref, err := event.Reply(ctx, text)
	if err != nil {
		h.log.Warn().Err(err).Msg("reply failed")
		return
	}

	h.clock.Sleep(h.cfg.Delays.SummaryTTL)
	if err := h.client.DeleteMessage(ctx, ref); err != nil {
		h.log.Warn().Err(err).Msg("could not delete notice")
	}
}
