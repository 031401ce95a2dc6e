package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shubhampopalghat/userbot/internal/domain"
	"github.com/shubhampopalghat/userbot/internal/ports"
)

// joinGroups extracts every t.me link from the trigger text and attempts the
// shape-appropriate join call for each, one link at a time with a fixed
// pause. A flood wait earns exactly one wait-then-retry; the retry's outcome
// is final.
func (h *handlers) joinGroups(ctx context.Context, event ports.MessageEvent) error {
	links := domain.ExtractLinks(event.Text())
	if len(links) == 0 {
		_, err := event.Reply(ctx, "❌ No valid group links found!\nUsage: .join https://t.me/group1 https://t.me/+invitelink")
		return err
	}

	progress, _ := event.Reply(ctx, fmt.Sprintf("🔗 Attempting to join %d groups...", len(links)))

	var tally domain.Tally
	for _, link := range links {
		err := h.attemptJoin(ctx, link)
		if flood, ok := domain.AsFloodWait(err); ok {
			wait := flood.Wait
			if wait <= 0 {
				wait = h.cfg.Delays.FloodWait
			}
			h.log.Info().Dur("wait", wait).Str("link", link.Raw).Msg("rate limited, waiting")
			h.clock.Sleep(wait)
			err = h.attemptJoin(ctx, link)
		}

		outcome := domain.ClassifyMembership(err)
		tally.Record(outcome)
		if err != nil && outcome != domain.OutcomeAlreadyMember {
			h.log.Warn().Err(err).Str("link", link.Raw).Msg("join failed")
		}

		h.clock.Sleep(h.cfg.Delays.Join)
	}

	_ = h.client.DeleteMessage(ctx, progress)
	h.replyEphemeral(ctx, event, fmt.Sprintf("✅ Joined: %d | ❌ Failed: %d", tally.Succeeded, tally.Failed))
	return nil
}

// attemptJoin issues the platform call matching the link's shape, falling
// back to the alternate call only when the primary fails without a definite
// platform verdict.
func (h *handlers) attemptJoin(ctx context.Context, link domain.GroupLink) error {
	switch link.Kind {
	case domain.LinkOldInvite, domain.LinkNewInvite:
		err := h.client.JoinByLink(ctx, link.Raw)
		if err == nil || hasMembershipVerdict(err) {
			return err
		}
		return h.client.ImportInvite(ctx, link.InviteHash)
	default:
		err := h.client.JoinPublic(ctx, link.Handle)
		if err == nil || hasMembershipVerdict(err) {
			return err
		}
		return h.client.JoinPublic(ctx, "@"+link.Handle)
	}
}

// leaveGroups is the symmetric operation: resolve each link to a chat and
// leave it. "Not a participant" is net-neutral, excluded from both tallies.
func (h *handlers) leaveGroups(ctx context.Context, event ports.MessageEvent) error {
	links := domain.ExtractLinks(event.Text())
	if len(links) == 0 {
		_, err := event.Reply(ctx, "❌ No valid group links found!\nUsage: .left https://t.me/group1 https://t.me/group2")
		return err
	}

	progress, _ := event.Reply(ctx, fmt.Sprintf("🚪 Attempting to leave %d groups...", len(links)))

	var tally domain.Tally
	for _, link := range links {
		chat, err := h.resolveLeaveTarget(ctx, link)
		if err == nil {
			err = h.client.Leave(ctx, chat)
		}

		outcome := domain.ClassifyMembership(err)
		tally.Record(outcome)
		if err != nil && outcome != domain.OutcomeNotParticipant {
			h.log.Warn().Err(err).Str("link", link.Raw).Msg("leave failed")
		}

		h.clock.Sleep(h.cfg.Delays.Leave)
	}

	_ = h.client.DeleteMessage(ctx, progress)
	h.replyEphemeral(ctx, event, fmt.Sprintf("✅ Left: %d | ❌ Failed: %d", tally.Succeeded, tally.Failed))
	return nil
}

// resolveLeaveTarget turns a link into a chat reference. Invite links try
// invite resolution first, then fall back to a bounded scan of joined chats
// matched by handle.
func (h *handlers) resolveLeaveTarget(ctx context.Context, link domain.GroupLink) (ports.ChatRef, error) {
	switch link.Kind {
	case domain.LinkOldInvite, domain.LinkNewInvite:
		chat, err := h.client.ResolveInvite(ctx, link.Raw)
		if err == nil {
			return chat, nil
		}
		if errors.Is(err, domain.ErrNotParticipant) {
			return ports.ChatRef{}, err
		}
		return h.scanDialogs(ctx, link)
	default:
		chat, err := h.client.ResolveHandle(ctx, link.Handle)
		if err == nil || hasMembershipVerdict(err) {
			return chat, err
		}
		return h.client.ResolveHandle(ctx, "@"+link.Handle)
	}
}

// scanDialogs linearly searches joined chats for one whose public handle
// appears in the link, giving up after the configured bound.
func (h *handlers) scanDialogs(ctx context.Context, link domain.GroupLink) (ports.ChatRef, error) {
	dialogs, err := h.client.Dialogs(ctx, h.cfg.DialogScanLimit)
	if err != nil {
		return ports.ChatRef{}, fmt.Errorf("enumerate dialogs: %w", err)
	}

	for _, dialog := range dialogs {
		if dialog.Handle == "" {
			continue
		}
		if strings.Contains(link.Raw, "t.me/"+dialog.Handle) {
			return dialog.Chat, nil
		}
	}

	return ports.ChatRef{}, fmt.Errorf("no joined chat matches %s", link.Raw)
}

// hasMembershipVerdict reports whether the platform gave a definite
// membership answer, in which case fallback calls must not run.
func hasMembershipVerdict(err error) bool {
	switch {
	case errors.Is(err, domain.ErrAlreadyParticipant),
		errors.Is(err, domain.ErrNotParticipant),
		errors.Is(err, domain.ErrInviteExpired),
		errors.Is(err, domain.ErrTooManyChannels):
		return true
	}

	_, ok := domain.AsFloodWait(err)
	return ok
}
