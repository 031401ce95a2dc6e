package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubhampopalghat/userbot/internal/domain"
	"github.com/shubhampopalghat/userbot/internal/ports"
)

func newHandlerHarness(client *fakeClient) (*handlers, *instantClock) {
	cfg := Config{}
	cfg.ApplyDefaults()

	clock := &instantClock{}
	return &handlers{
		client:   client,
		cfg:      cfg,
		clock:    clock,
		log:      zerolog.Nop(),
		isActive: func() bool { return true },
	}, clock
}

func newHandlerEvent(client *fakeClient, text string) *fakeEvent {
	return &fakeEvent{
		chat:   ports.ChatRef{ID: 42, Handle: "targetgroup"},
		text:   text,
		sender: 7,
		client: client,
	}
}

// handlerDeletions filters out the self-deleting notices the handlers post
// themselves, leaving only deletions of pre-existing chat messages.
func handlerDeletions(client *fakeClient) []ports.MessageRef {
	var refs []ports.MessageRef
	for _, ref := range client.deleted {
		if ref.ID <= 1000 {
			refs = append(refs, ref)
		}
	}
	return refs
}

func TestBanAllSkipsInvokingIdentity(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.participants = []ports.Participant{
		{UserID: 7},  // self
		{UserID: 21},
		{UserID: 22},
		{UserID: 23},
	}
	client.removeErrs = map[int64]error{23: errors.New("CHAT_ADMIN_REQUIRED")}

	h, clock := newHandlerHarness(client)
	require.NoError(t, h.banAll(context.Background(), newHandlerEvent(client, "/Aban")))

	assert.Equal(t, []int64{21, 22}, client.removed)
	assert.Contains(t, client.sent[len(client.sent)-1], "✅ Banned: 2 | ❌ Failed: 1")

	// One pause per successful removal, none for the skip or the failure.
	assert.Equal(t, []time.Duration{h.cfg.Delays.Ban, h.cfg.Delays.Ban}, clock.sleeps)
}

func TestCleanupDeletesServiceAndSenderlessMessages(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.recent = []ports.ChatMessage{
		{ID: 1, Service: true},
		{ID: 2, Service: false, HasSender: true, Text: "hello"},
		{ID: 3, Service: true},
		{ID: 4, Service: false, HasSender: false, Text: "ghost text"},
		{ID: 5, Service: false, HasSender: true, Text: "world"},
		{ID: 6, Service: false, HasSender: true, Text: ""},
	}

	h, _ := newHandlerHarness(client)
	require.NoError(t, h.cleanupServiceMessages(context.Background(), newHandlerEvent(client, ".a")))

	refs := handlerDeletions(client)
	ids := make([]int32, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	assert.Equal(t, []int32{1, 3, 4}, ids)

	assert.Contains(t, client.sent[len(client.sent)-1], "Deleted 3 service messages")

	// Both the progress notice and the summary clean themselves up.
	assert.Len(t, client.deleted, len(refs)+2)
}

func TestJoinGroupsUsageWhenNoLinks(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	h, clock := newHandlerHarness(client)
	require.NoError(t, h.joinGroups(context.Background(), newHandlerEvent(client, ".join nothing here")))

	require.Len(t, client.sent, 1)
	assert.Contains(t, client.sent[0], "No valid group links")
	assert.Empty(t, clock.sleeps)
}

func TestJoinGroupsAlreadyMemberCountsAsSuccess(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.joinPublicFn = func(handle string) error {
		switch handle {
		case "good":
			return nil
		case "joined":
			return domain.ErrAlreadyParticipant
		default:
			return errors.New("CHANNEL_PRIVATE")
		}
	}
	client.joinByLinkFn = func(string) error { return domain.ErrInviteExpired }

	h, _ := newHandlerHarness(client)
	event := newHandlerEvent(client,
		".join https://t.me/good https://t.me/joined https://t.me/+deadhash")
	require.NoError(t, h.joinGroups(context.Background(), event))

	assert.Contains(t, client.sent[len(client.sent)-1], "✅ Joined: 2 | ❌ Failed: 1")

	// The expired invite carries a definite verdict, so no import fallback.
	assert.NotContains(t, client.joinCalls, "import:deadhash")
}

func TestJoinGroupsFloodWaitRetriesOnce(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	calls := 0
	client.joinPublicFn = func(string) error {
		calls++
		if calls == 1 {
			return &domain.FloodWaitError{Wait: 42 * time.Second}
		}
		return nil
	}

	h, clock := newHandlerHarness(client)
	require.NoError(t, h.joinGroups(context.Background(), newHandlerEvent(client, ".join https://t.me/busygroup")))

	assert.Equal(t, 2, calls)
	assert.Contains(t, clock.sleeps, 42*time.Second)
	assert.Contains(t, client.sent[len(client.sent)-1], "✅ Joined: 1 | ❌ Failed: 0")
}

func TestJoinGroupsFloodWaitRetryFailureIsFinal(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	calls := 0
	client.joinPublicFn = func(string) error {
		calls++
		return &domain.FloodWaitError{}
	}

	h, clock := newHandlerHarness(client)
	require.NoError(t, h.joinGroups(context.Background(), newHandlerEvent(client, ".join https://t.me/busygroup")))

	// Exactly one retry, waiting the configured default when the platform
	// gave no duration.
	assert.Equal(t, 2, calls)
	assert.Contains(t, clock.sleeps, h.cfg.Delays.FloodWait)
	assert.Contains(t, client.sent[len(client.sent)-1], "✅ Joined: 0 | ❌ Failed: 1")
}

func TestJoinGroupsInviteFallsBackToImport(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.joinByLinkFn = func(string) error { return errors.New("link resolution broke") }
	client.importInviteFn = func(string) error { return nil }

	h, _ := newHandlerHarness(client)
	require.NoError(t, h.joinGroups(context.Background(), newHandlerEvent(client, ".join https://t.me/+abc123")))

	assert.Contains(t, client.joinCalls, "import:abc123")
	assert.Contains(t, client.sent[len(client.sent)-1], "✅ Joined: 1 | ❌ Failed: 0")
}

func TestLeaveGroupsNotParticipantIsNeutral(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.leaveFn = func(chat ports.ChatRef) error {
		switch chat.Handle {
		case "stranger":
			return domain.ErrNotParticipant
		case "locked":
			return errors.New("CHAT_WRITE_FORBIDDEN")
		default:
			return nil
		}
	}

	h, _ := newHandlerHarness(client)
	event := newHandlerEvent(client,
		".left https://t.me/member https://t.me/stranger https://t.me/locked")
	require.NoError(t, h.leaveGroups(context.Background(), event))

	// Not-a-participant hits neither tally.
	assert.Contains(t, client.sent[len(client.sent)-1], "✅ Left: 1 | ❌ Failed: 1")
}

func TestScanDialogsMatchesHandleInLink(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.dialogs = []ports.Dialog{
		{Chat: ports.ChatRef{ID: 10}, Handle: "othergroup"},
		{Chat: ports.ChatRef{ID: 11}, Handle: "secretclub"},
		{Chat: ports.ChatRef{ID: 12}},
	}

	h, _ := newHandlerHarness(client)

	chat, err := h.scanDialogs(context.Background(), domain.GroupLink{Raw: "https://t.me/secretclub"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), chat.ID)

	_, err = h.scanDialogs(context.Background(), domain.GroupLink{Raw: "https://t.me/joinchat/AAAbbb"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no joined chat matches")
}

func TestResolveLeaveTargetInviteNotParticipantShortCircuits(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.resolveInviteFn = func(string) (ports.ChatRef, error) {
		return ports.ChatRef{}, domain.ErrNotParticipant
	}
	client.dialogs = []ports.Dialog{{Chat: ports.ChatRef{ID: 10}, Handle: "somegroup"}}

	h, _ := newHandlerHarness(client)
	_, err := h.resolveLeaveTarget(context.Background(), domain.GroupLink{
		Raw:        "https://t.me/+abc123",
		Kind:       domain.LinkNewInvite,
		InviteHash: "abc123",
	})
	assert.ErrorIs(t, err, domain.ErrNotParticipant)
}

func TestActiveStatusSelfDeletes(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.me = domain.Identity{UserID: 7, FirstName: "Nexo", LastName: "Bot", Username: "nexobot"}

	h, clock := newHandlerHarness(client)
	require.NoError(t, h.activeStatus(context.Background(), newHandlerEvent(client, ".ping")))

	require.Len(t, client.sent, 1)
	assert.Contains(t, client.sent[0], "🟢 ACTIVE")
	assert.Contains(t, client.sent[0], "@nexobot")
	assert.Contains(t, client.sent[0], "User ID:** 7")

	// The status notice deletes itself after the summary TTL.
	require.Len(t, client.deleted, 1)
	assert.Contains(t, clock.sleeps, h.cfg.Delays.SummaryTTL)
}
