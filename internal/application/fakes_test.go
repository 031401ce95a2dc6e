package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shubhampopalghat/userbot/internal/domain"
	"github.com/shubhampopalghat/userbot/internal/ports"
)

// fakeClient implements ports.TelegramClient with per-call hooks so each
// test scripts only the behavior it cares about.
type fakeClient struct {
	mu sync.Mutex

	connectErr    error
	authorized    bool
	authorizedErr error
	disconnects   int

	me    domain.Identity
	meErr error

	sendCodeErr      error
	signInFn         func(phone, code string) error
	signInPasswordFn func(password string) error
	signInCalls      int
	passwordCalls    int

	profileName      string
	updateProfileErr error
	usernameCleared  bool
	avatarsDeleted   int
	avatarUploaded   string

	participants []ports.Participant
	removeErrs   map[int64]error
	removed      []int64

	recent     []ports.ChatMessage
	deleted    []ports.MessageRef
	sent       []string
	nextSendID int32

	joinPublicFn    func(handle string) error
	joinByLinkFn    func(link string) error
	importInviteFn  func(hash string) error
	resolveHandleFn func(handle string) (ports.ChatRef, error)
	resolveInviteFn func(link string) (ports.ChatRef, error)
	leaveFn         func(chat ports.ChatRef) error
	dialogs         []ports.Dialog

	joinCalls []string

	handlers map[string]ports.MessageHandler
	runErr   error
}

var _ ports.TelegramClient = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{
		authorized: true,
		me:         domain.Identity{UserID: 7, FirstName: "Self", Phone: "+123"},
		handlers:   map[string]ports.MessageHandler{},
		nextSendID: 1000,
	}
}

func (f *fakeClient) Connect(context.Context) error { return f.connectErr }

func (f *fakeClient) Disconnect(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects++
	return nil
}

func (f *fakeClient) IsAuthorized(context.Context) (bool, error) {
	return f.authorized, f.authorizedErr
}

func (f *fakeClient) SendCode(_ context.Context, phone string) error { return f.sendCodeErr }

func (f *fakeClient) SignIn(_ context.Context, phone, code string) error {
	f.signInCalls++
	if f.signInFn == nil {
		return nil
	}
	return f.signInFn(phone, code)
}

func (f *fakeClient) SignInPassword(_ context.Context, password string) error {
	f.passwordCalls++
	if f.signInPasswordFn == nil {
		return nil
	}
	return f.signInPasswordFn(password)
}

func (f *fakeClient) Me(context.Context) (domain.Identity, error) { return f.me, f.meErr }

func (f *fakeClient) UpdateProfile(_ context.Context, firstName, _, _ string) error {
	if f.updateProfileErr != nil {
		return f.updateProfileErr
	}
	f.profileName = firstName
	return nil
}

func (f *fakeClient) ClearUsername(context.Context) error {
	f.usernameCleared = true
	return nil
}

func (f *fakeClient) DeleteAvatars(context.Context) (int, error) {
	f.avatarsDeleted++
	return 0, nil
}

func (f *fakeClient) UploadAvatar(_ context.Context, path string) error {
	f.avatarUploaded = path
	return nil
}

func (f *fakeClient) Participants(context.Context, ports.ChatRef) ([]ports.Participant, error) {
	return f.participants, nil
}

func (f *fakeClient) RemoveParticipant(_ context.Context, _ ports.ChatRef, userID int64) error {
	if err := f.removeErrs[userID]; err != nil {
		return err
	}
	f.removed = append(f.removed, userID)
	return nil
}

func (f *fakeClient) RecentMessages(context.Context, ports.ChatRef, int) ([]ports.ChatMessage, error) {
	return f.recent, nil
}

func (f *fakeClient) DeleteMessage(_ context.Context, ref ports.MessageRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, ref)
	return nil
}

func (f *fakeClient) SendMessage(_ context.Context, chat ports.ChatRef, text string) (ports.MessageRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	f.nextSendID++
	return ports.MessageRef{Chat: chat, ID: f.nextSendID}, nil
}

func (f *fakeClient) JoinPublic(_ context.Context, handle string) error {
	f.joinCalls = append(f.joinCalls, "public:"+handle)
	if f.joinPublicFn == nil {
		return nil
	}
	return f.joinPublicFn(handle)
}

func (f *fakeClient) JoinByLink(_ context.Context, link string) error {
	f.joinCalls = append(f.joinCalls, "link:"+link)
	if f.joinByLinkFn == nil {
		return nil
	}
	return f.joinByLinkFn(link)
}

func (f *fakeClient) ImportInvite(_ context.Context, hash string) error {
	f.joinCalls = append(f.joinCalls, "import:"+hash)
	if f.importInviteFn == nil {
		return nil
	}
	return f.importInviteFn(hash)
}

func (f *fakeClient) ResolveHandle(_ context.Context, handle string) (ports.ChatRef, error) {
	if f.resolveHandleFn == nil {
		return ports.ChatRef{ID: 1, Handle: handle}, nil
	}
	return f.resolveHandleFn(handle)
}

func (f *fakeClient) ResolveInvite(_ context.Context, link string) (ports.ChatRef, error) {
	if f.resolveInviteFn == nil {
		return ports.ChatRef{ID: 2}, nil
	}
	return f.resolveInviteFn(link)
}

func (f *fakeClient) Leave(_ context.Context, chat ports.ChatRef) error {
	if f.leaveFn == nil {
		return nil
	}
	return f.leaveFn(chat)
}

func (f *fakeClient) Dialogs(context.Context, int) ([]ports.Dialog, error) {
	return f.dialogs, nil
}

func (f *fakeClient) OnMessage(pattern string, handler ports.MessageHandler) {
	f.handlers[pattern] = handler
}

func (f *fakeClient) Run(ctx context.Context) error {
	if f.runErr != nil {
		return f.runErr
	}
	<-ctx.Done()
	return ctx.Err()
}

// fakeFactory hands out pre-built clients keyed by account name.
type fakeFactory struct {
	clients map[domain.AccountName]*fakeClient
	err     error
}

var _ ports.TelegramClientFactory = (*fakeFactory)(nil)

func (f *fakeFactory) New(cfg ports.SessionConfig) (ports.TelegramClient, error) {
	if f.err != nil {
		return nil, f.err
	}
	client, ok := f.clients[cfg.Name]
	if !ok {
		return nil, fmt.Errorf("no fake client for %q", cfg.Name)
	}
	return client, nil
}

// fakeRepo is an in-memory account registry.
type fakeRepo struct {
	records map[domain.AccountName]domain.AccountRecord
	saves   int
	loadErr error
	saveErr error
}

var _ ports.AccountRepository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[domain.AccountName]domain.AccountRecord{}}
}

func (f *fakeRepo) Load(context.Context) (map[domain.AccountName]domain.AccountRecord, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make(map[domain.AccountName]domain.AccountRecord, len(f.records))
	for name, record := range f.records {
		out[name] = record
	}
	return out, nil
}

func (f *fakeRepo) Save(_ context.Context, records map[domain.AccountName]domain.AccountRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.records = records
	return nil
}

func (f *fakeRepo) Path() string { return "fake://registry" }

// scriptedPrompter returns canned answers in order.
type scriptedPrompter struct {
	answers []string
	next    int
}

var _ ports.Prompter = (*scriptedPrompter)(nil)

func (p *scriptedPrompter) Line(string) (string, error) {
	if p.next >= len(p.answers) {
		return "", fmt.Errorf("prompter exhausted after %d answers", p.next)
	}
	answer := p.answers[p.next]
	p.next++
	return answer, nil
}

func (p *scriptedPrompter) Secret(prompt string) (string, error) { return p.Line(prompt) }

// instantClock records sleeps instead of performing them.
type instantClock struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

var _ ports.Clock = (*instantClock)(nil)

func (c *instantClock) Now() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }

func (c *instantClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
}

// fakeEvent is one incoming trigger message; replies are routed through the
// fake client so self-deletion is observable.
type fakeEvent struct {
	chat   ports.ChatRef
	text   string
	sender int64
	client *fakeClient
}

var _ ports.MessageEvent = (*fakeEvent)(nil)

func (e *fakeEvent) Chat() ports.ChatRef { return e.chat }
func (e *fakeEvent) Text() string        { return e.text }
func (e *fakeEvent) SenderID() int64     { return e.sender }

func (e *fakeEvent) Reply(ctx context.Context, text string) (ports.MessageRef, error) {
	return e.client.SendMessage(ctx, e.chat, text)
}
