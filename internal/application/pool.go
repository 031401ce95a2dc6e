package application

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/shubhampopalghat/userbot/internal/domain"
	"github.com/shubhampopalghat/userbot/internal/ports"
)

// SessionEntry is one live account session. It exists in the pool only after
// its connection has passed authorization at least once this process
// lifetime.
type SessionEntry struct {
	Name        domain.AccountName
	Client      ports.TelegramClient
	Phone       string
	DisplayName string

	// exec serializes trigger handlers against this session: exactly one
	// handler runs at a time.
	exec sync.Mutex
}

func (e *SessionEntry) RunExclusive(fn func() error) error {
	e.exec.Lock()
	defer e.exec.Unlock()
	return fn()
}

// SessionOpener provisions a disconnected client for an account record,
// pointing it at the account's durable session token file.
type SessionOpener struct {
	Factory     ports.TelegramClientFactory
	SessionsDir string
}

func (o SessionOpener) Open(record domain.AccountRecord) (ports.TelegramClient, error) {
	return o.Factory.New(ports.SessionConfig{
		Name:        record.Name,
		APIID:       record.APIID,
		APIHash:     record.APIHash,
		SessionPath: filepath.Join(o.SessionsDir, fmt.Sprintf("%s_session", record.Name)),
	})
}

// Pool owns the in-memory mapping of account name to live session, plus the
// single active selection. It is mutated only by the menu loop and the
// onboarding flow.
type Pool struct {
	mu      sync.Mutex
	entries map[domain.AccountName]*SessionEntry
	order   []domain.AccountName
	active  domain.AccountName
	log     zerolog.Logger
}

func NewPool(log zerolog.Logger) *Pool {
	return &Pool{
		entries: map[domain.AccountName]*SessionEntry{},
		log:     log,
	}
}

// RestoreAll replays the registry against the platform client: for each
// record it opens a connection on the stored session token and keeps the
// session if it is still authorized. A broken account never aborts the sweep
// for the others. The first restored account becomes the active selection.
func (p *Pool) RestoreAll(ctx context.Context, records map[domain.AccountName]domain.AccountRecord, opener SessionOpener) []domain.AccountName {
	names := make([]domain.AccountName, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	restored := make([]domain.AccountName, 0, len(names))
	for _, name := range names {
		entry, err := p.restoreOne(ctx, records[name], opener)
		if err != nil {
			p.log.Warn().Err(err).Str("account", string(name)).Msg("session restore failed")
			continue
		}

		if err := p.Add(entry); err != nil {
			p.log.Warn().Err(err).Str("account", string(name)).Msg("session restore failed")
			continue
		}
		restored = append(restored, name)
		p.log.Info().Str("account", string(name)).Str("phone", entry.Phone).Msg("session restored")
	}

	p.mu.Lock()
	if p.active == "" && len(restored) > 0 {
		p.active = restored[0]
	}
	p.mu.Unlock()

	return restored
}

func (p *Pool) restoreOne(ctx context.Context, record domain.AccountRecord, opener SessionOpener) (*SessionEntry, error) {
	client, err := opener.Open(record)
	if err != nil {
		return nil, fmt.Errorf("open session client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	authorized, err := client.IsAuthorized(ctx)
	if err != nil || !authorized {
		_ = client.Disconnect(ctx)
		if err != nil {
			return nil, fmt.Errorf("check authorization: %w", err)
		}
		return nil, fmt.Errorf("session expired")
	}

	me, err := client.Me(ctx)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("fetch self identity: %w", err)
	}

	phone := me.Phone
	if phone == "" {
		phone = record.Phone
	}

	return &SessionEntry{
		Name:        record.Name,
		Client:      client,
		Phone:       phone,
		DisplayName: me.DisplayName(),
	}, nil
}

// Add registers a new session. The name must not already be pooled.
func (p *Pool) Add(entry *SessionEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.entries[entry.Name]; ok {
		return fmt.Errorf("add session %q: %w", entry.Name, domain.ErrAccountExists)
	}

	p.entries[entry.Name] = entry
	p.order = append(p.order, entry.Name)
	return nil
}

func (p *Pool) Get(name domain.AccountName) (*SessionEntry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.entries[name]
	if !ok {
		return nil, fmt.Errorf("get session %q: %w", name, domain.ErrAccountNotFound)
	}

	return entry, nil
}

// Names returns pooled account names in insertion order.
func (p *Pool) Names() []domain.AccountName {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]domain.AccountName, len(p.order))
	copy(names, p.order)
	return names
}

func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}

// Select makes name the active selection. The invariant that the selection
// always resolves to a pooled entry is enforced here.
func (p *Pool) Select(name domain.AccountName) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.entries[name]; !ok {
		return fmt.Errorf("select session %q: %w", name, domain.ErrAccountNotFound)
	}

	p.active = name
	return nil
}

// Active returns the currently selected session, if any.
func (p *Pool) Active() (*SessionEntry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.active == "" {
		return nil, false
	}

	entry, ok := p.entries[p.active]
	return entry, ok
}

func (p *Pool) ActiveName() domain.AccountName {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// CloseAll disconnects every pooled session. Individual failures are logged
// and swallowed so shutdown always completes.
func (p *Pool) CloseAll(ctx context.Context) {
	p.mu.Lock()
	entries := make([]*SessionEntry, 0, len(p.entries))
	for _, entry := range p.entries {
		entries = append(entries, entry)
	}
	p.mu.Unlock()

	var group errgroup.Group
	for _, entry := range entries {
		group.Go(func() error {
			if err := entry.Client.Disconnect(ctx); err != nil {
				p.log.Warn().Err(err).Str("account", string(entry.Name)).Msg("disconnect failed")
			}
			return nil
		})
	}
	_ = group.Wait()
}
