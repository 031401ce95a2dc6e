package ports

import (
	"context"

	"github.com/shubhampopalghat/userbot/internal/domain"
)

// SessionConfig carries the per-account credentials and the durable session
// token path handed to the platform client. The token file itself is owned
// entirely by the client library.
type SessionConfig struct {
	Name        domain.AccountName
	APIID       int
	APIHash     string
	SessionPath string
}

// TelegramClientFactory provisions a fresh, disconnected client for one
// account session.
type TelegramClientFactory interface {
	New(cfg SessionConfig) (TelegramClient, error)
}

// ChatRef is an opaque reference to a chat the platform can address.
type ChatRef struct {
	ID         int64
	AccessHash int64
	Handle     string
}

// Participant is one member of a chat as seen by the enumeration call.
type Participant struct {
	UserID    int64
	FirstName string
	Username  string
}

// ChatMessage is one entry of a chat history scan.
type ChatMessage struct {
	ID        int32
	Service   bool
	HasSender bool
	Text      string
}

// MessageRef identifies a message this client has sent, so it can delete it
// later (self-deleting notices).
type MessageRef struct {
	Chat ChatRef
	ID   int32
}

// Dialog is one joined chat from the dialog enumeration.
type Dialog struct {
	Chat   ChatRef
	Handle string
}

// MessageEvent is an incoming message delivered to a registered trigger.
type MessageEvent interface {
	Chat() ChatRef
	Text() string
	SenderID() int64
	Reply(ctx context.Context, text string) (MessageRef, error)
}

// MessageHandler consumes one matched incoming message.
type MessageHandler func(ctx context.Context, event MessageEvent) error

// TelegramClient is the consumed contract of the messaging platform's client
// library. Implementations translate platform error classes into the domain
// sentinels (domain.ErrTwoFactorRequired, domain.ErrAlreadyParticipant,
// domain.FloodWaitError, ...) so callers never match error text.
type TelegramClient interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	IsAuthorized(ctx context.Context) (bool, error)

	SendCode(ctx context.Context, phone string) error
	SignIn(ctx context.Context, phone, code string) error
	SignInPassword(ctx context.Context, password string) error

	Me(ctx context.Context) (domain.Identity, error)

	UpdateProfile(ctx context.Context, firstName, lastName, about string) error
	ClearUsername(ctx context.Context) error
	DeleteAvatars(ctx context.Context) (int, error)
	UploadAvatar(ctx context.Context, path string) error

	Participants(ctx context.Context, chat ChatRef) ([]Participant, error)
	RemoveParticipant(ctx context.Context, chat ChatRef, userID int64) error

	RecentMessages(ctx context.Context, chat ChatRef, limit int) ([]ChatMessage, error)
	DeleteMessage(ctx context.Context, ref MessageRef) error
	SendMessage(ctx context.Context, chat ChatRef, text string) (MessageRef, error)

	JoinPublic(ctx context.Context, handle string) error
	JoinByLink(ctx context.Context, link string) error
	ImportInvite(ctx context.Context, hash string) error
	ResolveHandle(ctx context.Context, handle string) (ChatRef, error)
	ResolveInvite(ctx context.Context, link string) (ChatRef, error)
	Leave(ctx context.Context, chat ChatRef) error
	Dialogs(ctx context.Context, limit int) ([]Dialog, error)

	OnMessage(pattern string, handler MessageHandler)
	Run(ctx context.Context) error
}
