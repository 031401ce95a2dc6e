// Package telegram adapts the gogram MTProto client to the ports the
// application consumes. All platform error classification lives here.
package telegram

import (
	"context"
	"fmt"
	"strings"

	tg "github.com/amarnathcjd/gogram/telegram"

	"github.com/shubhampopalghat/userbot/internal/domain"
	"github.com/shubhampopalghat/userbot/internal/ports"
)

type Client struct {
	tg *tg.Client

	// codeHash ties the sign-in call to the preceding code request.
	codeHash string
	phone    string
}

var _ ports.TelegramClient = (*Client)(nil)

func (c *Client) Connect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := c.tg.Connect(); err != nil {
		return fmt.Errorf("connect: %w", classify(err))
	}

	return nil
}

func (c *Client) Disconnect(_ context.Context) error {
	return c.tg.Disconnect()
}

func (c *Client) IsAuthorized(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	authorized, err := c.tg.IsAuthorized()
	if err != nil {
		return false, classify(err)
	}

	return authorized, nil
}

func (c *Client) SendCode(ctx context.Context, phone string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	hash, err := c.tg.SendCode(phone)
	if err != nil {
		return fmt.Errorf("send code: %w", classify(err))
	}

	c.phone = phone
	c.codeHash = hash
	return nil
}

func (c *Client) SignIn(ctx context.Context, phone, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.tg.AuthSignIn(phone, c.codeHash, code, nil); err != nil {
		return classify(err)
	}

	return nil
}

func (c *Client) SignInPassword(ctx context.Context, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	accountPassword, err := c.tg.AccountGetPassword()
	if err != nil {
		return classify(err)
	}

	srp, err := tg.GetInputCheckPassword(password, accountPassword)
	if err != nil {
		return classify(err)
	}

	if _, err := c.tg.AuthCheckPassword(srp); err != nil {
		return classify(err)
	}

	return nil
}

func (c *Client) Me(ctx context.Context) (domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return domain.Identity{}, err
	}

	me, err := c.tg.GetMe()
	if err != nil {
		return domain.Identity{}, fmt.Errorf("get me: %w", classify(err))
	}

	return domain.Identity{
		UserID:    me.ID,
		FirstName: me.FirstName,
		LastName:  me.LastName,
		Username:  me.Username,
		Phone:     me.Phone,
	}, nil
}

func (c *Client) UpdateProfile(ctx context.Context, firstName, lastName, about string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := c.tg.AccountUpdateProfile(firstName, lastName, about)
	if err != nil {
		return fmt.Errorf("update profile: %w", classify(err))
	}

	return nil
}

func (c *Client) ClearUsername(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.tg.AccountUpdateUsername(""); err != nil {
		return fmt.Errorf("clear username: %w", classify(err))
	}

	return nil
}

func (c *Client) DeleteAvatars(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	photos, err := c.tg.GetProfilePhotos("me")
	if err != nil {
		return 0, fmt.Errorf("list profile photos: %w", classify(err))
	}
	if len(photos) == 0 {
		return 0, nil
	}

	ids := make([]tg.InputPhoto, 0, len(photos))
	for _, photo := range photos {
		obj, ok := photo.Photo.(*tg.PhotoObj)
		if !ok {
			continue
		}
		ids = append(ids, &tg.InputPhotoObj{
			ID:            obj.ID,
			AccessHash:    obj.AccessHash,
			FileReference: obj.FileReference,
		})
	}

	if _, err := c.tg.PhotosDeletePhotos(ids); err != nil {
		return 0, fmt.Errorf("delete profile photos: %w", classify(err))
	}

	return len(ids), nil
}

func (c *Client) UploadAvatar(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := c.tg.UploadFile(path)
	if err != nil {
		return fmt.Errorf("upload avatar file: %w", classify(err))
	}

	if _, err := c.tg.PhotosUploadProfilePhoto(&tg.PhotosUploadProfilePhotoParams{File: file}); err != nil {
		return fmt.Errorf("set profile photo: %w", classify(err))
	}

	return nil
}

func (c *Client) Participants(ctx context.Context, chat ports.ChatRef) ([]ports.Participant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	members, _, err := c.tg.GetChatMembers(chat.ID)
	if err != nil {
		return nil, fmt.Errorf("get chat members: %w", classify(err))
	}

	participants := make([]ports.Participant, 0, len(members))
	for _, member := range members {
		if member.User == nil {
			continue
		}
		participants = append(participants, ports.Participant{
			UserID:    member.User.ID,
			FirstName: member.User.FirstName,
			Username:  member.User.Username,
		})
	}

	return participants, nil
}

func (c *Client) RemoveParticipant(ctx context.Context, chat ports.ChatRef, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.tg.KickParticipant(chat.ID, userID); err != nil {
		return classify(err)
	}

	return nil
}

func (c *Client) RecentMessages(ctx context.Context, chat ports.ChatRef, limit int) ([]ports.ChatMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	history, err := c.tg.GetMessages(chat.ID, &tg.SearchOption{Limit: int32(limit)})
	if err != nil {
		return nil, fmt.Errorf("get messages: %w", classify(err))
	}

	messages := make([]ports.ChatMessage, 0, len(history))
	for _, message := range history {
		if message.Message == nil {
			continue
		}
		messages = append(messages, ports.ChatMessage{
			ID:        message.Message.ID,
			Service:   message.Action != nil,
			HasSender: message.Message.FromID != nil,
			Text:      message.Message.Message,
		})
	}

	return messages, nil
}

func (c *Client) DeleteMessage(ctx context.Context, ref ports.MessageRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.tg.DeleteMessages(ref.Chat.ID, []int32{ref.ID}); err != nil {
		return classify(err)
	}

	return nil
}

func (c *Client) SendMessage(ctx context.Context, chat ports.ChatRef, text string) (ports.MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return ports.MessageRef{}, err
	}

	sent, err := c.tg.SendMessage(chat.ID, text)
	if err != nil {
		return ports.MessageRef{}, fmt.Errorf("send message: %w", classify(err))
	}

	return ports.MessageRef{Chat: chat, ID: sent.ID}, nil
}

func (c *Client) JoinPublic(ctx context.Context, handle string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := c.tg.JoinChannel(handle)
	return classify(err)
}

func (c *Client) JoinByLink(ctx context.Context, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := c.tg.JoinChannel(link)
	return classify(err)
}

func (c *Client) ImportInvite(ctx context.Context, hash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := c.tg.MessagesImportChatInvite(hash); err != nil {
		return classify(err)
	}

	return nil
}

func (c *Client) ResolveHandle(ctx context.Context, handle string) (ports.ChatRef, error) {
	if err := ctx.Err(); err != nil {
		return ports.ChatRef{}, err
	}

	peer, err := c.tg.ResolvePeer(handle)
	if err != nil {
		return ports.ChatRef{}, classify(err)
	}

	switch p := peer.(type) {
	case *tg.InputPeerChannel:
		return ports.ChatRef{ID: p.ChannelID, AccessHash: p.AccessHash, Handle: strings.TrimPrefix(handle, "@")}, nil
	case *tg.InputPeerChat:
		return ports.ChatRef{ID: p.ChatID, Handle: strings.TrimPrefix(handle, "@")}, nil
	default:
		return ports.ChatRef{}, fmt.Errorf("%q does not resolve to a chat", handle)
	}
}

// ResolveInvite checks an invite link against the platform. A link this
// account has not accepted resolves to ErrNotParticipant, which the leave
// handler treats as net-neutral.
func (c *Client) ResolveInvite(ctx context.Context, link string) (ports.ChatRef, error) {
	if err := ctx.Err(); err != nil {
		return ports.ChatRef{}, err
	}

	invite, err := c.tg.MessagesCheckChatInvite(inviteHash(link))
	if err != nil {
		return ports.ChatRef{}, classify(err)
	}

	already, ok := invite.(*tg.ChatInviteAlready)
	if !ok {
		return ports.ChatRef{}, fmt.Errorf("invite %s: %w", link, domain.ErrNotParticipant)
	}

	return chatRef(already.Chat), nil
}

func (c *Client) Leave(ctx context.Context, chat ports.ChatRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return classify(c.tg.LeaveChannel(chat.ID))
}

func (c *Client) Dialogs(ctx context.Context, limit int) ([]ports.Dialog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := c.tg.MessagesGetDialogs(&tg.MessagesGetDialogsParams{
		Limit:      int32(limit),
		OffsetPeer: &tg.InputPeerEmpty{},
	})
	if err != nil {
		return nil, fmt.Errorf("get dialogs: %w", classify(err))
	}

	var chats []tg.Chat
	switch v := res.(type) {
	case *tg.MessagesDialogsObj:
		chats = v.Chats
	case *tg.MessagesDialogsSlice:
		chats = v.Chats
	}

	dialogs := make([]ports.Dialog, 0, len(chats))
	for _, chat := range chats {
		ref := chatRef(chat)
		if ref.ID == 0 {
			continue
		}
		dialogs = append(dialogs, ports.Dialog{Chat: ref, Handle: ref.Handle})
	}

	return dialogs, nil
}

func (c *Client) OnMessage(pattern string, handler ports.MessageHandler) {
	c.tg.AddMessageHandler(pattern, func(message *tg.NewMessage) error {
		return handler(context.Background(), &messageEvent{client: c, message: message})
	})
}

// Run blocks on the client's update loop until the connection drops or ctx
// is cancelled.
func (c *Client) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { c.tg.Stop() })
	defer stop()

	c.tg.Idle()
	return nil
}

func chatRef(chat tg.Chat) ports.ChatRef {
	switch v := chat.(type) {
	case *tg.Channel:
		return ports.ChatRef{ID: v.ID, AccessHash: v.AccessHash, Handle: v.Username}
	case *tg.ChatObj:
		return ports.ChatRef{ID: v.ID}
	default:
		return ports.ChatRef{}
	}
}

func inviteHash(link string) string {
	if i := strings.LastIndex(link, "/joinchat/"); i >= 0 {
		return strings.SplitN(link[i+len("/joinchat/"):], "?", 2)[0]
	}
	if i := strings.LastIndex(link, "/+"); i >= 0 {
		return strings.SplitN(link[i+len("/+"):], "?", 2)[0]
	}

	return link
}
