package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/shubhampopalghat/userbot/internal/domain"
	"github.com/shubhampopalghat/userbot/internal/ports"
)

const loginAttempts = 3

// Onboarding drives the interactive add-account flow: collect a name and
// credentials, connect, walk the code and optional two-factor challenges,
// then persist the record, pool the session and normalize the profile.
type Onboarding struct {
	repo       ports.AccountRepository
	pool       *Pool
	opener     SessionOpener
	prompter   ports.Prompter
	normalizer *ProfileNormalizer
	log        zerolog.Logger
}

func NewOnboarding(repo ports.AccountRepository, pool *Pool, opener SessionOpener, prompter ports.Prompter, normalizer *ProfileNormalizer, log zerolog.Logger) *Onboarding {
	return &Onboarding{
		repo:       repo,
		pool:       pool,
		opener:     opener,
		prompter:   prompter,
		normalizer: normalizer,
		log:        log,
	}
}

// AddAccount runs the whole flow and returns the new account name on
// success. Validation failures abort one-shot; the code, phone and 2FA
// stages each allow three attempts.
func (o *Onboarding) AddAccount(ctx context.Context) (domain.AccountName, error) {
	record, err := o.collectRecord(ctx)
	if err != nil {
		return "", err
	}

	client, err := o.opener.Open(record)
	if err != nil {
		return "", fmt.Errorf("open session client: %w", err)
	}

	if err := client.Connect(ctx); err != nil {
		return "", fmt.Errorf("connect: %w", err)
	}

	authorized, err := client.IsAuthorized(ctx)
	if err != nil {
		_ = client.Disconnect(ctx)
		return "", fmt.Errorf("check authorization: %w", err)
	}

	if authorized {
		// A durable session token already matches: skip straight to
		// persistence and profile normalization.
		return record.Name, o.finishLogin(ctx, record, client)
	}

	phone, err := o.requestCode(ctx, client)
	if err != nil {
		_ = client.Disconnect(ctx)
		return "", err
	}
	record.Phone = phone

	if err := o.submitCode(ctx, client, phone); err != nil {
		_ = client.Disconnect(ctx)
		return "", err
	}

	return record.Name, o.finishLogin(ctx, record, client)
}

func (o *Onboarding) collectRecord(ctx context.Context) (domain.AccountRecord, error) {
	name, err := o.prompter.Line("Enter account name (e.g. Account1, Main): ")
	if err != nil {
		return domain.AccountRecord{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.AccountRecord{}, errors.New("account name is required")
	}

	records, err := o.repo.Load(ctx)
	if err != nil {
		return domain.AccountRecord{}, fmt.Errorf("load registry: %w", err)
	}
	if _, exists := records[domain.AccountName(name)]; exists {
		return domain.AccountRecord{}, fmt.Errorf("account %q: %w", name, domain.ErrAccountExists)
	}

	rawID, err := o.prompter.Line("Enter your API ID: ")
	if err != nil {
		return domain.AccountRecord{}, err
	}
	apiID, err := domain.ParseAPIID(rawID)
	if err != nil {
		return domain.AccountRecord{}, err
	}

	apiHash, err := o.prompter.Line("Enter your API Hash: ")
	if err != nil {
		return domain.AccountRecord{}, err
	}
	apiHash = strings.TrimSpace(apiHash)
	if apiHash == "" {
		return domain.AccountRecord{}, errors.New("api hash is required")
	}

	return domain.AccountRecord{
		Name:    domain.AccountName(name),
		APIID:   apiID,
		APIHash: apiHash,
	}, nil
}

// requestCode prompts for the phone number and asks the platform to send a
// login code, up to three attempts.
func (o *Onboarding) requestCode(ctx context.Context, client ports.TelegramClient) (string, error) {
	for attempt := 1; attempt <= loginAttempts; attempt++ {
		phone, err := o.prompter.Line(fmt.Sprintf("Attempt %d/%d - Enter your phone number (with country code): ", attempt, loginAttempts))
		if err != nil {
			return "", err
		}
		phone = strings.TrimSpace(phone)
		if phone == "" {
			o.log.Warn().Msg("phone number is required")
			continue
		}

		if err := client.SendCode(ctx, phone); err != nil {
			o.log.Warn().Err(err).Int("attempt", attempt).Msg("send code failed")
			continue
		}

		return phone, nil
	}

	return "", errors.New("failed to send login code after 3 attempts")
}

// submitCode walks the verification-code challenge, descending into the
// nested two-factor sub-flow when the platform raises it.
func (o *Onboarding) submitCode(ctx context.Context, client ports.TelegramClient, phone string) error {
	for attempt := 1; attempt <= loginAttempts; attempt++ {
		code, err := o.prompter.Line(fmt.Sprintf("Attempt %d/%d - Enter the verification code: ", attempt, loginAttempts))
		if err != nil {
			return err
		}
		code = strings.TrimSpace(code)
		if code == "" {
			o.log.Warn().Msg("verification code is required")
			continue
		}

		err = client.SignIn(ctx, phone, code)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, domain.ErrTwoFactorRequired):
			return o.submitPassword(ctx, client)
		case errors.Is(err, domain.ErrCodeInvalid):
			o.log.Warn().Int("attempt", attempt).Msg("invalid verification code")
		default:
			o.log.Warn().Err(err).Int("attempt", attempt).Msg("sign in failed")
		}
	}

	return errors.New("failed code verification after 3 attempts")
}

func (o *Onboarding) submitPassword(ctx context.Context, client ports.TelegramClient) error {
	for attempt := 1; attempt <= loginAttempts; attempt++ {
		password, err := o.prompter.Secret(fmt.Sprintf("2FA Attempt %d/%d - Enter your 2FA password: ", attempt, loginAttempts))
		if err != nil {
			return err
		}
		if strings.TrimSpace(password) == "" {
			o.log.Warn().Msg("2FA password is required")
			continue
		}

		err = client.SignInPassword(ctx, password)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, domain.ErrPasswordInvalid):
			o.log.Warn().Int("attempt", attempt).Msg("invalid 2FA password")
		default:
			o.log.Warn().Err(err).Int("attempt", attempt).Msg("2FA sign in failed")
		}
	}

	return errors.New("failed 2FA verification after 3 attempts")
}

// finishLogin is every success path's tail: persist the record, pool the
// session, make it the active selection and run the profile normalizer.
// Normalizer failure never rolls back the login.
func (o *Onboarding) finishLogin(ctx context.Context, record domain.AccountRecord, client ports.TelegramClient) error {
	me, err := client.Me(ctx)
	if err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("fetch self identity: %w", err)
	}
	if me.Phone != "" {
		record.Phone = me.Phone
	}

	records, err := o.repo.Load(ctx)
	if err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("load registry: %w", err)
	}
	records[record.Name] = record
	if err := o.repo.Save(ctx, records); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("save registry: %w", err)
	}

	entry := &SessionEntry{
		Name:        record.Name,
		Client:      client,
		Phone:       record.Phone,
		DisplayName: me.DisplayName(),
	}
	if err := o.pool.Add(entry); err != nil {
		return err
	}
	if err := o.pool.Select(record.Name); err != nil {
		return err
	}

	if err := o.normalizer.Normalize(ctx, client); err != nil {
		o.log.Warn().Err(err).Str("account", string(record.Name)).Msg("profile normalization failed")
	}

	o.log.Info().Str("account", string(record.Name)).Msg("account added")
	return nil
}
