package application

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubhampopalghat/userbot/internal/domain"
)

func newOnboardingHarness(t *testing.T, client *fakeClient, answers ...string) (*Onboarding, *fakeRepo, *Pool) {
	t.Helper()

	repo := newFakeRepo()
	pool := NewPool(zerolog.Nop())
	opener := SessionOpener{
		Factory:     &fakeFactory{clients: map[domain.AccountName]*fakeClient{"Fresh": client}},
		SessionsDir: t.TempDir(),
	}
	normalizer := NewProfileNormalizer(t.TempDir()+"/ub1.png", zerolog.Nop())
	onboarding := NewOnboarding(repo, pool, opener, &scriptedPrompter{answers: answers}, normalizer, zerolog.Nop())
	return onboarding, repo, pool
}

func TestAddAccountHappyPath(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.authorized = false
	client.me = domain.Identity{UserID: 99, FirstName: "Fresh", Phone: "+15550001"}

	onboarding, repo, pool := newOnboardingHarness(t, client,
		"Fresh", "12345", "abcdef0123456789", "+15550001", "54321")

	name, err := onboarding.AddAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.AccountName("Fresh"), name)

	// Exactly one registry write carrying the platform-confirmed phone.
	assert.Equal(t, 1, repo.saves)
	record := repo.records["Fresh"]
	assert.Equal(t, 12345, record.APIID)
	assert.Equal(t, "+15550001", record.Phone)

	assert.Equal(t, 1, pool.Len())
	assert.Equal(t, domain.AccountName("Fresh"), pool.ActiveName())

	// The normalizer ran as part of the success tail.
	assert.Equal(t, ProfileDisplayName, client.profileName)
	assert.True(t, client.usernameCleared)
}

func TestAddAccountTwoFactorFlow(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.authorized = false
	client.signInFn = func(string, string) error { return domain.ErrTwoFactorRequired }
	client.signInPasswordFn = func(password string) error {
		if password != "hunter2" {
			return domain.ErrPasswordInvalid
		}
		return nil
	}

	onboarding, repo, pool := newOnboardingHarness(t, client,
		"Fresh", "12345", "abcdef0123456789", "+15550001", "54321",
		"wrong", "hunter2")

	name, err := onboarding.AddAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.AccountName("Fresh"), name)

	assert.Equal(t, 1, client.signInCalls)
	assert.Equal(t, 2, client.passwordCalls)
	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, 1, pool.Len())
}

func TestAddAccountThreeBadCodesAbort(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.authorized = false
	client.signInFn = func(string, string) error { return domain.ErrCodeInvalid }

	onboarding, repo, pool := newOnboardingHarness(t, client,
		"Fresh", "12345", "abcdef0123456789", "+15550001",
		"11111", "22222", "33333")

	_, err := onboarding.AddAccount(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 attempts")

	// The abort leaves no trace: registry untouched, pool empty, client
	// disconnected.
	assert.Zero(t, repo.saves)
	assert.Empty(t, repo.records)
	assert.Zero(t, pool.Len())
	assert.Equal(t, 1, client.disconnects)
	assert.Equal(t, 3, client.signInCalls)
}

func TestAddAccountRejectsDuplicateRegistryName(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	onboarding, repo, pool := newOnboardingHarness(t, client, "Fresh")
	repo.records["Fresh"] = domain.AccountRecord{Name: "Fresh", APIID: 1, APIHash: "x"}

	_, err := onboarding.AddAccount(context.Background())
	assert.ErrorIs(t, err, domain.ErrAccountExists)
	assert.Zero(t, repo.saves)
	assert.Zero(t, pool.Len())
}

func TestAddAccountRejectsBadAPIID(t *testing.T) {
	t.Parallel()

	onboarding, repo, _ := newOnboardingHarness(t, newFakeClient(), "Fresh", "not-a-number")

	_, err := onboarding.AddAccount(context.Background())
	require.Error(t, err)
	assert.Zero(t, repo.saves)
}

func TestAddAccountSkipsLoginWhenSessionAuthorized(t *testing.T) {
	t.Parallel()

	client := newFakeClient()
	client.me = domain.Identity{UserID: 5, FirstName: "Old", Phone: "+777"}

	onboarding, repo, pool := newOnboardingHarness(t, client,
		"Fresh", "12345", "abcdef0123456789")

	name, err := onboarding.AddAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.AccountName("Fresh"), name)

	// No code challenge was ever issued.
	assert.Zero(t, client.signInCalls)
	assert.Equal(t, "+777", repo.records["Fresh"].Phone)
	assert.Equal(t, domain.AccountName("Fresh"), pool.ActiveName())
}
