package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMembership(t *testing.T) {
	t.Parallel()

	assert.Equal(t, OutcomeSuccess, ClassifyMembership(nil))
	assert.Equal(t, OutcomeAlreadyMember, ClassifyMembership(fmt.Errorf("join: %w", ErrAlreadyParticipant)))
	assert.Equal(t, OutcomeNotParticipant, ClassifyMembership(fmt.Errorf("leave: %w", ErrNotParticipant)))
	assert.Equal(t, OutcomeRateLimited, ClassifyMembership(&FloodWaitError{Wait: 30 * time.Second}))
	assert.Equal(t, OutcomeFailed, ClassifyMembership(ErrInviteExpired))
	assert.Equal(t, OutcomeFailed, ClassifyMembership(ErrTooManyChannels))
	assert.Equal(t, OutcomeFailed, ClassifyMembership(errors.New("boom")))
}

func TestTallyNotParticipantIsNetNeutral(t *testing.T) {
	t.Parallel()

	var tally Tally
	tally.Record(OutcomeSuccess)
	tally.Record(OutcomeAlreadyMember)
	tally.Record(OutcomeNotParticipant)
	tally.Record(OutcomeFailed)

	assert.Equal(t, 2, tally.Succeeded)
	assert.Equal(t, 1, tally.Failed)
}
