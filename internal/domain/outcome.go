package domain

import "errors"

// MembershipOutcome is the classified result of one join or leave attempt.
// Callers switch on the variant instead of matching platform error text.
type MembershipOutcome int

const (
	OutcomeSuccess MembershipOutcome = iota
	// OutcomeAlreadyMember: join target already joined, counted as success.
	OutcomeAlreadyMember
	// OutcomeNotParticipant: leave target never joined, net-neutral (neither
	// success nor failure).
	OutcomeNotParticipant
	// OutcomeRateLimited: the platform asked for a wait before retrying.
	OutcomeRateLimited
	OutcomeFailed
)

// ClassifyMembership maps a join/leave error to its outcome variant. A nil
// error is a plain success.
func ClassifyMembership(err error) MembershipOutcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrAlreadyParticipant):
		return OutcomeAlreadyMember
	case errors.Is(err, ErrNotParticipant):
		return OutcomeNotParticipant
	default:
		if _, ok := AsFloodWait(err); ok {
			return OutcomeRateLimited
		}
		return OutcomeFailed
	}
}

// Tally accumulates handler results across a bulk operation.
type Tally struct {
	Succeeded int
	Failed    int
}

func (t *Tally) Record(outcome MembershipOutcome) {
	switch outcome {
	case OutcomeSuccess, OutcomeAlreadyMember:
		t.Succeeded++
	case OutcomeNotParticipant:
		// net-neutral
	default:
		t.Failed++
	}
}
