package service

import (
	"errors"
	"fmt"

	"lms-tracker/internal/domain"
)

// ErrSubjectNotInMatch is returned when the subject username matches
// neither side of a match. Callers must exclude or flag the record; it is
// never silently attributed to either player.
var ErrSubjectNotInMatch = errors.New("subject is not a participant in the match")

// ResolvePerspective frames a match relative to the subject username.
// Username comparison is exact and case-sensitive. An unfinished match is
// always ongoing regardless of the winner field.
func ResolvePerspective(match domain.Match, subject string) (domain.Perspective, error) {
	var p domain.Perspective

	switch subject {
	case match.Player1.Username:
		p.Self = match.Player1
		p.Opponent = match.Player2
		p.IsSelfPlayer1 = true
		p.SelfWins = match.Player1Wins
		p.OpponentWins = match.Player2Wins
	case match.Player2.Username:
		p.Self = match.Player2
		p.Opponent = match.Player1
		p.IsSelfPlayer1 = false
		p.SelfWins = match.Player2Wins
		p.OpponentWins = match.Player1Wins
	default:
		return domain.Perspective{}, fmt.Errorf("match %d: %w", match.ID, ErrSubjectNotInMatch)
	}

	if !match.Finished {
		p.Outcome = domain.OutcomeOngoing
	} else if match.Winner != nil && match.Winner.Username == subject {
		p.Outcome = domain.OutcomeWin
	} else {
		p.Outcome = domain.OutcomeLoss
	}

	return p, nil
}
