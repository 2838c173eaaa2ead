package haggle

import (
	"fmt"

	"github.com/cory-johannsen/emporium/internal/game/character"
	"github.com/cory-johannsen/emporium/internal/game/dice"
	"github.com/cory-johannsen/emporium/internal/game/skillcheck"
)

// Choice is the player's response to a negotiation round.
type Choice string

const (
	ChoiceAccept   Choice = "accept"
	ChoiceDecline  Choice = "decline"
	ChoicePersuade Choice = "persuade"
)

// Status reports where the session stands after a response.
type Status string

const (
	// StatusNegotiating: the session remains open for further responses.
	StatusNegotiating Status = "negotiating"
	// StatusAccepted: the trade closes at CurrentOffer. Terminal.
	StatusAccepted Status = "accepted"
	// StatusDeclined: the trade is abandoned. Terminal.
	StatusDeclined Status = "declined"
	// StatusExhausted: the counterpart refuses to move further; the session
	// stays open but only accept or decline remain.
	StatusExhausted Status = "exhausted"
)

// Terminal reports whether the status destroys the session.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusDeclined
}

// BasePersuadeDC is the DC of the first persuasion round; each attempted
// round raises it by one.
const BasePersuadeDC = 12

// Outcome reports the result of one response.
type Outcome struct {
	Status Status `json:"status"`
	// Check is the persuasion roll record, when one was made.
	Check *skillcheck.Result `json:"check,omitempty"`
	// OfferMoved is the price movement this round (zero on failure).
	OfferMoved int `json:"offer_moved"`
	// Refused is set when a persuade was attempted with no rounds left.
	Refused bool `json:"refused,omitempty"`
}

// ErrUnknownChoice is returned for a response outside the closed choice set.
var ErrUnknownChoice = fmt.Errorf("unknown haggle choice")

// Machine drives haggling sessions. The trade itself (gold and item
// movement) is finalized by the caller when StatusAccepted is returned.
type Machine struct {
	checks *skillcheck.Engine
	src    dice.Source
}

// NewMachine creates a haggling machine.
//
// Precondition: checks and src must be non-nil.
func NewMachine(checks *skillcheck.Engine, src dice.Source) *Machine {
	if checks == nil || src == nil {
		panic("haggle: NewMachine requires non-nil checks and src")
	}
	return &Machine{checks: checks, src: src}
}

// Respond advances the session with the player's choice.
//
// Accept and decline are terminal; the caller destroys the session and, on
// accept, settles the trade at CurrentOffer. Persuade rolls persuasion
// against BasePersuadeDC + rounds already attempted, incrementing the round
// counter win or lose; success moves the offer toward the target price by a
// random 5-15% of the remaining gap, never past it. Once the offer reaches
// the target or the round cap, CanStillHaggle latches false and further
// persuade attempts are refused without a roll.
func (m *Machine) Respond(s *Session, choice Choice, c *character.Character) (Outcome, error) {
	switch choice {
	case ChoiceAccept:
		return Outcome{Status: StatusAccepted}, nil
	case ChoiceDecline:
		return Outcome{Status: StatusDeclined}, nil
	case ChoicePersuade:
		return m.persuade(s, c), nil
	default:
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownChoice, choice)
	}
}

func (m *Machine) persuade(s *Session, c *character.Character) Outcome {
	if !s.CanStillHaggle || s.Round >= s.MaxRounds {
		s.CanStillHaggle = false
		return Outcome{Status: StatusExhausted, Refused: true}
	}

	dc := BasePersuadeDC + s.Round
	check := m.checks.Check("persuasion", dc, c, false)
	s.Round++

	var moved int
	if check.Success() {
		moved = m.concession(s)
		s.CurrentOffer += moved
	}

	if s.RemainingGap() == 0 || s.Round >= s.MaxRounds {
		s.CanStillHaggle = false
	}

	status := StatusNegotiating
	if !s.CanStillHaggle {
		status = StatusExhausted
	}
	return Outcome{Status: status, Check: &check, OfferMoved: moved}
}

// concession computes a signed price movement of 5-15% of the remaining
// gap, at least one gold piece, clamped so the offer never crosses the
// target price.
func (m *Machine) concession(s *Session) int {
	gap := s.RemainingGap()
	if gap == 0 {
		return 0
	}
	pct := 5 + m.src.Intn(11) // 5..15
	moved := gap * pct / 100
	if moved == 0 {
		if gap > 0 {
			moved = 1
		} else {
			moved = -1
		}
	}
	// Clamp: |moved| <= |gap|.
	if gap > 0 && moved > gap {
		moved = gap
	}
	if gap < 0 && moved < gap {
		moved = gap
	}
	return moved
}
