// Package haggle implements the multi-round price negotiation between the
// shop owner and an NPC: an ephemeral session advanced by accept, decline,
// or persuade choices.
package haggle

import (
	"github.com/google/uuid"

	"github.com/cory-johannsen/emporium/internal/game/item"
)

// Direction distinguishes who is buying.
type Direction string

const (
	// DirectionSale: an NPC is buying from the player's shop. The offer
	// starts low and the player persuades it up toward the asking price.
	DirectionSale Direction = "sale"
	// DirectionPurchase: the player is buying from an NPC. The offer starts
	// high and the player persuades it down.
	DirectionPurchase Direction = "purchase"
)

// DefaultMaxRounds is the fixed persuasion round cap.
const DefaultMaxRounds = 3

// Session is an in-flight negotiation. It is ephemeral: never persisted
// across restarts, destroyed on accept or decline.
//
// Invariant: Round <= MaxRounds. CurrentOffer never crosses TargetPrice in
// the negotiating side's favored direction.
type Session struct {
	ID        string       `json:"id"`
	Direction Direction    `json:"direction"`
	ItemName  string       `json:"item_name"`
	Quality   item.Quality `json:"quality"`
	Quantity  int          `json:"quantity"`
	NPCName   string       `json:"npc_name"`

	InitialOffer int `json:"initial_offer"`
	CurrentOffer int `json:"current_offer"`
	// TargetPrice is the player's walk-away-happy price: the asking price
	// on a sale, the fair price on a purchase.
	TargetPrice int `json:"target_price"`

	Round     int `json:"round"`
	MaxRounds int `json:"max_rounds"`

	Mood           string `json:"mood"`
	CanStillHaggle bool   `json:"can_still_haggle"`
}

// NewSale opens a session for an NPC buying from the shop.
//
// Precondition: quantity > 0; askingPrice > 0; initialOffer <= askingPrice.
func NewSale(itemName string, quality item.Quality, quantity int, npcName, mood string, initialOffer, askingPrice int) *Session {
	return &Session{
		ID:             uuid.NewString(),
		Direction:      DirectionSale,
		ItemName:       itemName,
		Quality:        quality,
		Quantity:       quantity,
		NPCName:        npcName,
		InitialOffer:   initialOffer,
		CurrentOffer:   initialOffer,
		TargetPrice:    askingPrice,
		MaxRounds:      DefaultMaxRounds,
		Mood:           mood,
		CanStillHaggle: true,
	}
}

// NewPurchase opens a session for the player buying from an NPC.
//
// Precondition: quantity > 0; fairPrice > 0; initialOffer >= fairPrice.
func NewPurchase(itemName string, quality item.Quality, quantity int, npcName, mood string, initialOffer, fairPrice int) *Session {
	return &Session{
		ID:             uuid.NewString(),
		Direction:      DirectionPurchase,
		ItemName:       itemName,
		Quality:        quality,
		Quantity:       quantity,
		NPCName:        npcName,
		InitialOffer:   initialOffer,
		CurrentOffer:   initialOffer,
		TargetPrice:    fairPrice,
		MaxRounds:      DefaultMaxRounds,
		Mood:           mood,
		CanStillHaggle: true,
	}
}

// RemainingGap returns the signed distance from the current offer to the
// target price. Zero means the counterpart already meets the player's price.
func (s *Session) RemainingGap() int {
	return s.TargetPrice - s.CurrentOffer
}
