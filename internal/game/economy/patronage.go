package economy

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/emporium/internal/game/dice"
	"github.com/cory-johannsen/emporium/internal/game/haggle"
	"github.com/cory-johannsen/emporium/internal/game/item"
	"github.com/cory-johannsen/emporium/internal/game/shop"
	"github.com/cory-johannsen/emporium/internal/game/town"
)

// PatronageChance returns the effective chance of a passing NPC attempting
// a purchase this hour: base + min(reputation × multiplier, cap) + boost.
// The shop's one-time customer boost is consumed by this call, win or lose.
func (e *Engine) PatronageChance(s *shop.Shop) float64 {
	repBonus := float64(s.Reputation) * e.cfg.ReputationMultiplier
	if repBonus > e.cfg.ReputationChanceCap {
		repBonus = e.cfg.ReputationChanceCap
	}
	return e.cfg.PatronageBaseChance + repBonus + s.ConsumeCustomerBoost()
}

// RollPatronage rolls for a passing NPC attempting a purchase. On a hit it
// picks a random eligible inventory item and opens a haggling session with
// a random townsperson rather than completing the sale outright. Returns
// nil when the roll misses or nothing in the shop is sellable.
func (e *Engine) RollPatronage(s *shop.Shop, t *town.Town) *haggle.Session {
	chance := e.PatronageChance(s)
	if dice.Percent(e.src) >= chance {
		return nil
	}

	st := e.pickSellable(s)
	if st == nil || len(t.NPCs) == 0 {
		return nil
	}
	npc := t.NPCs[e.src.Intn(len(t.NPCs))]

	def, ok := e.items.Lookup(st.Name)
	if !ok {
		return nil
	}
	asking, err := e.ListPrice(item.Stack{Name: st.Name, Quality: st.Quality, Quantity: 1}, t.DemandFor(def.Type))
	if err != nil {
		return nil
	}

	// NPCs open at 60-85% of asking, wealthier ones closer to it.
	pct := 60 + e.src.Intn(16) + npc.WealthTier*2
	if pct > 95 {
		pct = 95
	}
	initial := asking * pct / 100
	if initial < 1 {
		initial = 1
	}

	sess := haggle.NewSale(st.Name, st.Quality, 1, npc.Name, npc.Disposition, initial, asking)
	e.logger.Debug("patron arrived",
		zap.String("npc", npc.Name),
		zap.String("item", st.Name),
		zap.Int("initial_offer", initial),
		zap.Int("asking", asking),
		zap.Float64("chance", chance),
	)
	return sess
}

// OpenPurchase opens a haggling session for the player buying qty units of
// the named item from a townsperson. The seller opens above the fair market
// price; the fair price is the haggle target.
//
// Precondition: qty > 0.
func (e *Engine) OpenPurchase(itemName string, qty int, npcName string, t *town.Town) (*haggle.Session, error) {
	if itemName == "" || qty <= 0 {
		return nil, fmt.Errorf("%w: bad purchase of %q x%d", ErrUnknownItem, itemName, qty)
	}
	def, ok := e.items.Lookup(itemName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, itemName)
	}
	npc, ok := t.NPCByName(npcName)
	if !ok {
		return nil, fmt.Errorf("%w: no one in %s called %q", ErrUnknownNPC, t.Name, npcName)
	}

	unit := float64(def.BaseValue) * t.DemandFor(def.Type) * e.cfg.Markup
	if unit < 1 {
		unit = 1
	}
	fair := int(unit) * qty

	// Sellers open at 105-140% of fair; the wealthy feel less need to gouge.
	pct := 140 - e.src.Intn(11) - npc.WealthTier*3
	if pct < 105 {
		pct = 105
	}
	initial := fair * pct / 100
	if initial <= fair {
		initial = fair + 1
	}

	sess := haggle.NewPurchase(itemName, item.QualityCommon, qty, npc.Name, npc.Disposition, initial, fair)
	e.logger.Debug("purchase opened",
		zap.String("npc", npc.Name),
		zap.String("item", itemName),
		zap.Int("initial_ask", initial),
		zap.Int("fair", fair),
	)
	return sess, nil
}

// pickSellable returns a uniformly random shop stack an NPC would buy:
// positive quantity and neither quest goods nor special currency.
func (e *Engine) pickSellable(s *shop.Shop) *item.Stack {
	var eligible []*item.Stack
	for i := range s.Inventory {
		st := &s.Inventory[i]
		if st.Quantity <= 0 {
			continue
		}
		def, ok := e.items.Lookup(st.Name)
		if !ok || def.Type == item.TypeQuest || def.Type == item.TypeCurrency {
			continue
		}
		eligible = append(eligible, st)
	}
	if len(eligible) == 0 {
		return nil
	}
	return eligible[e.src.Intn(len(eligible))]
}
