package economy

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/emporium/internal/game/character"
	"github.com/cory-johannsen/emporium/internal/game/haggle"
	"github.com/cory-johannsen/emporium/internal/game/item"
	"github.com/cory-johannsen/emporium/internal/game/shop"
	"github.com/cory-johannsen/emporium/internal/game/town"
)

// TradeRecord reports a settled exchange of gold and goods.
type TradeRecord struct {
	ItemName string       `json:"item_name"`
	Quality  item.Quality `json:"quality"`
	Quantity int          `json:"quantity"`
	Gold     int          `json:"gold"`
	// Counterpart is the other party: "market" or an NPC name.
	Counterpart string `json:"counterpart"`
	// ReputationGained is the shop reputation awarded, sales only.
	ReputationGained int `json:"reputation_gained"`
}

// BuyFromMarket purchases qty units of the named item for the character
// from the town market at base value × demand × markup per unit.
//
// Postcondition: gold and goods move together or not at all.
func (e *Engine) BuyFromMarket(name string, qty int, c *character.Character, t *town.Town) (TradeRecord, error) {
	if name == "" || qty <= 0 {
		return TradeRecord{}, fmt.Errorf("%w: bad purchase of %q x%d", ErrUnknownItem, name, qty)
	}
	def, ok := e.items.Lookup(name)
	if !ok {
		return TradeRecord{}, fmt.Errorf("%w: %q", ErrUnknownItem, name)
	}
	unit := float64(def.BaseValue) * t.DemandFor(def.Type) * e.cfg.Markup
	if unit < 1 {
		unit = 1
	}
	total := int(unit) * qty
	if c.Gold < total {
		return TradeRecord{}, fmt.Errorf("%w: need %d, have %d", ErrInsufficientGold, total, c.Gold)
	}

	c.AddGold(-total)
	c.Inventory.Add(name, item.QualityCommon, qty)

	return TradeRecord{ItemName: name, Quality: item.QualityCommon, Quantity: qty, Gold: -total, Counterpart: "market"}, nil
}

// SellToMarket sells qty units from the character's inventory to the town
// market at value × demand × buyback per unit.
//
// Postcondition: gold and goods move together or not at all.
func (e *Engine) SellToMarket(name string, quality item.Quality, qty int, c *character.Character, t *town.Town) (TradeRecord, error) {
	if name == "" || qty <= 0 {
		return TradeRecord{}, fmt.Errorf("%w: bad sale of %q x%d", ErrUnknownItem, name, qty)
	}
	def, ok := e.items.Lookup(name)
	if !ok {
		return TradeRecord{}, fmt.Errorf("%w: %q", ErrUnknownItem, name)
	}
	st := c.Inventory.Find(name, quality)
	if st == nil || st.Quantity < qty {
		return TradeRecord{}, fmt.Errorf("%w: %s (%s) x%d", ErrNotInStock, name, quality, qty)
	}

	unit := float64(def.BaseValue) * quality.Multiplier() * t.DemandFor(def.Type) * e.cfg.Buyback
	if unit < 1 {
		unit = 1
	}
	total := int(unit) * qty

	c.Inventory.RemoveExact(name, quality, qty)
	c.AddGold(total)

	return TradeRecord{ItemName: name, Quality: quality, Quantity: qty, Gold: total, Counterpart: "market"}, nil
}

// FinalizeSale settles an accepted NPC sale session: goods leave the shop,
// the agreed offer lands in the till, and reputation is awarded.
//
// Precondition: the session reached haggle.StatusAccepted.
func (e *Engine) FinalizeSale(sess *haggle.Session, s *shop.Shop, t *town.Town) (TradeRecord, error) {
	if !s.Inventory.RemoveExact(sess.ItemName, sess.Quality, sess.Quantity) {
		return TradeRecord{}, fmt.Errorf("%w: %s (%s) x%d", ErrNotInStock, sess.ItemName, sess.Quality, sess.Quantity)
	}
	s.Gold += sess.CurrentOffer
	rep := e.awardReputation(sess.ItemName, sess.Quality, s, t)

	e.logger.Debug("sale finalized",
		zap.String("item", sess.ItemName),
		zap.String("npc", sess.NPCName),
		zap.Int("gold", sess.CurrentOffer),
		zap.Int("reputation", rep),
	)
	return TradeRecord{
		ItemName:         sess.ItemName,
		Quality:          sess.Quality,
		Quantity:         sess.Quantity,
		Gold:             sess.CurrentOffer,
		Counterpart:      sess.NPCName,
		ReputationGained: rep,
	}, nil
}

// FinalizePurchase settles an accepted player purchase session: the agreed
// offer leaves the character's purse and the goods join their inventory.
//
// Precondition: the session reached haggle.StatusAccepted.
func (e *Engine) FinalizePurchase(sess *haggle.Session, c *character.Character) (TradeRecord, error) {
	if c.Gold < sess.CurrentOffer {
		return TradeRecord{}, fmt.Errorf("%w: need %d, have %d", ErrInsufficientGold, sess.CurrentOffer, c.Gold)
	}
	c.AddGold(-sess.CurrentOffer)
	c.Inventory.Add(sess.ItemName, sess.Quality, sess.Quantity)

	return TradeRecord{
		ItemName:    sess.ItemName,
		Quality:     sess.Quality,
		Quantity:    sess.Quantity,
		Gold:        -sess.CurrentOffer,
		Counterpart: sess.NPCName,
	}, nil
}

// specializationTypes maps a shop trade focus to the item types it covers.
var specializationTypes = map[string][]string{
	shop.SpecAlchemy:     {item.TypePotion, item.TypeIngredient},
	shop.SpecSmithing:    {item.TypeWeapon, item.TypeArmor},
	shop.SpecTailoring:   {item.TypeArmor, item.TypeTrinket},
	shop.SpecWoodworking: {item.TypeTool},
	shop.SpecEnchanting:  {item.TypeTrinket},
}

// matchesSpecialization reports whether the item type falls under the
// shop's declared trade focus. General-goods shops match nothing special.
func matchesSpecialization(spec, itemType string) bool {
	for _, t := range specializationTypes[spec] {
		if t == itemType {
			return true
		}
	}
	return false
}

// awardReputation raises the shop's reputation for a completed sale:
// an amount keyed to quality tier, plus flat bonuses for a specialization
// match and for selling a faction's favored goods in its HQ town.
func (e *Engine) awardReputation(itemName string, quality item.Quality, s *shop.Shop, t *town.Town) int {
	def, ok := e.items.Lookup(itemName)
	if !ok {
		return 0
	}

	award := quality.Index() + 1
	if matchesSpecialization(s.Specialization, def.Type) {
		award += 2
	}
	for _, f := range e.rules.FactionsAtHQ(t.Name) {
		for _, good := range f.FavoredGoods {
			if good == def.Type {
				award += 2
			}
		}
	}

	s.AddReputation(award)
	return award
}
