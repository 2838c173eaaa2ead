package character

// MaxLevel caps character advancement.
const MaxLevel = 20

// xpForLevel returns the committed XP required to reach the given level.
// The curve is quadratic: level 2 at 300, level 3 at 900, level 4 at 1800...
func xpForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	n := level - 1
	return 150 * n * (n + 1)
}

// AwardXP accrues experience as pending. It is never folded into committed
// experience here; see CommitPendingXP.
//
// Precondition: amount may be negative (event penalties) but pending XP
// never drops below zero.
func (c *Character) AwardXP(amount int) {
	c.PendingXP += amount
	if c.PendingXP < 0 {
		c.PendingXP = 0
	}
}

// CommitPendingXP folds pending XP into committed experience and evaluates
// level-ups. This is the only commit point; callers invoke it explicitly
// (end-of-day bookkeeping).
//
// Postcondition: PendingXP == 0; returns the number of levels gained.
func (c *Character) CommitPendingXP() int {
	c.Experience += c.PendingXP
	c.PendingXP = 0

	gained := 0
	for c.Level < MaxLevel && c.Experience >= xpForLevel(c.Level+1) {
		c.Level++
		gained++
		c.HitDice++
		hpGain := 5 + Modifier(c.Abilities.Constitution)
		if hpGain < 1 {
			hpGain = 1
		}
		c.MaxHP += hpGain
		c.UnspentSkillPoints += 2
	}
	if c.HitDice > c.Level {
		c.HitDice = c.Level
	}
	return gained
}
