package character

// skillAbility maps each skill to its governing ability. Unknown skills are
// content bugs to surface, not crash on; SkillScore reports lookup failure
// and the skill-check engine records an automatic failure.
var skillAbility = map[string]func(AbilityScores) int{
	"athletics":     func(a AbilityScores) int { return a.Strength },
	"acrobatics":    func(a AbilityScores) int { return a.Dexterity },
	"sleight":       func(a AbilityScores) int { return a.Dexterity },
	"endurance":     func(a AbilityScores) int { return a.Constitution },
	"crafting":      func(a AbilityScores) int { return a.Intelligence },
	"appraisal":     func(a AbilityScores) int { return a.Intelligence },
	"investigation": func(a AbilityScores) int { return a.Intelligence },
	"survival":      func(a AbilityScores) int { return a.Wisdom },
	"insight":       func(a AbilityScores) int { return a.Wisdom },
	"perception":    func(a AbilityScores) int { return a.Wisdom },
	"persuasion":    func(a AbilityScores) int { return a.Charisma },
	"deception":     func(a AbilityScores) int { return a.Charisma },
	"intimidation":  func(a AbilityScores) int { return a.Charisma },
}

// KnownSkill reports whether the named skill exists.
func KnownSkill(skill string) bool {
	_, ok := skillAbility[skill]
	return ok
}

// SkillScore returns the character's derived score for the named skill:
// governing ability modifier + background bonus + feat bonus + allocated
// points. The second return value is false for unknown skills.
func (c *Character) SkillScore(skill string) (int, bool) {
	ability, ok := skillAbility[skill]
	if !ok {
		return 0, false
	}
	score := Modifier(ability(c.Abilities))
	score += c.BackgroundBonuses[skill]
	score += c.FeatBonuses[skill]
	score += c.AllocatedPoints[skill]
	return score, true
}

// AllocateSkillPoint spends one unspent skill point on the named skill.
//
// Postcondition: returns false without mutating when the skill is unknown
// or no points remain.
func (c *Character) AllocateSkillPoint(skill string) bool {
	if !KnownSkill(skill) || c.UnspentSkillPoints <= 0 {
		return false
	}
	if c.AllocatedPoints == nil {
		c.AllocatedPoints = make(map[string]int)
	}
	c.AllocatedPoints[skill]++
	c.UnspentSkillPoints--
	return true
}
