package item

import "fmt"

// Quality is an item quality tier. Higher tiers multiply the item's value.
type Quality string

const (
	QualityPoor      Quality = "poor"
	QualityCommon    Quality = "common"
	QualityUncommon  Quality = "uncommon"
	QualityRare      Quality = "rare"
	QualityExquisite Quality = "exquisite"
	QualityLegendary Quality = "legendary"
)

// qualityOrder lists the tiers from worst to best.
var qualityOrder = []Quality{
	QualityPoor,
	QualityCommon,
	QualityUncommon,
	QualityRare,
	QualityExquisite,
	QualityLegendary,
}

// qualityMultipliers maps each tier to its value multiplier.
var qualityMultipliers = map[Quality]float64{
	QualityPoor:      0.5,
	QualityCommon:    1.0,
	QualityUncommon:  1.5,
	QualityRare:      2.5,
	QualityExquisite: 4.0,
	QualityLegendary: 6.0,
}

// Valid reports whether q is one of the six defined tiers.
func (q Quality) Valid() bool {
	_, ok := qualityMultipliers[q]
	return ok
}

// Multiplier returns the value multiplier for q.
//
// Precondition: q.Valid(). Unknown tiers fall back to the common multiplier.
func (q Quality) Multiplier() float64 {
	if m, ok := qualityMultipliers[q]; ok {
		return m
	}
	return qualityMultipliers[QualityCommon]
}

// Index returns the tier's position from worst (0) to best (5), or -1 if unknown.
func (q Quality) Index() int {
	for i, t := range qualityOrder {
		if t == q {
			return i
		}
	}
	return -1
}

// Shift returns the tier the given number of steps away, clamped to the
// worst/best tiers. Shift(0) returns q unchanged.
func (q Quality) Shift(steps int) Quality {
	idx := q.Index()
	if idx < 0 {
		return q
	}
	idx += steps
	if idx < 0 {
		idx = 0
	}
	if idx >= len(qualityOrder) {
		idx = len(qualityOrder) - 1
	}
	return qualityOrder[idx]
}

// ParseQuality converts a string into a Quality.
//
// Postcondition: Returns a valid Quality or an error naming the bad input.
func ParseQuality(s string) (Quality, error) {
	q := Quality(s)
	if !q.Valid() {
		return "", fmt.Errorf("unknown quality tier %q", s)
	}
	return q, nil
}
