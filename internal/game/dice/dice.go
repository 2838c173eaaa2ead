// Package dice provides the randomness abstraction and roll-result types
// for the Emporium simulation engine.
package dice

import "fmt"

// Source is the randomness provider for all engine rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// D20Result holds the audit trail for a single d20 draw, including the
// discarded die when the draw was made at disadvantage.
//
// Invariant: Kept is one of Rolled; at disadvantage, Kept == min(Rolled).
type D20Result struct {
	Rolled       []int // every die drawn, in draw order
	Kept         int   // the die that counts
	Disadvantage bool  // true when two dice were drawn and the lower kept
}

// String returns a human-readable audit string, e.g. "d20 [14 3] kept 3 (disadvantage)".
func (r D20Result) String() string {
	if r.Disadvantage {
		return fmt.Sprintf("d20 %v kept %d (disadvantage)", r.Rolled, r.Kept)
	}
	return fmt.Sprintf("d20 [%d]", r.Kept)
}

// D20 draws a single 20-sided die.
//
// Precondition: src must be non-nil.
// Postcondition: Kept is in [1, 20]; len(Rolled) == 1.
func D20(src Source) D20Result {
	v := src.Intn(20) + 1
	return D20Result{Rolled: []int{v}, Kept: v}
}

// D20Disadvantage draws two 20-sided dice and keeps the lower.
//
// Postcondition: Kept == min(Rolled); len(Rolled) == 2.
func D20Disadvantage(src Source) D20Result {
	a := src.Intn(20) + 1
	b := src.Intn(20) + 1
	kept := a
	if b < a {
		kept = b
	}
	return D20Result{Rolled: []int{a, b}, Kept: kept, Disadvantage: true}
}

// Die draws one die with the given number of sides.
//
// Precondition: sides >= 2; src must be non-nil.
// Postcondition: return value is in [1, sides].
func Die(sides int, src Source) int {
	if sides < 2 {
		panic(fmt.Sprintf("dice: Die called with sides=%d, need >= 2", sides))
	}
	return src.Intn(sides) + 1
}

// Percent draws a uniform value in [0.0, 1.0) with 1/10000 resolution.
// Used for probability gates (event triggers, patronage, craft criticals).
func Percent(src Source) float64 {
	return float64(src.Intn(10000)) / 10000.0
}
