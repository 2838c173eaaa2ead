package character

import (
	"time"

	"github.com/google/uuid"
)

// Journal entry categories.
const (
	JournalAction  = "action"
	JournalEvent   = "event"
	JournalTrade   = "trade"
	JournalHaggle  = "haggle"
	JournalRest    = "rest"
	JournalSystem  = "system"
	JournalCraft   = "craft"
	JournalFaction = "faction"
)

// JournalEntry is one immutable narrated record in a character's journal.
//
// Entries are write-once: the engine appends them and never edits them.
type JournalEntry struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Day       int            `json:"day"`
	Hour      int            `json:"hour"`
	Category  string         `json:"category"`
	Summary   string         `json:"summary"`
	Detail    map[string]any `json:"detail,omitempty"`
	Outcome   string         `json:"outcome,omitempty"`
}

// AppendJournal appends a new entry and returns it.
//
// Precondition: category and summary must be non-empty.
func (c *Character) AppendJournal(day, hour int, category, summary string, detail map[string]any, outcome string) JournalEntry {
	entry := JournalEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Day:       day,
		Hour:      hour,
		Category:  category,
		Summary:   summary,
		Detail:    detail,
		Outcome:   outcome,
	}
	c.Journal = append(c.Journal, entry)
	return entry
}
