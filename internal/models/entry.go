package models

import "strings"

// CheckboxState holds the checkbox payload of an entry. For multi-part
// habits Parts has one slot per part and Completed is unused.
type CheckboxState struct {
	Completed bool   `json:"completed,omitempty"`
	Failed    bool   `json:"failed"`
	Parts     []bool `json:"parts,omitempty"`
}

// CompletedParts counts the parts marked done.
func (c CheckboxState) CompletedParts() int {
	n := 0
	for _, p := range c.Parts {
		if p {
			n++
		}
	}
	return n
}

// AllPartsCompleted reports whether every part is done; false when there are no parts.
func (c CheckboxState) AllPartsCompleted() bool {
	return len(c.Parts) > 0 && c.CompletedParts() == len(c.Parts)
}

// Entry represents a single day's record of a habit
type Entry struct {
	ID            string        `json:"id"`
	HabitID       string        `json:"habitId"`
	Date          string        `json:"date"` // YYYY-MM-DD format
	CheckboxState CheckboxState `json:"checkboxState"`
	TextValue     string        `json:"textValue"`
	EmojiValue    string        `json:"emojiValue"`
	Comment       string        `json:"comment"`
	CreatedAt     string        `json:"createdAt"`
	UpdatedAt     string        `json:"updatedAt"`
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	c := e
	if e.CheckboxState.Parts != nil {
		c.CheckboxState.Parts = append([]bool(nil), e.CheckboxState.Parts...)
	}
	return c
}

// HasText reports whether the text value is non-blank.
func (e Entry) HasText() bool {
	return strings.TrimSpace(e.TextValue) != ""
}

// HasEmoji reports whether the emoji value is non-blank.
func (e Entry) HasEmoji() bool {
	return strings.TrimSpace(e.EmojiValue) != ""
}

// EntryStatus is the display status of a habit on a given day.
type EntryStatus string

const (
	EntryStatusNone      EntryStatus = "none"
	EntryStatusCompleted EntryStatus = "completed"
	EntryStatusPartial   EntryStatus = "partial"
	EntryStatusFailed    EntryStatus = "failed"
)

// StatusFor classifies an entry against the habit type it belongs to.
func StatusFor(t HabitType, e *Entry) EntryStatus {
	if e == nil {
		return EntryStatusNone
	}
	switch t.Kind {
	case KindCheckbox:
		if e.CheckboxState.Completed {
			return EntryStatusCompleted
		}
		if e.CheckboxState.Failed {
			return EntryStatusFailed
		}
		return EntryStatusNone
	case KindMultiCheckbox:
		done := e.CheckboxState.CompletedParts()
		switch {
		case done >= t.Parts:
			return EntryStatusCompleted
		case done > 0:
			return EntryStatusPartial
		default:
			return EntryStatusFailed
		}
	case KindText:
		if e.HasText() {
			return EntryStatusCompleted
		}
		return EntryStatusFailed
	case KindEmoji:
		if e.HasEmoji() {
			return EntryStatusCompleted
		}
		return EntryStatusFailed
	}
	return EntryStatusNone
}
