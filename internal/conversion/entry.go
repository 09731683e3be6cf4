package conversion

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
)

// ConvertEntry rewrites an entry recorded under old so that only the
// fields used by next are populated. Identical types return the entry
// unchanged.
func ConvertEntry(e models.Entry, old, next models.HabitType) models.Entry {
	out := e.Clone()
	if old == next {
		return out
	}

	switch next.Kind {
	case models.KindCheckbox:
		out.CheckboxState = models.CheckboxState{
			Completed: completedFrom(e, old),
			Failed:    e.CheckboxState.Failed,
		}
		out.TextValue = ""
		out.EmojiValue = ""

	case models.KindMultiCheckbox:
		parts := make([]bool, next.Parts)
		if old.Kind == models.KindMultiCheckbox {
			copy(parts, e.CheckboxState.Parts)
		} else {
			// Text and emoji go through the single checkbox form first.
			parts[0] = completedFrom(e, old)
		}
		out.CheckboxState = models.CheckboxState{
			Failed: e.CheckboxState.Failed,
			Parts:  parts,
		}
		out.TextValue = ""
		out.EmojiValue = ""

	case models.KindText:
		out.TextValue = textFrom(e, old)
		out.EmojiValue = ""
		out.CheckboxState = resetState(e.CheckboxState)

	case models.KindEmoji:
		out.EmojiValue = emojiFrom(e, old)
		out.TextValue = ""
		out.CheckboxState = resetState(e.CheckboxState)
	}

	return out
}

// completedFrom reads the single-checkbox meaning of an entry.
func completedFrom(e models.Entry, old models.HabitType) bool {
	switch old.Kind {
	case models.KindCheckbox:
		return e.CheckboxState.Completed
	case models.KindMultiCheckbox:
		return e.CheckboxState.AllPartsCompleted()
	case models.KindText:
		return e.HasText()
	case models.KindEmoji:
		return e.HasEmoji()
	}
	return false
}

func textFrom(e models.Entry, old models.HabitType) string {
	switch old.Kind {
	case models.KindCheckbox:
		if e.CheckboxState.Completed {
			return constants.PlaceholderDoneText
		}
	case models.KindMultiCheckbox:
		if done := e.CheckboxState.CompletedParts(); done > 0 {
			return fmt.Sprintf("%d of %d parts", done, old.Parts)
		}
	case models.KindEmoji:
		if e.HasEmoji() {
			return constants.PlaceholderRecordedText
		}
	case models.KindText:
		return e.TextValue
	}
	return ""
}

func emojiFrom(e models.Entry, old models.HabitType) string {
	switch old.Kind {
	case models.KindCheckbox:
		if e.CheckboxState.Completed {
			return constants.PlaceholderDoneEmoji
		}
	case models.KindMultiCheckbox:
		done := e.CheckboxState.CompletedParts()
		switch {
		case done > 0 && done >= old.Parts:
			return constants.PlaceholderDoneEmoji
		case done > 0:
			return constants.PlaceholderInProgressEmoji
		}
	case models.KindText:
		if e.HasText() {
			return constants.PlaceholderTextEmoji
		}
	case models.KindEmoji:
		return e.EmojiValue
	}
	return ""
}

// resetState clears completion and parts, keeping the failed flag.
func resetState(s models.CheckboxState) models.CheckboxState {
	return models.CheckboxState{Failed: s.Failed}
}

// Warning describes what a conversion does to existing data. It is empty
// when the types are equal.
func Warning(old, next models.HabitType) string {
	if old == next {
		return ""
	}

	var lines []string
	switch {
	case old.IsMultiPart() && next.Kind == models.KindCheckbox:
		lines = []string{
			fmt.Sprintf("Per-part details of the %d parts will be lost", old.Parts),
			"A day counts as completed only if every part was completed",
		}
	case old.Kind == models.KindCheckbox && next.IsMultiPart():
		lines = []string{
			"Existing completion data will be converted",
			"Completed days mark only the first part as done",
		}
	case old.IsMultiPart() && next.IsMultiPart():
		lines = []string{
			"Parts are copied by position",
		}
		if next.Parts > old.Parts {
			lines = append(lines, "New parts start as not completed")
		} else {
			lines = append(lines, fmt.Sprintf("Parts beyond the first %d will be lost", next.Parts))
		}
	case !old.IsCheckbox() && next.IsCheckbox():
		lines = []string{
			"Existing entries will be converted to checkbox state",
			"Filled-in values count as completed",
			"Empty values count as not completed",
		}
	case old.IsCheckbox() && !next.IsCheckbox():
		done := constants.PlaceholderDoneText
		if next.Kind == models.KindEmoji {
			done = constants.PlaceholderDoneEmoji
		}
		lines = []string{
			fmt.Sprintf("Existing entries will be converted to %s values", next.Kind),
			fmt.Sprintf("Completed days get the value %q", done),
			"Days that were not completed get an empty value",
		}
	case old.Kind == models.KindText && next.Kind == models.KindEmoji:
		lines = []string{
			"Existing text entries will be converted",
			fmt.Sprintf("Filled-in values become %q", constants.PlaceholderTextEmoji),
			"Empty values stay empty",
		}
	case old.Kind == models.KindEmoji && next.Kind == models.KindText:
		lines = []string{
			"Existing emoji entries will be converted",
			fmt.Sprintf("Filled-in values become %q", constants.PlaceholderRecordedText),
			"Empty values stay empty",
		}
	}
	lines = append(lines, "Habit strength is kept, but how it is counted may change")

	var b strings.Builder
	fmt.Fprintf(&b, "Converting from %s to %s:\n", old.DisplayName(), next.DisplayName())
	for _, line := range lines {
		fmt.Fprintf(&b, "  • %s\n", line)
	}
	return b.String()
}
