package tracker

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitual/internal/entries"
	"github.com/julianstephens/habitual/internal/habits"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

func setupTracker(t *testing.T) (*Tracker, *storage.MemoryStore) {
	t.Helper()
	provider := storage.NewMemoryStore()
	return New(habits.NewStore(provider), entries.NewStore(provider)), provider
}

func mustCreate(t *testing.T, tr *Tracker, h models.Habit) models.Habit {
	t.Helper()
	created, err := tr.CreateHabit(h)
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	return created
}

func TestCreateHabitValidates(t *testing.T) {
	tr, _ := setupTracker(t)
	if _, err := tr.CreateHabit(models.Habit{Name: " ", Type: models.CheckboxType()}); err == nil {
		t.Error("expected error for blank name")
	}
	bad := models.Habit{Name: "Split", Type: models.MultiCheckboxType(3), TimeOfDay: models.SingleTime(models.PeriodDay)}
	if _, err := tr.CreateHabit(bad); err == nil {
		t.Error("expected error for mismatched schedule")
	}
	if len(tr.Habits.GetAll()) != 0 {
		t.Error("invalid habits must not be stored")
	}
}

func TestToggleCheckboxCycle(t *testing.T) {
	tr, _ := setupTracker(t)
	h := mustCreate(t, tr, models.Habit{Name: "Run", Type: models.CheckboxType()})

	want := []struct {
		state    models.CheckboxState
		strength float64
	}{
		{models.CheckboxState{Completed: true}, 1},
		{models.CheckboxState{Failed: true}, 0},
		{models.CheckboxState{}, 0},
		{models.CheckboxState{Completed: true}, 1},
	}
	for i, w := range want {
		e, err := tr.ToggleCheckbox(h.ID, "2024-01-01")
		if err != nil {
			t.Fatalf("toggle %d failed: %v", i, err)
		}
		if diff := cmp.Diff(w.state, e.CheckboxState); diff != "" {
			t.Errorf("toggle %d state mismatch (-want +got):\n%s", i, diff)
		}
		if got := tr.Habits.Get(h.ID).Strength; got != w.strength {
			t.Errorf("toggle %d strength = %v, want %v", i, got, w.strength)
		}
	}
}

func TestToggleCheckboxErrors(t *testing.T) {
	tr, _ := setupTracker(t)
	text := mustCreate(t, tr, models.Habit{Name: "Journal", Type: models.TextType()})

	if e, err := tr.ToggleCheckbox("missing", "2024-01-01"); e != nil || err != nil {
		t.Errorf("unknown habit should yield nil, nil; got %+v, %v", e, err)
	}
	if _, err := tr.ToggleCheckbox(text.ID, "2024-01-01"); err == nil {
		t.Error("expected type error toggling a text habit")
	}
	if _, err := tr.ToggleCheckbox(text.ID, "Jan 1"); err == nil {
		t.Error("expected date error")
	}
	if len(tr.Entries.GetAll()) != 0 {
		t.Error("rejected operations must not create entries")
	}
}

func TestTogglePart(t *testing.T) {
	tr, _ := setupTracker(t)
	h := mustCreate(t, tr, models.Habit{Name: "Water", Type: models.MultiCheckboxType(4)})

	e, err := tr.TogglePart(h.ID, "2024-01-01", 1)
	if err != nil {
		t.Fatalf("TogglePart failed: %v", err)
	}
	if diff := cmp.Diff([]bool{false, true, false, false}, e.CheckboxState.Parts); diff != "" {
		t.Errorf("parts mismatch (-want +got):\n%s", diff)
	}

	if _, err := tr.TogglePart(h.ID, "2024-01-01", 3); err != nil {
		t.Fatalf("TogglePart failed: %v", err)
	}
	if got := tr.Habits.Get(h.ID).Strength; got != 0.5 {
		t.Errorf("expected strength 0.5 with 2/4 parts, got %v", got)
	}

	e, _ = tr.TogglePart(h.ID, "2024-01-01", 1)
	if e.CheckboxState.Parts[1] {
		t.Error("second toggle should clear the part")
	}

	if _, err := tr.TogglePart(h.ID, "2024-01-01", 4); err == nil {
		t.Error("expected out of range error")
	}
}

func TestSetTextEmojiComment(t *testing.T) {
	tr, _ := setupTracker(t)
	text := mustCreate(t, tr, models.Habit{Name: "Journal", Type: models.TextType()})
	mood := mustCreate(t, tr, models.Habit{Name: "Mood", Type: models.EmojiType(), EmojiOptions: []string{"😊", "😐"}})

	if _, err := tr.SetText(text.ID, "2024-01-01", "wrote a page"); err != nil {
		t.Fatalf("SetText failed: %v", err)
	}
	if got := tr.Habits.Get(text.ID).Strength; got != 1 {
		t.Errorf("expected strength 1 after text entry, got %v", got)
	}
	if _, err := tr.SetText(mood.ID, "2024-01-01", "x"); err == nil {
		t.Error("expected type error setting text on emoji habit")
	}

	if _, err := tr.SetEmoji(mood.ID, "2024-01-01", "🔥"); err == nil {
		t.Error("expected error for emoji outside options")
	}
	if _, err := tr.SetEmoji(mood.ID, "2024-01-01", "😐"); err != nil {
		t.Fatalf("SetEmoji failed: %v", err)
	}

	e, err := tr.SetComment(mood.ID, "2024-01-01", "long day")
	if err != nil {
		t.Fatalf("SetComment failed: %v", err)
	}
	if e.EmojiValue != "😐" || e.Comment != "long day" {
		t.Errorf("unexpected entry %+v", e)
	}
}

func TestMarkFailed(t *testing.T) {
	tr, _ := setupTracker(t)
	run := mustCreate(t, tr, models.Habit{Name: "Run", Type: models.CheckboxType()})
	water := mustCreate(t, tr, models.Habit{Name: "Water", Type: models.MultiCheckboxType(2)})

	tr.ToggleCheckbox(run.ID, "2024-01-01")
	e, _ := tr.MarkFailed(run.ID, "2024-01-01")
	if diff := cmp.Diff(models.CheckboxState{Failed: true}, e.CheckboxState); diff != "" {
		t.Errorf("checkbox state mismatch (-want +got):\n%s", diff)
	}

	tr.TogglePart(water.ID, "2024-01-01", 0)
	e, _ = tr.MarkFailed(water.ID, "2024-01-01")
	if diff := cmp.Diff(models.CheckboxState{Failed: true, Parts: []bool{true, false}}, e.CheckboxState); diff != "" {
		t.Errorf("multi-part progress should coexist with failure (-want +got):\n%s", diff)
	}
}

func TestCreateUpdateDeleteEntry(t *testing.T) {
	tr, _ := setupTracker(t)
	h := mustCreate(t, tr, models.Habit{Name: "Run", Type: models.CheckboxType()})

	created, err := tr.CreateEntry(models.Entry{HabitID: h.ID, Date: "2024-01-01", CheckboxState: models.CheckboxState{Completed: true}})
	if err != nil || created == nil {
		t.Fatalf("CreateEntry failed: %+v, %v", created, err)
	}
	if tr.Habits.Get(h.ID).Strength != 1 {
		t.Error("create should recompute strength")
	}
	if _, err := tr.CreateEntry(models.Entry{HabitID: h.ID, Date: "2024-01-01"}); err == nil {
		t.Error("expected error creating a second entry for the day")
	}
	if e, err := tr.CreateEntry(models.Entry{HabitID: "missing", Date: "2024-01-01"}); e != nil || err != nil {
		t.Errorf("unknown habit should yield nil, nil; got %+v, %v", e, err)
	}

	comment := "easy pace"
	updated, err := tr.UpdateEntry(h.ID, "2024-01-01", EntryUpdate{
		CheckboxState: &models.CheckboxState{Failed: true},
		Comment:       &comment,
	})
	if err != nil || updated == nil || updated.Comment != comment || !updated.CheckboxState.Failed {
		t.Fatalf("unexpected updated entry %+v", updated)
	}
	if tr.Habits.Get(h.ID).Strength != 0 {
		t.Error("update should recompute strength")
	}
	if got, err := tr.UpdateEntry(h.ID, "2024-02-01", EntryUpdate{Comment: &comment}); got != nil || err != nil {
		t.Errorf("updating a missing entry should yield nil, nil; got %+v, %v", got, err)
	}

	tr.ToggleCheckbox(h.ID, "2024-01-02")
	if !tr.DeleteEntry(h.ID, "2024-01-01") {
		t.Fatal("expected delete to succeed")
	}
	if got := tr.Habits.Get(h.ID).Strength; got != 1 {
		t.Errorf("delete should recompute strength, got %v", got)
	}
	if tr.DeleteEntry(h.ID, "2024-01-01") {
		t.Error("second delete should report false")
	}
}

func TestEntryPayloadMustFitHabitType(t *testing.T) {
	tr, _ := setupTracker(t)
	run := mustCreate(t, tr, models.Habit{Name: "Run", Type: models.CheckboxType()})
	split := mustCreate(t, tr, models.Habit{Name: "Water", Type: models.MultiCheckboxType(3)})

	rejected := []models.Entry{
		{HabitID: run.ID, Date: "2024-01-01", TextValue: "hello", EmojiValue: "x"},
		{HabitID: run.ID, Date: "2024-01-01", CheckboxState: models.CheckboxState{Parts: []bool{true}}},
		{HabitID: split.ID, Date: "2024-01-01", CheckboxState: models.CheckboxState{Parts: []bool{true, false}}},
		{HabitID: split.ID, Date: "2024-01-01", CheckboxState: models.CheckboxState{Completed: true}},
	}
	for i, e := range rejected {
		if created, err := tr.CreateEntry(e); err == nil {
			t.Errorf("case %d: expected rejection, stored %+v", i, created)
		}
	}
	if n := len(tr.Entries.GetAll()); n != 0 {
		t.Fatalf("rejected entries must not be stored, found %d", n)
	}

	if _, err := tr.CreateEntry(models.Entry{HabitID: split.ID, Date: "2024-01-01"}); err != nil {
		t.Fatalf("empty multi-part entry should be accepted: %v", err)
	}
	if _, err := tr.CreateEntry(models.Entry{HabitID: run.ID, Date: "2024-01-01", CheckboxState: models.CheckboxState{Completed: true}}); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	stray := "stray"
	if _, err := tr.UpdateEntry(run.ID, "2024-01-01", EntryUpdate{TextValue: &stray}); err == nil {
		t.Error("expected text on a checkbox habit to be rejected")
	}
	if got := tr.Entries.Get(run.ID, "2024-01-01"); got.TextValue != "" || !got.CheckboxState.Completed {
		t.Errorf("rejected update changed the entry: %+v", got)
	}
	if _, err := tr.UpdateEntry(split.ID, "2024-01-01", EntryUpdate{CheckboxState: &models.CheckboxState{Parts: []bool{true, true}}}); err == nil {
		t.Error("expected wrong part count to be rejected")
	}
	if _, err := tr.UpdateEntry(split.ID, "2024-01-01", EntryUpdate{CheckboxState: &models.CheckboxState{Parts: []bool{true, true, false}}}); err != nil {
		t.Errorf("matching part count should be accepted: %v", err)
	}
}

func TestUpdateHabitRoutesTypeChange(t *testing.T) {
	tr, _ := setupTracker(t)
	h := mustCreate(t, tr, models.Habit{Name: "Run", Type: models.CheckboxType()})
	tr.ToggleCheckbox(h.ID, "2024-01-01")
	tr.ToggleCheckbox(h.ID, "2024-01-02")
	tr.ToggleCheckbox(h.ID, "2024-01-02")

	newType := models.MultiCheckboxType(3)
	name := "Run (split)"
	updated, err := tr.UpdateHabit(h.ID, HabitUpdate{Type: &newType, Patch: habits.Patch{Name: &name}})
	if err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}
	if updated.Type != newType || updated.Name != name {
		t.Errorf("unexpected habit %+v", updated)
	}
	if updated.Strength != 0 {
		t.Errorf("conversion should keep strength 0, got %v", updated.Strength)
	}
	if len(updated.TimeOfDay.Parts) != 3 {
		t.Errorf("expected 3 scheduled parts, got %+v", updated.TimeOfDay)
	}

	first := tr.Entries.Get(h.ID, "2024-01-01")
	if diff := cmp.Diff(models.CheckboxState{Parts: []bool{true, false, false}}, first.CheckboxState); diff != "" {
		t.Errorf("converted entry mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertToEmojiKeepsWrittenPlaceholders(t *testing.T) {
	tr, _ := setupTracker(t)
	h := mustCreate(t, tr, models.Habit{Name: "Run", Type: models.CheckboxType()})
	tr.ToggleCheckbox(h.ID, "2024-01-01")

	emoji := models.EmojiType()
	options := []string{"🙂"}
	updated, err := tr.UpdateHabit(h.ID, HabitUpdate{Type: &emoji, Patch: habits.Patch{EmojiOptions: &options}})
	if err != nil || updated == nil {
		t.Fatalf("UpdateHabit failed: %+v, %v", updated, err)
	}
	if diff := cmp.Diff([]string{"🙂", "✅"}, updated.EmojiOptions); diff != "" {
		t.Errorf("emoji options mismatch (-want +got):\n%s", diff)
	}
	if got := tr.Entries.Get(h.ID, "2024-01-01").EmojiValue; got != "✅" {
		t.Fatalf("expected converted emoji, got %q", got)
	}
	if _, err := tr.SetEmoji(h.ID, "2024-01-02", "✅"); err != nil {
		t.Errorf("converted value should remain a valid option: %v", err)
	}
}

func TestUpdateHabitRejectsInvalidSchedule(t *testing.T) {
	tr, _ := setupTracker(t)
	h := mustCreate(t, tr, models.Habit{Name: "Run", Type: models.CheckboxType()})

	newType := models.MultiCheckboxType(2)
	tod := models.SingleTime(models.PeriodMorning)
	if _, err := tr.UpdateHabit(h.ID, HabitUpdate{Type: &newType, Patch: habits.Patch{TimeOfDay: &tod}}); err == nil {
		t.Fatal("expected validation error")
	}
	if tr.Habits.Get(h.ID).Type != models.CheckboxType() {
		t.Error("rejected update must not convert the habit")
	}

	if got, err := tr.UpdateHabit("missing", HabitUpdate{}); got != nil || err != nil {
		t.Errorf("unknown habit should yield nil, nil; got %+v, %v", got, err)
	}
}

func TestPermanentlyDeleteCascades(t *testing.T) {
	tr, _ := setupTracker(t)
	a := mustCreate(t, tr, models.Habit{Name: "A", Type: models.CheckboxType()})
	b := mustCreate(t, tr, models.Habit{Name: "B", Type: models.CheckboxType()})
	tr.ToggleCheckbox(a.ID, "2024-01-01")
	tr.ToggleCheckbox(b.ID, "2024-01-01")

	if !tr.PermanentlyDelete(a.ID) {
		t.Fatal("expected permanent delete to succeed")
	}
	if len(tr.Entries.ForHabit(a.ID)) != 0 {
		t.Error("entries of a deleted habit should be removed")
	}

	tr.Habits.Trash(b.ID)
	if diff := cmp.Diff([]string{b.ID}, tr.EmptyTrash()); diff != "" {
		t.Errorf("emptied ids mismatch (-want +got):\n%s", diff)
	}
	if len(tr.Entries.GetAll()) != 0 {
		t.Error("emptying trash should cascade to entries")
	}
}

func TestPersistenceFailureKeepsSessionState(t *testing.T) {
	tr, provider := setupTracker(t)
	h := mustCreate(t, tr, models.Habit{Name: "Run", Type: models.CheckboxType()})

	provider.FailWrites = true
	e, err := tr.ToggleCheckbox(h.ID, "2024-01-01")
	if err != nil || e == nil || !e.CheckboxState.Completed {
		t.Fatalf("toggle should succeed in memory: %+v, %v", e, err)
	}
	if tr.Habits.Get(h.ID).Strength != 1 {
		t.Error("recomputed strength should be visible despite the failed write")
	}
}
