package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

func TestHabitAddAndList(t *testing.T) {
	ctx, out := newTestContext(t)

	add := &HabitAddCmd{Name: "Read", Type: "checkbox_2", Time: []string{"morning", "evening"}, Tag: []string{"mind"}, Status: "active"}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := (&HabitAddCmd{Name: "Journal", Type: "text", Status: "idea"}).Run(ctx); err != nil {
		t.Fatalf("add idea failed: %v", err)
	}
	if err := (&HabitAddCmd{Name: "read", Type: "checkbox", Status: "active"}).Run(ctx); err == nil {
		t.Error("expected duplicate name to be rejected")
	}

	h, err := ctx.FindHabit("Read")
	if err != nil {
		t.Fatalf("FindHabit failed: %v", err)
	}
	if h.Type != models.MultiCheckboxType(2) {
		t.Errorf("expected checkbox_2, got %s", h.Type)
	}
	if got := h.TimeOfDay.Periods(); !cmp.Equal(got, []models.Period{models.PeriodMorning, models.PeriodEvening}) {
		t.Errorf("unexpected periods %v", got)
	}

	out.Reset()
	if err := (&HabitListCmd{Status: "active", Sort: "strength"}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Read") || strings.Contains(out.String(), "Journal") {
		t.Errorf("active list should show only Read, got:\n%s", out.String())
	}

	out.Reset()
	if err := (&HabitListCmd{All: true, Sort: "name"}).Run(ctx); err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if !strings.Contains(out.String(), "Journal") || !strings.Contains(out.String(), "[IDEA]") {
		t.Errorf("full list should include the idea, got:\n%s", out.String())
	}
}

func TestHabitListRejectsBadFilters(t *testing.T) {
	ctx, _ := newTestContext(t)
	bad := []*HabitListCmd{
		{Status: "deleted", Sort: "name"},
		{Status: "active", Time: "noon", Sort: "name"},
		{Status: "active", Strength: "huge", Sort: "name"},
	}
	for _, cmd := range bad {
		if err := cmd.Run(ctx); err == nil {
			t.Errorf("expected error for %+v", cmd)
		}
	}
}

func TestHabitStatusCommands(t *testing.T) {
	ctx, _ := newTestContext(t, checkboxHabit("h1", "Read"))

	steps := []struct {
		run  func() error
		want models.Status
	}{
		{func() error { return (&HabitArchiveCmd{Habit: "h1"}).Run(ctx) }, models.StatusArchived},
		{func() error { return (&HabitIdeaCmd{Habit: "h1"}).Run(ctx) }, models.StatusIdea},
		{func() error { return (&HabitTrashCmd{Habit: "h1"}).Run(ctx) }, models.StatusTrash},
		{func() error { return (&HabitRestoreCmd{Habit: "h1", To: "active"}).Run(ctx) }, models.StatusActive},
	}
	for i, step := range steps {
		if err := step.run(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		if got := ctx.Tracker.Habits.Get("h1").Status; got != step.want {
			t.Errorf("step %d: status = %s, want %s", i, got, step.want)
		}
	}
}

func TestHabitEditKeepsOmittedFields(t *testing.T) {
	h := checkboxHabit("h1", "Read")
	h.Tags = []string{"mind"}
	h.Goals = []string{"calm"}
	ctx, _ := newTestContext(t, h)

	name := "Read more"
	cmd := &HabitEditCmd{Habit: "h1", Name: &name, Tag: []string{"books"}}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	got := ctx.Tracker.Habits.Get("h1")
	if got.Name != "Read more" {
		t.Errorf("expected renamed habit, got %q", got.Name)
	}
	if diff := cmp.Diff([]string{"books"}, got.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"calm"}, got.Goals); diff != "" {
		t.Errorf("goals should be untouched (-want +got):\n%s", diff)
	}
}

func TestHabitConvert(t *testing.T) {
	t.Run("declined", func(t *testing.T) {
		ctx, out := newTestContext(t, checkboxHabit("h1", "Read"))
		calls := stubConfirm(t, false)

		if err := (&HabitConvertCmd{Habit: "h1", Type: "text"}).Run(ctx); err != nil {
			t.Fatalf("convert failed: %v", err)
		}
		if *calls != 1 {
			t.Errorf("expected one confirmation, got %d", *calls)
		}
		if got := ctx.Tracker.Habits.Get("h1").Type; got != models.CheckboxType() {
			t.Errorf("declined conversion changed type to %s", got)
		}
		if !strings.Contains(out.String(), "cancelled") {
			t.Errorf("expected cancellation message, got %q", out.String())
		}
	})

	t.Run("confirmed", func(t *testing.T) {
		ctx, _ := newTestContext(t, checkboxHabit("h1", "Read"))
		stubConfirm(t, true)
		if _, err := ctx.Tracker.ToggleCheckbox("h1", "2024-03-01"); err != nil {
			t.Fatalf("toggle failed: %v", err)
		}

		if err := (&HabitConvertCmd{Habit: "h1", Type: "checkbox_3"}).Run(ctx); err != nil {
			t.Fatalf("convert failed: %v", err)
		}
		if got := ctx.Tracker.Habits.Get("h1").Type; got != models.MultiCheckboxType(3) {
			t.Errorf("expected checkbox_3, got %s", got)
		}
		e := ctx.Tracker.Entries.Get("h1", "2024-03-01")
		if e == nil || len(e.CheckboxState.Parts) != 3 {
			t.Fatalf("expected converted entry with 3 parts, got %+v", e)
		}
	})

	t.Run("yes skips prompt", func(t *testing.T) {
		ctx, _ := newTestContext(t, checkboxHabit("h1", "Read"))
		calls := stubConfirm(t, false)
		if err := (&HabitConvertCmd{Habit: "h1", Type: "emoji", Yes: true}).Run(ctx); err != nil {
			t.Fatalf("convert failed: %v", err)
		}
		if *calls != 0 {
			t.Errorf("expected no prompt with --yes, got %d", *calls)
		}
		if got := ctx.Tracker.Habits.Get("h1").Type; got != models.EmojiType() {
			t.Errorf("expected emoji, got %s", got)
		}
	})
}

func TestHabitPurge(t *testing.T) {
	ctx, _ := newTestContext(t, checkboxHabit("h1", "Read"))
	stubConfirm(t, true)
	if _, err := ctx.Tracker.ToggleCheckbox("h1", "2024-03-01"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	if err := (&HabitPurgeCmd{Habit: "h1"}).Run(ctx); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if ctx.Tracker.Habits.Get("h1") != nil {
		t.Error("habit should be gone")
	}
	if n := len(ctx.Tracker.Entries.ForHabit("h1")); n != 0 {
		t.Errorf("expected entries to be purged, %d left", n)
	}
}

func TestEntryToggleCycles(t *testing.T) {
	ctx, out := newTestContext(t, checkboxHabit("h1", "Read"))
	toggle := &EntryToggleCmd{Habit: "Read", Date: "2024-03-10"}

	want := []models.EntryStatus{models.EntryStatusCompleted, models.EntryStatusFailed, models.EntryStatusNone}
	for i, status := range want {
		if err := toggle.Run(ctx); err != nil {
			t.Fatalf("toggle %d failed: %v", i, err)
		}
		e := ctx.Tracker.Entries.Get("h1", "2024-03-10")
		if got := models.StatusFor(models.CheckboxType(), e); got != status {
			t.Errorf("toggle %d: status = %s, want %s", i, got, status)
		}
	}
	if !strings.Contains(out.String(), "2024-03-10 Read") {
		t.Errorf("expected entry report, got:\n%s", out.String())
	}
}

func TestEntryToggleRejectsOtherTypes(t *testing.T) {
	h := checkboxHabit("h1", "Journal")
	h.Type = models.TextType()
	ctx, _ := newTestContext(t, h)

	if err := (&EntryToggleCmd{Habit: "h1", Date: "2024-03-10"}).Run(ctx); err == nil {
		t.Error("expected toggle of a text habit to fail")
	}
	if err := (&EntryTextCmd{Habit: "h1", Value: "two pages", Date: "2024-03-10"}).Run(ctx); err != nil {
		t.Fatalf("text failed: %v", err)
	}
	if e := ctx.Tracker.Entries.Get("h1", "2024-03-10"); e == nil || e.TextValue != "two pages" {
		t.Errorf("unexpected entry %+v", e)
	}
}

func TestEntryPartIsOneBased(t *testing.T) {
	h := checkboxHabit("h1", "Water")
	h.Type = models.MultiCheckboxType(2)
	h.TimeOfDay = models.TimeOfDay{Parts: []models.PartTime{{PartIndex: 0, Time: models.PeriodMorning}, {PartIndex: 1, Time: models.PeriodEvening}}}
	ctx, _ := newTestContext(t, h)

	if err := (&EntryPartCmd{Habit: "h1", Part: 2, Date: "2024-03-10"}).Run(ctx); err != nil {
		t.Fatalf("part failed: %v", err)
	}
	e := ctx.Tracker.Entries.Get("h1", "2024-03-10")
	if diff := cmp.Diff([]bool{false, true}, e.CheckboxState.Parts); diff != "" {
		t.Errorf("parts mismatch (-want +got):\n%s", diff)
	}
}

func TestEntryDelete(t *testing.T) {
	ctx, out := newTestContext(t, checkboxHabit("h1", "Read"))
	cmd := &EntryDeleteCmd{Habit: "h1", Date: "2024-03-10"}

	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out.String(), "No entry") {
		t.Errorf("expected no-entry message, got %q", out.String())
	}

	if _, err := ctx.Tracker.MarkFailed("h1", "2024-03-10"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	out.Reset()
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if ctx.Tracker.Entries.Get("h1", "2024-03-10") != nil {
		t.Error("entry should be deleted")
	}
}

func TestEntryListShowsDailyStats(t *testing.T) {
	ctx, out := newTestContext(t, checkboxHabit("h1", "Read"), checkboxHabit("h2", "Stretch"))
	if _, err := ctx.Tracker.ToggleCheckbox("h1", "2024-03-10"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	if err := (&EntryListCmd{Date: "2024-03-10"}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"morning", "Read", "Stretch", "1/2 completed", "50%"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestSweepCommand(t *testing.T) {
	ctx, out := newTestContext(t, checkboxHabit("h1", "Read"))
	cmd := &SweepCmd{Today: "2024-03-10"}

	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if n := len(ctx.Tracker.Entries.ForHabit("h1")); n != constants.MissedDayWindow {
		t.Errorf("expected %d back-filled entries, got %d", constants.MissedDayWindow, n)
	}
	if ctx.Tracker.Entries.Get("h1", "2024-03-10") != nil {
		t.Error("today must not be back-filled")
	}
	if !strings.Contains(out.String(), "Marked 7 missed days") {
		t.Errorf("unexpected report:\n%s", out.String())
	}

	out.Reset()
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if !strings.Contains(out.String(), "No missed days.") {
		t.Errorf("second sweep should change nothing, got:\n%s", out.String())
	}

	if err := (&SweepCmd{Today: "March 10"}).Run(ctx); err == nil {
		t.Error("expected invalid date to fail")
	}
}

func TestOpenBackfillsMissedDays(t *testing.T) {
	store := storage.NewMemoryStore()
	if err := storage.SetJSON(store, constants.KeyHabits, []models.Habit{checkboxHabit("h1", "Read")}); err != nil {
		t.Fatalf("failed to seed habits: %v", err)
	}
	ctx := NewContext("memory", "UTC")
	ctx.Store = store
	out := &strings.Builder{}
	ctx.Out = out

	cmd := &EntryListCmd{Date: "yesterday"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("entry list failed: %v", err)
	}

	yesterday, err := ctx.ResolveDate("yesterday")
	if err != nil {
		t.Fatal(err)
	}
	e := ctx.Tracker.Entries.Get("h1", yesterday)
	if e == nil || !e.CheckboxState.Failed {
		t.Fatalf("expected a failed entry on %s, got %+v", yesterday, e)
	}
	if strings.Contains(out.String(), "no entry") {
		t.Errorf("yesterday should show the back-filled entry:\n%s", out.String())
	}
	today, _ := ctx.Today()
	if ctx.Tracker.Entries.Get("h1", today) != nil {
		t.Error("today must not be back-filled")
	}
	if n := len(ctx.Tracker.Entries.ForHabit("h1")); n != constants.MissedDayWindow {
		t.Errorf("expected %d back-filled entries, got %d", constants.MissedDayWindow, n)
	}
}

func TestOpenSurvivesFailedSweep(t *testing.T) {
	store := storage.NewMemoryStore()
	if err := storage.SetJSON(store, constants.KeyHabits, []models.Habit{checkboxHabit("h1", "Read")}); err != nil {
		t.Fatalf("failed to seed habits: %v", err)
	}
	store.FailWrites = true
	ctx := NewContext("memory", "UTC")
	ctx.Store = store
	ctx.Out = &strings.Builder{}

	if err := ctx.Open(); err != nil {
		t.Fatalf("a failing sweep must not fail Open: %v", err)
	}
	if ctx.Tracker.Habits.Get("h1") == nil {
		t.Error("expected habits to be loaded")
	}
}

func TestProgressCommands(t *testing.T) {
	read := checkboxHabit("h1", "Read")
	read.LifeSphere = "mind"
	read.Values = []string{"growth"}
	stretch := checkboxHabit("h2", "Stretch")
	stretch.LifeSphere = "body"
	ctx, out := newTestContext(t, read, stretch)
	if _, err := ctx.Tracker.ToggleCheckbox("h1", "2024-03-10"); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}

	if err := (&ProgressSpheresCmd{}).Run(ctx); err != nil {
		t.Fatalf("spheres failed: %v", err)
	}
	if !strings.Contains(out.String(), "mind") || !strings.Contains(out.String(), "body") {
		t.Errorf("expected both spheres, got:\n%s", out.String())
	}

	out.Reset()
	if err := (&ProgressDayCmd{Date: "2024-03-10"}).Run(ctx); err != nil {
		t.Fatalf("day failed: %v", err)
	}
	if !strings.Contains(out.String(), "50%") {
		t.Errorf("expected 50%% for the day, got:\n%s", out.String())
	}

	out.Reset()
	if err := (&ProgressTrendCmd{Habit: "Read", Days: 3, Date: "2024-03-10"}).Run(ctx); err != nil {
		t.Fatalf("trend failed: %v", err)
	}
	if !strings.Contains(out.String(), "1 completed, 0 partial, 0 failed, 2 untracked over 3 days") {
		t.Errorf("unexpected trend summary:\n%s", out.String())
	}

	if err := (&ProgressMonthCmd{Month: "2024-13"}).Run(ctx); err == nil {
		t.Error("expected invalid month to fail")
	}
}

func TestSettingsSet(t *testing.T) {
	ctx, out := newTestContext(t)

	if err := (&SettingsSetCmd{Pairs: []string{"theme=dark", "accent_color = #336699"}}).Run(ctx); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got := ctx.Settings.Get()
	if got.Theme != "dark" || got.AccentColor != "#336699" {
		t.Errorf("unexpected settings %+v", got)
	}
	if !strings.Contains(out.String(), "accent_color:") {
		t.Errorf("expected settings listing, got:\n%s", out.String())
	}

	for _, pairs := range [][]string{{"theme"}, {"font=mono"}} {
		if err := (&SettingsSetCmd{Pairs: pairs}).Run(ctx); err == nil {
			t.Errorf("expected %v to be rejected", pairs)
		}
	}
}

func TestBackupRequiresFileStore(t *testing.T) {
	ctx, _ := newTestContext(t)
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("expected backup of a memory store to fail")
	}
}

func TestBackupCreateAndList(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "habitual.json")
	if err := storage.NewJSONStore(path).Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	ctx := NewContext(path, "UTC")
	out := &strings.Builder{}
	ctx.Out = out

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup failed: %v", err)
	}
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "1 total") {
		t.Errorf("expected one backup listed, got:\n%s", out.String())
	}
}

func TestInitCopiesSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "old.json")
	dst := filepath.Join(dir, "new.db")

	source := storage.NewJSONStore(src)
	if err := source.Init(); err != nil {
		t.Fatalf("source init failed: %v", err)
	}
	habits := []models.Habit{checkboxHabit("h1", "Read")}
	if err := storage.SetJSON(source, constants.KeyHabits, habits); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	ctx := NewContext(dst, "UTC")
	out := &strings.Builder{}
	ctx.Out = out
	if err := (&InitCmd{Source: src}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := ctx.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	reopened := NewContext(dst, "UTC")
	reopened.Out = out
	if err := reopened.Open(); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer reopened.Close()
	if h := reopened.Tracker.Habits.Get("h1"); h == nil || h.Name != "Read" {
		t.Errorf("expected copied habit, got %+v", h)
	}
	if !strings.Contains(out.String(), "Copied 1 blobs.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestInitForceRejectsSameSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "habitual.json")
	if err := storage.NewJSONStore(path).Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	ctx := NewContext(path, "UTC")
	ctx.Out = &strings.Builder{}
	if err := (&InitCmd{Force: true, Source: path}).Run(ctx); err == nil {
		t.Error("expected --force with the same source to fail")
	}
}

func TestHabitFacets(t *testing.T) {
	read := checkboxHabit("h1", "Read")
	read.Tags = []string{"mind", "books"}
	read.Goals = []string{"calm"}
	ctx, out := newTestContext(t, read)

	if err := (&HabitFacetsCmd{}).Run(ctx); err != nil {
		t.Fatalf("facets failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"books, mind", "calm", "morning"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
}
