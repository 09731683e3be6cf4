package settings

import (
	"testing"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

func TestGetDefaults(t *testing.T) {
	svc := NewService(storage.NewMemoryStore())
	got := svc.Get()
	if got.Theme != constants.DefaultTheme || got.AccentColor != constants.DefaultAccentColor {
		t.Errorf("expected defaults, got %+v", got)
	}
}

func TestGetCorruptBlobFallsBack(t *testing.T) {
	provider := storage.NewMemoryStore()
	_ = provider.Set(constants.KeySettings, []byte(`"oops"`))

	got := NewService(provider).Get()
	if got.Theme != constants.DefaultTheme {
		t.Errorf("expected default theme, got %+v", got)
	}
}

func TestSaveAndSet(t *testing.T) {
	provider := storage.NewMemoryStore()
	svc := NewService(provider)

	if _, err := svc.Save(models.Settings{Theme: "dark", AccentColor: "#123456"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if got := svc.Get(); got.Theme != "dark" || got.AccentColor != "#123456" {
		t.Errorf("unexpected settings %+v", got)
	}

	got, err := svc.Set(map[string]string{constants.SettingAccentColor: "#abcdef"})
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got.Theme != "dark" || got.AccentColor != "#abcdef" {
		t.Errorf("Set should only change the given key, got %+v", got)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	svc := NewService(storage.NewMemoryStore())
	tests := []struct {
		name     string
		settings models.Settings
	}{
		{"theme", models.Settings{Theme: "neon"}},
		{"color", models.Settings{AccentColor: "orange"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Save(tt.settings); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if _, err := svc.Set(map[string]string{"font": "mono"}); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestSaveSwallowsWriteFailure(t *testing.T) {
	provider := storage.NewMemoryStore()
	provider.FailWrites = true

	got, err := NewService(provider).Save(models.Settings{Theme: "dark"})
	if err != nil {
		t.Fatalf("write failures should not surface, got %v", err)
	}
	if got.Theme != "dark" {
		t.Errorf("expected returned settings, got %+v", got)
	}
}
