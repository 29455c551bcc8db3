package store

import (
	"errors"
	"testing"
	"time"
)

func TestUserCRUD(t *testing.T) {
	s, clock := openTestStoreAt(t, defaultNow)

	email := "ada@example.com"
	u, err := s.CreateUser("Ada", &email)
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	if u.JoinDate != "2024-03-07" {
		t.Errorf("expected join date 2024-03-07, got %q", u.JoinDate)
	}

	got, err := s.GetUser(u.ID)
	if err != nil {
		t.Fatalf("getting user: %v", err)
	}
	if got.Name != "Ada" || got.Email == nil || *got.Email != email || got.IsPremium {
		t.Errorf("unexpected user %+v", got)
	}

	clock.Advance(time.Hour)
	premium := true
	updated, err := s.UpdateUser(u.ID, UserChanges{IsPremium: &premium})
	if err != nil {
		t.Fatalf("updating user: %v", err)
	}
	if !updated.IsPremium || updated.Name != "Ada" {
		t.Errorf("expected only premium to change, got %+v", updated)
	}
	if updated.UpdatedAt != "2024-03-07 13:00:00" {
		t.Errorf("expected updated_at to move, got %q", updated.UpdatedAt)
	}

	clock.Advance(time.Hour)
	same, err := s.UpdateUser(u.ID, UserChanges{})
	if err != nil {
		t.Fatalf("empty update: %v", err)
	}
	if same.UpdatedAt != updated.UpdatedAt {
		t.Errorf("expected empty update to leave updated_at, got %q", same.UpdatedAt)
	}

	name := "x"
	if _, err := s.UpdateUser("ghost", UserChanges{Name: &name}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := s.CreateUser("", nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty name, got %v", err)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	s := openTestStore(t)
	u := mustCreateUser(t, s, "Ada")
	other := mustCreateUser(t, s, "Grace")

	mustRecord(t, s, u.ID, "2024-03-07", 600)
	mustCreateTask(t, s, u.ID)
	if err := s.SetSetting(u.ID, "theme", "dark"); err != nil {
		t.Fatalf("setting: %v", err)
	}
	if _, err := s.EvaluateAchievements(u.ID); err != nil {
		t.Fatalf("evaluating: %v", err)
	}
	mustRecord(t, s, other.ID, "2024-03-07", 600)
	if err := s.SetCurrentUser(u.ID); err != nil {
		t.Fatalf("setting current user: %v", err)
	}

	if err := s.DeleteUser(u.ID); err != nil {
		t.Fatalf("deleting user: %v", err)
	}

	for _, table := range []string{"focus_sessions", "tasks", "achievements", "daily_stats", "user_settings"} {
		if n := countRows(t, s, "SELECT COUNT(*) FROM "+table+" WHERE user_id = ?", u.ID); n != 0 {
			t.Errorf("expected %s rows to be removed, found %d", table, n)
		}
	}
	if n := countRows(t, s, "SELECT COUNT(*) FROM focus_sessions WHERE user_id = ?", other.ID); n != 1 {
		t.Errorf("expected other user's data to survive, found %d sessions", n)
	}
	current, err := s.CurrentUserID()
	if err != nil {
		t.Fatalf("reading current user: %v", err)
	}
	if current != "" {
		t.Errorf("expected current-user pointer to be cleared, got %q", current)
	}
	if err := s.DeleteUser(u.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCurrentUserPointer(t *testing.T) {
	s := openTestStore(t)

	id, err := s.CurrentUserID()
	if err != nil {
		t.Fatalf("reading current user: %v", err)
	}
	if id != "" {
		t.Errorf("expected no current user, got %q", id)
	}

	if err := s.SetCurrentUser("ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}

	u := mustCreateUser(t, s, "Ada")
	if err := s.SetCurrentUser(u.ID); err != nil {
		t.Fatalf("setting current user: %v", err)
	}
	id, err = s.CurrentUserID()
	if err != nil {
		t.Fatalf("reading current user: %v", err)
	}
	if id != u.ID {
		t.Errorf("expected %q, got %q", u.ID, id)
	}
}

func TestSettings(t *testing.T) {
	s := openTestStore(t)
	u := mustCreateUser(t, s, "Ada")

	if _, ok, err := s.GetSetting(u.ID, "theme"); err != nil || ok {
		t.Fatalf("expected unset setting, got ok=%v err=%v", ok, err)
	}

	if err := s.SetSetting(u.ID, "theme", "light"); err != nil {
		t.Fatalf("setting: %v", err)
	}
	if err := s.SetSetting(u.ID, "theme", "dark"); err != nil {
		t.Fatalf("overwriting setting: %v", err)
	}
	if err := s.SetSetting(u.ID, "pomodoro", "25"); err != nil {
		t.Fatalf("setting: %v", err)
	}

	v, ok, err := s.GetSetting(u.ID, "theme")
	if err != nil || !ok || v != "dark" {
		t.Errorf("expected theme=dark, got %q ok=%v err=%v", v, ok, err)
	}

	all, err := s.AllSettings(u.ID)
	if err != nil {
		t.Fatalf("listing settings: %v", err)
	}
	if len(all) != 2 || all["pomodoro"] != "25" {
		t.Errorf("unexpected settings %v", all)
	}

	if err := s.DeleteSetting(u.ID, "theme"); err != nil {
		t.Fatalf("deleting setting: %v", err)
	}
	if err := s.DeleteSetting(u.ID, "theme"); err != nil {
		t.Errorf("expected deleting an unset key to succeed, got %v", err)
	}
	if _, ok, _ := s.GetSetting(u.ID, "theme"); ok {
		t.Error("expected theme to be gone")
	}

	if err := s.SetSetting("ghost", "theme", "dark"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
