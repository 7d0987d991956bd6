package db

import (
	"errors"
	"testing"
	"time"

	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

var (
	_ DBService = &EnrollmentDBService{}
	_ DBService = &MemoryDBService{}
)

func TestMemoryWizards(t *testing.T) {
	m := NewMemoryDBService()
	if _, err := m.LoadWizard("app", "w1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	w := types.WizardRecord{ID: "w1", Kind: types.WizardKindEligibility, Step: 3, Choices: types.NewEligibilityChoices()}
	w.Choices.Gender = []types.GenderOption{types.GenderWoman}
	if err := m.SaveWizard("app", w); err != nil {
		t.Fatal(err)
	}

	loaded, err := m.LoadWizard("app", "w1")
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Step != 3 || loaded.CreatedAt == 0 || loaded.UpdatedAt == 0 {
		t.Errorf("unexpected wizard %+v", loaded)
	}
	loaded.Choices.Gender[0] = types.GenderMan
	again, _ := m.LoadWizard("app", "w1")
	if again.Choices.Gender[0] != types.GenderWoman {
		t.Error("loaded wizards must not alias stored data")
	}

	if _, err := m.LoadWizard("other-app", "w1"); !errors.Is(err, ErrNotFound) {
		t.Error("instances must be separated")
	}

	if err := m.DeleteWizard("app", "w1"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.LoadWizard("app", "w1"); !errors.Is(err, ErrNotFound) {
		t.Error("wizard not deleted")
	}
}

func TestMemoryCleanUpStaleWizards(t *testing.T) {
	m := NewMemoryDBService()
	_ = m.SaveWizard("app", types.WizardRecord{ID: "w1"})

	count, err := m.CleanUpStaleWizards("app", time.Now().Add(-time.Hour).Unix())
	if err != nil || count != 0 {
		t.Fatalf("fresh wizard removed: %d %v", count, err)
	}
	count, _ = m.CleanUpStaleWizards("app", time.Now().Add(time.Hour).Unix())
	if count != 1 {
		t.Errorf("expected stale wizard removed, got %d", count)
	}
}

func TestMemoryRegistrations(t *testing.T) {
	m := NewMemoryDBService()

	first, err := m.InsertRegistrationIfAbsent("app", types.RegistrationRecord{WizardID: "w1", ConsentModel: types.ArmTwo})
	if err != nil {
		t.Fatal(err)
	}
	second, _ := m.InsertRegistrationIfAbsent("app", types.RegistrationRecord{WizardID: "w1", ConsentModel: types.ArmFour})
	if second.ConsentModel != types.ArmTwo || second.ID != first.ID {
		t.Errorf("first registration must be kept, got %+v", second)
	}

	if err := m.MarkSignedUp("app", "w1", types.Phone{Number: "0821234567", RegionCode: "ZA"}); err != nil {
		t.Fatal(err)
	}
	if err := m.MarkSignInSent("app", "w1"); err != nil {
		t.Fatal(err)
	}
	rec, err := m.FindRegistration("app", "w1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.SignedUpAt == 0 || rec.SignInSentAt == 0 {
		t.Errorf("marks not stored: %+v", rec)
	}
	if rec.Phone == nil || rec.Phone.Number != "0821234567" {
		t.Errorf("signed up phone not stored: %+v", rec.Phone)
	}

	if err := m.MarkSignedUp("app", "missing", types.Phone{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
