package db

import (
	"sync"
	"time"

	"github.com/mindkind-study/enrollment-portal/pkg/types"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryDBService keeps everything in process memory. Used for local runs
// without a database and in tests.
type MemoryDBService struct {
	mu            sync.Mutex
	wizards       map[string]map[string]types.WizardRecord
	registrations map[string]map[string]types.RegistrationRecord
}

func NewMemoryDBService() *MemoryDBService {
	return &MemoryDBService{
		wizards:       map[string]map[string]types.WizardRecord{},
		registrations: map[string]map[string]types.RegistrationRecord{},
	}
}

func (m *MemoryDBService) wizardsOf(instanceID string) map[string]types.WizardRecord {
	w, ok := m.wizards[instanceID]
	if !ok {
		w = map[string]types.WizardRecord{}
		m.wizards[instanceID] = w
	}
	return w
}

func (m *MemoryDBService) registrationsOf(instanceID string) map[string]types.RegistrationRecord {
	r, ok := m.registrations[instanceID]
	if !ok {
		r = map[string]types.RegistrationRecord{}
		m.registrations[instanceID] = r
	}
	return r
}

func cloneWizard(w types.WizardRecord) types.WizardRecord {
	w.Choices.Gender = append([]types.GenderOption(nil), w.Choices.Gender...)
	return w
}

func (m *MemoryDBService) SaveWizard(instanceID string, wizard types.WizardRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().Unix()
	if wizard.CreatedAt == 0 {
		wizard.CreatedAt = now
	}
	wizard.UpdatedAt = now
	m.wizardsOf(instanceID)[wizard.ID] = cloneWizard(wizard)
	return nil
}

func (m *MemoryDBService) LoadWizard(instanceID string, wizardID string) (types.WizardRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.wizardsOf(instanceID)[wizardID]
	if !ok {
		return types.WizardRecord{}, ErrNotFound
	}
	return cloneWizard(w), nil
}

func (m *MemoryDBService) DeleteWizard(instanceID string, wizardID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.wizardsOf(instanceID), wizardID)
	return nil
}

func (m *MemoryDBService) CleanUpStaleWizards(instanceID string, updatedBefore int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	wizards := m.wizardsOf(instanceID)
	for id, w := range wizards {
		if w.UpdatedAt < updatedBefore {
			delete(wizards, id)
			count++
		}
	}
	return count, nil
}

func (m *MemoryDBService) InsertRegistrationIfAbsent(instanceID string, rec types.RegistrationRecord) (types.RegistrationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	regs := m.registrationsOf(instanceID)
	if existing, ok := regs[rec.WizardID]; ok {
		return existing, nil
	}
	rec.ID = primitive.NewObjectID()
	regs[rec.WizardID] = rec
	return rec, nil
}

func (m *MemoryDBService) FindRegistration(instanceID string, wizardID string) (types.RegistrationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.registrationsOf(instanceID)[wizardID]
	if !ok {
		return types.RegistrationRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *MemoryDBService) mark(instanceID string, wizardID string, set func(rec *types.RegistrationRecord, now int64)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	regs := m.registrationsOf(instanceID)
	rec, ok := regs[wizardID]
	if !ok {
		return ErrNotFound
	}
	set(&rec, time.Now().Unix())
	regs[wizardID] = rec
	return nil
}

func (m *MemoryDBService) MarkSignedUp(instanceID string, wizardID string, phone types.Phone) error {
	return m.mark(instanceID, wizardID, func(rec *types.RegistrationRecord, now int64) {
		rec.SignedUpAt = now
		rec.Phone = &phone
	})
}

func (m *MemoryDBService) MarkSignInSent(instanceID string, wizardID string) error {
	return m.mark(instanceID, wizardID, func(rec *types.RegistrationRecord, now int64) { rec.SignInSentAt = now })
}
