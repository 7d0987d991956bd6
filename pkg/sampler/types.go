package sampler

import (
	"math/rand"
	"sync"

	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

type Sampler struct {
	instanceID string
	dbService  AssignmentDBService
	Arms       []WeightedArm

	mu  sync.Mutex
	rnd *rand.Rand
}

type WeightedArm struct {
	Arm    types.Arm `json:"arm"`
	Weight float64   `json:"weight"`
}

type AssignmentDBService interface {
	// InsertRegistrationIfAbsent stores rec unless the wizard already has a
	// registration, and returns whichever record is stored.
	InsertRegistrationIfAbsent(instanceID string, rec types.RegistrationRecord) (types.RegistrationRecord, error)
}
