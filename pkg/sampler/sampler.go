package sampler

import (
	"errors"
	"math/rand"
	"time"

	"github.com/coneno/logger"
	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

// EqualArms weights the four study arms equally.
func EqualArms() []WeightedArm {
	arms := make([]WeightedArm, len(types.Arms))
	for i, a := range types.Arms {
		arms[i] = WeightedArm{Arm: a, Weight: 1}
	}
	return arms
}

func NewSampler(
	instanceID string,
	dbService AssignmentDBService,
	rnd *rand.Rand,
) *Sampler {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{
		instanceID: instanceID,
		dbService:  dbService,
		Arms:       EqualArms(),
		rnd:        rnd,
	}
}

// SelectArm maps a uniform draw in [0,1) onto the cumulative arm weights.
// Draws outside the interval are clamped.
func SelectArm(draw float64, arms []WeightedArm) types.Arm {
	total := 0.0
	for _, a := range arms {
		if a.Weight > 0 {
			total += a.Weight
		}
	}
	if total <= 0 {
		return ""
	}

	target := draw * total
	cumulative := 0.0
	var last types.Arm
	for _, a := range arms {
		if a.Weight <= 0 {
			continue
		}
		last = a.Arm
		cumulative += a.Weight
		if target < cumulative {
			return a.Arm
		}
	}
	return last
}

func (s *Sampler) Draw() types.Arm {
	s.mu.Lock()
	draw := s.rnd.Float64()
	s.mu.Unlock()
	return SelectArm(draw, s.Arms)
}

// AssignOnce returns the arm pinned to the wizard, drawing and storing one
// on first use.
func (s *Sampler) AssignOnce(wizardID string) (types.Arm, error) {
	if wizardID == "" {
		return "", errors.New("wizard id missing")
	}
	drawn := s.Draw()
	rec, err := s.dbService.InsertRegistrationIfAbsent(s.instanceID, types.RegistrationRecord{
		WizardID:     wizardID,
		ConsentModel: drawn,
		CreatedAt:    time.Now().Unix(),
	})
	if err != nil {
		logger.Error.Printf("unexpected error when storing arm assignment: %v", err)
		return "", err
	}
	if rec.ConsentModel != drawn {
		logger.Debug.Printf("wizard %s keeps previously assigned arm %s", wizardID, rec.ConsentModel)
	}
	return rec.ConsentModel, nil
}
