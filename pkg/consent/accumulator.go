package consent

import (
	"context"
	"strconv"

	"github.com/mindkind-study/enrollment-portal/pkg/stepflow"
	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

// Backend is the part of the study backend the consent checkpoints go to.
type Backend interface {
	UpdateClientData(ctx context.Context, token string, clientData map[string]any) error
	SignConsent(ctx context.Context, token string, signature types.ConsentSignature) (types.LoggedInUserData, error)
}

// Accumulator carries the answers of one consent submission to the backend.
// Signed is set once the final checkpoint signed the consent.
type Accumulator struct {
	ctx     context.Context
	backend Backend
	arm     types.Arm
	session types.SessionData
	ranking []string

	Signed *types.LoggedInUserData
}

func NewAccumulator(ctx context.Context, backend Backend, arm types.Arm, session types.SessionData) *Accumulator {
	return &Accumulator{ctx: ctx, backend: backend, arm: arm, session: session}
}

func (a *Accumulator) Record(stepID string, answer stepflow.Answer) error {
	if answer.Kind != stepflow.KindMulti {
		return stepflow.ErrUnknownStep
	}
	a.ranking = answer.Options
	return nil
}

func (a *Accumulator) Reset() {
	a.ranking = nil
}

func (a *Accumulator) checkpoint(from, to int) error {
	clientData := map[string]any{
		CheckpointField:       to,
		types.PageIDFieldName: PageID(a.arm, to),
	}
	if a.ranking != nil {
		clientData["ranking_"+strconv.Itoa(from-1)] = a.ranking
	}
	if err := a.backend.UpdateClientData(a.ctx, a.session.Token, clientData); err != nil {
		return err
	}
	if to <= MaxSteps(a.arm) {
		return nil
	}

	user, err := a.backend.SignConsent(a.ctx, a.session.Token, types.ConsentSignature{
		Name:  a.session.Name,
		Scope: SignatureScope,
	})
	if err != nil {
		return err
	}
	a.Signed = &user
	return nil
}
