package handlers

import (
	"context"

	"github.com/mindkind-study/enrollment-portal/pkg/analytics"
	"github.com/mindkind-study/enrollment-portal/pkg/db"
	"github.com/mindkind-study/enrollment-portal/pkg/eligibility"
	"github.com/mindkind-study/enrollment-portal/pkg/sampler"
	"github.com/mindkind-study/enrollment-portal/pkg/stepflow"
	"github.com/mindkind-study/enrollment-portal/pkg/types"
)

// BridgeClient is the subset of the study backend the endpoints use.
type BridgeClient interface {
	AppID() string
	SubStudyID() string
	SignUp(ctx context.Context, data types.RegistrationData) error
	SendSignInRequest(ctx context.Context, phone types.Phone) error
	SignInWithCode(ctx context.Context, phone types.Phone, code string) (types.LoggedInUserData, error)
	GetUserInfo(ctx context.Context, token string) (types.LoggedInUserData, error)
	UpdateClientData(ctx context.Context, token string, clientData map[string]any) error
	SignConsent(ctx context.Context, token string, signature types.ConsentSignature) (types.LoggedInUserData, error)
}

type HttpEndpoints struct {
	instanceID      string
	dbService       db.DBService
	bridge          BridgeClient
	sampler         *sampler.Sampler
	analytics       analytics.Sink
	eligibilityFlow *stepflow.Flow[*eligibility.Accumulator]
}

func NewHTTPHandler(
	instanceID string,
	dbService db.DBService,
	bridge BridgeClient,
	s *sampler.Sampler,
	sink analytics.Sink,
) *HttpEndpoints {
	if sink == nil {
		sink = analytics.NopSink{}
	}
	return &HttpEndpoints{
		instanceID:      instanceID,
		dbService:       dbService,
		bridge:          bridge,
		sampler:         s,
		analytics:       sink,
		eligibilityFlow: eligibility.NewFlow(sink),
	}
}
