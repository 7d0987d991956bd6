package db

import (
	"context"
	"errors"
	"time"

	"github.com/coneno/logger"
	"github.com/mindkind-study/enrollment-portal/pkg/types"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("not found")

// DBService is implemented by the mongo and in-memory stores.
type DBService interface {
	SaveWizard(instanceID string, wizard types.WizardRecord) error
	LoadWizard(instanceID string, wizardID string) (types.WizardRecord, error)
	DeleteWizard(instanceID string, wizardID string) error
	CleanUpStaleWizards(instanceID string, updatedBefore int64) (int64, error)

	InsertRegistrationIfAbsent(instanceID string, rec types.RegistrationRecord) (types.RegistrationRecord, error)
	FindRegistration(instanceID string, wizardID string) (types.RegistrationRecord, error)
	MarkSignedUp(instanceID string, wizardID string, phone types.Phone) error
	MarkSignInSent(instanceID string, wizardID string) error
}

type EnrollmentDBService struct {
	DBClient     *mongo.Client
	timeout      int
	DBNamePrefix string
}

func NewEnrollmentDBService(configs types.DBConfig) *EnrollmentDBService {
	var err error
	dbClient, err := mongo.NewClient(
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)
	if err != nil {
		logger.Error.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	err = dbClient.Connect(ctx)
	if err != nil {
		logger.Error.Fatal(err)
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()
	if err != nil {
		logger.Error.Fatal("fail to connect to DB: " + err.Error())
	}

	return &EnrollmentDBService{
		DBClient:     dbClient,
		timeout:      configs.Timeout,
		DBNamePrefix: configs.DBNamePrefix,
	}
}

// collections
func (dbService *EnrollmentDBService) database(instanceID string) *mongo.Database {
	return dbService.DBClient.Database(dbService.DBNamePrefix + instanceID + "_enrollment-portal")
}

func (dbService *EnrollmentDBService) collectionRefWizards(instanceID string) *mongo.Collection {
	return dbService.database(instanceID).Collection("wizards")
}

func (dbService *EnrollmentDBService) collectionRefRegistrations(instanceID string) *mongo.Collection {
	return dbService.database(instanceID).Collection("registrations")
}

// DB utils
func (dbService *EnrollmentDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *EnrollmentDBService) CreateIndexes(instanceID string) {
	dbService.CreateIndexesForWizards(instanceID)
	dbService.CreateIndexesForRegistrations(instanceID)
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
