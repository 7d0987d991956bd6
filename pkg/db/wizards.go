package db

import (
	"time"

	"github.com/coneno/logger"
	"github.com/mindkind-study/enrollment-portal/pkg/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (dbService *EnrollmentDBService) CreateIndexesForWizards(instanceID string) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionRefWizards(instanceID).Indexes().CreateOne(
		ctx, mongo.IndexModel{
			Keys: bson.M{
				"updatedAt": 1,
			},
		},
	)
	if err != nil {
		logger.Error.Println(err)
	}
}

func (dbService *EnrollmentDBService) SaveWizard(instanceID string, wizard types.WizardRecord) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	now := time.Now().Unix()
	if wizard.CreatedAt == 0 {
		wizard.CreatedAt = now
	}
	wizard.UpdatedAt = now

	filter := bson.M{"_id": wizard.ID}
	_, err := dbService.collectionRefWizards(instanceID).ReplaceOne(
		ctx, filter, wizard, options.Replace().SetUpsert(true),
	)
	return err
}

func (dbService *EnrollmentDBService) LoadWizard(instanceID string, wizardID string) (wizard types.WizardRecord, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"_id": wizardID}
	if err = dbService.collectionRefWizards(instanceID).FindOne(
		ctx,
		filter,
		options.FindOne(),
	).Decode(&wizard); err != nil {
		return wizard, notFound(err)
	}
	return wizard, nil
}

func (dbService *EnrollmentDBService) DeleteWizard(instanceID string, wizardID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"_id": wizardID}
	_, err := dbService.collectionRefWizards(instanceID).DeleteOne(ctx, filter)
	return err
}

// CleanUpStaleWizards removes wizards not touched since updatedBefore.
func (dbService *EnrollmentDBService) CleanUpStaleWizards(instanceID string, updatedBefore int64) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"updatedAt": bson.M{"$lt": updatedBefore}}
	res, err := dbService.collectionRefWizards(instanceID).DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
