package db

import (
	"time"

	"github.com/coneno/logger"
	"github.com/mindkind-study/enrollment-portal/pkg/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (dbService *EnrollmentDBService) CreateIndexesForRegistrations(instanceID string) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionRefRegistrations(instanceID).Indexes().CreateOne(
		ctx, mongo.IndexModel{
			Keys: bson.M{
				"wizardID": 1,
			},
			Options: options.Index().SetUnique(true),
		},
	)
	if err != nil {
		logger.Error.Println(err)
	}

	_, err = dbService.collectionRefRegistrations(instanceID).Indexes().CreateOne(
		ctx, mongo.IndexModel{
			Keys: bson.D{
				{Key: "consentModel", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	)
	if err != nil {
		logger.Error.Println(err)
	}
}

// InsertRegistrationIfAbsent keeps the first record stored for a wizard.
func (dbService *EnrollmentDBService) InsertRegistrationIfAbsent(instanceID string, rec types.RegistrationRecord) (stored types.RegistrationRecord, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"wizardID": rec.WizardID}
	update := bson.M{"$setOnInsert": bson.M{
		"consentModel": rec.ConsentModel,
		"createdAt":    rec.CreatedAt,
		"signedUpAt":   rec.SignedUpAt,
		"signInSentAt": rec.SignInSentAt,
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err = dbService.collectionRefRegistrations(instanceID).FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	return stored, err
}

func (dbService *EnrollmentDBService) FindRegistration(instanceID string, wizardID string) (rec types.RegistrationRecord, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"wizardID": wizardID}
	if err = dbService.collectionRefRegistrations(instanceID).FindOne(
		ctx,
		filter,
		options.FindOne(),
	).Decode(&rec); err != nil {
		return rec, notFound(err)
	}
	return rec, nil
}

func (dbService *EnrollmentDBService) markRegistration(instanceID string, wizardID string, set bson.M) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"wizardID": wizardID}
	update := bson.M{"$set": set}
	res, err := dbService.collectionRefRegistrations(instanceID).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return ErrNotFound
	}
	return nil
}

// MarkSignedUp pins the phone number the backend account was created with.
func (dbService *EnrollmentDBService) MarkSignedUp(instanceID string, wizardID string, phone types.Phone) error {
	return dbService.markRegistration(instanceID, wizardID, bson.M{
		"signedUpAt": time.Now().Unix(),
		"phone":      phone,
	})
}

func (dbService *EnrollmentDBService) MarkSignInSent(instanceID string, wizardID string) error {
	return dbService.markRegistration(instanceID, wizardID, bson.M{"signInSentAt": time.Now().Unix()})
}
