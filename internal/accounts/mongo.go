package accounts

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errx "github.com/octank-fsi/dialog-agent/internal/core/error"
	logx "github.com/octank-fsi/dialog-agent/pkg/logger"
)

type Config struct {
	AccountsCollection     string `envconfig:"ACCOUNTS_COLLECTION" default:"user_accounts"`
	ApplicationsCollection string `envconfig:"APPLICATIONS_COLLECTION" default:"loan_applications"`
}

// MongoStore backs the account store with two collections: existing user
// accounts and pending loan applications. Lookups are individually atomic at
// the storage layer; there is no cross-call transaction.
type MongoStore struct {
	accounts     *mongo.Collection
	applications *mongo.Collection
}

func NewMongoStore(db *mongo.Database, cfg Config) *MongoStore {
	return &MongoStore{
		accounts:     db.Collection(cfg.AccountsCollection),
		applications: db.Collection(cfg.ApplicationsCollection),
	}
}

// QueryByUserName returns every account record under a user name, zero or
// more, in storage order.
func (s *MongoStore) QueryByUserName(ctx context.Context, userName string) ([]Record, error) {
	cursor, err := s.accounts.Find(ctx, bson.M{"user_name": userName})
	if err != nil {
		logx.Error().Err(err).Str("user_name", userName).Msg("account query failed")
		return nil, errx.WrapMongo(err)
	}
	defer cursor.Close(ctx)

	var records []Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, errx.WrapMongo(err)
	}
	return records, nil
}

// UserExists reports whether any account record exists under the user name.
// A backend failure is an error, never a boolean result.
func (s *MongoStore) UserExists(ctx context.Context, userName string) (bool, error) {
	n, err := s.accounts.CountDocuments(ctx, bson.M{"user_name": userName}, options.Count().SetLimit(1))
	if err != nil {
		logx.Error().Err(err).Str("user_name", userName).Msg("account existence check failed")
		return false, errx.WrapMongo(err)
	}
	return n > 0, nil
}

// CheckPIN compares the provided PIN with the first stored record for the
// user name by equality. Unknown user or wrong PIN are both false.
func (s *MongoStore) CheckPIN(ctx context.Context, userName, pin string) (bool, error) {
	var rec Record
	err := s.accounts.FindOne(ctx, bson.M{"user_name": userName}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		logx.Error().Err(err).Str("user_name", userName).Msg("pin lookup failed")
		return false, errx.WrapMongo(err)
	}
	return rec.PIN != "" && rec.PIN == pin, nil
}

// PutApplication persists a loan application keyed by user name,
// superseding any previous submission.
func (s *MongoStore) PutApplication(ctx context.Context, app ApplicationRecord) error {
	filter := bson.M{"user_name": app.UserName}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.applications.ReplaceOne(ctx, filter, app, opts); err != nil {
		logx.Error().Err(err).Str("user_name", app.UserName).Msg("failed to persist loan application")
		return errx.WrapMongo(err)
	}
	logx.Debug().Str("user_name", app.UserName).Msg("loan application persisted")
	return nil
}
