package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devtrail/bootcamp-api/internal/models"
)

func (s *Store) ListUsers(ctx context.Context, opts ListOptions) ([]models.User, int64, error) {
	coll := s.db.Collection(userColl)

	total, err := coll.CountDocuments(ctx, opts.filter())
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting users")
	}

	cur, err := coll.Find(ctx, opts.filter(), opts.findOptions())
	if err != nil {
		return nil, 0, errors.Wrap(err, "finding users")
	}
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, errors.Wrap(err, "decoding users")
	}
	return users, total, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var u models.User
	err = s.db.Collection(userColl).FindOne(ctx, bson.M{"_id": oid}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding user")
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.Collection(userColl).FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding user by email")
	}
	return &u, nil
}

// CreateUser inserts the user. The unique email index rejects duplicate
// registrations; callers detect that with IsDuplicateKey.
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	_, err := s.db.Collection(userColl).InsertOne(ctx, u)
	return errors.Wrap(err, "inserting user")
}

func (s *Store) UpdateUser(ctx context.Context, id string, set bson.M) (*models.User, error) {
	if len(set) == 0 {
		return s.GetUserByID(ctx, id)
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var u models.User
	err = s.db.Collection(userColl).FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "updating user")
	}
	return &u, nil
}

// DeleteUser removes the account only. Bootcamps and reviews the account
// authored are left in place.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.db.Collection(userColl).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "deleting user")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
