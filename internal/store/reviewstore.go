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

func (s *Store) ListReviews(ctx context.Context, opts ListOptions) ([]models.Review, int64, error) {
	coll := s.db.Collection(reviewColl)

	total, err := coll.CountDocuments(ctx, opts.filter())
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting reviews")
	}

	cur, err := coll.Find(ctx, opts.filter(), opts.findOptions())
	if err != nil {
		return nil, 0, errors.Wrap(err, "finding reviews")
	}
	reviews := []models.Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, 0, errors.Wrap(err, "decoding reviews")
	}
	return reviews, total, nil
}

func (s *Store) GetReviewByID(ctx context.Context, id string) (*models.Review, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var rv models.Review
	err = s.db.Collection(reviewColl).FindOne(ctx, bson.M{"_id": oid}).Decode(&rv)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding review")
	}
	return &rv, nil
}

// CreateReview inserts the review and refreshes the bootcamp's average
// rating. The unique (bootcamp, user) index rejects a second review by the
// same account; callers detect that with IsDuplicateKey.
func (s *Store) CreateReview(ctx context.Context, rv *models.Review) error {
	rv.ID = primitive.NewObjectID()
	rv.CreatedAt = time.Now().UTC()
	if _, err := s.db.Collection(reviewColl).InsertOne(ctx, rv); err != nil {
		return errors.Wrap(err, "inserting review")
	}
	return s.RecalcAverageRating(ctx, rv.Bootcamp)
}

func (s *Store) UpdateReview(ctx context.Context, id string, set bson.M) (*models.Review, error) {
	if len(set) == 0 {
		return s.GetReviewByID(ctx, id)
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var rv models.Review
	err = s.db.Collection(reviewColl).FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&rv)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "updating review")
	}
	if _, changed := set["rating"]; changed {
		if err := s.RecalcAverageRating(ctx, rv.Bootcamp); err != nil {
			return nil, err
		}
	}
	return &rv, nil
}

func (s *Store) DeleteReview(ctx context.Context, id string) error {
	rv, err := s.GetReviewByID(ctx, id)
	if err != nil {
		return err
	}
	res, err := s.db.Collection(reviewColl).DeleteOne(ctx, bson.M{"_id": rv.ID})
	if err != nil {
		return errors.Wrap(err, "deleting review")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return s.RecalcAverageRating(ctx, rv.Bootcamp)
}
