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

// earthRadiusMiles is used to convert a distance in miles to radians for
// $centerSphere queries.
const earthRadiusMiles = 3963.0

// objectID parses a hex id from a URL param. A malformed id can never match
// a document, so it maps to ErrNotFound.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}

func (s *Store) ListBootcamps(ctx context.Context, opts ListOptions) ([]models.Bootcamp, int64, error) {
	coll := s.db.Collection(bootcampColl)

	total, err := coll.CountDocuments(ctx, opts.filter())
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting bootcamps")
	}

	cur, err := coll.Find(ctx, opts.filter(), opts.findOptions())
	if err != nil {
		return nil, 0, errors.Wrap(err, "finding bootcamps")
	}
	bootcamps := []models.Bootcamp{}
	if err := cur.All(ctx, &bootcamps); err != nil {
		return nil, 0, errors.Wrap(err, "decoding bootcamps")
	}
	return bootcamps, total, nil
}

func (s *Store) GetBootcampByID(ctx context.Context, id string) (*models.Bootcamp, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var b models.Bootcamp
	err = s.db.Collection(bootcampColl).FindOne(ctx, bson.M{"_id": oid}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding bootcamp")
	}
	return &b, nil
}

// CreateBootcamp assigns id, slug and creation time, then inserts.
func (s *Store) CreateBootcamp(ctx context.Context, b *models.Bootcamp) error {
	b.ID = primitive.NewObjectID()
	b.Slug = models.Slugify(b.Name)
	b.CreatedAt = time.Now().UTC()
	_, err := s.db.Collection(bootcampColl).InsertOne(ctx, b)
	return errors.Wrap(err, "inserting bootcamp")
}

// UpdateBootcamp merges set over the existing document and returns the
// updated document. An empty set is a no-op returning the current state.
func (s *Store) UpdateBootcamp(ctx context.Context, id string, set bson.M) (*models.Bootcamp, error) {
	if len(set) == 0 {
		return s.GetBootcampByID(ctx, id)
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	if name, ok := set["name"].(string); ok {
		set["slug"] = models.Slugify(name)
	}
	var b models.Bootcamp
	err = s.db.Collection(bootcampColl).FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&b)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "updating bootcamp")
	}
	return &b, nil
}

// DeleteBootcampCascade removes the bootcamp and, in the same call, all
// courses and reviews that reference it. Mongo gives no cross-collection
// atomicity here; the bootcamp goes last so a retry still sees it.
func (s *Store) DeleteBootcampCascade(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	if _, err := s.db.Collection(courseColl).DeleteMany(ctx, bson.M{"bootcamp": oid}); err != nil {
		return errors.Wrap(err, "deleting bootcamp courses")
	}
	if _, err := s.db.Collection(reviewColl).DeleteMany(ctx, bson.M{"bootcamp": oid}); err != nil {
		return errors.Wrap(err, "deleting bootcamp reviews")
	}
	res, err := s.db.Collection(bootcampColl).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return errors.Wrap(err, "deleting bootcamp")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountBootcampsByOwner supports the one-bootcamp-per-publisher rule.
func (s *Store) CountBootcampsByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error) {
	n, err := s.db.Collection(bootcampColl).CountDocuments(ctx, bson.M{"user": owner})
	return n, errors.Wrap(err, "counting bootcamps by owner")
}

// BootcampsInRadius finds bootcamps within miles of the given zipcode. The
// center point is resolved from any stored bootcamp address with that
// zipcode; an unknown zipcode is a not-found.
func (s *Store) BootcampsInRadius(ctx context.Context, zipcode string, miles float64) ([]models.Bootcamp, error) {
	var center models.Bootcamp
	err := s.db.Collection(bootcampColl).
		FindOne(ctx, bson.M{"location.zipcode": zipcode}).Decode(&center)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "resolving zipcode")
	}
	if center.Location == nil || len(center.Location.Coordinates) != 2 {
		return nil, ErrNotFound
	}

	radius := miles / earthRadiusMiles
	cur, err := s.db.Collection(bootcampColl).Find(ctx, bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{center.Location.Coordinates, radius},
			},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "finding bootcamps in radius")
	}
	bootcamps := []models.Bootcamp{}
	if err := cur.All(ctx, &bootcamps); err != nil {
		return nil, errors.Wrap(err, "decoding bootcamps in radius")
	}
	return bootcamps, nil
}

// UpdateBootcampPhoto records the storage key of an uploaded photo.
func (s *Store) UpdateBootcampPhoto(ctx context.Context, id string, key string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := s.db.Collection(bootcampColl).UpdateByID(ctx, oid, bson.M{"$set": bson.M{"photo": key}})
	if err != nil {
		return errors.Wrap(err, "updating bootcamp photo")
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RecalcAverageCost aggregates tuition across the bootcamp's courses and
// writes the average back onto the bootcamp document. Called after course
// create/delete.
func (s *Store) RecalcAverageCost(ctx context.Context, bootcampID primitive.ObjectID) error {
	return s.recalcAverage(ctx, courseColl, "$tuition", "averageCost", bootcampID)
}

// RecalcAverageRating aggregates review ratings for the bootcamp. Called
// after review create/update/delete.
func (s *Store) RecalcAverageRating(ctx context.Context, bootcampID primitive.ObjectID) error {
	return s.recalcAverage(ctx, reviewColl, "$rating", "averageRating", bootcampID)
}

func (s *Store) recalcAverage(ctx context.Context, coll, sourceField, targetField string, bootcampID primitive.ObjectID) error {
	cur, err := s.db.Collection(coll).Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"bootcamp": bootcampID}}},
		{{Key: "$group", Value: bson.M{"_id": "$bootcamp", "avg": bson.M{"$avg": sourceField}}}},
	})
	if err != nil {
		return errors.Wrapf(err, "aggregating %s", targetField)
	}
	var results []struct {
		Avg float64 `bson:"avg"`
	}
	if err := cur.All(ctx, &results); err != nil {
		return errors.Wrapf(err, "decoding %s aggregate", targetField)
	}

	update := bson.M{"$unset": bson.M{targetField: ""}}
	if len(results) > 0 {
		update = bson.M{"$set": bson.M{targetField: results[0].Avg}}
	}
	_, err = s.db.Collection(bootcampColl).UpdateByID(ctx, bootcampID, update)
	return errors.Wrapf(err, "writing %s", targetField)
}
