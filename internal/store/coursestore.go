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

func (s *Store) ListCourses(ctx context.Context, opts ListOptions) ([]models.Course, int64, error) {
	coll := s.db.Collection(courseColl)

	total, err := coll.CountDocuments(ctx, opts.filter())
	if err != nil {
		return nil, 0, errors.Wrap(err, "counting courses")
	}

	cur, err := coll.Find(ctx, opts.filter(), opts.findOptions())
	if err != nil {
		return nil, 0, errors.Wrap(err, "finding courses")
	}
	courses := []models.Course{}
	if err := cur.All(ctx, &courses); err != nil {
		return nil, 0, errors.Wrap(err, "decoding courses")
	}
	return courses, total, nil
}

func (s *Store) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var c models.Course
	err = s.db.Collection(courseColl).FindOne(ctx, bson.M{"_id": oid}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "finding course")
	}
	return &c, nil
}

// CreateCourse inserts the course and refreshes the parent bootcamp's
// average cost.
func (s *Store) CreateCourse(ctx context.Context, c *models.Course) error {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()
	if _, err := s.db.Collection(courseColl).InsertOne(ctx, c); err != nil {
		return errors.Wrap(err, "inserting course")
	}
	return s.RecalcAverageCost(ctx, c.Bootcamp)
}

func (s *Store) UpdateCourse(ctx context.Context, id string, set bson.M) (*models.Course, error) {
	if len(set) == 0 {
		return s.GetCourseByID(ctx, id)
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var c models.Course
	err = s.db.Collection(courseColl).FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "updating course")
	}
	if _, changed := set["tuition"]; changed {
		if err := s.RecalcAverageCost(ctx, c.Bootcamp); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	c, err := s.GetCourseByID(ctx, id)
	if err != nil {
		return err
	}
	res, err := s.db.Collection(courseColl).DeleteOne(ctx, bson.M{"_id": c.ID})
	if err != nil {
		return errors.Wrap(err, "deleting course")
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return s.RecalcAverageCost(ctx, c.Bootcamp)
}
