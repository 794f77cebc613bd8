package v1

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/devtrail/bootcamp-api/internal/store"
)

// fakeStore is an in-memory stand-in for the mongo store, implementing the
// per-resource interfaces the handlers accept.
type fakeStore struct {
	bootcamps map[primitive.ObjectID]*models.Bootcamp
	courses   map[primitive.ObjectID]*models.Course
	reviews   map[primitive.ObjectID]*models.Review
	users     map[primitive.ObjectID]*models.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bootcamps: map[primitive.ObjectID]*models.Bootcamp{},
		courses:   map[primitive.ObjectID]*models.Course{},
		reviews:   map[primitive.ObjectID]*models.Review{},
		users:     map[primitive.ObjectID]*models.User{},
	}
}

// dupKeyErr mimics a mongo unique-index violation (E11000).
func dupKeyErr() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, store.ErrNotFound
	}
	return oid, nil
}

/* ---- BootcampStore ---- */

func (f *fakeStore) ListBootcamps(_ context.Context, opts store.ListOptions) ([]models.Bootcamp, int64, error) {
	out := []models.Bootcamp{}
	for _, b := range f.bootcamps {
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) GetBootcampByID(_ context.Context, id string) (*models.Bootcamp, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	b, ok := f.bootcamps[oid]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) CreateBootcamp(_ context.Context, b *models.Bootcamp) error {
	b.ID = primitive.NewObjectID()
	b.Slug = models.Slugify(b.Name)
	b.CreatedAt = time.Now().UTC()
	cp := *b
	f.bootcamps[b.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateBootcamp(_ context.Context, id string, set bson.M) (*models.Bootcamp, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	b, ok := f.bootcamps[oid]
	if !ok {
		return nil, store.ErrNotFound
	}
	if name, ok := set["name"].(string); ok {
		b.Name = name
		b.Slug = models.Slugify(name)
	}
	if desc, ok := set["description"].(string); ok {
		b.Description = desc
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) DeleteBootcampCascade(_ context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if _, ok := f.bootcamps[oid]; !ok {
		return store.ErrNotFound
	}
	delete(f.bootcamps, oid)
	for cid, c := range f.courses {
		if c.Bootcamp == oid {
			delete(f.courses, cid)
		}
	}
	for rid, rv := range f.reviews {
		if rv.Bootcamp == oid {
			delete(f.reviews, rid)
		}
	}
	return nil
}

func (f *fakeStore) CountBootcampsByOwner(_ context.Context, owner primitive.ObjectID) (int64, error) {
	var n int64
	for _, b := range f.bootcamps {
		if b.User == owner {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) BootcampsInRadius(_ context.Context, zipcode string, miles float64) ([]models.Bootcamp, error) {
	out := []models.Bootcamp{}
	for _, b := range f.bootcamps {
		if b.Location != nil && b.Location.Zipcode == zipcode {
			out = append(out, *b)
		}
	}
	if len(out) == 0 {
		return nil, store.ErrNotFound
	}
	return out, nil
}

func (f *fakeStore) UpdateBootcampPhoto(_ context.Context, id string, key string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	b, ok := f.bootcamps[oid]
	if !ok {
		return store.ErrNotFound
	}
	b.Photo = key
	return nil
}

/* ---- CourseStore ---- */

func (f *fakeStore) ListCourses(_ context.Context, opts store.ListOptions) ([]models.Course, int64, error) {
	out := []models.Course{}
	parent, scoped := opts.Filter["bootcamp"].(primitive.ObjectID)
	for _, c := range f.courses {
		if scoped && c.Bootcamp != parent {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) GetCourseByID(_ context.Context, id string) (*models.Course, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	c, ok := f.courses[oid]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) CreateCourse(_ context.Context, c *models.Course) error {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()
	cp := *c
	f.courses[c.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateCourse(_ context.Context, id string, set bson.M) (*models.Course, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	c, ok := f.courses[oid]
	if !ok {
		return nil, store.ErrNotFound
	}
	if title, ok := set["title"].(string); ok {
		c.Title = title
	}
	if tuition, ok := set["tuition"].(float64); ok {
		c.Tuition = tuition
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) DeleteCourse(_ context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if _, ok := f.courses[oid]; !ok {
		return store.ErrNotFound
	}
	delete(f.courses, oid)
	return nil
}

/* ---- ReviewStore ---- */

func (f *fakeStore) ListReviews(_ context.Context, opts store.ListOptions) ([]models.Review, int64, error) {
	out := []models.Review{}
	parent, scoped := opts.Filter["bootcamp"].(primitive.ObjectID)
	for _, rv := range f.reviews {
		if scoped && rv.Bootcamp != parent {
			continue
		}
		out = append(out, *rv)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) GetReviewByID(_ context.Context, id string) (*models.Review, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	rv, ok := f.reviews[oid]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *rv
	return &cp, nil
}

func (f *fakeStore) CreateReview(_ context.Context, rv *models.Review) error {
	for _, existing := range f.reviews {
		if existing.Bootcamp == rv.Bootcamp && existing.User == rv.User {
			return dupKeyErr()
		}
	}
	rv.ID = primitive.NewObjectID()
	rv.CreatedAt = time.Now().UTC()
	cp := *rv
	f.reviews[rv.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateReview(_ context.Context, id string, set bson.M) (*models.Review, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	rv, ok := f.reviews[oid]
	if !ok {
		return nil, store.ErrNotFound
	}
	if title, ok := set["title"].(string); ok {
		rv.Title = title
	}
	if rating, ok := set["rating"].(int); ok {
		rv.Rating = rating
	}
	cp := *rv
	return &cp, nil
}

func (f *fakeStore) DeleteReview(_ context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if _, ok := f.reviews[oid]; !ok {
		return store.ErrNotFound
	}
	delete(f.reviews, oid)
	return nil
}

/* ---- UserStore / UserGetter ---- */

func (f *fakeStore) ListUsers(_ context.Context, opts store.ListOptions) ([]models.User, int64, error) {
	out := []models.User{}
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	u, ok := f.users[oid]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) CreateUser(_ context.Context, u *models.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return dupKeyErr()
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateUser(_ context.Context, id string, set bson.M) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	u, ok := f.users[oid]
	if !ok {
		return nil, store.ErrNotFound
	}
	if name, ok := set["name"].(string); ok {
		u.Name = name
	}
	if role, ok := set["role"].(models.Role); ok {
		u.Role = role
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	if _, ok := f.users[oid]; !ok {
		return store.ErrNotFound
	}
	delete(f.users, oid)
	return nil
}

// addUser seeds an account and returns it.
func (f *fakeStore) addUser(role models.Role) *models.User {
	u := &models.User{
		ID:        primitive.NewObjectID(),
		Name:      "Test " + string(role),
		Email:     string(role) + "-" + primitive.NewObjectID().Hex() + "@example.com",
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	f.users[u.ID] = u
	return u
}

// addBootcamp seeds a bootcamp owned by owner.
func (f *fakeStore) addBootcamp(owner primitive.ObjectID, name string) *models.Bootcamp {
	b := &models.Bootcamp{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Slug:        models.Slugify(name),
		Description: "seeded",
		Careers:     []string{"Web Development"},
		User:        owner,
		CreatedAt:   time.Now().UTC(),
	}
	f.bootcamps[b.ID] = b
	return b
}
