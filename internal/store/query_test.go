package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFindOptionsDefaults(t *testing.T) {
	opts := ListOptions{}.findOptions()

	require.NotNil(t, opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(0), *opts.Skip)
	assert.Equal(t, int64(DefaultLimit), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}}, opts.Sort)
	assert.Nil(t, opts.Projection)
}

func TestFindOptionsPaging(t *testing.T) {
	opts := ListOptions{Page: 3, Limit: 10}.findOptions()

	assert.Equal(t, int64(20), *opts.Skip)
	assert.Equal(t, int64(10), *opts.Limit)
}

func TestFindOptionsSortAndProjection(t *testing.T) {
	opts := ListOptions{
		Select: []string{"name", "averageCost"},
		Sort:   []string{"-averageCost", "name"},
	}.findOptions()

	assert.Equal(t, bson.D{
		{Key: "averageCost", Value: -1},
		{Key: "name", Value: 1},
	}, opts.Sort)
	assert.Equal(t, bson.D{
		{Key: "name", Value: 1},
		{Key: "averageCost", Value: 1},
	}, opts.Projection)
}

func TestFilterDefaultsToEmpty(t *testing.T) {
	assert.Equal(t, bson.M{}, ListOptions{}.filter())

	f := bson.M{"housing": true}
	assert.Equal(t, f, ListOptions{Filter: f}.filter())
}

func TestPaginate(t *testing.T) {
	prev, next := ListOptions{Page: 1, Limit: 10}.Paginate(25)
	assert.False(t, prev)
	assert.True(t, next)

	prev, next = ListOptions{Page: 3, Limit: 10}.Paginate(25)
	assert.True(t, prev)
	assert.False(t, next)

	prev, next = ListOptions{}.Paginate(5)
	assert.False(t, prev)
	assert.False(t, next)
}
