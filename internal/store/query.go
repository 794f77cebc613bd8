package store

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage  = 1
	DefaultLimit = 25
)

// ListOptions carries the filter/select/sort/pagination of a list request.
// Zero value lists everything with defaults.
type ListOptions struct {
	Filter bson.M
	Select []string // field names to project
	Sort   []string // field names, "-" prefix for descending
	Page   int
	Limit  int
}

func (o ListOptions) page() int {
	if o.Page < 1 {
		return DefaultPage
	}
	return o.Page
}

func (o ListOptions) limit() int {
	if o.Limit < 1 {
		return DefaultLimit
	}
	return o.Limit
}

func (o ListOptions) filter() bson.M {
	if o.Filter == nil {
		return bson.M{}
	}
	return o.Filter
}

// findOptions translates ListOptions into driver options. Default sort is
// newest first.
func (o ListOptions) findOptions() *options.FindOptions {
	opts := options.Find().
		SetSkip(int64((o.page() - 1) * o.limit())).
		SetLimit(int64(o.limit()))

	if len(o.Select) > 0 {
		proj := bson.D{}
		for _, f := range o.Select {
			proj = append(proj, bson.E{Key: f, Value: 1})
		}
		opts.SetProjection(proj)
	}

	sort := bson.D{}
	for _, f := range o.Sort {
		if strings.HasPrefix(f, "-") {
			sort = append(sort, bson.E{Key: strings.TrimPrefix(f, "-"), Value: -1})
		} else {
			sort = append(sort, bson.E{Key: f, Value: 1})
		}
	}
	if len(sort) == 0 {
		sort = bson.D{{Key: "createdAt", Value: -1}}
	}
	opts.SetSort(sort)

	return opts
}

// Paginate computes prev/next hints given the total matched count.
// Returns (hasPrev, hasNext).
func (o ListOptions) Paginate(total int64) (bool, bool) {
	page, limit := o.page(), o.limit()
	return page > 1, int64(page*limit) < total
}
