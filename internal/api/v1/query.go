package v1

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/devtrail/bootcamp-api/internal/models"
	"github.com/devtrail/bootcamp-api/internal/store"
)

// Query params consumed by the list machinery itself; everything else is a
// field filter.
var reservedParams = map[string]struct{}{
	"select": {},
	"sort":   {},
	"page":   {},
	"limit":  {},
}

// ParseListOptions turns ?select=name,description&sort=-createdAt&page=2
// &limit=10&averageCost[lte]=10000&housing=true into store.ListOptions.
// Unknown operator suffixes are treated as part of the field name and will
// simply match nothing.
func ParseListOptions(q url.Values) store.ListOptions {
	opts := store.ListOptions{Filter: bson.M{}}

	for key, vals := range q {
		if _, reserved := reservedParams[key]; reserved || len(vals) == 0 {
			continue
		}
		field, op := splitOperator(key)
		val := coerceValue(vals[0])
		switch op {
		case "":
			opts.Filter[field] = val
		case "in":
			parts := strings.Split(vals[0], ",")
			coerced := make([]interface{}, 0, len(parts))
			for _, p := range parts {
				coerced = append(coerced, coerceValue(p))
			}
			opts.Filter[field] = bson.M{"$in": coerced}
		case "gt", "gte", "lt", "lte":
			merge, ok := opts.Filter[field].(bson.M)
			if !ok {
				merge = bson.M{}
			}
			merge["$"+op] = val
			opts.Filter[field] = merge
		}
	}

	if sel := q.Get("select"); sel != "" {
		opts.Select = strings.Split(sel, ",")
	}
	if sort := q.Get("sort"); sort != "" {
		opts.Sort = strings.Split(sort, ",")
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		opts.Limit = limit
	}
	return opts
}

// splitOperator unpacks "averageCost[lte]" into ("averageCost", "lte").
func splitOperator(key string) (string, string) {
	open := strings.IndexByte(key, '[')
	if open < 1 || !strings.HasSuffix(key, "]") {
		return key, ""
	}
	op := key[open+1 : len(key)-1]
	switch op {
	case "gt", "gte", "lt", "lte", "in":
		return key[:open], op
	}
	return key, ""
}

// coerceValue guesses the bson type of a query string value so numeric and
// boolean filters compare correctly.
func coerceValue(s string) interface{} {
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

// paginationFor builds the prev/next hints for a list response.
func paginationFor(opts store.ListOptions, total int64) *models.Pagination {
	page, limit := opts.Page, opts.Limit
	if page < 1 {
		page = store.DefaultPage
	}
	if limit < 1 {
		limit = store.DefaultLimit
	}
	hasPrev, hasNext := opts.Paginate(total)
	if !hasPrev && !hasNext {
		return nil
	}
	p := &models.Pagination{}
	if hasPrev {
		p.Prev = &models.Page{Page: page - 1, Limit: limit}
	}
	if hasNext {
		p.Next = &models.Page{Page: page + 1, Limit: limit}
	}
	return p
}
