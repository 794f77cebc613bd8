package store

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no document matches the given id. A
// malformed ObjectID is reported the same way: the client asked for an id
// no document can have.
var ErrNotFound = errors.New("document not found")

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateKey reports whether err is a Mongo unique-index violation
// (E11000), e.g. a second review by the same account on the same bootcamp.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(errors.Cause(err))
}
