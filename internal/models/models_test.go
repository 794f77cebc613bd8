package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "acme-u", Slugify("Acme U"))
	assert.Equal(t, "devworks-bootcamp", Slugify("DevWorks Bootcamp"))
	assert.Equal(t, "c-and-go", Slugify("  C++ and Go!  "))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleUser))
	assert.True(t, ValidRole(RolePublisher))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("superuser"))
	assert.False(t, ValidRole(""))
}

func TestUserPasswordNeverMarshalled(t *testing.T) {
	u := User{
		ID:           primitive.NewObjectID(),
		Name:         "Ada",
		Email:        "ada@example.com",
		Role:         RoleUser,
		PasswordHash: "$2a$10$secret",
	}
	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.NotContains(t, string(b), "password")
}
