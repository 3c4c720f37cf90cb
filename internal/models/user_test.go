package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_PublicStripsPassword(t *testing.T) {
	u := User{ID: "u1", Email: "a@b.c", Password: "argon2id$00$11"}
	pub := u.Public()

	assert.Empty(t, pub.Password)
	assert.Equal(t, "argon2id$00$11", u.Password)

	raw, err := json.Marshal(pub)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RolePatient.Valid())
	assert.True(t, RoleDoctor.Valid())
	assert.False(t, Role("admin").Valid())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "dr.johnson@medibook.com", NormalizeEmail("  Dr.Johnson@MediBook.com "))
}
