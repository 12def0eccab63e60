package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserDefaults(t *testing.T) {
	u, err := CreateUser("tester", "tester@example.com", "secret1", 10)
	require.NoError(t, err)

	assert.Equal(t, PLAN_FREE, u.Plan)
	assert.Equal(t, 0, u.UsageCount)
	assert.Equal(t, 10, u.UsageLimit)
	assert.Equal(t, STATUS_ACTIVE, u.Status)
	assert.True(t, u.CheckPassword("secret1"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestCreateUserValidation(t *testing.T) {
	_, err := CreateUser("ab", "not-an-email", "x", 10)
	assert.Error(t, err)
}

func TestHasCredits(t *testing.T) {
	tests := []struct {
		name  string
		count int
		limit int
		want  bool
	}{
		{"below limit", 5, 10, true},
		{"at limit", 10, 10, false},
		{"above limit", 11, 10, false},
		{"fresh account", 0, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{UsageCount: tt.count, UsageLimit: tt.limit}
			assert.Equal(t, tt.want, u.HasCredits())
		})
	}
}
