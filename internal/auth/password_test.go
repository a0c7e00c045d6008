package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/karsei/sample-auth-service/internal/auth"
)

func TestPasswordHashing(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		hash, err := auth.HashPassword("s3cret", bcrypt.MinCost)
		require.NoError(t, err)
		require.NotEqual(t, "s3cret", hash)

		assert.NoError(t, auth.ComparePassword(hash, "s3cret"))
		assert.Error(t, auth.ComparePassword(hash, "wrong"))
	})

	t.Run("out of range cost falls back", func(t *testing.T) {
		t.Parallel()
		hash, err := auth.HashPassword("s3cret", 99)
		require.NoError(t, err)
		assert.NoError(t, auth.ComparePassword(hash, "s3cret"))
	})
}
