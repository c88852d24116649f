package repository

import (
	"context"
	"testing"

	"github.com/pitchcoach-app/auth-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateTranslatesDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := &model.User{Email: "alice@example.com", Password: "h", FirstName: "A", LastName: "B"}
	require.NoError(t, repo.Create(ctx, first))

	dup := &model.User{Email: "alice@example.com", Password: "h", FirstName: "A", LastName: "B"}
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestGetByEmailIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	seeded := seedUser(t, db, "alice@example.com")

	user, err := repo.GetByEmail(ctx, "  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	err := repo.UpdateProfile(context.Background(), "no-such-id", map[string]interface{}{
		"first_name": "Ghost",
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateLastLogin(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := seedUser(t, db, "alice@example.com")
	require.Nil(t, user.LastLogin)

	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID))

	reloaded, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.LastLogin)
}
