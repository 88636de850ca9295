package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strikezone/league-system/models"
	"github.com/strikezone/league-system/repositories"
	"github.com/strikezone/league-system/utils"
)

type fakeUserRepo struct {
	byEmail map[string]*models.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*models.User), nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return repositories.ErrUserEmailConflict
	}
	user.ID = f.nextID
	f.nextID++
	copied := *user
	f.byEmail[user.Email] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	for _, user := range f.byEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	secret := []byte("test-secret")

	t.Run("creates a player account", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), nil, secret, nil)
		user, err := svc.Register(ctx, RegisterInput{
			FirstName: "Anna",
			LastName:  "Larsen",
			Email:     "  Anna@Example.COM ",
			Password:  "secret-password",
		})
		require.NoError(t, err)
		assert.Equal(t, "anna@example.com", user.Email)
		assert.Equal(t, models.RolePlayer, user.Role)
		assert.NotEqual(t, "secret-password", user.PasswordHash)
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), nil, secret, nil)
		_, err := svc.Register(ctx, RegisterInput{
			FirstName: "Anna", LastName: "Larsen",
			Email: "anna@example.com", Password: "short",
		})
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("rejects duplicate emails", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), nil, secret, nil)
		input := RegisterInput{
			FirstName: "Anna", LastName: "Larsen",
			Email: "anna@example.com", Password: "secret-password",
		}
		_, err := svc.Register(ctx, input)
		require.NoError(t, err)

		_, err = svc.Register(ctx, input)
		assert.ErrorIs(t, err, ErrUserEmailConflict)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	secret := []byte("test-secret")
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, nil, secret, nil)

	registered, err := svc.Register(ctx, RegisterInput{
		FirstName: "Anna", LastName: "Larsen",
		Email: "anna@example.com", Password: "secret-password",
	})
	require.NoError(t, err)

	t.Run("issues a token for valid credentials", func(t *testing.T) {
		token, user, err := svc.Login(ctx, models.Credentials{
			Email:    "Anna@Example.com",
			Password: "secret-password",
		})
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)

		claims, err := utils.ParseJWT(secret, token)
		require.NoError(t, err)
		assert.EqualValues(t, registered.ID, claims["user_id"])
		assert.Equal(t, string(models.RolePlayer), claims["role"])
	})

	t.Run("wrong password fails", func(t *testing.T) {
		_, _, err := svc.Login(ctx, models.Credentials{
			Email:    "anna@example.com",
			Password: "wrong-password",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email fails the same way", func(t *testing.T) {
		_, _, err := svc.Login(ctx, models.Credentials{
			Email:    "nobody@example.com",
			Password: "secret-password",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
