package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popuphq/passes-api/internal/domain"
	"github.com/popuphq/passes-api/internal/repository"
)

type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: make(map[string]domain.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := f.users[user.Email]; ok {
		return domain.User{}, repository.ErrUserEmailExists
	}
	user.ID = uint(len(f.users)) + 1
	f.users[user.Email] = user

	return user, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	user, ok := f.users[email]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func TestAuthService_SignupAndLogin(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	created, err := svc.Signup(context.Background(), domain.User{
		Email:    "ada@example.com",
		Password: "s3cretpass",
		Name:     "Ada",
	})
	require.NoError(t, err)

	assert.Equal(t, "attendee", created.Role)
	assert.NotEqual(t, "s3cretpass", created.Password)

	user, err := svc.Login(context.Background(), "ada@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Signup(context.Background(), domain.User{
		Email:    "ada@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "ada@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Signup(context.Background(), domain.User{Email: "ada@example.com", Password: "s3cretpass"})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), domain.User{Email: "ada@example.com", Password: "s3cretpass"})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}
