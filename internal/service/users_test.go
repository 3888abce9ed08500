package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/apperr"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/database"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/models"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/repository"
)

const userColumns = "id, name, email, password_hash, phone, state, district, is_admin, created_at"

func newUserService(t *testing.T) (*UserService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := repository.NewUserRepository(&database.DB{DB: db})
	return NewUserService(users, "test-secret", time.Hour), mock
}

func userRow(t *testing.T, id int64, email, password string) *sqlmock.Rows {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return sqlmock.NewRows([]string{
		"id", "name", "email", "password_hash", "phone", "state", "district", "is_admin", "created_at",
	}).AddRow(id, "Asha", email, string(hash), "", "", "", false, time.Now())
}

func TestRegister(t *testing.T) {
	svc, mock := newUserService(t)

	mock.ExpectQuery(`SELECT ` + userColumns + `\s+FROM users\s+WHERE email = \$1`).
		WithArgs("asha@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))

	resp, err := svc.Register(context.Background(), &models.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, int64(7), resp.User.ID)
	assert.Equal(t, "asha@example.com", resp.User.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, mock := newUserService(t)

	mock.ExpectQuery(`SELECT ` + userColumns + `\s+FROM users\s+WHERE email = \$1`).
		WithArgs("asha@example.com").
		WillReturnRows(userRow(t, 7, "asha@example.com", "secret1"))

	resp, err := svc.Register(context.Background(), &models.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret1",
	})
	assert.Nil(t, resp)
	assert.True(t, apperr.IsKind(err, apperr.InvalidArgument))
}

func TestLoginAndVerifyToken(t *testing.T) {
	svc, mock := newUserService(t)

	mock.ExpectQuery(`SELECT ` + userColumns + `\s+FROM users\s+WHERE email = \$1`).
		WithArgs("asha@example.com").
		WillReturnRows(userRow(t, 7, "asha@example.com", "secret1"))

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "asha@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	mock.ExpectQuery(`SELECT ` + userColumns + `\s+FROM users\s+WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(userRow(t, 7, "asha@example.com", "secret1"))

	user, err := svc.VerifyToken(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, mock := newUserService(t)

	mock.ExpectQuery(`SELECT ` + userColumns + `\s+FROM users\s+WHERE email = \$1`).
		WithArgs("asha@example.com").
		WillReturnRows(userRow(t, 7, "asha@example.com", "secret1"))

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong",
	})
	assert.Nil(t, resp)
	assert.True(t, apperr.IsKind(err, apperr.Unauthorized))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, mock := newUserService(t)

	mock.ExpectQuery(`SELECT ` + userColumns + `\s+FROM users\s+WHERE email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	assert.Nil(t, resp)
	assert.True(t, apperr.IsKind(err, apperr.Unauthorized))
}

func TestVerifyTokenGarbage(t *testing.T) {
	svc, _ := newUserService(t)

	user, err := svc.VerifyToken(context.Background(), "not-a-token")
	assert.Nil(t, user)
	assert.True(t, apperr.IsKind(err, apperr.Unauthorized))
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	svc, mock := newUserService(t)

	mock.ExpectQuery(`SELECT ` + userColumns + `\s+FROM users\s+WHERE email = \$1`).
		WithArgs("asha@example.com").
		WillReturnRows(userRow(t, 7, "asha@example.com", "secret1"))

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "asha@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	other := NewUserService(repository.NewUserRepository(nil), "different-secret", time.Hour)
	user, err := other.VerifyToken(context.Background(), resp.Token)
	assert.Nil(t, user)
	assert.True(t, apperr.IsKind(err, apperr.Unauthorized))
}
