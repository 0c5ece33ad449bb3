package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/contactshare/internal/common"
	"github.com/dmitrijs2005/contactshare/internal/server/auth"
	"github.com/dmitrijs2005/contactshare/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T, st *memStore) *UserService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	cfg := &config.Config{SecretKey: "k", SessionValidity: time.Hour}
	return NewUserService(db, &fakeRepoManager{st}, cfg, newTestLogger(t))
}

func TestSignup_SuccessIssuesSession(t *testing.T) {
	st := newMemStore()
	s := newUserService(t, st)

	sess, err := s.Signup(context.Background(), " ann@example.com ", "pw", "Ann")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", sess.User.Email)
	assert.Equal(t, "Ann", sess.User.Name)
	assert.NotEqual(t, "pw", sess.User.PasswordHash)
	assert.True(t, auth.VerifyPassword("pw", sess.User.PasswordHash))

	claims, err := auth.ParseToken(sess.Token, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, claims.UserID)
	assert.Equal(t, "ann@example.com", claims.Email)
}

func TestSignup_Validation(t *testing.T) {
	s := newUserService(t, newMemStore())

	for _, tc := range [][3]string{
		{"", "pw", "Ann"},
		{"a@example.com", "", "Ann"},
		{"a@example.com", "pw", "  "},
	} {
		_, err := s.Signup(context.Background(), tc[0], tc[1], tc[2])
		assert.ErrorIs(t, err, common.ErrInvalidInput, tc)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	st := newMemStore()
	st.addUser("ann@example.com", "Ann")
	s := newUserService(t, st)

	_, err := s.Signup(context.Background(), "ann@example.com", "pw", "Ann 2")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
	assert.EqualError(t, err, "email already exists")
}

func TestSignup_RepoError(t *testing.T) {
	st := newMemStore()
	st.errs["users.Create"] = errors.New("boom")
	s := newUserService(t, st)

	_, err := s.Signup(context.Background(), "ann@example.com", "pw", "Ann")
	assert.ErrorContains(t, err, "error creating user: boom")
}

func TestLogin(t *testing.T) {
	st := newMemStore()
	s := newUserService(t, st)

	_, err := s.Signup(context.Background(), "ann@example.com", "right", "Ann")
	require.NoError(t, err)

	sess, err := s.Login(context.Background(), "ann@example.com", "right")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)

	_, err = s.Login(context.Background(), "ann@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)

	_, err = s.Login(context.Background(), "nobody@example.com", "right")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)

	_, err = s.Login(context.Background(), "", "right")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestMe(t *testing.T) {
	st := newMemStore()
	u := st.addUser("ann@example.com", "Ann")
	s := newUserService(t, st)

	got, err := s.Me(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.Name)

	_, err = s.Me(context.Background(), "u-gone")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestSignup_PasswordTooLong(t *testing.T) {
	st := newMemStore()
	s := newUserService(t, st)

	_, err := s.Signup(context.Background(), "ann@example.com", strings.Repeat("p", 80), "Ann")
	require.ErrorIs(t, err, common.ErrInvalidInput)
	assert.ErrorContains(t, err, "password must be at most 72 bytes")
	assert.Empty(t, st.users)
}
