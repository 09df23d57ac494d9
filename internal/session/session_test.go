package session

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/fintrack/internal/api"
	"github.com/Veraticus/fintrack/internal/model"
)

type fakeAPI struct {
	loginErr    error
	registerErr error
	logoutErr   error
	userErr     error
	token       string
	user        model.User
	logouts     int
}

func (f *fakeAPI) Login(_ context.Context, _, _ string) (string, error) {
	return f.token, f.loginErr
}

func (f *fakeAPI) Register(_ context.Context, _, _, _ string) error {
	return f.registerErr
}

func (f *fakeAPI) Logout(_ context.Context) error {
	f.logouts++
	return f.logoutErr
}

func (f *fakeAPI) CurrentUser(_ context.Context) (model.User, error) {
	return f.user, f.userErr
}

type memoryTokens struct {
	token string
}

func (m *memoryTokens) LoadToken(_ context.Context) (string, error) { return m.token, nil }

func (m *memoryTokens) SaveToken(_ context.Context, token string) error {
	m.token = token
	return nil
}

func (m *memoryTokens) ClearToken(_ context.Context) error {
	m.token = ""
	return nil
}

func TestInit_RestoresStoredToken(t *testing.T) {
	fake := &fakeAPI{user: model.User{ID: 3, Username: "ana"}}
	tokens := &memoryTokens{token: "stored"}
	s := New(fake, tokens)

	assert.True(t, s.Loading())
	s.Init(context.Background())

	assert.False(t, s.Loading())
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "stored", s.AccessToken())
	assert.Equal(t, 3, s.UserID())
}

func TestInit_InvalidTokenClearedSilently(t *testing.T) {
	fake := &fakeAPI{userErr: &api.Error{StatusCode: http.StatusUnauthorized}}
	tokens := &memoryTokens{token: "expired"}
	s := New(fake, tokens)

	s.Init(context.Background())

	assert.False(t, s.Loading())
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.AccessToken())
	assert.Empty(t, tokens.token)
}

func TestInit_NoToken(t *testing.T) {
	s := New(&fakeAPI{}, &memoryTokens{})
	s.Init(context.Background())

	assert.False(t, s.Loading())
	assert.False(t, s.IsAuthenticated())
}

func TestLogin(t *testing.T) {
	tests := []struct {
		loginErr error
		name     string
		wantMsg  string
		wantOK   bool
	}{
		{name: "success", wantOK: true},
		{
			name:     "invalid credentials with server message",
			loginErr: &api.Error{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"},
			wantMsg:  "Invalid credentials",
		},
		{
			name:     "invalid credentials without message",
			loginErr: &api.Error{StatusCode: http.StatusUnauthorized},
			wantMsg:  MsgInvalidCredentials,
		},
		{
			name:     "network failure",
			loginErr: errors.Join(api.ErrNetwork, errors.New("connection refused")),
			wantMsg:  MsgLoginFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAPI{token: "jwt", loginErr: tt.loginErr, user: model.User{ID: 1, Username: "ana"}}
			tokens := &memoryTokens{}
			s := New(fake, tokens)

			res := s.Login(context.Background(), "ana", "pw")
			assert.Equal(t, tt.wantOK, res.OK)
			assert.Equal(t, tt.wantMsg, res.Message)
			assert.Equal(t, tt.wantOK, s.IsAuthenticated())
			if tt.wantOK {
				assert.Equal(t, "jwt", tokens.token)
			} else {
				assert.Empty(t, tokens.token)
			}
		})
	}
}

func TestLogin_UserLoadFailureClearsToken(t *testing.T) {
	fake := &fakeAPI{token: "jwt", userErr: errors.New("boom")}
	tokens := &memoryTokens{}
	s := New(fake, tokens)

	res := s.Login(context.Background(), "ana", "pw")
	assert.False(t, res.OK)
	assert.Equal(t, MsgUserUnavailable, res.Message)
	assert.Empty(t, tokens.token)
	assert.Empty(t, s.AccessToken())
}

func TestRegister_NeverAuthenticates(t *testing.T) {
	fake := &fakeAPI{}
	s := New(fake, &memoryTokens{})

	res := s.Register(context.Background(), "ana", "ana@example.com", "S3cret!pw")
	assert.True(t, res.OK)
	assert.False(t, s.IsAuthenticated())

	fake.registerErr = &api.Error{StatusCode: http.StatusConflict, Message: "Username already exists"}
	res = s.Register(context.Background(), "ana", "ana@example.com", "S3cret!pw")
	assert.False(t, res.OK)
	assert.Equal(t, "Username already exists", res.Message)

	fake.registerErr = errors.New("boom")
	res = s.Register(context.Background(), "ana", "ana@example.com", "S3cret!pw")
	assert.Equal(t, MsgRegisterFailed, res.Message)
}

func TestLogout_AlwaysClears(t *testing.T) {
	fake := &fakeAPI{token: "jwt", user: model.User{ID: 1}, logoutErr: errors.New("server down")}
	tokens := &memoryTokens{}
	s := New(fake, tokens)
	require.True(t, s.Login(context.Background(), "ana", "pw").OK)

	s.Logout(context.Background())

	assert.Equal(t, 1, fake.logouts)
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.AccessToken())
	assert.Empty(t, tokens.token)
}

func TestExpire_NotifiesListeners(t *testing.T) {
	fake := &fakeAPI{token: "jwt", user: model.User{ID: 1}}
	tokens := &memoryTokens{}
	s := New(fake, tokens)
	s.Init(context.Background())
	require.True(t, s.Login(context.Background(), "ana", "pw").OK)

	var states []State
	unsubscribe := s.OnChange(func(st State) { states = append(states, st) })

	s.Expire()
	require.NotEmpty(t, states)
	last := states[len(states)-1]
	assert.False(t, last.Authenticated)
	assert.Nil(t, last.User)
	assert.Empty(t, tokens.token)

	unsubscribe()
	n := len(states)
	s.Expire()
	assert.Len(t, states, n)
}

func TestSession_SatisfiesCredentials(t *testing.T) {
	var _ api.Credentials = New(&fakeAPI{}, &memoryTokens{})
}
