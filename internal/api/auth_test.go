package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/fintrack/internal/period"
)

func TestLogin_TokenFromCookie(t *testing.T) {
	var got credentialsBody
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/login", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		http.SetCookie(w, &http.Cookie{Name: AccessTokenCookie, Value: "cookie-jwt", Path: "/"})
		writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful"})
	})

	token, err := client.Login(context.Background(), "ana", "S3cret!pw")
	require.NoError(t, err)
	assert.Equal(t, "cookie-jwt", token)
	assert.Equal(t, "ana", got.Username)
	assert.Equal(t, "S3cret!pw", got.Password)
	assert.Empty(t, got.Email)
}

func TestLogin_TokenFromBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"access_token": "body-jwt"})
	})

	token, err := client.Login(context.Background(), "ana", "pw")
	require.NoError(t, err)
	assert.Equal(t, "body-jwt", token)
}

func TestLogin_NoToken(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful"})
	})

	_, err := client.Login(context.Background(), "ana", "pw")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestRegisterAndCurrentUser(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/register":
			var body credentialsBody
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Username == "taken" {
				writeJSON(w, http.StatusConflict, map[string]string{"message": "Username already exists"})
				return
			}
			writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
		case "/api/current_user":
			writeJSON(w, http.StatusOK, map[string]any{"id": 4, "username": "ana", "email": "ana@example.com"})
		case "/api/logout":
			writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
		}
	})
	ctx := context.Background()

	require.NoError(t, client.Register(ctx, "ana", "ana@example.com", "S3cret!pw"))

	err := client.Register(ctx, "taken", "t@example.com", "S3cret!pw")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "Username already exists", ServerMessage(err))

	user, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, user.ID)
	assert.Equal(t, "ana", user.Username)

	assert.NoError(t, client.Logout(ctx))
}

func TestTransactionSummary(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transactions/summary", r.URL.Path)
		assert.Equal(t, "2025", r.URL.Query().Get("year"))
		writeJSON(w, http.StatusOK, map[string]any{
			"total_income": 500, "total_expense": 150, "balance": 350, "transaction_count": 3,
		})
	})

	summary, err := client.TransactionSummary(context.Background(), PeriodQuery(1, period.Period{Year: 2025, Month: 3}))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(350).Equal(summary.Balance))
	assert.Equal(t, 3, summary.TransactionCount)
}
