package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/period"
)

type fakeCredentials struct {
	token   string
	expired int
	mu      sync.Mutex
}

func (f *fakeCredentials) AccessToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeCredentials) Expire() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.expired++
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *fakeCredentials) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	creds := &fakeCredentials{token: "secret"}
	client, err := New(server.URL+"/api", append([]Option{WithCredentials(creds)}, opts...)...)
	require.NoError(t, err)
	return client, creds
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	client, creds := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, []model.Transaction{})
	})

	txs, err := client.Transactions().List(context.Background(), PeriodQuery(7, period.Period{Year: 2025, Month: 3}))
	require.NoError(t, err)
	assert.Empty(t, txs)
	assert.NotNil(t, txs)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "/api/transactions", gotPath)
	assert.Equal(t, "month=3&user_id=7&year=2025", gotQuery)

	creds.token = ""
	_, err = client.Goals().List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_UnauthorizedExpiresSession(t *testing.T) {
	handled := 0
	client, creds := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Token has expired"})
	}, WithUnauthorizedHandler(func() { handled++ }))

	_, err := client.Categories().List(context.Background(), UserQuery(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, KindAuth, Kind(err))
	assert.Equal(t, "Token has expired", ServerMessage(err))

	assert.Equal(t, 1, creds.expired)
	assert.Empty(t, creds.AccessToken())
	assert.Equal(t, 1, handled)
}

func TestClient_CredentialChecksAreExempt(t *testing.T) {
	handled := 0
	client, creds := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	}, WithUnauthorizedHandler(func() { handled++ }))

	_, err := client.Login(context.Background(), "ana", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = client.ChangePassword(context.Background(), "wrong", "N3w!passw0rd")
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.Zero(t, creds.expired)
	assert.Zero(t, handled)
	assert.Equal(t, "secret", creds.AccessToken())
}

func TestClient_WithoutExpiryReportsOnly(t *testing.T) {
	handled := 0
	client, creds := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Token has expired"})
	}, WithUnauthorizedHandler(func() { handled++ }))

	_, err := client.CurrentUser(WithoutExpiry(context.Background()))
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, creds.expired)
	assert.Zero(t, handled)
	assert.Equal(t, "secret", creds.AccessToken())

	_, err = client.CurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, handled)
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		sentinel error
		name     string
		status   int
		kind     ErrorKind
	}{
		{name: "bad request", status: http.StatusBadRequest, sentinel: ErrValidation, kind: KindValidation},
		{name: "unprocessable", status: http.StatusUnprocessableEntity, sentinel: ErrValidation, kind: KindValidation},
		{name: "not found", status: http.StatusNotFound, sentinel: ErrNotFound, kind: KindNotFound},
		{name: "conflict", status: http.StatusConflict, sentinel: ErrConflict, kind: KindNotFound},
		{name: "server", status: http.StatusInternalServerError, sentinel: ErrServer, kind: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, creds := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, tt.status, map[string]string{"message": "Amount must be a positive number"})
			})

			_, err := client.Transactions().Create(context.Background(), TransactionPayload{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.kind, Kind(err))

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, http.MethodPost, apiErr.Method)
			assert.Zero(t, creds.expired)
		})
	}
}

func TestUserMessage(t *testing.T) {
	validation := &Error{StatusCode: http.StatusBadRequest, Message: "Invalid date format. Use YYYY-MM-DD"}
	notFound := &Error{StatusCode: http.StatusNotFound, Message: "Category not found"}

	assert.Equal(t, "Invalid date format. Use YYYY-MM-DD", UserMessage(validation, "Could not save"))
	assert.Equal(t, "Could not save", UserMessage(notFound, "Could not save"))
	assert.Equal(t, "Could not save", UserMessage(errors.New("boom"), "Could not save"))
}

func TestClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := New(url)
	require.NoError(t, err)

	_, err = client.Goals().List(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, KindNetwork, Kind(err))
}

func TestClient_CRUD(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotBody = nil
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
		}
		switch r.Method {
		case http.MethodDelete:
			writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction deleted"})
		default:
			writeJSON(w, http.StatusOK, map[string]any{
				"id": 9, "description": "Lunch", "amount": 42.5, "transaction_type": "expense",
				"category_id": 2, "payment_method_id": 1, "date": "2025-03-02",
			})
		}
	})
	ctx := context.Background()
	txs := client.Transactions()

	created, err := txs.Create(ctx, TransactionPayload{
		Description:     "Lunch",
		Amount:          json.Number("42.50"),
		TransactionType: "income",
		Date:            "2025-03-02",
		CategoryID:      2,
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/transactions", gotPath)
	assert.Equal(t, 42.5, gotBody["amount"])
	assert.NotContains(t, gotBody, "payment_method_id")
	assert.Equal(t, 9, created.ID)
	assert.True(t, decimal.RequireFromString("42.5").Equal(created.Amount))

	_, err = txs.Update(ctx, 9, TransactionPayload{Description: "Lunch", Amount: "1"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/transactions/9", gotPath)

	got, err := txs.Get(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "Lunch", got.Description)

	require.NoError(t, txs.Delete(ctx, 9))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/transactions/9", gotPath)
}

func TestNew_ValidatesBaseURL(t *testing.T) {
	_, err := New("ftp://example.com")
	assert.Error(t, err)

	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c, err = New("http://localhost:5001/api/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5001/api", c.BaseURL())
}

func TestCategoryQuery(t *testing.T) {
	assert.Equal(t, "category_type=expense&user_id=3", CategoryQuery(3, model.TransactionExpense).Encode())
	assert.Equal(t, "user_id=3", CategoryQuery(3, "").Encode())
	assert.Empty(t, UserQuery(0).Encode())
}
