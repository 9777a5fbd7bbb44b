package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usbankcorp/bankd/internal/account"
	"github.com/usbankcorp/bankd/internal/auth"
	bankdhttp "github.com/usbankcorp/bankd/internal/http"
	accountHandler "github.com/usbankcorp/bankd/internal/http/account"
	adminHandler "github.com/usbankcorp/bankd/internal/http/admin"
	authHandler "github.com/usbankcorp/bankd/internal/http/auth"
	transferHandler "github.com/usbankcorp/bankd/internal/http/transfer"
	"github.com/usbankcorp/bankd/internal/transaction"
	"github.com/usbankcorp/bankd/internal/transaction/inmem"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	accounts := account.NewFixed()
	directory := account.NewDirectory(accounts)
	authSvc := auth.NewService(accounts, "test-secret", time.Hour)
	txSvc := transaction.NewService(inmem.New())

	return bankdhttp.New(
		authSvc,
		authHandler.NewHandler(authSvc),
		accountHandler.NewHandler(directory),
		transferHandler.NewHandler(txSvc, directory),
		adminHandler.NewHandler(txSvc, accounts),
	)
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))

	return out
}

type loginResult struct {
	Token string `json:"token"`
}

func loginCustomer(t *testing.T, router http.Handler) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "danielhenney707@gmail.com",
		"password": "Coolguy1977$",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	return decodeBody[loginResult](t, rec).Token
}

func loginAdmin(t *testing.T, router http.Handler) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/admin/login", "", map[string]string{
		"email":    "admin@usbankcorp.com",
		"password": "Neo4Cent47$",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	return decodeBody[loginResult](t, rec).Token
}

type transferResult struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	Stage             string `json:"stage"`
	RecipientName     string `json:"recipient_name"`
	RecipientBank     string `json:"recipient_bank"`
	AttemptsRemaining int    `json:"attempts_remaining"`
}

type adminTransferResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Stage  string `json:"stage"`
	Codes  struct {
		OTP      string `json:"otp"`
		COT      string `json:"cot"`
		TokenKey string `json:"token_key"`
		TwoFA    string `json:"two_fa"`
	} `json:"verification_codes"`
	ApprovedBy string `json:"approved_by"`
}

// adminView fetches the record with its issued codes through the admin API.
func adminView(t *testing.T, router http.Handler, adminToken, id string) adminTransferResult {
	t.Helper()

	rec := doJSON(t, router, http.MethodGet, "/api/v1/admin/transactions", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, tx := range decodeBody[[]adminTransferResult](t, rec) {
		if tx.ID == id {
			return tx
		}
	}

	t.Fatalf("transaction %s not in admin listing", id)

	return adminTransferResult{}
}

func verify(t *testing.T, router http.Handler, token, id, stage, code string) *httptest.ResponseRecorder {
	t.Helper()

	return doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/transfers/%s/verify", id), token, map[string]string{
		"stage": stage,
		"code":  code,
	})
}

func TestAPI_TransferLifecycle(t *testing.T) {
	router := newTestRouter(t)
	customer := loginCustomer(t, router)
	admin := loginAdmin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/transfers", customer, map[string]any{
		"amount":            50000,
		"description":       "Rent",
		"recipient_account": "1111222233",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// The customer-facing payload never carries the codes. The administrator
	// reads them from the admin listing and relays them out-of-band.
	body := rec.Body.String()
	assert.NotContains(t, body, "verification_codes")

	var created transferResult
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "otp", created.Stage)
	assert.Equal(t, "Michael Johnson", created.RecipientName)
	assert.Equal(t, "JPMorgan Chase Bank", created.RecipientBank)

	// Wrong OTP burns an attempt.
	rec = verify(t, router, customer, created.ID, "otp", "000000")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Walk all four stages with the issued codes.
	for _, step := range []struct {
		stage      string
		wantStatus string
		wantStage  string
	}{
		{stage: "otp", wantStatus: "processing", wantStage: "cot"},
		{stage: "cot", wantStatus: "processed", wantStage: "token"},
		{stage: "token", wantStatus: "waiting_admin_approval", wantStage: "2fa"},
		{stage: "2fa", wantStatus: "waiting_admin_approval", wantStage: "admin"},
	} {
		view := adminView(t, router, admin, created.ID)
		code := map[string]string{
			"otp":   view.Codes.OTP,
			"cot":   view.Codes.COT,
			"token": view.Codes.TokenKey,
			"2fa":   view.Codes.TwoFA,
		}[step.stage]
		require.NotEmpty(t, code)

		rec = verify(t, router, customer, created.ID, step.stage, code)
		require.Equal(t, http.StatusOK, rec.Code)

		got := decodeBody[transferResult](t, rec)
		assert.Equal(t, step.wantStatus, got.Status)
		assert.Equal(t, step.wantStage, got.Stage)
	}

	// Approve as the administrator.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/admin/transactions/"+created.ID+"/approve", admin, map[string]string{
		"notes": "ok",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	approved := decodeBody[adminTransferResult](t, rec)
	assert.Equal(t, "completed", approved.Status)
	assert.Equal(t, "completed", approved.Stage)
	assert.Equal(t, "admin1", approved.ApprovedBy)

	// Terminal records refuse further submissions.
	rec = verify(t, router, customer, created.ID, "otp", "123456")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_VerifyErrors(t *testing.T) {
	router := newTestRouter(t)
	customer := loginCustomer(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/transfers", customer, map[string]any{
		"amount":            1000,
		"recipient_account": "1111222233",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[transferResult](t, rec)

	t.Run("UnknownTransaction", func(t *testing.T) {
		rec := verify(t, router, customer, "999999999999", "otp", "123456")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("WrongStage", func(t *testing.T) {
		rec := verify(t, router, customer, created.ID, "cot", "COT123456")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("MissingCode", func(t *testing.T) {
		rec := verify(t, router, customer, created.ID, "otp", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("OtherCustomersTransfer", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "jane@bank.com",
			"password": "jane123",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		jane := decodeBody[loginResult](t, rec).Token

		rec = verify(t, router, jane, created.ID, "otp", "123456")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAPI_BulkApprove(t *testing.T) {
	router := newTestRouter(t)
	customer := loginCustomer(t, router)
	admin := loginAdmin(t, router)

	var ready []string

	for range 2 {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/transfers", customer, map[string]any{
			"amount":            1000,
			"recipient_account": "4444555566",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		created := decodeBody[transferResult](t, rec)

		for _, stage := range []string{"otp", "cot", "token", "2fa"} {
			view := adminView(t, router, admin, created.ID)
			code := map[string]string{
				"otp":   view.Codes.OTP,
				"cot":   view.Codes.COT,
				"token": view.Codes.TokenKey,
				"2fa":   view.Codes.TwoFA,
			}[stage]

			rec := verify(t, router, customer, created.ID, stage, code)
			require.Equal(t, http.StatusOK, rec.Code)
		}

		ready = append(ready, created.ID)
	}

	// One fresh transfer that is not eligible yet.
	rec := doJSON(t, router, http.MethodPost, "/api/v1/transfers", customer, map[string]any{
		"amount":            500,
		"recipient_account": "4444555566",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	fresh := decodeBody[transferResult](t, rec)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/admin/transactions/bulk-approve", admin, map[string]any{
		"ids":   append(ready, fresh.ID, "000000000000"),
		"notes": "batch",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	result := decodeBody[struct {
		Approved int `json:"approved"`
	}](t, rec)
	assert.Equal(t, 2, result.Approved)
}

func TestAPI_AccessControl(t *testing.T) {
	router := newTestRouter(t)
	customer := loginCustomer(t, router)
	admin := loginAdmin(t, router)

	t.Run("NoToken", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/transfers", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("CustomerCannotReachAdmin", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/admin/transactions", customer, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("AdminCannotCreateTransfers", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/transfers", admin, map[string]any{
			"amount":            1000,
			"recipient_account": "1111222233",
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("BadLogin", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "jane@bank.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAPI_AccountLookup(t *testing.T) {
	router := newTestRouter(t)
	customer := loginCustomer(t, router)

	t.Run("Resolves", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/accounts/lookup?account_number=7777888899", customer, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		got := decodeBody[struct {
			AccountName string `json:"account_name"`
			BankName    string `json:"bank_name"`
		}](t, rec)
		assert.Equal(t, "David Brown", got.AccountName)
		assert.Equal(t, "Wells Fargo Bank", got.BankName)
	})

	t.Run("MissingParam", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/accounts/lookup", customer, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unresolvable", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/v1/accounts/lookup?account_number=123", customer, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
