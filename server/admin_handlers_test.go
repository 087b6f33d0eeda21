package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stepupauth/go-mfa-server/credential"
	internalerrors "github.com/stepupauth/go-mfa-server/internal/errors"
	"github.com/stepupauth/go-mfa-server/mfa"
)

func seedEnabledCredential(t *testing.T, f *serverFixture, userID string) {
	t.Helper()
	require.NoError(t, f.credentials.Upsert(context.Background(), &credential.Credential{
		UserID:    userID,
		Secret:    "JBSWY3DPEHPK3PXP",
		Enabled:   true,
		CreatedAt: time.Now().UTC(),
	}))
}

func TestOperatorRoutesRequireKey(t *testing.T) {
	f := setupServerFixture(t)

	// No credentials at all
	resp, env := f.do(t, httptest.NewRequest(http.MethodGet, "/admin/user/u1", nil))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.NotNil(t, env.Error)

	// Wrong key
	req := httptest.NewRequest(http.MethodGet, "/admin/user/u1", nil)
	req.Header.Set("Authorization", "Bearer not-the-key")
	resp, _ = f.do(t, req)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestIsEnabledLifecycle(t *testing.T) {
	f := setupServerFixture(t)

	resp, env := f.do(t, operatorRequest(http.MethodGet, "/admin/user/u1", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `false`, string(env.Data))

	seedEnabledCredential(t, f, "u1")

	resp, env = f.do(t, operatorRequest(http.MethodGet, "/admin/user/u1", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `true`, string(env.Data))
}

func TestResetClearsUserState(t *testing.T) {
	f := setupServerFixture(t)
	seedEnabledCredential(t, f, "u1")

	resp, env := f.do(t, operatorRequest(http.MethodDelete, "/admin/user/u1", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `true`, string(env.Data))

	_, err := f.credentials.GetByUserID(context.Background(), "u1")
	require.ErrorIs(t, err, internalerrors.ErrNotFound)

	resp, env = f.do(t, operatorRequest(http.MethodGet, "/admin/user/u1", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `false`, string(env.Data))
}

func TestAdminRoutesRejectMissingUserID(t *testing.T) {
	f := setupServerFixture(t)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		resp, env := f.do(t, operatorRequest(method, "/admin/user/", nil))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "method %s", method)
		require.NotNil(t, env.Error)
		require.Equal(t, "User ID is required", *env.Error)
	}
}

func TestIsEnabledReportsStoreFailure(t *testing.T) {
	f := setupServerFixture(t, mfa.WithFailClosed())
	f.credentials.FailNext = true

	resp, env := f.do(t, operatorRequest(http.MethodGet, "/admin/user/u1", nil))
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.NotNil(t, env.Error)
	require.Equal(t, "Failed to check if 2FA is enabled for user", *env.Error)
}

func TestResetReportsStoreFailure(t *testing.T) {
	f := setupServerFixture(t)
	seedEnabledCredential(t, f, "u1")
	f.pending.FailNext = true

	resp, env := f.do(t, operatorRequest(http.MethodDelete, "/admin/user/u1", nil))
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	require.NotNil(t, env.Error)
	require.Equal(t, "Failed to reset 2FA for user", *env.Error)
}
