package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/stepupauth/go-mfa-server/credential"
	"github.com/stepupauth/go-mfa-server/credential/repofake"
	"github.com/stepupauth/go-mfa-server/internal/config"
	"github.com/stepupauth/go-mfa-server/mfa"
	"github.com/stepupauth/go-mfa-server/server"
	"github.com/stepupauth/go-mfa-server/token"
	refreshrepofake "github.com/stepupauth/go-mfa-server/token/refresh/repofake"
)

const (
	secretStr       = "test-admin-auth-secret"
	testOperatorKey = "operator-key-1"
	testUserID      = "user-1"
	testDeviceID    = "device-1"
)

// testConfig satisfies config.Config without touching process env vars.
type testConfig struct {
	config.Cors
	config.Token
	env            string
	secret         string
	secureOverride *bool
	domain         string
	operatorHash   string
}

func (c testConfig) GetPort() string                { return ":0" }
func (c testConfig) GetAppName() string             { return "StepUp MFA" }
func (c testConfig) GetRedisAddr() string           { return "" }
func (c testConfig) GetEnv() string                 { return c.env }
func (c testConfig) IsProduction() bool             { return c.env == "PROD" }
func (c testConfig) GetAdminAuthSecret() string     { return c.secret }
func (c testConfig) GetCookieSecureOverride() *bool { return c.secureOverride }
func (c testConfig) GetCookieDomain() string        { return c.domain }
func (c testConfig) GetOperatorKeyHash() string     { return c.operatorHash }

var _ config.Config = testConfig{}

type serverFixture struct {
	server      *server.Server
	configRepo  *repofake.FakeConfigRepo
	credentials *repofake.FakeCredentialRepo
	pending     *repofake.FakePendingRepo
	refreshRepo *refreshrepofake.FakeRefreshTokenRepo
	signer      token.Signer
	consumed    *token.InMemoryConsumedCache
}

func setupServerFixture(t *testing.T, adminOptions ...mfa.AdminOption) *serverFixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testOperatorKey), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := testConfig{
		env:          "TEST",
		secret:       secretStr,
		operatorHash: string(hash),
	}

	configRepo := repofake.NewFakeConfigRepo()
	credentials := repofake.NewFakeCredentialRepo()
	pending := repofake.NewFakePendingRepo()
	refreshRepo := refreshrepofake.NewFakeRefreshTokenRepo()
	signer := token.NewHMACSigner(secretStr)
	consumed := token.NewInMemoryConsumedCache()

	sessions := token.New(refreshRepo, signer, token.WithIssuer(cfg.GetAppName()))

	srv, err := server.New(cfg, credential.Repos{
		Config:      configRepo,
		Credentials: credentials,
		Pending:     pending,
	}, sessions, consumed, adminOptions...)
	require.NoError(t, err)

	return &serverFixture{
		server:      srv,
		configRepo:  configRepo,
		credentials: credentials,
		pending:     pending,
		refreshRepo: refreshRepo,
		signer:      signer,
		consumed:    consumed,
	}
}

type testEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Error *string         `json:"error"`
}

func (f *serverFixture) do(t *testing.T, req *http.Request) (*http.Response, testEnvelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	resp := rec.Result()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(body, &env), "body: %s", body)
	return resp, env
}

func operatorRequest(method, path string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+testOperatorKey)
	return req
}

func responseCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set on response", name)
	return nil
}

func TestNewRequiresAdminAuthSecret(t *testing.T) {
	_, err := server.New(testConfig{env: "TEST"}, credential.Repos{
		Config:      repofake.NewFakeConfigRepo(),
		Credentials: repofake.NewFakeCredentialRepo(),
		Pending:     repofake.NewFakePendingRepo(),
	}, nil, token.NewInMemoryConsumedCache())
	require.Error(t, err)
}
