package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trust-assembly/headline-engine/server/auth"
	"github.com/trust-assembly/headline-engine/server/middlewares"
	"github.com/trust-assembly/headline-engine/store"
	"github.com/trust-assembly/headline-engine/utils"
	"github.com/trust-assembly/headline-engine/utils/dotenv"
)

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	os.Exit(m.Run())
}

// newAuthTestRouter wires the auth routes against a temp database and a fake
// verifier with one decodable and one unverifiable token.
func newAuthTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	gin.SetMode(gin.TestMode)
	db, _ := utils.CreateTempDB(t)
	entityStore := store.NewStore(db)

	middlewares.Setup(&auth.FakeVerifier{
		Decodable: map[string]*auth.TokenPayload{
			"good-token": {Subject: "remote-1", Name: "Jordan", Email: "jordan@example.com"},
		},
		Unverifiable: map[string]bool{"forged-token": true},
	}, entityStore)

	h := &Handlers{Store: entityStore}
	router := gin.New()
	router.POST("/auth/login", h.LoginHandler)
	router.POST("/auth/register", h.RegisterHandler)
	router.GET("/auth/me", middlewares.Identity(), h.MeHandler)
	return router, entityStore
}

func postJSON(router *gin.Engine, target string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestLoginRequiresToken(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	w := postJSON(router, "/auth/login", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Token is required")
}

func TestLoginDistinguishesTokenErrors(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	// A token that cannot even be decoded is the caller's fault.
	w := postJSON(router, "/auth/login", map[string]string{"token": "garbage"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")

	// A decodable token that fails verification is an auth failure.
	w = postJSON(router, "/auth/login", map[string]string{"token": "forged-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Signature invalid")
}

func TestLoginUnknownUser(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	// Verified identity but no account: login does not implicitly register.
	w := postJSON(router, "/auth/login", map[string]string{"token": "good-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}

func TestRegisterThenLogin(t *testing.T) {
	router, _ := newAuthTestRouter(t)

	w := postJSON(router, "/auth/register", map[string]string{"token": "good-token"})
	require.Equal(t, http.StatusOK, w.Code)
	var registered struct {
		User struct {
			Id    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	assert.Equal(t, "jordan@example.com", registered.User.Email)

	// Re-registering the same identity returns the same account.
	w = postJSON(router, "/auth/register", map[string]string{"token": "good-token"})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(router, "/auth/login", map[string]string{"token": "good-token"})
	require.Equal(t, http.StatusOK, w.Code)
	var loggedIn struct {
		User struct {
			Id string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loggedIn))
	assert.Equal(t, registered.User.Id, loggedIn.User.Id)
}

func TestMeRequiresIdentity(t *testing.T) {
	router, entityStore := newAuthTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	_, err := entityStore.RegisterUser("Jordan", "jordan@example.com", "google", "remote-1")
	require.NoError(t, err)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("token", "good-token")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jordan@example.com")
}
