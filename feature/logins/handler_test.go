package logins_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pass-fxa/core/database"
	"pass-fxa/core/loader"
	"pass-fxa/core/loginsync"
	"pass-fxa/core/loginsync/sqlstore"
	"pass-fxa/core/reconcile"
	"pass-fxa/feature/logins"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	store := sqlstore.New(db, zap.NewNop())
	require.NoError(t, store.Migrate())
	require.NoError(t, store.CreateAccount(context.Background(), "me", "secret"))

	app := fiber.New()
	mgr := loader.NewManager()
	mgr.Register(logins.NewFeature(store, zap.NewNop(), time.Hour))
	_, err = mgr.LoadAll(app.Group("/api/v1"))
	require.NoError(t, err)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	var session loginsync.SessionResponse
	status := doJSON(t, app, http.MethodPost, "/api/v1/sessions", "", loginsync.SessionRequest{Username: "me", Password: "secret"}, &session)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, session.Token)
	return session.Token
}

func TestSessions(t *testing.T) {
	app := setupApp(t)

	var errResp loginsync.ErrorResponse
	status := doJSON(t, app, http.MethodPost, "/api/v1/sessions", "", loginsync.SessionRequest{Username: "me", Password: "nope"}, &errResp)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, loginsync.ErrAuthFailed.Error(), errResp.Error)

	status = doJSON(t, app, http.MethodPost, "/api/v1/sessions", "", map[string]string{}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	login(t, app)
}

func TestLoginRoutesRequireSession(t *testing.T) {
	app := setupApp(t)

	assert.Equal(t, http.StatusUnauthorized, doJSON(t, app, http.MethodGet, "/api/v1/logins", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, app, http.MethodGet, "/api/v1/logins", "bogus", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, doJSON(t, app, http.MethodPost, "/api/v1/logins/delete", "bogus", loginsync.DeleteRequest{IDs: []string{"1"}}, nil))
}

func TestLoginBatches(t *testing.T) {
	app := setupApp(t)
	token := login(t, app)

	var put loginsync.PutResponse
	status := doJSON(t, app, http.MethodPut, "/api/v1/logins", token, loginsync.PutRequest{Jobs: []reconcile.Job{
		{Type: reconcile.JobCreate, Username: "a", Password: "p1", Hostname: "https://a.com"},
		{Type: reconcile.JobCreate, Username: "b", Password: "p2", Hostname: "https://b.com"},
	}}, &put)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, put.Applied)

	var remote []reconcile.RemoteLogin
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/v1/logins", token, nil, &remote))
	require.Len(t, remote, 2)
	assert.Equal(t, "a", remote[0].Username)

	status = doJSON(t, app, http.MethodPut, "/api/v1/logins", token, loginsync.PutRequest{Jobs: []reconcile.Job{
		{Type: reconcile.JobUpdate, ID: remote[1].ID, Password: "changed"},
	}}, &put)
	require.Equal(t, http.StatusOK, status)

	var del loginsync.DeleteResponse
	status = doJSON(t, app, http.MethodPost, "/api/v1/logins/delete", token, loginsync.DeleteRequest{IDs: []string{remote[0].ID}}, &del)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, del.Deleted)

	remote = nil
	require.Equal(t, http.StatusOK, doJSON(t, app, http.MethodGet, "/api/v1/logins", token, nil, &remote))
	require.Len(t, remote, 1)
	assert.Equal(t, "changed", remote[0].Password)
}

func TestPutLogins_Errors(t *testing.T) {
	app := setupApp(t)
	token := login(t, app)

	status := doJSON(t, app, http.MethodPut, "/api/v1/logins", token, loginsync.PutRequest{Jobs: []reconcile.Job{
		{Type: reconcile.JobCreate, Username: "a"},
	}}, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status = doJSON(t, app, http.MethodPut, "/api/v1/logins", token, loginsync.PutRequest{Jobs: []reconcile.Job{
		{Type: reconcile.JobUpdate, ID: "missing", Password: "x"},
	}}, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
