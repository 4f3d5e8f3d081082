package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ramonehamilton/hooplog/internal/auth"
	"github.com/ramonehamilton/hooplog/internal/gui"
	"github.com/ramonehamilton/hooplog/internal/metrics"
	"github.com/ramonehamilton/hooplog/internal/storage"
)

type testAPI struct {
	server *Server
	http   *httptest.Server
	store  *storage.Service
}

// newTestAPI serves a fresh in-memory journal.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	config := storage.DefaultConfig(storage.MemoryPath)
	config.AutoMigrate = true
	db, err := storage.Open(config)
	require.NoError(t, err)

	svc := storage.NewService(db, nil)
	services := &gui.Services{
		Storage: svc,
		Auth:    auth.NewAuthenticator(svc.Players(), auth.NewLoginLimiter(600, 50), nil),
	}

	cfg := DefaultConfig()
	cfg.Location = time.UTC
	server := NewServer(cfg, Deps{
		Services: services,
		Sessions: auth.NewSessionStore(time.Hour),
		Metrics:  metrics.NewRecorder(),
	})
	server.attach()

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(func() {
		ts.Close()
		server.detach()
		_ = db.Close()
	})
	return &testAPI{server: server, http: ts, store: svc}
}

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Field   string          `json:"field"`
	Code    int             `json:"code"`
}

// do sends body as JSON and decodes the envelope of the reply.
func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, a.http.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && resp.Header.Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v), string(env.Data))
	return v
}

// register signs up a player and returns its token.
func (a *testAPI) register(t *testing.T, email string) string {
	t.Helper()
	status, env := a.do(t, http.MethodPost, "/api/v1/players/register", "", map[string]string{
		"name": "Jugadora", "email": email, "password": "mate-de-tres",
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	return decodeData[struct {
		Token string `json:"token"`
	}](t, env).Token
}
