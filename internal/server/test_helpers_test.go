package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quillco/pocketnote/internal/auth"
	"github.com/quillco/pocketnote/internal/credentials"
	"github.com/quillco/pocketnote/internal/notes"
)

const (
	testSigningSecret = "test-secret"
	testCookieName    = "pocketnote_session"
	testEmail         = "a@x.com"
	testPassword      = "p1"
)

type testEnv struct {
	handler         http.Handler
	sessions        *auth.SessionManager
	noteStore       *notes.FileStore
	credentialStore *credentials.FileStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	noteStore := notes.NewFileStore(filepath.Join(dir, "notes.json"))
	credentialStore := credentials.NewFileStore(filepath.Join(dir, "user.json"))

	credentialService, err := credentials.NewService(credentials.ServiceConfig{
		Store:  credentialStore,
		Logger: zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("failed to build credential service: %v", err)
	}

	noteService, err := notes.NewService(notes.ServiceConfig{
		Store:      noteStore,
		IDProvider: notes.NewUUIDProvider(),
		Logger:     zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("failed to build note service: %v", err)
	}

	sessions, err := auth.NewSessionManager(auth.SessionManagerConfig{
		SigningSecret: []byte(testSigningSecret),
		CookieName:    testCookieName,
	})
	if err != nil {
		t.Fatalf("failed to build session manager: %v", err)
	}

	handler, err := NewHTTPHandler(Dependencies{
		Sessions:    sessions,
		Credentials: credentialService,
		Notes:       noteService,
		Logger:      zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}

	return &testEnv{
		handler:         handler,
		sessions:        sessions,
		noteStore:       noteStore,
		credentialStore: credentialStore,
	}
}

func (env *testEnv) sessionCookie(t *testing.T) *http.Cookie {
	t.Helper()
	token, _, err := env.sessions.Issue(testEmail)
	if err != nil {
		t.Fatalf("failed to mint session token: %v", err)
	}
	return &http.Cookie{Name: testCookieName, Value: token}
}

func (env *testEnv) postForm(t *testing.T, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	env.handler.ServeHTTP(recorder, request)
	return recorder
}

func (env *testEnv) get(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	env.handler.ServeHTTP(recorder, request)
	return recorder
}

func readBody(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	raw, err := io.ReadAll(recorder.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return string(raw)
}

func findCookie(recorder *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
