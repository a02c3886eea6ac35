package server

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestLoginFormRenders(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.get(t, "/login")
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
	if !strings.Contains(readBody(t, recorder), "<form") {
		t.Fatalf("expected login form in response")
	}
}

func TestFirstLoginCreatesCredentialRecordAndRedirects(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.postForm(t, "/login", url.Values{
		"email":    {testEmail},
		"password": {testPassword},
	})

	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != "/" {
		t.Fatalf("expected redirect to /, got %s", location)
	}

	record, found, err := env.credentialStore.Load()
	if err != nil {
		t.Fatalf("failed to load credential record: %v", err)
	}
	if !found {
		t.Fatalf("expected credential record to be created")
	}
	if record.Email != testEmail || record.Password != testPassword {
		t.Fatalf("record not persisted verbatim: %+v", record)
	}

	cookie := findCookie(recorder, testCookieName)
	if cookie == nil || cookie.Value == "" {
		t.Fatalf("expected session cookie to be set")
	}
	email, err := env.sessions.ValidateToken(cookie.Value)
	if err != nil {
		t.Fatalf("session cookie does not validate: %v", err)
	}
	if email != testEmail {
		t.Fatalf("expected session for %s, got %s", testEmail, email)
	}
}

func TestLoginWithAbsentFieldFailsWithServerError(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		form url.Values
	}{
		{name: "missing password", form: url.Values{"email": {testEmail}}},
		{name: "missing email", form: url.Values{"password": {testPassword}}},
		{name: "missing both", form: url.Values{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			recorder := env.postForm(t, "/login", tc.form)
			if recorder.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", recorder.Code)
			}
			if cookie := findCookie(recorder, testCookieName); cookie != nil {
				t.Fatalf("session cookie must not be set")
			}
		})
	}

	if _, found, err := env.credentialStore.Load(); err != nil || found {
		t.Fatalf("no credential record may be created, found %v err %v", found, err)
	}
}

func TestLoginWithEmptyFieldsCreatesRecordThatRejectsOthers(t *testing.T) {
	env := newTestEnv(t)

	first := env.postForm(t, "/login", url.Values{
		"email":    {""},
		"password": {""},
	})
	if first.Code != http.StatusFound {
		t.Fatalf("present-but-empty fields must pass, got %d", first.Code)
	}

	second := env.postForm(t, "/login", url.Values{
		"email":    {testEmail},
		"password": {testPassword},
	})
	if second.Code != http.StatusOK {
		t.Fatalf("expected form redisplay for a different pair, got %d", second.Code)
	}

	record, found, err := env.credentialStore.Load()
	if err != nil {
		t.Fatalf("failed to load credential record: %v", err)
	}
	if !found {
		t.Fatalf("expected the empty-pair record to persist")
	}
	if record.Email != "" || record.Password != "" {
		t.Fatalf("record must stay immutable after creation, got %+v", record)
	}
}

func TestLoginMismatchRedisplaysFormWithoutSession(t *testing.T) {
	env := newTestEnv(t)

	first := env.postForm(t, "/login", url.Values{
		"email":    {testEmail},
		"password": {testPassword},
	})
	if first.Code != http.StatusFound {
		t.Fatalf("first login must succeed, got %d", first.Code)
	}

	second := env.postForm(t, "/login", url.Values{
		"email":    {testEmail},
		"password": {"wrong"},
	})
	if second.Code != http.StatusOK {
		t.Fatalf("expected form redisplay with 200, got %d", second.Code)
	}
	if cookie := findCookie(second, testCookieName); cookie != nil {
		t.Fatalf("session cookie must not be set on mismatch")
	}
	if !strings.Contains(readBody(t, second), "<form") {
		t.Fatalf("expected login form in response")
	}
}

func TestLogoutClearsCookieAndRedirects(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.get(t, "/logout", env.sessionCookie(t))
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != "/login" {
		t.Fatalf("expected redirect to /login, got %s", location)
	}

	cookie := findCookie(recorder, testCookieName)
	if cookie == nil {
		t.Fatalf("expected clearing cookie in response")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("expected cleared cookie, got value %q max-age %d", cookie.Value, cookie.MaxAge)
	}
}

func TestIndexWithoutSessionRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.get(t, "/")
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != "/login" {
		t.Fatalf("expected redirect to /login, got %s", location)
	}
}

func TestIndexWithGarbageSessionRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.get(t, "/", &http.Cookie{Name: testCookieName, Value: "not-a-token"})
	if recorder.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}
	if location := recorder.Header().Get("Location"); location != "/login" {
		t.Fatalf("expected redirect to /login, got %s", location)
	}
}
