package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUserContextRoundTrip(t *testing.T) {
	ctx := ContextWithUser(context.Background(), "alex")
	user, ok := UserFromContext(ctx)
	if !ok || user != "alex" {
		t.Errorf("expected alex, got %q (%v)", user, ok)
	}

	if _, ok := UserFromContext(context.Background()); ok {
		t.Error("empty context should carry no user")
	}
	if _, ok := UserFromContext(ContextWithUser(context.Background(), "")); ok {
		t.Error("empty user should not be retrievable")
	}
}

func TestMiddlewareReadsHeader(t *testing.T) {
	var seen string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserHeader, " alex ")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "alex" {
		t.Errorf("expected trimmed user from header, got %q", seen)
	}
}
