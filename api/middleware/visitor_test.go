package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visitorHandler() (http.Handler, *string) {
	var seenSourceID string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenSourceID = SourceIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	return Visitor(nil)(inner), &seenSourceID
}

func TestVisitor_IssuesCookieWhenMissing(t *testing.T) {
	handler, seenSourceID := visitorHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/classifieds", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.NotEmpty(t, *seenSourceID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SourceCookieName, cookies[0].Name)
	assert.Equal(t, *seenSourceID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestVisitor_KeepsExistingCookie(t *testing.T) {
	handler, seenSourceID := visitorHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/classifieds", nil)
	req.AddCookie(&http.Cookie{Name: SourceCookieName, Value: "visitor-123"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "visitor-123", *seenSourceID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "visitor-123", cookies[0].Value)
}

func TestVisitor_ReplacesBlankCookie(t *testing.T) {
	handler, seenSourceID := visitorHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/classifieds", nil)
	req.AddCookie(&http.Cookie{Name: SourceCookieName, Value: ""})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, *seenSourceID)
}
