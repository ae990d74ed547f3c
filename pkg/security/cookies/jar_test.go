package cookies

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Daesol/touchgrass-sub000/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestJarReadsAndRefusesWrites(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sess", Value: "tok"})

	jar := NewRequestJar(req, logger.NewNop())

	v, ok := jar.Get("sess")
	require.True(t, ok)
	assert.Equal(t, "tok", v)

	_, ok = jar.Get("missing")
	assert.False(t, ok)

	// Writes must no-op without panicking and without mutating reads.
	jar.Set("sess", "changed")
	jar.Delete("sess")

	v, ok = jar.Get("sess")
	require.True(t, ok)
	assert.Equal(t, "tok", v)
}

func TestResponseJarReadAfterWrite(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sess", Value: "old"})
	rec := httptest.NewRecorder()

	jar := NewResponseJar(req, rec, DefaultOptions())

	// Overlay wins over the request cookie within the same request.
	jar.Set("sess", "new")
	v, ok := jar.Get("sess")
	require.True(t, ok)
	assert.Equal(t, "new", v)

	// Deletes are visible to subsequent reads too.
	jar.Delete("sess")
	_, ok = jar.Get("sess")
	assert.False(t, ok)
}

func TestResponseJarWritesSetCookieHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	opts := DefaultOptions()
	opts.Secure = true
	jar := NewResponseJar(req, rec, opts)

	jar.Set("sess", "tok")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sess", cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, "/", cookies[0].Path)
}

func TestResponseJarDeleteExpiresCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	jar := NewResponseJar(req, rec, DefaultOptions())
	jar.Delete("sess")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sess", cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}
