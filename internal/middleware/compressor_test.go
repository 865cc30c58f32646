package middleware

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/drstein77/storefront/internal/compress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveTypeMiddleware(t *testing.T) {
	cases := map[string]string{
		"/export":                 compress.Zip,
		"/export?archiveType=tar": compress.Tar,
		"/export?archiveType=zip": compress.Zip,
		"/export?archiveType=7z":  compress.Zip,
	}
	for target, want := range cases {
		var got string
		h := ArchiveTypeMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = ArchiveType(r.Context())
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, want, got, target)
	}
}

func TestUnpackMiddleware(t *testing.T) {
	var archive bytes.Buffer
	w := compress.NewTarWriter(&archive, "cart.csv")
	_, _ = w.Write([]byte("1,Mug,9.99,Home,img,1\n"))
	require.NoError(t, w.Close())

	var body string
	h := ArchiveTypeMiddleware(UnpackMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import?archiveType=tar", &archive))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1,Mug,9.99,Home,img,1\n", body)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import", bytes.NewReader([]byte("garbage"))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnpackMiddlewareLimitsUpload(t *testing.T) {
	called := false
	h := ArchiveTypeMiddleware(UnpackMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})))

	oversized := bytes.Repeat([]byte{'x'}, MaxUploadSize+1)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import?archiveType=zip", bytes.NewReader(oversized)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "too large")
	assert.False(t, called)
}
