package middleware

import (
	"context"
	"net/http"

	"github.com/drstein77/storefront/internal/compress"
)

// MaxUploadSize bounds the archive accepted by UnpackMiddleware.
const MaxUploadSize = 1 << 20

type archiveTypeKey struct{}

// ArchiveTypeMiddleware resolves the archiveType query parameter (zip by
// default) and stores it in the request context.
func ArchiveTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		archiveType := r.URL.Query().Get("archiveType")
		if archiveType != compress.Tar && archiveType != compress.Zip {
			archiveType = compress.Zip
		}

		ctx := context.WithValue(r.Context(), archiveTypeKey{}, archiveType)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ArchiveType returns the archive type chosen by ArchiveTypeMiddleware.
func ArchiveType(ctx context.Context) string {
	if v, ok := ctx.Value(archiveTypeKey{}).(string); ok {
		return v
	}
	return compress.Zip
}

// UnpackMiddleware replaces the request body with the CSV file found inside
// the uploaded archive. Uploads over MaxUploadSize are cut off. It must run
// after ArchiveTypeMiddleware.
func UnpackMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := http.MaxBytesReader(w, r.Body, MaxUploadSize)
		cr, err := compress.NewReader(ArchiveType(r.Context()), body)
		if err != nil {
			http.Error(w, "Failed to unpack archive: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer cr.Close()

		r.Body = cr
		next.ServeHTTP(w, r)
	})
}
