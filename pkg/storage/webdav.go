package storage

import (
	"net/http"

	"golang.org/x/net/webdav"

	"github.com/storyhub-org/storyhub/pkg/logging"
)

// readOnlyMethods are the WebDAV verbs that never change the tree.
var readOnlyMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
	"PROPFIND":         true,
}

// WebDAV serves the storage root read-only under prefix.
func (s *FS) WebDAV(prefix string) http.Handler {
	h := &webdav.Handler{
		Prefix:     prefix,
		FileSystem: webdav.Dir(s.Root),
		LockSystem: webdav.NewMemLS(),
		Logger: func(r *http.Request, err error) {
			if err != nil {
				logging.Log.WithError(err).Debugf("webdav %s %s", r.Method, r.URL.Path)
			}
		},
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !readOnlyMethods[r.Method] {
			w.Header().Set("Allow", "GET, HEAD, OPTIONS, PROPFIND")
			http.Error(w, "Read-only", http.StatusMethodNotAllowed)
			return
		}
		h.ServeHTTP(w, r)
	})
}
