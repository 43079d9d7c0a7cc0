package server

import (
	"crypto/sha256"
	"embed"
	"fmt"
	"net/http"
	"strings"
)

const clientScriptPath = "/static/console.js"

//go:embed static/console.js
var static embed.FS

var clientScript, clientScriptETag = func() ([]byte, string) {
	data, err := static.ReadFile("static/console.js")
	if err != nil {
		panic(err)
	}
	sum := sha256.Sum256(data)
	return data, fmt.Sprintf("%q", fmt.Sprintf("%x", sum[:]))
}()

func (s *Server) serveClientScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", clientScriptETag)
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if s.config.DevMode {
		w.Header().Set("Cache-Control", "no-store")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=0, must-revalidate")
	}

	if etagMatches(r.Header.Get("If-None-Match"), clientScriptETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(clientScript)
	}
}

func etagMatches(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" || etag == "" {
		return false
	}
	for _, part := range strings.Split(ifNoneMatch, ",") {
		candidate := strings.TrimSpace(part)
		if candidate == etag || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
