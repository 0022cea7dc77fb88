// Package serve implements the Request Handler: static-asset short
// circuiting, path resolution, cache validation, and dispatch to the
// Renderer/Page Shell, the Directory Lister, or a generic byte passthrough.
package serve

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mdmd/internal/assets"
	"mdmd/internal/backlinks"
	"mdmd/internal/dirlist"
	"mdmd/internal/mdctx"
	"mdmd/internal/pageshell"
	"mdmd/internal/render"
	"mdmd/internal/resolve"
)

// Handler serves every request against one Serve Context.
type Handler struct {
	Ctx *mdctx.Context
}

// NewHandler wraps ctx. The returned http.Handler already has compression
// applied; callers should not double-wrap it.
func NewHandler(ctx *mdctx.Context) http.Handler {
	return Compress(&Handler{Ctx: ctx})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.URL.Path == "/_mdmd/freshness" {
		h.serveFreshness(w, r)
		return
	}
	if r.URL.Path == "/assets/mdmd.css" {
		h.serveAsset(w, r, assets.CSS, "text/css; charset=utf-8", h.Ctx.CSSETag)
		return
	}
	if r.URL.Path == "/assets/mdmd.js" {
		h.serveAsset(w, r, assets.JS, "text/javascript; charset=utf-8", h.Ctx.JSETag)
		return
	}

	outcome := resolve.Resolve(r.URL.EscapedPath(), h.Ctx)
	switch outcome.Kind {
	case resolve.RootDirectory:
		h.serveDirectory(w, h.Ctx.CanonicalRoot, "/")
	case resolve.IsDirectory:
		h.serveDirectory(w, outcome.Path, "/"+outcome.NormalizedDisplay+"/")
	case resolve.NotFoundAt:
		h.serveRich404(w, r)
	case resolve.TooLarge:
		w.Header().Set("X-Content-Type-Options", "nosniff")
		http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
	case resolve.Denied:
		w.Header().Set("X-Content-Type-Options", "nosniff")
		http.Error(w, "not found", http.StatusNotFound)
	case resolve.Resolved:
		h.serveResolved(w, r, outcome)
	}
}

func (h *Handler) serveAsset(w http.ResponseWriter, r *http.Request, body []byte, contentType, etag string) {
	if checkConditional(w, r, etag, h.Ctx.AssetMTime) {
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("ETag", etag)
	w.Header().Set("Last-Modified", h.Ctx.AssetMTime.UTC().Format(http.TimeFormat))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

func (h *Handler) serveResolved(w http.ResponseWriter, r *http.Request, outcome resolve.Outcome) {
	ext := strings.TrimPrefix(filepath.Ext(outcome.Path), ".")
	mtime := time.Unix(outcome.ModTime, 0)

	if strings.EqualFold(ext, "md") {
		h.serveMarkdown(w, r, outcome, mtime)
		return
	}

	body, err := readFileCapped(outcome.Path, outcome.Size)
	if err != nil {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	etag := computeETag(body)
	if checkConditional(w, r, etag, mtime) {
		return
	}
	w.Header().Set("Content-Type", mimeForExt(ext))
	w.Header().Set("ETag", etag)
	w.Header().Set("Last-Modified", mtime.UTC().Format(http.TimeFormat))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

func (h *Handler) serveMarkdown(w http.ResponseWriter, r *http.Request, outcome resolve.Outcome, mtime time.Time) {
	src, err := readFileCapped(outcome.Path, outcome.Size)
	if err != nil {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	if isRawRequest(r) {
		etag := computeETag(src)
		if checkConditional(w, r, etag, mtime) {
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("ETag", etag)
		w.Header().Set("Last-Modified", mtime.UTC().Format(http.TimeFormat))
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			_, _ = w.Write(src)
		}
		return
	}

	urlPath := "/" + outcome.NormalizedDisplay
	htmlFragment, headings := render.Render(src, outcome.Path, h.Ctx.CanonicalRoot)
	mtimeSecs := outcome.ModTime
	page := pageshell.Build(htmlFragment, headings, outcome.Path, pageshell.Context{
		FileMTimeSecs: &mtimeSecs,
		PageURLPath:   &urlPath,
		Backlinks:     h.Ctx.Backlinks[backlinks.Key(outcome.NormalizedDisplay)],
	})

	body := []byte(page)
	etag := computeETag(body)
	if checkConditional(w, r, etag, mtime) {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Last-Modified", mtime.UTC().Format(http.TimeFormat))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}

// rawQueryParam extracts key's value from rawQuery without percent-decoding
// it, unlike url.Values (which url.ParseQuery/r.URL.Query() decode eagerly).
// resolve.Resolve does its own percent-decoding as step 1 of its pipeline,
// so callers that feed it a query parameter must hand over the still-escaped
// value, exactly as they do for r.URL.EscapedPath(), or a value containing a
// literal '%' gets decoded twice and is wrongly denied.
func rawQueryParam(rawQuery, key string) (value string, ok bool) {
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		k, v, found := strings.Cut(pair, "=")
		if k != key {
			continue
		}
		if !found {
			return "", true
		}
		return v, true
	}
	return "", false
}

// isRawRequest reports whether the query string contains the exact
// parameter "raw=1" among its '&'-separated components.
func isRawRequest(r *http.Request) bool {
	for _, part := range strings.Split(r.URL.RawQuery, "&") {
		if part == "raw=1" {
			return true
		}
	}
	return false
}

func (h *Handler) serveDirectory(w http.ResponseWriter, dir, urlPrefix string) {
	entries, err := dirlist.ListEntries(dir, h.Ctx)
	if err != nil {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	body := []byte(dirlist.BuildListing(urlPrefix, entries))
	etag := computeETag(body)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) serveRich404(w http.ResponseWriter, r *http.Request) {
	body := []byte(dirlist.BuildRich404(r.URL.Path, h.Ctx))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(body)
}

func (h *Handler) serveFreshness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	rawPath, ok := rawQueryParam(r.URL.RawQuery, "path")
	if !ok || rawPath == "" {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
		return
	}
	if !strings.HasPrefix(rawPath, "/") {
		rawPath = "/" + rawPath
	}
	outcome := resolve.Resolve(rawPath, h.Ctx)
	if outcome.Kind != resolve.Resolved {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"mtime":` + strconv.FormatInt(outcome.ModTime, 10) + `}`))
}
