package webui

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alex65536/league/internal/util/httputil"
)

type handlerKind int

const (
	kindPage handlerKind = iota
	kindStatic
	kindWebSocket
)

func (k handlerKind) String() string {
	switch k {
	case kindPage:
		return "page"
	case kindStatic:
		return "static"
	case kindWebSocket:
		return "websocket"
	default:
		panic("bad handler kind")
	}
}

type middlewareBuilder struct {
	Log         *slog.Logger
	Prefix      string
	CSRFProtect func(http.Handler) http.Handler
	Compress    func(http.Handler) http.Handler
}

type middleware struct {
	b    *middlewareBuilder
	h    http.Handler
	kind handlerKind
}

func (m *middleware) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	start := time.Now()
	req = httputil.WrapRequest(w, req)
	log := m.b.Log.With(
		slog.String("rid", httputil.ExtractReqID(req.Context())),
		slog.String("kind", m.kind.String()),
	)
	log.Debug("request started",
		slog.String("uri", req.RequestURI),
		slog.String("method", req.Method),
		slog.String("addr", req.RemoteAddr),
	)

	h := w.Header()
	switch m.kind {
	case kindPage:
		h.Set("Cache-Control", "no-cache, private")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
	case kindStatic:
		h.Set("Cache-Control", "public, max-age=86400")
	}
	m.h.ServeHTTP(w, req)

	log.Debug("request done", slog.Duration("elapsed", time.Since(start)))
}

func (b *middlewareBuilder) wrap(h http.Handler, kind handlerKind) http.Handler {
	if kind == kindPage {
		h = b.CSRFProtect(h)
	}
	h = &middleware{b: b, h: h, kind: kind}
	// Compressing responses breaks connection hijacking.
	if kind != kindWebSocket {
		h = b.Compress(h)
	}
	return h
}

func (b *middlewareBuilder) WrapPage(h http.Handler) http.Handler {
	return b.wrap(h, kindPage)
}

func (b *middlewareBuilder) WrapStatic(h http.Handler) http.Handler {
	return b.wrap(h, kindStatic)
}

func (b *middlewareBuilder) WrapWebSocket(h http.Handler) http.Handler {
	return b.wrap(h, kindWebSocket)
}
