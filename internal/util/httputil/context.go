package httputil

import (
	"context"
	"net/http"

	"github.com/alex65536/league/internal/util/idgen"
)

// ReqIDHeader carries the request ID. An ID set by a reverse proxy is kept.
const ReqIDHeader = "X-Request-Id"

const maxReqIDLen = 64

type reqIDKey struct{}

func WithReqID(parent context.Context, rid string) context.Context {
	return context.WithValue(parent, reqIDKey{}, rid)
}

func validReqID(rid string) bool {
	if rid == "" || len(rid) > maxReqIDLen {
		return false
	}
	for _, c := range []byte(rid) {
		if c <= ' ' || c >= 0x7f {
			return false
		}
	}
	return true
}

// WrapRequest attaches the request ID to the request context and echoes it in the response
// headers.
func WrapRequest(w http.ResponseWriter, req *http.Request) *http.Request {
	rid := req.Header.Get(ReqIDHeader)
	if !validReqID(rid) {
		rid = idgen.ID()
	}
	w.Header().Set(ReqIDHeader, rid)
	return req.WithContext(WithReqID(req.Context(), rid))
}

func ExtractReqID(ctx context.Context) string {
	rid, _ := ctx.Value(reqIDKey{}).(string)
	return rid
}
