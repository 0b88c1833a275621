package httpapi

import (
	"context"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/reoring/toolform"
	"github.com/reoring/toolform/i18n"
)

// maxBody bounds request bodies.
const maxBody = 4 << 20

// ctxKeyDecoded is a typed context key; the type parameter keeps keys unique per T.
type ctxKeyDecoded[T any] struct{}

func contextWithDecoded[T any](ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, ctxKeyDecoded[T]{}, v)
}

func decodedFromContext[T any](ctx context.Context) (T, bool) {
	v, ok := ctx.Value(ctxKeyDecoded[T]{}).(T)
	return v, ok
}

// decodeJSON decodes the request body into T and stores it in the request
// context, or answers 400 with a parse issue.
func decodeJSON[T any](next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
		if err != nil {
			writeIssues(w, http.StatusBadRequest, toolform.Issues{parseIssue(err)})
			return
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			writeIssues(w, http.StatusBadRequest, toolform.Issues{parseIssue(err)})
			return
		}
		next.ServeHTTP(w, r.WithContext(contextWithDecoded(r.Context(), v)))
	})
}

func parseIssue(err error) toolform.Issue {
	return toolform.Issue{
		Path:    "/",
		Code:    toolform.CodeParseError,
		Message: i18n.T(toolform.CodeParseError, nil),
		Hint:    err.Error(),
	}
}

// ErrorPayload shapes issues for JSON responses.
func ErrorPayload(iss toolform.Issues) map[string]any {
	return map[string]any{"issues": iss}
}

func writeIssues(w http.ResponseWriter, code int, iss toolform.Issues) {
	writeJSON(w, code, ErrorPayload(iss))
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}
