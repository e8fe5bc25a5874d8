package webui

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alex65536/league/internal/league"
	"github.com/alex65536/league/internal/userauth"
	"github.com/alex65536/league/internal/util/httputil"
	"github.com/alex65536/league/internal/util/slogx"
)

const (
	formDateLayout     = "2006-01-02"
	formDateTimeLayout = "2006-01-02T15:04"
)

func writeHTTPErr(log *slog.Logger, w http.ResponseWriter, err error) {
	if err = httputil.WriteErrorResponse(err, w); err != nil {
		log.Info("error writing error response", slogx.Err(err))
	}
}

// formErrors turns the errors the user can fix into messages to show near the form. Other errors
// are returned back.
func formErrors(err error) ([]string, error) {
	switch {
	case err == nil:
		return nil, nil
	case league.IsValidation(err), league.IsState(err), userauth.IsInput(err):
		return []string{err.Error()}, nil
	case errors.Is(err, league.ErrNotFound):
		return nil, httputil.MakeError(http.StatusNotFound, err.Error())
	default:
		return nil, err
	}
}

// loadErr converts the errors from the read operations into http errors.
func loadErr(err error) error {
	if errors.Is(err, league.ErrNotFound) {
		return httputil.MakeError(http.StatusNotFound, err.Error())
	}
	return err
}

func parseForm(req *http.Request) error {
	if err := req.ParseForm(); err != nil {
		return httputil.MakeError(http.StatusBadRequest, "bad form data")
	}
	return nil
}

func optString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func parseFormDate(field, s string, loc *time.Location) (time.Time, []string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{formDateTimeLayout, formDateLayout} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, []string{field + ": bad date"}
}

func parseFormScore(field, s string) (int, []string) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, []string{field + ": must be a number"}
	}
	return v, nil
}

// actionResult finishes the handling of a form action. On success, the user is redirected to
// the given path, otherwise the page is rendered again with the errors.
func actionResult(bc builderCtx, err error, path string, rerender func(errs []string) (any, error)) (any, error) {
	errs, err := formErrors(err)
	if err != nil {
		return nil, err
	}
	if len(errs) != 0 {
		return rerender(errs)
	}
	return nil, bc.Redirect(path)
}
