package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/opensensemap/osem-map/internal/filter"
	"github.com/opensensemap/osem-map/internal/model"
	"github.com/opensensemap/osem-map/internal/viewport"
	"github.com/samber/lo"
)

// errBadRequest marks query parsing failures that are reported as 400.
var errBadRequest = errors.New("bad request")

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// parseCriteria reads the filter query parameters.
func parseCriteria(r *http.Request) (filter.Criteria, error) {
	q := r.URL.Query()
	c := filter.Criteria{
		Country:   strings.TrimSpace(q.Get("country")),
		Phenomena: splitList(q.Get("phenomena")),
		Tags:      splitList(q.Get("tags")),
	}

	if s := strings.TrimSpace(q.Get("priority")); s != "" {
		p, ok := model.ParsePriority(s)
		if !ok {
			return filter.Criteria{}, badRequest("invalid priority: %s (valid: %s)", s, joinValues(model.Priorities))
		}
		c.Priority = string(p)
	}
	if s := strings.TrimSpace(q.Get("status")); s != "" {
		st, ok := model.ParseStatus(s)
		if !ok {
			return filter.Criteria{}, badRequest("invalid status: %s (valid: %s)", s, joinValues(model.Statuses))
		}
		c.Status = string(st)
	}
	if s := strings.TrimSpace(q.Get("exposure")); s != "" {
		e, ok := model.ParseExposure(s)
		if !ok {
			return filter.Criteria{}, badRequest("invalid exposure: %s (valid: %s)", s, joinValues(model.Exposures))
		}
		c.Exposure = string(e)
	}

	var err error
	if c.TimeRange.From, err = parseTimeParam(r, "from"); err != nil {
		return filter.Criteria{}, err
	}
	if c.TimeRange.To, err = parseTimeParam(r, "to"); err != nil {
		return filter.Criteria{}, err
	}
	if c.TimeRange.From != nil && c.TimeRange.To != nil && c.TimeRange.From.After(*c.TimeRange.To) {
		return filter.Criteria{}, badRequest("from must not be after to")
	}

	switch tm := filter.TimeMatch(strings.TrimSpace(q.Get("time_match"))); tm {
	case "", filter.TimeMatchEndpoint:
		c.TimeMatch = filter.TimeMatchEndpoint
	case filter.TimeMatchOverlap:
		c.TimeMatch = tm
	default:
		return filter.Criteria{}, badRequest("invalid time_match: %s (valid: endpoint, overlap)", tm)
	}

	return c, nil
}

// parseBBox reads the optional bbox parameter.
func parseBBox(r *http.Request) (*viewport.Bounds, error) {
	s := strings.TrimSpace(r.URL.Query().Get("bbox"))
	if s == "" {
		return nil, nil
	}
	b, err := viewport.ParseBBox(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return &b, nil
}

func parseTimeParam(r *http.Request, name string) (*time.Time, error) {
	s := strings.TrimSpace(r.URL.Query().Get(name))
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, badRequest("invalid %s: expected RFC3339 timestamp", name)
	}
	return &t, nil
}

// splitList splits a comma separated parameter, dropping blanks.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := lo.Map(strings.Split(s, ","), func(p string, _ int) string { return strings.TrimSpace(p) })
	return lo.Compact(parts)
}

func joinValues[T ~string](values []T) string {
	return strings.Join(lo.Map(values, func(v T, _ int) string { return string(v) }), ", ")
}

// writeParseError writes a 400 for errBadRequest and a 500 otherwise.
func (h *Handler) writeParseError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBadRequest) {
		h.writeError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), errBadRequest.Error()+": "))
		return
	}
	h.writeError(w, http.StatusInternalServerError, "internal server error")
}
