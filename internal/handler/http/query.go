package http

import (
	"net/http"
	"strconv"

	"github.com/hrmlabs/hrm-backend-go/internal/pkg/validator"
)

// queryParams collects malformed query values so a handler can reject them in one response.
type queryParams struct {
	r    *http.Request
	errs validator.ValidationErrors
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{r: r}
}

func (q *queryParams) String(key string) *string {
	v := q.r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func (q *queryParams) Int(key string) *int {
	v := q.r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		q.errs.Add(key, key+" must be an integer")
		return nil
	}
	return &n
}

// IntOr returns the value of key, or fallback when it is absent or malformed.
func (q *queryParams) IntOr(key string, fallback int) int {
	if n := q.Int(key); n != nil {
		return *n
	}
	return fallback
}

func (q *queryParams) Err() error {
	return q.errs.OrNil()
}
