package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/reelbyte-backend/errs"
)

const maxBodyBytes = 1 << 20

// queryReader parses query parameters and keeps the first failure, so a
// handler can read every parameter and check Err once.
type queryReader struct {
	values url.Values
	err    error
}

func newQueryReader(r *http.Request) *queryReader {
	return &queryReader{values: r.URL.Query()}
}

func (q *queryReader) fail(err error) {
	if q.err == nil {
		q.err = err
	}
}

func (q *queryReader) Err() error {
	return q.err
}

// String returns the first non-empty value among names.
func (q *queryReader) String(names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(q.values.Get(name)); v != "" {
			return v
		}
	}
	return ""
}

func (q *queryReader) Int(name string, def int) int {
	raw := strings.TrimSpace(q.values.Get(name))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(errs.NewInvalidFieldError(name, "must be an integer"))
		return def
	}
	return v
}

func (q *queryReader) Float(name string) *float64 {
	raw := strings.TrimSpace(q.values.Get(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.fail(errs.NewInvalidFieldError(name, "must be a number"))
		return nil
	}
	return &v
}

func (q *queryReader) Bool(name string, def bool) bool {
	raw := strings.TrimSpace(q.values.Get(name))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.fail(errs.NewInvalidFieldError(name, "must be true or false"))
		return def
	}
	return v
}

func (q *queryReader) UUID(name string) *uuid.UUID {
	raw := strings.TrimSpace(q.values.Get(name))
	if raw == "" {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		q.fail(errs.NewInvalidFieldError(name, "must be a UUID"))
		return nil
	}
	return &id
}

// List accepts both repeated parameters (tags=a&tags=b) and comma-separated
// values (tags=a,b). Values are trimmed but otherwise kept as sent.
func (q *queryReader) List(name string) []string {
	var out []string
	for _, raw := range q.values[name] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// urlID parses the named chi URL parameter as a UUID.
func urlID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + param)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestErrorWithField("invalid "+param, param, "must be a UUID")
	}
	return id, nil
}

// decodeJSON reads a JSON request body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, payloadType string, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError("body", maxErr.Limit)
		}
		return errs.NewMalformedPayloadError(payloadType, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errs.NewMalformedPayloadError(payloadType, errors.New("body must contain a single JSON object"))
	}
	return nil
}
