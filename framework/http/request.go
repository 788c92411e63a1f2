package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-entob/framework/entity"
)

const maxMemory = 32 << 20 // 32 MB

// ErrEmptyBody is returned by Values for a JSON or YAML request without a
// body.
var ErrEmptyBody = errors.New("empty request body")

// ErrBodyTooLarge is returned by Values for a JSON or YAML body over 32 MB.
var ErrBodyTooLarge = errors.New("request body too large")

// Request wraps *http.Request with input helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// Raw returns the underlying *http.Request.
func (req *Request) Raw() *http.Request { return req.raw }

// ── Entity input ─────────────────────────────────────────────────────────────

// Values decodes the request body into a flat mapping ready to seed an
// entity. JSON, YAML (application/yaml, application/x-yaml, text/yaml) and
// url-encoded or multipart forms are supported. JSON numbers arrive as
// float64, YAML integers as int; field coercers are expected to normalize.
//
//	data, err := request.Values()
//	money, err := models.Money.New(data)
func (req *Request) Values() (entity.Values, error) {
	ct := req.ContentType()

	switch {
	case strings.Contains(ct, "application/json"):
		return req.decode(json.Unmarshal)
	case strings.Contains(ct, "yaml"):
		return req.decode(yaml.Unmarshal)
	case strings.Contains(ct, "multipart/form-data"):
		if err := req.raw.ParseMultipartForm(maxMemory); err != nil {
			return nil, err
		}
		return formValues(req.raw.MultipartForm.Value), nil
	default:
		if err := req.raw.ParseForm(); err != nil {
			return nil, err
		}
		return formValues(req.raw.PostForm), nil
	}
}

func (req *Request) decode(unmarshal func([]byte, any) error) (entity.Values, error) {
	defer req.raw.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(nil, req.raw.Body, maxMemory))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, ErrEmptyBody
	}
	var m map[string]any
	if err := unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("decode %s body: %w", req.ContentType(), err)
	}
	if m == nil {
		return nil, fmt.Errorf("decode %s body: expected an object", req.ContentType())
	}
	return entity.Values(m), nil
}

// formValues flattens form values: one value → string, several → []string.
func formValues(values map[string][]string) entity.Values {
	m := make(entity.Values, len(values))
	for k, vals := range values {
		switch len(vals) {
		case 0:
		case 1:
			m[k] = vals[0]
		default:
			m[k] = append([]string(nil), vals...)
		}
	}
	return m
}

// ── Input helpers ────────────────────────────────────────────────────────────

// Input returns a single input value (query string OR post body).
func (req *Request) Input(key string, fallback ...string) string {
	_ = req.raw.ParseForm()
	v := req.raw.FormValue(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// QueryAll returns the query string as a flat map, first value wins.
func (req *Request) QueryAll() map[string]string {
	out := make(map[string]string)
	for k, v := range req.raw.URL.Query() {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// All returns all input as a flat map (query + post).
func (req *Request) All() map[string]string {
	_ = req.raw.ParseForm()
	out := make(map[string]string)
	for k, v := range req.raw.Form {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// Has returns true if the key is present and non-empty.
func (req *Request) Has(key string) bool {
	return req.Input(key) != ""
}

// RouteParam returns a URL route parameter (chi).
func (req *Request) RouteParam(key string) string {
	return chi.URLParam(req.raw, key)
}

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}

// BearerToken extracts the token from Authorization: Bearer <token>.
func (req *Request) BearerToken() string {
	auth := req.raw.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// Method returns the HTTP method.
func (req *Request) Method() string { return req.raw.Method }

// Path returns the URL path.
func (req *Request) Path() string { return req.raw.URL.Path }

// ContentType returns the Content-Type header value.
func (req *Request) ContentType() string {
	return req.raw.Header.Get("Content-Type")
}

// IsJSON returns true when the request sends or expects JSON.
func (req *Request) IsJSON() bool {
	return strings.Contains(req.raw.Header.Get("Accept"), "application/json") ||
		strings.Contains(req.ContentType(), "application/json")
}

// WantsYAML returns true when the Accept header asks for YAML.
func (req *Request) WantsYAML() bool {
	return strings.Contains(req.raw.Header.Get("Accept"), "yaml")
}
