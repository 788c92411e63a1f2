package http

import (
	"encoding/json"
	"net/http"

	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-entob/framework/validators"
)

// ── Response ─────────────────────────────────────────────────────────────────

// Response wraps http.ResponseWriter with envelope helpers.
type Response struct {
	w    http.ResponseWriter
	yaml bool
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// For returns a Response that answers in YAML when req asks for it and in
// JSON otherwise.
func For(w http.ResponseWriter, req *Request) *Response {
	return &Response{w: w, yaml: req.WantsYAML()}
}

// Raw returns the underlying ResponseWriter.
func (res *Response) Raw() http.ResponseWriter { return res.w }

// ── Encoded responses ────────────────────────────────────────────────────────

// JSON sends a JSON response.
//
//	res.JSON(http.StatusOK, map[string]any{"message": "ok"})
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// YAML sends a YAML response. Values are first passed through their JSON
// encoding so that json.Marshaler types (entities, decimals) render the
// same in both formats.
func (res *Response) YAML(status int, data any) {
	var generic any
	raw, err := json.Marshal(data)
	if err == nil {
		err = json.Unmarshal(raw, &generic)
	}
	if err != nil {
		res.JSON(http.StatusInternalServerError, envelope{"message": "Server Error."})
		return
	}
	res.w.Header().Set("Content-Type", "application/yaml")
	res.w.WriteHeader(status)
	enc := yaml.NewEncoder(res.w)
	enc.SetIndent(2)
	_ = enc.Encode(generic)
	_ = enc.Close()
}

func (res *Response) send(status int, data any) {
	if res.yaml {
		res.YAML(status, data)
		return
	}
	res.JSON(status, data)
}

// Success sends 200: {"data": v}
func (res *Response) Success(v any) {
	res.send(http.StatusOK, envelope{"data": v})
}

// Created sends 201: {"data": v}
func (res *Response) Created(v any) {
	res.send(http.StatusCreated, envelope{"data": v})
}

// NoContent sends 204 with no body.
func (res *Response) NoContent() {
	res.w.WriteHeader(http.StatusNoContent)
}

// Error sends an error response.
//
//	res.Error(http.StatusNotFound, "Resource not found")
func (res *Response) Error(status int, message string) {
	res.send(status, envelope{"message": message})
}

// Unauthorized sends 401.
func (res *Response) Unauthorized(message ...string) {
	res.Error(http.StatusUnauthorized, first(message, "Unauthenticated."))
}

// Forbidden sends 403.
func (res *Response) Forbidden(message ...string) {
	res.Error(http.StatusForbidden, first(message, "This action is unauthorized."))
}

// NotFound sends 404.
func (res *Response) NotFound(message ...string) {
	res.Error(http.StatusNotFound, first(message, "Not found."))
}

// ServerError sends 500.
func (res *Response) ServerError(message ...string) {
	res.Error(http.StatusInternalServerError, first(message, "Server Error."))
}

// ValidationError sends 422 with the error bag.
//
//	res.ValidationError(validator.Errors())
func (res *Response) ValidationError(errors *validators.Errors) {
	res.send(http.StatusUnprocessableEntity, errors)
}

// Fail answers err: 422 with the error bag when it is caused by input,
// 500 otherwise. It reports whether err was input.
//
//	payment, err := models.Payment.New(data)
//	if err != nil {
//	    res.Fail(err)
//	    return
//	}
func (res *Response) Fail(err error) bool {
	if validators.IsInput(err) {
		if bag := validators.FromError(err); bag != nil {
			res.ValidationError(bag)
			return true
		}
	}
	res.ServerError()
	return false
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type envelope map[string]any

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
