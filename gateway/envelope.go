package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/warp/student-hotel/generic"
)

// =============================================================================
// RESPONSE ENVELOPES
// =============================================================================
// The backend answers in several shapes:
//
//   {...}                                                  bare object
//   [...]                                                  bare array
//   {"success": true, "data": {...}}                       wrapped object
//   {"success": true, "data": [...]}                       wrapped array
//   {"success": true, "data": [...], "pagination": {...}}  wrapped page
//   {"success": true, "data": {"data": [...], "pagination": {...}}}
//
// Everything is normalised here so callers only see T or Page[T].

type envelope struct {
	Success    *bool               `json:"success"`
	Data       json.RawMessage     `json:"data"`
	Message    string              `json:"message"`
	Error      json.RawMessage     `json:"error"`
	Errors     json.RawMessage     `json:"errors"`
	Pagination *generic.Pagination `json:"pagination"`
}

type nestedPage struct {
	Data       json.RawMessage     `json:"data"`
	Pagination *generic.Pagination `json:"pagination"`
}

// unwrap detects an envelope. It returns the payload and the parsed
// envelope, or the body unchanged with a nil envelope when the body is bare.
func unwrap(body []byte) (json.RawMessage, *envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil, nil
	}
	if trimmed[0] != '{' {
		return trimmed, nil, nil
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &keys); err != nil {
		return nil, nil, err
	}
	_, hasSuccess := keys["success"]
	_, hasData := keys["data"]
	if !hasSuccess && !hasData {
		return trimmed, nil, nil
	}
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, nil, err
	}
	return env.Data, &env, nil
}

// decodeOne normalises a single-record response.
func decodeOne[T any](r response, op string, kind generic.Kind, id string) (T, error) {
	var zero T
	payload, env, err := unwrap(r.body)
	if err != nil {
		return zero, undecodable(op, r, err)
	}
	if env != nil && env.Success != nil && !*env.Success {
		return zero, envelopeFailure(op, r, kind, id, env)
	}
	if isNull(payload) {
		if op == "get" {
			return zero, &generic.NotFoundError{Kind: kind, ID: id}
		}
		return zero, undecodable(op, r, fmt.Errorf("empty response body"))
	}
	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return zero, undecodable(op, r, err)
	}
	return out, nil
}

// decodePage normalises a list response. Bare arrays get pagination
// synthesised from the query.
func decodePage[T any](r response, kind generic.Kind, q generic.ListQuery) (generic.Page[T], error) {
	payload, env, err := unwrap(r.body)
	if err != nil {
		return generic.Page[T]{}, undecodable("list", r, err)
	}
	if env != nil && env.Success != nil && !*env.Success {
		return generic.Page[T]{}, envelopeFailure("list", r, kind, "", env)
	}

	var pagination *generic.Pagination
	if env != nil {
		pagination = env.Pagination
	}
	payload = bytes.TrimSpace(payload)
	if len(payload) > 0 && payload[0] == '{' {
		var nested nestedPage
		if err := json.Unmarshal(payload, &nested); err != nil {
			return generic.Page[T]{}, undecodable("list", r, err)
		}
		payload = nested.Data
		if nested.Pagination != nil {
			pagination = nested.Pagination
		}
	}

	items := []T{}
	if !isNull(payload) {
		if err := json.Unmarshal(payload, &items); err != nil {
			return generic.Page[T]{}, undecodable("list", r, err)
		}
	}

	page := generic.Page[T]{Items: items}
	if pagination != nil {
		page.Pagination = *pagination
		if page.Pagination.TotalPages == 0 && page.Pagination.Limit > 0 {
			page.Pagination = generic.NewPagination(pagination.Total, pagination.Page, pagination.Limit)
		}
		page.Pagination.HasMore = pagination.HasMore || page.Pagination.Page < page.Pagination.TotalPages
	} else {
		page.Pagination = generic.OpenPagination(q.Offset, len(items), q.Page, q.Limit)
	}
	return page, nil
}

// checkEmpty accepts any 2xx body unless it is an explicit failure envelope.
func checkEmpty(r response, op string, kind generic.Kind, id string) error {
	_, env, err := unwrap(r.body)
	if err != nil {
		// Delete endpoints often answer with plain text; the status is authoritative.
		return nil
	}
	if env != nil && env.Success != nil && !*env.Success {
		return envelopeFailure(op, r, kind, id, env)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

// statusError maps a non-2xx response to the error taxonomy.
func statusError(op string, r response, kind generic.Kind, id string) error {
	_, env, _ := unwrap(r.body)
	return classify(op, r, kind, id, env)
}

// envelopeFailure maps a {"success": false} body. A 2xx status carrying a
// failure is treated by its errors map, or as a bad request.
func envelopeFailure(op string, r response, kind generic.Kind, id string, env *envelope) error {
	if r.ok() {
		r.status = http.StatusBadRequest
	}
	return classify(op, r, kind, id, env)
}

func classify(op string, r response, kind generic.Kind, id string, env *envelope) error {
	msg := ""
	var fields generic.FieldErrors
	if env != nil {
		msg = env.Message
		if msg == "" {
			msg = errorText(env.Error)
		}
		fields = fieldErrors(env.Errors)
	}
	if msg == "" && env == nil {
		msg = strings.TrimSpace(string(r.body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
	}

	switch {
	case r.status == http.StatusNotFound:
		return &generic.NotFoundError{Kind: kind, ID: id}
	case (r.status == http.StatusBadRequest || r.status == http.StatusUnprocessableEntity) && len(fields) > 0:
		return &generic.ValidationFailedError{Kind: kind, Fields: fields}
	}
	return &generic.NetworkFailureError{Op: op, URL: r.url, StatusCode: r.status, Message: msg}
}

func undecodable(op string, r response, err error) error {
	return &generic.NetworkFailureError{
		Op:         op,
		URL:        r.url,
		StatusCode: r.status,
		Message:    "undecodable response",
		Err:        err,
	}
}

// errorText reads "error" as either a string or {"message": "..."}.
func errorText(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return obj.Message
	}
	return ""
}

// fieldErrors reads {"field": "msg"} or {"field": ["msg", ...]}.
func fieldErrors(raw json.RawMessage) generic.FieldErrors {
	if isNull(raw) {
		return nil
	}
	var byField map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byField); err != nil {
		return nil
	}
	out := generic.FieldErrors{}
	for field, v := range byField {
		var s string
		if json.Unmarshal(v, &s) == nil {
			out.Add(field, s)
			continue
		}
		var list []string
		if json.Unmarshal(v, &list) == nil && len(list) > 0 {
			out.Add(field, list[0])
		}
	}
	return out
}
