package contract

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// CapturedResponse is a normalized snapshot of an HTTP response.
type CapturedResponse struct {
	StatusCode int

	// Headers uses canonical header names. Multiple values of one header are joined with ", ".
	Headers map[string]string

	RawBody string

	// Duration is the time between sending the request and reading the end of the body. It
	// is zero for responses created with NewCapturedResponse.
	Duration time.Duration

	json    ldvalue.Value
	hasJSON bool
}

// NewCapturedResponse creates a CapturedResponse, parsing the body as JSON if the
// Content-Type header is a JSON type or if the body starts with "{" or "[". If parsing
// fails, the response simply has no JSON body.
func NewCapturedResponse(statusCode int, headers map[string]string, rawBody string) CapturedResponse {
	r := CapturedResponse{
		StatusCode: statusCode,
		Headers:    canonicalHeaders(headers),
		RawBody:    rawBody,
	}
	if looksLikeJSON(r.Header(contentTypeHeader), rawBody) {
		var v ldvalue.Value
		if err := json.Unmarshal([]byte(rawBody), &v); err == nil {
			r.json, r.hasJSON = v, true
		}
	}
	return r
}

func newCapturedHTTPResponse(resp *http.Response, body []byte, duration time.Duration) CapturedResponse {
	headers := make(map[string]string, len(resp.Header))
	for k, vv := range resp.Header {
		headers[k] = strings.Join(vv, ", ")
	}
	r := NewCapturedResponse(resp.StatusCode, headers, string(body))
	r.Duration = duration
	return r
}

// JSON returns the parsed response body, and false if the body was not parsed as JSON.
func (r CapturedResponse) JSON() (ldvalue.Value, bool) {
	return r.json, r.hasJSON
}

// Header returns the value of a response header, or "" if it is not present. The name is
// not case-sensitive.
func (r CapturedResponse) Header(name string) string {
	return r.Headers[http.CanonicalHeaderKey(name)]
}

func looksLikeJSON(contentType, body string) bool {
	if isJSONMediaType(contentType) {
		return true
	}
	trimmed := strings.TrimSpace(body)
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}
