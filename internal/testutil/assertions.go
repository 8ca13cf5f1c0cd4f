package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// DecodeEnvelope reads the response body as an envelope
func DecodeEnvelope(t *testing.T, resp *http.Response) Envelope {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	var env Envelope
	err = json.Unmarshal(body, &env)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))

	return env
}

// AssertRedirect verifies a redirect envelope to route
func AssertRedirect(t *testing.T, resp *http.Response, route string) {
	t.Helper()

	env := DecodeEnvelope(t, resp)
	assert.Equal(t, "redirect", env.Type)
	assert.Equal(t, route, env.Route)
}

// AssertErrorEnvelope verifies an error envelope with the expected status and message
func AssertErrorEnvelope(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	env := DecodeEnvelope(t, resp)
	assert.Equal(t, "error", env.Type)
	assert.Contains(t, env.Message, expectedMessage, "error message mismatch")
}

// CookieValue returns the value of the named cookie set by resp
func CookieValue(resp *http.Response, name string) (string, bool) {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}
