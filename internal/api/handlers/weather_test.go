package handlers_test

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/dom/weather-gate/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getWeather(t *testing.T, client *http.Client, url string, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestWeatherHandler_EndToEnd(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := ts.NewClient(t)

	testutil.NewUserBuilder().WithUsername("alice").WithPassword("pw1").SignUp(t, ts, client)

	resp := getWeather(t, client, ts.URL("/weather?city=London"))
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	env := testutil.DecodeEnvelope(t, resp)
	assert.Equal(t, "success", env.Type)

	var days []map[string]any
	require.NoError(t, json.Unmarshal(env.Payload, &days))
	require.Len(t, days, 10)
	for _, day := range days {
		assert.Equal(t, "London", day["name"])
	}

	counter, ok := testutil.CookieValue(resp, "Counter")
	require.True(t, ok)
	assert.Equal(t, "1", counter)
}

func TestWeatherHandler_AnonymousBurstThenRedirect(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := ts.NewClient(t)

	for i := 1; i <= 14; i++ {
		resp := getWeather(t, client, ts.URL("/weather?city=London"))
		env := testutil.DecodeEnvelope(t, resp)
		assert.Equal(t, "success", env.Type, "request %d", i)

		counter, _ := testutil.CookieValue(resp, "Counter")
		assert.Equal(t, strconv.Itoa(i), counter)
	}

	calls := ts.Provider.GeocodeCalls.Load()

	resp := getWeather(t, client, ts.URL("/weather?city=London"))
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertRedirect(t, resp, "/login.html")
	counter, _ := testutil.CookieValue(resp, "Counter")
	assert.Equal(t, "15", counter)
	assert.Equal(t, calls, ts.Provider.GeocodeCalls.Load(), "denied requests must not reach the provider")

	resp = getWeather(t, client, ts.URL("/weather?city=London"))
	env := testutil.DecodeEnvelope(t, resp)
	assert.Equal(t, "success", env.Type, "the next request after a denial is admitted again")
}

func TestWeatherHandler_Gate(t *testing.T) {
	ts := testutil.NewTestServer(t)

	signedIn := ts.NewClient(t)
	token := testutil.NewUserBuilder().SignUp(t, ts, signedIn)

	tests := []struct {
		name        string
		cookies     []*http.Cookie
		wantType    string
		wantCounter string
	}{
		{
			name:        "anonymous at 14 is denied",
			cookies:     []*http.Cookie{{Name: "Counter", Value: "14"}},
			wantType:    "redirect",
			wantCounter: "15",
		},
		{
			name:        "authenticated at 14 is admitted",
			cookies:     []*http.Cookie{{Name: "Counter", Value: "14"}, {Name: "Token", Value: token}},
			wantType:    "success",
			wantCounter: "15",
		},
		{
			name:        "unknown token counts as anonymous",
			cookies:     []*http.Cookie{{Name: "Counter", Value: "29"}, {Name: "Token", Value: "bogus"}},
			wantType:    "redirect",
			wantCounter: "30",
		},
		{
			name:        "malformed counter treated as zero",
			cookies:     []*http.Cookie{{Name: "Counter", Value: "banana"}},
			wantType:    "success",
			wantCounter: "1",
		},
		{
			name:        "missing counter treated as zero",
			wantType:    "success",
			wantCounter: "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := getWeather(t, http.DefaultClient, ts.URL("/weather?city=London"), tt.cookies...)

			env := testutil.DecodeEnvelope(t, resp)
			assert.Equal(t, tt.wantType, env.Type)
			if tt.wantType == "redirect" {
				assert.Equal(t, "/login.html", env.Route)
			}

			counter, ok := testutil.CookieValue(resp, "Counter")
			require.True(t, ok)
			assert.Equal(t, tt.wantCounter, counter)
		})
	}
}

func TestWeatherHandler_Errors(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("unknown city", func(t *testing.T) {
		resp := getWeather(t, http.DefaultClient, ts.URL("/weather?city=Atlantis"))
		testutil.AssertErrorEnvelope(t, resp, http.StatusNotFound, "City not found")
		_, ok := testutil.CookieValue(resp, "Counter")
		assert.True(t, ok, "counter is echoed on errors too")
	})

	t.Run("missing city", func(t *testing.T) {
		resp := getWeather(t, http.DefaultClient, ts.URL("/weather"))
		testutil.AssertErrorEnvelope(t, resp, http.StatusBadRequest, "City is required")
	})

	t.Run("provider down", func(t *testing.T) {
		ts.Provider.FailWith(http.StatusServiceUnavailable)
		t.Cleanup(func() { ts.Provider.FailWith(0) })

		resp := getWeather(t, http.DefaultClient, ts.URL("/weather?city=London"))
		testutil.AssertErrorEnvelope(t, resp, http.StatusBadGateway, "Weather provider is unavailable")
	})

	t.Run("server keeps serving after provider failure", func(t *testing.T) {
		resp, err := http.Get(ts.URL("/health"))
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)
	})
}

func TestWeatherHandler_SignedCounter(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.CounterSecret = "counter-secret"
	ts := testutil.NewTestServerWithConfig(t, cfg)
	client := ts.NewClient(t)

	// A forged plain value decodes to zero, so the request is admitted.
	resp := getWeather(t, http.DefaultClient, ts.URL("/weather?city=London"), &http.Cookie{Name: "Counter", Value: "14"})
	env := testutil.DecodeEnvelope(t, resp)
	assert.Equal(t, "success", env.Type)
	signed, ok := testutil.CookieValue(resp, "Counter")
	require.True(t, ok)
	assert.NotEqual(t, "1", signed)

	for i := 1; i <= 14; i++ {
		resp := getWeather(t, client, ts.URL("/weather?city=London"))
		env := testutil.DecodeEnvelope(t, resp)
		assert.Equal(t, "success", env.Type, "request %d", i)
	}

	resp = getWeather(t, client, ts.URL("/weather?city=London"))
	testutil.AssertRedirect(t, resp, "/login.html")
}
