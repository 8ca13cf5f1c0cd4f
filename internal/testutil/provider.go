package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

// LondonConditions is what the fake provider reports for any coordinates.
const LondonConditions = `{"weather":[{"main":"Clouds","description":"overcast"}],"main":{"temp":12.5},"name":"London"}`

type geoMatch struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// FakeProvider imitates the OpenWeather geocoding and conditions endpoints
type FakeProvider struct {
	Server *httptest.Server

	mu         sync.Mutex
	cities     map[string][]geoMatch
	conditions string
	failStatus int
	lastQuery  map[string]string

	GeocodeCalls    atomic.Int32
	ConditionsCalls atomic.Int32
}

func NewFakeProvider(t *testing.T) *FakeProvider {
	t.Helper()

	p := &FakeProvider{
		cities: map[string][]geoMatch{
			"London": {{Name: "London", Lat: 51.5073, Lon: -0.1277}, {Name: "London", Lat: 42.98, Lon: -81.24}},
		},
		conditions: LondonConditions,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/geo/1.0/direct", p.geocode)
	mux.HandleFunc("/data/2.5/weather", p.weather)

	p.Server = httptest.NewServer(mux)
	t.Cleanup(p.Server.Close)

	return p
}

func (p *FakeProvider) URL() string {
	return p.Server.URL
}

// FailWith makes every endpoint answer with status
func (p *FakeProvider) FailWith(status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failStatus = status
}

// SetConditions replaces the raw conditions payload
func (p *FakeProvider) SetConditions(raw string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conditions = raw
}

// LastQuery returns the query parameters of the most recent request
func (p *FakeProvider) LastQuery() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastQuery
}

func (p *FakeProvider) record(r *http.Request) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lastQuery = make(map[string]string)
	for k := range r.URL.Query() {
		p.lastQuery[k] = r.URL.Query().Get(k)
	}
	return p.failStatus
}

func (p *FakeProvider) geocode(w http.ResponseWriter, r *http.Request) {
	p.GeocodeCalls.Add(1)
	if status := p.record(r); status != 0 {
		http.Error(w, "provider failure", status)
		return
	}

	matches := p.cities[r.URL.Query().Get("q")]
	if matches == nil {
		matches = []geoMatch{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(matches)
}

func (p *FakeProvider) weather(w http.ResponseWriter, r *http.Request) {
	p.ConditionsCalls.Add(1)
	if status := p.record(r); status != 0 {
		http.Error(w, "provider failure", status)
		return
	}

	p.mu.Lock()
	body := p.conditions
	p.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}
