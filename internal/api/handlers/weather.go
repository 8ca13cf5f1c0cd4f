package handlers

import (
	"log"
	"net/http"

	"github.com/dom/weather-gate/internal/api/middleware"
	"github.com/dom/weather-gate/internal/api/respond"
	"github.com/dom/weather-gate/internal/counter"
	"github.com/dom/weather-gate/internal/service"
)

const CounterCookie = "Counter"

type WeatherHandler struct {
	gate           *service.Gate
	weatherService *service.WeatherService
	codec          *counter.Codec
	loginRoute     string
	cookieSecure   bool
}

func NewWeatherHandler(gate *service.Gate, weatherService *service.WeatherService, codec *counter.Codec, loginRoute string, cookieSecure bool) *WeatherHandler {
	return &WeatherHandler{
		gate:           gate,
		weatherService: weatherService,
		codec:          codec,
		loginRoute:     loginRoute,
		cookieSecure:   cookieSecure,
	}
}

// Get always hands back the incremented counter, then either redirects to the
// login page or proxies the forecast for the city query parameter.
func (h *WeatherHandler) Get(w http.ResponseWriter, r *http.Request) {
	var current int
	if cookie, err := r.Cookie(CounterCookie); err == nil {
		current = h.codec.Decode(cookie.Value)
	}

	_, authenticated := middleware.GetUser(r.Context())
	decision := h.gate.Decide(current, authenticated)

	encoded, err := h.codec.Encode(decision.Counter)
	if err != nil {
		log.Printf("ERROR [weather.Get] encode counter: %v", err)
	} else {
		http.SetCookie(w, &http.Cookie{
			Name:     CounterCookie,
			Value:    encoded,
			Path:     "/",
			Secure:   h.cookieSecure,
			SameSite: http.SameSiteLaxMode,
		})
	}

	if !decision.Admit {
		respond.Redirect(w, h.loginRoute)
		return
	}

	city := r.URL.Query().Get("city")
	if city == "" {
		respond.Error(w, http.StatusBadRequest, "City is required")
		return
	}

	view, err := h.weatherService.Forecast(r.Context(), city)
	if err != nil {
		respond.Err(w, "weather.Get", err)
		return
	}

	respond.Success(w, view)
}
