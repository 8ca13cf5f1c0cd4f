package service

import (
	"github.com/dom/weather-gate/internal/config"
	"github.com/dom/weather-gate/internal/repository"
)

type Services struct {
	User    *UserService
	Session *SessionService
	Gate    *Gate
	Weather *WeatherService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	return &Services{
		User:    NewUserService(repos.User),
		Session: NewSessionService(repos.Session, repos.User),
		Gate:    NewGate(cfg.RateLimit),
		Weather: NewWeatherService(cfg),
	}
}
