package weather

import (
	"context"
	"log"
)

// Service validates user input and runs lookups against a single provider
// using an explicitly supplied credential.
type Service struct {
	provider   Provider
	credential string
}

// NewService creates a new Service.
func NewService(provider Provider, credential string) *Service {
	return &Service{
		provider:   provider,
		credential: credential,
	}
}

// Current looks up the current weather for a raw city name. Blank input
// yields ErrEmptyCity and never reaches the provider.
func (s *Service) Current(ctx context.Context, city string) (WeatherResult, error) {
	q, err := NewQuery(city)
	if err != nil {
		return nil, err
	}

	log.Printf("DEBUG: Current called for %q via %s", q.City(), s.provider.Name())

	res := s.provider.Lookup(ctx, q, s.credential)
	if f, ok := res.(Failure); ok {
		log.Printf("provider %s lookup failed for %q: %s", s.provider.Name(), q.City(), f.Message)
	}
	return res, nil
}
