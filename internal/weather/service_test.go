package weather

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	calls      int
	lastQuery  WeatherQuery
	credential string
	result     WeatherResult
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Lookup(_ context.Context, q WeatherQuery, credential string) WeatherResult {
	f.calls++
	f.lastQuery = q
	f.credential = credential
	return f.result
}

func TestNewQuery(t *testing.T) {
	q, err := NewQuery("  Paris \n")
	require.NoError(t, err)
	assert.Equal(t, "Paris", q.City())
	assert.Equal(t, UnitsMetric, q.Units())

	for _, blank := range []string{"", "   ", "\t\n"} {
		_, err := NewQuery(blank)
		assert.ErrorIs(t, err, ErrEmptyCity, "input %q", blank)
	}
}

func TestServiceBlankInputSkipsProvider(t *testing.T) {
	p := &fakeProvider{result: Success{City: "x"}}
	svc := NewService(p, "key")

	res, err := svc.Current(context.Background(), "   ")

	assert.ErrorIs(t, err, ErrEmptyCity)
	assert.Nil(t, res)
	assert.Equal(t, 0, p.calls)
}

func TestServicePassesCredentialAndQuery(t *testing.T) {
	p := &fakeProvider{result: Failure{Message: "City not found: Nowhere"}}
	svc := NewService(p, "the-key")

	res, err := svc.Current(context.Background(), " Nowhere ")

	require.NoError(t, err)
	assert.Equal(t, Failure{Message: "City not found: Nowhere"}, res)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, "Nowhere", p.lastQuery.City())
	assert.Equal(t, "the-key", p.credential)
}
