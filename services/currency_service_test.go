package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToKES(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/key/latest/USD", r.URL.Path)
		_, _ = w.Write([]byte(`{"result":"success","conversion_rates":{"USD":1,"KES":130,"EUR":0.5}}`))
	}))
	defer srv.Close()

	t.Setenv("EXCHANGE_RATE_API_BASE_URL", srv.URL)
	t.Setenv("EXCHANGE_RATE_API_KEY", "key")
	resetRatesCache()
	defer resetRatesCache()

	kes, err := ConvertToKES(10, "USD")
	require.NoError(t, err)
	assert.InDelta(t, 1300, kes, 0.001)

	kes, err = ConvertToKES(10, "EUR")
	require.NoError(t, err)
	assert.InDelta(t, 2600, kes, 0.001)

	kes, err = ConvertToKES(500, "KES")
	require.NoError(t, err)
	assert.Equal(t, 500.0, kes)

	_, err = ConvertToKES(1, "XYZ")
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestFetchRatesWithoutKey(t *testing.T) {
	t.Setenv("EXCHANGE_RATE_API_KEY", "")
	resetRatesCache()
	_, err := FetchRates()
	assert.Error(t, err)
}
