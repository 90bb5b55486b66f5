package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	config "github.com/anjiri1684/skill_tutor/configs"
	"github.com/anjiri1684/skill_tutor/logger"
)

type ExchangeRateResponse struct {
	Result          string             `json:"result"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
}

const ratesTTL = 6 * time.Hour

var (
	ratesCache    map[string]float64
	cacheMutex    sync.RWMutex
	lastFetchTime time.Time

	ratesClient = &http.Client{Timeout: 10 * time.Second}
)

// FetchRates returns USD-based conversion rates, cached for six hours.
func FetchRates() (map[string]float64, error) {
	cacheMutex.RLock()
	if ratesCache != nil && time.Since(lastFetchTime) < ratesTTL {
		rates := ratesCache
		cacheMutex.RUnlock()
		return rates, nil
	}
	cacheMutex.RUnlock()

	apiKey := config.Config("EXCHANGE_RATE_API_KEY")
	if apiKey == "" {
		return nil, errors.New("exchange rate API key not configured")
	}

	url := fmt.Sprintf("%s/%s/latest/USD", config.Config("EXCHANGE_RATE_API_BASE_URL"), apiKey)
	resp, err := ratesClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var data ExchangeRateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, err
	}
	if data.Result != "success" {
		return nil, errors.New("currency API returned an error")
	}

	cacheMutex.Lock()
	ratesCache = data.ConversionRates
	lastFetchTime = time.Now()
	cacheMutex.Unlock()
	logger.Log.Infow("Exchange rates refreshed", "currencies", len(data.ConversionRates))

	return data.ConversionRates, nil
}

// ConvertToKES converts amount from currency into Kenyan shillings.
func ConvertToKES(amount float64, currency string) (float64, error) {
	if currency == "KES" {
		return amount, nil
	}
	rates, err := FetchRates()
	if err != nil {
		return 0, err
	}

	kesRate, ok := rates["KES"]
	if !ok {
		return 0, errors.New("KES exchange rate not found in API response")
	}
	fromRate := 1.0
	if currency != "USD" {
		if fromRate, ok = rates[currency]; !ok || fromRate == 0 {
			return 0, fmt.Errorf("%s exchange rate not found in API response", currency)
		}
	}
	return amount / fromRate * kesRate, nil
}

func resetRatesCache() {
	cacheMutex.Lock()
	ratesCache = nil
	lastFetchTime = time.Time{}
	cacheMutex.Unlock()
}
