package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	config "github.com/anjiri1684/skill_tutor/configs"
)

type PayPalOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
}

func getPayPalAccessToken() (string, error) {
	apiBase := config.Config("PAYPAL_API_BASE_URL")

	req, err := http.NewRequest(http.MethodPost, apiBase+"/v1/oauth2/token", strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(config.Config("PAYPAL_CLIENT_ID"), config.Config("PAYPAL_CLIENT_SECRET"))
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to get access token, status: %s", resp.Status)
	}

	var tokenResp accessTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", err
	}
	return tokenResp.AccessToken, nil
}

func paypalRequest(method, path string, payload interface{}) (*PayPalOrder, error) {
	accessToken, err := getPayPalAccessToken()
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, config.Config("PAYPAL_API_BASE_URL")+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("paypal %s %s failed: %s", method, path, string(respBody))
	}

	var order PayPalOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func CreatePayPalOrder(amount float64, currency string) (*PayPalOrder, error) {
	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": currency,
					"value":         fmt.Sprintf("%.2f", amount),
				},
			},
		},
	}
	return paypalRequest(http.MethodPost, "/v2/checkout/orders", payload)
}

func CapturePayPalOrder(orderID string) (*PayPalOrder, error) {
	return paypalRequest(http.MethodPost, fmt.Sprintf("/v2/checkout/orders/%s/capture", orderID), nil)
}
