package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/BlackBills-Engineering/ung-kiosk/config"
	"github.com/pkg/errors"
)

type httpClient struct {
	controllerURL string
	billingURL    string
	billingUser   string
	billingPass   string
	client        *http.Client
}

func NewClient(conf *config.Config) Client {
	return &httpClient{
		controllerURL: conf.ControllerURL,
		billingURL:    conf.Billing.BaseURL,
		billingUser:   conf.Billing.User,
		billingPass:   conf.Billing.Password,
		client: &http.Client{
			Timeout: time.Duration(conf.RequestTimeout) * time.Second,
		},
	}
}

func (c *httpClient) StopPump(ctx context.Context, pumpID int) error {
	url := fmt.Sprintf("%s/pumps/%d/stop", c.controllerURL, pumpID)
	return c.postJSON(ctx, url, nil, false)
}

func (c *httpClient) PresetVolume(ctx context.Context, pumpID int, gradeIndex int, volume float64) error {
	url := fmt.Sprintf("%s/pumps/%d/preset/volume", c.controllerURL, pumpID)
	body := map[string]any{"grade": gradeIndex, "volume": volume}
	return c.postJSON(ctx, url, body, false)
}

func (c *httpClient) PresetMoney(ctx context.Context, pumpID int, gradeIndex int, amount int64) error {
	url := fmt.Sprintf("%s/pumps/%d/preset/money", c.controllerURL, pumpID)
	body := map[string]any{"grade": gradeIndex, "money_amount": amount}
	return c.postJSON(ctx, url, body, false)
}

func (c *httpClient) PostCheck(ctx context.Context, id string, goods []Good, paymentInfo []PaymentInfo) error {
	url := c.billingURL + "/billpost/"
	body := map[string]any{
		"id":          id,
		"goods":       goods,
		"paymentInfo": paymentInfo,
	}
	return c.postJSON(ctx, url, body, true)
}

func (c *httpClient) GetCheck(ctx context.Context, id string) (CheckStatus, error) {
	var status CheckStatus

	url := c.billingURL + "/status/" + id
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return status, err
	}
	req.SetBasicAuth(c.billingUser, c.billingPass)

	resp, err := c.client.Do(req)
	if err != nil {
		return status, errors.Wrap(err, "status request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return status, errors.Errorf("status request failed %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return status, errors.Wrap(err, "decoding status response")
	}
	return status, nil
}

// --- PRIVATE METHODS ---

func (c *httpClient) postJSON(ctx context.Context, url string, body any, basicAuth bool) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if basicAuth {
		req.SetBasicAuth(c.billingUser, c.billingPass)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "POST %s failed", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(resp.Body)
		return errors.Errorf("POST %s failed %d: %s", url, resp.StatusCode, string(text))
	}
	return nil
}
