package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go_rates_converter/internal/config"
	"go_rates_converter/internal/models"

	"github.com/sirupsen/logrus"
)

const ratesEndpoint = "/api/android/latest"

// Клиент для работы с внешним API курсов
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *logrus.Logger
}

// Создаём новый клиент для внешнего API
func New(cfg *config.ExternalConfig, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}
}

// Получаем курсы всех валют относительно base одним запросом.
// Все ошибки возвращаются как *FetchError.
func (c *Client) GetRates(ctx context.Context, base string) (models.RateSnapshot, error) {
	query := url.Values{}
	query.Set("base", base)
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, ratesEndpoint, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.RateSnapshot{}, transportError(fmt.Errorf("failed to create request: %w", err))
	}

	// Добавляем API ключ если он есть
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	req.Header.Set("User-Agent", "Rates-Converter-Service/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.RateSnapshot{}, transportError(fmt.Errorf("failed to make request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.RateSnapshot{}, transportError(fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.RateSnapshot{}, protocolError(resp.StatusCode, body)
	}

	c.logger.WithField("response_body", string(body)).Trace("External API rates response")

	var dto models.RatesDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return models.RateSnapshot{}, decodeError(fmt.Errorf("failed to unmarshal response: %w", err))
	}

	snapshot, err := toSnapshot(base, dto)
	if err != nil {
		return models.RateSnapshot{}, decodeError(err)
	}

	c.logger.WithFields(logrus.Fields{
		"base":        base,
		"rates_count": len(snapshot.Codes),
	}).Debug("Successfully retrieved exchange rates")

	return snapshot, nil
}

// Переводим DTO в снимок; базовая валюта добавляется с курсом 1.0
func toSnapshot(base string, dto models.RatesDTO) (models.RateSnapshot, error) {
	if code := dto.BaseCode(); code != "" && code != base {
		return models.RateSnapshot{}, fmt.Errorf("requested base %s, got %s", base, code)
	}

	currencies := make([]models.Currency, 0, len(dto.Rates.Codes))
	for _, code := range dto.Rates.Codes {
		if code == "" {
			return models.RateSnapshot{}, fmt.Errorf("empty currency code in rates")
		}
		currencies = append(currencies, models.Currency{Code: code, RateToBase: dto.Rates.Values[code]})
	}

	snapshot := models.NewRateSnapshot(base, currencies)
	if err := snapshot.Validate(); err != nil {
		return models.RateSnapshot{}, err
	}
	return snapshot, nil
}

func protocolError(status int, body []byte) *FetchError {
	fetchErr := &FetchError{
		Kind:   ProtocolError,
		Status: status,
		Body:   body,
		Err:    fmt.Errorf("API returned status %d", status),
	}

	var apiErr models.ErrorResponse
	if len(body) > 0 && json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
		fetchErr.Response = &apiErr
	}
	return fetchErr
}
