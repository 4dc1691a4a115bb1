package catalogservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с CatalogService (локации, услуги, мастера)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента CatalogService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetLocation получает локацию по ID
func (c *Client) GetLocation(ctx context.Context, locationID int64) (*Location, error) {
	url := fmt.Sprintf("%s/internal/locations/%d", c.baseURL, locationID)

	var location Location
	if err := c.getJSON(ctx, url, ErrLocationNotFound, &location); err != nil {
		return nil, err
	}

	return &location, nil
}

// GetService получает услугу локации по ID
func (c *Client) GetService(ctx context.Context, locationID, serviceID int64) (*Service, error) {
	url := fmt.Sprintf("%s/internal/locations/%d/services/%d", c.baseURL, locationID, serviceID)

	var service Service
	if err := c.getJSON(ctx, url, ErrServiceNotFound, &service); err != nil {
		return nil, err
	}

	return &service, nil
}

// GetStaff получает мастера по ID
func (c *Client) GetStaff(ctx context.Context, staffID int64) (*Staff, error) {
	url := fmt.Sprintf("%s/internal/staff/%d", c.baseURL, staffID)

	var staff Staff
	if err := c.getJSON(ctx, url, ErrStaffNotFound, &staff); err != nil {
		return nil, err
	}

	return &staff, nil
}

// ListStaffByLocation получает всех мастеров локации
func (c *Client) ListStaffByLocation(ctx context.Context, locationID int64) ([]Staff, error) {
	url := fmt.Sprintf("%s/internal/locations/%d/staff", c.baseURL, locationID)

	var result struct {
		Staff []Staff `json:"staff"`
	}
	if err := c.getJSON(ctx, url, ErrLocationNotFound, &result); err != nil {
		return nil, err
	}

	return result.Staff, nil
}

// getJSON выполняет GET запрос и декодирует JSON ответ
// notFoundErr возвращается на 404 от сервиса
func (c *Client) getJSON(ctx context.Context, url string, notFoundErr error, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFoundErr
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
