package slotservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m04kA/SMC-SlotService/pkg/types"
)

// userIDHeader заголовок с ID вендора, его же читает middleware.Auth сервера
const userIDHeader = "X-User-ID"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с SlotService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента SlotService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetDayView получает день: часы, слоты с загрузкой и вместимость
func (c *Client) GetDayView(ctx context.Context, vendorID string, date time.Time) (*DayView, error) {
	path := fmt.Sprintf("/api/v1/days/%s", types.FormatDate(date))

	var view DayView
	if err := c.do(ctx, http.MethodGet, path, vendorID, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ApplyDelta изменяет количество в слоте
func (c *Client) ApplyDelta(ctx context.Context, vendorID string, date time.Time, slot types.TimeString, delta int, note *string) (*DeltaResult, error) {
	path := fmt.Sprintf("/api/v1/days/%s/slots/%s/delta", types.FormatDate(date), url.PathEscape(slot.String()))

	var result DeltaResult
	if err := c.do(ctx, http.MethodPost, path, vendorID, &DeltaRequest{Delta: delta, Note: note}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ResetDay удаляет весь спрос за день
func (c *Client) ResetDay(ctx context.Context, vendorID string, date time.Time) (*ResetResult, error) {
	path := fmt.Sprintf("/api/v1/days/%s/demand", types.FormatDate(date))

	var result ResetResult
	if err := c.do(ctx, http.MethodDelete, path, vendorID, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path, vendorID string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(userIDHeader, vendorID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, readMessage(resp.Body))
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, readMessage(resp.Body))
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrCapacityExceeded, readMessage(resp.Body))
	default:
		c.log.Error("SlotService %s %s returned status %d", method, path, resp.StatusCode)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, readMessage(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}

// readMessage достает message из тела ошибки, иначе возвращает тело как есть
func readMessage(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, 4096))

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}
	return strings.TrimSpace(string(body))
}
