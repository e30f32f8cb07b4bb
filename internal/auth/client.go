// auth/client.go
package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"thesisvault/internal/domain"
)

// Таймаут запроса к сервису авторизации
const resolveTimeout = 10 * time.Second

// Client — клиент внешнего сервиса авторизации.
// Ответ сервиса принимается дословно: ролям и кафедре здесь не перепроверяют.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(conf *Config) (*Client, error) {
	if conf == nil || conf.AuthAddr == "" {
		return nil, fmt.Errorf("auth service address is required")
	}

	return &Client{
		httpClient: &http.Client{Timeout: resolveTimeout},
		baseURL:    strings.TrimSuffix(conf.AuthAddr, "/"),
	}, nil
}

// Resolve определяет субъекта входящего запроса по его токену
func (c *Client) Resolve(r *http.Request) (*domain.Principal, error) {
	authToken := r.Header.Get("Authorization")
	if authToken == "" {
		return nil, fmt.Errorf("no authorization header")
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, c.baseURL+"/v1/auth/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}

	var principal domain.Principal
	if err := json.NewDecoder(resp.Body).Decode(&principal); err != nil {
		return nil, fmt.Errorf("failed to decode principal: %w", err)
	}
	if principal.UserID == "" {
		return nil, fmt.Errorf("auth service returned empty principal")
	}

	return &principal, nil
}
