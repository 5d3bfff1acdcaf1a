package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"medibook/internal/models"
)

// Client calls the upstream doctor/appointment directory API. Responses
// may omit schedule fields entirely; absent collections come back
// empty, never nil-crashing downstream.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	redis    *redis.Client
	cacheTTL time.Duration
}

// NewClient constructs a client for the given base URL and API key.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// UseRedisCache configures optional Redis caching for GET endpoints.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// GetDoctor fetches one doctor record with consultation hours.
func (c *Client) GetDoctor(ctx context.Context, id int64) (*models.Doctor, error) {
	endpoint := fmt.Sprintf("%s/api/v1/doctors/%d", c.baseURL, id)
	cacheKey := fmt.Sprintf("doctor:%d", id)

	var d models.Doctor
	if c.readCache(ctx, cacheKey, &d) {
		return &d, nil
	}

	if err := c.doGet(ctx, endpoint, &d); err != nil {
		return nil, err
	}
	normalizeDoctor(&d)
	c.writeCache(ctx, cacheKey, d)
	return &d, nil
}

// ListDoctors fetches all doctor records.
func (c *Client) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	endpoint := fmt.Sprintf("%s/api/v1/doctors", c.baseURL)
	cacheKey := "doctors"

	var wrap struct {
		Doctors []models.Doctor `json:"doctors"`
	}
	if c.readCache(ctx, cacheKey, &wrap) {
		return wrap.Doctors, nil
	}

	if err := c.doGet(ctx, endpoint, &wrap); err != nil {
		return nil, err
	}
	for i := range wrap.Doctors {
		normalizeDoctor(&wrap.Doctors[i])
	}
	c.writeCache(ctx, cacheKey, wrap)
	return wrap.Doctors, nil
}

// ListAppointments fetches all appointments. Dates arrive in either
// "DD/MM/YYYY" or "YYYY-MM-DD" form; callers normalize before storing.
func (c *Client) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	endpoint := fmt.Sprintf("%s/api/v1/appointments", c.baseURL)

	var wrap struct {
		Appointments []models.Appointment `json:"appointments"`
	}
	// Appointments change too often to be worth caching.
	if err := c.doGet(ctx, endpoint, &wrap); err != nil {
		return nil, err
	}
	return wrap.Appointments, nil
}

// normalizeDoctor replaces absent collections with empty ones.
func normalizeDoctor(d *models.Doctor) {
	if d.ConsultationHours == nil {
		d.ConsultationHours = []models.DaySchedule{}
	}
	if d.UnavailableDates == nil {
		d.UnavailableDates = []string{}
	}
	for i := range d.ConsultationHours {
		if d.ConsultationHours[i].Hours == nil {
			d.ConsultationHours[i].Hours = []models.HourRange{}
		}
	}
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("call %s: status %d: %s", endpoint, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	c.redis.Set(ctx, key, string(data), c.cacheTTL)
}
