// AngelaMos | 2026
// client.go

package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/querystack/querystack/internal/config"
)

const defaultTimeout = 10 * time.Second

// Client talks to the external job listings API. Listings are never
// stored locally; every request proxies through.
type Client struct {
	baseURL    string
	apiKey     string
	apiHost    string
	httpClient *http.Client
}

func NewClient(cfg config.JobsConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: cfg.APIBaseURL,
		apiKey:  cfg.APIKey,
		apiHost: cfg.APIHost,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type listingsResponse struct {
	Data []listingPayload `json:"data"`
}

type listingPayload struct {
	JobID          string  `json:"job_id"`
	Title          string  `json:"job_title"`
	Employer       string  `json:"employer_name"`
	EmployerLogo   string  `json:"employer_logo"`
	City           string  `json:"job_city"`
	Country        string  `json:"job_country"`
	IsRemote       bool    `json:"job_is_remote"`
	EmploymentType string  `json:"job_employment_type"`
	Description    string  `json:"job_description"`
	ApplyLink      string  `json:"job_apply_link"`
	MinSalary      float64 `json:"job_min_salary"`
	MaxSalary      float64 `json:"job_max_salary"`
	PostedAt       string  `json:"job_posted_at_datetime_utc"`
}

// Search queries the listings API for one page of results.
func (c *Client) Search(
	ctx context.Context,
	query string,
	page int,
) ([]Listing, error) {
	endpoint, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("jobs search: %w", err)
	}

	params := endpoint.Query()
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("num_pages", "1")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		endpoint.String(),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("jobs search: %w", err)
	}

	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jobs search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"jobs search: upstream returned %d",
			resp.StatusCode,
		)
	}

	var payload listingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("jobs search: decode: %w", err)
	}

	listings := make([]Listing, 0, len(payload.Data))
	for _, item := range payload.Data {
		listings = append(listings, Listing{
			ID:             item.JobID,
			Title:          item.Title,
			Employer:       item.Employer,
			EmployerLogo:   item.EmployerLogo,
			Location:       formatLocation(item.City, item.Country),
			IsRemote:       item.IsRemote,
			EmploymentType: item.EmploymentType,
			Description:    item.Description,
			ApplyLink:      item.ApplyLink,
			MinSalary:      item.MinSalary,
			MaxSalary:      item.MaxSalary,
			PostedAt:       item.PostedAt,
		})
	}

	return listings, nil
}

func formatLocation(city, country string) string {
	switch {
	case city != "" && country != "":
		return city + ", " + country
	case city != "":
		return city
	default:
		return country
	}
}

type Listing struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Employer       string  `json:"employer"`
	EmployerLogo   string  `json:"employer_logo,omitempty"`
	Location       string  `json:"location"`
	IsRemote       bool    `json:"is_remote"`
	EmploymentType string  `json:"employment_type"`
	Description    string  `json:"description"`
	ApplyLink      string  `json:"apply_link"`
	MinSalary      float64 `json:"min_salary,omitempty"`
	MaxSalary      float64 `json:"max_salary,omitempty"`
	PostedAt       string  `json:"posted_at,omitempty"`
}
