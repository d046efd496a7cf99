package providers

import (
	"context"
	"fmt"
	"net/http"

	"TalentScout/internal/config"
	"TalentScout/internal/domain"
	"TalentScout/internal/source"
)

// LinkedInConnector queries the LinkedIn talent search API. Enabled only
// when an API key is configured.
type LinkedInConnector struct {
	endpoint string
	apiKey   string
	client   *http.Client
	pageSize int
}

var _ source.Connector = (*LinkedInConnector)(nil)

// NewLinkedInConnector wires the connector; a nil client gets the provider
// search timeout applied.
func NewLinkedInConnector(cfg config.ProvidersConfig, client *http.Client) *LinkedInConnector {
	return &LinkedInConnector{
		endpoint: cfg.LinkedIn.Endpoint,
		apiKey:   cfg.LinkedIn.APIKey,
		client:   newHTTPClient(client, cfg.SearchTimeout()),
		pageSize: 25,
	}
}

// Name identifies the connector inside the registry and in source tags.
func (c *LinkedInConnector) Name() string { return "linkedin" }

// Enabled reports whether a credential is configured.
func (c *LinkedInConnector) Enabled() bool { return c.apiKey != "" }

type linkedInProfile struct {
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Email           string   `json:"email"`
	Headline        string   `json:"headline"`
	CurrentCompany  string   `json:"current_company"`
	ExperienceYears *float64 `json:"experience_years"`
	Education       string   `json:"education"`
	Skills          []string `json:"skills"`
}

// Search posts job-derived keywords and maps returned profiles to raw
// candidate records. Profiles without an email are dropped; they cannot be
// reconciled.
func (c *LinkedInConnector) Search(ctx context.Context, job *domain.Job) ([]domain.RawCandidate, error) {
	if !c.Enabled() {
		return nil, nil
	}

	payload := map[string]any{
		"keywords": source.Keywords(job.Requirements),
		"count":    c.pageSize,
	}

	var resp struct {
		Elements []linkedInProfile `json:"elements"`
	}
	if err := postJSON(ctx, c.client, c.endpoint, c.apiKey, payload, &resp); err != nil {
		return nil, fmt.Errorf("linkedin search: %w", err)
	}

	results := make([]domain.RawCandidate, 0, len(resp.Elements))
	for _, p := range resp.Elements {
		if p.Email == "" {
			continue
		}
		results = append(results, domain.RawCandidate{
			Email:           p.Email,
			FirstName:       p.FirstName,
			LastName:        p.LastName,
			CurrentPosition: p.Headline,
			CurrentCompany:  p.CurrentCompany,
			ExperienceYears: p.ExperienceYears,
			Education:       p.Education,
			Skills:          p.Skills,
		})
	}

	return results, nil
}
