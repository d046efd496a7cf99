package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"TalentScout/internal/config"
	"TalentScout/internal/domain"
	"TalentScout/internal/source"
)

// NaukriConnector queries the Naukri candidate search API.
type NaukriConnector struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

var _ source.Connector = (*NaukriConnector)(nil)

// NewNaukriConnector wires the connector from provider configuration.
func NewNaukriConnector(cfg config.ProvidersConfig, client *http.Client) *NaukriConnector {
	return &NaukriConnector{
		endpoint: cfg.Naukri.Endpoint,
		apiKey:   cfg.Naukri.APIKey,
		client:   newHTTPClient(client, cfg.SearchTimeout()),
	}
}

// Name identifies the connector inside the registry and in source tags.
func (c *NaukriConnector) Name() string { return "naukri" }

// Enabled reports whether a credential is configured.
func (c *NaukriConnector) Enabled() bool { return c.apiKey != "" }

type naukriCandidate struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Designation     string   `json:"designation"`
	Organization    string   `json:"organization"`
	TotalExperience *float64 `json:"total_experience"`
	Qualification   string   `json:"qualification"`
	KeySkills       []string `json:"key_skills"`
}

// Search posts job keywords and maps the response. Naukri returns a single
// display name; it is split on the first space into name parts.
func (c *NaukriConnector) Search(ctx context.Context, job *domain.Job) ([]domain.RawCandidate, error) {
	if !c.Enabled() {
		return nil, nil
	}

	payload := map[string]any{
		"keywords": strings.Join(source.Keywords(job.Requirements), " "),
		"location": job.Location,
	}

	var resp struct {
		Candidates []naukriCandidate `json:"candidates"`
	}
	if err := postJSON(ctx, c.client, c.endpoint, c.apiKey, payload, &resp); err != nil {
		return nil, fmt.Errorf("naukri search: %w", err)
	}

	results := make([]domain.RawCandidate, 0, len(resp.Candidates))
	for _, cand := range resp.Candidates {
		if cand.Email == "" {
			continue
		}
		first, last := splitName(cand.Name)
		results = append(results, domain.RawCandidate{
			Email:           cand.Email,
			FirstName:       first,
			LastName:        last,
			Phone:           cand.Phone,
			CurrentPosition: cand.Designation,
			CurrentCompany:  cand.Organization,
			ExperienceYears: cand.TotalExperience,
			Education:       cand.Qualification,
			Skills:          cand.KeySkills,
		})
	}

	return results, nil
}

func splitName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
