package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"TalentScout/internal/config"
	"TalentScout/internal/domain"
	"TalentScout/internal/source"
)

var experienceExpr = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:\+\s*)?years?`)

// CVLibraryConnector scrapes the CV-Library candidate search results page.
// The site exposes no JSON API on this tier, so results are parsed from HTML.
type CVLibraryConnector struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

var _ source.Connector = (*CVLibraryConnector)(nil)

// NewCVLibraryConnector wires the connector from provider configuration.
func NewCVLibraryConnector(cfg config.ProvidersConfig, client *http.Client) *CVLibraryConnector {
	return &CVLibraryConnector{
		endpoint: cfg.CVLibrary.Endpoint,
		apiKey:   cfg.CVLibrary.APIKey,
		client:   newHTTPClient(client, cfg.SearchTimeout()),
	}
}

// Name identifies the connector inside the registry and in source tags.
func (c *CVLibraryConnector) Name() string { return "cvlibrary" }

// Enabled reports whether a credential is configured.
func (c *CVLibraryConnector) Enabled() bool { return c.apiKey != "" }

// Search fetches the search results page for the job's keywords and extracts
// one raw candidate per result card. Cards without an email are dropped.
func (c *CVLibraryConnector) Search(ctx context.Context, job *domain.Job) ([]domain.RawCandidate, error) {
	if !c.Enabled() {
		return nil, nil
	}

	pageURL, err := buildSearchURL(c.endpoint, c.apiKey, source.Keywords(job.Requirements))
	if err != nil {
		return nil, fmt.Errorf("cvlibrary url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch search page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	var results []domain.RawCandidate
	doc.Find("div.candidate-result").Each(func(_ int, card *goquery.Selection) {
		if raw, ok := parseCard(card); ok {
			results = append(results, raw)
		}
	})

	return results, nil
}

func buildSearchURL(endpoint, apiKey string, keywords []string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("q", strings.Join(keywords, " "))
	q.Set("key", apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func parseCard(card *goquery.Selection) (domain.RawCandidate, bool) {
	email := strings.TrimSpace(card.Find("span.candidate-email").Text())
	if email == "" {
		return domain.RawCandidate{}, false
	}

	raw := domain.RawCandidate{
		Email:           email,
		CurrentPosition: strings.TrimSpace(card.Find("h2.candidate-title").Text()),
		CurrentCompany:  strings.TrimSpace(card.Find("span.candidate-company").Text()),
		Education:       strings.TrimSpace(card.Find("span.candidate-education").Text()),
	}

	name := strings.TrimSpace(card.Find("h3.candidate-name").Text())
	raw.FirstName, raw.LastName = splitName(name)

	if m := experienceExpr.FindStringSubmatch(card.Find("span.candidate-experience").Text()); m != nil {
		if years, err := strconv.ParseFloat(m[1], 64); err == nil {
			raw.ExperienceYears = &years
		}
	}

	card.Find("ul.candidate-skills li").Each(func(_ int, li *goquery.Selection) {
		if skill := strings.TrimSpace(li.Text()); skill != "" {
			raw.Skills = append(raw.Skills, skill)
		}
	})

	return raw, true
}
