package domain

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	wizarddto "roidash/internal/modules/wizard/dto"
)

var (
	ErrConnectorDisabled = errors.New("connector is disabled")
	ErrChecksumMismatch  = errors.New("connector checksum mismatch")
	ErrConnectorTimeout  = errors.New("connector timeout")
)

// Option is one platform the client can connect during the integrations step.
type Option struct {
	ID           string
	Name         string
	Description  string
	MetricsCount int
	Recommended  bool
	Connector    string
}

func (o Option) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("option id is required")
	}
	if o.Name == "" {
		return fmt.Errorf("option name is required")
	}
	if o.MetricsCount < 0 {
		return fmt.Errorf("metrics count must not be negative: %d", o.MetricsCount)
	}
	return nil
}

var builtinOptions = map[wizarddto.UseCase][]Option{
	wizarddto.UseCaseCustomerService: {
		{ID: "zendesk", Name: "Zendesk", Description: "Customer support ticket data, resolution times, CSAT scores", MetricsCount: 5, Recommended: true},
		{ID: "intercom", Name: "Intercom", Description: "Live chat metrics, response times, customer conversations", MetricsCount: 4},
		{ID: "hubspot", Name: "HubSpot Service Hub", Description: "Customer service pipeline, ticket analytics", MetricsCount: 3},
		{ID: "analytics", Name: "Google Analytics", Description: "Website traffic and user behavior data", MetricsCount: 2},
	},
	wizarddto.UseCaseSales: {
		{ID: "salesforce", Name: "Salesforce", Description: "CRM data, pipeline metrics, deal tracking", MetricsCount: 5, Recommended: true},
	},
	wizarddto.UseCaseMarketing: {
		{ID: "hubspot_marketing", Name: "HubSpot Marketing", Description: "Campaign performance, lead generation, email metrics", MetricsCount: 5, Recommended: true},
	},
}

// BuiltinOptions returns a copy of the shipped catalog for useCase. Use cases
// without a catalog yield an empty list.
func BuiltinOptions(useCase wizarddto.UseCase) []Option {
	return append([]Option{}, builtinOptions[useCase]...)
}

// MergeOptions appends extra to base, skipping ids already taken. The result
// lists recommended options first and keeps the input order otherwise.
func MergeOptions(base []Option, extra []Option) []Option {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]Option, 0, len(base)+len(extra))
	for _, group := range [][]Option{base, extra} {
		for _, option := range group {
			if _, ok := seen[option.ID]; ok {
				continue
			}
			seen[option.ID] = struct{}{}
			out = append(out, option)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Recommended && !out[j].Recommended
	})
	return out
}

// Progression advances sync progress by a fixed step per tick.
type Progression struct {
	Step int
}

func (p Progression) Next(progress int) int {
	step := p.Step
	if step <= 0 {
		step = 1
	}
	return wizarddto.ClampProgress(progress + step)
}

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest describes an external connector binary.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Binary  string `json:"binary"`
	SHA256  string `json:"sha256"`
	Enabled bool   `json:"enabled"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("connector name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("connector version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("connector binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("connector sha256 must be lowercase 64-char hex")
	}
	return nil
}

type Metadata struct {
	Name    string
	Version string
}

// Platform is what a connector reports for one use case.
type Platform struct {
	ID           string
	Name         string
	Description  string
	MetricsCount int
	Recommended  bool
}

func (p Platform) Option(connector string) Option {
	return Option{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		MetricsCount: p.MetricsCount,
		Recommended:  p.Recommended,
		Connector:    connector,
	}
}
