package domain

import (
	"fmt"
	"time"
)

// SlotKey names the single durable slot that holds a whole session.
const SlotKey = "roiDashboardState"

// DateLayout is the format of every date-string in the session.
const DateLayout = time.DateOnly

const (
	FirstStep = 1
	LastStep  = 5
)

type UseCase string

const (
	UseCaseCustomerService UseCase = "customer_service"
	UseCaseSales           UseCase = "sales"
	UseCaseMarketing       UseCase = "marketing"
	UseCaseFinance         UseCase = "finance"
	UseCaseOperations      UseCase = "operations"
)

var UseCases = []UseCase{
	UseCaseCustomerService,
	UseCaseSales,
	UseCaseMarketing,
	UseCaseFinance,
	UseCaseOperations,
}

func (u UseCase) Validate() error {
	for _, known := range UseCases {
		if u == known {
			return nil
		}
	}
	return fmt.Errorf("unknown use case: %q", u)
}

type IntegrationStatus string

const (
	StatusNotConnected IntegrationStatus = "not_connected"
	StatusConnecting   IntegrationStatus = "connecting"
	StatusConnected    IntegrationStatus = "connected"
)

func (s IntegrationStatus) Validate() error {
	switch s {
	case StatusNotConnected, StatusConnecting, StatusConnected:
		return nil
	default:
		return fmt.Errorf("unknown integration status: %q", s)
	}
}

type ClientInfo struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	Industry  string  `json:"industry"`
	Contact   string  `json:"contact"`
	UseCase   UseCase `json:"useCase"`
	StartDate string  `json:"startDate"`
}

func (c ClientInfo) Validate() error {
	switch {
	case c.Name == "":
		return fmt.Errorf("client name is required")
	case c.Industry == "":
		return fmt.Errorf("industry is required")
	case c.Contact == "":
		return fmt.Errorf("contact is required")
	}
	if err := c.UseCase.Validate(); err != nil {
		return err
	}
	if !ValidDate(c.StartDate) {
		return fmt.Errorf("start date must be YYYY-MM-DD: %q", c.StartDate)
	}
	return nil
}

func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

type SelectedMetric struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

type Integration struct {
	Platform         string            `json:"platform"`
	Status           IntegrationStatus `json:"status"`
	MetricsAvailable int               `json:"metricsAvailable"`
	SyncProgress     int               `json:"syncProgress"`
}

// Validate applies the checks a persisted state must pass on load.
func (i Integration) Validate() error {
	if i.Platform == "" {
		return fmt.Errorf("integration platform is required")
	}
	if err := i.Status.Validate(); err != nil {
		return fmt.Errorf("integration %s: %w", i.Platform, err)
	}
	if i.SyncProgress < 0 || i.SyncProgress > 100 {
		return fmt.Errorf("sync progress out of range for %s: %d", i.Platform, i.SyncProgress)
	}
	return nil
}

// Synced reports whether the integration reached the terminal sync state.
func (i Integration) Synced() bool {
	return i.SyncProgress >= 100
}

// IntegrationPatch carries the fields to merge into an existing Integration.
// Nil fields are left untouched.
type IntegrationPatch struct {
	Status           *IntegrationStatus
	MetricsAvailable *int
	SyncProgress     *int
}

// Validate rejects a patch whose status is outside the enum.
func (p IntegrationPatch) Validate() error {
	if p.Status != nil {
		return p.Status.Validate()
	}
	return nil
}

func (p IntegrationPatch) Apply(current Integration) Integration {
	next := current
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.MetricsAvailable != nil {
		next.MetricsAvailable = max(*p.MetricsAvailable, 0)
	}
	if p.SyncProgress != nil {
		next.SyncProgress = ClampProgress(*p.SyncProgress)
	}
	return next
}

func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

type BaselineMetrics struct {
	TicketVolume  float64 `json:"ticketVolume"`
	AvgHandleTime float64 `json:"avgHandleTime"`
	FCRRate       float64 `json:"fcrRate"`
	CSAT          float64 `json:"csat"`
	CostPerTicket float64 `json:"costPerTicket"`
}

type TrackingMetrics struct {
	BaselineMetrics
	Date string `json:"date"`
}

type FinancialImpact struct {
	Savings  float64 `json:"savings"`
	Revenue  float64 `json:"revenue"`
	Combined float64 `json:"combined"`
}

// SessionState is the whole wizard session. Every field is always present
// in its JSON form: lists as [] and absent records as null.
type SessionState struct {
	ClientInfo        *ClientInfo       `json:"clientInfo"`
	SelectedMetrics   []SelectedMetric  `json:"selectedMetrics"`
	Integrations      []Integration     `json:"integrations"`
	BaselineMetrics   *BaselineMetrics  `json:"baselineMetrics"`
	TrackingData      []TrackingMetrics `json:"trackingData"`
	FinancialImpact   *FinancialImpact  `json:"financialImpact"`
	CurrentStep       int               `json:"currentStep"`
	TrackingStartDate *string           `json:"trackingStartDate"`
}

func DefaultState() SessionState {
	return SessionState{
		SelectedMetrics: []SelectedMetric{},
		Integrations:    []Integration{},
		TrackingData:    []TrackingMetrics{},
		CurrentStep:     FirstStep,
	}
}

// Clone returns a deep copy so that callers never share backing arrays or
// pointed-to records with the store.
func (s SessionState) Clone() SessionState {
	out := SessionState{
		SelectedMetrics: append([]SelectedMetric{}, s.SelectedMetrics...),
		Integrations:    append([]Integration{}, s.Integrations...),
		TrackingData:    append([]TrackingMetrics{}, s.TrackingData...),
		CurrentStep:     s.CurrentStep,
	}
	if s.ClientInfo != nil {
		c := *s.ClientInfo
		out.ClientInfo = &c
	}
	if s.BaselineMetrics != nil {
		b := *s.BaselineMetrics
		out.BaselineMetrics = &b
	}
	if s.FinancialImpact != nil {
		f := *s.FinancialImpact
		out.FinancialImpact = &f
	}
	if s.TrackingStartDate != nil {
		d := *s.TrackingStartDate
		out.TrackingStartDate = &d
	}
	return out
}

// FindIntegration returns the index of platform, or -1.
func (s SessionState) FindIntegration(platform string) int {
	for i, integration := range s.Integrations {
		if integration.Platform == platform {
			return i
		}
	}
	return -1
}

// Normalize repairs a decoded state so it satisfies the in-memory shape:
// nil lists become empty and the step falls back to the first one.
func (s SessionState) Normalize() SessionState {
	if s.SelectedMetrics == nil {
		s.SelectedMetrics = []SelectedMetric{}
	}
	if s.Integrations == nil {
		s.Integrations = []Integration{}
	}
	if s.TrackingData == nil {
		s.TrackingData = []TrackingMetrics{}
	}
	if s.CurrentStep == 0 {
		s.CurrentStep = FirstStep
	}
	return s
}

// ValidateStep reports whether step is one of the wizard steps.
func ValidateStep(step int) error {
	if step < FirstStep || step > LastStep {
		return fmt.Errorf("current step out of range: %d", step)
	}
	return nil
}

// Validate is the schema check applied to a persisted state on load. The
// store applies the same checks to every mutation, so anything it accepted
// loads back.
func (s SessionState) Validate() error {
	if err := ValidateStep(s.CurrentStep); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(s.Integrations))
	for _, integration := range s.Integrations {
		if err := integration.Validate(); err != nil {
			return err
		}
		if _, dup := seen[integration.Platform]; dup {
			return fmt.Errorf("duplicate integration platform: %s", integration.Platform)
		}
		seen[integration.Platform] = struct{}{}
	}
	return nil
}
