package service

import (
	"roidash/internal/modules/report/domain"
	wizarddto "roidash/internal/modules/wizard/dto"
)

// Build derives the client report from a session snapshot. Missing baseline
// or tracking data falls back to the illustrative figures, and a missing
// financial impact to the projected one.
func Build(state wizarddto.SessionState, today string) domain.Report {
	report := domain.Report{
		GeneratedOn:     today,
		TrackingSamples: len(state.TrackingData),
		Integrations:    []string{},
	}
	if state.ClientInfo != nil {
		report.Client = domain.Client{
			Name:      state.ClientInfo.Name,
			Industry:  state.ClientInfo.Industry,
			Contact:   state.ClientInfo.Contact,
			UseCase:   wizarddto.UseCaseTitle(state.ClientInfo.UseCase),
			StartDate: state.ClientInfo.StartDate,
		}
	}
	if state.TrackingStartDate != nil {
		report.TrackingStartDate = *state.TrackingStartDate
	}
	for _, integration := range state.Integrations {
		if integration.Status == wizarddto.StatusConnected {
			report.Integrations = append(report.Integrations, integration.Platform)
		}
	}

	before := wizarddto.SampleBaseline()
	if state.BaselineMetrics != nil {
		before = *state.BaselineMetrics
	}
	after := wizarddto.SampleCurrent()
	if n := len(state.TrackingData); n > 0 {
		after = state.TrackingData[n-1].BaselineMetrics
	}
	report.Comparisons = []domain.Comparison{
		domain.NewComparison("Support Ticket Volume", "tickets/day", domain.Round1(before.TicketVolume/domain.BaselineWindowDays), after.TicketVolume, true),
		domain.NewComparison("Average Handle Time", "minutes", before.AvgHandleTime, after.AvgHandleTime, true),
		domain.NewComparison("First Contact Resolution", "%", before.FCRRate, after.FCRRate, false),
		domain.NewComparison("Customer Satisfaction", "of 5", before.CSAT, after.CSAT, false),
		domain.NewComparison("Cost per Ticket", "$", before.CostPerTicket, after.CostPerTicket, true),
	}

	impact := wizarddto.ProjectedImpact()
	if state.FinancialImpact != nil {
		impact = *state.FinancialImpact
	}
	report.Impact = domain.Impact{
		Savings:          impact.Savings,
		Revenue:          impact.Revenue,
		Combined:         impact.Combined,
		AnnualProjection: impact.Combined * domain.Annualization,
	}
	return report
}
