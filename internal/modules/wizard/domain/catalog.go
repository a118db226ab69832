package domain

// MinSelectedMetrics is the fewest KPIs a client can track.
const MinSelectedMetrics = 3

// preselected is how many suggestions start out ticked.
const preselected = 5

// DefaultTrackingStartDate is used when the client record carries no start date.
const DefaultTrackingStartDate = "2025-09-15"

var metricSuggestions = map[UseCase][]string{
	UseCaseCustomerService: {
		"Support Ticket Volume (monthly count)",
		"Average Handle Time (minutes per ticket)",
		"First Contact Resolution Rate (%)",
		"Customer Satisfaction Score (CSAT)",
		"Support Cost per Ticket ($)",
		"Agent Productivity (tickets per hour)",
		"Response Time (minutes)",
		"Escalation Rate (%)",
	},
	UseCaseSales: {
		"Lead Conversion Rate (%)",
		"Average Deal Size ($)",
		"Sales Cycle Length (days)",
		"Win Rate (%)",
		"Pipeline Velocity",
		"Quote-to-Close Time (days)",
	},
	UseCaseMarketing: {
		"Campaign Conversion Rate (%)",
		"Cost per Acquisition ($)",
		"Email Open Rate (%)",
		"Click-Through Rate (%)",
		"Marketing Qualified Leads (MQLs)",
	},
	UseCaseFinance: {
		"Forecast Accuracy (%)",
		"Processing Time (hours)",
		"Error Rate (%)",
		"Cost per Transaction ($)",
	},
	UseCaseOperations: {
		"Process Cycle Time (hours)",
		"Error Rate (%)",
		"Throughput (units per day)",
		"Operating Cost ($)",
		"Resource Utilization (%)",
	},
}

var Industries = []string{"SaaS", "E-commerce", "Manufacturing", "Healthcare", "Financial Services"}

// UseCaseTitles labels each use case for forms and reports.
var UseCaseTitles = map[UseCase]string{
	UseCaseCustomerService: "Customer Service Automation",
	UseCaseSales:           "Sales Process Optimization",
	UseCaseMarketing:       "Marketing Personalization",
	UseCaseFinance:         "Financial Forecasting",
	UseCaseOperations:      "Operations Efficiency",
}

// SuggestedMetrics returns a copy of the KPI suggestions for u.
func SuggestedMetrics(u UseCase) []string {
	return append([]string{}, metricSuggestions[u]...)
}

// PreselectedMetrics returns the suggestions that start out selected.
func PreselectedMetrics(u UseCase) []string {
	all := SuggestedMetrics(u)
	if len(all) > preselected {
		all = all[:preselected]
	}
	return all
}

// SampleBaseline is the illustrative 90-day pre-implementation snapshot.
func SampleBaseline() BaselineMetrics {
	return BaselineMetrics{
		TicketVolume:  2847,
		AvgHandleTime: 47.3,
		FCRRate:       42.7,
		CSAT:          3.2,
		CostPerTicket: 23.40,
	}
}

// SampleCurrent is the illustrative post-implementation performance.
func SampleCurrent() BaselineMetrics {
	return BaselineMetrics{
		TicketVolume:  21.3,
		AvgHandleTime: 29.8,
		FCRRate:       71.4,
		CSAT:          4.6,
		CostPerTicket: 14.70,
	}
}

// ProjectedImpact is the illustrative quarterly savings and revenue figure.
func ProjectedImpact() FinancialImpact {
	const savings, revenue = 25504, 34200
	return FinancialImpact{Savings: savings, Revenue: revenue, Combined: savings + revenue}
}

// MinSyncProgressToProceed is how far one connected integration must have
// synced before baseline collection can start.
const MinSyncProgressToProceed = 30

// ReadyForBaseline reports whether some integration is connected and synced
// far enough.
func (s SessionState) ReadyForBaseline() bool {
	for _, integration := range s.Integrations {
		if integration.Status == StatusConnected && integration.SyncProgress >= MinSyncProgressToProceed {
			return true
		}
	}
	return false
}
