// Package forms holds the huh forms shared by the TUI and the CLI.
package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	wizarddto "roidash/internal/modules/wizard/dto"
)

// NewSetupForm builds the client setup form. Answers are written into input,
// whose current values act as defaults.
func NewSetupForm(input *wizarddto.SetupInput) *huh.Form {
	if input.UseCase == "" {
		input.UseCase = string(wizarddto.UseCaseCustomerService)
	}
	if input.Industry == "" {
		input.Industry = wizarddto.Industries()[0]
	}
	if len(input.SelectedMetrics) == 0 {
		input.SelectedMetrics = wizarddto.PreselectedMetrics(wizarddto.UseCase(input.UseCase))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Client name").
				Placeholder("Acme Corp").
				Value(&input.Name).
				Validate(required("client name")),

			huh.NewSelect[string]().
				Title("Industry").
				Options(huh.NewOptions(wizarddto.Industries()...)...).
				Value(&input.Industry),

			huh.NewInput().
				Title("Primary contact").
				Placeholder("Jane Doe, VP Support").
				Value(&input.Contact).
				Validate(required("contact")),
		).Title("Client"),

		huh.NewGroup(
			huh.NewSelect[string]().
				Title("AI use case").
				Options(useCaseOptions()...).
				Value(&input.UseCase),

			huh.NewInput().
				Title("Implementation start date").
				Description("YYYY-MM-DD").
				Value(&input.StartDate).
				Validate(validateStartDate),
		).Title("Engagement"),

		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("KPIs to track").
				Description(fmt.Sprintf("Pick at least %d", wizarddto.MinSelectedMetrics)).
				OptionsFunc(func() []huh.Option[string] {
					return metricOptions(input.UseCase, input.SelectedMetrics)
				}, &input.UseCase).
				Value(&input.SelectedMetrics).
				Validate(validateMetrics),
		).Title("Metrics"),
	).WithTheme(huh.ThemeCatppuccin())
}

func useCaseOptions() []huh.Option[string] {
	useCases := wizarddto.UseCases()
	options := make([]huh.Option[string], 0, len(useCases))
	for _, u := range useCases {
		options = append(options, huh.NewOption(wizarddto.UseCaseTitle(u), string(u)))
	}
	return options
}

// metricOptions lists the suggestions for useCase. Entries already in
// selected start ticked; with nothing selected the defaults are ticked.
func metricOptions(useCase string, selected []string) []huh.Option[string] {
	u := wizarddto.UseCase(useCase)
	ticked := map[string]bool{}
	for _, name := range wizarddto.PreselectedMetrics(u) {
		ticked[name] = true
	}
	suggestions := wizarddto.SuggestedMetrics(u)
	if overlaps(selected, suggestions) {
		ticked = map[string]bool{}
		for _, name := range selected {
			ticked[name] = true
		}
	}
	options := make([]huh.Option[string], 0, len(suggestions))
	for _, name := range suggestions {
		options = append(options, huh.NewOption(name, name).Selected(ticked[name]))
	}
	return options
}

func overlaps(a, b []string) bool {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	for _, v := range a {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}

func required(field string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateStartDate(v string) error {
	if !wizarddto.ValidDate(strings.TrimSpace(v)) {
		return errors.New("use the YYYY-MM-DD format")
	}
	return nil
}

func validateMetrics(v []string) error {
	if len(v) < wizarddto.MinSelectedMetrics {
		return fmt.Errorf("select at least %d metrics", wizarddto.MinSelectedMetrics)
	}
	return nil
}
