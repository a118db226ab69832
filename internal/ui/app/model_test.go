package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	integrationdto "roidash/internal/modules/integration/dto"
	integrationin "roidash/internal/modules/integration/port/in"
	reportdto "roidash/internal/modules/report/dto"
	wizarddto "roidash/internal/modules/wizard/dto"
	"roidash/internal/ui/components"
)

type fakeWizard struct {
	state  wizarddto.SessionState
	gotoTo int
	resets int
}

func (f *fakeWizard) State(context.Context) wizarddto.SessionState { return f.state }
func (f *fakeWizard) Setup(context.Context, wizarddto.SetupInput) (wizarddto.SetupOutput, error) {
	return wizarddto.SetupOutput{CurrentStep: 2}, nil
}
func (f *fakeWizard) CanProceed(context.Context) bool { return false }
func (f *fakeWizard) ProceedToBaseline(context.Context) (wizarddto.StepOutput, error) {
	return wizarddto.StepOutput{Step: 3}, nil
}
func (f *fakeWizard) Baseline() wizarddto.BaselineMetrics { return wizarddto.SampleBaseline() }
func (f *fakeWizard) StartTracking(context.Context) (wizarddto.StepOutput, error) {
	return wizarddto.StepOutput{Step: 4}, nil
}
func (f *fakeWizard) AddTracking(context.Context, string) (wizarddto.TrackingMetrics, error) {
	return wizarddto.TrackingMetrics{}, nil
}
func (f *fakeWizard) ViewReport(context.Context) (wizarddto.StepOutput, error) {
	return wizarddto.StepOutput{Step: 5}, nil
}
func (f *fakeWizard) GoTo(_ context.Context, step int) (wizarddto.StepOutput, error) {
	f.gotoTo = step
	return wizarddto.StepOutput{Step: step}, nil
}
func (f *fakeWizard) Reset(context.Context) { f.resets++ }

type fakeIntegrations struct{}

func (fakeIntegrations) Available(context.Context) ([]integrationdto.OptionInfo, error) {
	return nil, nil
}
func (fakeIntegrations) Connect(context.Context, string) (integrationin.SyncTask, error) {
	return nil, errors.New("not wired")
}

type fakeReports struct{}

func (fakeReports) Show(context.Context) (reportdto.Report, error) { return reportdto.Report{}, nil }
func (fakeReports) Export(context.Context, string, string) (reportdto.ExportOutput, error) {
	return reportdto.ExportOutput{}, nil
}
func (fakeReports) Share(context.Context, string) (reportdto.ShareOutput, error) {
	return reportdto.ShareOutput{}, nil
}

func newTestModel(w *fakeWizard) Model {
	return NewModel("2025-02-10", "", w, fakeIntegrations{}, fakeReports{})
}

func TestStateLoadedShowsFurthestStep(t *testing.T) {
	t.Parallel()
	w := &fakeWizard{state: wizarddto.SessionState{
		ClientInfo:  &wizarddto.ClientInfo{Name: "Acme Corp"},
		CurrentStep: 3,
	}}
	next, cmd := newTestModel(w).Update(stateLoadedMsg{state: w.state})
	m := next.(Model)
	if m.step != stepBaseline || m.reached != stepBaseline {
		t.Fatalf("expected baseline step, got step=%d reached=%d", m.step, m.reached)
	}
	if m.client != "Acme Corp" {
		t.Fatalf("unexpected client %q", m.client)
	}
	if cmd == nil {
		t.Fatal("expected the baseline animation to start")
	}
	if !strings.Contains(m.View(), "Baseline") {
		t.Fatal("step bar should name the baseline step")
	}
}

func TestStepChangedErrorGoesToStatus(t *testing.T) {
	t.Parallel()
	next, cmd := newTestModel(&fakeWizard{}).Update(components.StepChangedMsg{Err: errors.New("setup required")})
	if cmd != nil {
		t.Fatal("expected no follow-up command")
	}
	if got := next.(Model).status; got != "setup required" {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestPaletteCommands(t *testing.T) {
	t.Parallel()
	w := &fakeWizard{}
	m := newTestModel(w)

	next, _ := m.executePalette("step:x")
	if got := next.(Model).status; got != "usage: step:<1-5>" {
		t.Fatalf("unexpected status %q", got)
	}
	next, _ = m.executePalette("bogus")
	if got := next.(Model).status; got != "unknown command: bogus" {
		t.Fatalf("unexpected status %q", got)
	}
	next, _ = m.executePalette("share")
	if got := next.(Model).status; got != "usage: share <email>" {
		t.Fatalf("unexpected status %q", got)
	}

	_, cmd := m.executePalette("step:2")
	msg := cmd()
	changed, ok := msg.(components.StepChangedMsg)
	if !ok || changed.Step != 2 || w.gotoTo != 2 {
		t.Fatalf("unexpected step change %#v (goto %d)", msg, w.gotoTo)
	}

	_, cmd = m.executePalette("reset")
	if _, ok := cmd().(resetDoneMsg); !ok || w.resets != 1 {
		t.Fatalf("expected reset to run once, got %d", w.resets)
	}
}

func TestQuitKeyOutsideSetup(t *testing.T) {
	t.Parallel()
	w := &fakeWizard{state: wizarddto.SessionState{ClientInfo: &wizarddto.ClientInfo{Name: "Acme"}, CurrentStep: 4}}
	next, _ := newTestModel(w).Update(stateLoadedMsg{state: w.state})
	_, cmd := next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit outside the setup form")
	}
}
