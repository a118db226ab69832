package components

// StepChangedMsg is emitted by a step view after it moved the wizard. The
// root model reloads the session and shows Step.
type StepChangedMsg struct {
	Step int
	Err  error
}

// StatusMsg replaces the status bar text.
type StatusMsg struct{ Text string }
