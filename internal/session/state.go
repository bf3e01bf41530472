package session

import "github.com/spigell/pathfinder/internal/report"

// Phase names a session state for logs and JSON views.
type Phase string

const (
	PhaseIntro     Phase = "intro"
	PhaseTesting   Phase = "testing"
	PhaseAnalyzing Phase = "analyzing"
	PhaseResults   Phase = "results"
	PhaseError     Phase = "error"
)

// State is one of Intro, Testing, Analyzing, Results or Failed.
// Only Results carries a report and only Failed carries a message.
type State interface {
	Phase() Phase
	state()
}

type Intro struct{}

// Testing holds the zero-based index of the displayed question.
type Testing struct {
	Index int
}

type Analyzing struct{}

type Results struct {
	Report *report.Report
}

// Failed holds the message shown on the error screen.
type Failed struct {
	Message string
}

func (Intro) Phase() Phase     { return PhaseIntro }
func (Testing) Phase() Phase   { return PhaseTesting }
func (Analyzing) Phase() Phase { return PhaseAnalyzing }
func (Results) Phase() Phase   { return PhaseResults }
func (Failed) Phase() Phase    { return PhaseError }

func (Intro) state()     {}
func (Testing) state()   {}
func (Analyzing) state() {}
func (Results) state()   {}
func (Failed) state()    {}
