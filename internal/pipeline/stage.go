// Package pipeline runs one request through the fixed processing graph:
// transcribe, classify, check-ui, optionally locate-element, plan-action and
// synthesize. Stages communicate only through the request record; internal
// failures become the record's error field and never abort the run.
package pipeline

import (
	"context"

	"github.com/aura-assist/aura-backend/internal/types"
)

// Stage names, also used as timing and metric labels.
const (
	StageTranscribe = "transcribe"
	StageClassify   = "classify"
	StageCheckUI    = "check_ui"
	StageLocate     = "locate_element"
	StagePlan       = "plan_action"
	StageSynthesize = "synthesize"
)

// Stage is one step of the processing graph. Run receives the record by
// value and returns the extended copy; it must not return until it has either
// done its work or converted the failure into record.Error.
type Stage interface {
	Name() string
	Run(ctx context.Context, record types.RequestRecord) types.RequestRecord
}
