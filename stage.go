package htmlloader

// Stage is a step of the transform state machine.
type Stage int

// Stages in execution order. Failed is reachable from any stage.
const (
	StageIdle Stage = iota
	StageStripping
	StageTrimming
	StageEnriching
	StageInlining
	StageValidating
	StageCompiling
	StageSerializing
	StageDone
	StageFailed
)

var stageNames = [...]string{
	StageIdle:        "idle",
	StageStripping:   "stripping",
	StageTrimming:    "trimming",
	StageEnriching:   "enriching",
	StageInlining:    "inlining",
	StageValidating:  "validating",
	StageCompiling:   "compiling",
	StageSerializing: "serializing",
	StageDone:        "done",
	StageFailed:      "failed",
}

// String returns the lower-case stage name.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}
