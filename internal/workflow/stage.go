package workflow

// Stage is one of the mutually exclusive states in the acquisition
// state machine. Exactly one stage is active at a time.
type Stage int

// Workflow stages in their usual forward order.
const (
	StageLanding Stage = iota
	StageWelcome
	StageCamera
	StageProcessing
	StageCurrencySelect
	StageResult
	StageComparing
)

// String returns the stage name for logs and errors.
func (s Stage) String() string {
	switch s {
	case StageLanding:
		return "landing"
	case StageWelcome:
		return "welcome"
	case StageCamera:
		return "camera"
	case StageProcessing:
		return "processing"
	case StageCurrencySelect:
		return "currency-select"
	case StageResult:
		return "result"
	case StageComparing:
		return "comparing"
	default:
		return "unknown"
	}
}
