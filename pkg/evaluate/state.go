package evaluate

// State is the stage of an evaluator
type State int

const (
	NoModel State = iota
	ModelLoaded
	Evaluating
	Done
)

func (s State) String() string {
	switch s {
	case NoModel:
		return "no-model"
	case ModelLoaded:
		return "model-loaded"
	case Evaluating:
		return "evaluating"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}
