package domain

// Stage enumerates the workflow lifecycle phases. Exactly one stage is
// current at any time; movement is strictly forward except Back
// (Customize -> Upload), Reset (any -> Upload), and the automatic
// Generating -> Customize fallback when a generation attempt fails.
type Stage string

const (
	StageUpload     Stage = "upload"
	StageCustomize  Stage = "customize"
	StageGenerating Stage = "generating"
	StageResults    Stage = "results"
)

// Valid reports whether the stage is one of the known phases.
func (s Stage) Valid() bool {
	switch s {
	case StageUpload, StageCustomize, StageGenerating, StageResults:
		return true
	}
	return false
}
