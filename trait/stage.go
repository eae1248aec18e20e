package trait

//go:generate go tool stringer -type=Stage -trimprefix=Stage -output=stage_string.go

// Stage identifies which evaluator stage produced a result.
type Stage uint8

const (
	// StageNone means no mapping applied and the result is INVALID.
	StageNone Stage = iota
	// StageIndexed is the index-specific stage (Eval1).
	StageIndexed
	// StageUniform is the index-independent stage (Eval2).
	StageUniform
)
