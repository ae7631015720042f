package speech

import "fmt"

// SynthesisError reports a failed speech conversion. Callers abort the whole
// run on any instance; there is no per-item skip.
type SynthesisError struct {
	Language string
	Err      error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesis failed (%s): %v", e.Language, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }
