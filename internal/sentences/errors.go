package sentences

import "fmt"

// UpstreamError reports a failed generation run: either the model call itself
// or parsing its response into the required shape. Either way the whole batch
// is rejected and no track is built.
type UpstreamError struct {
	Op  string // "request" or "parse"
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("sentence generation %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
