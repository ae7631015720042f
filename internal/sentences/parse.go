package sentences

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseBatch turns a raw model response into a validated batch. Models wrap
// JSON in markdown fences despite being told not to, so those are stripped
// before decoding. Any record missing one of the three fields fails the whole
// batch; the response is a single structured blob, not per-record deliveries.
func ParseBatch(raw string) (Batch, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil, &UpstreamError{Op: "parse", Err: fmt.Errorf("empty response")}
	}

	var batch Batch
	if err := json.Unmarshal([]byte(cleaned), &batch); err != nil {
		return nil, &UpstreamError{Op: "parse", Err: fmt.Errorf("decode sentence list: %w", err)}
	}
	if len(batch) == 0 {
		return nil, &UpstreamError{Op: "parse", Err: fmt.Errorf("response contained no sentences")}
	}
	for i, s := range batch {
		if strings.TrimSpace(s.Text) == "" {
			return nil, &UpstreamError{Op: "parse", Err: fmt.Errorf("record %d missing eng", i)}
		}
		if strings.TrimSpace(s.Reading) == "" {
			return nil, &UpstreamError{Op: "parse", Err: fmt.Errorf("record %d missing kor_pron", i)}
		}
		if strings.TrimSpace(s.Meaning) == "" {
			return nil, &UpstreamError{Op: "parse", Err: fmt.Errorf("record %d missing mean", i)}
		}
	}
	return batch, nil
}
