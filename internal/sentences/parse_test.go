package sentences

import (
	"context"
	"errors"
	"testing"
)

const fencedResponse = "```json\n" + `[
    {"eng": "Could you review this report?", "kor_pron": "쿠쥬 리뷰 디스 리포트?", "mean": "이 보고서 좀 검토해 주시겠어요?"},
    {"eng": "The meeting has been pushed back.", "kor_pron": "더 미링 해즈 빈 푸쉬트 백.", "mean": "회의가 미뤄졌습니다."}
]` + "\n```"

func TestParseBatchStripsFences(t *testing.T) {
	batch, err := ParseBatch(fencedResponse)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("expected 2 sentences, got %d", len(batch))
	}
	if batch[0].Text != "Could you review this report?" {
		t.Fatalf("unexpected first sentence: %q", batch[0].Text)
	}
	if batch[1].Meaning != "회의가 미뤄졌습니다." {
		t.Fatalf("unexpected meaning: %q", batch[1].Meaning)
	}
}

func TestParseBatchRejectsNonJSON(t *testing.T) {
	_, err := ParseBatch("not json")
	if err == nil {
		t.Fatal("expected parse error")
	}
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %T", err)
	}
	if upstream.Op != "parse" {
		t.Fatalf("expected parse op, got %q", upstream.Op)
	}
}

func TestParseBatchRejectsMissingField(t *testing.T) {
	_, err := ParseBatch(`[{"eng": "Hello.", "kor_pron": "헬로.", "mean": ""}]`)
	if err == nil {
		t.Fatal("expected error for empty field")
	}
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %T", err)
	}
}

func TestParseBatchRejectsEmptyList(t *testing.T) {
	if _, err := ParseBatch("[]"); err == nil {
		t.Fatal("expected error for empty list")
	}
}

func TestMockGeneratorCount(t *testing.T) {
	gen := NewMockGenerator(5)
	batch, err := gen.FetchBatch(context.Background(), 0)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(batch) != 5 {
		t.Fatalf("expected 5 sentences, got %d", len(batch))
	}
	for i, s := range batch {
		if s.Text == "" || s.Reading == "" || s.Meaning == "" {
			t.Fatalf("record %d has empty fields: %+v", i, s)
		}
	}
}

func TestMockGeneratorPerCallCount(t *testing.T) {
	gen := NewMockGenerator(5)

	batch, err := gen.FetchBatch(context.Background(), 2)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("expected per-call count to win, got %d sentences", len(batch))
	}

	batch, err = gen.FetchBatch(context.Background(), 7)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(batch) != 7 {
		t.Fatalf("expected 7 sentences, got %d", len(batch))
	}
}
