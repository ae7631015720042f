package sentences

import (
	"context"
	"time"
)

type mockGenerator struct {
	count int
}

// NewMockGenerator returns a Generator with canned exam phrases, cycled up to
// the configured count.
func NewMockGenerator(count int) Generator {
	return &mockGenerator{count: count}
}

var mockPhrases = Batch{
	{Text: "Could you review this report?", Reading: "쿠쥬 리뷰 디스 리포트?", Meaning: "이 보고서 좀 검토해 주시겠어요?"},
	{Text: "The meeting has been pushed back.", Reading: "더 미링 해즈 빈 푸쉬트 백.", Meaning: "회의가 미뤄졌습니다."},
	{Text: "I'll transfer you to the sales department.", Reading: "아일 트랜스퍼 유 투 더 세일즈 디파트먼트.", Meaning: "영업부로 연결해 드리겠습니다."},
	{Text: "When is the deadline for the proposal?", Reading: "웬 이즈 더 데드라인 포 더 프로포절?", Meaning: "제안서 마감이 언제인가요?"},
	{Text: "The shipment is scheduled to arrive on Friday.", Reading: "더 쉽먼트 이즈 스케줄드 투 어라이브 온 프라이데이.", Meaning: "배송이 금요일에 도착할 예정입니다."},
}

func (m *mockGenerator) FetchBatch(ctx context.Context, count int) (Batch, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(20 * time.Millisecond):
	}
	if count <= 0 {
		count = m.count
	}
	if count <= 0 {
		count = len(mockPhrases)
	}
	batch := make(Batch, count)
	for i := range batch {
		batch[i] = mockPhrases[i%len(mockPhrases)]
	}
	return batch, nil
}
