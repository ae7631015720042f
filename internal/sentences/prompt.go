package sentences

import "fmt"

const promptTemplate = `Pick %d essential English expressions or sentences that appear very frequently in TOEIC Listening (Parts 1, 2, 3).
Focus on %s.

Output ONLY the following JSON format, nothing else:
[
    {"eng": "Could you review this report?", "kor_pron": "쿠쥬 리뷰 디스 리포트?", "mean": "이 보고서 좀 검토해 주시겠어요?"},
    ...
]
Requirement: write 'kor_pron' in Hangul reflecting the connected speech actually heard, not a letter-by-letter reading.`

func buildPrompt(count int, topic string) string {
	return fmt.Sprintf(promptTemplate, count, topic)
}
