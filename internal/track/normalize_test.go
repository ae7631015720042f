package track

import "testing"

func TestFlattenIntonation(t *testing.T) {
	cases := map[string]string{
		"Could you review this?":    "Could you review this.",
		"Great!":                    "Great.",
		"What?! Really?!":           "What.. Really..",
		"이 보고서 좀 검토해 주시겠어요?":        "이 보고서 좀 검토해 주시겠어요.",
		"No punctuation to change.": "No punctuation to change.",
		"":                          "",
	}
	for in, want := range cases {
		if got := FlattenIntonation(in); got != want {
			t.Fatalf("FlattenIntonation(%q) = %q, want %q", in, got, want)
		}
	}
}
