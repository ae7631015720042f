package track

import "strings"

var flattener = strings.NewReplacer("?", ".", "!", ".")

// FlattenIntonation rewrites question and exclamation marks to periods so the
// synthesized voice reads the text as flat declarative speech. A phonetic
// guide spoken with a question-like rise sounds wrong; only punctuation
// changes, every other character is kept.
func FlattenIntonation(s string) string {
	return flattener.Replace(s)
}
