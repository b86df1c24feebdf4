package game

import (
	"math/rand"
	"regexp"
)

// JoinCodeLength is the fixed length of a session join code.
const JoinCodeLength = 6

const joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var joinCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// GenerateJoinCode draws a 6-character code over [A-Z0-9]. Uniqueness
// among waiting sessions is the caller's responsibility.
func GenerateJoinCode(rng *rand.Rand) string {
	code := make([]byte, JoinCodeLength)
	for i := range code {
		code[i] = joinCodeAlphabet[rng.Intn(len(joinCodeAlphabet))]
	}
	return string(code)
}

// ValidJoinCode reports whether the code matches the join code format.
func ValidJoinCode(code string) bool {
	return joinCodePattern.MatchString(code)
}
