package answer

import (
	"fmt"
	"strings"
)

// RequiredKeywords is the fixed keyword set of the output content policy.
// An answer is acceptable iff it mentions at least one of these,
// case-insensitively.
var RequiredKeywords = []string{"services", "goals", "accommodations"}

// Validation is the result of checking an answer against the content policy.
type Validation struct {
	// IsValid reports whether the answer passed the policy.
	IsValid bool `json:"isValid"`

	// Reason describes the failure. Empty when IsValid is true.
	Reason string `json:"reason,omitempty"`
}

// Validate checks an answer against the output content policy.
//
// The policy exists as a guardrail against a future non-deterministic
// generator producing off-topic content. The rule-based generator's default
// branch always satisfies it, but the check is enforced on every answer
// regardless of which generator produced it.
func Validate(text string) Validation {
	lower := strings.ToLower(text)
	for _, keyword := range RequiredKeywords {
		if strings.Contains(lower, keyword) {
			return Validation{IsValid: true}
		}
	}
	return Validation{
		IsValid: false,
		Reason:  fmt.Sprintf("answer does not mention any of the required topics: %s", strings.Join(RequiredKeywords, ", ")),
	}
}
