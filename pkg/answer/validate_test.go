package answer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edvocate/memshare-go/pkg/answer"
)

func TestValidateAcceptsEachKeyword(t *testing.T) {
	cases := []string{
		"The plan lists several services for your student.",
		"Here are your current goals.",
		"Ask about accommodations at the next review.",
	}

	for _, text := range cases {
		v := answer.Validate(text)
		assert.True(t, v.IsValid, "expected valid: %q", text)
		assert.Empty(t, v.Reason)
	}
}

func TestValidateIsCaseInsensitive(t *testing.T) {
	v := answer.Validate("REVIEW THE GOALS BEFORE THE MEETING")
	assert.True(t, v.IsValid)

	v = answer.Validate("Services And Accommodations")
	assert.True(t, v.IsValid)
}

func TestValidateRejectsOffPolicyText(t *testing.T) {
	v := answer.Validate("The weather is nice today.")
	assert.False(t, v.IsValid)
	assert.NotEmpty(t, v.Reason)
}

func TestValidateRejectsEmptyAnswer(t *testing.T) {
	v := answer.Validate("")
	assert.False(t, v.IsValid)
}

func TestValidateMatchesKeywordInsideLargerWord(t *testing.T) {
	// Substring matching is intentional: "goals" inside "subgoals" counts.
	v := answer.Validate("We broke this into subgoals.")
	assert.True(t, v.IsValid)
}
