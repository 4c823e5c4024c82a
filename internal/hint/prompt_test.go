package hint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndividualPrompt_TeaseOnly(t *testing.T) {
	p := IndividualPrompt(WrongGuess{
		Guess:       "bria",
		GuesserName: "mina",
		Remaining:   5,
		Target:      "aria",
		GroupName:   "brightstars",
	})

	assert.Contains(t, p, `"bria"`)
	assert.Contains(t, p, "mina")
	// With headroom left the prompt must not leak the answer
	assert.NotContains(t, p, "aria")
	assert.NotContains(t, p, "brightstars")
}

func TestIndividualPrompt_HintWhenLowOnAttempts(t *testing.T) {
	for _, remaining := range []int{2, 1, 0} {
		p := IndividualPrompt(WrongGuess{
			Guess:       "bria",
			GuesserName: "mina",
			Remaining:   remaining,
			Target:      "aria",
			GroupName:   "brightstars",
		})

		assert.Contains(t, p, `"aria"`, "remaining=%d", remaining)
		assert.Contains(t, p, `"brightstars"`, "remaining=%d", remaining)
		assert.Contains(t, p, "never reveal the name", "remaining=%d", remaining)
	}
}

func TestIndividualPrompt_NoGroupClause(t *testing.T) {
	p := IndividualPrompt(WrongGuess{
		Guess:       "bria",
		GuesserName: "mina",
		Remaining:   1,
		Target:      "aria",
	})

	assert.Contains(t, p, `"aria"`)
	assert.NotContains(t, p, "group name")
}

func TestBatchedPrompt(t *testing.T) {
	g := WrongGuess{
		GuesserName: "mina",
		Remaining:   5,
		Target:      "aria",
		GroupName:   "brightstars",
	}

	p := BatchedPrompt(g, []string{"bria", "tria", "bria", "dria"})

	assert.Contains(t, p, "Multiple people")
	assert.Contains(t, p, "(bria, tria, dria)", "duplicates removed, order preserved")
	assert.NotContains(t, p, "aria\"", "no hint content with headroom left")

	g.Remaining = 2
	p = BatchedPrompt(g, []string{"bria"})
	assert.Contains(t, p, `"aria"`)
	assert.Contains(t, p, "never explicitly say the name")
}

func TestDistinct(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, distinct([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, distinct(nil))
}
