package hint

import (
	"fmt"
	"strings"
)

// groupClause adds the group name to hint-bearing prompts when one is set.
func groupClause(g WrongGuess) string {
	if g.GroupName == "" {
		return " "
	}
	return fmt.Sprintf(" The group name is %q. ", g.GroupName)
}

// IndividualPrompt builds the prompt for a single wrong guess. When the
// player is down to two or fewer attempts it asks the generator for a real
// hint about the idol without revealing the name; otherwise a tease only.
func IndividualPrompt(g WrongGuess) string {
	base := fmt.Sprintf(
		"%s guessed %q as the kpop idol in the picture, but it's wrong. "+
			"Respond with a short, nerdy, teasing message. Keep it 3 sentences or shorter.",
		g.GuesserName, g.Guess,
	)
	if g.Remaining > 2 {
		return base
	}
	return base + fmt.Sprintf(
		" Give the player a hint about the idol, with a rhyme or in some other "+
			"smart and entertaining way, but never reveal the name. %q is the idol "+
			"they're trying to guess.%s",
		g.Target, groupClause(g),
	)
}

// BatchedPrompt builds the grouped prompt for the guesses queued during a
// cooldown window. Every distinct guess string is listed, in arrival order.
func BatchedPrompt(g WrongGuess, guesses []string) string {
	base := fmt.Sprintf(
		"Multiple people guessed the kpop idol in the picture's name to be (%s) "+
			"but all were wrong. Respond with a short, playful, teasing grouped "+
			"message. Keep it 3 sentences or shorter.",
		strings.Join(distinct(guesses), ", "),
	)
	if g.Remaining > 2 {
		return base
	}
	return base + fmt.Sprintf(
		" Give the players a hint about the idol, with a rhyme or in some other "+
			"smart and entertaining way, but never explicitly say the name or the "+
			"group name. %q is the idol they're trying to guess.%s",
		g.Target, groupClause(g),
	)
}

// distinct removes duplicate guess strings while preserving arrival order.
func distinct(guesses []string) []string {
	seen := make(map[string]bool, len(guesses))
	out := make([]string, 0, len(guesses))
	for _, g := range guesses {
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	return out
}
