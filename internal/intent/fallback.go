package intent

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/hpungsan/nudge/internal/habit"
)

// Rule is one step of the fallback analyzer. Rules run in order against the
// lower-cased text and the first one whose Match fires builds the Intent.
type Rule struct {
	Name  string
	Match func(lower string) bool
	Build func(lower string) Intent
}

var (
	listKeywords   = []string{"list", "show", "my habits", "what are"}
	deleteKeywords = []string{"delete", "remove", "stop", "cancel"}

	// Filler removed from create requests, first occurrence each, in order.
	createFiller = []string{"i want to", "remind me to", "daily", "every day"}

	timesCountRegex = regexp.MustCompile(`(\d+)\s+times`)
	timesADayRegex  = regexp.MustCompile(`(\d+)\s+times a day`)
)

// rules is the fallback priority order: list, then delete. Text matching
// neither is a create.
var rules = []Rule{
	{Name: "list", Match: containsAny(listKeywords), Build: buildList},
	{Name: "delete", Match: containsAny(deleteKeywords), Build: buildDelete},
}

// Analyze interprets text with keyword and pattern rules only.
// It is deterministic and never fails. It never produces ActionUpdate.
func Analyze(text string) Intent {
	lower := strings.ToLower(text)
	for _, r := range rules {
		if r.Match(lower) {
			return r.Build(lower)
		}
	}
	return buildCreate(lower)
}

func containsAny(keywords []string) func(string) bool {
	return func(s string) bool {
		for _, k := range keywords {
			if strings.Contains(s, k) {
				return true
			}
		}
		return false
	}
}

func buildList(string) Intent {
	return Intent{Action: ActionList}
}

// buildDelete takes everything after the first word that is exactly a delete
// keyword. If no whole word matches (the rule fired on a substring such as
// "stopping"), every word is kept.
func buildDelete(lower string) Intent {
	words := strings.Fields(lower)
	idx := slices.IndexFunc(words, func(w string) bool {
		return slices.Contains(deleteKeywords, w)
	})

	name := strings.TrimSpace(strings.Join(words[idx+1:], " "))
	if name == "" {
		name = UnknownHabitName
	}

	return Intent{Action: ActionDelete, HabitName: name}
}

func buildCreate(lower string) Intent {
	frequencyType := habit.FrequencyDaily
	times := 1

	switch {
	case strings.Contains(lower, "weekly") || strings.Contains(lower, "week"):
		frequencyType = habit.FrequencyWeekly
	case strings.Contains(lower, "times"):
		frequencyType = habit.FrequencyTimesPerDay
		if m := timesCountRegex.FindStringSubmatch(lower); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				// Count out of range: keep the habit, drop the count.
				frequencyType = habit.FrequencyDaily
				break
			}
			times = n
		}
	}

	return Intent{
		Action:         ActionCreate,
		HabitName:      cleanHabitName(lower),
		FrequencyType:  frequencyType,
		FrequencyTimes: &times,
	}
}

// cleanHabitName strips known filler. Removal is substring based, so words
// that merely contain filler are altered too; this is a best-effort guess.
func cleanHabitName(lower string) string {
	name := lower
	for _, f := range createFiller {
		name = strings.Replace(name, f, "", 1)
	}
	if loc := timesADayRegex.FindStringIndex(name); loc != nil {
		name = name[:loc[0]] + name[loc[1]:]
	}
	return strings.TrimSpace(name)
}
