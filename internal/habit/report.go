package habit

import (
	"fmt"
	"strings"
	"time"
)

// Markdown renders a user's active habits as a Markdown document.
// Deleted habits are skipped even if present in the slice.
func Markdown(phone string, habits []Habit) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Habits for %s\n\n", escapeMarkdown(phone))

	active := make([]Habit, 0, len(habits))
	for _, h := range habits {
		if h.Active() {
			active = append(active, h)
		}
	}

	if len(active) == 0 {
		b.WriteString("_No active habits._\n")
		return b.String()
	}

	b.WriteString("| Habit | Frequency | Since |\n")
	b.WriteString("|---|---|---|\n")
	for _, h := range active {
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			escapeMarkdown(h.HabitName),
			DescribeFrequency(h.FrequencyType, h.FrequencyTimes),
			time.Unix(h.CreatedAt, 0).UTC().Format("2006-01-02"),
		)
	}

	word := "habit"
	if len(active) > 1 {
		word = "habits"
	}
	fmt.Fprintf(&b, "\n%d active %s.\n", len(active), word)

	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", "&lt;",
	">", "&gt;",
)

// escapeMarkdown neutralizes characters that would change table or inline
// formatting. User text must never inject raw HTML into the report.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
