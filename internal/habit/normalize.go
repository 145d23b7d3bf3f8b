package habit

import (
	"strconv"
	"strings"
)

// NormalizePhone trims surrounding whitespace from a phone number.
// The number is otherwise kept as given: it is an opaque identity key.
func NormalizePhone(s string) string {
	return strings.TrimSpace(s)
}

// FormatTimes renders an optional count for storage.
// Absent counts become "" rather than NULL.
func FormatTimes(times *int) string {
	if times == nil {
		return ""
	}
	return strconv.Itoa(*times)
}

// DescribeFrequency renders a frequency for humans, e.g. "3 times a day".
func DescribeFrequency(frequencyType, frequencyTimes string) string {
	switch frequencyType {
	case FrequencyDaily:
		return "every day"
	case FrequencyWeekly:
		return "every week"
	case FrequencyTimesPerDay:
		if frequencyTimes == "" || frequencyTimes == "1" {
			return "once a day"
		}
		return frequencyTimes + " times a day"
	case "":
		return "unspecified"
	}
	if frequencyTimes != "" {
		return frequencyType + " (" + frequencyTimes + ")"
	}
	return frequencyType
}
