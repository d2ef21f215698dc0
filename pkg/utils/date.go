package utils

import "time"

const monthKeyLayout = "2006-01"

func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}

// MonthKey derives the YYYY-MM grouping label from a sale date. Lexicographic
// order on the result matches chronological order.
func MonthKey(date time.Time) string {
	return date.Format(monthKeyLayout)
}

// ValidMonthKey reports whether s is a well-formed YYYY-MM label.
func ValidMonthKey(s string) bool {
	_, err := time.Parse(monthKeyLayout, s)
	return err == nil
}
