package utils

import (
	"strings"
	"time"
)

type DateFormat string

const (
	FormatISO8601Date     DateFormat = "2006-01-02"
	FormatISO8601Minutes  DateFormat = "2006-01-02T15:04"
	FormatISO8601Seconds  DateFormat = "2006-01-02T15:04:05"
	FormatISO8601         DateFormat = "2006-01-02T15:04:05Z07:00"
	FormatISO8601SpaceSec DateFormat = "2006-01-02 15:04:05"
)

// isoFormats are the ISO-8601 shapes accepted for a calendar date. A value
// with a time part is truncated to its date.
var isoFormats = []DateFormat{
	FormatISO8601Date,
	FormatISO8601Minutes,
	FormatISO8601Seconds,
	FormatISO8601,
	FormatISO8601SpaceSec,
}

type ValidationResult struct {
	IsValid        bool
	DetectedFormat DateFormat
	ParsedTime     time.Time
	OriginalValue  string
}

// ValidateISODate parses input as an ISO-8601 date or date-time and returns
// the calendar date at UTC midnight.
func ValidateISODate(input string) ValidationResult {
	result := ValidationResult{OriginalValue: input}

	input = strings.TrimSpace(input)
	if input == "" {
		return result
	}

	for _, format := range isoFormats {
		parsed, err := time.Parse(string(format), input)
		if err != nil {
			continue
		}
		result.IsValid = true
		result.DetectedFormat = format
		result.ParsedTime = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
		return result
	}

	return result
}
