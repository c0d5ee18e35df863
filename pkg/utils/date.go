package utils

import "time"

// DateLayout é o formato de data usado em relatórios, exports e na API do Meta
const DateLayout = "2006-01-02"

func ParseDate(dateStr string) (*time.Time, error) {
	var date time.Time

	if dateStr != "" {
		incomingDate, err := time.Parse(DateLayout, dateStr)
		if err != nil {
			return nil, err
		}

		date = incomingDate
	}

	return &date, nil
}
