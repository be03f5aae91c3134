package utils

// Constants
const (
	DATE_LAYOUT = "2006-01-02"

	// price, from, to, departure date, return date, extra lines
	MSG_TEMPLATE = "✈️ Low Price Alert!\n" +
		"Only %s to fly from %s to %s.\n" +
		"Departure: %s | Return: %s\n" +
		"%s" +
		"Book now!"

	// from, to
	SUBJECT_TEMPLATE = "Low Price Alert: %s to %s"
)
