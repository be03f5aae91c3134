package utils

import "strings"

var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatPrice prefixes amount with the currency symbol, or with the ISO code
// and a space when no symbol is known
func FormatPrice(currency, amount string) string {
	code := strings.ToUpper(currency)
	if symbol, ok := currencySymbols[code]; ok {
		return symbol + amount
	}
	if code == "" {
		return amount
	}
	return code + " " + amount
}
