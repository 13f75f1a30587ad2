package cleaning

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	apierrors "zomatour/internal/errors"
)

// Lookup table names, used in error context
const (
	TableCountry  = "country code"
	TableColor    = "rating color"
	TableCurrency = "currency"
)

// Spellings follow the source dataset's documentation
var countries = map[int]string{
	1:   "India",
	14:  "Australia",
	30:  "Brazil",
	37:  "Canada",
	94:  "Indonesia",
	148: "New Zeland",
	162: "Philippines",
	166: "Qatar",
	184: "Singapure",
	189: "South Africa",
	191: "Sri Lanka",
	208: "Turkey",
	214: "United Arab Emirates",
	215: "England",
	216: "United States of America",
}

var colors = map[string]string{
	"3F7E00": "darkgreen",
	"5BA829": "green",
	"9ACD32": "lightgreen",
	"CDD614": "lemon",
	"FFBA00": "yellow",
	"CBCBC8": "gray",
	"FF7800": "orange",
}

var ratingTexts = map[string]string{
	"darkgreen":  "Excellent",
	"green":      "Very Good",
	"lightgreen": "Good",
	"lemon":      "Average",
	"yellow":     "Average",
	"gray":       "Not rated",
	"orange":     "Poor",
}

var dollarMultipliers = map[string]decimal.Decimal{
	"Botswana Pula(P)":       decimal.RequireFromString("0.076"),
	"Brazilian Real(R$)":     decimal.RequireFromString("0.21"),
	"Dollar($)":              decimal.RequireFromString("1.0"),
	"Emirati Diram(AED)":     decimal.RequireFromString("0.27"),
	"Indian Rupees(Rs.)":     decimal.RequireFromString("0.012"),
	"Indonesian Rupiah(IDR)": decimal.RequireFromString("0.000067"),
	"NewZealand($)":          decimal.RequireFromString("0.64"),
	"Pounds(£)":              decimal.RequireFromString("1.31"),
	"Qatari Rial(QR)":        decimal.RequireFromString("0.27"),
	"Rand(R)":                decimal.RequireFromString("0.055"),
	"Sri Lankan Rupee(LKR)":  decimal.RequireFromString("0.0031"),
	"Turkish Lira(TL)":       decimal.RequireFromString("0.038"),
}

// CountryName returns the country for a country code
func CountryName(code int) (string, bool) {
	name, ok := countries[code]
	return name, ok
}

// PriceType labels a price range. Every range has a label; anything above
// 3 is gourmet.
func PriceType(priceRange int) (string, bool) {
	switch priceRange {
	case 1:
		return "cheap", true
	case 2:
		return "normal", true
	case 3:
		return "expensive", true
	default:
		return "gourmet", true
	}
}

// ColorName returns the color name for a rating color hex code
func ColorName(hex string) (string, bool) {
	name, ok := colors[strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(hex), "#"))]
	return name, ok
}

// RatingText returns the rating text for a color name
func RatingText(colorName string) (string, bool) {
	text, ok := ratingTexts[colorName]
	return text, ok
}

// DollarMultiplier returns the factor converting currency to US dollars
func DollarMultiplier(currency string) (decimal.Decimal, bool) {
	m, ok := dollarMultipliers[strings.TrimSpace(currency)]
	return m, ok
}

// ToDollars converts an amount in currency to US dollars
func ToDollars(amount int64, currency string) (decimal.Decimal, error) {
	m, ok := DollarMultiplier(currency)
	if !ok {
		return decimal.Zero, apierrors.NewLookupError(TableCurrency, currency)
	}
	return decimal.NewFromInt(amount).Mul(m), nil
}

// Countries returns the known country names, sorted
func Countries() []string {
	names := make([]string, 0, len(countries))
	for _, name := range countries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Currencies returns the convertible currencies, sorted
func Currencies() []string {
	names := make([]string, 0, len(dollarMultipliers))
	for name := range dollarMultipliers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CountryCodes returns the known country codes in ascending order
func CountryCodes() []int {
	codes := make([]int, 0, len(countries))
	for code := range countries {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// ColorHexes returns the known rating color codes, sorted
func ColorHexes() []string {
	hexes := make([]string, 0, len(colors))
	for hex := range colors {
		hexes = append(hexes, hex)
	}
	sort.Strings(hexes)
	return hexes
}
