// Package validation holds the country-specific tax-ID and postal-code
// rules used during registration.
package validation

import (
	"regexp"
	"strings"
)

// CountryRule validates the country-specific formats for one supported
// country. Exactly one rule exists per country code; lookups go through
// RuleFor so unsupported countries fail closed.
type CountryRule struct {
	Code            string
	Name            string
	TaxIDLength     int
	taxIDPattern    *regexp.Regexp
	postalPattern   *regexp.Regexp
	PostalCodeHint  string
	ChecksumApplies bool
}

var countryRules = map[string]CountryRule{
	"PL": {
		Code:            "PL",
		Name:            "Poland",
		TaxIDLength:     10,
		taxIDPattern:    regexp.MustCompile(`^\d{10}$`),
		postalPattern:   regexp.MustCompile(`^\d{2}-\d{3}$`),
		PostalCodeHint:  "XX-XXX",
		ChecksumApplies: true,
	},
	"DE": {
		Code:           "DE",
		Name:           "Germany",
		TaxIDLength:    9,
		taxIDPattern:   regexp.MustCompile(`^\d{9}$`),
		postalPattern:  regexp.MustCompile(`^\d{5}$`),
		PostalCodeHint: "XXXXX",
	},
	"CZ": {
		Code:           "CZ",
		Name:           "Czech Republic",
		TaxIDLength:    8,
		taxIDPattern:   regexp.MustCompile(`^\d{8}$`),
		postalPattern:  regexp.MustCompile(`^\d{3}\s?\d{2}$`),
		PostalCodeHint: "XXX XX",
	},
}

// RuleFor returns the rule for the given ISO country code.
func RuleFor(code string) (CountryRule, bool) {
	rule, ok := countryRules[strings.ToUpper(strings.TrimSpace(code))]
	return rule, ok
}

// SupportedCountries lists the supported ISO country codes.
func SupportedCountries() []string {
	return []string{"PL", "DE", "CZ"}
}

// ValidateTaxID checks the tax identifier against the country's format
// rule and, for Poland, the NIP checksum. Other countries are format-only;
// their national checksum schemes are not implemented.
func (r CountryRule) ValidateTaxID(raw string) error {
	cleaned := stripSeparators(raw)
	if !r.taxIDPattern.MatchString(cleaned) {
		return &FormatError{Country: r.Code, Digits: r.TaxIDLength}
	}
	if r.ChecksumApplies {
		return validateNIPChecksum(cleaned)
	}
	return nil
}

// ValidatePostalCode checks the postal code against the country's pattern.
func (r CountryRule) ValidatePostalCode(code string) bool {
	return r.postalPattern.MatchString(strings.TrimSpace(code))
}

// NormalizeTaxID strips the accepted separators so equivalent spellings of
// the same identifier store and compare identically.
func NormalizeTaxID(s string) string {
	return stripSeparators(strings.TrimSpace(s))
}

func stripSeparators(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c == ' ' || c == '-' || c == '\t' {
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
