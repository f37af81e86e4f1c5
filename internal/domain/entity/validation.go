package entity

import (
	"fmt"
	"net/url"
	"unicode/utf8"
)

const maxURLLength = 255

// ValidateURL checks a credit link such as an artist or designer URL:
// absolute http(s) with a host, at most maxURLLength bytes.
func ValidateURL(field, rawURL string) error {
	invalid := func(msg string) error { return &ValidationError{Field: field, Message: msg} }

	switch {
	case rawURL == "":
		return invalid("url is required")
	case len(rawURL) > maxURLLength:
		return invalid(fmt.Sprintf("url must not exceed %d characters", maxURLLength))
	}

	u, err := url.Parse(rawURL)
	switch {
	case err != nil:
		return invalid("invalid url")
	case u.Scheme != "http" && u.Scheme != "https":
		return invalid("url must use http or https scheme")
	case u.Host == "":
		return invalid("url must have a valid host")
	}
	return nil
}

// validateLength checks a required string against a rune limit.
func validateLength(field, value string, maxLen int) error {
	if value == "" {
		return &ValidationError{Field: field, Message: field + " is required"}
	}
	if utf8.RuneCountInString(value) > maxLen {
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s is too long (max %d characters)", field, maxLen)}
	}
	return nil
}

// validateLocalized checks an optional Chinese name and stub, deriving the
// stub from the name when only the name is set.
func validateLocalized(name, stub **string, maxLen int) error {
	if *name != nil {
		if err := validateLength("name_zh", **name, maxLen); err != nil {
			return err
		}
		if *stub == nil {
			derived := Stubify(**name)
			*stub = &derived
		}
	}
	if *stub != nil {
		return validateLength("stub_zh", **stub, maxLen)
	}
	return nil
}
