package services

import (
	"fmt"
	"net/url"
	"unicode/utf8"

	"github.com/rpupo63/reelbyte-backend/errs"
)

func checkLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		return errs.NewInvalidFieldError(field, fmt.Sprintf("length must be between %d and %d characters, got %d", min, max, n))
	}
	return nil
}

func checkOptionalLength(field string, value *string, min, max int) error {
	if value == nil {
		return nil
	}
	return checkLength(field, *value, min, max)
}

func checkRange(field string, value, min, max int) error {
	if value < min || value > max {
		return errs.NewOutOfRangeError(field, value, min, max)
	}
	return nil
}

func checkPositive(field string, value float64) error {
	if value <= 0 {
		return errs.NewInvalidFieldError(field, "must be greater than 0")
	}
	return nil
}

func checkNonNegative(field string, value *float64) error {
	if value != nil && *value < 0 {
		return errs.NewBelowMinimumError(field, *value, 0)
	}
	return nil
}

func checkEnum(field, value string, allowed []string) error {
	for _, a := range allowed {
		if a == value {
			return nil
		}
	}
	return errs.NewInvalidEnumError(field, value, allowed)
}

// checkURL accepts absolute http(s) URLs only.
func checkURL(field, raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errs.NewInvalidFieldError(field, "must be an absolute http or https URL")
	}
	return nil
}

func checkURLs(field string, urls []string, max int) error {
	if len(urls) > max {
		return errs.NewInvalidFieldError(field, fmt.Sprintf("at most %d allowed, got %d", max, len(urls)))
	}
	for i, u := range urls {
		if err := checkURL(fmt.Sprintf("%s[%d]", field, i), u); err != nil {
			return err
		}
	}
	return nil
}

// firstError returns the first non-nil error, so validations read as a list.
func firstError(errors ...error) error {
	for _, err := range errors {
		if err != nil {
			return err
		}
	}
	return nil
}
