package books

import (
	"errors"
	"strings"
)

// ErrInvalidISBN is returned for identifiers that are not ISBN-10 shaped.
var ErrInvalidISBN = errors.New("invalid ISBN-10")

// NormalizeISBN10 strips hyphens and spaces and upper-cases a trailing x.
// The result is nine digits followed by a digit or X; the check digit is
// not verified.
func NormalizeISBN10(raw string) (string, error) {
	isbn := strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(raw)))
	if len(isbn) != 10 {
		return "", ErrInvalidISBN
	}
	for i, r := range isbn {
		if r >= '0' && r <= '9' {
			continue
		}
		if r == 'X' && i == 9 {
			continue
		}
		return "", ErrInvalidISBN
	}
	return isbn, nil
}
