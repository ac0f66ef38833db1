package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"unicode"

	"github.com/DevTechCode/rachunek-bankowy/internal/common"
)

// Counterparty is the normalized other side of a transaction.
//
// Statement narrations are inconsistent: the same company appears with
// different casing, spacing and line breaks, sometimes with an account
// number (NRB/IBAN), sometimes with a NIP, sometimes with only a name.
// The Fingerprint is the stable identity used everywhere else in the
// system; the other fields are display data.
type Counterparty struct {
	Name        string
	Account     string
	ID          string
	Address     string
	Fingerprint string
}

// NewCounterparty builds a normalized counterparty. It returns nil when
// none of name, account or id carry data: absence, not an error.
func NewCounterparty(name, account, id, address string) *Counterparty {
	name = strings.TrimSpace(name)
	account = NormalizeAccount(account)
	id = NormalizeID(id)
	if name == "" && account == "" && id == "" {
		return nil
	}
	return &Counterparty{
		Name:        name,
		Account:     account,
		ID:          id,
		Address:     strings.TrimSpace(address),
		Fingerprint: fingerprint(name, account, id),
	}
}

// NormalizedName returns the canonical comparison form of the name.
func (c *Counterparty) NormalizedName() string {
	return NormalizeName(c.Name)
}

// NormalizeName uppercases, strips diacritics and punctuation, and
// collapses whitespace so that near-identical spellings group together.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	stripped := common.StripDiacritics(name)
	var b strings.Builder
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.ToUpper(common.CollapseWhitespace(b.String()))
}

// NormalizeAccount strips whitespace from an account string. When at least
// 20 digits remain the digits-only form is used, which covers the 26-digit
// NRB and IBANs carrying a country prefix; shorter strings are kept as
// cleaned text.
func NormalizeAccount(account string) string {
	cleaned := strings.Join(strings.Fields(account), "")
	digits := keepDigits(cleaned)
	if len(digits) >= 20 {
		return digits
	}
	return cleaned
}

// NormalizeID reduces an identifier to digits when at least 8 remain,
// which covers the 10-digit NIP embedded in strings like
// "NIP, 7773444530"; otherwise the trimmed original is kept.
func NormalizeID(id string) string {
	cleaned := strings.TrimSpace(id)
	digits := keepDigits(cleaned)
	if len(digits) >= 8 {
		return digits
	}
	return cleaned
}

// fingerprint hashes the normalized identity fields. Account and id
// dominate when present; the name alone discriminates only when both are
// absent. The key ordering is part of the hash contract; changing it
// invalidates every stored fingerprint.
func fingerprint(name, account, id string) string {
	key := fmt.Sprintf("acc=%s|id=%s|name=%s", account, id, NormalizeName(name))
	sum := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", sum)[:24]
}

func keepDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
