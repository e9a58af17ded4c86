package client

import "strings"

// FormatCardNumber met en forme la saisie d'un numéro de carte : chiffres
// uniquement, groupes de 4 séparés par des espaces, 16 chiffres au plus.
func FormatCardNumber(input string) string {
	digits := keepDigits(input, 16)

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry met en forme la date d'expiration en MM/AA : la barre
// est insérée dès le troisième chiffre saisi.
func FormatExpiry(input string) string {
	digits := keepDigits(input, 4)
	if len(digits) <= 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

func keepDigits(s string, max int) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if len(digits) > max {
		digits = digits[:max]
	}
	return digits
}
