package utils

import (
	"crypto/rand"
	"strings"
)

// CertificateCodeAlphabet tanpa glyph yang mudah tertukar (I, O, 0, 1)
const CertificateCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCertificateCode membuat kode format XXXX-XXXX-XXXX.
// Panjang alphabet 32 sehingga byte % 32 tidak bias.
func GenerateCertificateCode() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.Grow(14)
	for i, v := range b {
		if i > 0 && i%4 == 0 {
			sb.WriteByte('-')
		}
		sb.WriteByte(CertificateCodeAlphabet[int(v)%len(CertificateCodeAlphabet)])
	}
	return sb.String(), nil
}

// NormalizeCertificateCode merapikan input dari pengguna sebelum lookup
func NormalizeCertificateCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
