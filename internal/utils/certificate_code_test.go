package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codePattern = regexp.MustCompile(`^[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{4}-[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{4}-[ABCDEFGHJKLMNPQRSTUVWXYZ23456789]{4}$`)

func TestGenerateCertificateCodeFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		code, err := GenerateCertificateCode()
		require.NoError(t, err)
		require.Regexp(t, codePattern, code)
		seen[code] = true
	}
	// 32^12 kemungkinan, duplikat di 2000 sampel praktis mustahil
	assert.Len(t, seen, 2000)
}

func TestCertificateCodeAlphabetExcludesAmbiguous(t *testing.T) {
	for _, r := range "IO01" {
		assert.NotContains(t, CertificateCodeAlphabet, string(r))
	}
	assert.Len(t, CertificateCodeAlphabet, 32)
}

func TestNormalizeCertificateCode(t *testing.T) {
	assert.Equal(t, "ABCD-EFGH-JKLM", NormalizeCertificateCode("  abcd-efgh-jklm "))
}

func TestGenerateQRToken(t *testing.T) {
	token, err := GenerateQRToken()
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{12}$`, token)
}

func TestVerifyURL(t *testing.T) {
	assert.Equal(t, "https://museus.app/verify/AAAA-BBBB-CCCC", VerifyURL("https://museus.app/", "AAAA-BBBB-CCCC"))
}
