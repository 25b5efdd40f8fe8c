package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// GenerateQRToken membuat kode unik untuk QR code karya/trilha/acara (12 hex)
func GenerateQRToken() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateQRCodePNG membuat QR code sebagai PNG bytes
func GenerateQRCodePNG(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("gagal generate QR code: %w", err)
	}
	return png, nil
}

// VerifyURL adalah URL publik yang dikodekan di QR sertifikat
func VerifyURL(frontendBase, code string) string {
	return fmt.Sprintf("%s/verify/%s", strings.TrimRight(frontendBase, "/"), code)
}
