package utils

import (
	"context"
	"testing"

	"github.com/ahmadqo/museum-engagement-ledger/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSMTPMailerWithoutCredentialsOnlyLogs(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewSMTPMailer(config.SMTPConfig{Host: "smtp.gmail.com", Port: 587}, zap.New(core))

	delivered, err := m.Send(context.Background(), EmailMessage{
		To:          "ana@museus.app",
		Subject:     "Seu Certificado: Noite dos Museus",
		HTML:        "<p>Olá</p>",
		Attachments: []Attachment{{FileName: "Certificado.pdf", ContentType: "application/pdf", Data: []byte("%PDF-")}},
	})

	require.NoError(t, err)
	assert.False(t, delivered)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "ana@museus.app", entry.ContextMap()["to"])
	assert.EqualValues(t, 1, entry.ContextMap()["attachments"])
}

func TestExtensionFor(t *testing.T) {
	ext, err := ExtensionFor("image/webp", 1024)
	require.NoError(t, err)
	assert.Equal(t, ".webp", ext)

	ext, err = ExtensionFor("audio/mpeg", 1024)
	require.NoError(t, err)
	assert.Equal(t, ".mp3", ext)

	_, err = ExtensionFor("image/jpeg", MaxImageFileSize+1)
	assert.Error(t, err)

	_, err = ExtensionFor("application/x-msdownload", 10)
	assert.Error(t, err)
}
