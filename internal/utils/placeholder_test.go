package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubstitutePlaceholders(t *testing.T) {
	hours := 4
	v := PlaceholderValues{
		VisitorName:   "Ana Souza",
		CompletedAt:   time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC),
		Code:          "ABCD-EFGH-JKLM",
		TrailName:     "Modernismo",
		CulturalHours: &hours,
	}

	tests := []struct {
		in   string
		want string
	}{
		{"{{nome_visitante}}", "Ana Souza"},
		{"Concluído em {{data_conclusao}}", "Concluído em 09/03/2024"},
		{"Código {{code}}", "Código ABCD-EFGH-JKLM"},
		{"Trilha {{nome_trilha}} ({{carga_cultural}}h)", "Trilha Modernismo (4h)"},
		{"Evento: {{nome_evento}}", "Evento: "},
		{"{{desconhecido}} fica", "{{desconhecido}} fica"},
		{"sem tokens", "sem tokens"},
		{"{{nome_visitante}} e {{nome_visitante}}", "Ana Souza e Ana Souza"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SubstitutePlaceholders(tt.in, v), tt.in)
	}
}

func TestSubstitutePlaceholdersNoHours(t *testing.T) {
	v := PlaceholderValues{VisitorName: "Rui"}
	assert.Equal(t, "Rui - h", SubstitutePlaceholders("{{nome_visitante}} - {{carga_cultural}}h", v))
}
