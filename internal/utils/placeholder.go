package utils

import (
	"strconv"
	"strings"
	"time"
)

// Token yang dikenali di teks elemen template. Token lain dibiarkan apa adanya.
const (
	PlaceholderVisitorName   = "{{nome_visitante}}"
	PlaceholderCompletion    = "{{data_conclusao}}"
	PlaceholderCode          = "{{code}}"
	PlaceholderTrailName     = "{{nome_trilha}}"
	PlaceholderEventName     = "{{nome_evento}}"
	PlaceholderCulturalHours = "{{carga_cultural}}"
)

// DateLayoutBR dipakai untuk semua tanggal yang tampil di sertifikat
const DateLayoutBR = "02/01/2006"

type PlaceholderValues struct {
	VisitorName   string
	CompletedAt   time.Time
	Code          string
	TrailName     string
	EventName     string
	CulturalHours *int
}

func (v PlaceholderValues) replacer() *strings.Replacer {
	hours := ""
	if v.CulturalHours != nil {
		hours = strconv.Itoa(*v.CulturalHours)
	}
	return strings.NewReplacer(
		PlaceholderVisitorName, v.VisitorName,
		PlaceholderCompletion, v.CompletedAt.Format(DateLayoutBR),
		PlaceholderCode, v.Code,
		PlaceholderTrailName, v.TrailName,
		PlaceholderEventName, v.EventName,
		PlaceholderCulturalHours, hours,
	)
}

// SubstitutePlaceholders mengganti token yang dikenali secara verbatim
func SubstitutePlaceholders(text string, v PlaceholderValues) string {
	if !strings.Contains(text, "{{") {
		return text
	}
	return v.replacer().Replace(text)
}
