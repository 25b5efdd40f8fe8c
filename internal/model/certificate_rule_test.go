package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRuleConditions(t *testing.T) {
	trailID := uuid.MustParse("11111111-1111-1111-1111-111111111111")

	tests := []struct {
		name    string
		trigger TriggerType
		raw     string
		check   func(t *testing.T, c RuleConditions)
		wantErr bool
	}{
		{
			name:    "empty trail conditions is wildcard",
			trigger: TriggerTrailCompleted,
			raw:     `{}`,
			check:   func(t *testing.T, c RuleConditions) { assert.Nil(t, c.TrailID) },
		},
		{
			name:    "blank trail_id is wildcard",
			trigger: TriggerTrailCompleted,
			raw:     `{"trail_id": ""}`,
			check:   func(t *testing.T, c RuleConditions) { assert.Nil(t, c.TrailID) },
		},
		{
			name:    "trail_id parsed",
			trigger: TriggerTrailCompleted,
			raw:     `{"trail_id": "11111111-1111-1111-1111-111111111111"}`,
			check: func(t *testing.T, c RuleConditions) {
				require.NotNil(t, c.TrailID)
				assert.Equal(t, trailID, *c.TrailID)
			},
		},
		{
			name:    "malformed trail_id",
			trigger: TriggerTrailCompleted,
			raw:     `{"trail_id": "abc"}`,
			wantErr: true,
		},
		{
			name:    "min_xp parsed",
			trigger: TriggerXPThreshold,
			raw:     `{"min_xp": 100}`,
			check: func(t *testing.T, c RuleConditions) {
				require.NotNil(t, c.MinXP)
				assert.EqualValues(t, 100, *c.MinXP)
			},
		},
		{
			name:    "min_xp absent",
			trigger: TriggerXPThreshold,
			raw:     `{}`,
			check:   func(t *testing.T, c RuleConditions) { assert.Nil(t, c.MinXP) },
		},
		{
			name:    "negative min_xp",
			trigger: TriggerXPThreshold,
			raw:     `{"min_xp": -1}`,
			wantErr: true,
		},
		{
			name:    "min_xp as string",
			trigger: TriggerXPThreshold,
			raw:     `{"min_xp": "100"}`,
			wantErr: true,
		},
		{
			name:    "null payload",
			trigger: TriggerEventAttended,
			raw:     `null`,
			check:   func(t *testing.T, c RuleConditions) { assert.Nil(t, c.EventID) },
		},
		{
			name:    "unknown trigger",
			trigger: TriggerType("VISIT"),
			raw:     `{}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseRuleConditions(tt.trigger, []byte(tt.raw))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConditions)
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestTemplateElementsValidate(t *testing.T) {
	size := 12.0
	ok := TemplateElements{
		{Type: ElementText, X: 10, Y: 20, FontSize: &size, Color: "#2c3e50", Align: "center", Text: "{{nome_visitante}}"},
		{Type: ElementQRCode, X: 650, Y: 380},
	}
	assert.NoError(t, ok.Validate())

	bad := TemplateElements{
		{Type: ElementText, X: 10, Y: 20},
		{Type: "image", X: 0, Y: 0},
	}
	err := bad.Validate()
	require.ErrorIs(t, err, ErrInvalidElement)
	assert.Contains(t, err.Error(), "elements[1]")

	assert.Error(t, TemplateElement{Type: ElementText, Color: "red"}.Validate())
	assert.Error(t, TemplateElement{Type: ElementText, Align: "justify"}.Validate())
}

func TestCertificateMetadataScan(t *testing.T) {
	var m CertificateMetadata
	require.NoError(t, m.Scan([]byte(`{"ruleId":"r1","trigger":"XP_THRESHOLD","title":"Explorador"}`)))
	assert.Equal(t, "r1", m.RuleID)
	assert.Equal(t, "Explorador", m.Title)

	var empty CertificateMetadata
	require.NoError(t, empty.Scan(nil))
	assert.Equal(t, CertificateMetadata{}, empty)
}

func TestVisitorDisplayName(t *testing.T) {
	var v *Visitor
	assert.Equal(t, "Visitante", v.DisplayName())

	name := "Ana"
	assert.Equal(t, "Ana", (&Visitor{Name: &name}).DisplayName())
}
