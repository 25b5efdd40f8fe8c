package utils

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name    string   `json:"name" validate:"required"`
	Email   string   `json:"email" validate:"omitempty,email"`
	Kind    string   `json:"kind" validate:"oneof=TRAIL EVENT"`
	WorkIDs []string `json:"work_ids" validate:"dive,uuid"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(sampleRequest{
		Email:   "bukan-email",
		Kind:    "OTHER",
		WorkIDs: []string{"not-a-uuid"},
	})

	require.True(t, errs.HasErrors())
	assert.Equal(t, "wajib diisi", errs["name"])
	assert.Equal(t, "format email tidak valid", errs["email"])
	assert.Equal(t, "harus salah satu dari: TRAIL EVENT", errs["kind"])
	assert.Equal(t, "harus berupa UUID", errs["work_ids[0]"])
}

func TestValidateStructOK(t *testing.T) {
	errs := ValidateStruct(sampleRequest{
		Name:    "Trilha",
		Kind:    "TRAIL",
		WorkIDs: []string{"3f2b8c1e-5f6a-4c1d-9a2b-7e8f9a0b1c2d"},
	})
	assert.False(t, errs.HasErrors())
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	var dst sampleRequest

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x","unknown":1}`))
	assert.Error(t, DecodeJSON(req, &dst))

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "x", dst.Name)
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("Master@123"))
	assert.False(t, IsValidPassword("short1"))
	assert.False(t, IsValidPassword("onlyletters"))
	assert.False(t, IsValidPassword("12345678"))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("ana@museus.app"))
	assert.False(t, IsValidEmail("ana@"))
}
