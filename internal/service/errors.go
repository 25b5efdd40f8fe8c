package service

import (
	"errors"
	"fmt"
)

// Kategori error yang dipetakan handler ke status HTTP
var (
	ErrNotFound   = errors.New("data tidak ditemukan")
	ErrBadInput   = errors.New("input tidak valid")
	ErrForbidden  = errors.New("akses ditolak")
	ErrConflict   = errors.New("data sudah ada")
	ErrInvalidID  = badInput("ID tidak valid")
	ErrNoTenantID = badInput("tenant_id wajib diisi")
)

type categorizedError struct {
	msg      string
	category error
}

func (e *categorizedError) Error() string        { return e.msg }
func (e *categorizedError) Is(target error) bool { return target == e.category }

func notFound(msg string) error  { return &categorizedError{msg: msg, category: ErrNotFound} }
func badInput(msg string) error  { return &categorizedError{msg: msg, category: ErrBadInput} }
func forbidden(msg string) error { return &categorizedError{msg: msg, category: ErrForbidden} }
func conflict(msg string) error  { return &categorizedError{msg: msg, category: ErrConflict} }

func badInputf(format string, args ...interface{}) error {
	return badInput(fmt.Sprintf(format, args...))
}
