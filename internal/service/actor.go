package service

import (
	"strings"

	"github.com/ahmadqo/museum-engagement-ledger/internal/model"
	"github.com/google/uuid"
)

// Actor adalah identitas pemanggil yang sudah diverifikasi dari JWT
type Actor struct {
	UserID   uuid.UUID
	Role     model.Role
	TenantID *uuid.UUID
}

// NewActor membangun Actor dari claims string; ID yang rusak menghasilkan Actor kosong
func NewActor(userID, role, tenantID string) Actor {
	a := Actor{Role: model.Role(strings.ToUpper(role))}
	if id, err := uuid.Parse(userID); err == nil {
		a.UserID = id
	}
	if tid, err := uuid.Parse(tenantID); err == nil {
		a.TenantID = &tid
	}
	return a
}

func (a Actor) IsMaster() bool { return a.Role == model.RoleMaster }

func (a Actor) IsStaff() bool { return a.Role == model.RoleMaster || a.Role == model.RoleAdmin }

// CanManage: MASTER mengelola semua tenant, ADMIN hanya tenant-nya sendiri
func (a Actor) CanManage(tenantID uuid.UUID) bool {
	if a.IsMaster() {
		return true
	}
	return a.Role == model.RoleAdmin && a.TenantID != nil && *a.TenantID == tenantID
}

func (a Actor) requireManage(tenantID uuid.UUID) error {
	if !a.CanManage(tenantID) {
		return forbidden("Anda tidak memiliki akses ke tenant ini")
	}
	return nil
}

// scopeTenant menentukan tenant untuk operasi create: tenant dari token
func (a Actor) scopeTenant() (uuid.UUID, error) {
	if a.TenantID == nil {
		return uuid.Nil, forbidden("Token tidak terikat ke tenant")
	}
	return *a.TenantID, nil
}

// targetTenant: MASTER boleh memilih tenant lewat query, selain itu tenant dari token
func (a Actor) targetTenant(requested string) (uuid.UUID, error) {
	if a.IsMaster() && requested != "" {
		tid, err := uuid.Parse(requested)
		if err != nil {
			return uuid.Nil, ErrNoTenantID
		}
		return tid, nil
	}
	return a.scopeTenant()
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return uid, nil
}

func parseOptionalID(field, id string) (*uuid.UUID, error) {
	if id == "" {
		return nil, nil
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, badInputf("%s tidak valid", field)
	}
	return &uid, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
