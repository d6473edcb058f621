package models

import "time"

// TenantModel is embedded by every tenant-scoped entity. Soft deletion is a
// plain nullable timestamp, not gorm.DeletedAt: filtering is applied
// explicitly by the store so that no query path depends on invisible ORM
// hooks.
type TenantModel struct {
	ID        uint64     `gorm:"primarykey" json:"id"`
	CompanyID uint64     `gorm:"not null;index" json:"company_id"`
	CreatedBy uint64     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`
}

func (m *TenantModel) ResourceID() uint64 {
	return m.ID
}

func (m *TenantModel) TenantID() uint64 {
	return m.CompanyID
}

func (m *TenantModel) SetTenant(companyID uint64) {
	m.CompanyID = companyID
}

// StampCreate records provenance once, at creation.
func (m *TenantModel) StampCreate(actorID uint64, now time.Time) {
	m.CreatedBy = actorID
	m.CreatedAt = now
	m.UpdatedAt = now
}

// Touch bumps updated_at on every mutation.
func (m *TenantModel) Touch(now time.Time) {
	m.UpdatedAt = now
}

func (m *TenantModel) MarkDeleted(now time.Time) {
	m.DeletedAt = &now
}

func (m *TenantModel) IsDeleted() bool {
	return m.DeletedAt != nil
}
