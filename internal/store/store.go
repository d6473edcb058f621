// Package store wraps GORM so that tenant scoping and soft-delete filtering
// are applied at every call site, explicitly. No read can observe another
// company's rows or soft-deleted rows unless it goes through the clearly
// named administrative path.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
)

// Resource is the shape every tenant-scoped entity exposes, implemented by
// models.TenantModel.
type Resource interface {
	ResourceID() uint64
	TenantID() uint64
	SetTenant(companyID uint64)
	StampCreate(actorID uint64, now time.Time)
	Touch(now time.Time)
	MarkDeleted(now time.Time)
}

// Ptr constrains P to be a pointer to T that satisfies Resource, which lets
// Store instantiate and mutate values generically.
type Ptr[T any] interface {
	*T
	Resource
}

// Conditions are caller-supplied column filters merged into a scoped query.
type Conditions map[string]any

// CheckScope rejects conditions that try to re-target the tenant or touch
// the soft-delete column. Either one is a bug in the caller, not client
// input, hence the 500-class error.
func CheckScope(tenantID uint64, conds Conditions) error {
	for column, value := range conds {
		switch column {
		case "company_id":
			if !sameID(value, tenantID) {
				return apperrors.ScopeViolation(
					fmt.Sprintf("query attempts to override tenant scope (company_id=%v)", value))
			}
		case "deleted_at":
			return apperrors.ScopeViolation("query attempts to override soft-delete filter")
		}
	}
	return nil
}

func sameID(value any, tenantID uint64) bool {
	switch v := value.(type) {
	case uint64:
		return v == tenantID
	case uint:
		return uint64(v) == tenantID
	case int:
		return v >= 0 && uint64(v) == tenantID
	case int64:
		return v >= 0 && uint64(v) == tenantID
	default:
		return false
	}
}

// Store is the scoping wrapper for one entity type.
type Store[T any, P Ptr[T]] struct {
	db *gorm.DB
}

func New[T any, P Ptr[T]](db *gorm.DB) *Store[T, P] {
	return &Store[T, P]{db: db}
}

// DB exposes the underlying handle for entity-specific queries. Callers are
// expected to keep those queries inside a Scoped base.
func (s *Store[T, P]) DB() *gorm.DB {
	return s.db
}

// Scoped returns a query builder with the tenant and soft-delete filters
// already applied.
func (s *Store[T, P]) Scoped(ctx context.Context, tenantID uint64) *gorm.DB {
	var model T
	return s.db.WithContext(ctx).
		Model(&model).
		Where("company_id = ? AND deleted_at IS NULL", tenantID)
}

// FindScoped lists rows matching conds inside the tenant scope.
func (s *Store[T, P]) FindScoped(ctx context.Context, tenantID uint64, conds Conditions) ([]T, error) {
	if err := CheckScope(tenantID, conds); err != nil {
		return nil, err
	}

	query := s.Scoped(ctx, tenantID)
	if len(conds) > 0 {
		query = query.Where(map[string]any(conds))
	}

	var out []T
	if err := query.Find(&out).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return out, nil
}

// GetScoped fetches one row by id inside the tenant scope. A row that exists
// but belongs to another tenant or is soft-deleted is indistinguishable from
// one that never existed.
func (s *Store[T, P]) GetScoped(ctx context.Context, tenantID, id uint64, preload ...string) (*T, error) {
	query := s.Scoped(ctx, tenantID)
	for _, p := range preload {
		query = query.Preload(p)
	}

	var out T
	if err := query.Where("id = ?", id).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("")
		}
		return nil, apperrors.Internal(err)
	}
	return &out, nil
}

// GetAny is the administrative path: it bypasses tenant and soft-delete
// scoping and returns the row with deleted_at intact.
func (s *Store[T, P]) GetAny(ctx context.Context, id uint64) (*T, error) {
	var out T
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("")
		}
		return nil, apperrors.Internal(err)
	}
	return &out, nil
}

// CountScoped counts rows matching conds inside the tenant scope.
func (s *Store[T, P]) CountScoped(ctx context.Context, tenantID uint64, conds Conditions) (int64, error) {
	if err := CheckScope(tenantID, conds); err != nil {
		return 0, err
	}

	query := s.Scoped(ctx, tenantID)
	if len(conds) > 0 {
		query = query.Where(map[string]any(conds))
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, apperrors.Internal(err)
	}
	return count, nil
}

// Create persists a validated resource. The tenant must already be stamped
// on the record; writes with no tenant are refused outright.
func (s *Store[T, P]) Create(ctx context.Context, record P) error {
	if record.TenantID() == 0 {
		return apperrors.ScopeViolation("create without tenant scope")
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return translateWriteError(err)
	}
	return nil
}

// Update persists changes to an existing resource.
func (s *Store[T, P]) Update(ctx context.Context, record P) error {
	if record.TenantID() == 0 || record.ResourceID() == 0 {
		return apperrors.ScopeViolation("update without tenant scope")
	}
	if err := s.db.WithContext(ctx).Save(record).Error; err != nil {
		return translateWriteError(err)
	}
	return nil
}

// Cascade runs inside the delete transaction; if it fails, the delete rolls
// back with it.
type Cascade func(tx *gorm.DB) error

// SoftDelete stamps deleted_at on an active row and runs the entity's
// cascade in the same transaction. Deleting an already-deleted or missing
// row reports NotFound, which makes the second of two identical delete
// calls fail cleanly.
func (s *Store[T, P]) SoftDelete(ctx context.Context, tenantID, id uint64, cascades ...Cascade) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model T
		result := tx.Model(&model).
			Where("id = ? AND company_id = ? AND deleted_at IS NULL", id, tenantID).
			Update("deleted_at", time.Now())
		if result.Error != nil {
			return apperrors.Internal(result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFound("")
		}

		for _, cascade := range cascades {
			if err := cascade(tx); err != nil {
				return err
			}
		}
		return nil
	})
}

// HardDelete physically removes a row, with the same scoping and cascade
// semantics as SoftDelete. Only entities whose contract says so (project
// groups) use it.
func (s *Store[T, P]) HardDelete(ctx context.Context, tenantID, id uint64, cascades ...Cascade) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, cascade := range cascades {
			if err := cascade(tx); err != nil {
				return err
			}
		}

		var model T
		result := tx.Where("id = ? AND company_id = ? AND deleted_at IS NULL", id, tenantID).
			Delete(&model)
		if result.Error != nil {
			return apperrors.Internal(result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFound("")
		}
		return nil
	})
}

// translateWriteError maps a unique-index race to the duplicate error the
// guard would have produced had it seen the competing row.
func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Duplicate("A resource with the same unique value already exists")
	}
	return apperrors.Internal(err)
}
