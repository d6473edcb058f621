// Package guard validates mutation invariants before anything is persisted:
// required fields, in-tenant reference resolution, and case-insensitive
// uniqueness, always checked in that order so a given invalid payload fails
// the same way every time.
package guard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/store"
)

// Field is a required-field check. Strings must be non-blank, numeric ids
// non-zero.
type Field struct {
	Name  string
	Value any
}

// Ref declares a foreign key that must resolve to an active row of Table in
// the caller's tenant.
type Ref struct {
	Field string
	Table string
	ID    uint64
}

// Unique declares a case-insensitive uniqueness constraint inside the
// tenant. ExcludeID carves the record itself out of the comparison set on
// update.
type Unique struct {
	Table     string
	Column    string
	Value     string
	ExcludeID uint64
}

// Rules bundles everything to check for one mutation.
type Rules struct {
	Required []Field
	Refs     []Ref
	Unique   *Unique
}

type Guard struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Guard {
	return &Guard{db: db}
}

// ValidateCreate runs the rule chain and, on success, stamps tenant and
// provenance onto the record.
func (g *Guard) ValidateCreate(ctx context.Context, tenantID, actorID uint64, record store.Resource, rules Rules) error {
	if err := g.validate(ctx, tenantID, rules); err != nil {
		return err
	}
	record.SetTenant(tenantID)
	record.StampCreate(actorID, time.Now())
	return nil
}

// ValidateUpdate rejects tenant reassignment, runs the rule chain, and
// bumps updated_at. payloadTenantID is zero when the payload did not carry a
// company_id at all.
func (g *Guard) ValidateUpdate(ctx context.Context, tenantID, payloadTenantID uint64, record store.Resource, rules Rules) error {
	if payloadTenantID != 0 && payloadTenantID != tenantID {
		return apperrors.ImmutableField("company_id cannot be changed")
	}
	if record.TenantID() != tenantID {
		return apperrors.ScopeViolation("update targets a record outside the tenant scope")
	}
	if err := g.validate(ctx, tenantID, rules); err != nil {
		return err
	}
	record.Touch(time.Now())
	return nil
}

func (g *Guard) validate(ctx context.Context, tenantID uint64, rules Rules) error {
	for _, field := range rules.Required {
		if err := checkRequired(field); err != nil {
			return err
		}
	}

	for _, ref := range rules.Refs {
		if err := g.checkRef(ctx, tenantID, ref); err != nil {
			return err
		}
	}

	if rules.Unique != nil {
		if err := g.checkUnique(ctx, tenantID, *rules.Unique); err != nil {
			return err
		}
	}

	return nil
}

func checkRequired(field Field) error {
	missing := false
	switch v := field.Value.(type) {
	case string:
		missing = strings.TrimSpace(v) == ""
	case uint64:
		missing = v == 0
	case *uint64:
		missing = v == nil || *v == 0
	case int:
		missing = v == 0
	case nil:
		missing = true
	}
	if missing {
		return apperrors.Validation(fmt.Sprintf("%s is required", field.Name))
	}
	return nil
}

func (g *Guard) checkRef(ctx context.Context, tenantID uint64, ref Ref) error {
	var count int64
	err := g.db.WithContext(ctx).
		Table(ref.Table).
		Where("id = ? AND company_id = ? AND deleted_at IS NULL", ref.ID, tenantID).
		Count(&count).Error
	if err != nil {
		return apperrors.Internal(err)
	}
	if count == 0 {
		return apperrors.Reference(fmt.Sprintf("%s does not resolve to an active resource in this company", ref.Field))
	}
	return nil
}

func (g *Guard) checkUnique(ctx context.Context, tenantID uint64, unique Unique) error {
	query := g.db.WithContext(ctx).
		Table(unique.Table).
		Where("company_id = ? AND deleted_at IS NULL", tenantID).
		Where(fmt.Sprintf("LOWER(%s) = ?", unique.Column), strings.ToLower(strings.TrimSpace(unique.Value)))
	if unique.ExcludeID != 0 {
		query = query.Where("id <> ?", unique.ExcludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Internal(err)
	}
	if count > 0 {
		return apperrors.Duplicate(fmt.Sprintf("A resource with the same %s already exists", unique.Column))
	}
	return nil
}
