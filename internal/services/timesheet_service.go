package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gobinath946/project-weaver-sub001/internal/apperrors"
	"github.com/gobinath946/project-weaver-sub001/internal/guard"
	"github.com/gobinath946/project-weaver-sub001/internal/listquery"
	"github.com/gobinath946/project-weaver-sub001/internal/logger"
	"github.com/gobinath946/project-weaver-sub001/internal/models"
	"github.com/gobinath946/project-weaver-sub001/internal/relay"
	"github.com/gobinath946/project-weaver-sub001/internal/store"
)

var timesheetListDef = listquery.Definition{
	SortColumns: map[string]string{
		"period_start": "period_start",
		"status":       "status",
		"created_at":   "created_at",
	},
	DefaultSort: "period_start DESC",
}

type TimesheetService struct {
	db       *gorm.DB
	sheets   *store.Store[models.Timesheet, *models.Timesheet]
	guard    *guard.Guard
	relay    relay.Relay
	notifier *NotificationService
}

func NewTimesheetService(db *gorm.DB, r relay.Relay, notifier *NotificationService) *TimesheetService {
	return &TimesheetService{
		db:       db,
		sheets:   store.New[models.Timesheet](db),
		guard:    guard.New(db),
		relay:    r,
		notifier: notifier,
	}
}

type TimesheetInput struct {
	UserID      uint64 // zero means the caller
	PeriodStart time.Time
	PeriodEnd   time.Time
	CompanyID   uint64
}

func (s *TimesheetService) List(ctx context.Context, tenantID uint64, params listquery.Params) (*listquery.Result[models.Timesheet], error) {
	result, err := listquery.Run(ctx, s.sheets, tenantID, timesheetListDef, params, "User")
	if err != nil {
		return nil, err
	}
	for i := range result.Data {
		if err := s.fillTotalMinutes(ctx, &result.Data[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *TimesheetService) Get(ctx context.Context, tenantID, id uint64) (*models.Timesheet, error) {
	sheet, err := s.sheets.GetScoped(ctx, tenantID, id, "User")
	if err != nil {
		return nil, err
	}
	if err := s.fillTotalMinutes(ctx, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

func (s *TimesheetService) Create(ctx context.Context, tenantID, actorID uint64, input TimesheetInput) (*models.Timesheet, error) {
	if input.PeriodStart.IsZero() || input.PeriodEnd.IsZero() {
		return nil, apperrors.Validation("period_start and period_end are required")
	}
	if input.PeriodEnd.Before(input.PeriodStart) {
		return nil, apperrors.Validation("period_end must not precede period_start")
	}

	sheet := &models.Timesheet{
		UserID:      input.UserID,
		PeriodStart: input.PeriodStart,
		PeriodEnd:   input.PeriodEnd,
		Status:      models.TimesheetStatusDraft,
	}
	if sheet.UserID == 0 {
		sheet.UserID = actorID
	}

	rules := guard.Rules{
		Refs: []guard.Ref{{Field: "user_id", Table: "users", ID: sheet.UserID}},
	}
	if err := s.guard.ValidateCreate(ctx, tenantID, actorID, sheet, rules); err != nil {
		return nil, err
	}

	if err := s.sheets.Create(ctx, sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}

// Submit moves a draft sheet to submitted. Only the sheet's owner may
// submit.
func (s *TimesheetService) Submit(ctx context.Context, tenantID, actorID, id uint64) (*models.Timesheet, error) {
	sheet, err := s.sheets.GetScoped(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if sheet.UserID != actorID {
		return nil, apperrors.Forbidden("only the timesheet owner can submit it")
	}
	if sheet.Status != models.TimesheetStatusDraft {
		return nil, apperrors.Validation(fmt.Sprintf("cannot submit a timesheet in status %q", sheet.Status))
	}

	now := time.Now()
	sheet.Status = models.TimesheetStatusSubmitted
	sheet.SubmittedAt = &now
	sheet.Touch(now)

	if err := s.sheets.Update(ctx, sheet); err != nil {
		return nil, err
	}

	s.notifyReviewers(ctx, tenantID, actorID, sheet)
	return sheet, nil
}

// Review approves or rejects a submitted sheet.
func (s *TimesheetService) Review(ctx context.Context, tenantID, actorID, id uint64, approve bool) (*models.Timesheet, error) {
	sheet, err := s.sheets.GetScoped(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if sheet.Status != models.TimesheetStatusSubmitted {
		return nil, apperrors.Validation(fmt.Sprintf("cannot review a timesheet in status %q", sheet.Status))
	}

	now := time.Now()
	if approve {
		sheet.Status = models.TimesheetStatusApproved
	} else {
		sheet.Status = models.TimesheetStatusRejected
	}
	sheet.ReviewedBy = &actorID
	sheet.ReviewedAt = &now
	sheet.Touch(now)

	if err := s.sheets.Update(ctx, sheet); err != nil {
		return nil, err
	}

	err = s.notifier.Notify(ctx, tenantID, actorID, sheet.UserID,
		models.NotificationTimesheetReviewed,
		fmt.Sprintf("Your timesheet was %s", sheet.Status))
	if err != nil {
		logger.Get().Warn("failed to create review notification", zap.Error(err), zap.Uint64("timesheet_id", sheet.ID))
	}
	return sheet, nil
}

// Delete removes a draft sheet. Submitted and reviewed sheets are part of
// the approval record and stay.
func (s *TimesheetService) Delete(ctx context.Context, tenantID, id uint64) error {
	sheet, err := s.sheets.GetScoped(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if sheet.Status != models.TimesheetStatusDraft {
		return apperrors.Validation("only draft timesheets can be deleted")
	}
	return s.sheets.SoftDelete(ctx, tenantID, id)
}

func (s *TimesheetService) fillTotalMinutes(ctx context.Context, sheet *models.Timesheet) error {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&models.TimeLog{}).
		Select("COALESCE(SUM(minutes), 0)").
		Where("company_id = ? AND user_id = ? AND deleted_at IS NULL", sheet.CompanyID, sheet.UserID).
		Where("log_date >= ? AND log_date <= ?", sheet.PeriodStart, sheet.PeriodEnd).
		Scan(&total).Error
	if err != nil {
		return apperrors.Internal(err)
	}
	sheet.TotalMinutes = total
	return nil
}

// notifyReviewers pings every admin and manager in the company.
func (s *TimesheetService) notifyReviewers(ctx context.Context, tenantID, actorID uint64, sheet *models.Timesheet) {
	var reviewers []models.User
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND active = ? AND deleted_at IS NULL", tenantID, true).
		Find(&reviewers).Error
	if err != nil {
		logger.Get().Warn("failed to load reviewers", zap.Error(err))
		return
	}

	for _, reviewer := range reviewers {
		if reviewer.ID == actorID || !reviewer.Roles.Intersects([]models.Role{models.RoleAdmin, models.RoleManager}) {
			continue
		}
		err := s.notifier.Notify(ctx, tenantID, actorID, reviewer.ID,
			models.NotificationTimesheetSubmitted,
			fmt.Sprintf("A timesheet for %s to %s was submitted",
				sheet.PeriodStart.Format("2006-01-02"), sheet.PeriodEnd.Format("2006-01-02")))
		if err != nil {
			logger.Get().Warn("failed to create submit notification", zap.Error(err), zap.Uint64("timesheet_id", sheet.ID))
		}
	}
}
