package report

import (
	"context"

	"go.uber.org/zap"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/repository"
	"github.com/Nate91117/teamnotes/usecase"
)

// UseCase manages leader-assigned report items. Creation is leader-only;
// reading is open to the whole team.
type UseCase struct {
	reports     repository.ReportRepository
	memberships repository.MembershipRepository
	notifier    usecase.ChangeNotifier
	logger      *zap.Logger
}

func New(reports repository.ReportRepository, memberships repository.MembershipRepository, notifier usecase.ChangeNotifier, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{reports: reports, memberships: memberships, notifier: notifier, logger: logger}
}

func (uc *UseCase) List(ctx context.Context, scope domain.Scope) ([]domain.Report, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidPayload
	}
	return uc.reports.ListByTeam(ctx, scope.TeamID)
}

func (uc *UseCase) Create(ctx context.Context, scope domain.Scope, report *domain.Report) (*domain.Report, error) {
	if report == nil || report.Title == "" || report.AssignedUserID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if err := uc.requireLeader(ctx, scope); err != nil {
		return nil, err
	}
	report.TeamID = scope.TeamID
	report.CreatedBy = scope.UserID

	created, err := uc.reports.Create(ctx, report)
	if err != nil {
		return nil, err
	}
	uc.notify(ctx, "create", scope, created.ID)
	return created, nil
}

func (uc *UseCase) Update(ctx context.Context, scope domain.Scope, report *domain.Report) (*domain.Report, error) {
	if report == nil || report.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if err := uc.requireLeader(ctx, scope); err != nil {
		return nil, err
	}
	if err := uc.reports.Update(ctx, report); err != nil {
		return nil, err
	}
	uc.notify(ctx, "update", scope, report.ID)
	return report, nil
}

func (uc *UseCase) Delete(ctx context.Context, scope domain.Scope, id string) error {
	if err := uc.requireLeader(ctx, scope); err != nil {
		return err
	}
	if err := uc.reports.Delete(ctx, id); err != nil {
		return err
	}
	uc.notify(ctx, "delete", scope, id)
	return nil
}

func (uc *UseCase) requireLeader(ctx context.Context, scope domain.Scope) error {
	membership, err := uc.memberships.Get(ctx, scope.TeamID, scope.UserID)
	if err != nil {
		if err == domain.ErrMembershipNotFound {
			return domain.ErrNotTeamMember
		}
		return err
	}
	if !membership.IsLeader() {
		return domain.ErrNotTeamLeader
	}
	return nil
}

func (uc *UseCase) notify(ctx context.Context, operation string, scope domain.Scope, entityID string) {
	if err := usecase.Notify(ctx, uc.notifier, "reports", operation, scope, entityID); err != nil {
		uc.logger.Warn("change notification failed", zap.Error(err))
	}
}
