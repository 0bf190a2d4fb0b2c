package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/role"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*LeaveRecord, error)
	ListPendingForApprover(ctx context.Context, approver role.Role, code string) ([]LeaveRecord, error)
	// TransitionStatus moves a Pending record to status. It reports false
	// when the record was no longer Pending.
	TransitionStatus(ctx context.Context, id uuid.UUID, status Status, decidedBy string, at time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, l *LeaveRecord) error {
	err := r.conn(ctx).Create(l).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return leaveerrors.ErrDuplicateLeave
	}
	return err
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*LeaveRecord, error) {
	var l LeaveRecord
	err := r.conn(ctx).First(&l, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, leaveerrors.ErrLeaveNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func scopeColumn(approver role.Role) string {
	switch approver {
	case role.Manager:
		return "manager_code"
	case role.Partner:
		return "partner_code"
	case role.HR:
		return "hr_code"
	}
	return ""
}

func (r *repository) ListPendingForApprover(ctx context.Context, approver role.Role, code string) ([]LeaveRecord, error) {
	column := scopeColumn(approver)
	channels := ChannelsFor(approver)
	if column == "" || len(channels) == 0 {
		return []LeaveRecord{}, nil
	}

	var out []LeaveRecord
	err := r.conn(ctx).
		Scopes(routedTo(column, channels, code)).
		Where("status = ?", StatusPending).
		Order("submission_date ASC").
		Find(&out).Error
	return out, err
}

// routedTo limits a query to records whose snapshot column names code and
// whose channel is routed to that approver.
func routedTo(column string, channels []role.Role, code string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("channel IN ?", channels).Where(column+" = ?", code)
	}
}

func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, status Status, decidedBy string, at time.Time) (bool, error) {
	res := r.conn(ctx).
		Model(&LeaveRecord{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":     status,
			"decided_by": decidedBy,
			"decided_at": at,
			"updated_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
