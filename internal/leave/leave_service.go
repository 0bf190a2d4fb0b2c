package leave

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go-leave/internal/employee"
	"go-leave/internal/events"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/validation"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Service interface {
	Submit(ctx context.Context, actor Actor, req SubmitLeaveRequest) (LeaveResponse, error)
	ListPending(ctx context.Context, actor Actor, scopeKey string) ([]LeaveResponse, error)
	SetStatus(ctx context.Context, actor Actor, req ChangeStatusRequest) (LeaveResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	outbox    kafka.OutboxRepository
	cache     *pendingCache
	sf        *singleflight.Group
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees employee.Repository, logger ...*zap.Logger) Service {
	return NewServiceWithDeps(db, repo, employees, nil, nil, 0, logger...)
}

// NewServiceWithDeps wires the optional outbox and pending-list cache. A nil
// outbox disables events; a nil redis client or zero ttl disables caching.
func NewServiceWithDeps(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		outbox:    outboxRepo,
		cache:     &pendingCache{rdb: rdb, ttl: cacheTTL, logger: l},
		sf:        &singleflight.Group{},
		now:       time.Now,
		logger:    l,
	}
}

// log prefers the request scoped logger set by middleware.ContextLogger.
func (s *service) log(ctx context.Context) *zap.Logger {
	if l, ok := contextutil.LoggerFromContext(ctx); ok {
		return l.Named("leave.service")
	}
	return s.logger
}

func (s *service) Submit(ctx context.Context, actor Actor, req SubmitLeaveRequest) (LeaveResponse, error) {
	log := s.log(ctx)
	log.Debug("submit leave requested",
		zap.String("employee_code", actor.EmployeeCode),
		zap.String("role", actor.Role.String()),
		zap.String("from_date", req.FromDate),
		zap.String("to_date", req.ToDate),
	)

	if !actor.Role.CanSubmit() {
		log.Warn("submit leave role not allowed", zap.String("role", actor.Role.String()))
		return LeaveResponse{}, leaveerrors.ErrSubmitNotAllowed
	}
	if req.EmployeeCode != "" && req.EmployeeCode != actor.EmployeeCode {
		log.Warn("submit leave employee code mismatch",
			zap.String("employee_code", actor.EmployeeCode),
			zap.String("body_employee_code", req.EmployeeCode),
		)
		return LeaveResponse{}, leaveerrors.ErrEmployeeCodeMismatch
	}

	fromDate, toDate, reason, err := validateSubmission(req)
	if err != nil {
		log.Warn("submit leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	emp, err := s.employees.WithTx(tx).FindByCode(ctx, actor.EmployeeCode)
	if err != nil {
		log.Error("submit leave submitter lookup failed", zap.String("employee_code", actor.EmployeeCode), zap.Error(err))
		return LeaveResponse{}, err
	}
	if emp.Role != actor.Role {
		log.Warn("submit leave directory role mismatch",
			zap.String("employee_code", actor.EmployeeCode),
			zap.String("directory_role", emp.Role.String()),
		)
		return LeaveResponse{}, leaveerrors.ErrSubmitNotAllowed
	}

	now := s.now().UTC()
	rec := &LeaveRecord{
		ID:             uuid.New(),
		EmployeeCode:   emp.EmployeeCode,
		EmployeeName:   emp.Name,
		Designation:    emp.Designation,
		Department:     emp.Department,
		WhatsAppNumber: emp.WhatsAppNumber,
		Email:          emp.Email,
		WorkLocation:   emp.WorkLocation,
		FromDate:       fromDate,
		ToDate:         toDate,
		Reason:         reason,
		Status:         StatusPending,
		Channel:        actor.Role,
		SubmissionDate: now,
	}
	for _, r := range ApproverRoles(actor.Role) {
		rec.setScopeCode(r, emp.ApproverCode(r))
	}

	if err := s.repo.WithTx(tx).Create(ctx, rec); err != nil {
		log.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.enqueue(ctx, tx, events.EventLeaveSubmitted, *rec, ""); err != nil {
		log.Error("submit leave outbox failed", zap.String("leave_id", rec.ID.String()), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.cache.invalidate(ctx, *rec)

	log.Info("submit leave success",
		zap.String("leave_id", rec.ID.String()),
		zap.String("employee_code", rec.EmployeeCode),
		zap.String("channel", rec.Channel.String()),
	)
	return mapToResponse(*rec), nil
}

func (s *service) ListPending(ctx context.Context, actor Actor, scopeKey string) ([]LeaveResponse, error) {
	log := s.log(ctx)
	log.Debug("list pending leaves requested",
		zap.String("role", actor.Role.String()),
		zap.String("employee_code", actor.EmployeeCode),
		zap.String("scope_key", scopeKey),
	)

	if !actor.Role.CanApprove() {
		return nil, leaveerrors.ErrUnauthorizedApprover
	}
	scopeKey = strings.TrimSpace(scopeKey)
	if scopeKey == "" {
		return nil, leaveerrors.ErrScopeKeyRequired
	}
	if scopeKey != actor.EmployeeCode {
		log.Warn("list pending leaves scope mismatch",
			zap.String("employee_code", actor.EmployeeCode),
			zap.String("scope_key", scopeKey),
		)
		return nil, leaveerrors.ErrScopeMismatch
	}

	version, cached := s.cache.version(ctx, actor.Role, scopeKey)
	dataKey := PendingDataKey(actor.Role, scopeKey, version)
	if cached {
		if resp, ok := s.cache.get(ctx, dataKey); ok {
			log.Debug("list pending leaves cache hit", zap.String("key", dataKey))
			return resp, nil
		}
	}

	v, err, _ := s.sf.Do(dataKey, func() (interface{}, error) {
		records, err := s.repo.ListPendingForApprover(ctx, actor.Role, scopeKey)
		if err != nil {
			return nil, err
		}
		resp := mapToListResponse(records)
		if cached {
			s.cache.set(ctx, dataKey, resp)
		}
		return resp, nil
	})
	if err != nil {
		log.Error("list pending leaves failed", zap.Error(err))
		return nil, err
	}

	return v.([]LeaveResponse), nil
}

func (s *service) SetStatus(ctx context.Context, actor Actor, req ChangeStatusRequest) (LeaveResponse, error) {
	log := s.log(ctx)
	log.Debug("set leave status requested",
		zap.String("leave_id", req.LeaveID),
		zap.String("role", actor.Role.String()),
		zap.String("employee_code", actor.EmployeeCode),
		zap.String("target_status", req.Status),
	)

	if !actor.Role.CanApprove() {
		return LeaveResponse{}, leaveerrors.ErrUnauthorizedApprover
	}
	target, ok := ParseDecision(req.Status)
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrInvalidStatus
	}
	id, err := uuid.Parse(strings.TrimSpace(req.LeaveID))
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("set leave status begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, leaveerrors.ErrLeaveNotFound) {
			log.Error("set leave status lookup failed", zap.Error(err))
		}
		return LeaveResponse{}, err
	}
	if !rec.RoutedTo(actor.Role, actor.EmployeeCode) {
		log.Warn("set leave status unauthorized approver",
			zap.String("leave_id", req.LeaveID),
			zap.String("role", actor.Role.String()),
			zap.String("employee_code", actor.EmployeeCode),
		)
		return LeaveResponse{}, leaveerrors.ErrUnauthorizedApprover
	}
	if !rec.Status.CanTransition(target) {
		log.Warn("set leave status already terminal",
			zap.String("leave_id", req.LeaveID),
			zap.String("status", string(rec.Status)),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyTerminal
	}

	now := s.now().UTC()
	moved, err := qtx.TransitionStatus(ctx, id, target, actor.EmployeeCode, now)
	if err != nil {
		log.Error("set leave status persist failed", zap.String("leave_id", req.LeaveID), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !moved {
		log.Warn("set leave status lost race", zap.String("leave_id", req.LeaveID))
		return LeaveResponse{}, leaveerrors.ErrAlreadyTerminal
	}

	previous := rec.Status
	rec.Status = target
	decidedBy := actor.EmployeeCode
	rec.DecidedBy = &decidedBy
	rec.DecidedAt = &now
	rec.UpdatedAt = now

	if err := s.enqueue(ctx, tx, events.EventLeaveStatusChanged, *rec, previous); err != nil {
		log.Error("set leave status outbox failed", zap.String("leave_id", req.LeaveID), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("set leave status commit failed", zap.String("leave_id", req.LeaveID), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.cache.invalidate(ctx, *rec)

	log.Info("set leave status success",
		zap.String("leave_id", req.LeaveID),
		zap.String("status", string(target)),
		zap.String("decided_by", decidedBy),
	)
	return mapToResponse(*rec), nil
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, eventType string, rec LeaveRecord, previous Status) error {
	if s.outbox == nil {
		return nil
	}

	payload := events.LeaveEvent{
		EventType:      eventType,
		LeaveID:        rec.ID.String(),
		EmployeeCode:   rec.EmployeeCode,
		EmployeeName:   rec.EmployeeName,
		WhatsAppNumber: rec.WhatsAppNumber,
		Channel:        rec.Channel.String(),
		FromDate:       rec.FromDate.Format(validation.DateLayout),
		ToDate:         rec.ToDate.Format(validation.DateLayout),
		Status:         string(rec.Status),
		PreviousStatus: string(previous),
		RequestID:      contextutil.GetRequestID(ctx),
		OccurredAt:     s.now().UTC(),
	}
	if rec.DecidedBy != nil {
		payload.DecidedBy = *rec.DecidedBy
	}
	for _, r := range ApproverRoles(rec.Channel) {
		if code := rec.ScopeCode(r); code != "" {
			payload.Approvers = append(payload.Approvers, events.Approver{Role: r.String(), EmployeeCode: code})
		}
	}

	ev, err := kafka.NewEvent(payload.RequestID, events.AggregateLeave, payload.LeaveID, eventType, events.LeaveLifecycleTopic, payload)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, ev)
}

func validateSubmission(req SubmitLeaveRequest) (time.Time, time.Time, string, error) {
	reason := strings.TrimSpace(req.LeaveReason)
	switch n := utf8.RuneCountInString(reason); {
	case n < validation.ReasonMinLen:
		return time.Time{}, time.Time{}, "", leaveerrors.ErrReasonTooShort
	case n > validation.ReasonMaxLen:
		return time.Time{}, time.Time{}, "", leaveerrors.ErrReasonTooLong
	}

	fromDate, err := parseDate(req.FromDate)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	toDate, err := parseDate(req.ToDate)
	if err != nil {
		return time.Time{}, time.Time{}, "", err
	}
	if fromDate.After(toDate) {
		return time.Time{}, time.Time{}, "", leaveerrors.ErrInvalidDateRange
	}
	return fromDate, toDate, reason, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(validation.DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRecord) LeaveResponse {
	resp := LeaveResponse{
		LeaveID:        l.ID.String(),
		EmployeeCode:   l.EmployeeCode,
		EmployeeName:   l.EmployeeName,
		Designation:    l.Designation,
		Department:     l.Department,
		WhatsAppNumber: l.WhatsAppNumber,
		Email:          l.Email,
		WorkLocation:   l.WorkLocation,
		FromDate:       l.FromDate.Format(validation.DateLayout),
		ToDate:         l.ToDate.Format(validation.DateLayout),
		LeaveReason:    l.Reason,
		Status:         string(l.Status),
		SubmissionDate: l.SubmissionDate,
		Channel:        l.Channel.String(),
		DecidedAt:      l.DecidedAt,
	}
	if l.DecidedBy != nil {
		resp.DecidedBy = *l.DecidedBy
	}
	return resp
}

func mapToListResponse(records []LeaveRecord) []LeaveResponse {
	resp := make([]LeaveResponse, len(records))
	for i, l := range records {
		resp[i] = mapToResponse(l)
	}
	return resp
}
