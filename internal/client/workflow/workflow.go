package workflow

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go-leave/internal/client/api"
	"go-leave/internal/client/session"
	"go-leave/internal/role"
	"go-leave/internal/shared/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// Backend is the part of the api client the workflow calls.
type Backend interface {
	SubmitLeave(ctx context.Context, r role.Role, req api.SubmitLeaveRequest, idempotencyKey string) (api.LeaveRecord, error)
	PendingLeaves(ctx context.Context, r role.Role, employeeCode string) ([]api.LeaveRecord, error)
	ChangeStatus(ctx context.Context, r role.Role, req api.ChangeStatusRequest) (api.LeaveRecord, error)
}

// Workflow runs leave operations on behalf of one session.
type Workflow struct {
	backend Backend
	session *session.Session
	pending *PendingList
	logger  *zap.Logger
}

func New(backend Backend, sess *session.Session, logger ...*zap.Logger) *Workflow {
	l := zap.L().Named("client.workflow")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("client.workflow")
	}
	return &Workflow{backend: backend, session: sess, pending: &PendingList{}, logger: l}
}

func (w *Workflow) Pending() *PendingList {
	return w.pending
}

// Submit files a leave application for the session's own employee code.
func (w *Workflow) Submit(ctx context.Context, fromDate, toDate, reason string) (api.LeaveRecord, error) {
	if w.session == nil || !w.session.Role.CanSubmit() {
		return api.LeaveRecord{}, &WorkflowError{Kind: Unauthorized, Message: "This role cannot submit leave applications"}
	}

	req, err := validateSubmission(fromDate, toDate, reason)
	if err != nil {
		w.logger.Debug("submit rejected locally", zap.Error(err))
		return api.LeaveRecord{}, err
	}
	req.EmployeeCode = w.session.Identity.Code()

	rec, err := w.backend.SubmitLeave(ctx, w.session.Role, req, submissionKey(w.session.Role, req))
	if err != nil {
		return api.LeaveRecord{}, w.mapError("submit", err)
	}

	w.logger.Info("leave submitted", zap.String("leave_id", rec.LeaveID), zap.String("employee_code", req.EmployeeCode))
	return rec, nil
}

// ListPending fetches the approver's pending list. A result overtaken by a
// newer fetch returns ErrStaleResult and is not applied.
func (w *Workflow) ListPending(ctx context.Context) ([]api.LeaveRecord, error) {
	if w.session == nil || !w.session.Role.CanApprove() {
		return nil, &WorkflowError{Kind: Unauthorized, Message: "This role has no approval queue"}
	}

	seq := w.pending.Begin()
	items, err := w.backend.PendingLeaves(ctx, w.session.Role, w.session.Identity.Code())
	if err != nil {
		return nil, w.mapError("list pending", err)
	}
	if err := w.pending.Apply(seq, items); err != nil {
		w.logger.Debug("dropping superseded pending list", zap.Uint64("seq", seq))
		return nil, err
	}
	return w.pending.Items(), nil
}

// SetStatus decides a pending application. The list is re-fetched after a
// success and after losing a race to another approver.
func (w *Workflow) SetStatus(ctx context.Context, leaveID, status string) (api.LeaveRecord, error) {
	if w.session == nil || !w.session.Role.CanApprove() {
		return api.LeaveRecord{}, &WorkflowError{Kind: Unauthorized, Message: "This role cannot decide leave applications"}
	}
	leaveID = strings.TrimSpace(leaveID)
	if leaveID == "" {
		return api.LeaveRecord{}, &ValidationError{Field: "leaveId", Message: "Leave id is required"}
	}
	if status != StatusApproved && status != StatusRejected {
		return api.LeaveRecord{}, &ValidationError{Field: "status", Message: "Status must be Approved or Rejected"}
	}

	rec, err := w.backend.ChangeStatus(ctx, w.session.Role, api.ChangeStatusRequest{LeaveID: leaveID, Status: status})
	if err != nil {
		mapped := w.mapError("set status", err)
		if IsKind(mapped, AlreadyTerminal) {
			w.logger.Warn("leave already decided", zap.String("leave_id", leaveID))
			w.refresh(ctx)
		}
		return api.LeaveRecord{}, mapped
	}

	w.logger.Info("leave status changed", zap.String("leave_id", leaveID), zap.String("status", rec.Status))
	w.refresh(ctx)
	return rec, nil
}

func (w *Workflow) refresh(ctx context.Context) {
	if _, err := w.ListPending(ctx); err != nil && !errors.Is(err, ErrStaleResult) {
		w.logger.Warn("refresh after status change failed", zap.Error(err))
	}
}

func (w *Workflow) mapError(op string, err error) error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.IsAlreadyTerminal():
		return &WorkflowError{Kind: AlreadyTerminal, Message: apiErr.Message, Err: err}
	case apiErr.Status == http.StatusNotFound:
		return &WorkflowError{Kind: NotFound, Message: apiErr.Message, Err: err}
	case apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden:
		w.logger.Error(op+" unauthorized", zap.Int("status", apiErr.Status), zap.String("message", apiErr.Message))
		return &WorkflowError{Kind: Unauthorized, Message: apiErr.Message, Err: err}
	case apiErr.Status == http.StatusBadRequest:
		return &ValidationError{Message: apiErr.Message}
	}
	return err
}

// submissionKey is the same for repeated identical submissions so the
// backend can replay the first result instead of filing a duplicate.
func submissionKey(r role.Role, req api.SubmitLeaveRequest) string {
	name := strings.Join([]string{string(r), req.EmployeeCode, req.FromDate, req.ToDate, req.LeaveReason}, "\x1f")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func validateSubmission(fromDate, toDate, reason string) (api.SubmitLeaveRequest, error) {
	fromDate = strings.TrimSpace(fromDate)
	toDate = strings.TrimSpace(toDate)
	reason = strings.TrimSpace(reason)

	if fromDate == "" {
		return api.SubmitLeaveRequest{}, &ValidationError{Field: "fromDate", Message: "From date is required"}
	}
	if toDate == "" {
		return api.SubmitLeaveRequest{}, &ValidationError{Field: "toDate", Message: "To date is required"}
	}
	from, err := time.Parse(validation.DateLayout, fromDate)
	if err != nil {
		return api.SubmitLeaveRequest{}, &ValidationError{Field: "fromDate", Message: "From date must be YYYY-MM-DD"}
	}
	to, err := time.Parse(validation.DateLayout, toDate)
	if err != nil {
		return api.SubmitLeaveRequest{}, &ValidationError{Field: "toDate", Message: "To date must be YYYY-MM-DD"}
	}
	if from.After(to) {
		return api.SubmitLeaveRequest{}, &ValidationError{Field: "toDate", Message: "From date must be on or before to date"}
	}

	switch n := utf8.RuneCountInString(reason); {
	case n < validation.ReasonMinLen:
		return api.SubmitLeaveRequest{}, &ValidationError{Field: "leaveReason", Message: "Reason must be at least 10 characters"}
	case n > validation.ReasonMaxLen:
		return api.SubmitLeaveRequest{}, &ValidationError{Field: "leaveReason", Message: "Reason too long"}
	}

	return api.SubmitLeaveRequest{FromDate: fromDate, ToDate: toDate, LeaveReason: reason}, nil
}
