package panel

import (
	"context"
	"errors"

	"go-leave/internal/client/api"
	"go-leave/internal/client/session"
	"go-leave/internal/client/workflow"

	"go.uber.org/zap"
)

type Submitter interface {
	Submit(ctx context.Context, fromDate, toDate, reason string) (api.LeaveRecord, error)
}

type Approver interface {
	ListPending(ctx context.Context) ([]api.LeaveRecord, error)
	SetStatus(ctx context.Context, leaveID, status string) (api.LeaveRecord, error)
	Pending() *workflow.PendingList
}

// EmployeePanel backs the Employee and HR-Manager leave forms.
type EmployeePanel struct {
	flow   Submitter
	msgs   *Messages
	logger *zap.Logger
}

func NewEmployeePanel(flow Submitter, msgs *Messages, logger ...*zap.Logger) *EmployeePanel {
	l := zap.L().Named("client.panel")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("client.panel")
	}
	return &EmployeePanel{flow: flow, msgs: msgs, logger: l}
}

func (p *EmployeePanel) Submit(ctx context.Context, fromDate, toDate, reason string) (api.LeaveRecord, Notice) {
	rec, err := p.flow.Submit(ctx, fromDate, toDate, reason)
	if err != nil {
		return api.LeaveRecord{}, errorNotice(p.msgs, p.logger, "submit", err)
	}
	return rec, Notice{Level: LevelSuccess, Text: p.msgs.T("submit_success", nil)}
}

// ApproverPanel backs the Manager, Partner and HR queues.
type ApproverPanel struct {
	flow   Approver
	msgs   *Messages
	logger *zap.Logger
}

func NewApproverPanel(flow Approver, msgs *Messages, logger ...*zap.Logger) *ApproverPanel {
	l := zap.L().Named("client.panel")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("client.panel")
	}
	return &ApproverPanel{flow: flow, msgs: msgs, logger: l}
}

// Items is the last applied pending list.
func (p *ApproverPanel) Items() []api.LeaveRecord {
	return p.flow.Pending().Items()
}

// Refresh reloads the queue. A result overtaken by a newer refresh is
// dropped without a notice.
func (p *ApproverPanel) Refresh(ctx context.Context) ([]api.LeaveRecord, Notice) {
	items, err := p.flow.ListPending(ctx)
	if errors.Is(err, workflow.ErrStaleResult) {
		return p.Items(), Notice{}
	}
	if err != nil {
		return p.Items(), errorNotice(p.msgs, p.logger, "refresh", err)
	}
	return items, Notice{Level: LevelInfo, Text: p.msgs.T("pending_count", map[string]any{"Count": len(items)})}
}

func (p *ApproverPanel) Approve(ctx context.Context, leaveID string) Notice {
	return p.decide(ctx, leaveID, workflow.StatusApproved, "approve_success")
}

func (p *ApproverPanel) Reject(ctx context.Context, leaveID string) Notice {
	return p.decide(ctx, leaveID, workflow.StatusRejected, "reject_success")
}

func (p *ApproverPanel) decide(ctx context.Context, leaveID, status, successID string) Notice {
	if _, err := p.flow.SetStatus(ctx, leaveID, status); err != nil {
		if workflow.IsKind(err, workflow.AlreadyTerminal) {
			return Notice{Level: LevelNeutral, Text: p.msgs.T("already_decided", nil)}
		}
		return errorNotice(p.msgs, p.logger, "set status", err)
	}
	return Notice{Level: LevelSuccess, Text: p.msgs.T(successID, nil)}
}

// AuthNotice turns a login outcome into a notice.
func AuthNotice(msgs *Messages, sess *session.Session, err error) Notice {
	if err == nil {
		return Notice{Level: LevelSuccess, Text: msgs.T("login_success", map[string]any{"Name": sess.Identity.DisplayName()})}
	}

	var authErr *session.AuthError
	if !errors.As(err, &authErr) {
		return Notice{Level: LevelError, Text: msgs.T("unexpected_error", nil)}
	}
	switch authErr.Kind {
	case session.InvalidCredentials:
		return Notice{Level: LevelError, Text: msgs.T("invalid_credentials", nil)}
	case session.NetworkFailure:
		return Notice{Level: LevelError, Text: msgs.T("network_failure", nil)}
	}
	return Notice{Level: LevelError, Text: msgs.T("validation_failed", map[string]any{"Detail": authErr.Message})}
}

func LogoutNotice(msgs *Messages) Notice {
	return Notice{Level: LevelInfo, Text: msgs.T("logout_success", nil)}
}

func errorNotice(msgs *Messages, logger *zap.Logger, op string, err error) Notice {
	var vErr *workflow.ValidationError
	if errors.As(err, &vErr) {
		return Notice{Level: LevelError, Text: msgs.T("validation_failed", map[string]any{"Detail": vErr.Message})}
	}

	var wfErr *workflow.WorkflowError
	if errors.As(err, &wfErr) {
		switch wfErr.Kind {
		case workflow.NotFound:
			return Notice{Level: LevelError, Text: msgs.T("leave_not_found", nil)}
		case workflow.Unauthorized:
			logger.Error(op+" not authorized", zap.Error(err))
			return Notice{Level: LevelError, Text: msgs.T("unauthorized", nil)}
		}
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		logger.Warn(op+" network failure", zap.Error(err))
		return Notice{Level: LevelError, Text: msgs.T("network_failure", nil)}
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		logger.Warn(op+" rejected by backend", zap.Int("status", apiErr.Status), zap.String("code", apiErr.Code))
		return Notice{Level: LevelError, Text: apiErr.Message}
	}

	logger.Error(op+" failed", zap.Error(err))
	return Notice{Level: LevelError, Text: msgs.T("unexpected_error", nil)}
}
