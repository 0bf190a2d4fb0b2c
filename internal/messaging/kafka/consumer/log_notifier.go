package consumer

import (
	"context"

	"go-leave/internal/events"

	"go.uber.org/zap"
)

// LogNotifier writes one structured line per event. It stands in for a
// WhatsApp or e-mail gateway.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notifier")}
}

func (n *LogNotifier) Notify(ctx context.Context, event events.LeaveEvent) error {
	switch event.EventType {
	case events.EventLeaveSubmitted:
		for _, a := range event.Approvers {
			n.logger.Info("notify approver of new leave application",
				zap.String("leave_id", event.LeaveID),
				zap.String("approver_role", a.Role),
				zap.String("approver_code", a.EmployeeCode),
				zap.String("employee_code", event.EmployeeCode),
				zap.String("from_date", event.FromDate),
				zap.String("to_date", event.ToDate),
			)
		}
	case events.EventLeaveStatusChanged:
		n.logger.Info("notify employee of leave decision",
			zap.String("leave_id", event.LeaveID),
			zap.String("employee_code", event.EmployeeCode),
			zap.String("status", event.Status),
			zap.String("decided_by", event.DecidedBy),
		)
	default:
		n.logger.Warn("unknown leave event type", zap.String("event_type", event.EventType))
	}
	return nil
}
