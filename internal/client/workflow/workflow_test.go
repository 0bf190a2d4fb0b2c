package workflow_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"go-leave/internal/client/api"
	"go-leave/internal/client/session"
	"go-leave/internal/client/workflow"
	"go-leave/internal/role"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	submitFn       func(ctx context.Context, r role.Role, req api.SubmitLeaveRequest, key string) (api.LeaveRecord, error)
	pendingFn      func(ctx context.Context, r role.Role, code string) ([]api.LeaveRecord, error)
	changeStatusFn func(ctx context.Context, r role.Role, req api.ChangeStatusRequest) (api.LeaveRecord, error)
	pendingCalls   int
}

func (f *fakeBackend) SubmitLeave(ctx context.Context, r role.Role, req api.SubmitLeaveRequest, key string) (api.LeaveRecord, error) {
	return f.submitFn(ctx, r, req, key)
}

func (f *fakeBackend) PendingLeaves(ctx context.Context, r role.Role, code string) ([]api.LeaveRecord, error) {
	f.pendingCalls++
	if f.pendingFn != nil {
		return f.pendingFn(ctx, r, code)
	}
	return []api.LeaveRecord{}, nil
}

func (f *fakeBackend) ChangeStatus(ctx context.Context, r role.Role, req api.ChangeStatusRequest) (api.LeaveRecord, error) {
	return f.changeStatusFn(ctx, r, req)
}

func employeeSession() *session.Session {
	return &session.Session{
		Role:     role.Employee,
		Identity: session.EmployeeIdentity{EmployeeCode: "EMP-01", Name: "Asha Rao"},
	}
}

func partnerSession() *session.Session {
	return &session.Session{
		Role:     role.Partner,
		Identity: session.PartnerIdentity{EmployeeCode: "PTR-01", Name: "Vikram Shah"},
	}
}

func TestWorkflow_Submit(t *testing.T) {
	t.Run("success uses session employee code", func(t *testing.T) {
		backend := &fakeBackend{
			submitFn: func(ctx context.Context, r role.Role, req api.SubmitLeaveRequest, key string) (api.LeaveRecord, error) {
				assert.Equal(t, role.Employee, r)
				assert.Equal(t, "EMP-01", req.EmployeeCode)
				assert.Equal(t, "Family function, attending wedding", req.LeaveReason)
				assert.NotEmpty(t, key)
				return api.LeaveRecord{LeaveID: "l-1", EmployeeCode: req.EmployeeCode, Status: workflow.StatusPending}, nil
			},
		}
		wf := workflow.New(backend, employeeSession())

		rec, err := wf.Submit(context.Background(), "2025-01-10", "2025-01-12", "  Family function, attending wedding  ")
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusPending, rec.Status)
	})

	t.Run("reason boundaries", func(t *testing.T) {
		accepted := func(ctx context.Context, r role.Role, req api.SubmitLeaveRequest, key string) (api.LeaveRecord, error) {
			return api.LeaveRecord{LeaveID: "l-1", Status: workflow.StatusPending}, nil
		}
		cases := []struct {
			name    string
			length  int
			wantErr string
		}{
			{"negative nine runes", 9, "Reason must be at least 10 characters"},
			{"ten runes", 10, ""},
			{"five hundred runes", 500, ""},
			{"negative five hundred one runes", 501, "Reason too long"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				wf := workflow.New(&fakeBackend{submitFn: accepted}, employeeSession())
				_, err := wf.Submit(context.Background(), "2025-01-10", "2025-01-12", strings.Repeat("é", tc.length))
				if tc.wantErr == "" {
					assert.NoError(t, err)
					return
				}
				var vErr *workflow.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "leaveReason", vErr.Field)
				assert.Equal(t, tc.wantErr, vErr.Message)
			})
		}
	})

	t.Run("negative date problems", func(t *testing.T) {
		cases := []struct {
			name, from, to, field string
		}{
			{"missing from", "", "2025-01-12", "fromDate"},
			{"missing to", "2025-01-10", " ", "toDate"},
			{"bad format", "10/01/2025", "2025-01-12", "fromDate"},
			{"from after to", "2025-01-13", "2025-01-12", "toDate"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				wf := workflow.New(&fakeBackend{}, employeeSession())
				_, err := wf.Submit(context.Background(), tc.from, tc.to, "Family function, attending wedding")
				var vErr *workflow.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, tc.field, vErr.Field)
			})
		}
	})

	t.Run("negative approver role cannot submit", func(t *testing.T) {
		wf := workflow.New(&fakeBackend{}, partnerSession())
		_, err := wf.Submit(context.Background(), "2025-01-10", "2025-01-12", "Family function, attending wedding")
		assert.True(t, workflow.IsKind(err, workflow.Unauthorized))
	})

	t.Run("negative server validation message surfaces", func(t *testing.T) {
		backend := &fakeBackend{
			submitFn: func(ctx context.Context, r role.Role, req api.SubmitLeaveRequest, key string) (api.LeaveRecord, error) {
				return api.LeaveRecord{}, &api.Error{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: "Invalid date"}
			},
		}
		wf := workflow.New(backend, employeeSession())
		_, err := wf.Submit(context.Background(), "2025-01-10", "2025-01-12", "Family function, attending wedding")
		var vErr *workflow.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "Invalid date", vErr.Message)
	})

	t.Run("negative network failure passes through", func(t *testing.T) {
		backend := &fakeBackend{
			submitFn: func(ctx context.Context, r role.Role, req api.SubmitLeaveRequest, key string) (api.LeaveRecord, error) {
				return api.LeaveRecord{}, &api.NetworkError{Op: "POST /employee/submit-leave-application", Err: errors.New("connection refused")}
			},
		}
		wf := workflow.New(backend, employeeSession())
		_, err := wf.Submit(context.Background(), "2025-01-10", "2025-01-12", "Family function, attending wedding")
		var netErr *api.NetworkError
		assert.ErrorAs(t, err, &netErr)
	})
}

func TestWorkflow_ListPending(t *testing.T) {
	t.Run("success scoped to own code", func(t *testing.T) {
		backend := &fakeBackend{
			pendingFn: func(ctx context.Context, r role.Role, code string) ([]api.LeaveRecord, error) {
				assert.Equal(t, role.Partner, r)
				assert.Equal(t, "PTR-01", code)
				return []api.LeaveRecord{{LeaveID: "l-2"}, {LeaveID: "l-1"}}, nil
			},
		}
		wf := workflow.New(backend, partnerSession())

		got, err := wf.ListPending(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"l-2", "l-1"}, []string{got[0].LeaveID, got[1].LeaveID})
		assert.Len(t, wf.Pending().Items(), 2)
	})

	t.Run("superseded fetch is discarded", func(t *testing.T) {
		backend := &fakeBackend{}
		wf := workflow.New(backend, partnerSession())

		backend.pendingFn = func(ctx context.Context, r role.Role, code string) ([]api.LeaveRecord, error) {
			if backend.pendingCalls == 1 {
				// a newer fetch is issued and answered while this one is outstanding
				_, err := wf.ListPending(ctx)
				require.NoError(t, err)
				return []api.LeaveRecord{{LeaveID: "old"}}, nil
			}
			return []api.LeaveRecord{{LeaveID: "new"}}, nil
		}

		_, err := wf.ListPending(context.Background())
		assert.ErrorIs(t, err, workflow.ErrStaleResult)
		items := wf.Pending().Items()
		require.Len(t, items, 1)
		assert.Equal(t, "new", items[0].LeaveID)
	})

	t.Run("negative employee has no queue", func(t *testing.T) {
		wf := workflow.New(&fakeBackend{}, employeeSession())
		_, err := wf.ListPending(context.Background())
		assert.True(t, workflow.IsKind(err, workflow.Unauthorized))
	})
}

func TestPendingList(t *testing.T) {
	var p workflow.PendingList
	first := p.Begin()
	second := p.Begin()

	require.NoError(t, p.Apply(second, []api.LeaveRecord{{LeaveID: "b"}}))
	assert.ErrorIs(t, p.Apply(first, []api.LeaveRecord{{LeaveID: "a"}}), workflow.ErrStaleResult)

	items := p.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].LeaveID)

	items[0].LeaveID = "mutated"
	assert.Equal(t, "b", p.Items()[0].LeaveID)
}

func TestWorkflow_SetStatus(t *testing.T) {
	t.Run("success refreshes pending list", func(t *testing.T) {
		backend := &fakeBackend{
			changeStatusFn: func(ctx context.Context, r role.Role, req api.ChangeStatusRequest) (api.LeaveRecord, error) {
				assert.Equal(t, api.ChangeStatusRequest{LeaveID: "l-1", Status: workflow.StatusApproved}, req)
				return api.LeaveRecord{LeaveID: "l-1", Status: workflow.StatusApproved, DecidedBy: "PTR-01"}, nil
			},
		}
		wf := workflow.New(backend, partnerSession())

		rec, err := wf.SetStatus(context.Background(), "l-1", workflow.StatusApproved)
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusApproved, rec.Status)
		assert.Equal(t, 1, backend.pendingCalls)
	})

	t.Run("negative already decided refreshes too", func(t *testing.T) {
		backend := &fakeBackend{
			changeStatusFn: func(ctx context.Context, r role.Role, req api.ChangeStatusRequest) (api.LeaveRecord, error) {
				return api.LeaveRecord{}, &api.Error{Status: http.StatusConflict, Code: api.CodeInvalidState, Message: "Leave application is already decided"}
			},
		}
		wf := workflow.New(backend, partnerSession())

		_, err := wf.SetStatus(context.Background(), "l-1", workflow.StatusRejected)
		assert.True(t, workflow.IsKind(err, workflow.AlreadyTerminal))
		assert.Equal(t, 1, backend.pendingCalls)
	})

	t.Run("negative not found", func(t *testing.T) {
		backend := &fakeBackend{
			changeStatusFn: func(ctx context.Context, r role.Role, req api.ChangeStatusRequest) (api.LeaveRecord, error) {
				return api.LeaveRecord{}, &api.Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: "Leave application not found"}
			},
		}
		wf := workflow.New(backend, partnerSession())

		_, err := wf.SetStatus(context.Background(), "missing", workflow.StatusApproved)
		assert.True(t, workflow.IsKind(err, workflow.NotFound))
		assert.Zero(t, backend.pendingCalls)
	})

	t.Run("negative forbidden", func(t *testing.T) {
		backend := &fakeBackend{
			changeStatusFn: func(ctx context.Context, r role.Role, req api.ChangeStatusRequest) (api.LeaveRecord, error) {
				return api.LeaveRecord{}, &api.Error{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: "Not allowed"}
			},
		}
		wf := workflow.New(backend, partnerSession())

		_, err := wf.SetStatus(context.Background(), "l-1", workflow.StatusApproved)
		assert.True(t, workflow.IsKind(err, workflow.Unauthorized))
	})

	t.Run("negative invalid input", func(t *testing.T) {
		wf := workflow.New(&fakeBackend{}, partnerSession())

		_, err := wf.SetStatus(context.Background(), "l-1", workflow.StatusPending)
		var vErr *workflow.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "status", vErr.Field)

		_, err = wf.SetStatus(context.Background(), " ", workflow.StatusApproved)
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "leaveId", vErr.Field)
	})
}

func TestWorkflow_SubmitIdempotencyKey(t *testing.T) {
	var keys []string
	backend := &fakeBackend{
		submitFn: func(ctx context.Context, r role.Role, req api.SubmitLeaveRequest, key string) (api.LeaveRecord, error) {
			keys = append(keys, key)
			return api.LeaveRecord{LeaveID: "l-1", Status: workflow.StatusPending}, nil
		},
	}
	wf := workflow.New(backend, employeeSession())
	ctx := context.Background()

	_, err := wf.Submit(ctx, "2025-01-10", "2025-01-12", "Family function, attending wedding")
	require.NoError(t, err)
	_, err = wf.Submit(ctx, "2025-01-10", "2025-01-12", " Family function, attending wedding ")
	require.NoError(t, err)
	_, err = wf.Submit(ctx, "2025-01-10", "2025-01-13", "Family function, attending wedding")
	require.NoError(t, err)

	require.Len(t, keys, 3)
	assert.Equal(t, keys[0], keys[1], "repeated identical submission must reuse the key")
	assert.NotEqual(t, keys[0], keys[2])
}

func TestWorkflow_SubmitReasonIgnoresSurroundingSpace(t *testing.T) {
	backend := &fakeBackend{
		submitFn: func(ctx context.Context, r role.Role, req api.SubmitLeaveRequest, key string) (api.LeaveRecord, error) {
			t.Fatal("backend must not be called")
			return api.LeaveRecord{}, nil
		},
	}
	wf := workflow.New(backend, employeeSession())

	_, err := wf.Submit(context.Background(), "2025-01-10", "2025-01-12", " "+strings.Repeat("a", 9))
	var vErr *workflow.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Reason must be at least 10 characters", vErr.Message)
}
