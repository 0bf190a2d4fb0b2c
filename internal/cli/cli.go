package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go-leave/internal/client/api"
	"go-leave/internal/client/guard"
	"go-leave/internal/client/panel"
	"go-leave/internal/client/session"
	"go-leave/internal/client/workflow"
	"go-leave/internal/role"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Env carries what every leavectl command needs.
type Env struct {
	Store    *session.Store
	API      *api.Client
	Messages *panel.Messages
	Out      io.Writer
	Logger   *zap.Logger
}

var errNoSession = errors.New("not logged in")

// NewRootCommand builds the leavectl command tree.
func NewRootCommand(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:           "leavectl",
		Short:         "Submit and decide leave applications",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("as", "", "act with the session stored for this role instead of the highest priority one")
	root.SetOut(env.Out)

	root.AddCommand(
		newLoginCommand(env),
		newLogoutCommand(env),
		newWhoamiCommand(env),
		newOpenCommand(env),
		newSubmitCommand(env),
		newPendingCommand(env),
		newDecideCommand(env, "approve", workflow.StatusApproved),
		newDecideCommand(env, "reject", workflow.StatusRejected),
	)
	return root
}

func (e *Env) printNotice(n panel.Notice) {
	if n.Empty() {
		return
	}
	fmt.Fprintf(e.Out, "[%s] %s\n", n.Level, n.Text)
}

// activeSession honours --as and otherwise falls back to Store.Current.
func (e *Env) activeSession(cmd *cobra.Command) (*session.Session, error) {
	as, _ := cmd.Flags().GetString("as")
	if as == "" {
		if sess, ok := e.Store.Current(); ok {
			return sess, nil
		}
		return nil, errNoSession
	}
	r, err := role.Parse(as)
	if err != nil {
		return nil, err
	}
	if sess, ok := e.Store.ForRole(r); ok {
		return sess, nil
	}
	return nil, fmt.Errorf("%w as %s", errNoSession, r)
}

// navigationSessions picks the sessions open checks a path against. With --as
// only that role's session counts; otherwise every stored slot is eligible.
func (e *Env) navigationSessions(cmd *cobra.Command) (*session.Session, guard.SessionLookup, error) {
	if as, _ := cmd.Flags().GetString("as"); as != "" {
		sess, err := e.activeSession(cmd)
		if err != nil {
			return nil, nil, err
		}
		return sess, func(r role.Role) (*session.Session, bool) {
			return sess, sess.Role == r
		}, nil
	}
	current, _ := e.Store.Current()
	return current, e.Store.ForRole, nil
}

func (e *Env) workflowFor(sess *session.Session) *workflow.Workflow {
	return workflow.New(e.API.WithToken(sess.AccessToken), sess, e.Logger)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
