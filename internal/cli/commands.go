package cli

import (
	"fmt"

	"go-leave/internal/client/guard"
	"go-leave/internal/client/panel"
	"go-leave/internal/client/session"
	"go-leave/internal/role"

	"github.com/spf13/cobra"
)

func newLoginCommand(env *Env) *cobra.Command {
	var creds session.Credentials
	cmd := &cobra.Command{
		Use:   "login <role>",
		Short: "Log in as employee, hr, manager, partner or hr-manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := role.Parse(args[0])
			if err != nil {
				return err
			}
			sess, err := env.Store.Login(commandContext(cmd), r, creds)
			env.printNotice(panel.AuthNotice(env.Messages, sess, err))
			if err != nil {
				return err
			}
			fmt.Fprintln(env.Out, r.HomePath())
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.WhatsAppNumber, "whatsapp", "", "WhatsApp number (employee login)")
	cmd.Flags().StringVar(&creds.EmployeeCode, "code", "", "employee code")
	cmd.Flags().StringVar(&creds.Password, "password", "", "password")
	return cmd
}

func newLogoutCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget every stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := env.Store.Logout(); err != nil {
				return err
			}
			env.printNotice(panel.LogoutNotice(env.Messages))
			return nil
		},
	}
}

func newWhoamiCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := env.activeSession(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(env.Out, "%s\t%s\t%s\n", sess.Role, sess.Identity.Code(), sess.Identity.DisplayName())
			return nil
		},
	}
}

func newOpenCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Resolve a panel path against the active session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, lookup, err := env.navigationSessions(cmd)
			if err != nil {
				return err
			}
			d := guard.NavigateWith(args[0], current, lookup)
			if d.Allow {
				fmt.Fprintln(env.Out, args[0])
				return nil
			}
			fmt.Fprintf(env.Out, "redirect %s\n", d.Redirect)
			return nil
		},
	}
}

func newSubmitCommand(env *Env) *cobra.Command {
	var from, to, reason string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a leave application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := env.activeSession(cmd)
			if err != nil {
				return err
			}
			p := panel.NewEmployeePanel(env.workflowFor(sess), env.Messages, env.Logger)
			rec, notice := p.Submit(commandContext(cmd), from, to, reason)
			env.printNotice(notice)
			if notice.Level == panel.LevelError {
				return fmt.Errorf("submit failed")
			}
			fmt.Fprintf(env.Out, "%s\t%s\t%s..%s\n", rec.LeaveID, rec.Status, rec.FromDate, rec.ToDate)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day of leave (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day of leave (YYYY-MM-DD)")
	cmd.Flags().StringVar(&reason, "reason", "", "reason, 10 to 500 characters")
	return cmd
}

func newPendingCommand(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List leave applications waiting for you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := env.activeSession(cmd)
			if err != nil {
				return err
			}
			p := panel.NewApproverPanel(env.workflowFor(sess), env.Messages, env.Logger)
			items, notice := p.Refresh(commandContext(cmd))
			env.printNotice(notice)
			if notice.Level == panel.LevelError {
				return fmt.Errorf("list pending failed")
			}
			for _, rec := range items {
				fmt.Fprintf(env.Out, "%s\t%s\t%s\t%s..%s\t%s\n", rec.LeaveID, rec.EmployeeCode, rec.EmployeeName, rec.FromDate, rec.ToDate, rec.LeaveReason)
			}
			return nil
		},
	}
}

func newDecideCommand(env *Env, use, status string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <leave-id>",
		Short: "Mark a pending leave application " + status,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := env.activeSession(cmd)
			if err != nil {
				return err
			}
			p := panel.NewApproverPanel(env.workflowFor(sess), env.Messages, env.Logger)

			var notice panel.Notice
			if use == "approve" {
				notice = p.Approve(commandContext(cmd), args[0])
			} else {
				notice = p.Reject(commandContext(cmd), args[0])
			}
			env.printNotice(notice)
			if notice.Level == panel.LevelError {
				return fmt.Errorf("%s failed", use)
			}
			for _, rec := range p.Items() {
				fmt.Fprintf(env.Out, "%s\t%s\t%s\n", rec.LeaveID, rec.EmployeeCode, rec.Status)
			}
			return nil
		},
	}
}
