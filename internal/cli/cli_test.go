package cli_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/cli"
	"go-leave/internal/client/api"
	"go-leave/internal/client/panel"
	"go-leave/internal/client/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEnv(t *testing.T, backend http.HandlerFunc) (*cli.Env, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	msgs, err := panel.NewMessages("en")
	require.NoError(t, err)

	client := api.New(srv.URL)
	out := &bytes.Buffer{}
	return &cli.Env{
		Store:    session.NewStore(session.NewMemoryStorage(), client, []byte(strings.Repeat("k", 32)), nil),
		API:      client,
		Messages: msgs,
		Out:      out,
		Logger:   zap.NewNop(),
	}, out
}

func run(env *cli.Env, args ...string) error {
	root := cli.NewRootCommand(env)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func employeeLoginBackend(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/employee/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"data":{"role":"EMPLOYEE","accessToken":"tok","issuedAt":"2025-01-09T10:00:00Z","expiresAt":"2099-01-09T10:00:00Z","identity":{"employeeCode":"EMP-77","name":"Riya Sen","whatsappNumber":"+919147389854"}}}`))
	}
}

func TestLeavectl_LoginWhoamiOpenLogout(t *testing.T) {
	env, out := newEnv(t, employeeLoginBackend(t))

	require.NoError(t, run(env, "login", "employee", "--whatsapp", "+919147389854"))
	assert.Contains(t, out.String(), "[success] Welcome, Riya Sen")
	assert.Contains(t, out.String(), "/employee-leave")

	out.Reset()
	require.NoError(t, run(env, "whoami"))
	assert.Equal(t, "EMPLOYEE\tEMP-77\tRiya Sen\n", out.String())

	out.Reset()
	require.NoError(t, run(env, "open", "/partner-panel"))
	assert.Equal(t, "redirect /\n", out.String())

	out.Reset()
	require.NoError(t, run(env, "open", "/employee-login"))
	assert.Equal(t, "redirect /employee-leave\n", out.String())

	out.Reset()
	require.NoError(t, run(env, "logout"))
	assert.Contains(t, out.String(), "You have been logged out")

	out.Reset()
	require.NoError(t, run(env, "open", "/employee-leave"))
	assert.Equal(t, "redirect /\n", out.String())
}

func twoSlotBackend(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/employee/login":
			_, _ = w.Write([]byte(`{"ok":true,"data":{"role":"EMPLOYEE","accessToken":"tok-e","issuedAt":"2025-01-09T10:00:00Z","expiresAt":"2099-01-09T10:00:00Z","identity":{"employeeCode":"EMP-77","name":"Riya Sen","whatsappNumber":"+919147389854"}}}`))
		case "/partner/login":
			_, _ = w.Write([]byte(`{"ok":true,"data":{"role":"PARTNER","accessToken":"tok-p","issuedAt":"2025-01-09T10:00:00Z","expiresAt":"2099-01-09T10:00:00Z","identity":{"employeeCode":"PTR-01","name":"Vikram Shah"}}}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}
}

func TestLeavectl_OpenWithSeveralSessions(t *testing.T) {
	env, out := newEnv(t, twoSlotBackend(t))
	require.NoError(t, run(env, "login", "employee", "--whatsapp", "+919147389854"))
	require.NoError(t, run(env, "login", "partner", "--code", "PTR-01", "--password", "partner-pass"))

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"partner panel from its own slot", []string{"open", "/partner-panel"}, "/partner-panel\n"},
		{"employee panel still open", []string{"open", "/employee-leave"}, "/employee-leave\n"},
		{"as partner", []string{"--as", "partner", "open", "/partner-panel"}, "/partner-panel\n"},
		{"negative as partner on employee panel", []string{"--as", "partner", "open", "/employee-leave"}, "redirect /\n"},
		{"negative role never logged in", []string{"open", "/hr-panel"}, "redirect /\n"},
		{"public path goes to highest priority home", []string{"open", "/"}, "redirect /employee-leave\n"},
		{"public path as partner", []string{"--as", "partner", "open", "/"}, "redirect /partner-panel\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out.Reset()
			require.NoError(t, run(env, tc.args...))
			assert.Equal(t, tc.want, out.String())
		})
	}

	t.Run("negative as a role without a session", func(t *testing.T) {
		assert.ErrorContains(t, run(env, "--as", "hr", "open", "/hr-panel"), "not logged in")
	})
}

func TestLeavectl_Negative(t *testing.T) {
	t.Run("invalid whatsapp number never reaches the backend", func(t *testing.T) {
		env, out := newEnv(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("backend must not be called")
		})
		err := run(env, "login", "employee", "--whatsapp", "12ab")
		assert.Error(t, err)
		assert.Contains(t, out.String(), "Please enter a valid WhatsApp number")
	})

	t.Run("unknown role", func(t *testing.T) {
		env, _ := newEnv(t, employeeLoginBackend(t))
		assert.Error(t, run(env, "login", "director"))
	})

	t.Run("submit without session", func(t *testing.T) {
		env, _ := newEnv(t, employeeLoginBackend(t))
		err := run(env, "submit", "--from", "2025-01-10", "--to", "2025-01-12", "--reason", "Family function, attending wedding")
		assert.ErrorContains(t, err, "not logged in")
	})

	t.Run("employee session has no queue", func(t *testing.T) {
		env, out := newEnv(t, employeeLoginBackend(t))
		require.NoError(t, run(env, "login", "employee", "--whatsapp", "+919147389854"))

		out.Reset()
		err := run(env, "pending")
		assert.Error(t, err)
		assert.Contains(t, out.String(), "You are not allowed to perform this action")
	})
}
