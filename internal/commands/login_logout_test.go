package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"taskr/internal/commands"
	"taskr/internal/config"
	"taskr/internal/exitcode"
)

func runLogin(t *testing.T, cmd commands.Command, cfg *config.Config) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	code = cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func writeOAuthClient(t *testing.T, cfg *config.Config) {
	t.Helper()
	if err := cfg.EnsureDir(); err != nil {
		t.Fatal(err)
	}
	data := `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`
	if err := os.WriteFile(cfg.OAuthClientPath(), []byte(data), 0600); err != nil {
		t.Fatalf("failed to write oauth_client.json: %v", err)
	}
}

// stubOAuth fails the test if the browser flow is started unexpectedly.
func stubOAuth(t *testing.T, token *oauth2.Token, err error, valid bool) (calls *int) {
	t.Helper()
	n := 0
	restore := commands.SetOAuth(
		func(ctx context.Context, cfg *config.Config, prompt io.Writer) (*oauth2.Token, error) {
			n++
			return token, err
		},
		func(ctx context.Context, cfg *config.Config) bool { return valid },
	)
	t.Cleanup(restore)
	return &n
}

func TestLoginCommand_BearerToken(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), Backend: config.BackendREST}
	cmd := &commands.LoginCmd{}
	cmd.SetToken(" abc123 ")

	stdout, stderr, code := runLogin(t, cmd, cfg)

	expectCode(t, exitcode.Success, code, stderr)
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	tok, err := cfg.LoadToken()
	if err != nil {
		t.Fatalf("load token: %v", err)
	}
	if tok.AccessToken != "abc123" || tok.TokenType != "Bearer" {
		t.Errorf("unexpected token %+v", tok)
	}
}

func TestLoginCommand_RESTNeedsToken(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), Backend: config.BackendREST}

	_, stderr, code := runLogin(t, &commands.LoginCmd{}, cfg)

	expectCode(t, exitcode.UserError, code, stderr)
	if stderr != "error: --token required for the rest backend\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// TestLoginCommand_NoOAuthClient verifies login fails without oauth_client.json
func TestLoginCommand_NoOAuthClient(t *testing.T) {
	calls := stubOAuth(t, nil, nil, false)
	cfg := &config.Config{Dir: t.TempDir(), Backend: config.BackendGoogleTasks}

	stdout, stderr, code := runLogin(t, &commands.LoginCmd{}, cfg)

	expectCode(t, exitcode.AuthError, code, stderr)
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.Contains(stderr, "oauth_client.json not found") {
		t.Errorf("expected setup instructions, got %q", stderr)
	}
	if *calls != 0 {
		t.Error("browser flow must not start without a client")
	}
}

func TestLoginCommand_AlreadyLoggedIn(t *testing.T) {
	calls := stubOAuth(t, nil, nil, true)
	cfg := &config.Config{Dir: t.TempDir(), Backend: config.BackendGoogleTasks}
	writeOAuthClient(t, cfg)
	if err := cfg.SaveToken(&oauth2.Token{AccessToken: "a", RefreshToken: "r"}); err != nil {
		t.Fatal(err)
	}

	stdout, _, code := runLogin(t, &commands.LoginCmd{}, cfg)

	expectCode(t, exitcode.Success, code, "")
	if stdout != "already logged in\n" {
		t.Errorf("expected already logged in, got %q", stdout)
	}
	if *calls != 0 {
		t.Error("browser flow must not start with a valid token")
	}
}

// TestLoginCommand_InvalidToken verifies login proceeds when the stored token no longer works
func TestLoginCommand_InvalidToken(t *testing.T) {
	calls := stubOAuth(t, &oauth2.Token{AccessToken: "fresh", RefreshToken: "r"}, nil, false)
	cfg := &config.Config{Dir: t.TempDir(), Backend: config.BackendGoogleTasks}
	writeOAuthClient(t, cfg)
	if err := cfg.SaveToken(&oauth2.Token{AccessToken: "expired"}); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runLogin(t, &commands.LoginCmd{}, cfg)

	expectCode(t, exitcode.Success, code, stderr)
	if stdout != "ok\n" || *calls != 1 {
		t.Fatalf("expected one login flow and ok, got %q after %d calls", stdout, *calls)
	}
	tok, err := cfg.LoadToken()
	if err != nil || tok.AccessToken != "fresh" {
		t.Errorf("expected new token saved, got %+v, %v", tok, err)
	}
}

func TestLoginCommand_FlowFails(t *testing.T) {
	stubOAuth(t, nil, errors.New("cancelled"), false)
	cfg := &config.Config{Dir: t.TempDir(), Backend: config.BackendGoogleTasks}
	writeOAuthClient(t, cfg)

	_, stderr, code := runLogin(t, &commands.LoginCmd{}, cfg)

	expectCode(t, exitcode.AuthError, code, stderr)
	if stderr != "error: cancelled\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if cfg.HasToken() {
		t.Error("no token should be written when login fails")
	}
}

// TestLogoutCommand_OnlyRemovesToken verifies logout keeps other config files
func TestLogoutCommand_OnlyRemovesToken(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}
	writeOAuthClient(t, cfg)
	if err := cfg.SaveToken(&oauth2.Token{AccessToken: "a"}); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runLogin(t, &commands.LogoutCmd{}, cfg)

	expectCode(t, exitcode.Success, code, stderr)
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}
	if cfg.HasToken() {
		t.Error("token.json should be removed")
	}
	if !cfg.HasOAuthClient() {
		t.Error("oauth_client.json should be kept")
	}
}

func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir()}

	stdout, _, code := runLogin(t, &commands.LogoutCmd{}, cfg)

	expectCode(t, exitcode.Success, code, "")
	if stdout != "not logged in\n" {
		t.Errorf("expected not logged in, got %q", stdout)
	}
}

func TestLogoutCommand_NotLoggedInQuiet(t *testing.T) {
	cfg := &config.Config{Dir: t.TempDir(), Quiet: true}

	stdout, _, code := runLogin(t, &commands.LogoutCmd{}, cfg)

	expectCode(t, exitcode.Success, code, "")
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}
