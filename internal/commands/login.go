package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"golang.org/x/oauth2"

	"taskr/internal/backend/googletasks"
	"taskr/internal/config"
	"taskr/internal/exitcode"
	"taskr/internal/session"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
//
// With --token the value is stored as a bearer token for the REST API.
// Without it the googletasks backend runs the browser OAuth flow.
type LoginCmd struct {
	token string
}

// SetToken sets the bearer token (for testing).
func (c *LoginCmd) SetToken(token string) {
	c.token = token
}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Store credentials for the task backend" }
func (c *LoginCmd) Usage() string      { return "taskr login [common flags] [--token <token>]" }
func (c *LoginCmd) NeedsSession() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.token, "token", "", "")
}

// oauthLogin and tokenValid are swapped in tests.
var (
	oauthLogin = googletasks.Login
	tokenValid = googletasks.TokenValid
)

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	if token := strings.TrimSpace(c.token); token != "" {
		return c.save(cfg, &oauth2.Token{AccessToken: token, TokenType: "Bearer"}, out, errOut)
	}

	if cfg.Backend != config.BackendGoogleTasks {
		fmt.Fprintln(errOut, "error: --token required for the rest backend")
		return exitcode.UserError
	}

	if !cfg.HasOAuthClient() {
		printOAuthSetup(cfg, errOut)
		return exitcode.AuthError
	}

	if cfg.HasToken() && tokenValid(ctx, cfg) {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	token, err := oauthLogin(ctx, cfg, errOut)
	if err != nil {
		if errors.Is(err, googletasks.ErrNoOAuthClient) {
			printOAuthSetup(cfg, errOut)
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.AuthError
	}
	return c.save(cfg, token, out, errOut)
}

func (c *LoginCmd) save(cfg *config.Config, token *oauth2.Token, out, errOut io.Writer) int {
	if err := cfg.SaveToken(token); err != nil {
		fmt.Fprintf(errOut, "error: failed to save token: %v\n", err)
		return exitcode.AuthError
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

func printOAuthSetup(cfg *config.Config, errOut io.Writer) {
	fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n\n", cfg.Dir)
	fmt.Fprintln(errOut, "To use the Google Tasks backend, you need OAuth credentials:")
	fmt.Fprintln(errOut, "")
	fmt.Fprintln(errOut, "1. Go to https://console.cloud.google.com/apis/credentials")
	fmt.Fprintln(errOut, "2. Create a project (or select an existing one)")
	fmt.Fprintln(errOut, "3. Enable the Google Tasks API:")
	fmt.Fprintln(errOut, "   https://console.cloud.google.com/apis/library/tasks.googleapis.com")
	fmt.Fprintln(errOut, "4. Create OAuth 2.0 credentials:")
	fmt.Fprintln(errOut, "   - Click 'Create Credentials' > 'OAuth client ID'")
	fmt.Fprintln(errOut, "   - Choose 'Desktop app' as application type")
	fmt.Fprintln(errOut, "   - Download the JSON file")
	fmt.Fprintln(errOut, "5. Save it as:")
	fmt.Fprintf(errOut, "   %s/oauth_client.json\n", cfg.Dir)
	fmt.Fprintln(errOut, "")
	fmt.Fprintln(errOut, "Then run 'taskr login' again.")
}
