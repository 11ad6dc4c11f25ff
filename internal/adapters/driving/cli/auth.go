package cli

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/foliolabs/folio/internal/adapters/driving/oauth"
)

// loginTimeout bounds how long the login flow waits for the browser
// redirect before giving up.
const loginTimeout = 5 * time.Minute

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Connect Google accounts",
	Long: `Authorize Google accounts so the agent can act on their documents.

'folio auth login' opens a browser, walks through Google's consent
screen and stores the resulting credential. The configured redirect URI
must point at a loopback address for this flow, for example
http://localhost:8080/auth/google/callback.

Examples:
  folio auth login`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize a Google account through the browser",
	RunE:  runAuthLogin,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if credentialService == nil {
		return errors.New("credential service not configured")
	}
	if cfg == nil {
		return errors.New("configuration not loaded")
	}

	ctx := cmd.Context()

	authURL, state, err := credentialService.BeginAuthorization(ctx)
	if err != nil {
		return fmt.Errorf("starting authorization: %w", err)
	}

	port, err := redirectPort(cfg.Google.RedirectURI)
	if err != nil {
		return err
	}

	server := oauth.NewCallbackServer(port, state)
	if err := server.Start(); err != nil {
		return fmt.Errorf("starting callback server: %w", err)
	}
	defer server.Stop() //nolint:errcheck

	cmd.Println("Opening browser for Google authorization...")
	if err := oauth.OpenBrowser(authURL); err != nil {
		cmd.Println("Could not open a browser. Visit this URL to continue:")
		cmd.Println()
		cmd.Printf("  %s\n", authURL)
		cmd.Println()
	}

	code, err := server.WaitForCode(loginTimeout)
	if err != nil {
		return fmt.Errorf("waiting for authorization: %w", err)
	}

	cred, err := credentialService.CompleteAuthorization(ctx, code, state)
	if err != nil {
		return fmt.Errorf("completing authorization: %w", err)
	}

	cmd.Printf("Connected %s (user id %s)\n", cred.Email, cred.UserID)
	return nil
}

// redirectPort extracts the loopback port from the configured redirect
// URI. The callback server must listen where Google will redirect.
func redirectPort(redirectURI string) (int, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return 0, fmt.Errorf("parsing redirect URI: %w", err)
	}

	host := u.Hostname()
	if host != "localhost" && host != "127.0.0.1" {
		return 0, fmt.Errorf(
			"redirect URI %s is not a loopback address; 'auth login' needs one", redirectURI)
	}

	portStr := u.Port()
	if portStr == "" {
		if u.Scheme == "https" {
			return 443, nil
		}
		return 80, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("parsing redirect URI port: %w", err)
	}
	return port, nil
}
