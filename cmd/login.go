// ABOUTME: Login command for the hrdesk CLI
// ABOUTME: Prompts for credentials or reads the password from stdin, then stores the token

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/markalston/hrdesk/internal/client"
	"github.com/markalston/hrdesk/internal/session"
	"github.com/markalston/hrdesk/internal/tui/login"
	"github.com/spf13/cobra"
)

var (
	loginUsername      string
	loginPasswordStdin bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	Long: `Sign in to the employee management system.

Without flags you are prompted for a username and password. For scripts, pass
--username and pipe the password with --password-stdin.

Exit codes:
  0 - Signed in
  1 - Credentials rejected
  2 - Error (invalid input, backend unreachable)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		creds, err := readCredentials(os.Stdin, loginUsername, loginPasswordStdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitError)
		}

		withSession(ctx, func(a *app) int {
			return runLogin(ctx, a.machine, creds, os.Stdout)
		})
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")
	rootCmd.AddCommand(loginCmd)
}

// runLogin signs in and returns the exit code
func runLogin(ctx context.Context, m *session.Machine, creds client.Credentials, w io.Writer) int {
	s, err := m.Login(ctx, creds)
	if err != nil {
		var ae *client.AuthError
		switch {
		case errors.As(err, &ae):
			fmt.Fprintf(w, "Login failed: %s\n", ae.Message)
			return exitDenied
		case client.IsValidationError(err):
			fmt.Fprintf(w, "Invalid input: %v\n", err)
			return exitError
		default:
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatSessionJSON(s))
	} else {
		fmt.Fprintf(w, "Signed in as %s\n", formatUserLine(s.User))
	}
	return exitOK
}

// readCredentials gathers credentials from stdin or an interactive form
func readCredentials(in io.Reader, username string, passwordStdin bool) (client.Credentials, error) {
	if passwordStdin {
		if username == "" {
			return client.Credentials{}, fmt.Errorf("--username is required with --password-stdin")
		}
		scanner := bufio.NewScanner(in)
		password := ""
		if scanner.Scan() {
			password = strings.TrimRight(scanner.Text(), "\r")
		}
		if err := scanner.Err(); err != nil {
			return client.Credentials{}, fmt.Errorf("failed to read password: %w", err)
		}
		return client.Credentials{Username: username, Password: password}, nil
	}

	creds := client.Credentials{Username: username}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&creds.Username).
				Validate(login.ValidateField("Username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&creds.Password).
				Validate(login.ValidateField("Password")),
		),
	)
	if err := form.Run(); err != nil {
		return client.Credentials{}, err
	}
	return creds, nil
}
