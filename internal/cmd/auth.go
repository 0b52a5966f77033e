package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kartel/whygo/internal/errors"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with your work email",
	Long: `Sign in with your Kartel email address. The session is stored in the
state directory and shared by every whygo command and open dashboard.

Without --email, whygo prompts for it when run in a terminal.`,
	Args: cobra.NoArgs,
	RunE: withRuntime(runLogin),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  withRuntime(runLogout),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in person",
	Long:  `Show the signed-in person as the server sees them. An expired session is cleared.`,
	Args:  cobra.NoArgs,
	RunE:  withRuntime(runWhoami),
}

var loginEmail string

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Work email address")
}

func runLogin(r *runtime, cmd *cobra.Command, args []string) error {
	email := strings.TrimSpace(loginEmail)
	if email == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("%w: --email is required", errors.ErrInvalidInput)
		}
		fmt.Fprint(cmd.OutOrStdout(), "Email: ")
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if email == "" {
		return fmt.Errorf("%w: email is required", errors.ErrInvalidInput)
	}

	resp, err := r.api.Login(cmd.Context(), email)
	if err != nil {
		if errors.IsUserFacing(err) {
			return fmt.Errorf("login failed: %s", errors.UserMessage(err))
		}
		return fmt.Errorf("login failed: %w", err)
	}
	sess := resp.Session()
	if err := r.sessions.Login(sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	// A new identity must not see the previous one's cached reads.
	r.backend.Purge()

	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", sess.PersonName, sess.PersonLevel.Label())
	return nil
}

func runLogout(r *runtime, cmd *cobra.Command, args []string) error {
	if r.sessions.Current() == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
		return nil
	}
	if err := r.sessions.Logout(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	r.backend.Purge()
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
	return nil
}

func runWhoami(r *runtime, cmd *cobra.Command, args []string) error {
	ctx, _, err := r.authContext(cmd.Context())
	if err != nil {
		return err
	}
	me, err := r.api.Me(ctx)
	if err != nil {
		return describeAPIError(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", me.Name, me.ID)
	if me.Title != "" {
		fmt.Fprintf(out, "Title: %s\n", me.Title)
	}
	if me.Email != nil && *me.Email != "" {
		fmt.Fprintf(out, "Email: %s\n", *me.Email)
	}
	fmt.Fprintf(out, "Role: %s\n", me.Level.Label())
	if me.OnboardingStatus != "" {
		fmt.Fprintf(out, "Onboarding: %s\n", strings.ReplaceAll(string(me.OnboardingStatus), "_", " "))
	}
	fmt.Fprintf(out, "Session: %s\n", r.store.Path())
	return nil
}

// describeAPIError turns API failures into command errors. A rejected
// session has already been cleared by the client.
func describeAPIError(err error) error {
	if errors.Is(err, errors.ErrUnauthenticated) {
		return errors.New("session expired, run 'whygo login' to sign in again")
	}
	if errors.IsUserFacing(err) {
		return errors.New(errors.UserMessage(err))
	}
	return err
}
