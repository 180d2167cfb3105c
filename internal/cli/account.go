package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/raphaelgruber/secondbrain/internal/client"
	"github.com/raphaelgruber/secondbrain/internal/service"
	"github.com/spf13/cobra"
)

var (
	signupName  string
	signupEmail string
	loginEmail  string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account on the server and log in",
	Long: `Create an account on the server and log in.

Missing values are prompted for. The password is never taken from a flag.

Examples:
  secondbrain signup
  secondbrain signup --name "Ada Lovelace" --email ada@example.com`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationMode: modeAccount},
	RunE:        runSignup,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and remember the session token",
	Long: `Log in and remember the session token in the credentials file.

Examples:
  secondbrain login --email ada@example.com
  secondbrain login --server https://brain.example.com`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationMode: modeAccount},
	RunE:        runLogin,
}

var logoutCmd = &cobra.Command{
	Use:         "logout",
	Short:       "Forget the stored session token",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationMode: modeAccount},
	RunE:        runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:         "whoami",
	Short:       "Show the logged-in account",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationMode: modeAccount},
	RunE:        runWhoami,
}

var refreshCmd = &cobra.Command{
	Use:         "refresh",
	Short:       "Renew the stored session token",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationMode: modeAccount},
	RunE:        runRefresh,
}

func init() {
	signupCmd.Flags().StringVar(&signupName, "name", "", "display name")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "email address")
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "email address")
}

func runSignup(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	input := service.SignupInput{Name: signupName, Email: signupEmail}

	var err error
	if input.Name == "" {
		if input.Name, err = readLine(out, "Name: "); err != nil {
			return err
		}
	}
	if input.Email == "" {
		if input.Email, err = readLine(out, "Email: "); err != nil {
			return err
		}
	}
	if input.Password, err = readPassword(out, "Password: "); err != nil {
		return err
	}

	url := resolveServerURL("")
	result, err := client.New(url, "").Signup(context.Background(), input)
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	if err := saveSession(url, result); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Logged in as %s\n", theme.successStyle().Render(result.Message+"."), result.User.Email)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	input := service.LoginInput{Email: loginEmail}

	var err error
	if input.Email == "" {
		if input.Email, err = readLine(out, "Email: "); err != nil {
			return err
		}
	}
	if input.Password, err = readPassword(out, "Password: "); err != nil {
		return err
	}

	url := resolveServerURL("")
	result, err := client.New(url, "").Login(context.Background(), input)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := saveSession(url, result); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Welcome back, %s.\n", theme.successStyle().Render(result.Message+"."), result.User.Name)
	return nil
}

func saveSession(url string, result client.AuthResult) error {
	err := client.SaveCredentials(cfg.CredentialsFile, client.Credentials{
		ServerURL: url,
		Token:     result.Token,
		UserID:    result.User.ID,
		Email:     result.User.Email,
		Name:      result.User.Name,
		SavedAt:   time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	logger.Info("session saved", "user", result.User.ID, "server", url)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := client.DeleteCredentials(cfg.CredentialsFile); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
	return nil
}

// sessionClient returns a client for the stored credentials.
func sessionClient() (*client.Client, client.Credentials, error) {
	creds, err := client.LoadCredentials(cfg.CredentialsFile)
	if err != nil {
		return nil, client.Credentials{}, err
	}
	return client.New(resolveServerURL(creds.ServerURL), creds.Token), creds, nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	c, _, err := sessionClient()
	if err != nil {
		return err
	}
	user, err := c.Session(context.Background())
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", theme.headingStyle().Render(user.Name), user.Email)
	fmt.Fprintln(cmd.OutOrStdout(), theme.hintStyle().Render("member since "+user.CreatedAt.Local().Format("2006-01-02")))
	return nil
}

func runRefresh(cmd *cobra.Command, args []string) error {
	c, creds, err := sessionClient()
	if err != nil {
		return err
	}
	token, err := c.Refresh(context.Background())
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	creds.Token = token
	creds.SavedAt = time.Now().UTC()
	if err := client.SaveCredentials(cfg.CredentialsFile, creds); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Session renewed.")
	return nil
}
