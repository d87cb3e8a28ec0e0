package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sevadhara/console/internal/auth"
	"github.com/sevadhara/console/internal/upstream"
)

func terminalPrompt(label string, secret bool) (string, error) {
	prompt := promptui.Prompt{Label: label}
	if secret {
		prompt.Mask = '*'
		prompt.Validate = func(s string) error {
			if len(s) < 6 {
				return errors.New("password must be at least 6 characters")
			}
			return nil
		}
	}
	return prompt.Run()
}

func newLoginCommand(app *App) *cobra.Command {
	var (
		baseURL   string
		login     string
		gotenberg string
		org       string
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the API token in the profile",
		Long: `Sign in with a 10-digit mobile number or an email address. The API
token is written to ~/.sevactl.yml (mode 0600); the password is not stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, path, err := app.loadProfile()
			if err != nil {
				return err
			}
			if baseURL != "" {
				p.BaseURL = strings.TrimRight(baseURL, "/")
			}
			if p.BaseURL == "" {
				if p.BaseURL, err = app.Prompt("API base URL", false); err != nil {
					return fmt.Errorf("base url: %w", err)
				}
			}
			if login == "" {
				if login, err = app.Prompt("Mobile number or email", false); err != nil {
					return fmt.Errorf("login: %w", err)
				}
			}
			password, err := app.Prompt("Password", true)
			if err != nil {
				return fmt.Errorf("password: %w", err)
			}

			svc := auth.NewService(upstream.NewClient(p.BaseURL, upstream.WithHTTPClient(app.HTTPClient)))
			identity, err := svc.Authenticate(cmd.Context(), auth.Credentials{Login: login, Password: password})
			if err != nil {
				return err
			}
			p.Token = identity.Token
			p.User = identity.Name
			if gotenberg != "" {
				p.GotenbergURL = gotenberg
			}
			if org != "" {
				p.OrgName = org
			}
			if err := p.Save(path); err != nil {
				return err
			}
			app.printf("Signed in as %s (%s)\n", identity.Name, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "", "API base URL")
	cmd.Flags().StringVar(&login, "login", "", "mobile number or email")
	cmd.Flags().StringVar(&gotenberg, "gotenberg", "", "Gotenberg URL for PDF exports")
	cmd.Flags().StringVar(&org, "org", "", "organisation name printed on reports")
	return cmd
}
