package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/eventify/internal/forms"
)

func init() {
	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)

	registerCmd.Flags().String("username", "", "display name (required)")
	registerCmd.Flags().String("email", "", "email address (required)")
	registerCmd.Flags().String("password", "", "password (required)")
	registerCmd.Flags().String("photo-url", "", "profile photo URL")
	_ = registerCmd.MarkFlagRequired("username")
	_ = registerCmd.MarkFlagRequired("email")
	_ = registerCmd.MarkFlagRequired("password")

	loginCmd.Flags().String("email", "", "email address (required)")
	loginCmd.Flags().String("password", "", "password (required)")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		photoURL, _ := cmd.Flags().GetString("photo-url")

		if err := forms.Check(forms.RegisterForm{
			Username: username,
			Email:    email,
			Password: password,
			PhotoURL: photoURL,
		}); err != nil {
			return err
		}

		a := newApp()
		result := a.session.Register(cmd.Context(), username, email, password, photoURL)
		if !result.Success {
			return fmt.Errorf("registration failed: %s", result.Message)
		}
		fmt.Fprintf(os.Stdout, "Registered and signed in as %s.\n", username)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if err := forms.Check(forms.LoginForm{Email: email, Password: password}); err != nil {
			return err
		}

		a := newApp()
		result := a.session.SignIn(cmd.Context(), email, password)
		if !result.Success {
			return fmt.Errorf("login failed: %s", result.Message)
		}
		user := a.session.CurrentUser()
		if user != nil {
			fmt.Fprintf(os.Stdout, "Signed in as %s <%s>.\n", user.Username, user.Email)
		} else {
			fmt.Fprintln(os.Stdout, "Signed in.")
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear stored credentials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		if err := a.session.LogOut(cmd.Context()); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		fmt.Fprintln(os.Stdout, "Signed out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp()
		if err := a.session.VerifySession(cmd.Context()); err != nil {
			return fmt.Errorf("verify session: %w", err)
		}
		user := a.session.CurrentUser()
		if user == nil {
			fmt.Fprintln(os.Stdout, "Not signed in.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "ID\t%s\n", user.ID)
		fmt.Fprintf(w, "USERNAME\t%s\n", user.Username)
		fmt.Fprintf(w, "EMAIL\t%s\n", user.Email)
		if user.PhotoURL != "" {
			fmt.Fprintf(w, "PHOTO\t%s\n", user.PhotoURL)
		}
		return w.Flush()
	},
}
