package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/fintrack/internal/cli"
	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/forms"
)

var (
	errLoginFailed    = errors.New("login failed")
	errRegisterFailed = errors.New("registration failed")
)

func loginCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the finance API",
		Long: `Log in with your username and password. The access token is stored
locally so later commands and the dashboard stay signed in.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return runLogin(ctx, a, username)
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when omitted)")
	return cmd
}

func runLogin(ctx context.Context, a *app, username string) error {
	p := a.prompter()

	var err error
	if username == "" {
		if username, err = p.Ask(ctx, "Username", ""); err != nil {
			return err
		}
	}
	password, err := p.Secret(ctx, "Password")
	if err != nil {
		return err
	}

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return common.NewUserError("Username and password are required", errLoginFailed)
	}

	result := a.session.Login(ctx, username, password)
	if !result.OK {
		return common.NewUserError(result.Message, errLoginFailed)
	}

	user, _ := a.session.User()
	fmt.Fprintln(a.out, cli.FormatSuccess(fmt.Sprintf("Logged in as %s", user.Username)))
	return nil
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				a.restore(ctx)
				a.session.Logout(ctx)
				fmt.Fprintln(a.out, cli.FormatSuccess("Logged out"))
				return nil
			})
		},
	}
}

func registerCmd() *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long:  `Create an account on the finance API. Registration does not log you in; run 'fintrack login' afterwards.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				return runRegister(ctx, a, username, email)
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username (prompted when omitted)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address (prompted when omitted)")
	return cmd
}

func runRegister(ctx context.Context, a *app, username, email string) error {
	p := a.prompter()

	var err error
	if username == "" {
		if username, err = p.Ask(ctx, "Username", ""); err != nil {
			return err
		}
	}
	if email == "" {
		if email, err = p.Ask(ctx, "Email", ""); err != nil {
			return err
		}
	}
	password, err := p.Secret(ctx, "Password")
	if err != nil {
		return err
	}
	confirm, err := p.Secret(ctx, "Confirm password")
	if err != nil {
		return err
	}

	username, email = strings.TrimSpace(username), strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return common.NewUserError("Username, email and password are required", errRegisterFailed)
	}
	if password != confirm {
		return common.NewUserError("Passwords do not match", forms.ErrPasswordMismatch)
	}

	result := a.session.Register(ctx, username, email, password)
	if !result.OK {
		return common.NewUserError(result.Message, errRegisterFailed)
	}

	fmt.Fprintln(a.out, cli.FormatSuccess("Account created. Run 'fintrack login' to continue."))
	return nil
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				user, err := a.requireUser(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s %s\n", cli.BoldStyle.Render(user.Username), cli.SubtleStyle.Render(fmt.Sprintf("<%s> (ID: %d)", user.Email, user.ID)))
				return nil
			})
		},
	}
}

func passwdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change your password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, err := a.requireUser(ctx); err != nil {
					return err
				}
				return runPasswd(ctx, a)
			})
		},
	}
}

func runPasswd(ctx context.Context, a *app) error {
	p := a.prompter()

	var (
		form forms.PasswordForm
		err  error
	)
	if form.Old, err = p.Secret(ctx, "Current password"); err != nil {
		return err
	}
	if form.New, err = p.Secret(ctx, "New password"); err != nil {
		return err
	}
	if form.Confirm, err = p.Secret(ctx, "Confirm new password"); err != nil {
		return err
	}

	if err := form.Submit(ctx, a.client); err != nil {
		return common.NewUserError(forms.Message(err), err)
	}

	fmt.Fprintln(a.out, cli.FormatSuccess("Password changed"))
	return nil
}
