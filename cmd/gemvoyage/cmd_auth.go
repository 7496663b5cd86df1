package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gemvoyage/web/internal/api"
	"github.com/gemvoyage/web/internal/models"
	"github.com/gemvoyage/web/internal/session"
)

func credentialFlags(cmd *cobra.Command, creds *models.Credentials) {
	cmd.Flags().StringVar(&creds.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
}

func newLoginCmd(a *app) *cobra.Command {
	var creds models.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log this device in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			resp, err := a.session.Login(ctx, creds)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", resp.User.Email)

			if needs, _ := a.flows(ctx).profile.NeedsCompletion(ctx); needs {
				writeln(cmd.OutOrStdout(), "Please complete your profile: gemvoyage profile --first-name ... --last-name ... --city ... --bio ...")
			}
			return nil
		},
	}
	credentialFlags(cmd, &creds)
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var creds models.Credentials
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.session.Register(cmd.Context(), creds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Check %s to verify your account (gemvoyage resend to send it again)\n", creds.Email)
			return nil
		},
	}
	credentialFlags(cmd, &creds)
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log this device out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.session.Logout(cmd.Context())
			switch {
			case err == nil:
				writeln(cmd.OutOrStdout(), "Logged out")
			case errors.Is(err, session.ErrSessionExpired):
				writeln(cmd.OutOrStdout(), "Your session had already expired; you are logged out")
			default:
				return err
			}
			return nil
		},
	}
}

func newResendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resend",
		Short: "Resend the verification email of the last registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.ResendVerification(cmd.Context()); err != nil {
				return err
			}
			writeln(cmd.OutOrStdout(), "Verification email sent")
			return nil
		},
	}
}

func newProfileCmd(a *app) *cobra.Command {
	var p models.UserProfile
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile, or save it when any field flag is given",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := a.flows(ctx).profile

			if anyChanged(cmd, "first-name", "last-name", "city", "bio") {
				saved, err := svc.Save(ctx, p)
				if err != nil {
					return err
				}
				writeln(cmd.OutOrStdout(), "Profile saved")
				writeln(cmd.OutOrStdout(), a.renderer.Profile(saved))
				return nil
			}

			mine, err := svc.Mine(ctx)
			if api.IsNotFound(err) {
				writeln(cmd.OutOrStdout(), "No profile yet. Save one with --first-name, --last-name, --city and --bio.")
				return nil
			}
			if err != nil {
				return err
			}
			writeln(cmd.OutOrStdout(), a.renderer.Profile(mine))
			return nil
		},
	}
	cmd.Flags().StringVar(&p.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&p.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&p.City, "city", "", "Home city")
	cmd.Flags().StringVar(&p.Bio, "bio", "", "Short bio")
	return cmd
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}
