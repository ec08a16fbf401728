package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"reviewhub/cmd/cli/command/client"
)

// authCmd groups the signup flow: request a code by email, then exchange it.
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Request an email confirmation code and exchange it for an access token.`,
}

var sendCodeCmd = &cobra.Command{
	Use:   "code",
	Short: "Send a confirmation code to an email address",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req client.SendCodeRequest
		req.Email, _ = cmd.Flags().GetString("email")

		resp, err := newClient().SendCode(&req)
		if err != nil {
			return fmt.Errorf("could not send confirmation code: %w", err)
		}

		fmt.Printf("✓ Confirmation code sent to %s\n", resp.Email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Exchange a confirmation code for an access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req client.TokenRequest
		req.Email, _ = cmd.Flags().GetString("email")
		req.ConfirmationCode, _ = cmd.Flags().GetString("code")

		resp, err := newClient().Token(&req)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		fmt.Println("✓ Successfully logged in!")
		fmt.Printf("export REVIEWHUB_TOKEN=%s\n", resp.Token)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the profile of the current token",
	RunE: func(cmd *cobra.Command, args []string) error {
		me, err := newClient().Me()
		if err != nil {
			return fmt.Errorf("could not fetch profile: %w", err)
		}

		username := "(not set)"
		if me.Username != nil {
			username = *me.Username
		}
		fmt.Printf("Username: %s\nEmail: %s\nRole: %s\n", username, me.Email, me.Role)
		return nil
	},
}

var setUsernameCmd = &cobra.Command{
	Use:   "set-username [username]",
	Short: "Complete your profile by choosing a username",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := client.UpdateUserRequest{Username: &args[0]}
		me, err := newClient().UpdateMe(&req)
		if err != nil {
			return fmt.Errorf("could not set username: %w", err)
		}

		fmt.Printf("✓ Username set to %s\n", *me.Username)
		return nil
	},
}

func init() {
	authCmd.AddCommand(sendCodeCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(whoamiCmd)
	authCmd.AddCommand(setUsernameCmd)
	rootCmd.AddCommand(authCmd)

	sendCodeCmd.Flags().StringP("email", "e", "", "Email address to send the code to")
	sendCodeCmd.MarkFlagRequired("email")

	loginCmd.Flags().StringP("email", "e", "", "Email address the code was sent to")
	loginCmd.Flags().StringP("code", "c", "", "Confirmation code from the email")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("code")
}
