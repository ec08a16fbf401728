package command

// root.go defines the root command for the reviewhub CLI.
// Global flags and shared client construction live here.

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reviewhub/cmd/cli/command/client"
)

var (
	apiURL string // global flag for API server URL
	token  string // access token, from flag or REVIEWHUB_TOKEN
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reviewhub",
	Short: "reviewhub - command line client for the ReviewHub API",
	Long: `reviewhub is a small client for the ReviewHub API. It lets you:
- request an email confirmation code and exchange it for an access token
- browse titles, categories and genres
- post and manage reviews and comments

Use "reviewhub <command> -h" to see the flags of each command.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080/v1", "API server URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "access token (defaults to REVIEWHUB_TOKEN)")
}

// newClient builds an HTTP client carrying the access token, if any.
func newClient() *client.HTTPClient {
	c := client.NewHTTPClient(apiURL)
	t := token
	if t == "" {
		t = os.Getenv("REVIEWHUB_TOKEN")
	}
	c.SetToken(t)
	return c
}
