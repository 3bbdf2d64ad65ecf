package main

import (
	"os"

	"github.com/spf13/cobra"
)

var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Print the signature of a request without sending it",
	Long: `Build and sign a request, then print the canonical request, the
string to sign and every header that would be sent. Nothing is sent.

With --quiet only the Authorization header value is printed.`,
	Args: cobra.NoArgs,
	RunE: runSign,
}

var signRequest requestFlags

func init() {
	signRequest.register(signCmd)
}

func runSign(_ *cobra.Command, _ []string) error {
	formatter := getFormatter()

	client, cfg, err := getClient()
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	req, err := signRequest.build(cfg.Host)
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	signed, err := client.Sign(req)
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	return formatter.FormatSigned(os.Stdout, signed)
}
