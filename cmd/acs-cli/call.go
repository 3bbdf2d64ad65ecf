package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/acsign/clientcli"
)

var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Sign and send an API request",
	Long: `Sign an API request and send it once. The response body is printed
as received; with --json it is wrapped together with the status code.

A non-2xx response is printed and the command exits with an error.

Examples:
  # Describe DNS records
  acs-cli call --host alidns.aliyuncs.com --action DescribeDomainRecords \
    --api-version 2015-01-09 --query DomainName=example.com

  # Form body
  acs-cli call --action AddDomainRecord --api-version 2015-01-09 \
    --form DomainName=example.com --form RR=www --form Type=A --form Value=1.2.3.4

  # JSON body from a file against a local acs-mock
  acs-cli call --host localhost:8080 --scheme http \
    --action CreateThing --api-version 2024-01-01 --json-body @thing.json`,
	Args: cobra.NoArgs,
	RunE: runCall,
}

var (
	callRequest requestFlags
	callTimeout time.Duration
)

func init() {
	callRequest.register(callCmd)
	callCmd.Flags().DurationVar(&callTimeout, "timeout", 30*time.Second, "overall request timeout")
}

func runCall(cmd *cobra.Command, _ []string) error {
	formatter := getFormatter()

	client, cfg, err := getClient(clientcli.WithHTTPClient(&http.Client{Timeout: callTimeout}))
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	req, err := callRequest.build(cfg.Host)
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return err
	}

	resp, err := client.Do(cmd.Context(), req)
	if err != nil {
		_ = formatter.FormatError(os.Stderr, err)
		return fmt.Errorf("call %s: %w", req.Action, err)
	}

	if err := formatter.FormatResponse(os.Stdout, resp); err != nil {
		return err
	}

	return resp.Err()
}
