package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/acsign/clientcli"
)

var (
	version = "dev"

	cfgFile         string
	profileName     string
	host            string
	scheme          string
	accessKeyID     string
	accessKeySecret string
	jsonOutput      bool
	quiet           bool
	verbose         bool
)

var rootCmd = &cobra.Command{
	Use:     "acs-cli",
	Version: version,
	Short:   "Sign and send ACS3-HMAC-SHA256 API requests",
	Long: `acs-cli signs RPC style API calls with ACS3-HMAC-SHA256 and sends them.

Credentials and the API host are resolved in this order, later wins:
  1. the selected profile in ~/.acsign/config.yaml (--profile, ACSIGN_PROFILE)
  2. environment variables ACSIGN_HOST, ACSIGN_SCHEME,
     ACSIGN_ACCESS_KEY_ID, ACSIGN_ACCESS_KEY_SECRET
  3. command line flags`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.acsign/config.yaml, env: ACSIGN_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile name (env: ACSIGN_PROFILE)")
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "API host, e.g. alidns.aliyuncs.com (env: ACSIGN_HOST)")
	rootCmd.PersistentFlags().StringVar(&scheme, "scheme", "", "http or https (default: https, env: ACSIGN_SCHEME)")
	rootCmd.PersistentFlags().StringVarP(&accessKeyID, "access-key-id", "a", "", "access key id (env: ACSIGN_ACCESS_KEY_ID)")
	rootCmd.PersistentFlags().StringVarP(&accessKeySecret, "access-key-secret", "k", "", "access key secret (env: ACSIGN_ACCESS_KEY_SECRET)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log signing and dispatch details to stderr")

	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getConfigPath returns the config file path from the flag, the
// environment or the default location.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := clientcli.ConfigPathFromEnv(); p != "" {
		return p
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig merges config from the profile, env vars and flags (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	explicitFile := cfgFile != "" || clientcli.ConfigPathFromEnv() != ""
	name := profileName
	if name == "" {
		name = clientcli.ProfileFromEnv()
	}

	// 1. Load the selected profile
	if configPath := getConfigPath(); configPath != "" {
		file, err := clientcli.LoadConfigFile(configPath)
		switch {
		case err == nil:
			profile, profileErr := file.GetProfile(name)
			if profileErr != nil {
				if name != "" || !errors.Is(profileErr, clientcli.ErrNoProfiles) {
					return nil, profileErr
				}
			} else {
				configs = append(configs, clientcli.ConfigFromProfile(profile))
			}
		case explicitFile || name != "":
			return nil, err
		}
		// A missing or broken default config file is ignored
	}

	// 2. Load from environment variables
	configs = append(configs, clientcli.ConfigFromEnv())

	// 3. Load from flags
	configs = append(configs, &clientcli.Config{
		Host:            host,
		Scheme:          scheme,
		AccessKeyID:     accessKeyID,
		AccessKeySecret: accessKeySecret,
	})

	return clientcli.MergeConfig(configs...), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates a configured client and returns it with the resolved
// config.
func getClient(opts ...clientcli.Option) (*clientcli.Client, *clientcli.Config, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, nil, err
	}

	if cfg.Host == "" {
		return nil, nil, errHostRequired
	}

	client, err := clientcli.New(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}

	return client, cfg, nil
}

var errHostRequired = errors.New("host is required (use --host, ACSIGN_HOST or a profile)")
