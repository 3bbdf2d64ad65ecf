// Package clientcli signs and dispatches ACS3-HMAC-SHA256 API calls and
// manages the profiles and output formatting used by acs-cli.
//
// # Basic Usage
//
//	client, err := clientcli.New(&clientcli.Config{
//		AccessKeyID:     "LTAI5tExample",
//		AccessKeySecret: "secret",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	resp, err := client.Do(ctx, acsign.Request{
//		Method:       http.MethodGet,
//		Host:         "alidns.cn-hangzhou.aliyuncs.com",
//		CanonicalURI: "/",
//		Query:        acsign.Query{{Key: "DomainName", Value: "example.com"}},
//		Action:       "DescribeDomainRecords",
//		Version:      "2015-01-09",
//	})
//	if err != nil {
//		log.Fatal(err) // errors.Is(err, acsign.ErrTransport) is worth retrying
//	}
//	if err := resp.Err(); err != nil {
//		log.Fatal(err) // *APIError with the provider's Code and Message
//	}
//
// Each call is signed once and sent once. There is no retry; timeouts come
// from the *http.Client passed with WithHTTPClient.
//
// # Profile Configuration
//
//	configFile, err := clientcli.LoadConfigFile(clientcli.DefaultConfigPath())
//	profile, err := configFile.GetProfile("production")
//	client, err := clientcli.New(clientcli.ConfigFromProfile(profile))
//
// # Output Formatting
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatResponse(os.Stdout, resp)
package clientcli
