package clientcli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sagarc03/acsign"
)

// Formatter formats results for output.
type Formatter interface {
	FormatResponse(w io.Writer, resp *Response) error
	FormatSigned(w io.Writer, signed *acsign.SignedRequest) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatResponse prints the status line (unless quiet) and the body.
func (f *HumanFormatter) FormatResponse(w io.Writer, resp *Response) error {
	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "HTTP %d\n", resp.StatusCode)
	}
	_, _ = io.WriteString(w, resp.Body)
	if !strings.HasSuffix(resp.Body, "\n") {
		_, _ = fmt.Fprintln(w)
	}
	return nil
}

// FormatSigned prints the canonical request, string to sign and headers.
// In quiet mode only the Authorization value is printed.
func (f *HumanFormatter) FormatSigned(w io.Writer, signed *acsign.SignedRequest) error {
	if f.Quiet {
		_, _ = fmt.Fprintln(w, signed.Authorization)
		return nil
	}

	_, _ = fmt.Fprintln(w, "Canonical request:")
	_, _ = fmt.Fprintln(w, signed.CanonicalRequest.String())
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "String to sign:")
	_, _ = fmt.Fprintln(w, signed.StringToSign)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Headers:")
	_, _ = fmt.Fprintf(w, "  Host: %s\n", signed.Host)
	for _, name := range sortedHeaderNames(signed) {
		_, _ = fmt.Fprintf(w, "  %s: %s\n", name, signed.Header.Get(name))
	}
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// FormatProfileList formats a list of profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	maxNameLen := 4 // "NAME"
	maxHostLen := 4 // "HOST"
	for i := range profiles {
		maxNameLen = max(maxNameLen, len(profiles[i].Name))
		maxHostLen = max(maxHostLen, len(profiles[i].Host))
	}
	maxNameLen = min(maxNameLen, 20)
	maxHostLen = min(maxHostLen, 50)

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %s\n", maxNameLen, "NAME", maxHostLen, "HOST", "ACCESS KEY ID")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxHostLen), strings.Repeat("-", 20))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %s\n",
			marker,
			maxNameLen, truncate(p.Name, maxNameLen),
			maxHostLen, truncate(p.Host, maxHostLen),
			maskSecret(p.AccessKeyID, showSecrets),
		)
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	_, _ = fmt.Fprintf(w, "Name:              %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Host:              %s\n", profile.Host)
	if profile.Scheme != "" {
		_, _ = fmt.Fprintf(w, "Scheme:            %s\n", profile.Scheme)
	}
	_, _ = fmt.Fprintf(w, "Access Key ID:     %s\n", maskSecret(profile.AccessKeyID, showSecrets))
	_, _ = fmt.Fprintf(w, "Access Key Secret: %s\n", maskSecret(profile.AccessKeySecret, showSecrets))
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatResponse formats the response as JSON. A JSON body is embedded as
// is; any other body becomes a string.
func (f *JSONFormatter) FormatResponse(w io.Writer, resp *Response) error {
	output := struct {
		StatusCode int `json:"status_code"`
		Body       any `json:"body"`
	}{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
	}
	if json.Valid([]byte(resp.Body)) {
		output.Body = json.RawMessage(resp.Body)
	}
	return writeJSON(w, output)
}

// FormatSigned formats the signing artifacts as JSON.
func (f *JSONFormatter) FormatSigned(w io.Writer, signed *acsign.SignedRequest) error {
	headers := map[string]string{"Host": signed.Host}
	for name := range signed.Header {
		headers[name] = signed.Header.Get(name)
	}

	output := struct {
		CanonicalRequest string            `json:"canonical_request"`
		StringToSign     string            `json:"string_to_sign"`
		Signature        string            `json:"signature"`
		Headers          map[string]string `json:"headers"`
	}{
		CanonicalRequest: signed.CanonicalRequest.String(),
		StringToSign:     signed.StringToSign,
		Signature:        signed.Signature,
		Headers:          headers,
	}
	return writeJSON(w, output)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		output.Profiles[i] = newJSONProfile(profiles[i], profiles[i].Name == defaultName, showSecrets)
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	return writeJSON(w, newJSONProfile(profile, isDefault, showSecrets))
}

type jsonProfile struct {
	Name            string `json:"name"`
	Host            string `json:"host"`
	Scheme          string `json:"scheme,omitempty"`
	AccessKeyID     string `json:"access_key_id"`
	AccessKeySecret string `json:"access_key_secret"`
	Default         bool   `json:"default"`
}

func newJSONProfile(p Profile, isDefault, showSecrets bool) jsonProfile {
	return jsonProfile{
		Name:            p.Name,
		Host:            p.Host,
		Scheme:          p.Scheme,
		AccessKeyID:     maskSecret(p.AccessKeyID, showSecrets),
		AccessKeySecret: maskSecret(p.AccessKeySecret, showSecrets),
		Default:         isDefault,
	}
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func sortedHeaderNames(signed *acsign.SignedRequest) []string {
	names := make([]string, 0, len(signed.Header))
	for name := range signed.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// maskSecret shows only the first and last 4 characters of a secret unless
// showSecrets is set.
func maskSecret(secret string, showSecrets bool) string {
	if showSecrets {
		return secret
	}
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
