package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sagarc03/acsign"
)

// requestFlags are the flags that describe one API call.
type requestFlags struct {
	method     string
	action     string
	apiVersion string
	uri        string
	query      []string
	jsonBody   string
	form       []string
	binaryFile string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.method, "method", "X", http.MethodPost, "HTTP method")
	cmd.Flags().StringVar(&f.action, "action", "", "API action, sent as x-acs-action (required)")
	cmd.Flags().StringVar(&f.apiVersion, "api-version", "", "API version, sent as x-acs-version (required)")
	cmd.Flags().StringVar(&f.uri, "uri", "/", "canonical URI, already percent-encoded")
	cmd.Flags().StringArrayVar(&f.query, "query", nil, "query parameter key=value, repeatable, order kept")
	cmd.Flags().StringVar(&f.jsonBody, "json-body", "", "JSON object body, or @file to read it from a file")
	cmd.Flags().StringArrayVar(&f.form, "form", nil, "form field key=value, repeatable; a repeated key becomes a list")
	cmd.Flags().StringVar(&f.binaryFile, "binary-file", "", "send the file as an application/octet-stream body")

	_ = cmd.MarkFlagRequired("action")
	_ = cmd.MarkFlagRequired("api-version")
	cmd.MarkFlagsMutuallyExclusive("json-body", "form", "binary-file")
}

// build turns the flags into a Request for host.
func (f *requestFlags) build(host string) (acsign.Request, error) {
	query, err := parseQuery(f.query)
	if err != nil {
		return acsign.Request{}, err
	}

	body, err := f.body()
	if err != nil {
		return acsign.Request{}, err
	}

	return acsign.Request{
		Method:       strings.ToUpper(f.method),
		Host:         host,
		CanonicalURI: f.uri,
		Query:        query,
		Action:       f.action,
		Version:      f.apiVersion,
		Body:         body,
	}, nil
}

func (f *requestFlags) body() (acsign.Body, error) {
	switch {
	case f.jsonBody != "":
		data := []byte(f.jsonBody)
		if path, ok := strings.CutPrefix(f.jsonBody, "@"); ok {
			var err error
			data, err = os.ReadFile(filepath.Clean(path)) //#nosec G304 -- path is user-provided body file
			if err != nil {
				return nil, fmt.Errorf("read json body: %w", err)
			}
		}
		var body acsign.JSONBody
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("parse json body: %w", err)
		}
		return body, nil

	case len(f.form) > 0:
		return parseForm(f.form)

	case f.binaryFile != "":
		data, err := os.ReadFile(filepath.Clean(f.binaryFile)) //#nosec G304 -- path is user-provided body file
		if err != nil {
			return nil, fmt.Errorf("read binary body: %w", err)
		}
		return acsign.BinaryBody(data), nil
	}

	return nil, nil
}

var errInvalidPair = errors.New("expected key=value")

func splitPair(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return "", "", fmt.Errorf("%w: %q", errInvalidPair, s)
	}
	return key, value, nil
}

func parseQuery(pairs []string) (acsign.Query, error) {
	query := make(acsign.Query, 0, len(pairs))
	for _, p := range pairs {
		key, value, err := splitPair(p)
		if err != nil {
			return nil, fmt.Errorf("query: %w", err)
		}
		query = append(query, acsign.Param{Key: key, Value: value})
	}
	return query, nil
}

func parseForm(pairs []string) (acsign.FormBody, error) {
	values := make(map[string][]string)
	for _, p := range pairs {
		key, value, err := splitPair(p)
		if err != nil {
			return nil, fmt.Errorf("form: %w", err)
		}
		values[key] = append(values[key], value)
	}

	form := make(acsign.FormBody, len(values))
	for key, v := range values {
		if len(v) == 1 {
			form[key] = acsign.FormString(v[0])
		} else {
			form[key] = acsign.FormList(v...)
		}
	}
	return form, nil
}
