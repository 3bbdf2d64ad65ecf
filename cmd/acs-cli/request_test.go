package main

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/acsign"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    acsign.Query
		wantErr bool
	}{
		{name: "empty", pairs: nil, want: acsign.Query{}},
		{
			name:  "order and duplicates kept",
			pairs: []string{"RegionId=cn-hangzhou", "Lang=en", "Lang=zh"},
			want: acsign.Query{
				{Key: "RegionId", Value: "cn-hangzhou"},
				{Key: "Lang", Value: "en"},
				{Key: "Lang", Value: "zh"},
			},
		},
		{name: "empty value", pairs: []string{"Flag="}, want: acsign.Query{{Key: "Flag", Value: ""}}},
		{name: "value with equals", pairs: []string{"Expr=a=b"}, want: acsign.Query{{Key: "Expr", Value: "a=b"}}},
		{name: "missing equals", pairs: []string{"Flag"}, wantErr: true},
		{name: "empty key", pairs: []string{"=v"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseQuery(tt.pairs)
			if tt.wantErr {
				assert.ErrorIs(t, err, errInvalidPair)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseForm(t *testing.T) {
	form, err := parseForm([]string{"DomainName=example.com", "Tag=a", "Tag=b"})
	require.NoError(t, err)

	assert.Equal(t, acsign.FormBody{
		"DomainName": acsign.FormString("example.com"),
		"Tag":        acsign.FormList("a", "b"),
	}, form)

	_, err = parseForm([]string{"broken"})
	assert.ErrorIs(t, err, errInvalidPair)
}

func TestRequestFlags_Build(t *testing.T) {
	t.Run("no body", func(t *testing.T) {
		f := requestFlags{
			method:     "get",
			action:     "DescribeDomains",
			apiVersion: "2015-01-09",
			uri:        "/",
			query:      []string{"PageSize=10"},
		}
		req, err := f.build("alidns.aliyuncs.com")
		require.NoError(t, err)

		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "alidns.aliyuncs.com", req.Host)
		assert.Equal(t, "DescribeDomains", req.Action)
		assert.Equal(t, "2015-01-09", req.Version)
		assert.Equal(t, acsign.Query{{Key: "PageSize", Value: "10"}}, req.Query)
		assert.Nil(t, req.Body)
	})

	t.Run("inline json body", func(t *testing.T) {
		f := requestFlags{method: "POST", jsonBody: `{"DomainName":"example.com","TTL":600}`}
		req, err := f.build("example.com")
		require.NoError(t, err)

		body, ok := req.Body.(acsign.JSONBody)
		require.True(t, ok)
		assert.Equal(t, "example.com", body["DomainName"])
		assert.InDelta(t, 600, body["TTL"], 0)
	})

	t.Run("json body from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "body.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"Name":"x"}`), 0o600))

		f := requestFlags{method: "POST", jsonBody: "@" + path}
		req, err := f.build("example.com")
		require.NoError(t, err)
		assert.Equal(t, acsign.JSONBody{"Name": "x"}, req.Body)
	})

	t.Run("invalid json body", func(t *testing.T) {
		f := requestFlags{method: "POST", jsonBody: `[1,2]`}
		_, err := f.build("example.com")
		assert.Error(t, err)
	})

	t.Run("binary body", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "blob.bin")
		require.NoError(t, os.WriteFile(path, []byte{0x00, 0x01, 0xff}, 0o600))

		f := requestFlags{method: "PUT", binaryFile: path}
		req, err := f.build("example.com")
		require.NoError(t, err)
		assert.Equal(t, acsign.BinaryBody{0x00, 0x01, 0xff}, req.Body)
	})

	t.Run("missing binary file", func(t *testing.T) {
		f := requestFlags{method: "PUT", binaryFile: filepath.Join(t.TempDir(), "nope")}
		_, err := f.build("example.com")
		assert.Error(t, err)
	})

	t.Run("form body", func(t *testing.T) {
		f := requestFlags{method: "POST", form: []string{"RR=www"}}
		req, err := f.build("example.com")
		require.NoError(t, err)
		assert.Equal(t, acsign.FormBody{"RR": acsign.FormString("www")}, req.Body)
	})
}
