// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package ctlplane

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/ifpolicyd/internal/errors"
	"grimm.is/ifpolicyd/internal/netinfo"
)

func TestParseRequest(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantVerb string
		wantPath string
		wantBody string
		invalid  bool
	}{
		{
			name:     "verb and path",
			input:    "GET /system/interface\n",
			wantVerb: "GET",
			wantPath: "/system/interface",
		},
		{
			name:     "body runs to EOF",
			input:    "PUT /system/interface/eth0\n<interface name=\"eth0\"/>",
			wantVerb: "PUT",
			wantPath: "/system/interface/eth0",
			wantBody: "<interface name=\"eth0\"/>",
		},
		{
			name:     "crlf line ending",
			input:    "GET /system/interface\r\n",
			wantVerb: "GET",
			wantPath: "/system/interface",
		},
		{name: "empty input", input: "", invalid: true},
		{name: "missing path", input: "GET\n", invalid: true},
		{name: "extra fields", input: "GET /a /b\n", invalid: true},
		{name: "lowercase verb", input: "get /system/interface\n", invalid: true},
		{name: "relative path", input: "GET system/interface\n", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ParseRequest(strings.NewReader(tt.input))
			require.NotNil(t, req)
			if tt.invalid {
				assert.True(t, req.Invalid())
				assert.Equal(t, errors.KindValidation, errors.GetKind(req.ParseErr))
				return
			}
			require.False(t, req.Invalid(), "parse error: %v", req.ParseErr)
			assert.Equal(t, tt.wantVerb, req.Verb)
			assert.Equal(t, tt.wantPath, req.Path)
			assert.Equal(t, tt.wantBody, req.Body)
		})
	}
}

func TestResponseRoundTrip(t *testing.T) {
	tests := []struct {
		code    int
		tag     string
		body    string
	}{
		{netinfo.CodeOK, "OK", "<interfaces/>\n"},
		{netinfo.CodeBadRequest, "Bad-Request", "malformed verb\n"},
		{netinfo.CodeNotFound, "Not-Found", ""},
		{netinfo.CodeMethodNotAllowed, "Method-Not-Allowed", ""},
		{netinfo.CodeError, "Error", "boom\n"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			var buf strings.Builder
			resp := &Response{Code: tt.code, Body: tt.body}
			require.NoError(t, resp.Write(&buf))

			wire := buf.String()
			line, _, _ := strings.Cut(wire, "\n")
			assert.Equal(t, fmt.Sprintf("%d %s", tt.code, tt.tag), line)

			got, err := ReadResponse(strings.NewReader(wire))
			require.NoError(t, err)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.body, got.Body)
		})
	}
}

func TestReadResponseErrors(t *testing.T) {
	_, err := ReadResponse(strings.NewReader(""))
	require.Error(t, err)
	assert.Equal(t, errors.KindUnavailable, errors.GetKind(err))

	_, err = ReadResponse(strings.NewReader("nonsense status\n"))
	require.Error(t, err)
	assert.Equal(t, errors.KindValidation, errors.GetKind(err))
}
