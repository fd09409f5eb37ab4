// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package netinfo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simWithEth0() *SimEngine {
	e := NewSimEngine()
	e.AddInterface(&SimInterface{
		Name:      "eth0",
		Index:     2,
		Up:        true,
		MAC:       "52:54:00:12:34:56",
		Addresses: []string{"192.0.2.10/24"},
	})
	e.AddInterface(&SimInterface{Name: "lo", Index: 1, Type: "loopback", Up: true})
	return e
}

func TestExecuteRequestList(t *testing.T) {
	code, body := ExecuteRequest(simWithEth0(), "GET", "/system/interface", "")
	assert.Equal(t, CodeOK, code)
	assert.Contains(t, body, `<interface name="eth0"/>`)
	assert.Contains(t, body, `<interface name="lo"/>`)
}

func TestExecuteRequestInterface(t *testing.T) {
	code, body := ExecuteRequest(simWithEth0(), "GET", "/system/interface/eth0", "")
	assert.Equal(t, CodeOK, code)
	assert.Contains(t, body, `<interface name="eth0"`)
	assert.Contains(t, body, "<status>up</status>")
	assert.Contains(t, body, "192.0.2.10/24")
}

func TestExecuteRequestUnknownInterface(t *testing.T) {
	code, _ := ExecuteRequest(simWithEth0(), "GET", "/system/interface/eth9", "")
	assert.Equal(t, CodeNotFound, code)
}

func TestExecuteRequestUnknownPath(t *testing.T) {
	code, _ := ExecuteRequest(simWithEth0(), "GET", "/system/route", "")
	assert.Equal(t, CodeNotFound, code)
}

func TestExecuteRequestUnsupportedVerb(t *testing.T) {
	code, body := ExecuteRequest(simWithEth0(), "DELETE", "/system/interface/eth0", "")
	assert.Equal(t, CodeMethodNotAllowed, code)
	assert.True(t, strings.Contains(body, "DELETE"))
}

func TestSimDocumentIdempotence(t *testing.T) {
	e := simWithEth0()
	d1, err := e.InterfaceDocument("eth0")
	require.NoError(t, err)
	d2, err := e.InterfaceDocument("eth0")
	require.NoError(t, err)
	assert.True(t, d1.Equal(d2), "unchanged state must produce structurally equal documents")
}

func TestSimFailureInjection(t *testing.T) {
	e := simWithEth0()
	e.FailDocuments = true
	_, err := e.InterfaceDocument("eth0")
	assert.Error(t, err)
}

func TestResourcePath(t *testing.T) {
	assert.Equal(t, "/system/interface/eth0", ResourcePath("eth0"))
}
