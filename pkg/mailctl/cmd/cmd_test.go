/*
SPDX-FileCopyrightText: 2025 Deutsche Telekom AG

SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/telekom/mail-dispatcher/pkg/mail"
)

type fakeTransport struct {
	probeErr error
	sendErr  error
	configs  []mail.ConnectionConfig
	sent     []*mail.Message
}

func (f *fakeTransport) factory(cfg mail.ConnectionConfig) (mail.Transport, error) {
	f.configs = append(f.configs, cfg)
	return f, nil
}

func (f *fakeTransport) Probe() error { return f.probeErr }

func (f *fakeTransport) Send(msg *mail.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

const testTenants = `[
  {"id": "acme", "communicationPolicy": {"emailCommunicationPolicy": {
    "host": "smtp.acme.test", "port": 2525, "username": "acme", "password": "s3cret", "from": "noreply@acme.test"}}},
  {"id": "plain"}
]`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	tenantsPath := filepath.Join(dir, "tenants.json")
	require.NoError(t, os.WriteFile(tenantsPath, []byte(testTenants), 0o600))

	cfg := `
mail:
  host: smtp.global.test
  port: 587
  from: sso@global.test
tenants:
  file: ` + tenantsPath + `
messages:
  defaultLanguage: en
  bundles:
    en:
      mail.subject.otp: "Your one-time code"
    de:
      mail.subject.otp: "Ihr Einmalcode"
oidc:
  ciba:
    maxTimeToLiveInSeconds: "120"
`
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func runRoot(t *testing.T, ft *fakeTransport, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	root := NewRootCommand(Config{
		ConfigPath:       writeTestConfig(t),
		OutputWriter:     buf,
		Logger:           zap.NewNop(),
		TransportFactory: ft.factory,
	})
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestSendCommand(t *testing.T) {
	ft := &fakeTransport{}
	out, err := runRoot(t, ft, "send",
		"--to", "user@example.com",
		"--body", "123456",
		"--subject", "mail.subject.otp",
		"--locale", "de",
		"--cc", "copy@example.com",
		"--priority", "1",
		"-o", "json")
	require.NoError(t, err)

	var res map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, true, res["success"])
	assert.Equal(t, "Sent", res["outcome"])
	assert.Equal(t, "123456", res["body"])

	require.Len(t, ft.configs, 1)
	assert.Equal(t, "smtp.global.test", ft.configs[0].Host)
	assert.Equal(t, 587, ft.configs[0].Port)
	require.Len(t, ft.sent, 1)
	msg := ft.sent[0]
	assert.Equal(t, "Ihr Einmalcode", msg.Subject)
	assert.Equal(t, "sso@global.test", msg.From)
	assert.Equal(t, []string{"copy@example.com"}, msg.CC)
	assert.Equal(t, 1, msg.Priority)
}

func TestSendCommand_Tenant(t *testing.T) {
	ft := &fakeTransport{}
	out, err := runRoot(t, ft, "send", "--to", "user@example.com", "--body", "hi", "--tenant", "acme", "--from", "ignored@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Sent")

	require.Len(t, ft.configs, 1)
	assert.Equal(t, "smtp.acme.test", ft.configs[0].Host)
	assert.Equal(t, "acme", ft.configs[0].Username)
	assert.Equal(t, "noreply@acme.test", ft.sent[0].From)
}

func TestSendCommand_Unreachable(t *testing.T) {
	ft := &fakeTransport{probeErr: errors.New("connection refused")}
	out, err := runRoot(t, ft, "send", "--to", "user@example.com", "--body", "hi", "-o", "yaml")
	require.NoError(t, err, "an unreachable server is reported, not returned")

	var res map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, false, res["success"])
	assert.Equal(t, "Unreachable", res["outcome"])
	assert.Empty(t, ft.sent)
}

func TestSendCommand_SendError(t *testing.T) {
	ft := &fakeTransport{sendErr: errors.New("550 mailbox unavailable")}
	_, err := runRoot(t, ft, "send", "--to", "user@example.com", "--body", "hi")
	require.Error(t, err)

	var te *mail.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, mail.OpSend, te.Op)
}

func TestSendCommand_MarkdownAndSanitize(t *testing.T) {
	ft := &fakeTransport{}
	_, err := runRoot(t, ft, "send", "--to", "user@example.com",
		"--body", "Hello **there** <script>x()</script>", "--markdown", "--sanitize-html")
	require.NoError(t, err)

	require.Len(t, ft.sent, 1)
	assert.True(t, ft.sent[0].HTML)
	assert.Contains(t, ft.sent[0].Body, "<strong>there</strong>")
	assert.NotContains(t, ft.sent[0].Body, "<script>")
}

func TestSendCommand_Validation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing recipient", []string{"send", "--body", "hi"}, "--to"},
		{"unknown output", []string{"send", "--to", "user@example.com", "-o", "xml"}, "unknown output format"},
		{"invalid address", []string{"send", "--to", "not-an-address", "--validate-addresses"}, "address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{}
			_, err := runRoot(t, ft, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, ft.sent)
		})
	}
}

func TestRootCommand_MissingConfig(t *testing.T) {
	buf := &bytes.Buffer{}
	root := NewRootCommand(Config{
		ConfigPath:   filepath.Join(t.TempDir(), "missing.yaml"),
		OutputWriter: buf,
		Logger:       zap.NewNop(),
	})
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"tenants"})
	assert.Error(t, root.Execute())
}

func TestTenantsCommand(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		out, err := runRoot(t, &fakeTransport{}, "tenants")
		require.NoError(t, err)
		assert.Contains(t, out, "smtp.acme.test")
		assert.Contains(t, out, "plain")
		assert.NotContains(t, out, "s3cret")
	})

	t.Run("json masks passwords", func(t *testing.T) {
		out, err := runRoot(t, &fakeTransport{}, "tenants", "-o", "json")
		require.NoError(t, err)
		assert.NotContains(t, out, "s3cret")

		var defs []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &defs))
		require.Len(t, defs, 2)
		assert.Equal(t, "acme", defs[0]["id"])
		policy := defs[0]["communicationPolicy"].(map[string]any)["emailCommunicationPolicy"].(map[string]any)
		assert.Equal(t, maskedPassword, policy["password"])
	})
}

func TestCibaShowCommand(t *testing.T) {
	out, err := runRoot(t, &fakeTransport{}, "ciba", "show", "-o", "json")
	require.NoError(t, err)

	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "2m0s", view["maxTimeToLive"])

	out, err = runRoot(t, &fakeTransport{}, "ciba", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "120 (2m0s)")
	assert.Contains(t, out, "CIBA Verification")
}

func TestCibaNotifyCommand(t *testing.T) {
	ft := &fakeTransport{}
	_, err := runRoot(t, ft, "ciba", "notify", "--to", "user@example.com", "--link", "https://sso.example.com/ciba/abc")
	require.NoError(t, err)

	require.Len(t, ft.sent, 1)
	msg := ft.sent[0]
	assert.Equal(t, "CIBA Verification", msg.Subject)
	assert.Equal(t, "Please verify your authentication request: https://sso.example.com/ciba/abc", msg.Body)
	assert.Equal(t, 1, msg.Priority)

	_, err = runRoot(t, &fakeTransport{}, "ciba", "notify", "--to", "user@example.com")
	assert.Error(t, err)
}

func TestVerificationBody(t *testing.T) {
	assert.Equal(t, "Go to https://x", verificationBody("Go to %s", "https://x"))
	assert.Equal(t, "Confirm: https://x", verificationBody("Confirm:", "https://x"))
	assert.Equal(t, "https://x", verificationBody("", "https://x"))
	assert.Equal(t, "100% secure: https://x", verificationBody("100% secure: %s", "https://x"))
	assert.Equal(t, "Go to https://x (%d left, %s)", verificationBody("Go to %s (%d left, %s)", "https://x"))
	assert.Equal(t, "50% done https://x", verificationBody("50% done", "https://x"))
}

func TestCompletionCommand(t *testing.T) {
	out, err := runRoot(t, &fakeTransport{}, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "bash completion")

	_, err = runRoot(t, &fakeTransport{}, "completion", "tcsh")
	require.Error(t, err)
}
