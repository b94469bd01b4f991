package cli

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/models"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd := newRootCmd()
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestVersionPrintsVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", stdout)
}

func TestSecretPrintsRandomKey(t *testing.T) {
	first, _, err := executeCLI(t, "secret")
	require.NoError(t, err)
	second, _, err := executeCLI(t, "secret")
	require.NoError(t, err)

	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(first))
	require.NoError(t, err)
	assert.Len(t, key, 32)
	assert.NotEqual(t, first, second)
}

func TestTokenIssuesVerifiableToken(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: cli-secret\n  expiration_time: 60\nlog:\n  level: error\n")

	stdout, _, err := executeCLI(t, "token", "--config", path, "--user", "alice", "--name", "Alice")
	require.NoError(t, err)

	claims, err := utils.VerifyToken(strings.TrimSpace(stdout), []byte("cli-secret"))
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UserID)
	assert.Equal(t, "Alice", claims.Username)
	assert.Empty(t, claims.Scope)
}

func TestTokenIssuesServiceToken(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: cli-secret\n  expiration_time: 60\nlog:\n  level: error\n")

	stdout, _, err := executeCLI(t, "token", "--config", path, "--user", "backend", "--service")
	require.NoError(t, err)

	claims, err := utils.VerifyToken(strings.TrimSpace(stdout), []byte("cli-secret"))
	require.NoError(t, err)
	assert.Equal(t, "service", claims.Scope)
}

func TestTokenRequiresSecret(t *testing.T) {
	path := writeConfig(t, "log:\n  level: error\n")

	_, _, err := executeCLI(t, "token", "--config", path, "--user", "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret is not configured")
}

func TestTokenRequiresUserFlag(t *testing.T) {
	_, _, err := executeCLI(t, "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"user\" not set")
}

func TestPublishRejectsUnknownDomain(t *testing.T) {
	_, _, err := executeCLI(t, "publish", "chat", "--group", "g1", "--type", "vote:cast")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown domain")
}

func TestPublishRejectsInvalidPayload(t *testing.T) {
	_, _, err := executeCLI(t, "publish", "vote", "--group", "g1", "--type", "vote:cast", "--payload", "{nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--payload must be valid JSON")
}

func TestMemberAddRequiresFlags(t *testing.T) {
	_, _, err := executeCLI(t, "member", "add", "--group", "g1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"user\" not set")
}

func TestSessionCommandsRequireFlags(t *testing.T) {
	_, _, err := executeCLI(t, "session", "participants")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"session\" not set")

	_, _, err = executeCLI(t, "session", "show", "--session", "G:video")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"user\" not set")
}

func TestInsightCreateRequiresFlags(t *testing.T) {
	_, _, err := executeCLI(t, "insight", "create", "--group", "g1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"kind\" not set")
}

func TestPrintParticipant(t *testing.T) {
	joined := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	left := joined.Add(90 * time.Second)

	var out bytes.Buffer
	require.NoError(t, printParticipant(&out, &models.SessionParticipant{UserID: "a", SessionType: "video", IsActive: true, JoinedAt: joined}))
	require.NoError(t, printParticipant(&out, &models.SessionParticipant{UserID: "b", SessionType: "video", JoinedAt: joined, LeftAt: &left}))

	assert.Equal(t,
		"a\tvideo\tactive=true\tjoined=2024-05-01T10:00:00.000Z\tleft=-\n"+
			"b\tvideo\tactive=false\tjoined=2024-05-01T10:00:00.000Z\tleft=2024-05-01T10:01:30.000Z\n",
		out.String())
}
