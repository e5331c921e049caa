package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studypulse/internal/config"
	"github.com/abhisek/studypulse/internal/performance"
	"github.com/abhisek/studypulse/internal/session"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(stdin))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_SessionLifecycle(t *testing.T) {
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvDB, "")
	t.Setenv(config.EnvLogLevel, "")
	db := filepath.Join(t.TempDir(), "cli.db")

	out, err := runCLI(t, "", "--db", db, "start", "World", "History")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.Len(t, id, 36)

	batch := `{"topic": "empires", "question_type": "mcq",
		"answers": [{"correct": false, "question": "Which emperor founded Constantinople"},
		            {"user_answer": "Rome", "correct_answer": "rome"}],
		"per_question_times": [20, 10]}`
	out, err = runCLI(t, batch, "--db", db, "submit", id, "--json")
	require.NoError(t, err)
	var res session.SubmitResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 1, res.Correct)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 50.0, res.Accuracy)
	assert.Equal(t, 15.0, res.AvgResponseTime)

	out, err = runCLI(t, "", "--db", db, "progress", id, "--json")
	require.NoError(t, err)
	var p session.Progress
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "World History", p.Subject)
	assert.Equal(t, 2, p.TotalAttempts)
	require.Contains(t, p.WeaknessProfile, "empires")
	assert.Equal(t, []string{"which", "emperor", "founded"}, p.WeaknessProfile["empires"].RecurringPatterns)

	out, err = runCLI(t, "", "--db", db, "next", id, "empires", "trade")
	require.NoError(t, err)
	assert.Equal(t, "trade", strings.TrimSpace(out))

	out, err = runCLI(t, "", "--db", db, "stress", id, "--json")
	require.NoError(t, err)
	var signal performance.StressSignal
	require.NoError(t, json.Unmarshal([]byte(out), &signal))
	assert.False(t, signal.Detected)

	out, err = runCLI(t, "", "--db", db, "history", id)
	require.NoError(t, err)
	assert.Contains(t, out, "empires")
	assert.Contains(t, out, "✗")

	out, err = runCLI(t, "", "--db", db, "history", id, "--after", "1000000")
	require.NoError(t, err)
	assert.Contains(t, out, "No answers recorded.")

	out, err = runCLI(t, "", "--db", db, "sessions")
	require.NoError(t, err)
	assert.Contains(t, out, id)
}

func TestCLI_Errors(t *testing.T) {
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvLogLevel, "")
	db := filepath.Join(t.TempDir(), "cli.db")

	_, err := runCLI(t, `{"answers": []}`, "--db", db, "submit", "missing")
	require.Error(t, err)
	var invErr *session.ErrInvalidSubmission
	assert.ErrorAs(t, err, &invErr)

	_, err = runCLI(t, `{"answers": [{"correct": true}]}`, "--db", db, "submit", "missing")
	assert.Error(t, err)

	_, err = runCLI(t, "", "--db", db, "--log-level", "chatty", "version")
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 20))
	assert.Equal(t, "Géographie", truncate("Géographie physique", 10))
	assert.Equal(t, "日本語の", truncate("日本語の歴史", 4))
}

func TestCLI_SessionsNonASCIISubject(t *testing.T) {
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvDB, "")
	t.Setenv(config.EnvLogLevel, "")
	db := filepath.Join(t.TempDir(), "cli.db")

	_, err := runCLI(t, "", "--db", db, "start", "Éléments de géométrie différentielle")
	require.NoError(t, err)

	out, err := runCLI(t, "", "--db", db, "sessions")
	require.NoError(t, err)
	assert.Contains(t, out, "Éléments de géométri ")
	assert.True(t, utf8.ValidString(out))
}

func TestCLI_Version(t *testing.T) {
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvLogLevel, "")
	out, err := runCLI(t, "", "--log-level", "warn", "version")
	require.NoError(t, err)
	assert.Equal(t, "studypulse (devel)\n", out)
}
