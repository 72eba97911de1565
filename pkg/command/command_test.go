package command

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"strings"
	"testing"

	"github.com/glorpus-work/blnotebook/internal/logger"
	"github.com/glorpus-work/blnotebook/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestOutput(t *testing.T) {
	requireShell(t)
	r := NewExecRunner(false, false)

	out, err := r.Output(context.Background(), "sh", "-c", "echo x86_64; echo Linux")
	require.NoError(t, err)
	assert.Equal(t, "x86_64\nLinux\n", string(out))
}

func TestOutputRunsInDryRun(t *testing.T) {
	requireShell(t)
	r := NewExecRunner(true, false)

	out, err := r.Output(context.Background(), "sh", "-c", "echo probe")
	require.NoError(t, err)
	assert.Equal(t, "probe\n", string(out))
}

func TestOutputNonZeroExit(t *testing.T) {
	requireShell(t)
	r := NewExecRunner(false, false)

	_, err := r.Output(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrExternalTool)
	assert.Equal(t, 3, ExitCode(err))
	assert.Contains(t, err.Error(), "broken")
}

func TestOutputMissingProgram(t *testing.T) {
	r := NewExecRunner(false, false)

	_, err := r.Output(context.Background(), "definitely-not-a-real-program-xyz")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrExternalTool)
	assert.Equal(t, -1, ExitCode(err))
}

func TestRun(t *testing.T) {
	requireShell(t)
	var stdout, stderr bytes.Buffer
	r := &ExecRunner{Stdout: &stdout, Stderr: &stderr}

	require.NoError(t, r.Run(context.Background(), "sh", "-c", "echo out; echo err >&2"))
	assert.Equal(t, "out\n", stdout.String())
	assert.Equal(t, "err\n", stderr.String())
}

func TestRunDryRun(t *testing.T) {
	buf := &bytes.Buffer{}
	logger.SetTestOutput(buf)
	logger.InitLogger("info", logger.FormatText)
	defer func() {
		logger.UnsetTestOutput()
		logger.InitLogger("info", logger.FormatText)
	}()

	r := NewExecRunner(true, false)
	require.NoError(t, r.Run(context.Background(), "definitely-not-a-real-program-xyz", "-C", "/tmp/my dir"))
	assert.Contains(t, buf.String(), "(DRY-RUN) definitely-not-a-real-program-xyz -C")
	assert.Contains(t, buf.String(), "my dir")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "tar -xaf a.tar.xz", Format("tar", "-xaf", "a.tar.xz"))
	assert.Equal(t, `wsl --exec bash -c "tar -xaf x"`, Format("wsl", "--exec", "bash", "-c", "tar -xaf x"))
	assert.True(t, strings.HasSuffix(Format("python", ""), `""`))
}
