package sandbox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syla/execution-service/internal/model"
)

func TestTruncateStreamUnderLimit(t *testing.T) {
	s := "hello world"
	assert.Equal(t, s, truncateStream(s))
}

func TestTruncateStreamOverLimit(t *testing.T) {
	big := strings.Repeat("a", model.MaxStreamBytes+100)
	got := truncateStream(big)
	assert.LessOrEqual(t, len(got), model.MaxStreamBytes)
	assert.True(t, strings.HasSuffix(got, model.TruncationMarker))
}

func TestExitCodeOrMinusOne(t *testing.T) {
	assert.Equal(t, 0, exitCodeOrMinusOne(0))
	assert.Equal(t, 137, exitCodeOrMinusOne(137))
	assert.Equal(t, -1, exitCodeOrMinusOne(-9))
}

func TestEnvSlice(t *testing.T) {
	got := envSlice(map[string]string{"FOO": "bar"})
	assert.Equal(t, []string{"FOO=bar"}, got)
	assert.Empty(t, envSlice(nil))
}

func TestNetworkMode(t *testing.T) {
	assert.Equal(t, "bridge", string(networkMode(true)))
	assert.Equal(t, "none", string(networkMode(false)))
}

func TestAppendLogError(t *testing.T) {
	got := appendLogError("", assertError{"boom"})
	assert.Contains(t, got, "failed to retrieve output")

	got = appendLogError("existing", assertError{"boom"})
	assert.True(t, strings.HasPrefix(got, "existing\n"))
}

type assertError struct{ msg string }

func (e assertError) Error() string { return e.msg }
