package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFullVersion(t *testing.T) {
	v, c, d := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = v, c, d })

	Version, GitCommit, BuildDate = "1.2.0", "abc1234", "2025-01-02"
	assert.Equal(t, "1.2.0", GetVersion())
	assert.Equal(t, "1.2.0 (commit abc1234, built 2025-01-02)", GetFullVersion())

	Version = "dev"
	assert.True(t, strings.HasPrefix(GetFullVersion(), "dev"))
}
