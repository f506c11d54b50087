package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBuildData(t *testing.T) {
	origV, origD, origC := Version, Date, Commit
	t.Cleanup(func() { Version, Date, Commit = origV, origD, origC })

	var buf bytes.Buffer
	Version, Date, Commit = "", "", ""
	PrintBuildData(&buf)
	assert.Equal(t, "Build version: N/A\nBuild date: N/A\nBuild commit: N/A\n", buf.String())

	buf.Reset()
	Version, Date, Commit = "v1.2.0", "2025-09-01", "abc123"
	PrintBuildData(&buf)
	assert.Equal(t, "Build version: v1.2.0\nBuild date: 2025-09-01\nBuild commit: abc123\n", buf.String())
}
