package version

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	Version, GitHash = "v0.1.0", "0123456789abcdef"
	defer func() { Version, GitHash = "None", "None" }()

	assert.Equal(t, "v0.1.0-0123456", GetVersion())

	var buf bytes.Buffer
	Fprint(&buf)
	assert.Contains(t, buf.String(), "v0.1.0-0123456")
}
