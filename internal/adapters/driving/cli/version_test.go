package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_PrintsVersion(t *testing.T) {
	prev := version
	version = "1.2.3"
	defer func() { version = prev }()

	out, err := execute("version")

	require.NoError(t, err)
	assert.Equal(t, "weave version 1.2.3\n", out)
}
