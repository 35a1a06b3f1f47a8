package appinfo

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	v := GetVersion()
	assert.Equal(t, "dev", v.Short())
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, v.Platform)
	assert.NotContains(t, v.String(), "Commit")
	assert.Equal(t, "ruasset/dev", UserAgent())

	v.Commit = "1a2b3c4d5e6f"
	v.TreeState = "clean"
	assert.Equal(t, "dev-1a2b3c4d", v.Short())
	assert.Contains(t, v.String(), "Commit     : 1a2b3c4d5e6f (clean)\n")
}
