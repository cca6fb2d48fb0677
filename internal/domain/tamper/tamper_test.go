package tamper

import (
	"regexp"
	"strings"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBlock(t *testing.T, checksum int) string {
	t.Helper()

	block, err := Block(checksum)
	require.NoError(t, err)

	return block
}

func TestBlock_EmbedsChecksum(t *testing.T) {
	block := mustBlock(t, 1234)

	assert.Contains(t, block, "var _v=_c(String(1234));")
	assert.NotContains(t, block, "{%")
	assert.NotEqual(t, block, mustBlock(t, 4321))
}

func TestBlock_Checks(t *testing.T) {
	block := mustBlock(t, 0)

	assert.Contains(t, block, "},500);")
	assert.Contains(t, block, "},1000);")
	assert.Contains(t, block, "window.outerHeight-window.innerHeight>200")
	assert.Contains(t, block, "Object.defineProperty(_,'cookie'")
	assert.Contains(t, block, "indexOf('native')")
	assert.Contains(t, block, "window.location='about:blank'")
}

func TestBlock_ChecksumNotEnforced(t *testing.T) {
	block := mustBlock(t, 42)

	// _v is computed but never read again.
	assert.Equal(t, 1, strings.Count(block, "_v"))
}

func TestBlock_Balanced(t *testing.T) {
	block := mustBlock(t, 9999)

	assert.Equal(t, strings.Count(block, "("), strings.Count(block, ")"))
	assert.Equal(t, strings.Count(block, "{"), strings.Count(block, "}"))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(block), "})();"))
}

func TestBlock_NoPayloadShapedDeclarations(t *testing.T) {
	payloadLike := regexp.MustCompile(`var [^=;\s]+='[A-Za-z0-9+/=]*';`)
	assert.False(t, payloadLike.MatchString(mustBlock(t, 1)))
}

func TestBlock_ReportsTemplateErrors(t *testing.T) {
	original := blockTemplate
	t.Cleanup(func() { blockTemplate = original })

	blockTemplate = template.Must(template.New("tamper").Delims("{%", "%}").Parse(`{%.Missing%}`))

	_, err := Block(1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render tamper block")
}
