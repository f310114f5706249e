package enhancer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"
)

func newTestService() *Service {
	return NewService(arbor.NewLogger())
}

func TestEnhanceListTitles(t *testing.T) {
	s := newTestService()

	in := "1. Installation steps: run the installer\n- Security model: least privilege"
	out := s.Enhance(in)

	assert.Contains(t, out, "1. **Installation steps**: run the installer")
	assert.Contains(t, out, "- **Security model**: least privilege")
}

func TestEnhanceFirstQuotedPhrase(t *testing.T) {
	s := newTestService()

	out := s.Enhance(`The chapter "Getting Started" covers setup, while "Advanced Usage" does not.`)

	assert.Contains(t, out, `"**Getting Started**"`)
	assert.NotContains(t, out, `"**Advanced Usage**"`)
}

func TestEnhanceInitialNounPhrase(t *testing.T) {
	s := newTestService()

	out := s.Enhance("- The configuration file is stored in the home directory")

	assert.Equal(t, "- **The configuration file** is stored in the home directory", out)
}

func TestEnhanceNounPhraseTokenCap(t *testing.T) {
	s := newTestService()

	out := s.Enhance("- One two three four five six seven eight nine")

	assert.Equal(t, "- **One two three four five six** seven eight nine", out)
}

func TestEnhanceSkipsPlainProse(t *testing.T) {
	s := newTestService()

	in := "The document describes the deployment process in detail."
	assert.Equal(t, in, s.Enhance(in))
}

func TestEnhanceIdempotent(t *testing.T) {
	s := newTestService()

	in := "1. Installation steps: run the installer\n" +
		`- The manual "User Guide" explains everything` + "\n" +
		"- The configuration file is stored in the home directory"

	once := s.Enhance(in)
	twice := s.Enhance(once)

	assert.Equal(t, once, twice)
}

func TestEnhancePreservesExistingBold(t *testing.T) {
	s := newTestService()

	in := "- **Already bold** text stays untouched"
	assert.Equal(t, in, s.Enhance(in))
}

func TestEnhanceEmptyAnswer(t *testing.T) {
	s := newTestService()

	assert.Equal(t, "", s.Enhance(""))
}
