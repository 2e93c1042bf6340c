package enrich

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateEmailGenerator_Default(t *testing.T) {
	gen := NewTemplateEmailGenerator(Sender{Name: "Mario Bianchi", Role: "Business Manager", Company: "Acme Consulting"})

	body, err := gen.Generate("Jane Doe", "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(body, "<p>Buongiorno Jane Doe,</p>"))
	assert.True(t, strings.HasSuffix(body, "<p>Grazie mille,</p>"))
	assert.Contains(t, body, "Mario Bianchi, Business Manager presso Acme Consulting")
	assert.Contains(t, body, "R&amp;D, Production and Maintenance")
}

func TestTemplateEmailGenerator_SameStructureForEveryName(t *testing.T) {
	gen := NewTemplateEmailGenerator(DefaultSender)

	a, err := gen.Generate("Jane Doe", "")
	require.NoError(t, err)
	b, err := gen.Generate("Anna Verdi", "")
	require.NoError(t, err)

	assert.Equal(t, a, strings.Replace(b, "Anna Verdi", "Jane Doe", 1))
}

func TestTemplateEmailGenerator_EscapesName(t *testing.T) {
	body, err := NewTemplateEmailGenerator(DefaultSender).Generate("<b>Jane</b>", "")
	require.NoError(t, err)
	assert.NotContains(t, body, "<b>Jane</b>")
	assert.Contains(t, body, "&lt;b&gt;Jane&lt;/b&gt;")
}

func TestNewTemplateEmailGeneratorFromFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "email.html")
	require.NoError(t, os.WriteFile(path, []byte("Hi {{.Name}} ({{.Recipient}}) from {{.Sender.Name}}\n"), 0o600))

	gen, err := NewTemplateEmailGeneratorFromFile(path, Sender{Name: "Ops"})
	require.NoError(t, err)

	body, err := gen.Generate("Jane Doe", "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Hi Jane Doe (jane@example.com) from Ops", body)

	_, err = NewTemplateEmailGeneratorFromFile(filepath.Join(dir, "missing.html"), DefaultSender)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.html")
	require.NoError(t, os.WriteFile(bad, []byte("{{.Name"), 0o600))
	_, err = NewTemplateEmailGeneratorFromFile(bad, DefaultSender)
	assert.Error(t, err)
}
