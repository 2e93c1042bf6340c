package enrich

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strings"
)

// EmailGenerator expands the outreach template for a candidate
type EmailGenerator interface {
	Generate(name, recipient string) (string, error)
}

// Sender identifies who signs the outreach e-mail
type Sender struct {
	Name    string
	Role    string
	Company string
}

// DefaultSender is used when no sender is configured
var DefaultSender = Sender{
	Name:    "Il team Engineering",
	Role:    "Business Manager",
	Company: "la nostra società",
}

const defaultEmailTemplate = `
<p>Buongiorno {{.Name}},</p>

<p>Sono {{.Sender.Name}}, {{.Sender.Role}} presso {{.Sender.Company}}.</p>

<p>Siamo una società di consulenza che offre servizi nel mondo ingegneristico e tecnologico, tra cui:</p>

<ul>
    <li>R&amp;D, Production and Maintenance</li>
    <li>Regulatory and Quality</li>
    <li>Engineering and Project Management</li>
</ul>

<p>Le propongo alcune date per fissare un incontro:</p>

<ul>
    <li>-----</li>
    <li>-----</li>
    <li>-----</li>
</ul>

<p>In attesa di un gentile riscontro, le lascio i miei riferimenti in firma.</p>

<p>Grazie mille,</p>
`

type emailData struct {
	Name      string
	Recipient string
	Sender    Sender
}

// TemplateEmailGenerator renders an HTML e-mail body from a fixed template
type TemplateEmailGenerator struct {
	tmpl   *template.Template
	sender Sender
}

// NewTemplateEmailGenerator uses the built-in template
func NewTemplateEmailGenerator(sender Sender) *TemplateEmailGenerator {
	return &TemplateEmailGenerator{
		tmpl:   template.Must(template.New("email").Parse(defaultEmailTemplate)),
		sender: sender,
	}
}

// NewTemplateEmailGeneratorFromFile parses the template at path. The template
// sees .Name, .Recipient and .Sender.{Name,Role,Company}.
func NewTemplateEmailGeneratorFromFile(path string, sender Sender) (*TemplateEmailGenerator, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read email template: %w", err)
	}
	tmpl, err := template.New("email").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %w", err)
	}
	return &TemplateEmailGenerator{tmpl: tmpl, sender: sender}, nil
}

// Generate renders the e-mail body for name
func (g *TemplateEmailGenerator) Generate(name, recipient string) (string, error) {
	var buf bytes.Buffer
	err := g.tmpl.Execute(&buf, emailData{
		Name:      name,
		Recipient: recipient,
		Sender:    g.sender,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
