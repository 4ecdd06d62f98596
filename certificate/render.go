package certificate

import (
	_ "embed"
	"encoding/base64"
	"time"

	"github.com/cbroglie/mustache"
)

//go:embed templates/certificate.mustache
var certificateTemplate string

//go:embed templates/medal.png
var medalPNG []byte

func init() {
	// a placeholder without a model field is a render error, not a silent blank
	mustache.AllowMissingVariables = false
}

// Renderer merges certificate requests with the fixed decorative asset and the
// issuance date into certificate markup.
type Renderer struct {
	template *mustache.Template
	medal    string
	now      func() time.Time
}

// NewRenderer parses the embedded certificate template.
func NewRenderer() (*Renderer, error) {
	template, err := mustache.ParseString(certificateTemplate)
	if err != nil {
		return nil, newError(KindTemplate, err)
	}
	return &Renderer{
		template: template,
		medal:    base64.StdEncoding.EncodeToString(medalPNG),
		now:      time.Now,
	}, nil
}

// Render substitutes the request fields, the base64-encoded medal and the
// current date into the template. Pure function of the request and the clock.
func (r *Renderer) Render(req Request) (string, error) {
	model := map[string]string{
		"id":    req.ID,
		"name":  req.Name,
		"grade": req.Grade,
		"medal": r.medal,
		"date":  r.now().Format("02/01/2006"),
	}
	markup, err := r.template.Render(model)
	if err != nil {
		return "", newError(KindRender, err)
	}
	return markup, nil
}
