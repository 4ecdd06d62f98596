package certificate

import (
	_ "embed"

	"github.com/goccy/go-json"

	"github.com/relabs-tech/certify/core/schema"
)

//go:embed schemas/certificate-request.json
var requestSchemaJSON string

const requestSchemaID = "https://relabs.tech/certify/certificate-request.json"

var requestValidator = mustNewRequestValidator()

func mustNewRequestValidator() *schema.Validator {
	v, err := schema.NewValidator([]string{requestSchemaJSON})
	if err != nil {
		panic(err)
	}
	return v
}

// Request is one certificate issuance request. The ID doubles as the ledger
// key and the storage object key.
type Request struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Grade string `json:"grade"`
}

// DecodeRequest parses body as a certificate request. The body must be a JSON
// object with non-empty id, name and grade; anything else is a malformed request.
func DecodeRequest(body []byte) (Request, error) {
	if err := requestValidator.ValidateBytes(body, requestSchemaID); err != nil {
		return Request{}, newError(KindMalformedRequest, err)
	}
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return Request{}, newError(KindMalformedRequest, err)
	}
	return req, nil
}
