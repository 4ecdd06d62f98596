package schema_test

import (
	"testing"

	"github.com/relabs-tech/certify/core/schema"
)

const (
	shortString = `
	{ "$id" : "http://some_host.com/short.json",
	  "type" : "string",
	  "maxLength" : 5
	}`
	person = `
	{ "$id" : "http://some_host.com/person.json",
	  "type" : "object",
	  "required" : ["name"],
	  "properties" : { "name" : { "type" : "string", "minLength": 1 } }
	}`
)

func TestValidateString(t *testing.T) {
	v, err := schema.NewValidator([]string{shortString, person})
	if err != nil {
		t.Fatalf("No error expected when creating validator, got %v", err)
	}

	if !v.HasSchema("http://some_host.com/short.json") {
		t.Fatal("expected schema short.json to be known")
	}

	if err := v.ValidateString(`"short"`, "http://some_host.com/short.json"); err != nil {
		t.Fatalf(`"short" is expected to be valid. Reported error was: %v`, err)
	}

	if err := v.ValidateString(`"a very long string"`, "http://some_host.com/short.json"); err == nil {
		t.Fatal(`"a very long string" is expected to be invalid`)
	}

	if err := v.ValidateString(`"short"`, "http://some_host.com/unknown.json"); err == nil {
		t.Fatal("validating against an unknown schema is expected to fail")
	}
}

func TestValidateBytes(t *testing.T) {
	v, err := schema.NewValidator([]string{person})
	if err != nil {
		t.Fatalf("No error expected when creating validator, got %v", err)
	}

	if err := v.ValidateBytes([]byte(`{"name":"Ada"}`), "http://some_host.com/person.json"); err != nil {
		t.Fatalf("valid person reported as invalid: %v", err)
	}

	if err := v.ValidateBytes([]byte(`{"name":""}`), "http://some_host.com/person.json"); err == nil {
		t.Fatal("empty name is expected to be invalid")
	}

	if err := v.ValidateBytes([]byte(`{`), "http://some_host.com/person.json"); err == nil {
		t.Fatal("broken json is expected to be invalid")
	}
}

func TestNewValidatorRequiresID(t *testing.T) {
	if _, err := schema.NewValidator([]string{`{ "type" : "string" }`}); err == nil {
		t.Fatal("schema without $id is expected to fail")
	}
}
