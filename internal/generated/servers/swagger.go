package servers

import (
	_ "embed"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:generate go run github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen@v2.4.1 --config=oapi-codegen.yaml openapi.yaml

//go:embed openapi.yaml
var document []byte

// GetSwagger parses the embedded OpenAPI document. Every call returns a fresh copy.
func GetSwagger() (*openapi3.T, error) {
	return openapi3.NewLoader().LoadFromData(document)
}
