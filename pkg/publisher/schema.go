package publisher

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// createdPostSchema is the part of a ugcPosts creation response we rely on.
var createdPostSchema = map[string]any{
	"type":     "object",
	"required": []any{"id"},
	"properties": map[string]any{
		"id": map[string]any{
			"type":      "string",
			"minLength": 1,
		},
	},
}

func validateCreatedPost(body map[string]any) error {
	schemaLoader := gojsonschema.NewGoLoader(createdPostSchema)
	dataLoader := gojsonschema.NewGoLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		var errors []string
		for _, desc := range result.Errors() {
			errors = append(errors, desc.String())
		}

		return fmt.Errorf("%w: %s", ErrUnexpectedResponse, strings.Join(errors, "; "))
	}

	return nil
}
