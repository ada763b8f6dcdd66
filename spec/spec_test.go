package spec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pkordes/cafe-recs/backend/spec"
)

// TestOpenAPI_ParsesAndListsRoutes guards against the embedded document
// drifting out of sync with the router.
func TestOpenAPI_ParsesAndListsRoutes(t *testing.T) {
	var doc struct {
		OpenAPI string                    `yaml:"openapi"`
		Paths   map[string]map[string]any `yaml:"paths"`
	}
	require.NoError(t, yaml.Unmarshal(spec.OpenAPI, &doc))

	assert.Equal(t, "3.0.3", doc.OpenAPI)
	for path, method := range map[string]string{
		"/":                   "get",
		"/healthz":            "get",
		"/vibes":              "get",
		"/vibes/score":        "post",
		"/cafes":              "get",
		"/cafes/all":          "get",
		"/cafes/{id}":         "delete",
		"/cafes/{id}/reviews": "post",
		"/export":             "get",
		"/metrics":            "get",
	} {
		require.Contains(t, doc.Paths, path)
		assert.Contains(t, doc.Paths[path], method, path)
	}
}
