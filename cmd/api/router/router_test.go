package router

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-chat/docs"
)

// Every /api/v1 route must be described in the swagger document.
func TestSwaggerDocCoversRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := New(Deps{})

	var doc struct {
		BasePath string                                `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))
	require.Equal(t, "/api/v1", doc.BasePath)

	documented := 0
	for _, route := range r.Routes() {
		rel, ok := strings.CutPrefix(route.Path, doc.BasePath)
		if !ok {
			continue
		}
		rel = strings.ReplaceAll(rel, ":id", "{id}")
		ops, found := doc.Paths[rel]
		if assert.True(t, found, "path %s missing from swagger doc", rel) {
			_, found = ops[strings.ToLower(route.Method)]
			assert.True(t, found, "%s %s missing from swagger doc", route.Method, rel)
		}
		documented++
	}
	assert.Equal(t, 13, documented)

	for path, ops := range doc.Paths {
		for method := range ops {
			assert.True(t, hasRoute(r, strings.ToUpper(method), doc.BasePath+strings.ReplaceAll(path, "{id}", ":id")),
				"swagger doc lists %s %s but no route serves it", method, path)
		}
	}
}

func hasRoute(r *gin.Engine, method, path string) bool {
	for _, route := range r.Routes() {
		if route.Method == method && route.Path == path {
			return true
		}
	}
	return false
}
