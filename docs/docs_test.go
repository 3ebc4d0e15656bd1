package docs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type swaggerDoc struct {
	Paths       map[string]map[string]swaggerOp `json:"paths"`
	Definitions map[string]json.RawMessage      `json:"definitions"`
}

type swaggerOp struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Parameters  []struct {
		In     string `json:"in"`
		Schema struct {
			Ref string `json:"$ref"`
		} `json:"schema"`
	} `json:"parameters"`
}

func readDoc(t *testing.T) (swaggerDoc, string) {
	t.Helper()
	raw := SwaggerInfo.ReadDoc()
	var doc swaggerDoc
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc, raw
}

func TestDoc_RefsResolve(t *testing.T) {
	doc, raw := readDoc(t)

	refs := regexp.MustCompile(`"#/definitions/([^"]+)"`).FindAllStringSubmatch(raw, -1)
	require.NotEmpty(t, refs)
	for _, m := range refs {
		assert.Contains(t, doc.Definitions, m[1])
	}
}

var (
	routeRe   = regexp.MustCompile(`@Router\s+(\S+)\s+\[(\w+)\]`)
	summaryRe = regexp.MustCompile(`@Summary\s+(.+)`)
	descRe    = regexp.MustCompile(`@Description\s+(.+)`)
	bodyRe    = regexp.MustCompile(`@Param\s+\w+\s+body\s+(\S+)`)
)

// Each annotated handler must appear in the document with the same
// summary, description and body type.
func TestDoc_MatchesHandlerAnnotations(t *testing.T) {
	doc, _ := readDoc(t)

	files, err := filepath.Glob(filepath.Join("..", "pkg", "api", "handlers", "*.go"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	routes := 0
	for _, file := range files {
		if strings.HasSuffix(file, "_test.go") {
			continue
		}
		data, err := os.ReadFile(file)
		require.NoError(t, err)

		for _, block := range strings.Split(string(data), "\nfunc ") {
			route := routeRe.FindStringSubmatch(block)
			if route == nil {
				continue
			}
			routes++
			path, method := route[1], strings.ToLower(route[2])

			op, ok := doc.Paths[path][method]
			if !assert.True(t, ok, "%s %s missing from docs", method, path) {
				continue
			}
			if m := summaryRe.FindStringSubmatch(block); m != nil {
				assert.Equal(t, strings.TrimSpace(m[1]), op.Summary, path)
			}
			if m := descRe.FindStringSubmatch(block); m != nil {
				assert.Equal(t, strings.TrimSpace(m[1]), op.Description, path)
			}
			if m := bodyRe.FindStringSubmatch(block); m != nil {
				var ref string
				for _, p := range op.Parameters {
					if p.In == "body" {
						ref = p.Schema.Ref
					}
				}
				assert.Equal(t, "#/definitions/"+m[1], ref, path)
			}
		}
	}
	assert.Equal(t, routes, countOps(doc), "docs list routes with no handler")
}

func countOps(doc swaggerDoc) int {
	n := 0
	for _, ops := range doc.Paths {
		n += len(ops)
	}
	return n
}
