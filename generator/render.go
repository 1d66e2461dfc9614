package generator

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/goaux/stacktrace/v2"
)

//go:embed openapi-ts.config.ts.tmpl
var DefaultTemplate string

var funcs = map[string]any{
	"basename": filepath.Base,
	"dirname":  filepath.Dir,
	"abs":      filepath.Abs,

	"jsonify": jsonify,
	"quote":   quote,
}

// Render executes text as a template over model.
func Render(text string, model *Model) ([]byte, error) {
	tmpl, err := stacktrace.Trace2(template.New("").Funcs(funcs).Parse(text))
	if err != nil {
		return nil, err
	}
	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, model); err != nil {
		return nil, stacktrace.Trace(err)
	}
	return buf.Bytes(), nil
}

func jsonify(v any) (string, error) {
	buf := new(bytes.Buffer)
	je := json.NewEncoder(buf)
	je.SetEscapeHTML(false)
	je.SetIndent("", "  ")
	err := je.Encode(v)
	return buf.String(), err
}

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)

// quote returns v as a single-quoted JavaScript string literal.
func quote(v any) string {
	return "'" + quoteReplacer.Replace(fmt.Sprint(v)) + "'"
}
