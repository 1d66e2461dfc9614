package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goaux/stacktrace/v2"
	"gopkg.in/yaml.v3"
	k8syaml "sigs.k8s.io/yaml"
)

// Format is the dialect of an API description document.
type Format string

const (
	FormatOpenAPI3 Format = "openapi3"
	FormatSwagger2 Format = "swagger2"
)

// Resolved is a Config whose input has been loaded and whose output has been
// checked, together with a summary of the API document.
type Resolved struct {
	Config Config

	// Remote is true when Config.Input is an http(s) URL.
	Remote bool

	Format     Format
	Title      string
	Version    string
	Paths      int
	Operations int

	// Warning is set when the document loaded but does not validate. The
	// generator is more lenient than the validator, so it is not fatal.
	Warning error
}

// Resolve makes relative input and output paths relative to baseDir, loads
// the input as an OpenAPI 3 or Swagger 2.0 document and makes sure output is
// a writable directory, creating it when missing.
//
// The returned errors wrap ErrUnresolvable or ErrUnwritable.
func Resolve(ctx context.Context, c Config, baseDir string) (Resolved, error) {
	return resolve(ctx, c, baseDir, true)
}

// Check is Resolve without side effects: a missing output directory is not
// created, its nearest existing parent is probed instead.
func Check(ctx context.Context, c Config, baseDir string) (Resolved, error) {
	return resolve(ctx, c, baseDir, false)
}

func resolve(ctx context.Context, c Config, baseDir string, create bool) (Resolved, error) {
	r := Resolved{Config: c}

	u, remote := remoteInput(c.Input)
	r.Remote = remote
	if !remote {
		r.Config = r.Config.WithInput(join(baseDir, c.Input))
	}
	r.Config = r.Config.WithOutput(join(baseDir, c.Output))

	doc, format, err := loadDocument(ctx, r.Config.Input, u)
	if err != nil {
		return r, fmt.Errorf("%w: %s: %w", ErrUnresolvable, r.Config.Input, err)
	}
	r.Format = format
	if err := doc.Validate(ctx); err != nil {
		r.Warning = err
	}
	if doc.Info != nil {
		r.Title = doc.Info.Title
		r.Version = doc.Info.Version
	}
	if doc.Paths != nil {
		for _, item := range doc.Paths.Map() {
			r.Paths++
			r.Operations += len(item.Operations())
		}
	}

	probe := probeDir
	if !create {
		probe = probeParent
	}
	if err := probe(r.Config.Output); err != nil {
		return r, fmt.Errorf("%w: %s: %w", ErrUnwritable, r.Config.Output, err)
	}
	return r, nil
}

func remoteInput(input string) (*url.URL, bool) {
	u, err := url.Parse(input)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, false
	}
	return u, true
}

func join(baseDir, path string) string {
	if baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// loadDocument reads the document and returns it as OpenAPI 3. Swagger 2.0
// documents are converted. The document is not validated.
func loadDocument(ctx context.Context, path string, u *url.URL) (*openapi3.T, Format, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loader.IsExternalRefsAllowed = true

	location := u
	if location == nil {
		location = &url.URL{Path: filepath.ToSlash(path)}
	}
	data, err := stacktrace.Trace2(openapi3.DefaultReadFromURI(loader, location))
	if err != nil {
		return nil, "", err
	}

	var head struct {
		Swagger string `yaml:"swagger"`
		OpenAPI string `yaml:"openapi"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, "", stacktrace.Trace(err)
	}

	switch {
	case head.Swagger == "2.0":
		doc, err := convertSwagger2(data)
		return doc, FormatSwagger2, err
	case strings.HasPrefix(head.OpenAPI, "3."):
		doc, err := stacktrace.Trace2(loader.LoadFromDataWithPath(data, location))
		return doc, FormatOpenAPI3, err
	default:
		return nil, "", errors.New("not an OpenAPI 3 or Swagger 2.0 document")
	}
}

func convertSwagger2(data []byte) (*openapi3.T, error) {
	// openapi2 only decodes JSON
	b, err := stacktrace.Trace2(k8syaml.YAMLToJSON(data))
	if err != nil {
		return nil, err
	}
	var doc2 openapi2.T
	if err := json.Unmarshal(b, &doc2); err != nil {
		return nil, stacktrace.Trace(err)
	}
	return stacktrace.Trace2(openapi2conv.ToV3(&doc2))
}

func probeDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return stacktrace.Trace(err)
	}
	return probeWritable(dir)
}

// probeParent checks that dir, or the nearest existing parent it would be
// created in, is a writable directory.
func probeParent(dir string) error {
	for {
		_, err := os.Stat(dir)
		if err == nil {
			return probeWritable(dir)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return stacktrace.Trace(err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return stacktrace.Trace(err)
		}
		dir = parent
	}
}

func probeWritable(dir string) error {
	info, err := stacktrace.Trace2(os.Stat(dir))
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("not a directory")
	}
	f, err := stacktrace.Trace2(os.CreateTemp(dir, ".openapi-ts-probe-*"))
	if err != nil {
		return err
	}
	name := f.Name()
	return errors.Join(f.Close(), os.Remove(name))
}
