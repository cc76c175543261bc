// Package templates holds the agent prompt templates and the number formatting
// helpers they use.
package templates

import (
	"bytes"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

//go:embed assets/**/*.tmpl
var embeddedFS embed.FS

const templateExt = ".tmpl"

// Template is a parsed prompt template. Rendering is safe for concurrent use.
type Template struct {
	ID     string
	parsed *template.Template
}

// Render executes the template. A field missing from data is an error.
func (t *Template) Render(data any) (string, error) {
	var buf bytes.Buffer
	if err := t.parsed.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "render prompt %s", t.ID)
	}
	return buf.String(), nil
}

// Registry maps IDs such as "agents/news" to parsed templates.
// Every template is parsed up front and the registry is read-only afterwards.
type Registry struct {
	templates map[string]*Template
}

// NewRegistry parses every *.tmpl file under fsys. The ID of a template is its
// slash-separated path without the extension.
func NewRegistry(fsys fs.FS) (*Registry, error) {
	r := &Registry{templates: map[string]*Template{}}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != templateExt {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return errors.Wrapf(err, "read prompt %s", p)
		}

		id := strings.TrimSuffix(p, templateExt)
		parsed, err := template.New(id).Funcs(Funcs()).Option("missingkey=error").Parse(string(content))
		if err != nil {
			return errors.Wrapf(err, "parse prompt %s", id)
		}

		r.templates[id] = &Template{ID: id, parsed: parsed}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Get returns the registry of embedded agent prompts. It panics if they fail to parse.
func Get() *Registry {
	defaultOnce.Do(func() {
		assets, err := fs.Sub(embeddedFS, "assets")
		if err != nil {
			defaultErr = err
			return
		}
		defaultRegistry, defaultErr = NewRegistry(assets)
	})

	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultRegistry
}

// Lookup returns the template registered under id
func (r *Registry) Lookup(id string) (*Template, error) {
	tmpl, ok := r.templates[id]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "prompt template %q", id)
	}
	return tmpl, nil
}

// Render looks up id and executes it with data
func (r *Registry) Render(id string, data any) (string, error) {
	tmpl, err := r.Lookup(id)
	if err != nil {
		return "", err
	}
	return tmpl.Render(data)
}

// IDs returns the registered template IDs in sorted order
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.templates))
	for id := range r.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
