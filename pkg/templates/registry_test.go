package templates

import (
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
)

func TestRegistry_LoadAndRender(t *testing.T) {
	reg, err := NewRegistry(fstest.MapFS{
		"agents/summary.tmpl": {Data: []byte("Company {{.Name}} holds {{currency .Cash .Currency}}")},
		"agents/README.md":    {Data: []byte("ignored")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"agents/summary"}, reg.IDs())

	data := map[string]any{"Name": "ACME", "Cash": mustDecimal(t, "1234.5"), "Currency": "USD"}
	rendered, err := reg.Render("agents/summary", data)
	require.NoError(t, err)
	assert.Equal(t, "Company ACME holds $1,234.50", rendered)
}

func TestRegistry_MissingKeyFails(t *testing.T) {
	reg, err := NewRegistry(fstest.MapFS{
		"agents/x.tmpl": {Data: []byte("{{.Industry}}")},
	})
	require.NoError(t, err)

	_, err = reg.Render("agents/x", map[string]string{})
	assert.Error(t, err)
}

func TestRegistry_MissingTemplate(t *testing.T) {
	reg, err := NewRegistry(fstest.MapFS{})
	require.NoError(t, err)

	_, err = reg.Render("agents/absent", nil)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestRegistry_ParseError(t *testing.T) {
	_, err := NewRegistry(fstest.MapFS{
		"agents/broken.tmpl": {Data: []byte("{{.Name")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse prompt agents/broken")
}

func TestRegistry_ConcurrentRender(t *testing.T) {
	reg, err := NewRegistry(fstest.MapFS{
		"p.tmpl": {Data: []byte("{{.N}}")},
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := reg.Render("p", map[string]int{"N": 7})
			assert.NoError(t, err)
			assert.Equal(t, "7", out)
		}()
	}
	wg.Wait()
}

func TestEmbeddedAgentTemplates(t *testing.T) {
	assert.Equal(t, []string{"agents/economic", "agents/financial", "agents/news"}, Get().IDs())
}
