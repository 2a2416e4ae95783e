package sanitize

import (
	"testing"

	"portfolio/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestHTMLStripsScripts(t *testing.T) {
	s := New()
	assert.Equal(t, "<p>hi</p>", s.HTML(`<p onclick="evil()">hi</p><script>alert(1)</script>`))

	img := s.HTML(`<img src="/uploads/a.png" alt="a" onerror="x()">`)
	assert.Contains(t, img, `src="/uploads/a.png"`)
	assert.NotContains(t, img, "onerror")

	assert.Contains(t, s.HTML(`<pre><code class="language-go">x</code></pre>`), `class="language-go"`)
}

func TestDocumentCleansOnlyHTMLFields(t *testing.T) {
	s := New()
	doc := models.ContentDocument{
		ID:         "p1",
		Collection: models.CollectionProjects,
		Payload: models.Payload{
			"title":   "<b>raw title</b>",
			"summary": "<p>ok</p><script>x</script>",
			"content": map[string]any{"about": `<a href="javascript:alert(1)">x</a>`},
			"developmentPipeline": []any{
				map[string]any{"title": "Plan", "description": "<iframe src=x></iframe><em>go</em>"},
			},
		},
	}

	out := s.Document(doc)

	assert.Equal(t, "<b>raw title</b>", out.Payload.String("title"), "не-HTML поля не трогаются")
	assert.Equal(t, "<p>ok</p>", out.Payload.String("summary"))
	assert.NotContains(t, out.Payload["content"].(map[string]any)["about"], "javascript:")
	step := out.Payload["developmentPipeline"].([]any)[0].(map[string]any)
	assert.Equal(t, "<em>go</em>", step["description"])

	assert.Equal(t, "<p>ok</p><script>x</script>", doc.Payload.String("summary"), "исходный документ не меняется")
}

func TestDocumentsKeepsOrder(t *testing.T) {
	s := New()
	docs := []models.ContentDocument{
		{ID: "a", Collection: models.CollectionTools, Payload: models.Payload{"description": "<u>a</u>"}},
		{ID: "b", Collection: models.CollectionTools, Payload: models.Payload{}},
	}
	out := s.Documents(docs)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
}
