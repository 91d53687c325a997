package preview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"archfolio/internal/portfolio"
)

func TestMarkdown_Sections(t *testing.T) {
	md := Markdown(portfolio.Preset())

	assert.Contains(t, md, "# Ayub Shaban\n")
	assert.Contains(t, md, "## Principal Architect & Urban Designer")
	assert.Contains(t, md, "### Featured Work")
	assert.Contains(t, md, "#### The Serenity House")
	assert.Contains(t, md, "*Residential*")
	assert.Contains(t, md, "![The Serenity House - view 3](https://picsum.photos/seed/project1c/800/600)")
	assert.Contains(t, md, "[ayubshaaban040@gmail.com](mailto:ayubshaaban040@gmail.com)")
	assert.Contains(t, md, "[www.ayubshaban.com](https://www.ayubshaban.com)")
	assert.Contains(t, md, "[@archneeds254](https://instagram.com/archneeds254)")
	assert.NotContains(t, md, "### Resources")

	assert.Less(t, strings.Index(md, "The Serenity House"), strings.Index(md, "Innovatech"), "project order is kept")
}

func TestMarkdown_ImageOrderFollowsDocument(t *testing.T) {
	doc := portfolio.Preset()
	doc.Projects[0].Images = portfolio.MoveImage(doc.Projects[0].Images, 2, 0)

	md := Markdown(doc)
	assert.Less(t, strings.Index(md, "project1c"), strings.Index(md, "project1a"))
}

func TestMarkdown_OptionalParts(t *testing.T) {
	doc := portfolio.Preset()
	doc.Contact.Instagram = ""
	doc.Contact.Website = "https://studio.example"
	doc, _ = portfolio.AddResource(doc)

	md := Markdown(doc)
	assert.NotContains(t, md, "instagram.com")
	assert.Contains(t, md, "(https://studio.example)")
	assert.Contains(t, md, "### Resources")
	assert.Contains(t, md, "- [New Resource Title](#): A brief description of the resource.")
}

func TestMarkdown_EscapesText(t *testing.T) {
	doc := portfolio.Preset()
	doc.Profile.Bio = "Loves *bold* <ideas> and [links]"

	md := Markdown(doc)
	assert.Contains(t, md, `Loves \*bold\* \<ideas\> and \[links\]`)
}

func TestMarkdown_EscapesLinkDestinations(t *testing.T) {
	doc := portfolio.Preset()
	doc.Projects[0].Images = []string{"https://cdn.example/site plan (final).jpg"}
	doc, res := portfolio.AddResource(doc)
	doc, err := portfolio.SetResourceField(doc, res.ID, portfolio.FieldFileURL, "https://files.example/brief (v2).pdf")
	require.NoError(t, err)

	md := Markdown(doc)
	assert.Contains(t, md, "(https://cdn.example/site%20plan%20%28final%29.jpg)")
	assert.Contains(t, md, "(https://files.example/brief%20%28v2%29.pdf)")
}

func TestMarkdown_NoProjects(t *testing.T) {
	md := Markdown(portfolio.Portfolio{Profile: portfolio.Profile{Name: "Solo"}})
	assert.Contains(t, md, "No projects yet")
}

func TestHTML(t *testing.T) {
	doc := portfolio.Preset()
	doc.Profile.Bio = "<script>alert(1)</script>"

	out, err := HTML(doc)
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, "<title>Ayub Shaban</title>")
	assert.Contains(t, page, "<h1>Ayub Shaban</h1>")
	assert.Contains(t, page, `src="https://picsum.photos/seed/project2b/800/600"`)
	assert.Contains(t, page, `href="mailto:ayubshaaban040@gmail.com"`)
	assert.NotContains(t, page, "<script>")
}

// imageSources walks the parsed page and returns every img src in document order.
func imageSources(t *testing.T, page []byte) []string {
	t.Helper()
	root, err := html.Parse(bytes.NewReader(page))
	require.NoError(t, err)

	var srcs []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			for _, a := range n.Attr {
				if a.Key == "src" {
					srcs = append(srcs, a.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return srcs
}

func TestHTML_ImagesInDocumentOrder(t *testing.T) {
	doc := portfolio.Preset()
	doc.Projects[1].Images = portfolio.MoveImage(doc.Projects[1].Images, 0, 1)

	out, err := HTML(doc)
	require.NoError(t, err)

	want := []string{doc.Profile.ProfileImage}
	for _, p := range doc.Projects {
		want = append(want, p.Images...)
	}
	assert.Equal(t, want, imageSources(t, out))
}

func TestHTML_ImageWithSpacesAndParens(t *testing.T) {
	doc := portfolio.Preset()
	doc.Projects[0].Images = []string{"https://cdn.example/site plan (final).jpg"}

	out, err := HTML(doc)
	require.NoError(t, err)

	srcs := imageSources(t, out)
	want := 1
	for _, p := range doc.Projects {
		want += len(p.Images)
	}
	require.Len(t, srcs, want, "every image still renders")
	assert.Equal(t, "https://cdn.example/site%20plan%20%28final%29.jpg", srcs[1])
	assert.NotContains(t, string(out), "(final).jpg)")
}

func TestTerminal(t *testing.T) {
	term, err := NewTerminal("notty", 80)
	require.NoError(t, err)

	out, err := term.Render(portfolio.Preset())
	require.NoError(t, err)
	assert.Contains(t, out, "Ayub Shaban")
	assert.Contains(t, out, "Featured Work")
	assert.Contains(t, out, "Get in Touch")
}
