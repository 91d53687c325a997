// Package preview renders a portfolio the way a visitor would see it: as Markdown,
// as styled terminal output, or as a standalone HTML page.
package preview

import (
	"fmt"
	"strings"

	"archfolio/internal/portfolio"
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
)

// destEscaper percent-encodes the characters that end or split a link destination.
var destEscaper = strings.NewReplacer(
	" ", "%20",
	"\t", "%09",
	"\n", "%0A",
	"(", "%28",
	")", "%29",
	"<", "%3C",
	">", "%3E",
)

// Markdown renders the document. Sections follow the published page: profile header,
// Featured Work, Resources (only when present) and Get in Touch.
func Markdown(p portfolio.Portfolio) string {
	var b strings.Builder

	if p.Profile.ProfileImage != "" {
		fmt.Fprintf(&b, "![%s](%s)\n\n", escape(p.Profile.Name), dest(p.Profile.ProfileImage))
	}
	fmt.Fprintf(&b, "# %s\n\n", escape(p.Profile.Name))
	if p.Profile.Title != "" {
		fmt.Fprintf(&b, "## %s\n\n", escape(p.Profile.Title))
	}
	if p.Profile.Bio != "" {
		fmt.Fprintf(&b, "%s\n\n", escape(p.Profile.Bio))
	}

	b.WriteString("---\n\n### Featured Work\n\n")
	if len(p.Projects) == 0 {
		b.WriteString("_No projects yet._\n\n")
	}
	for _, proj := range p.Projects {
		fmt.Fprintf(&b, "#### %s\n\n", escape(proj.Title))
		if proj.Category != "" {
			fmt.Fprintf(&b, "*%s*\n\n", escape(proj.Category))
		}
		if proj.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", escape(proj.Description))
		}
		for i, img := range proj.Images {
			fmt.Fprintf(&b, "![%s - view %d](%s)\n", escape(proj.Title), i+1, dest(img))
		}
		if len(proj.Images) > 0 {
			b.WriteString("\n")
		}
	}

	if len(p.Resources) > 0 {
		b.WriteString("### Resources\n\n")
		for _, res := range p.Resources {
			fmt.Fprintf(&b, "- [%s](%s)", escape(res.Title), dest(res.FileURL))
			if res.Description != "" {
				fmt.Fprintf(&b, ": %s", escape(res.Description))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n### Get in Touch\n\n")
	var contact []string
	if c := p.Contact.Email; c != "" {
		contact = append(contact, fmt.Sprintf("[%s](mailto:%s)", escape(c), dest(c)))
	}
	if c := p.Contact.Phone; c != "" {
		contact = append(contact, escape(c))
	}
	if c := p.Contact.Website; c != "" {
		contact = append(contact, fmt.Sprintf("[%s](%s)", escape(c), dest(websiteURL(c))))
	}
	if c := p.Contact.Instagram; c != "" {
		handle := strings.TrimPrefix(c, "@")
		contact = append(contact, fmt.Sprintf("[@%s](https://instagram.com/%s)", escape(handle), dest(handle)))
	}
	b.WriteString(strings.Join(contact, " · "))
	b.WriteString("\n")

	return b.String()
}

func escape(s string) string {
	return mdEscaper.Replace(strings.TrimSpace(s))
}

// dest prepares a URL for use as a link or image destination.
func dest(url string) string {
	return destEscaper.Replace(strings.TrimSpace(url))
}

// websiteURL adds https:// to a bare host, as the contact form stores websites without a scheme.
func websiteURL(site string) string {
	if strings.HasPrefix(site, "http://") || strings.HasPrefix(site, "https://") {
		return site
	}
	return "https://" + site
}
