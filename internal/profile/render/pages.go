package render

import (
	"context"
	"io"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	"maragu.dev/gomponents/components"
	"maragu.dev/gomponents/html"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

const baseCSS = `body{margin:0;font-family:var(--pc-font,system-ui,sans-serif);background:#f5f5f4;color:#1c1917}
.profile-card{max-width:32rem;margin:2rem auto;padding:1.5rem;border-radius:1rem;background:var(--pc-background,#fff);color:var(--pc-text,inherit)}
.profile-card h1{margin:.5rem 0;color:var(--pc-primary,inherit)}
.avatar{width:6rem;height:6rem;border-radius:50%;object-fit:cover}
.avatar-large{width:9rem;height:9rem}
.avatar-initials{display:flex;align-items:center;justify-content:center;background:#e7e5e4;font-weight:600}
.links{list-style:none;padding:0}
.links-inline li{display:inline-block;margin-right:.75rem}
.links-buttons a{display:block;margin:.5rem 0;padding:.75rem;border-radius:.5rem;background:var(--pc-secondary,#e7e5e4)}
.loading{opacity:.6}
.owner-bar{margin-top:1rem;font-size:.875rem}`

// Page wraps body in an HTML5 document.
func Page(title string, body ...g.Node) g.Node {
	return components.HTML5(components.HTML5Props{
		Title:    title,
		Language: "en",
		Head: []g.Node{
			html.StyleEl(g.Raw(baseCSS)),
			html.Script(html.Src(htmxSrc), html.Defer()),
		},
		Body: []g.Node{html.Main(body...)},
	})
}

// ProfilePage is the full page of a Ready outcome.
func ProfilePage(out Outcome) g.Node {
	return Page(out.Title, out.Node)
}

// LoadingCard is the placeholder shown while the card loads. It replaces
// itself with the card fragment at cardURL.
func LoadingCard(cardURL string) g.Node {
	return html.Div(
		html.ID(CardID),
		html.Class("profile-card loading"),
		g.Attr("aria-busy", "true"),
		hx.Get(cardURL),
		hx.Trigger("load"),
		hx.Swap("outerHTML"),
		html.P(g.Text("Loading profile…")),
	)
}

// ShellPage is the Loading state of a page view.
func ShellPage(username, cardURL string) g.Node {
	return Page("@"+username, LoadingCard(cardURL))
}

// NotFoundCard is the fragment shown when a profile does not exist.
func NotFoundCard(username string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<section id="`+CardID+`" class="profile-card not-found">`+
			`<h1>Profile Not Found</h1>`+
			`<p>No profile exists for @`+templ.EscapeString(username)+`.</p>`+
			`</section>`)
		return err
	})
}

// NotFoundPage is the full page of a NotFound outcome.
func NotFoundPage(username string) templ.Component {
	card := NotFoundCard(username)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!doctype html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>Profile Not Found</title><style>`+baseCSS+`</style></head><body><main>`); err != nil {
			return err
		}
		if err := card.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
