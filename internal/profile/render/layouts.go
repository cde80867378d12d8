package render

import (
	"strings"

	g "maragu.dev/gomponents"
	"maragu.dev/gomponents/html"

	"github.com/janisto/profile-composer/internal/profile"
	"github.com/janisto/profile-composer/internal/profile/social"
)

// EditProfilePath is where owners edit their profile.
const EditProfilePath = "/account/profile"

// CardID is the DOM id of the rendered profile card.
const CardID = "profile-card"

func card(layout string, p Props, children ...g.Node) g.Node {
	style := ""
	if p.View.Template != nil && layout != NeutralLayout {
		style = themeStyle(p.View.Template.Visual)
	}
	return html.Article(
		html.ID(CardID),
		html.Class("profile-card layout-"+layout),
		g.Attr("data-layout", layout),
		g.If(style != "", html.Style(style)),
		g.Group(children),
		ownerBar(p),
	)
}

func classic(p Props) g.Node {
	prof := p.View.Profile
	return card("classic", p,
		html.Header(
			html.Class("profile-header"),
			avatar(prof, "avatar"),
			names(prof.Identity),
		),
		details(prof),
		linkList(prof.VisibleLinks(), "links"),
		shareLink(p.ShareURL),
	)
}

func minimal(p Props) g.Node {
	prof := p.View.Profile
	return card("minimal", p,
		names(prof.Identity),
		g.If(prof.Bio != nil, html.P(html.Class("bio"), g.Text(deref(prof.Bio)))),
		linkList(prof.VisibleLinks(), "links links-inline"),
		shareLink(p.ShareURL),
	)
}

func spotlight(p Props) g.Node {
	prof := p.View.Profile
	tmpl := p.View.Template
	return card("spotlight", p,
		html.Section(
			html.Class("hero"),
			avatar(prof, "avatar avatar-large"),
			names(prof.Identity),
			g.If(tmpl != nil && tmpl.Name != "", html.P(html.Class("template-name"), g.Text(templateName(tmpl)))),
		),
		details(prof),
		linkList(prof.VisibleLinks(), "links links-buttons"),
		shareLink(p.ShareURL),
	)
}

func neutral(p Props) g.Node {
	prof := p.View.Profile
	return card(NeutralLayout, p,
		avatar(prof, "avatar"),
		names(prof.Identity),
		details(prof),
		linkList(prof.VisibleLinks(), "links"),
		shareLink(p.ShareURL),
	)
}

func avatar(prof profile.Profile, class string) g.Node {
	if prof.AvatarURL == nil {
		return html.Div(html.Class(class+" avatar-initials"), g.Text(initials(prof.Identity.DisplayName)))
	}
	return html.Img(
		html.Class(class),
		html.Src(*prof.AvatarURL),
		html.Alt(prof.Identity.DisplayName),
	)
}

func names(id profile.Identity) g.Node {
	return html.Div(
		html.Class("names"),
		html.H1(g.Text(id.DisplayName)),
		g.If(id.Username != "" && id.Username != id.DisplayName,
			html.P(html.Class("username"), g.Text("@"+id.Username))),
	)
}

func details(prof profile.Profile) g.Node {
	website := ""
	if prof.Website != nil {
		website = social.Resolve("website").Href(*prof.Website)
	}
	phone := ""
	if prof.Phone != nil {
		phone = social.Resolve("phone").Href(*prof.Phone)
	}
	return html.Div(
		html.Class("details"),
		g.If(prof.Bio != nil, html.P(html.Class("bio"), g.Text(deref(prof.Bio)))),
		g.If(prof.Location != nil, html.P(html.Class("location"), g.Text(deref(prof.Location)))),
		g.If(prof.Website != nil, anchor(website, "website", g.Text(deref(prof.Website)))),
		g.If(prof.Phone != nil, anchor(phone, "phone", g.Text(deref(prof.Phone)))),
	)
}

func linkList(links []profile.SocialLink, class string) g.Node {
	if len(links) == 0 {
		return nil
	}
	return html.Ul(
		html.Class(class),
		g.Map(links, func(l profile.SocialLink) g.Node {
			icon := social.Resolve(l.PlatformKey)
			label := l.DisplayLabel
			if label == "" {
				label = icon.Name
			}
			return html.Li(
				html.Class("link link-"+icon.Key),
				g.Attr("data-link-id", l.ID),
				anchor(icon.Href(l.URL), "link-target",
					html.Span(html.Class("glyph"), html.Style("color: "+icon.Color), g.Attr("aria-hidden", "true"), g.Text(icon.Glyph)),
					html.Span(html.Class("label"), g.Text(label)),
				),
			)
		}),
	)
}

// anchor renders an external link, or a plain span when href is empty.
func anchor(href, class string, children ...g.Node) g.Node {
	if href == "" {
		return html.Span(html.Class(class), g.Group(children))
	}
	return html.A(
		html.Class(class),
		html.Href(href),
		html.Rel("noopener noreferrer"),
		html.Target("_blank"),
		g.Group(children),
	)
}

func shareLink(shareURL string) g.Node {
	if shareURL == "" {
		return nil
	}
	return html.Footer(
		html.Class("share"),
		html.A(html.Class("share-link"), html.Href(shareURL), g.Text("Share profile")),
	)
}

func ownerBar(p Props) g.Node {
	if !p.Viewer.Owns(p.View.Profile.Identity) {
		return nil
	}
	return html.Nav(
		html.Class("owner-bar"),
		html.A(html.Href(EditProfilePath), g.Text("Edit profile")),
	)
}

func templateName(t *profile.Template) string {
	if t.IsPremium {
		return t.Name + " · Premium"
	}
	return t.Name
}

func initials(name string) string {
	var out []rune
	for _, f := range strings.Fields(name) {
		out = append(out, []rune(strings.ToUpper(f))[0])
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
