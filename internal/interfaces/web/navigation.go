package web

type navLink struct {
	Href    string
	Label   string
	Active  bool
	Primary bool
}

type navigation struct {
	Main []navLink
	Auth []navLink
}

var mainLinks = []navLink{
	{Href: "/trade-calculator", Label: "Trade Calculator"},
	{Href: "/trending", Label: "Trending Players"},
	{Href: "/roster-analysis", Label: "Roster Analysis"},
	{Href: "/coach-assistant", Label: "Coach Assistant"},
}

var authLinks = []navLink{
	{Href: "/login", Label: "Login"},
	{Href: "/signup", Label: "Sign Up", Primary: true},
}

// buildNavigation marks the link matching path as active.
func buildNavigation(path string) navigation {
	return navigation{
		Main: markActive(mainLinks, path),
		Auth: markActive(authLinks, path),
	}
}

func markActive(links []navLink, path string) []navLink {
	out := make([]navLink, len(links))
	copy(out, links)
	for i := range out {
		out[i].Active = out[i].Href == path
	}
	return out
}
