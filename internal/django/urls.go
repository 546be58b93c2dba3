package django

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	urlpatternsPattern = regexp.MustCompile(`(?m)^urlpatterns\s*=\s*\[[ \t]*\r?\n?`)
	urlsImportPattern  = regexp.MustCompile(`(?m)^from django\.urls import ([^\n(]+)$`)
)

// RouteApps makes the project urls.py route "<app>/" to "<app>.urls" for
// every app. The include() helper is added to the django.urls import, and
// routes are inserted right after "urlpatterns = [". When the module has no
// urlpatterns list, one is appended. Apps already routed are skipped.
func RouteApps(urls string, apps []string) string {
	var routes strings.Builder
	for _, app := range apps {
		if routesApp(urls, app) {
			continue
		}
		fmt.Fprintf(&routes, "    path('%s/', include('%s.urls')),\n", app, app)
	}
	if routes.Len() == 0 {
		return urls
	}

	urls = ensureIncludeImport(urls)

	loc := urlpatternsPattern.FindStringIndex(urls)
	if loc == nil {
		if urls != "" && !strings.HasSuffix(urls, "\n") {
			urls += "\n"
		}
		return urls + "\nurlpatterns = [\n" + routes.String() + "]\n"
	}

	opener := urls[loc[0]:loc[1]]
	insert := routes.String()
	if !strings.HasSuffix(opener, "\n") {
		insert = "\n" + insert
	}
	return urls[:loc[1]] + insert + urls[loc[1]:]
}

// ensureIncludeImport makes sure include and path are imported from
// django.urls, rewriting an existing import line when there is one.
func ensureIncludeImport(urls string) string {
	loc := urlsImportPattern.FindStringSubmatchIndex(urls)
	if loc == nil {
		line := "from django.urls import include, path\n"
		if p := urlpatternsPattern.FindStringIndex(urls); p != nil {
			return urls[:p[0]] + line + urls[p[0]:]
		}
		if urls != "" && !strings.HasSuffix(urls, "\n") {
			urls += "\n"
		}
		return urls + line
	}

	var names []string
	for n := range strings.SplitSeq(urls[loc[2]:loc[3]], ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	changed := false
	for _, want := range []string{"include", "path"} {
		if !slices.Contains(names, want) {
			names = append(names, want)
			changed = true
		}
	}
	if !changed {
		return urls
	}
	slices.Sort(names)
	return urls[:loc[2]] + strings.Join(names, ", ") + urls[loc[3]:]
}

// routesApp looks for an existing include of <app>.urls. Only the text from
// urlpatterns onwards is searched: the generated module docstring itself
// shows "include('blog.urls')" as an example.
func routesApp(urls, app string) bool {
	scope := urls
	if loc := urlpatternsPattern.FindStringIndex(urls); loc != nil {
		scope = urls[loc[0]:]
	}
	pattern := `include\(\s*['"]` + regexp.QuoteMeta(app) + `\.urls['"]`
	return regexp.MustCompile(pattern).MatchString(scope)
}

// CustomizeAdmin appends the admin site customisation block to urls.py.
// The block is skipped when the header is already customised.
func CustomizeAdmin(urls, block string) string {
	if strings.Contains(urls, "admin.site.site_header") {
		return urls
	}
	if urls != "" && !strings.HasSuffix(urls, "\n") {
		urls += "\n"
	}
	if !strings.HasPrefix(block, "\n") {
		block = "\n" + block
	}
	return urls + block
}

// AppendIndexView appends the index view block to an app's views.py
// unless an index view is already defined.
func AppendIndexView(views, block string) string {
	if indexViewPattern.MatchString(views) {
		return views
	}
	if views != "" && !strings.HasSuffix(views, "\n") {
		views += "\n"
	}
	if !strings.HasPrefix(block, "\n") {
		block = "\n" + block
	}
	return views + block
}

var indexViewPattern = regexp.MustCompile(`(?m)^def index\(`)
