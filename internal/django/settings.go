package django

import (
	"fmt"
	"regexp"
	"strings"
)

// installedAppsPattern captures the body of the INSTALLED_APPS list.
var installedAppsPattern = regexp.MustCompile(`(?s)INSTALLED_APPS\s*=\s*\[(.*?)\]`)

// RegisterApps inserts one "    '<app>',\n" line per app before the closing
// bracket of INSTALLED_APPS. Apps already listed are left alone, so running
// it twice is a no-op.
func RegisterApps(settings string, apps []string) (string, error) {
	loc := installedAppsPattern.FindStringSubmatchIndex(settings)
	if loc == nil {
		return "", ErrInstalledAppsNotFound
	}
	bodyStart, bodyEnd := loc[2], loc[3]
	body := settings[bodyStart:bodyEnd]

	var lines strings.Builder
	for _, app := range apps {
		if listsApp(body, app) {
			continue
		}
		fmt.Fprintf(&lines, "    '%s',\n", app)
	}
	if lines.Len() == 0 {
		return settings, nil
	}

	head := terminateLastEntry(strings.TrimRight(body, " \t"))
	if !strings.HasSuffix(head, "\n") {
		head += "\n"
	}

	return settings[:bodyStart] + head + lines.String() + settings[bodyEnd:], nil
}

// terminateLastEntry adds a comma after the last list entry in body when it
// has none. The comma goes before any trailing comment on that line.
func terminateLastEntry(body string) string {
	lines := strings.Split(body, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		code := strings.TrimRight(line[:commentStart(line)], " \t\r")
		if strings.TrimSpace(code) == "" {
			continue
		}
		if !strings.HasSuffix(code, ",") {
			lines[i] = code + "," + line[len(code):]
		}
		break
	}
	return strings.Join(lines, "\n")
}

// commentStart returns the index of the first '#' outside a string literal,
// or len(line).
func commentStart(line string) int {
	var quote byte
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '#':
			return i
		}
	}
	return len(line)
}

// RegisteredApps returns the quoted entries of INSTALLED_APPS in order.
func RegisteredApps(settings string) ([]string, error) {
	loc := installedAppsPattern.FindStringSubmatchIndex(settings)
	if loc == nil {
		return nil, ErrInstalledAppsNotFound
	}
	var apps []string
	for _, m := range quotedEntry.FindAllStringSubmatch(settings[loc[2]:loc[3]], -1) {
		apps = append(apps, m[1])
	}
	return apps, nil
}

var quotedEntry = regexp.MustCompile(`['"]([^'"]+)['"]`)

func listsApp(body, app string) bool {
	pattern := `['"]` + regexp.QuoteMeta(app) + `(\.apps\.[A-Za-z0-9_]+)?['"]`
	return regexp.MustCompile(pattern).MatchString(body)
}
