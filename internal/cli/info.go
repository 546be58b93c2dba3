package cli

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/djscaffold/djscaffold/internal/core/project"
	"github.com/djscaffold/djscaffold/internal/django"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info [dir]",
		Short: "Show how the enclosing project was scaffolded",
		Args:  cobra.MaximumNArgs(1),
		Annotations: map[string]string{
			skipConfigAnnotation: "",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			start := "."
			if len(args) > 0 {
				start = args[0]
			} else if wd, err := os.Getwd(); err == nil {
				start = wd
			}
			root, err := project.FindProjectRoot(start)
			if err != nil {
				return err
			}
			rec, err := project.ReadRecord(root)
			if err != nil {
				return err
			}

			apps := "none"
			if len(rec.Apps) > 0 {
				apps = strings.Join(rec.Apps, ", ")
			}
			djangoVersion := rec.DjangoVersion
			if djangoVersion == "" {
				djangoVersion = "unknown"
			}
			t := a.deps.Theme
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, t.Card(rec.Name, [][2]string{
				{"Root", root},
				{"Apps", apps},
				{"Django", djangoVersion},
				{"Python", rec.Python},
				{"Created", rec.CreatedAt.Local().Format(time.DateTime)},
				{"Tool", rec.ToolVersion},
			}))
			for _, msg := range settingsDrift(root, rec) {
				_, _ = fmt.Fprintln(out, t.Warning("! "+msg))
			}
			return nil
		},
	}
}

// settingsDrift lists recorded apps that settings.py no longer registers.
func settingsDrift(root string, rec *project.ProjectRecord) []string {
	layout := django.Layout{Root: root, Name: rec.Name}
	data, err := os.ReadFile(layout.SettingsPath())
	if err != nil {
		return []string{fmt.Sprintf("cannot read %s: %v", layout.Rel(layout.SettingsPath()), err)}
	}
	registered, err := django.RegisteredApps(string(data))
	if err != nil {
		return []string{fmt.Sprintf("%s: %v", layout.Rel(layout.SettingsPath()), err)}
	}
	var drift []string
	for _, app := range rec.Apps {
		if !slices.ContainsFunc(registered, func(entry string) bool {
			return entry == app || strings.HasPrefix(entry, app+".apps.")
		}) {
			drift = append(drift, fmt.Sprintf("app %q is not in INSTALLED_APPS", app))
		}
	}
	return drift
}
