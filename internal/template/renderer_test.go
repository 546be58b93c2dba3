package template

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func TestRendererRender(t *testing.T) {
	t.Run("successful_render", func(t *testing.T) {
		fs := fstest.MapFS{
			"README.md.tmpl": &fstest.MapFile{
				Data: []byte("# {{.ProjectName}}\n\nVersion: {{.Version}}\n"),
			},
		}
		r := NewRenderer(fs)

		data := map[string]string{
			"ProjectName": "mysite",
			"Version":     "1.0.0",
		}

		result, err := r.Render("README.md.tmpl", data)
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}

		expected := "# mysite\n\nVersion: 1.0.0\n"
		if string(result) != expected {
			t.Errorf("Render result = %q, want %q", string(result), expected)
		}
	})

	t.Run("missing_key_strict_mode", func(t *testing.T) {
		fs := fstest.MapFS{
			"test.tmpl": &fstest.MapFile{
				Data: []byte("Hello {{.Name}}, your app is {{.App}}"),
			},
		}
		r := NewRenderer(fs)

		_, err := r.Render("test.tmpl", map[string]string{"Name": "GOOS"})
		if !errors.Is(err, ErrMissingTemplateKey) {
			t.Errorf("expected ErrMissingTemplateKey, got: %v", err)
		}
	})

	t.Run("nonexistent_template", func(t *testing.T) {
		r := NewRenderer(fstest.MapFS{})

		_, err := r.Render("missing.tmpl", nil)
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("expected ErrTemplateNotFound, got: %v", err)
		}
	})

	t.Run("unexpanded_token", func(t *testing.T) {
		fs := fstest.MapFS{
			"env.tmpl": &fstest.MapFile{Data: []byte("SECRET_KEY = ${SECRET_KEY}\n")},
		}
		r := NewRenderer(fs)

		_, err := r.Render("env.tmpl", nil)
		if !errors.Is(err, ErrUnexpandedToken) {
			t.Errorf("expected ErrUnexpandedToken, got: %v", err)
		}
	})

	t.Run("dollar_tokens_in_data_are_kept", func(t *testing.T) {
		fs := fstest.MapFS{
			"s.tmpl": &fstest.MapFile{Data: []byte("header = {{pyString .V}}\n")},
		}
		r := NewRenderer(fs)

		out, err := r.Render("s.tmpl", map[string]string{"V": "ACME $USD ${HOME} Portal"})
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if want := `header = "ACME $USD ${HOME} Portal"` + "\n"; string(out) != want {
			t.Errorf("got %q, want %q", out, want)
		}
	})

	t.Run("python_string_escaping", func(t *testing.T) {
		fs := fstest.MapFS{
			"s.tmpl": &fstest.MapFile{Data: []byte("x = {{pyString .V}}\n")},
		}
		r := NewRenderer(fs)

		out, err := r.Render("s.tmpl", map[string]string{"V": `Bob's "Admin" \ Portal`})
		if err != nil {
			t.Fatal(err)
		}
		want := `x = "Bob's \"Admin\" \\ Portal"` + "\n"
		if string(out) != want {
			t.Errorf("got %q, want %q", out, want)
		}
	})
}

func TestEmbeddedSnippets(t *testing.T) {
	fsys, err := EmbeddedTemplates()
	if err != nil {
		t.Fatalf("EmbeddedTemplates() error: %v", err)
	}
	r := NewRenderer(fsys)

	t.Run("app_urls", func(t *testing.T) {
		out, err := r.Render(AppURLsTemplate, NewAppContext("mysite", "blog"))
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		for _, want := range []string{
			"from django.urls import path\n",
			"from . import views\n",
			`app_name = "blog"`,
			"    path('', views.index, name='index'),\n",
		} {
			if !strings.Contains(string(out), want) {
				t.Errorf("app urls missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("index_view", func(t *testing.T) {
		out, err := r.Render(IndexViewTemplate, NewAppContext("mysite", "blog"))
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		if !strings.Contains(string(out), "def index(request):\n    return HttpResponse(\"Hello, world! This is the index view of the app.\")") {
			t.Errorf("unexpected index view:\n%s", out)
		}
	})

	t.Run("admin_site", func(t *testing.T) {
		ctx := NewProjectContext(WithProject("mysite", "/tmp/mysite"))
		out, err := r.Render(AdminSiteTemplate, ctx)
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		for _, want := range []string{
			`admin.site.site_header = "mysite Admin"`,
			`admin.site.site_title = "Admin Portal"`,
			`admin.site.index_title = "Welcome to the Admin Portal"`,
		} {
			if !strings.Contains(string(out), want) {
				t.Errorf("admin block missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("next_steps", func(t *testing.T) {
		ctx := NewProjectContext(
			WithProject("mysite", "/tmp/mysite"),
			WithApps([]string{"blog", "shop"}),
			WithPython("python3"),
		)
		out, err := r.Render(NextStepsTemplate, ctx)
		if err != nil {
			t.Fatalf("Render error: %v", err)
		}
		for _, want := range []string{"cd /tmp/mysite", "python3 manage.py migrate", "http://127.0.0.1:8000/shop/"} {
			if !strings.Contains(string(out), want) {
				t.Errorf("next steps missing %q:\n%s", want, out)
			}
		}
	})
}

func TestNewProjectContext_AdminDefaults(t *testing.T) {
	ctx := NewProjectContext(
		WithProject("mysite", "/tmp/mysite"),
		WithAdminSite("", "Backoffice", ""),
	)
	if ctx.AdminSiteHeader != "mysite Admin" {
		t.Errorf("AdminSiteHeader = %q", ctx.AdminSiteHeader)
	}
	if ctx.AdminSiteTitle != "Backoffice" {
		t.Errorf("AdminSiteTitle = %q", ctx.AdminSiteTitle)
	}
	if ctx.AdminIndexTitle != DefaultAdminIndexTitle {
		t.Errorf("AdminIndexTitle = %q", ctx.AdminIndexTitle)
	}
}
