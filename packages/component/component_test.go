package component_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngthis/packages/component"
	"ngthis/packages/linter"
	"ngthis/packages/rules"
)

const source = "import { Component, Injectable } from '@angular/core';\n" +
	"\n" +
	"@Component({\n" +
	"  selector: 'app-root',\n" +
	"  template: `<h1>{{title}}</h1>`,\n" +
	"})\n" +
	"export class AppComponent {\n" +
	"  title = 'app';\n" +
	"}\n" +
	"\n" +
	"@Component({selector: \"app-list\", templateUrl: './list.component.html'})\n" +
	"class ListComponent {}\n" +
	"\n" +
	"@Component({ template: `<b>${dynamic}</b>` })\n" +
	"export class DynamicComponent {}\n" +
	"\n" +
	"@Injectable()\n" +
	"export class Service {}\n"

func TestFindComponents(t *testing.T) {
	file := filepath.Join("src", "app", "app.component.ts")
	got, err := component.FindComponents(context.Background(), []byte(source), file)
	if err != nil {
		t.Fatalf("FindComponents: %v", err)
	}
	want := []component.ComponentInfo{
		{
			FilePath:       file,
			ClassName:      "AppComponent",
			Selector:       "app-root",
			Inline:         true,
			Template:       "<h1>{{title}}</h1>",
			TemplateOffset: strings.Index(source, "<h1>"),
		},
		{
			FilePath:    file,
			ClassName:   "ListComponent",
			Selector:    "app-list",
			TemplateUrl: "./list.component.html",
		},
		{
			FilePath:       file,
			ClassName:      "DynamicComponent",
			Inline:         true,
			Template:       "<b>${dynamic}</b>",
			TemplateOffset: strings.Index(source, "<b>"),
			Dynamic:        true,
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("FindComponents mismatch (-want +got):\n%s", diff)
	}

	t.Run("should resolve template urls next to the component", func(t *testing.T) {
		if diff := cmp.Diff(filepath.Join("src", "app", "list.component.html"), got[1].TemplatePath()); diff != "" {
			t.Errorf("TemplatePath mismatch (-want +got):\n%s", diff)
		}
		if got[0].TemplatePath() != "" {
			t.Errorf("Expected no template path for an inline template, got %q", got[0].TemplatePath())
		}
	})

	t.Run("should only lint static inline templates", func(t *testing.T) {
		var lintable []string
		for _, c := range got {
			if c.HasInlineTemplate() {
				lintable = append(lintable, c.ClassName)
			}
		}
		if diff := cmp.Diff([]string{"AppComponent"}, lintable); diff != "" {
			t.Errorf("lintable mismatch (-want +got):\n%s", diff)
		}
	})
}

func newLinter(t *testing.T) *linter.Linter {
	t.Helper()
	l := linter.New()
	if err := rules.Register(l); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return l
}

func TestVerify(t *testing.T) {
	t.Run("should position messages in the component file", func(t *testing.T) {
		got, err := component.Verify(context.Background(), newLinter(t), source, "app.component.ts", rules.DefaultConfig())
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("Expected one message, got %+v", got)
		}
		m := got[0]
		if diff := cmp.Diff([]int{5, 20, 5, 25}, []int{m.Line, m.Column, m.EndLine, m.EndColumn}); diff != "" {
			t.Errorf("location mismatch (-want +got):\n%s", diff)
		}
		at := strings.Index(source, "title}}")
		if diff := cmp.Diff(&linter.Fix{Range: linter.Range{at, at}, Text: "this."}, m.Fix); diff != "" {
			t.Errorf("fix mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should fix inline templates in place", func(t *testing.T) {
		got, err := component.VerifyAndFix(context.Background(), newLinter(t), source, "app.component.ts", rules.DefaultConfig())
		if err != nil {
			t.Fatalf("VerifyAndFix: %v", err)
		}
		want := &linter.FixReport{
			Fixed:  true,
			Output: strings.Replace(source, "{{title}}", "{{this.title}}", 1),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("VerifyAndFix mismatch (-want +got):\n%s", diff)
		}
	})
}
