package architecture_test

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
)

const modulePrefix = "roidash/internal/modules/"

// importsOf parses every non-test Go file under root and yields its
// slash-separated path together with the imports that start with prefix.
func importsOf(t *testing.T, root, prefix string, visit func(file string, imports []string)) {
	t.Helper()
	fset := token.NewFileSet()
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		node, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		var matched []string
		for _, imp := range node.Imports {
			p := strings.Trim(imp.Path.Value, `"`)
			if strings.HasPrefix(p, prefix) {
				matched = append(matched, p)
			}
		}
		visit(filepath.ToSlash(path), matched)
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
}

// location splits a module path into module name and layer, e.g.
// ".../modules/wizard/adapter/out/file_slot.go" -> ("wizard", "adapter/out").
func location(path string) (module, layer string) {
	_, rest, ok := strings.Cut(path, "modules/")
	if !ok {
		return "", ""
	}
	module, rest, _ = strings.Cut(rest, "/")
	for _, l := range []string{"adapter/in", "adapter/out", "port/in", "port/out", "usecase", "service", "domain", "dto"} {
		if rest == l || strings.HasPrefix(rest, l+"/") {
			return module, l
		}
	}
	return module, ""
}

// public reports whether a layer may be imported from outside its module.
func public(layer string) bool { return layer == "port/in" || layer == "dto" }

// forbidden lists the same-module layers each layer must not depend on.
var forbidden = map[string][]string{
	"domain":     {"dto", "port/in", "port/out", "service", "usecase", "adapter/in", "adapter/out"},
	"dto":        {"service", "usecase", "adapter/in", "adapter/out"},
	"port/out":   {"service", "usecase", "adapter/in", "adapter/out"},
	"port/in":    {"service", "usecase", "adapter/in", "adapter/out"},
	"service":    {"usecase", "adapter/in", "adapter/out"},
	"usecase":    {"adapter/in", "adapter/out"},
	"adapter/in": {"domain", "port/out", "service", "usecase", "adapter/out"},
}

func TestHexagonalLayerImports(t *testing.T) {
	t.Parallel()
	importsOf(t, filepath.Join("..", "modules"), modulePrefix, func(file string, imports []string) {
		module, layer := location(file)
		if layer == "" {
			return
		}
		for _, imp := range imports {
			target, targetLayer := location(imp)
			if target != module {
				if !public(targetLayer) {
					t.Errorf("%s (%s/%s) reaches into %s", file, module, layer, imp)
				}
				continue
			}
			for _, f := range forbidden[layer] {
				if targetLayer == f {
					t.Errorf("%s: %s must not import %s", file, layer, imp)
				}
			}
		}
	})
}

func TestUIUsesOnlyPublicModulePorts(t *testing.T) {
	t.Parallel()
	importsOf(t, filepath.Join("..", "ui"), modulePrefix, func(file string, imports []string) {
		for _, imp := range imports {
			if _, layer := location(imp); !public(layer) {
				t.Errorf("%s imports %s; the ui may only use dto and port/in", file, imp)
			}
		}
	})
}

func TestPlatformDoesNotDependOnModules(t *testing.T) {
	t.Parallel()
	importsOf(t, filepath.Join("..", "platform"), "roidash/internal/", func(file string, imports []string) {
		for _, imp := range imports {
			if !strings.HasPrefix(imp, "roidash/internal/platform/") {
				t.Errorf("%s imports %s", file, imp)
			}
		}
	})
}

func TestLocation(t *testing.T) {
	t.Parallel()
	cases := map[string][2]string{
		"../modules/wizard/adapter/out/file_slot.go":  {"wizard", "adapter/out"},
		modulePrefix + "report/dto":                    {"report", "dto"},
		modulePrefix + "integration/port/in":           {"integration", "port/in"},
		"../modules/integration/service/sync_task.go": {"integration", "service"},
		"roidash/internal/platform/clock":             {"", ""},
	}
	for in, want := range cases {
		module, layer := location(in)
		if module != want[0] || layer != want[1] {
			t.Errorf("location(%q) = %q, %q; want %q, %q", in, module, layer, want[0], want[1])
		}
	}
}
