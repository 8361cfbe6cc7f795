package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
)

// rule forbids files under dir from importing any of the listed internal
// packages (paths relative to the module's internal/ directory).
type rule struct {
	dir    string
	forbid []string
}

var layerRules = []rule{
	{"platform/", []string{"domain", "observability", "learning/", "recommend", "peermatch", "providers", "services/", "http", "config", "app"}},
	{"domain/", []string{"observability", "learning/", "recommend", "peermatch", "providers", "services/", "http", "config", "app"}},
	{"observability/", []string{"domain", "learning/", "recommend", "peermatch", "providers", "services/", "http", "config", "app"}},
	{"learning/", []string{"recommend", "peermatch", "providers", "services/", "http", "config", "app", "observability"}},
	{"recommend/", []string{"peermatch", "providers", "services/", "http", "config", "app", "observability"}},
	{"peermatch/", []string{"recommend", "providers", "services/", "http", "config", "app", "observability"}},
	{"providers/", []string{"services/", "http", "config", "app"}},
	{"services/", []string{"http", "config", "app"}},
	// Handlers talk to engines and services, never to raw upstream clients.
	{"http/", []string{"config", "app", "platform/openai", "platform/gemini", "platform/pinecone", "platform/cache"}},
}

func TestImportBoundaries(t *testing.T) {
	root, modulePath := moduleRoot(t)
	internalPrefix := modulePath + "/internal/"

	var violations []string
	walkImports(t, filepath.Join(root, "internal"), func(rel, imp string) {
		if !strings.HasPrefix(imp, internalPrefix) {
			return
		}
		target := strings.TrimPrefix(imp, internalPrefix)
		for _, r := range layerRules {
			if !strings.HasPrefix(rel, r.dir) {
				continue
			}
			for _, bad := range r.forbid {
				if target == strings.TrimSuffix(bad, "/") || strings.HasPrefix(target, strings.TrimSuffix(bad, "/")+"/") {
					violations = append(violations, fmt.Sprintf("internal/%s imports %q (forbidden for %s)", rel, imp, r.dir))
				}
			}
		}
	})
	report(t, "import boundary violations", violations)
}

func TestOnlyCmdImportsApp(t *testing.T) {
	root, modulePath := moduleRoot(t)
	appPkg := modulePath + "/internal/app"

	var violations []string
	walkImports(t, filepath.Join(root, "internal"), func(rel, imp string) {
		if imp == appPkg && !strings.HasPrefix(rel, "app/") {
			violations = append(violations, "internal/"+rel)
		}
	})
	report(t, "internal/app is the composition root; imported from", violations)
}

// walkImports calls fn for every import of every .go file under dir, with
// rel relative to dir in slash form.
func walkImports(t *testing.T, dir string, fn func(rel, imp string)) {
	t.Helper()
	fset := token.NewFileSet()
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			if imp, err := strconv.Unquote(spec.Path.Value); err == nil {
				fn(filepath.ToSlash(rel), imp)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dir, err)
	}
}

func report(t *testing.T, title string, lines []string) {
	t.Helper()
	if len(lines) == 0 {
		return
	}
	sort.Strings(lines)
	t.Fatalf("%s:\n- %s", title, strings.Join(lines, "\n- "))
}

func moduleRoot(t *testing.T) (root, modulePath string) {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found")
		}
		dir = parent
	}
	f, err := os.Open(filepath.Join(dir, "go.mod"))
	if err != nil {
		t.Fatalf("open go.mod: %v", err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if mp, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), "module "); ok {
			return dir, strings.TrimSpace(mp)
		}
	}
	t.Fatalf("module directive not found in %s/go.mod", dir)
	return "", ""
}
