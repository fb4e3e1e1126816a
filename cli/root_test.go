package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/morden35/spatula"
)

// execute runs the root command with the given arguments, capturing
// stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// TestNewRootCmd tests the command tree wiring.
func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	if cmd.Use != "spatula" {
		t.Errorf("unexpected use: %q", cmd.Use)
	}

	want := []string{"test", "scrape", "list", "version"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %q", name)
		}
	}
}

// TestVersionCmd tests the version output.
func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "spatula ") {
		t.Errorf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "commit") {
		t.Errorf("expected commit in output: %q", out)
	}
}

// TestListCmd tests registry listing.
func TestListCmd(t *testing.T) {
	spatula.Register("CLIListTestPage", func() *spatula.Page {
		return spatula.New("CLIListTestPage")
	})

	out, err := execute(t, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "clilisttestpage") {
		t.Errorf("expected registered page in output: %q", out)
	}
}

// TestTestCmd runs a registered page against a local server.
func TestTestCmd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["alpha", "beta", "gamma"]`))
	}))
	defer server.Close()

	spatula.Register("CLITestTestPage", func() *spatula.Page {
		return spatula.NewJSONListPage("CLITestTestPage")
	})

	t.Run("unknown page is an error", func(t *testing.T) {
		_, err := execute(t, "test", "no-such-page")
		if err == nil || !strings.Contains(err.Error(), "unknown page") {
			t.Fatalf("expected unknown page error, got %v", err)
		}
	})

	t.Run("runs the page and prints item lines", func(t *testing.T) {
		out, err := execute(t, "test", "CLITestTestPage", "--source", server.URL)
		if err != nil {
			t.Fatalf("test command failed: %v", err)
		}
		if !strings.Contains(out, `1: "alpha"`) {
			t.Errorf("expected first item line in output: %q", out)
		}
		if !strings.Contains(out, "CLITestTestPage: 3 items") {
			t.Errorf("expected summary line in output: %q", out)
		}
	})
}

// TestScrapeCmd follows pagination across a local server.
func TestScrapeCmd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/page/1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["a", "b"]`))
	})
	mux.HandleFunc("/page/2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["c"]`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	spatula.Register("CLIScrapeTestPage", func() *spatula.Page {
		return spatula.NewJSONListPage("CLIScrapeTestPage",
			spatula.WithNextSource(func(p *spatula.Page) spatula.Source {
				if src, ok := p.Source().(*spatula.URL); ok && strings.HasSuffix(src.URL, "/page/1") {
					return spatula.Literal(server.URL + "/page/2")
				}
				return nil
			}),
		)
	})

	t.Run("collects items across pages", func(t *testing.T) {
		out, err := execute(t, "scrape", "CLIScrapeTestPage", "--source", server.URL+"/page/1")
		if err != nil {
			t.Fatalf("scrape failed: %v", err)
		}
		for _, want := range []string{`"a"`, `"b"`, `"c"`, `"page": "CLIScrapeTestPage"`} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in report:\n%s", want, out)
			}
		}
	})

	t.Run("conflicting format flags are rejected", func(t *testing.T) {
		_, err := execute(t, "scrape", "CLIScrapeTestPage", "--json", "--markdown",
			"--source", server.URL+"/page/1")
		if err == nil || !strings.Contains(err.Error(), "conflicting report formats") {
			t.Fatalf("expected format conflict error, got %v", err)
		}
	})
}
