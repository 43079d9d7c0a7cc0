package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hatchet-dev/console/internal/config"
	"github.com/hatchet-dev/console/pkg/modules"
	"github.com/hatchet-dev/console/pkg/routepath"
	"github.com/hatchet-dev/console/pkg/router"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{"no match", "R001", "No route matches the path", CategoryRouting},
		{"table", "R010", "Duplicate sibling route", CategoryTable},
		{"module", "M002", "Module not found", CategoryModule},
		{"unknown", "Z999", "Unknown error", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestConsoleError_Error(t *testing.T) {
	if got := New("R001").Error(); got != "R001: No route matches the path" {
		t.Errorf("Error() = %q", got)
	}
	cause := fmt.Errorf("boom")
	err := New("R004").Wrap(cause)
	if got := err.Error(); got != "R004: Route loader failed: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !stderrors.Is(err, cause) {
		t.Error("Unwrap does not expose the cause")
	}
	if got := Newf(CategoryCLI, "port %d in use", 80).Error(); got != "port 80 in use" {
		t.Errorf("Newf Error() = %q", got)
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantLoc  string
	}{
		{"no match", &router.NoMatchError{Path: "/x"}, "R001", "/x"},
		{"loop", &router.RedirectLoopError{Path: "/a", Hops: []string{"/b", "/a"}}, "R002", "/a"},
		{"module", &router.ModuleLoadError{RouteID: "root", Module: "pages/root", Err: fmt.Errorf("x")}, "R003", "route root"},
		{"module not in manifest", &router.ModuleLoadError{RouteID: "root", Module: "pages/root", Err: modules.ErrModuleNotFound}, "M002", "route root"},
		{"loader", &router.LoaderError{RouteID: "workflow", Path: "/workflows/a", Err: fmt.Errorf("x")}, "R004", "route workflow  /workflows/a"},
		{"render", &router.RenderError{RouteID: "p", Err: fmt.Errorf("x")}, "R005", "route p"},
		{"bad path", fmt.Errorf("resolve: %w", routepath.ErrPathEscapesRoot), "R006", ""},
		{"basename", fmt.Errorf("resolve: %w", routepath.ErrOutsideBase), "R007", ""},
		{"duplicate sibling", fmt.Errorf("route x: %w", router.ErrDuplicateSibling), "R010", ""},
		{"duplicate id", fmt.Errorf("route x: %w", router.ErrDuplicateID), "R015", ""},
		{"manifest", fmt.Errorf("read: %w", modules.ErrManifestNotFound), "M001", ""},
		{"export", fmt.Errorf("import: %w", modules.ErrExportNotFound), "M003", ""},
		{"missing capability", &router.ModuleLoadError{RouteID: "authenticated", Module: "pages/authenticated", Err: fmt.Errorf("%w: loader", router.ErrMissingCapability)}, "M004", "route authenticated"},
		{"config file", fmt.Errorf("%w: x", config.ErrInvalidFile), "C001", ""},
		{"config env", fmt.Errorf("%w: x", config.ErrInvalidEnv), "C003", ""},
		{"passthrough", New("X001"), "X001", ""},
		{"unknown", fmt.Errorf("something else"), "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", got.Code, tt.wantCode)
			}
			if loc := got.Location.String(); loc != tt.wantLoc {
				t.Errorf("Location = %q, want %q", loc, tt.wantLoc)
			}
		})
	}
	if FromError(nil) != nil {
		t.Error("FromError(nil) != nil")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("R004").Wrap(fmt.Errorf("api down")).WithLocation("workflow", "/workflows/abc")
	out := err.Format()
	for _, want := range []string{
		"ERROR R004: Route loader failed",
		"route workflow  /workflows/abc",
		"cause: api down",
		"Hint: Check the API",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}

	if got := err.FormatCompact(); got != "route workflow  /workflows/abc: R004: Route loader failed: api down" {
		t.Errorf("FormatCompact() = %q", got)
	}

	var j map[string]any
	if err := json.Unmarshal([]byte(err.FormatJSON()), &j); err != nil {
		t.Fatal(err)
	}
	if j["code"] != "R004" || j["route"] != "workflow" || j["cause"] != "api down" {
		t.Errorf("FormatJSON() = %v", j)
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	PrintError(&buf, fmt.Errorf("plain"))
	if !strings.Contains(buf.String(), "ERROR: plain") {
		t.Errorf("plain = %q", buf.String())
	}
	buf.Reset()
	PrintError(&buf, New("R001"))
	if !strings.Contains(buf.String(), "ERROR R001") {
		t.Errorf("coded = %q", buf.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line too long: %q", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should wrap to nil")
	}
}

func TestRegistry(t *testing.T) {
	for _, code := range Codes() {
		tmpl, ok := GetTemplate(code)
		if !ok || tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("%s: incomplete template %+v", code, tmpl)
		}
	}
	Register("Z001", ErrorTemplate{Category: CategoryCLI, Message: "custom"})
	if New("Z001").Message != "custom" {
		t.Error("Register did not take effect")
	}
}
