package export

import (
	"strings"
	"testing"
)

func TestRenderTree(t *testing.T) {
	entries := []FileEntry{
		{RelPath: "cmd/app/main.go"},
		{RelPath: "internal/util/util.go"},
		{RelPath: "README.md"},
	}

	got := renderTree("proj", entries)
	want := strings.Join([]string{
		"proj/",
		"├── README.md",
		"├── cmd/",
		"│   └── app/",
		"│       └── main.go",
		"└── internal/",
		"    └── util/",
		"        └── util.go",
	}, "\n")

	if got != want {
		t.Errorf("renderTree() =\n%s\nwant:\n%s", got, want)
	}
}

func TestAnchorFor(t *testing.T) {
	tests := []struct {
		heading string
		want    string
	}{
		{"src/main.go", "srcmaingo"},
		{"My Heading", "my-heading"},
		{"Already-Kebab", "already-kebab"},
		{"Mixed CASE 123", "mixed-case-123"},
		{"keep_test.go", "keep_testgo"},
		{"my_module.py", "my_modulepy"},
	}

	for _, tt := range tests {
		if got := anchorFor(tt.heading); got != tt.want {
			t.Errorf("anchorFor(%q) = %q, want %q", tt.heading, got, tt.want)
		}
	}
}

func TestFenceFor(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain code", "func main() {}", "```"},
		{"embedded fence", "```go\ncode\n```", "````"},
		{"longer embedded fence", "`````x", "``````"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fenceFor(tt.content); got != tt.want {
				t.Errorf("fenceFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFenceLanguage(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.go", "go"},
		{"script.PS1", "powershell"},
		{"style.scss", "scss"},
		{"unknown.zzz", "text"},
	}

	for _, tt := range tests {
		if got := fenceLanguage(tt.path); got != tt.want {
			t.Errorf("fenceLanguage(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestRenderFileBody_LineNumbers(t *testing.T) {
	body := renderFileBody("main.go", "package main\n\nfunc main() {}\n", true)

	if !strings.Contains(body, "   1  package main") {
		t.Errorf("missing numbered first line:\n%s", body)
	}
	if !strings.Contains(body, "   3  func main() {}") {
		t.Errorf("missing numbered third line:\n%s", body)
	}
	if !strings.HasPrefix(body, "```go\n") {
		t.Errorf("missing language tag:\n%s", body)
	}
}
