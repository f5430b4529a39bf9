package export

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

// fileSection is one file's rendered contribution to the document.
type fileSection struct {
	Entry    FileEntry
	Lines    int
	Stripped bool
	Body     string // fenced code block, or a skip notice
	Skipped  bool
}

// attachmentSection is one remote document appended as an appendix.
type attachmentSection struct {
	Name    string
	URL     string
	Content string
	Failed  bool
}

//nolint:gochecknoglobals // Static extension lookup table.
var fenceLanguageByExtension = map[string]string{
	".ps1":   "powershell",
	".psm1":  "powershell",
	".psd1":  "powershell",
	".cs":    "csharp",
	".java":  "java",
	".js":    "javascript",
	".jsx":   "jsx",
	".ts":    "typescript",
	".tsx":   "tsx",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".cc":    "cpp",
	".go":    "go",
	".rs":    "rust",
	".swift": "swift",
	".kt":    "kotlin",
	".kts":   "kotlin",
	".dart":  "dart",
	".php":   "php",
	".rb":    "ruby",
	".css":   "css",
	".scss":  "scss",
	".less":  "less",
	".html":  "html",
	".htm":   "html",
	".xml":   "xml",
	".svg":   "xml",
	".sql":   "sql",
	".py":    "python",
	".sh":    "bash",
	".bash":  "bash",
	".json":  "json",
	".yml":   "yaml",
	".yaml":  "yaml",
	".toml":  "toml",
	".md":    "markdown",
	".ini":   "ini",
}

func fenceLanguage(relPath string) string {
	if lang, ok := fenceLanguageByExtension[strings.ToLower(path.Ext(relPath))]; ok {
		return lang
	}
	return "text"
}

// fenceFor returns a fence marker longer than any backtick run inside the
// content, so embedded markdown cannot terminate the block early.
func fenceFor(content string) string {
	longest := 0
	run := 0
	for _, r := range content {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}

	size := max(3, longest+1)
	return strings.Repeat("`", size)
}

// anchorFor converts a heading text to a GitHub-style anchor.
func anchorFor(heading string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(heading) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == ' ', r == '-':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// renderTree renders the selected files as an indented directory tree.
func renderTree(rootName string, entries []FileEntry) string {
	root := newTreeNode(rootName)
	for _, entry := range entries {
		root.insert(strings.Split(entry.RelPath, "/"))
	}

	var b strings.Builder
	b.WriteString(rootName + "/\n")
	root.render(&b, "")
	return strings.TrimRight(b.String(), "\n")
}

type treeNode struct {
	name     string
	isDir    bool
	children map[string]*treeNode
}

func newTreeNode(name string) *treeNode {
	return &treeNode{name: name, isDir: true, children: map[string]*treeNode{}}
}

func (n *treeNode) insert(parts []string) {
	if len(parts) == 0 {
		return
	}

	child, ok := n.children[parts[0]]
	if !ok {
		child = newTreeNode(parts[0])
		child.isDir = len(parts) > 1
		n.children[parts[0]] = child
	}
	if len(parts) > 1 {
		child.isDir = true
		child.insert(parts[1:])
	}
}

func (n *treeNode) render(b *strings.Builder, prefix string) {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		child := n.children[name]
		connector := "├── "
		childPrefix := prefix + "│   "
		if i == len(names)-1 {
			connector = "└── "
			childPrefix = prefix + "    "
		}

		label := child.name
		if child.isDir {
			label += "/"
		}

		b.WriteString(prefix + connector + label + "\n")
		child.render(b, childPrefix)
	}
}

// buildDocument assembles the raw export document: title, directory tree,
// table of contents, file sections, then attachment appendices. The result
// still goes through the markdown normalizer before being written.
func buildDocument(
	title string,
	rootName string,
	generatedAt time.Time,
	sections []fileSection,
	attachments []attachmentSection,
) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Generated by srcmd on %s.\n\n", generatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))

	entries := make([]FileEntry, 0, len(sections))
	for _, section := range sections {
		entries = append(entries, section.Entry)
	}

	b.WriteString("## Directory Tree\n\n")
	b.WriteString("```text\n")
	b.WriteString(renderTree(rootName, entries))
	b.WriteString("\n```\n\n")

	b.WriteString("## Table of Contents\n\n")
	for _, section := range sections {
		fmt.Fprintf(&b, "- [%s](#%s)\n", section.Entry.RelPath, anchorFor(section.Entry.RelPath))
	}
	b.WriteString("\n")

	for _, section := range sections {
		fmt.Fprintf(&b, "## %s\n\n", section.Entry.RelPath)
		writeSectionMeta(&b, section)
		b.WriteString(section.Body)
		b.WriteString("\n\n")
	}

	for _, attachment := range attachments {
		fmt.Fprintf(&b, "## Appendix: %s\n\n", attachment.Name)
		if attachment.Failed {
			fmt.Fprintf(&b, "_Skipped: attachment %s could not be fetched._\n\n", attachment.URL)
			continue
		}
		fmt.Fprintf(&b, "Fetched from %s.\n\n", attachment.URL)
		b.WriteString(strings.TrimRight(attachment.Content, "\n"))
		b.WriteString("\n\n")
	}

	return b.String()
}

func writeSectionMeta(b *strings.Builder, section fileSection) {
	if section.Skipped {
		return
	}

	meta := fmt.Sprintf("%d lines, %d bytes", section.Lines, section.Entry.Size)
	if section.Stripped {
		meta += ", comments stripped"
	}
	fmt.Fprintf(b, "_%s_\n\n", meta)
}

// renderFileBody produces the fenced code block for one file.
func renderFileBody(relPath string, content string, lineNumbers bool) string {
	content = strings.TrimRight(content, "\n")

	if lineNumbers {
		lines := strings.Split(content, "\n")
		for i, line := range lines {
			lines[i] = fmt.Sprintf("%4d  %s", i+1, line)
		}
		content = strings.Join(lines, "\n")
	}

	fence := fenceFor(content)
	return fence + fenceLanguage(relPath) + "\n" + content + "\n" + fence
}

func skipNotice(reason string) string {
	return fmt.Sprintf("_Skipped: %s._", reason)
}
