package review

import (
	"fmt"
	"path/filepath"
	"strings"
)

const systemPrompt = `You are an expert code reviewer producing a professionally formatted markdown report.

Review the source code provided to you from three perspectives:

1. Security: look for serious security issues. Call out specific vulnerabilities in the code; don't resort to generalities. Provide before-and-after code snippets demonstrating how to apply fixes. If no security issues are found, explicitly state that.
2. Bugs: look for potential bugs. Call out specific bugs you find; don't resort to generalities. Provide before-and-after code snippets demonstrating fixes. If no bugs are found, explicitly state that.
3. Optimization: recommend ways to make the code faster, more efficient, and more readable. Call out specific issues; don't resort to generalities. Provide before-and-after code snippets. If no optimizations are recommended, explicitly state that.

Format the report as markdown. Start with a one-paragraph summary of the findings across all three perspectives, then one section per perspective, complete with code snippets.`

// SystemPrompt returns the reviewer persona sent with every request.
func SystemPrompt() string {
	return systemPrompt
}

// BuildPrompt constructs the user prompt for one source file.
func BuildPrompt(path, content string) string {
	var b strings.Builder

	b.WriteString("Review the following source code")
	if lang := detectLanguage(path); lang != "" {
		fmt.Fprintf(&b, " (%s, from %s)", lang, path)
	} else if path != "" {
		fmt.Fprintf(&b, " (from %s)", path)
	}
	b.WriteString(".\n\n")

	b.WriteString("[START SOURCE CODE]\n")
	b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("[END SOURCE CODE]\n")

	return b.String()
}

func detectLanguage(path string) string {
	langMap := map[string]string{
		".go":   "Go",
		".py":   "Python",
		".js":   "JavaScript",
		".ts":   "TypeScript",
		".tsx":  "TypeScript/React",
		".jsx":  "JavaScript/React",
		".rs":   "Rust",
		".java": "Java",
		".rb":   "Ruby",
		".cpp":  "C++",
		".c":    "C",
		".cs":   "C#",
		".php":  "PHP",
		".sql":  "SQL",
		".sh":   "Shell",
	}
	return langMap[filepath.Ext(path)]
}
