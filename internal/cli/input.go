package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kilupskalvis/snip/internal/models"
	"github.com/mattn/go-isatty"
)

// extLanguages maps file extensions to the language names shown in lists.
var extLanguages = map[string]string{
	".go":    "Go",
	".py":    "Python",
	".js":    "JavaScript",
	".mjs":   "JavaScript",
	".ts":    "TypeScript",
	".tsx":   "TypeScript",
	".jsx":   "JavaScript",
	".rs":    "Rust",
	".rb":    "Ruby",
	".java":  "Java",
	".kt":    "Kotlin",
	".c":     "C",
	".h":     "C",
	".cpp":   "C++",
	".cc":    "C++",
	".cs":    "C#",
	".php":   "PHP",
	".swift": "Swift",
	".sh":    "Bash",
	".bash":  "Bash",
	".zsh":   "Bash",
	".sql":   "SQL",
	".html":  "HTML",
	".css":   "CSS",
	".json":  "JSON",
	".yaml":  "YAML",
	".yml":   "YAML",
	".toml":  "TOML",
	".md":    "Markdown",
	".lua":   "Lua",
}

// languageForPath guesses a language from a file name
func languageForPath(path string) string {
	if lang, ok := extLanguages[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	if strings.EqualFold(filepath.Base(path), "Dockerfile") {
		return "Dockerfile"
	}
	return "Plain Text"
}

// readCodeBlocks builds code blocks from --file paths, or from stdin when no
// files are given and stdin is not a terminal. langs[i] names the language of
// the i-th block; missing entries are guessed from the extension.
func readCodeBlocks(files, langs []string, stdin io.Reader, stdinIsPipe bool) ([]models.CodeBlock, error) {
	var blocks []models.CodeBlock

	for i, path := range files {
		var data []byte
		var err error
		if path == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		lang := ""
		if i < len(langs) {
			lang = langs[i]
		}
		if lang == "" {
			lang = languageForPath(path)
		}
		blocks = append(blocks, models.CodeBlock{Language: lang, Code: string(data)})
	}

	if len(files) == 0 && stdinIsPipe {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		if len(data) > 0 {
			lang := "Plain Text"
			if len(langs) > 0 && langs[0] != "" {
				lang = langs[0]
			}
			blocks = append(blocks, models.CodeBlock{Language: lang, Code: string(data)})
		}
	}

	return blocks, nil
}

// stdinIsPipe reports whether stdin is redirected
func stdinIsPipe() bool {
	fd := os.Stdin.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// cleanTags trims tags and drops empty ones
func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		for _, part := range strings.Split(t, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
