package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alpkeskin/gotoon"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/kilupskalvis/snip/internal/models"
)

// snippetSummary is the flat row used by --toon output
type snippetSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Languages string `json:"languages"`
	Tags      string `json:"tags"`
	Favorite  bool   `json:"favorite"`
	Versions  int    `json:"versions"`
	Updated   string `json:"updated"`
}

func summarize(list []models.Snippet) []snippetSummary {
	out := make([]snippetSummary, len(list))
	for i, sn := range list {
		out[i] = snippetSummary{
			ID:        sn.ShortID(),
			Title:     sn.Title,
			Languages: strings.Join(uniqueStrings(sn.Language), ","),
			Tags:      strings.Join(sn.Tags, ","),
			Favorite:  sn.Favorite,
			Versions:  len(sn.Versions),
			Updated:   time.UnixMilli(sn.UpdatedAt).UTC().Format(time.RFC3339),
		}
	}
	return out
}

// printSnippetLine prints the one-line form used by list
func printSnippetLine(sn *models.Snippet) {
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	magenta := color.New(color.FgMagenta)

	yellow.Printf("%s ", sn.ShortID())
	if sn.Favorite {
		yellow.Print("★ ")
	} else {
		fmt.Print("  ")
	}
	fmt.Print(sn.Title)
	if langs := uniqueStrings(sn.Language); len(langs) > 0 {
		cyan.Printf(" [%s]", strings.Join(langs, ", "))
	}
	for _, t := range sn.Tags {
		magenta.Printf(" #%s", t)
	}
	fmt.Println()
}

// relativeTime formats epoch milliseconds as "3 hours ago"
func relativeTime(ms int64) string {
	return humanize.Time(time.UnixMilli(ms))
}

func formatTime(ms int64) string {
	return time.UnixMilli(ms).Format("Mon Jan 2 15:04:05 2006")
}

func printJSON(v any) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		exitError("failed to marshal JSON: %v", err)
	}
	fmt.Println(string(output))
}

func printToon(v any) {
	output, err := gotoon.Encode(v)
	if err != nil {
		exitError("failed to encode Toon: %v", err)
	}
	fmt.Println(output)
}

// uniqueStrings drops repeats, keeping the first occurrence
func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
