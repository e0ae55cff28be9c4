// Command extract runs the shift extraction pipeline over a saved HTML file
// and prints the records it finds. Handy for debugging portal page layouts:
// save a page with curl or the raw endpoint, then point this tool at it.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/shiftmatch/shiftmatch-server/internal/domain"
	"github.com/shiftmatch/shiftmatch-server/internal/shifts"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <page.html>\n", os.Args[0])
		os.Exit(2)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("Failed to read page: %v", err)
	}

	baseOrigin := os.Getenv("PORTAL_URL")
	if baseOrigin == "" {
		baseOrigin = "https://members.foodcoop.com"
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	extractor := shifts.NewExtractor(baseOrigin, domain.DefaultCommittees, logger)

	records, err := extractor.Extract(string(raw))
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode records: %v", err)
	}

	fmt.Println(string(out))
	fmt.Fprintf(os.Stderr, "%d shifts extracted\n", len(records))
}
