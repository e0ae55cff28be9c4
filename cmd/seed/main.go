// Command seed populates the database with sample subscribers for local
// development. Stored passwords go through the same sealing path the API
// uses, so a seeded database works with the digest job against a test portal.
package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shiftmatch/shiftmatch-server/internal/auth"
	"github.com/shiftmatch/shiftmatch-server/internal/domain"
	"github.com/shiftmatch/shiftmatch-server/internal/id"
	"github.com/shiftmatch/shiftmatch-server/internal/store"
)

var seedSubscribers = []struct {
	email    string
	member   string
	password string
	prefs    domain.Preferences
}{
	{
		email:    "alex@example.com",
		member:   "10001",
		password: "seed-password",
		prefs: domain.Preferences{
			Days:       []string{"Monday", "Wednesday"},
			Times:      []string{"Morning"},
			Committees: []string{"Checkout", "Stocking"},
		},
	},
	{
		email:    "sam@example.com",
		member:   "10002",
		password: "seed-password",
		prefs: domain.Preferences{
			Days:               []string{"Saturday", "Sunday"},
			Times:              []string{"Afternoon", "Evening"},
			Committees:         []string{"Receiving"},
			ExcludedCommittees: []string{"Childcare"},
		},
	},
	{
		email:    "jo@example.com",
		member:   "10003",
		password: "seed-password",
		prefs: domain.Preferences{
			Committees: []string{"Produce", "Food Processing", "Inventory"},
		},
	},
}

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/ShiftMatch/data")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(filepath.Join(dataPath, "db"), logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	key, err := auth.LoadOrGenerateKey(dataPath)
	if err != nil {
		log.Fatalf("Failed to load seal key: %v", err)
	}
	sealer, err := auth.NewSealer(key)
	if err != nil {
		log.Fatalf("Failed to create sealer: %v", err)
	}

	ctx := context.Background()
	now := time.Now().UTC()
	created := 0

	for _, s := range seedSubscribers {
		if existing, err := st.GetSubscriberByEmail(ctx, s.email); err == nil {
			log.Printf("Skipping %s, already exists as %s", s.email, existing.ID)
			continue
		}

		sealed, err := sealer.Seal(s.password)
		if err != nil {
			log.Fatalf("Failed to seal password for %s: %v", s.email, err)
		}

		subID, err := id.Generate("sub")
		if err != nil {
			log.Fatalf("Failed to generate ID: %v", err)
		}

		sub := &domain.Subscriber{
			ID:             subID,
			Email:          s.email,
			MemberNumber:   s.member,
			PortalPassword: sealed,
			Preferences:    s.prefs,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := st.Subscribers.Create(ctx, subID, sub); err != nil {
			log.Fatalf("Failed to create %s: %v", s.email, err)
		}

		log.Printf("Created %s (%s)", s.email, subID)
		created++
	}

	log.Printf("Done, %d subscribers created", created)
}
