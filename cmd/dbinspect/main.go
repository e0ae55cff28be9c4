// Command dbinspect dumps a summary of the ShiftMatch database: subscriber
// records and cached raw portal pages. It opens the database read-only so it
// is safe to run against a live server's data directory.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/shiftmatch/shiftmatch-server/internal/domain"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/ShiftMatch/data/db")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Database Inspection ===")
	fmt.Println()

	subscriberCount := 0
	rawPageCount := 0
	rawPageBytes := 0

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())

			switch {
			case strings.HasPrefix(key, "subscriber:idx:"):
				// Index entries, skip

			case strings.HasPrefix(key, "subscriber:"):
				err := item.Value(func(val []byte) error {
					var sub domain.Subscriber
					if err := json.Unmarshal(val, &sub); err != nil {
						return err
					}

					subscriberCount++
					if subscriberCount <= 5 {
						fmt.Printf("Subscriber: %s\n", sub.Email)
						fmt.Printf("  ID: %s\n", sub.ID)
						fmt.Printf("  Member: %s\n", sub.MemberNumber)
						fmt.Printf("  Days: %v\n", sub.Preferences.Days)
						fmt.Printf("  Committees: %v\n", sub.Preferences.Committees)
						fmt.Printf("  Updated: %s\n", sub.UpdatedAt.Format("2006-01-02 15:04"))
						fmt.Println()
					}
					return nil
				})
				if err != nil {
					fmt.Printf("  (unreadable record at %s: %v)\n", key, err)
				}

			case strings.HasPrefix(key, "rawhtml:"):
				rawPageCount++
				rawPageBytes += int(item.ValueSize())
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to scan database: %v", err)
	}

	if subscriberCount > 5 {
		fmt.Printf("... and %d more subscribers\n\n", subscriberCount-5)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Subscribers:      %d\n", subscriberCount)
	fmt.Printf("Cached raw pages: %d (%d bytes)\n", rawPageCount, rawPageBytes)
}
