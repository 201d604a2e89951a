package main

import (
	"consultoria-tcp/repositories"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "", "Key prefix to scan, e.g. chat:00000000000000000042:")
	limit := flag.Int("limit", 200, "Maximum number of rows")
	raw := flag.Bool("raw", false, "Print full records instead of a table")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Expires", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	rows := 0
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes) && rows < *limit; it.Next() {
			item := it.Item()
			key := string(item.Key())
			// Sequence leases are internal counters.
			if strings.HasPrefix(key, "seq:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				detail := repositories.RenderRecord(v)
				if *raw {
					fmt.Printf("%s\n%s\n\n", key, detail)
					return nil
				}
				expires := "-"
				if item.ExpiresAt() > 0 {
					expires = fmt.Sprintf("%d", item.ExpiresAt())
				}
				table.Append([]string{key, recordType(key), expires, compact(detail, 120)})
				return nil
			})
			if err != nil {
				return err
			}
			rows++
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	if !*raw {
		table.Render()
	}
	fmt.Printf("%d record(s)\n", rows)
}

func recordType(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) >= 2 && parts[0] == "user" && parts[1] == "email" {
		return "USER_EMAIL"
	}
	return strings.ToUpper(parts[0])
}

// compact folds a multi-line record onto one line of at most width runes.
func compact(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)

	return badger.Open(opts)
}
