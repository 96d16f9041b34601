package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"localkms/internal/domain"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all stored versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			type row struct {
				version uint64
				created uint64
				size    int
			}
			var rows []row
			err = w.Range(func(version uint64, key domain.Key) bool {
				rows = append(rows, row{version: version, created: key.Created(), size: key.Len()})
				return true
			})
			if err != nil {
				return err
			}
			sort.Slice(rows, func(i, j int) bool { return rows[i].version < rows[j].version })

			header := color.New(color.Bold)
			header.Printf("%-10s %-20s %s\n", "VERSION", "CREATED", "BYTES")
			for _, r := range rows {
				fmt.Printf("%-10d %-20s %d\n",
					r.version,
					time.Unix(int64(r.created), 0).UTC().Format(time.RFC3339),
					r.size,
				)
			}
			return nil
		},
	}
}
