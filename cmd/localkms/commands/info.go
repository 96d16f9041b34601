package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show store path, format and version counter",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			count, err := w.Count()
			if err != nil {
				return err
			}
			present, err := w.Len()
			if err != nil {
				return err
			}

			fmt.Printf("Path:     %s\n", w.Path())
			fmt.Printf("Format:   %s\n", cfg.Format)
			fmt.Printf("Counter:  %d\n", count)
			fmt.Printf("Present:  %d\n", present)
			return nil
		},
	}
}
