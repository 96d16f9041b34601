package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <version>",
		Short: "Remove a version (the identifier is retired, never reused)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}

			w, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := w.Drop(version); err != nil {
				return err
			}
			if err := w.Save(); err != nil {
				return err
			}
			fmt.Printf("Dropped version %d\n", version)
			return nil
		},
	}
}
