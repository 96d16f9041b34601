package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"localkms/internal/domain"
)

func addCmd() *cobra.Command {
	var (
		random  int
		created uint64
	)

	cmd := &cobra.Command{
		Use:   "add [data]",
		Short: "Insert key material under the next version",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var builder *domain.KeyBuilder
			switch {
			case random > 0 && len(args) > 0:
				return fmt.Errorf("pass either data or --random, not both")
			case random > 0:
				b, err := domain.RandomKeyBuilder(random)
				if err != nil {
					return err
				}
				builder = b
			case len(args) == 1:
				builder = domain.NewKeyBuilder([]byte(args[0]))
			default:
				return fmt.Errorf("data argument or --random required")
			}
			if cmd.Flags().Changed("created") {
				builder.SetCreated(created)
			}

			w, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			version, err := w.Update(builder.Build())
			if err != nil {
				return err
			}
			if err := w.Save(); err != nil {
				return err
			}
			fmt.Printf("Stored as version %d\n", version)
			return nil
		},
	}

	cmd.Flags().IntVar(&random, "random", 0, "generate N random bytes instead of reading data")
	cmd.Flags().Uint64Var(&created, "created", 0, "override the creation timestamp (unix seconds)")
	return cmd
}
