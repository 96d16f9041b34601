package commands

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"localkms/internal/domain"
)

func getCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "get <version>",
		Short: "Print the key stored under a version",
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

			vk, err := w.GetVersioned(version)
			if err != nil {
				return err
			}
			return printKey(vk, raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "write the raw payload to stdout")
	return cmd
}

func latestCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Print the key with the highest present version",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, cleanup, err := openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			vk, err := w.LatestVersioned()
			if err != nil {
				return err
			}
			return printKey(vk, raw)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "write the raw payload to stdout")
	return cmd
}

func printKey(vk domain.VersionedKey, raw bool) error {
	if raw {
		_, err := os.Stdout.Write(vk.Key.Data())
		return err
	}
	fmt.Printf("Version: %d\nCreated: %d\nData:    %s\n",
		vk.Version, vk.Key.Created(), hex.EncodeToString(vk.Key.Data()))
	return nil
}
