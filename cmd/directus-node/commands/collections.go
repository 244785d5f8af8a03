package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/directus-community/directus-node/internal/schema"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List the collections visible to the token",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client, logger, err := newClient(cfg)
		if err != nil {
			return err
		}
		defer logger.Close()

		svc := schema.NewService(client, nil)
		collections, err := svc.Collections(cmd.Context())
		if err != nil {
			return err
		}
		for _, c := range collections {
			kind := "folder"
			if c.HasSchema() {
				kind = "table"
			}
			fmt.Fprintf(os.Stdout, "%s\t%s\n", c.Collection, kind)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectionsCmd)
}
