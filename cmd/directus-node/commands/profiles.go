package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/directus-community/directus-node/internal/ui"
	"github.com/directus-community/directus-node/internal/validation"
	"github.com/directus-community/directus-node/pkg/types"
)

var (
	addURL   string
	addToken string
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage stored credential profiles",
}

var profilesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a credential profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		validator := validation.NewValidator()
		if err := validator.ValidateProfileName(name); err != nil {
			return err
		}
		if err := validator.ValidateBaseURL(addURL); err != nil {
			return err
		}
		token := validator.SanitizeToken(addToken)
		if token == "" {
			return fmt.Errorf("token cannot be empty")
		}

		store, err := openProfileStore()
		if err != nil {
			return err
		}
		if err := store.Create(name, types.Credentials{URL: addURL, Token: token}); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Profile %q saved.\n", name)
		return nil
	},
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List credential profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openProfileStore()
		if err != nil {
			return err
		}
		names := store.List()
		if len(names) == 0 {
			fmt.Fprintln(os.Stderr, "No profiles stored.")
			return nil
		}
		for _, name := range names {
			p, err := store.Get(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "%s\t%s\n", name, p.Credentials.URL)
		}
		return nil
	},
}

var profilesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a credential profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		confirmer := ui.NewConfirmer()
		if !confirmer.Confirm(fmt.Sprintf("Delete profile %q?", name)) {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return nil
		}
		store, err := openProfileStore()
		if err != nil {
			return err
		}
		if err := store.Delete(name); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Profile %q deleted.\n", name)
		return nil
	},
}

func init() {
	profilesAddCmd.Flags().StringVar(&addURL, "add-url", "", "Directus instance URL")
	profilesAddCmd.Flags().StringVar(&addToken, "add-token", "", "Directus access token")
	_ = profilesAddCmd.MarkFlagRequired("add-url")
	_ = profilesAddCmd.MarkFlagRequired("add-token")

	profilesCmd.AddCommand(profilesAddCmd)
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesDeleteCmd)
	rootCmd.AddCommand(profilesCmd)
}
