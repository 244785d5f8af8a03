package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/directus-community/directus-node/internal/schema"
)

var fieldsCreate bool

var fieldsCmd = &cobra.Command{
	Use:   "fields <collection>",
	Short: "Preview the projected field list of a collection",
	Long: `Shows the editable fields a workflow host would render for the given
collection: display label, editor kind, choice options, and help text.
With --create, required fields carry their marker.`,
	Args: cobra.ExactArgs(1),
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
		fields, err := svc.ProjectedFields(cmd.Context(), args[0], fieldsCreate)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FIELD\tLABEL\tKIND\tHELP")
		for _, f := range fields {
			help := strings.ReplaceAll(f.Description, "\n", " ")
			if f.Kind == schema.KindOptions {
				values := make([]string, 0, len(f.Options))
				for _, o := range f.Options {
					values = append(values, o.Value)
				}
				help = strings.TrimSpace(help + " [" + strings.Join(values, ", ") + "]")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name, f.DisplayName, f.Kind, help)
		}
		return w.Flush()
	},
}

func init() {
	fieldsCmd.Flags().BoolVar(&fieldsCreate, "create", false, "project for the create operation (marks required fields)")
	rootCmd.AddCommand(fieldsCmd)
}
