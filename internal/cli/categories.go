package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the catalog categories",
		Args:  cobra.NoArgs,
		Run:   runCategories,
	}

	RootCmd.AddCommand(cmd)
}

func runCategories(cmd *cobra.Command, args []string) {
	names := openCatalog(loadConfig()).ListCategories()
	if textOutput() {
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}
	printJSON(map[string]any{"categories": names})
}
