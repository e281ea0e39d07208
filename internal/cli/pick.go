package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Pick reasons from the catalog without touching state",
		Long: `Pick one or more reasons straight from the built-in catalog.

Examples:
  nah-machine pick
  nah-machine pick --category sarcastic
  nah-machine pick --count 5`,
		Args: cobra.NoArgs,
		Run:  runPick,
	}

	cmd.Flags().StringP("category", "c", "", "Category to draw from (unknown names fall back to random)")
	cmd.Flags().IntP("count", "n", 0, "Number of distinct reasons (1-10)")

	RootCmd.AddCommand(cmd)
}

func runPick(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	count, _ := cmd.Flags().GetInt("count")

	cat := openCatalog(loadConfig())

	if cmd.Flags().Changed("count") {
		reasons := cat.PickMultiple(count)
		if textOutput() {
			for _, r := range reasons {
				fmt.Println(r)
			}
			return
		}
		printJSON(map[string]any{"messages": reasons, "count": len(reasons)})
		return
	}

	res, err := cat.PickCategorized(category)
	if err != nil {
		exitErr("pick", err)
	}
	if textOutput() {
		fmt.Println(res.Message)
		return
	}
	printJSON(res)
}
