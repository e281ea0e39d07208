package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/nah-machine/internal/catalog"
	"github.com/rcliao/nah-machine/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog and collection statistics",
		Args:  cobra.NoArgs,
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

type statsOutput struct {
	Catalog catalog.Stats `json:"catalog"`
	Store   *store.Stats  `json:"store"`
}

func runStats(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	st, err := a.store.Stats(cmd.Context())
	if err != nil {
		exitErr("stats", err)
	}
	printJSON(statsOutput{Catalog: a.catalog.Stats(), Store: st})
}
