package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show the current reason and collections",
		Args:  cobra.NoArgs,
		Run:   runState,
	}

	RootCmd.AddCommand(cmd)
}

func runState(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	st := a.store.Snapshot()
	if textOutput() {
		fmt.Println(st.CurrentReason)
		return
	}
	printJSON(st)
}
