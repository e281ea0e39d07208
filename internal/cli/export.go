package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/nah-machine/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the persisted state as JSON",
		Long:  "Print the state in its checkpoint format ({\"state\":{...},\"version\":0}). Feed it back with import.",
		Args:  cobra.NoArgs,
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	b, err := store.Marshal(a.store.Snapshot())
	if err != nil {
		exitErr("export", err)
	}
	fmt.Println(string(b))
}
