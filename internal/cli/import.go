package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/nah-machine/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the persisted state from JSON",
		Long:  "Replace the whole state from JSON (stdin or file). Expects the format produced by export.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitErr("read input", err)
	}

	st, err := store.Unmarshal(data)
	if err != nil {
		exitErr("parse json", err)
	}
	st.IsLoading = false

	a := openApp(cmd)
	defer a.Close()

	st = a.store.Restore(st)
	fmt.Printf(`{"ok":true,"liked":%d,"saved":%d,"recent":%d}`+"\n", len(st.Liked), len(st.Saved), len(st.Recent))
}
