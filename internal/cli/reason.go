package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/nah-machine/internal/machine"
)

func init() {
	reasonCmd := &cobra.Command{
		Use:   "reason",
		Short: "Fetch a new reason and make it current",
		Long:  "Fetch a fresh reason from the configured source, make it the current reason and record it in recent.",
		Args:  cobra.NoArgs,
		Run:   runReason,
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a reason in the style of your favorites",
		Long:  "Ask Gemini for a new reason modelled on your liked and saved reasons. Requires GEMINI_API_KEY.",
		Args:  cobra.NoArgs,
		Run:   runGenerate,
	}

	RootCmd.AddCommand(reasonCmd, generateCmd)
}

func runReason(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	printOutcome(a.machine.Refresh(cmd.Context()))
}

func runGenerate(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	printOutcome(a.machine.Generate(cmd.Context()))
}

func printOutcome(out machine.Outcome) {
	if textOutput() {
		fmt.Println(out.Text)
		return
	}
	printJSON(out)
}
