package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/nah-machine/internal/model"
	"github.com/rcliao/nah-machine/internal/store"
)

var errNoCurrent = errors.New("no current reason; pass the text or run `nah-machine reason` first")

func init() {
	likeCmd := &cobra.Command{
		Use:   "like [text]",
		Short: "Like a reason (toggles the current reason when no text is given)",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runMark(cmd, args, (*store.Store).AddToLiked, model.Liked)
		},
	}
	unlikeCmd := &cobra.Command{
		Use:   "unlike [text]",
		Short: "Remove a reason from liked",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runUnmark(cmd, args, (*store.Store).RemoveFromLiked)
		},
	}
	saveCmd := &cobra.Command{
		Use:   "save [text]",
		Short: "Save a reason (toggles the current reason when no text is given)",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runMark(cmd, args, (*store.Store).AddToSaved, model.Saved)
		},
	}
	unsaveCmd := &cobra.Command{
		Use:   "unsave [text]",
		Short: "Remove a reason from saved",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runUnmark(cmd, args, (*store.Store).RemoveFromSaved)
		},
	}

	listCmd := &cobra.Command{
		Use:       "list <liked|saved|recent>",
		Short:     "List a collection, newest first",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"liked", "saved", "recent"},
		Run:       runList,
	}

	recentCmd := &cobra.Command{
		Use:   "recent",
		Short: "Show or clear recently seen reasons",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runList(cmd, []string{string(model.Recent)})
		},
	}
	recentCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Empty the recent collection",
		Args:  cobra.NoArgs,
		Run:   runRecentClear,
	})

	RootCmd.AddCommand(likeCmd, unlikeCmd, saveCmd, unsaveCmd, listCmd, recentCmd)
}

type markOutput struct {
	Text  string      `json:"text"`
	On    bool        `json:"on"`
	State model.State `json:"state"`
}

// runMark adds the given text, or toggles the current reason when no text is given.
func runMark(cmd *cobra.Command, args []string, add func(*store.Store, string) model.State, c model.Collection) {
	a := openApp(cmd)
	defer a.Close()

	if text := textArg(args); text != "" {
		printJSON(markOutput{Text: text, On: true, State: add(a.store, text)})
		return
	}

	current := a.store.Snapshot().CurrentReason
	if current == "" {
		exitErr(string(c), errNoCurrent)
	}
	var (
		st model.State
		on bool
	)
	if c == model.Liked {
		st, on = a.machine.ToggleLike()
	} else {
		st, on = a.machine.ToggleSave()
	}
	printJSON(markOutput{Text: current, On: on, State: st})
}

func runUnmark(cmd *cobra.Command, args []string, remove func(*store.Store, string) model.State) {
	a := openApp(cmd)
	defer a.Close()

	text := textArg(args)
	if text == "" {
		text = a.store.Snapshot().CurrentReason
	}
	if text == "" {
		exitErr("remove", errNoCurrent)
	}
	printJSON(markOutput{Text: text, On: false, State: remove(a.store, text)})
}

func runList(cmd *cobra.Command, args []string) {
	c, err := model.ParseCollection(args[0])
	if err != nil {
		exitErr("list", err)
	}

	a := openApp(cmd)
	defer a.Close()

	items := a.store.Snapshot().Items(c)
	if textOutput() {
		for _, r := range items {
			fmt.Println(r.Text)
		}
		return
	}
	printJSON(items)
}

func runRecentClear(cmd *cobra.Command, args []string) {
	a := openApp(cmd)
	defer a.Close()

	a.store.ClearRecent()
	fmt.Println(`{"ok":true}`)
}

func textArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return strings.TrimSpace(args[0])
}
