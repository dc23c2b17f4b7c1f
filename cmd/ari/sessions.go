package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func sessionsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List known sessions",
		Run: func(cmd *cobra.Command, args []string) {
			m, _ := openMemory()
			sessions := m.KnownSessions()
			if asJSON {
				printJSON(sessions)
				return
			}
			fmt.Print(newRenderer().Sessions(sessions))
		},
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "output as JSON")

	showCmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Print a session's transcript",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			_, st := openMemory()
			turns, err := st.LoadTranscript(args[0])
			if err != nil {
				fatalError(err)
			}
			if asJSON {
				printJSON(turns)
				return
			}
			fmt.Print(newRenderer().Turns(turns))
		},
	}
	cmd.AddCommand(showCmd)

	return cmd
}
