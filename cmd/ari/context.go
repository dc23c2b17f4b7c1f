package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joss/ari/internal/memory"
)

func contextCmd() *cobra.Command {
	var length int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "context [session-id]",
		Short: "Show a session's conversation context",
		Long: `Show the recent turns, accumulated keywords and ranked topics for a
session. Defaults to the most recently active session.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			m, st := openMemory()

			var target *memory.Session
			if len(args) == 1 {
				for _, s := range m.KnownSessions() {
					if s.SessionID == args[0] {
						target = s
						break
					}
				}
				if target == nil {
					fatalError(fmt.Errorf("unknown session %s", args[0]))
				}
			} else if known := m.KnownSessions(); len(known) > 0 {
				target = known[0]
			}

			var turns []memory.ConversationTurn
			if target != nil {
				var err error
				turns, err = st.LoadTranscript(target.SessionID)
				if err != nil {
					fatalError(err)
				}
			}

			bundle := memory.ContextFromSession(target, turns, length)
			if asJSON {
				printJSON(bundle)
				return
			}
			fmt.Print(newRenderer().Context(bundle))
		},
	}
	cmd.Flags().IntVarP(&length, "length", "n", 10, "max recent turns")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
