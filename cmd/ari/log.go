package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joss/ari/internal/memory"
)

func logCmd() *cobra.Command {
	var (
		userID       string
		responseType string
		failed       bool
		mood         string
		features     bool
	)

	cmd := &cobra.Command{
		Use:   "log <user-input> <response>",
		Short: "Record a conversation turn",
		Long: `Record one user-input/response exchange into the memory directory.

Each invocation starts a session lazily, records the turn, and flushes
to disk, so the turn lands in the session index and its transcript.`,
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			m, _ := openMemory()

			if userID != "" {
				m.StartNewSession(userID)
			}

			opts := []memory.TurnOption{
				memory.WithResponseType(responseType),
				memory.WithSuccess(!failed),
			}
			if mood != "" {
				opts = append(opts, memory.WithMood(mood))
			}

			turn := m.AddConversationTurn(args[0], args[1], opts...)
			if err := m.SavePersistent(); err != nil {
				fatalError(err)
			}

			fmt.Printf("Recorded turn #%d in session %s\n", turn.Position, m.ActiveSessionID())
			if features {
				fmt.Print(newRenderer().Features(m.ResponseFeatures()))
			}
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "start the session for this user (default lazy default_user)")
	cmd.Flags().StringVarP(&responseType, "type", "t", "unknown", "response type label")
	cmd.Flags().BoolVar(&failed, "failed", false, "mark the exchange as unsuccessful")
	cmd.Flags().StringVar(&mood, "mood", "", "record a mood indicator on the session")
	cmd.Flags().BoolVar(&features, "features", false, "print the response-generation features after recording")
	return cmd
}
