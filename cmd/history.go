package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"mreg-cli/feature/history"

	"github.com/spf13/cobra"
)

// historyCmd is the parent command for the request journal.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, undo or redo recorded commands",
	Long: `Every mutating command is recorded as one event in the history
database. list shows the events with their requests, redo replays an event's
requests in their original order, and undo reverses them newest first:
created items are deleted, patches restore the previous state, deletions are
posted back.`,
}

// historyListCmd represents the history list command
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recorded events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, svc, err := historyService()
		if err != nil {
			return err
		}
		events, err := svc.Events(cmd.Context())
		if err != nil {
			return err
		}
		for _, event := range events {
			fmt.Println(event.String())
		}
		return nil
	},
}

// historyUndoCmd represents the history undo command
var historyUndoCmd = &cobra.Command{
	Use:   "undo <number>",
	Short: "Reverse the requests of an event, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := parseEventNumber(args[0])
		if err != nil {
			return err
		}
		_, svc, err := historyService()
		if err != nil {
			return err
		}
		if err := svc.Undo(cmd.Context(), number); err != nil {
			return err
		}
		fmt.Printf("undid event %d\n", number)
		return nil
	},
}

// historyRedoCmd represents the history redo command
var historyRedoCmd = &cobra.Command{
	Use:   "redo <number>",
	Short: "Replay the requests of an event in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		number, err := parseEventNumber(args[0])
		if err != nil {
			return err
		}
		_, svc, err := historyService()
		if err != nil {
			return err
		}
		if err := svc.Redo(cmd.Context(), number); err != nil {
			return err
		}
		fmt.Printf("redid event %d\n", number)
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd, historyUndoCmd, historyRedoCmd)
	RootCmd.AddCommand(historyCmd)
}

// historyService builds the history service. Unlike the other commands,
// these cannot run without the database.
func historyService() (*cmdEnv, *history.Service, error) {
	env, err := newEnv()
	if err != nil {
		return nil, nil, err
	}
	if env.store == nil {
		return nil, nil, errors.New("history requires a reachable database")
	}
	return env, history.NewService(env.store, env.client, env.log), nil
}

func parseEventNumber(s string) (uint, error) {
	number, err := strconv.ParseUint(s, 10, 32)
	if err != nil || number == 0 {
		return 0, fmt.Errorf("not a valid event number: %q", s)
	}
	return uint(number), nil
}
