package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ayusman/mudra/internal/input"
)

// actionsCmd manages gesture-action bindings.
func actionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actions",
		Short: "manage gesture-action bindings",
	}
	cmd.AddCommand(actionsListCmd(), actionsSetCmd(), actionsDeleteCmd())
	return cmd
}

func actionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list gesture-action bindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			actions, err := st.Actions().List()
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Gesture", "Kind", "Target", "Continuous", "Enabled"})
			for _, a := range actions {
				table.Append([]string{
					a.Gesture,
					string(a.Kind),
					actionTarget(a),
					strconv.FormatBool(a.Continuous),
					strconv.FormatBool(a.Enabled),
				})
			}
			table.Render()
			return nil
		},
	}
}

func actionsSetCmd() *cobra.Command {
	var act input.Action
	var kind string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "create or replace a gesture-action binding",
		RunE: func(cmd *cobra.Command, args []string) error {
			act.Kind = input.Kind(kind)
			if err := act.Validate(); err != nil {
				return err
			}

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			return st.Actions().Upsert(act)
		},
	}
	cmd.Flags().StringVar(&act.Gesture, "gesture", "", "gesture label")
	cmd.Flags().StringVar(&kind, "kind", "", "action kind: key, click, mouse_move or command")
	cmd.Flags().StringVar(&act.Key, "key", "", "key name for kind=key")
	cmd.Flags().StringVar(&act.Button, "button", "", "mouse button for kind=click")
	cmd.Flags().IntVar(&act.DX, "dx", 0, "horizontal cursor delta for kind=mouse_move")
	cmd.Flags().IntVar(&act.DY, "dy", 0, "vertical cursor delta for kind=mouse_move")
	cmd.Flags().StringVar(&act.Command, "command", "", "executable path for kind=command")
	cmd.Flags().BoolVar(&act.Continuous, "continuous", false, "re-dispatch every frame while active")
	cmd.Flags().BoolVar(&act.Enabled, "enabled", true, "binding is active")
	cmd.MarkFlagRequired("gesture")
	cmd.MarkFlagRequired("kind")
	return cmd
}

func actionsDeleteCmd() *cobra.Command {
	var gesture string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "delete a gesture-action binding",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			return st.Actions().Delete(gesture)
		},
	}
	cmd.Flags().StringVar(&gesture, "gesture", "", "gesture label")
	cmd.MarkFlagRequired("gesture")
	return cmd
}

// runsCmd lists recorded training runs.
func runsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "list training-run history",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.Runs().List()
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"When", "Family", "Accuracy", "Dataset"})
			for _, r := range runs {
				table.Append([]string{
					r.CreatedAt.Format("2006-01-02 15:04:05"),
					r.Family,
					fmt.Sprintf("%.3f", r.Accuracy),
					r.DatasetPath,
				})
			}
			table.Render()
			return nil
		},
	}
}

func actionTarget(a input.Action) string {
	switch a.Kind {
	case input.KindKey:
		return a.Key
	case input.KindClick:
		return a.Button
	case input.KindMouseMove:
		return fmt.Sprintf("(%d,%d)", a.DX, a.DY)
	case input.KindCommand:
		return a.Command
	default:
		return ""
	}
}
