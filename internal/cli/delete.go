package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	deleteForce bool
	clearForce  bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a memory",
	Long: `Delete a memory.

Requires confirmation unless --force is used.

Examples:
  secondbrain delete 3f2c...
  secondbrain delete 3f2c... --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every guest memory",
	Long: `Delete every memory in the local guest store.

Only available with --guest. Requires confirmation unless --force is used.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationMode: modeGuest},
	RunE:        runClear,
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip confirmation")
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "skip confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	m, err := store.GetMemory(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get memory %s: %w", args[0], err)
	}

	if !deleteForce {
		fmt.Fprintf(out, "About to delete: %s (%s)\n\n", m.Title, m.ID)
		ok, err := confirm(out, "Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	if err := store.DeleteMemory(ctx, m.ID); err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}

	fmt.Fprintf(out, "Deleted: %s\n", m.Title)
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	n, err := guest.CountMemories(ctx)
	if err != nil {
		return fmt.Errorf("count memories: %w", err)
	}
	if n == 0 {
		fmt.Fprintln(out, "Nothing to clear.")
		return nil
	}

	if !clearForce {
		ok, err := confirm(out, fmt.Sprintf("Delete all %d guest memories?", n))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	deleted, err := guest.Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear memories: %w", err)
	}
	fmt.Fprintf(out, "Deleted %d memories.\n", deleted)
	return nil
}
