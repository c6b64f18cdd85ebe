package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"civicbudget/internal/phase"
	"civicbudget/internal/services"
)

var phaseCmd = &cobra.Command{
	Use:   "phase",
	Short: "Move a budget between phases",
}

var phaseAdvanceCmd = &cobra.Command{
	Use:   "advance <budget>",
	Short: "Advance a budget to its next enabled phase",
	Args:  cobra.ExactArgs(1),
	RunE:  runPhaseAdvance,
}

var phaseSetCmd = &cobra.Command{
	Use:   "set <budget> <phase>",
	Short: "Set a budget's phase",
	Args:  cobra.ExactArgs(2),
	RunE:  runPhaseSet,
}

func init() {
	phaseCmd.AddCommand(phaseAdvanceCmd, phaseSetCmd)
	rootCmd.AddCommand(phaseCmd)
}

func phaseService(env *environment) services.PhaseServicer {
	return services.NewPhaseService(env.db, services.NewAuditService(env.db))
}

func runPhaseAdvance(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	budget, err := phaseService(env).Advance(cliActor(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", budget.Slug, budget.Phase)
	return nil
}

func runPhaseSet(cmd *cobra.Command, args []string) error {
	kind := phase.Kind(args[1])
	if !phase.Valid(kind) {
		return fmt.Errorf("unknown phase %q", args[1])
	}

	env, err := openEnvironment()
	if err != nil {
		return err
	}
	budget, err := phaseService(env).SetPhase(cliActor(), args[0], kind)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", budget.Slug, budget.Phase)
	return nil
}
