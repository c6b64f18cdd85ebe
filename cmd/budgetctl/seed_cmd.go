package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"civicbudget/internal/seed"
	"civicbudget/internal/services"
)

var flagSeedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load users, budgets, groups and headings from a YAML file",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&flagSeedFile, "file", "f", "seed.yaml", "Seed file")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	f, err := seed.Load(flagSeedFile)
	if err != nil {
		return err
	}

	env, err := openEnvironment()
	if err != nil {
		return err
	}

	res, err := seed.Apply(env.db, services.NewUserService(env.db), f)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d user(s), %d budget(s), %d group(s), %d heading(s)\n",
		res.Users, res.Budgets, res.Groups, res.Headings)
	return nil
}
