package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/saffron-ledger/saffron/internal/config"
	"github.com/saffron-ledger/saffron/internal/model"
	"github.com/saffron-ledger/saffron/internal/rules"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect and validate the keyword rule table",
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesValidateCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories and their keyword rules",
		RunE: func(_ *cobra.Command, _ []string) error {
			table, err := activeTable()
			if err != nil {
				return err
			}

			categories := make([]string, 0, len(table))
			for category := range table {
				categories = append(categories, category)
			}
			sort.Strings(categories)

			for _, category := range categories {
				fmt.Println(category)
				for _, rule := range table[category] {
					fmt.Printf("  %+.2f  include=%v", rule.Weight, rule.Include)
					if len(rule.Exclude) > 0 {
						fmt.Printf(" exclude=%v", rule.Exclude)
					}
					fmt.Println()
				}
			}

			fmt.Println("\nAll categories:")
			for _, category := range model.Categories() {
				fmt.Printf("  %s\n", category)
			}
			return nil
		},
	}
}

func rulesValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the rule table without running anything",
		RunE: func(_ *cobra.Command, _ []string) error {
			table, err := activeTable()
			if err != nil {
				return err
			}
			if err := table.Validate(); err != nil {
				return err
			}

			total := 0
			for _, categoryRules := range table {
				total += len(categoryRules)
			}
			fmt.Printf("OK: %d rules across %d categories\n", total, len(table))
			return nil
		},
	}
}

func activeTable() (rules.Table, error) {
	if rulesFile := viper.GetString("rules.file"); rulesFile != "" {
		return rules.LoadTable(config.ExpandPath(rulesFile))
	}
	return rules.DefaultTable(), nil
}
