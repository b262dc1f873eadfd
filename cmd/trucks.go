package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fleetyard/dispatchboard/config"
	"github.com/fleetyard/dispatchboard/infra/provider"
)

var trucksCmd = &cobra.Command{
	Use:   "trucks",
	Short: "Truck roster commands",
}

var trucksLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the active truck roster",
	RunE:  runTrucksLs,
}

func init() {
	trucksCmd.AddCommand(trucksLsCmd)
	rootCmd.AddCommand(trucksCmd)
}

func runTrucksLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	prov, err := provider.New(cfg.Provider)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	trucks, err := prov.FetchTrucks(ctx)
	if err != nil {
		return err
	}
	for _, t := range trucks {
		fmt.Printf("%s\t%s\t%.0f kg\n", t.ID, t.Name, t.Capacity)
	}
	return nil
}
