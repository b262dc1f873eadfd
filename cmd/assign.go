package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fleetyard/dispatchboard/app"
	"github.com/fleetyard/dispatchboard/config"
)

var (
	assignWeek string
)

var assignCmd = &cobra.Command{
	Use:   "assign <order-id> <truck-id> <date>",
	Short: "Assign one order to a truck and delivery date",
	Args:  cobra.ExactArgs(3),
	RunE:  runAssign,
}

func init() {
	assignCmd.Flags().StringVar(&assignWeek, "week", "", "reference date for the planning week (ISO, defaults to today)")
	rootCmd.AddCommand(assignCmd)
}

func runAssign(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	ref := time.Now()
	if assignWeek != "" {
		if ref, err = time.Parse("2006-01-02", assignWeek); err != nil {
			return fmt.Errorf("invalid --week date: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := svc.Board.Refresh(ctx, ref, ""); err != nil {
		return err
	}
	if err := svc.Board.Assign(ctx, args[0], args[1], args[2]); err != nil {
		return err
	}
	fmt.Printf("order %s assigned to truck %s on %s\n", args[0], args[1], args[2])
	return nil
}
