package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledgersage/ledgersage/internal/coach"
	"github.com/ledgersage/ledgersage/internal/model"
)

func coachCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coach",
		Short: "Run a coaching session",
	}
	cmd.AddCommand(coachCheckinCmd())
	cmd.AddCommand(coachCrisisCmd())
	cmd.AddCommand(coachGoalsCmd())
	cmd.AddCommand(coachPurchaseCmd())
	return cmd
}

func coachCheckinCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Run the daily check-in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, func(p *pipeline) (*model.CoachingSession, model.Outcome, error) {
				return p.runner.Coach().DailyCheckin(cmd.Context(), userID)
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user to check in")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func coachCrisisCmd() *cobra.Command {
	var (
		userID string
		amount float64
	)

	cmd := &cobra.Command{
		Use:   "crisis",
		Short: "Run a crisis intervention session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, func(p *pipeline) (*model.CoachingSession, model.Outcome, error) {
				return p.runner.Coach().CrisisIntervention(cmd.Context(), userID, amount)
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user in crisis")
	cmd.Flags().Float64Var(&amount, "amount", 0, "amount of the triggering spend")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func coachGoalsCmd() *cobra.Command {
	var (
		userID    string
		goalSpecs []string
	)

	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Review progress against financial goals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			goals, err := parseGoals(goalSpecs)
			if err != nil {
				return err
			}
			return runSession(cmd, func(p *pipeline) (*model.CoachingSession, model.Outcome, error) {
				return p.runner.Coach().GoalReview(cmd.Context(), userID, goals)
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user whose goals to review")
	cmd.Flags().StringArrayVar(&goalSpecs, "goal", nil, "goal as name:target:current (repeatable)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func coachPurchaseCmd() *cobra.Command {
	var (
		userID, category, feeling string
		amount                    float64
	)

	cmd := &cobra.Command{
		Use:   "purchase",
		Short: "Get guidance on a purchase being considered",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSession(cmd, func(p *pipeline) (*model.CoachingSession, model.Outcome, error) {
				return p.runner.Coach().PurchaseGuidance(cmd.Context(), userID, amount, category, feeling)
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user considering the purchase")
	cmd.Flags().Float64Var(&amount, "amount", 0, "purchase amount")
	cmd.Flags().StringVar(&category, "category", "", "purchase category")
	cmd.Flags().StringVar(&feeling, "feeling", "", "current emotional state")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func runSession(cmd *cobra.Command, run func(*pipeline) (*model.CoachingSession, model.Outcome, error)) error {
	p, err := initPipeline(cmd.Context())
	if err != nil {
		return err
	}
	defer p.Close()

	session, _, err := run(p)
	if err != nil {
		return err
	}
	fmt.Println(session.Response)
	fmt.Printf("\n(session %s)\n", session.ID)
	return nil
}

// parseGoals turns name:target:current specs into goals. The name may not
// contain colons.
func parseGoals(specs []string) ([]coach.Goal, error) {
	goals := make([]coach.Goal, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid goal %q (want name:target:current)", spec)
		}
		target, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid goal target in %q: %w", spec, err)
		}
		current, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid goal progress in %q: %w", spec, err)
		}
		goals = append(goals, coach.Goal{Name: parts[0], Target: target, Current: current})
	}
	return goals, nil
}
