// travelctl is the operations CLI: schema management, seeding and the
// recurring maintenance jobs that production runs from cron.
package main

import (
	"fmt"
	"os"
	"strings"

	intconfig "thrive/internal/config"
	"thrive/internal/db"
	"thrive/internal/domain"
	"thrive/internal/domain/models"
	"thrive/internal/repositories"
	"thrive/internal/services"
	"thrive/internal/utils"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	root := &cobra.Command{
		Use:           "travelctl",
		Short:         "Operations CLI for the travel booking backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		initCmd(),
		resetCmd(),
		seedCmd(),
		createAdminCmd(),
		expireQuotesCmd(),
		resetCountersCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func connect() {
	intconfig.ConnectDB(intconfig.LoadEnv())
}

func initCmd() *cobra.Command {
	var noSampleData bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create missing tables, default settings and sample data",
		RunE: func(cmd *cobra.Command, args []string) error {
			connect()
			if err := db.Apply(intconfig.DB); err != nil {
				return err
			}
			if err := applyDefaultSettings(); err != nil {
				return err
			}
			if !noSampleData {
				if err := seedSampleData(); err != nil {
					return err
				}
			}
			fmt.Println("schema applied")
			return nil
		},
	}
	cmd.Flags().BoolVar(&noSampleData, "no-sample-data", false, "skip the demo packages, accounts and bookings")
	return cmd
}

func resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate every table (destructive)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to drop tables without --yes")
			}
			connect()
			if err := db.Drop(intconfig.DB); err != nil {
				return err
			}
			if err := db.Apply(intconfig.DB); err != nil {
				return err
			}
			if err := applyDefaultSettings(); err != nil {
				return err
			}
			if err := seedSampleData(); err != nil {
				return err
			}
			fmt.Println("database reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the destructive reset")
	return cmd
}

func createAdminCmd() *cobra.Command {
	var email, password, firstName, lastName string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !utils.ValidEmail(email) {
				return fmt.Errorf("--email must be a valid address")
			}
			if !utils.ValidPassword(password) {
				return fmt.Errorf("--password needs at least 8 characters with letters and digits")
			}
			connect()

			users := repositories.UserRepository{}
			exists, err := users.EmailExists(email)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("an account with email %s already exists", email)
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			u := models.User{
				ID:               utils.NewID(),
				Email:            strings.ToLower(email),
				PasswordHash:     string(hash),
				FirstName:        firstName,
				LastName:         lastName,
				Role:             domain.RoleAdmin,
				SubscriptionTier: domain.TierNone,
				EmailVerified:    true,
				IsActive:         true,
			}
			u.ReferralCode = services.ReferralService{}.CodeFor(u.ID)
			if err := users.Create(u); err != nil {
				return err
			}
			fmt.Printf("admin %s created (%s)\n", u.Email, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email (required)")
	cmd.Flags().StringVar(&password, "password", "", "admin password (required)")
	cmd.Flags().StringVar(&firstName, "first-name", "Admin", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "User", "last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func expireQuotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expire-quotes",
		Short: "Mark quotes past their expiry as expired",
		RunE: func(cmd *cobra.Command, args []string) error {
			connect()
			n, err := repositories.QuoteRepository{}.ExpireStale(utils.NowUTC())
			if err != nil {
				return err
			}
			fmt.Printf("%d quotes expired\n", n)
			return nil
		},
	}
}

func resetCountersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-counters",
		Short: "Zero monthly booking counters for active subscribers",
		RunE: func(cmd *cobra.Command, args []string) error {
			connect()
			n, err := repositories.UserRepository{}.ResetMonthlyCounters()
			if err != nil {
				return err
			}
			fmt.Printf("%d subscriber counters reset\n", n)
			return nil
		},
	}
}
