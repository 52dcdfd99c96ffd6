package main

import (
	"fmt"
	"os"

	"parkpal-server/models"
	"parkpal-server/storage"
	"parkpal-server/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openDB() (*gorm.DB, error) {
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		return nil, fmt.Errorf("DB_CONNECTION_STRING environment variable is required")
	}
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run schema migrations against the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			if err := storage.Migrate(db); err != nil {
				return fmt.Errorf("migrations failed: %w", err)
			}
			fmt.Println("migrations complete")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo parking spaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}

			available := true
			demo := []models.ParkingSpace{
				{
					Title:        "Secure driveway near Kennington Park",
					Description:  "Gated driveway two minutes from the park, fits one car.",
					Location:     "Kennington, London",
					Postcode:     "SE173RY",
					Address:      "14 Chapter Road",
					Lat:          51.4863, Lng: -0.1034,
					PricePerHour: 2.50, PricePerDay: 14, PricePerWeek: 70, PricePerMonth: 220,
					TotalSpaces:  1,
					IsAvailable:  &available,
					Features:     "gated,cctv,ev_charging",
				},
				{
					Title:        "Underground bay at Elephant & Castle",
					Description:  "24/7 underground space with lift access.",
					Location:     "Elephant & Castle, London",
					Postcode:     "SE16LW",
					Address:      "Metro Central Heights",
					Lat:          51.4945, Lng: -0.1003,
					PricePerHour: 3.20, PricePerDay: 18, PricePerWeek: 90, PricePerMonth: 280,
					TotalSpaces:  4,
					IsAvailable:  &available,
					Features:     "underground,24_7,lift",
				},
			}

			for i := range demo {
				if err := db.Create(&demo[i]).Error; err != nil {
					return fmt.Errorf("seed failed: %w", err)
				}
				fmt.Printf("seeded %q (%s)\n", demo[i].Title, utils.DisplayPostcode(demo[i].Postcode))
			}
			return nil
		},
	}
}

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "parkctl",
		Short: "ParkPal server administration tool",
	}

	rootCmd.AddCommand(
		migrateCmd(),
		seedCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
