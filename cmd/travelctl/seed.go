package main

import (
	"encoding/json"
	"fmt"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
	"thrive/internal/repositories"
	"thrive/internal/services"
	"thrive/internal/utils"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

type seedPackage struct {
	Name       string
	City       string
	Country    string
	Days       int
	PriceCents int64
	Hotel      string
	Rating     int
	Highlights []string
}

var seedPackages = []seedPackage{
	{
		Name: "Bali Tropical Escape", City: "Denpasar", Country: "Indonesia",
		Days: 7, PriceCents: 129900, Hotel: "Ubud Garden Resort", Rating: 4,
		Highlights: []string{"Ubud rice terraces", "Uluwatu sunset", "Nusa Penida day trip"},
	},
	{
		Name: "Tokyo City Lights", City: "Tokyo", Country: "Japan",
		Days: 5, PriceCents: 189900, Hotel: "Shinjuku Granbell", Rating: 4,
		Highlights: []string{"Tsukiji food walk", "Mount Fuji day trip", "Akihabara tour"},
	},
	{
		Name: "Santorini Sunset Week", City: "Thira", Country: "Greece",
		Days: 6, PriceCents: 219900, Hotel: "Caldera View Suites", Rating: 5,
		Highlights: []string{"Oia sunset cruise", "Volcano hike", "Wine tasting"},
	},
	{
		Name: "Marrakech Medina Days", City: "Marrakech", Country: "Morocco",
		Days: 4, PriceCents: 89900, Hotel: "Riad Dar Anika", Rating: 4,
		Highlights: []string{"Jemaa el-Fnaa", "Atlas mountains", "Hammam evening"},
	},
	{
		Name: "Patagonia Trek", City: "El Calafate", Country: "Argentina",
		Days: 9, PriceCents: 299900, Hotel: "Estancia Cristina Lodge", Rating: 4,
		Highlights: []string{"Perito Moreno glacier", "Fitz Roy trail", "Estancia stay"},
	},
}

type seedUser struct {
	Email, FirstName, LastName, Tier string
	CreditsCents                     int64
}

var seedUsers = []seedUser{
	{"amelia.torres@example.com", "Amelia", "Torres", domain.TierGold, 2000},
	{"marcus.lee@example.com", "Marcus", "Lee", domain.TierSilver, 0},
	{"priya.nair@example.com", "Priya", "Nair", domain.TierNone, 1000},
}

// Every demo account shares this password.
const seedPassword = "Traveler123"

var seedSettings = []struct {
	Key, Value, DataType, Description string
}{
	{"site.maintenance", "false", "bool", "Serve 503s to non-admin traffic when true"},
	{"booking.max_passengers", "9", "int", "Hard cap on passengers per booking"},
	{"support.email", "support@thrivetravel.example", "string", "Address shown on invoices"},
}

func applyDefaultSettings() error {
	settings := repositories.SettingsRepository{}
	for _, s := range seedSettings {
		if err := settings.Set(s.Key, s.Value, s.DataType, s.Description); err != nil {
			return err
		}
	}
	return nil
}

func seedSamplePackages() (int, error) {
	packages := repositories.PackageRepository{}
	created := 0
	for _, s := range seedPackages {
		slug := utils.Slugify(s.Name)
		exists, err := packages.SlugExists(slug)
		if err != nil {
			return created, err
		}
		if exists {
			continue
		}
		highlights, _ := json.Marshal(s.Highlights)
		pkg := models.Package{
			ID:                  utils.NewID(),
			Name:                s.Name,
			Slug:                slug,
			Description:         fmt.Sprintf("%d days in %s, %s staying at %s.", s.Days, s.City, s.Country, s.Hotel),
			DestinationCity:     s.City,
			DestinationCountry:  s.Country,
			DurationDays:        s.Days,
			DurationNights:      s.Days - 1,
			StartingPriceCents:  s.PriceCents,
			PricePerPersonCents: s.PriceCents,
			Highlights:          highlights,
			HotelName:           s.Hotel,
			HotelRating:         s.Rating,
			RoomType:            "Double",
			IsActive:            true,
			MinBooking:          1,
		}
		if err := packages.Create(pkg); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func seedSampleUsers() ([]models.User, error) {
	users := repositories.UserRepository{}
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := utils.NowUTC()
	var created []models.User
	for _, s := range seedUsers {
		exists, err := users.EmailExists(s.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}
		u := models.User{
			ID:                   utils.NewID(),
			Email:                s.Email,
			PasswordHash:         string(hash),
			FirstName:            s.FirstName,
			LastName:             s.LastName,
			Role:                 domain.RoleCustomer,
			SubscriptionTier:     s.Tier,
			EmailVerified:        true,
			IsActive:             true,
			ReferralCreditsCents: s.CreditsCents,
		}
		u.ReferralCode = services.ReferralService{}.CodeFor(u.ID)
		if err := users.Create(u); err != nil {
			return nil, err
		}
		if s.Tier != domain.TierNone {
			if err := users.ActivateSubscription(u.ID, s.Tier, now, now.AddDate(0, 0, 30)); err != nil {
				return nil, err
			}
		}
		created = append(created, u)
	}
	return created, nil
}

// seedSampleActivity gives each new demo account one confirmed package
// booking, a settled payment and the matching notification.
func seedSampleActivity(created []models.User) (int, error) {
	packages := repositories.PackageRepository{}
	bookings := repositories.BookingRepository{}
	payments := repositories.PaymentRepository{}
	notifications := repositories.NotificationRepository{}
	now := utils.NowUTC()

	made := 0
	for i, u := range created {
		pkg, err := packages.GetBySlug(utils.Slugify(seedPackages[i%len(seedPackages)].Name))
		if err != nil {
			return made, err
		}
		adults := 1 + i%2
		departure := now.AddDate(0, 1, i*3)
		b := models.Booking{
			ID:               utils.NewID(),
			BookingReference: utils.NewReference("TGT"),
			UserID:           u.ID,
			BookingType:      domain.BookingTypePackage,
			Status:           domain.BookingConfirmed,
			Destination:      pkg.DestinationCity,
			DepartureDate:    &departure,
			NumAdults:        adults,
			PackageID:        pkg.ID,
			BasePriceCents:   pkg.PricePerPersonCents * int64(adults),
		}
		b.CalculateTotal()
		if err := bookings.Create(b); err != nil {
			return made, err
		}
		if err := packages.IncrementBookings(pkg.ID); err != nil {
			return made, err
		}

		p := models.Payment{
			ID:               utils.NewID(),
			PaymentReference: utils.NewReference("PAY"),
			BookingID:        b.ID,
			UserID:           u.ID,
			AmountCents:      b.TotalCents,
			Currency:         "usd",
			PaymentMethod:    "card",
			Status:           domain.PaymentPending,
		}
		if err := payments.Create(p); err != nil {
			return made, err
		}
		if err := payments.MarkPaid(p.ID, "", "", ""); err != nil {
			return made, err
		}

		err = notifications.Create(models.Notification{
			ID:        utils.NewID(),
			UserID:    u.ID,
			Type:      "booking_confirmed",
			Title:     "Booking Confirmed",
			Message:   fmt.Sprintf("Your booking %s for %s is confirmed.", b.BookingReference, pkg.Name),
			BookingID: b.ID,
			LinkURL:   "/bookings/" + b.ID,
		})
		if err != nil {
			return made, err
		}
		made++
	}
	return made, nil
}

func seedSampleData() error {
	if _, err := seedSamplePackages(); err != nil {
		return err
	}
	users, err := seedSampleUsers()
	if err != nil {
		return err
	}
	_, err = seedSampleActivity(users)
	return err
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo packages, accounts, bookings and default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			connect()
			packagesMade, err := seedSamplePackages()
			if err != nil {
				return err
			}
			usersMade, err := seedSampleUsers()
			if err != nil {
				return err
			}
			bookingsMade, err := seedSampleActivity(usersMade)
			if err != nil {
				return err
			}
			if err := applyDefaultSettings(); err != nil {
				return err
			}
			fmt.Printf("seeded %d packages, %d users, %d bookings and %d settings\n",
				packagesMade, len(usersMade), bookingsMade, len(seedSettings))
			return nil
		},
	}
}
