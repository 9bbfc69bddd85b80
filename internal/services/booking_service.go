package services

import (
	"fmt"
	"strings"
	"time"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
	"thrive/internal/repositories"
	"thrive/internal/utils"
)

const maxAdvanceBooking = 365 * 24 * time.Hour

// BookingService owns the booking lifecycle: creation with pricing, date
// validation, and the cancellation/refund flow.
type BookingService struct {
	BookingRepo   repositories.BookingRepository
	PassengerRepo repositories.PassengerRepository
	PackageRepo   repositories.PackageRepository
	UserRepo      repositories.UserRepository
	PaymentRepo   repositories.PaymentRepository

	Pricing      PricingService
	Subscription SubscriptionService
	Referral     ReferralService
	Payments     PaymentService
	Notifier     NotificationService
	Audit        AuditService
	RequestID    string
}

// ValidateTravelDates enforces the booking window rules.
func (BookingService) ValidateTravelDates(departure, ret *time.Time, now time.Time) error {
	if departure == nil {
		return domain.ValidationError{Field: "departureDate", Msg: "departure date is required"}
	}
	if departure.Before(now) {
		return domain.ValidationError{Field: "departureDate", Msg: "departure date cannot be in the past"}
	}
	if departure.After(now.Add(maxAdvanceBooking)) {
		return domain.ValidationError{Field: "departureDate", Msg: "bookings can be made at most one year ahead"}
	}
	if ret != nil && ret.Before(*departure) {
		return domain.ValidationError{Field: "returnDate", Msg: "return date must be on or after departure"}
	}
	return nil
}

// PassengerInput is one traveler on a booking request.
type PassengerInput struct {
	Title               string `json:"title"`
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	MiddleName          string `json:"middleName"`
	DateOfBirth         string `json:"dateOfBirth"`
	Gender              string `json:"gender"`
	Nationality         string `json:"nationality"`
	PassportNumber      string `json:"passportNumber"`
	PassportExpiry      string `json:"passportExpiry"`
	PassportCountry     string `json:"passportCountry"`
	PassengerType       string `json:"passengerType"`
	FrequentFlyerNumber string `json:"frequentFlyerNumber"`
	MealPreference      string `json:"mealPreference"`
	SpecialAssistance   string `json:"specialAssistance"`
}

func (p PassengerInput) validate(index int) error {
	field := func(name string) string { return fmt.Sprintf("passengers[%d].%s", index, name) }
	if strings.TrimSpace(p.FirstName) == "" {
		return domain.ValidationError{Field: field("firstName"), Msg: "first name is required"}
	}
	if strings.TrimSpace(p.LastName) == "" {
		return domain.ValidationError{Field: field("lastName"), Msg: "last name is required"}
	}
	dob, err := utils.ParseDate(p.DateOfBirth)
	if err != nil || !utils.ValidDateOfBirth(dob, utils.NowUTC()) {
		return domain.ValidationError{Field: field("dateOfBirth"), Msg: "date of birth must be a past YYYY-MM-DD date"}
	}
	if p.PassportNumber != "" && !utils.ValidPassport(p.PassportNumber) {
		return domain.ValidationError{Field: field("passportNumber"), Msg: "passport number must be 6-9 letters or digits"}
	}
	switch p.PassengerType {
	case "", "adult", "child", "infant":
	default:
		return domain.ValidationError{Field: field("passengerType"), Msg: "passenger type must be adult, child or infant"}
	}
	return nil
}

// FlightBookingInput carries a priced flight offer into booking creation.
type FlightBookingInput struct {
	TripType       string
	Origin         string
	Destination    string
	DepartureDate  *time.Time
	ReturnDate     *time.Time
	Airline        string
	FlightNumber   string
	TravelClass    string
	FlightOffer    []byte
	BasePriceCents int64
	TaxesCents     int64
	IsDomestic     bool
	Currency       string

	Passengers      []PassengerInput
	SpecialRequests string
	UseCredits      bool
}

func countTypes(passengers []PassengerInput) (adults, children, infants int) {
	for _, p := range passengers {
		switch p.PassengerType {
		case "child":
			children++
		case "infant":
			infants++
		default:
			adults++
		}
	}
	return adults, children, infants
}

// CreateFlightBooking prices and persists a pending flight booking with its
// passengers. The caller pays afterwards through the payments endpoints.
func (s BookingService) CreateFlightBooking(user models.User, in FlightBookingInput, now time.Time) (models.Booking, error) {
	if err := s.ValidateTravelDates(in.DepartureDate, in.ReturnDate, now); err != nil {
		return models.Booking{}, err
	}
	if len(in.Passengers) == 0 {
		return models.Booking{}, domain.ValidationError{Field: "passengers", Msg: "at least one passenger is required"}
	}
	for i, p := range in.Passengers {
		if err := p.validate(i); err != nil {
			return models.Booking{}, err
		}
	}
	if in.BasePriceCents <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "flightOffer", Msg: "offer has no price"}
	}
	if err := s.Subscription.CanBook(user, now); err != nil {
		return models.Booking{}, err
	}

	adults, children, infants := countTypes(in.Passengers)
	isUrgent := s.Pricing.IsUrgent(*in.DepartureDate, now)
	fee := s.Pricing.FlightServiceFee(in.IsDomestic, len(in.Passengers), isUrgent)
	discount := s.Pricing.SubscriptionDiscount(in.BasePriceCents, user.SubscriptionTier)

	b := models.Booking{
		ID:               utils.NewID(),
		BookingReference: utils.NewReference("TGT"),
		UserID:           user.ID,
		BookingType:      domain.BookingTypeFlight,
		Status:           domain.BookingPending,
		TripType:         in.TripType,
		Origin:           strings.ToUpper(in.Origin),
		Destination:      strings.ToUpper(in.Destination),
		DepartureDate:    in.DepartureDate,
		ReturnDate:       in.ReturnDate,
		Airline:          in.Airline,
		FlightNumber:     in.FlightNumber,
		FlightOffer:      in.FlightOffer,
		TravelClass:      in.TravelClass,
		NumAdults:        adults,
		NumChildren:      children,
		NumInfants:       infants,
		BasePriceCents:   in.BasePriceCents,
		ServiceFeeCents:  fee,
		TaxesCents:       in.TaxesCents,
		DiscountCents:    discount,
		IsUrgent:         isUrgent,
		SpecialRequests:  in.SpecialRequests,
	}
	b.CalculateTotal()

	if in.UseCredits && user.ReferralCreditsCents > 0 {
		used, err := s.Referral.Spend(user.ID, b.TotalCents, user.ReferralCreditsCents)
		if err != nil {
			return models.Booking{}, err
		}
		b.DiscountCents += used
		b.CalculateTotal()
	}

	if err := s.BookingRepo.Create(b); err != nil {
		return models.Booking{}, err
	}
	for _, p := range in.Passengers {
		kind := p.PassengerType
		if kind == "" {
			kind = "adult"
		}
		err := s.PassengerRepo.Create(models.Passenger{
			ID:                  utils.NewID(),
			BookingID:           b.ID,
			Title:               p.Title,
			FirstName:           strings.TrimSpace(p.FirstName),
			LastName:            strings.TrimSpace(p.LastName),
			MiddleName:          p.MiddleName,
			DateOfBirth:         p.DateOfBirth,
			Gender:              p.Gender,
			Nationality:         p.Nationality,
			PassportNumber:      strings.ToUpper(p.PassportNumber),
			PassportExpiry:      p.PassportExpiry,
			PassportCountry:     p.PassportCountry,
			PassengerType:       kind,
			FrequentFlyerNumber: p.FrequentFlyerNumber,
			MealPreference:      p.MealPreference,
			SpecialAssistance:   p.SpecialAssistance,
		})
		if err != nil {
			return models.Booking{}, err
		}
	}
	if err := s.UserRepo.IncrementMonthlyBookings(user.ID); err != nil {
		utils.LogEvent(s.RequestID, "booking", "counter_failed", "user_id="+user.ID+" err="+err.Error())
	}

	utils.LogEvent(s.RequestID, "booking", "create_flight", "ref="+b.BookingReference+" total="+utils.FormatCents(b.TotalCents))
	s.Audit.Record(user.ID, "booking.create", "booking", b.ID, "flight booking "+b.BookingReference, nil)
	return b, nil
}

// PackageBookingInput books a tour package for a party.
type PackageBookingInput struct {
	PackageID       string
	DepartureDate   *time.Time
	Passengers      []PassengerInput
	SpecialRequests string
	UseCredits      bool
}

// CreatePackageBooking prices a package by head count and persists it.
func (s BookingService) CreatePackageBooking(user models.User, in PackageBookingInput, now time.Time) (models.Booking, error) {
	pkg, err := s.PackageRepo.GetByID(in.PackageID)
	if err != nil {
		return models.Booking{}, err
	}
	if !pkg.IsActive {
		return models.Booking{}, domain.ConflictError{Resource: "package", Msg: "package is not open for booking"}
	}
	if err := s.ValidateTravelDates(in.DepartureDate, nil, now); err != nil {
		return models.Booking{}, err
	}
	if len(in.Passengers) < pkg.MinBooking {
		return models.Booking{}, domain.ValidationError{
			Field: "passengers",
			Msg:   fmt.Sprintf("this package requires at least %d travelers", pkg.MinBooking),
		}
	}
	for i, p := range in.Passengers {
		if err := p.validate(i); err != nil {
			return models.Booking{}, err
		}
	}
	if err := s.Subscription.CanBook(user, now); err != nil {
		return models.Booking{}, err
	}

	adults, children, infants := countTypes(in.Passengers)
	base := pkg.PricePerPersonCents * int64(len(in.Passengers))
	discount := s.Pricing.SubscriptionDiscount(base, user.SubscriptionTier)
	ret := in.DepartureDate.AddDate(0, 0, pkg.DurationDays)

	b := models.Booking{
		ID:               utils.NewID(),
		BookingReference: utils.NewReference("TGT"),
		UserID:           user.ID,
		BookingType:      domain.BookingTypePackage,
		Status:           domain.BookingPending,
		Destination:      pkg.Destination(),
		DepartureDate:    in.DepartureDate,
		ReturnDate:       &ret,
		NumAdults:        adults,
		NumChildren:      children,
		NumInfants:       infants,
		PackageID:        pkg.ID,
		BasePriceCents:   base,
		DiscountCents:    discount,
		SpecialRequests:  in.SpecialRequests,
	}
	b.CalculateTotal()

	if in.UseCredits && user.ReferralCreditsCents > 0 {
		used, err := s.Referral.Spend(user.ID, b.TotalCents, user.ReferralCreditsCents)
		if err != nil {
			return models.Booking{}, err
		}
		b.DiscountCents += used
		b.CalculateTotal()
	}

	if err := s.BookingRepo.Create(b); err != nil {
		return models.Booking{}, err
	}
	for _, p := range in.Passengers {
		kind := p.PassengerType
		if kind == "" {
			kind = "adult"
		}
		err := s.PassengerRepo.Create(models.Passenger{
			ID:            utils.NewID(),
			BookingID:     b.ID,
			Title:         p.Title,
			FirstName:     strings.TrimSpace(p.FirstName),
			LastName:      strings.TrimSpace(p.LastName),
			DateOfBirth:   p.DateOfBirth,
			Gender:        p.Gender,
			Nationality:   p.Nationality,
			PassengerType: kind,
		})
		if err != nil {
			return models.Booking{}, err
		}
	}
	if err := s.PackageRepo.IncrementBookings(pkg.ID); err != nil {
		utils.LogEvent(s.RequestID, "booking", "pkg_counter_failed", "package_id="+pkg.ID)
	}
	if err := s.UserRepo.IncrementMonthlyBookings(user.ID); err != nil {
		utils.LogEvent(s.RequestID, "booking", "counter_failed", "user_id="+user.ID)
	}

	utils.LogEvent(s.RequestID, "booking", "create_package", "ref="+b.BookingReference+" package="+pkg.Slug)
	s.Audit.Record(user.ID, "booking.create", "booking", b.ID, "package booking "+b.BookingReference, nil)
	return b, nil
}

// CreateFromQuote converts an accepted quote into a pending custom booking.
func (s BookingService) CreateFromQuote(user models.User, q models.Quote) (models.Booking, error) {
	b := models.Booking{
		ID:               utils.NewID(),
		BookingReference: utils.NewReference("TGT"),
		UserID:           user.ID,
		BookingType:      domain.BookingTypeCustom,
		Status:           domain.BookingPending,
		TripType:         q.TripType,
		Origin:           q.Origin,
		Destination:      q.Destination,
		NumAdults:        q.NumAdults,
		NumChildren:      q.NumChildren,
		BasePriceCents:   q.QuotedCents,
		ServiceFeeCents:  q.ServiceFeeCents,
		Notes:            q.AdditionalDetails,
	}
	b.CalculateTotal()
	if err := s.BookingRepo.Create(b); err != nil {
		return models.Booking{}, err
	}
	utils.LogEvent(s.RequestID, "booking", "create_from_quote", "ref="+b.BookingReference+" quote="+q.QuoteReference)
	s.Audit.Record(user.ID, "booking.create", "booking", b.ID, "custom booking from quote "+q.QuoteReference, nil)
	return b, nil
}

// CancelResult reports what the cancellation did.
type CancelResult struct {
	Booking       models.Booking `json:"booking"`
	RefundPercent int            `json:"refund_percent"`
	RefundCents   int64          `json:"refund_cents"`
	Refunded      bool           `json:"refunded"`
}

// Cancel applies the refund policy, refunds the settled payment when the
// policy grants anything, and marks the booking cancelled. A gateway refund
// failure cancels the booking anyway; the refund is then handled manually.
func (s BookingService) Cancel(user models.User, bookingID, reason string, requestRefund bool, now time.Time) (CancelResult, error) {
	b, err := s.BookingRepo.GetOwned(bookingID, user.ID)
	if err != nil {
		return CancelResult{}, err
	}
	switch b.Status {
	case domain.BookingCancelled, domain.BookingCompleted:
		return CancelResult{}, domain.ConflictError{Resource: "booking", Msg: "booking can no longer be cancelled"}
	}

	res := CancelResult{Booking: b}
	if requestRefund {
		res.RefundPercent = s.Pricing.RefundPercent(b, user.SubscriptionTier, now)
		res.RefundCents = s.Pricing.RefundAmount(b, user.SubscriptionTier, now)

		if res.RefundCents > 0 {
			payment, err := s.PaymentRepo.GetPaidByBooking(b.ID)
			switch {
			case err == nil:
				if refundErr := s.Payments.Refund(payment, res.RefundCents, reason, now); refundErr != nil {
					utils.LogEvent(s.RequestID, "booking", "refund_failed", "booking_id="+b.ID+" err="+refundErr.Error())
				} else {
					res.Refunded = true
				}
			case domain.IsNotFound(err):
				// nothing was paid, nothing to refund
				res.RefundCents = 0
			default:
				return CancelResult{}, err
			}
		}
	}

	if err := s.BookingRepo.SetStatus(b.ID, domain.BookingCancelled); err != nil {
		return CancelResult{}, err
	}
	b.Status = domain.BookingCancelled
	res.Booking = b

	utils.LogEvent(s.RequestID, "booking", "cancel",
		fmt.Sprintf("ref=%s refund_pct=%d refunded=%t", b.BookingReference, res.RefundPercent, res.Refunded))
	s.Audit.Record(user.ID, "booking.cancel", "booking", b.ID, reason, map[string]any{
		"refund_percent": res.RefundPercent,
		"refund_cents":   res.RefundCents,
	})
	s.Notifier.BookingCancelled(user.ID, b, res.RefundCents)
	return res, nil
}
