package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"thrive/internal/amadeus"
	"thrive/internal/domain"
	"thrive/internal/http/middleware"
	"thrive/internal/repositories"
	"thrive/internal/services"
	"thrive/internal/utils"

	"github.com/gin-gonic/gin"
)

func flightsClient(c *gin.Context) (*amadeus.Client, bool) {
	if deps.Flights == nil {
		RespondError(c, http.StatusServiceUnavailable, "flight search is not configured", nil)
		return nil, false
	}
	return deps.Flights, true
}

// SearchFlightLocations autocompletes airports and cities.
func SearchFlightLocations(c *gin.Context) {
	client, ok := flightsClient(c)
	if !ok {
		return
	}
	keyword := strings.TrimSpace(c.Query("q"))
	if len(keyword) < 2 {
		RespondValidation(c, "keyword too short", map[string]string{"q": "at least two characters are required"})
		return
	}
	raw, err := client.SearchLocations(c.Request.Context(), keyword, c.Query("subType"), intQuery(c, "limit", 10))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "locations", raw)
}

// SearchFlights runs a one-way or round-trip offer search against live
// inventory.
func SearchFlights(c *gin.Context) {
	client, ok := flightsClient(c)
	if !ok {
		return
	}
	search := amadeus.OfferSearch{
		Origin:        strings.TrimSpace(c.Query("origin")),
		Destination:   strings.TrimSpace(c.Query("destination")),
		DepartureDate: strings.TrimSpace(c.Query("departureDate")),
		ReturnDate:    strings.TrimSpace(c.Query("returnDate")),
		Adults:        intQuery(c, "adults", 1),
		Children:      intQuery(c, "children", 0),
		Infants:       intQuery(c, "infants", 0),
		TravelClass:   strings.TrimSpace(c.Query("travelClass")),
		NonStop:       boolQuery(c, "nonStop"),
		CurrencyCode:  strings.TrimSpace(c.Query("currency")),
		MaxResults:    intQuery(c, "max", 20),
	}

	errs := map[string]string{}
	if len(search.Origin) != 3 {
		errs["origin"] = "origin must be a 3-letter IATA code"
	}
	if len(search.Destination) != 3 {
		errs["destination"] = "destination must be a 3-letter IATA code"
	}
	if search.DepartureDate == "" {
		errs["departureDate"] = "departure date is required"
	}
	if len(errs) > 0 {
		RespondValidation(c, "flight search failed validation", errs)
		return
	}

	raw, err := client.SearchOffers(c.Request.Context(), search)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "flight offers", raw)
}

type multiCityRequest struct {
	Segments []struct {
		Origin        string `json:"origin"`
		Destination   string `json:"destination"`
		DepartureDate string `json:"departureDate"`
	} `json:"segments"`
	Adults      int    `json:"adults"`
	Children    int    `json:"children"`
	TravelClass string `json:"travelClass"`
	Currency    string `json:"currency"`
}

// SearchMultiCity prices an itinerary with several legs.
func SearchMultiCity(c *gin.Context) {
	client, ok := flightsClient(c)
	if !ok {
		return
	}
	var req multiCityRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if len(req.Segments) < 2 {
		RespondValidation(c, "multi-city needs at least two segments", map[string]string{
			"segments": "at least two segments are required",
		})
		return
	}
	if req.Adults < 1 {
		req.Adults = 1
	}

	originDestinations := make([]map[string]any, 0, len(req.Segments))
	for i, seg := range req.Segments {
		od := map[string]any{}
		od["id"] = i + 1
		od["originLocationCode"] = strings.ToUpper(strings.TrimSpace(seg.Origin))
		od["destinationLocationCode"] = strings.ToUpper(strings.TrimSpace(seg.Destination))
		od["departureDateTimeRange"] = map[string]string{"date": seg.DepartureDate}
		originDestinations = append(originDestinations, od)
	}
	travelers := make([]map[string]any, 0, req.Adults+req.Children)
	id := 1
	for i := 0; i < req.Adults; i, id = i+1, id+1 {
		travelers = append(travelers, map[string]any{"id": id, "travelerType": "ADULT"})
	}
	for i := 0; i < req.Children; i, id = i+1, id+1 {
		travelers = append(travelers, map[string]any{"id": id, "travelerType": "CHILD"})
	}

	body := map[string]any{
		"originDestinations": originDestinations,
		"travelers":          travelers,
		"sources":            []string{"GDS"},
		"searchCriteria": map[string]any{
			"maxFlightOffers": 20,
		},
	}
	if req.Currency != "" {
		body["currencyCode"] = strings.ToUpper(req.Currency)
	}
	if req.TravelClass != "" {
		restriction := map[string]any{}
		restriction["cabin"] = strings.ToUpper(req.TravelClass)
		restriction["coverage"] = "MOST_SEGMENTS"
		restriction["originDestinationIds"] = segmentIDs(len(req.Segments))
		body["searchCriteria"] = map[string]any{
			"maxFlightOffers": 20,
			"flightFilters": map[string]any{
				"cabinRestrictions": []map[string]any{restriction},
			},
		}
	}

	raw, err := client.SearchOffersBody(c.Request.Context(), body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "flight offers", raw)
}

func segmentIDs(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i + 1
	}
	return ids
}

type flightOfferRequest struct {
	FlightOffer json.RawMessage `json:"flightOffer"`
}

// PriceFlightOffer re-prices a selected offer before booking; fares move.
func PriceFlightOffer(c *gin.Context) {
	client, ok := flightsClient(c)
	if !ok {
		return
	}
	var req flightOfferRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if len(req.FlightOffer) == 0 {
		RespondValidation(c, "flight offer is required", map[string]string{"flightOffer": "flight offer is required"})
		return
	}
	raw, err := client.PriceOffer(c.Request.Context(), req.FlightOffer)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "priced offer", raw)
}

// FlightSeatMaps fetches cabin layouts for an offer.
func FlightSeatMaps(c *gin.Context) {
	client, ok := flightsClient(c)
	if !ok {
		return
	}
	var req flightOfferRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if len(req.FlightOffer) == 0 {
		RespondValidation(c, "flight offer is required", map[string]string{"flightOffer": "flight offer is required"})
		return
	}
	raw, err := client.SeatMaps(c.Request.Context(), req.FlightOffer)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "seat maps", raw)
}

// offerSummary is the slice of the vendor offer the booking needs.
type offerSummary struct {
	Price struct {
		Total    string `json:"total"`
		Base     string `json:"base"`
		Currency string `json:"currency"`
	} `json:"price"`
	ValidatingAirlineCodes []string `json:"validatingAirlineCodes"`
	Itineraries            []struct {
		Segments []struct {
			CarrierCode string `json:"carrierCode"`
			Number      string `json:"number"`
			Departure   struct {
				IATACode string `json:"iataCode"`
				At       string `json:"at"`
			} `json:"departure"`
			Arrival struct {
				IATACode string `json:"iataCode"`
				At       string `json:"at"`
			} `json:"arrival"`
		} `json:"segments"`
	} `json:"itineraries"`
}

type bookFlightRequest struct {
	FlightOffer     json.RawMessage           `json:"flightOffer"`
	TripType        string                    `json:"tripType"`
	TravelClass     string                    `json:"travelClass"`
	IsDomestic      bool                      `json:"isDomestic"`
	Passengers      []services.PassengerInput `json:"passengers"`
	SpecialRequests string                    `json:"specialRequests"`
	UseCredits      bool                      `json:"useCredits"`
}

// BookFlight turns a priced offer into a pending booking with passengers.
// Payment happens afterwards through the payments endpoints.
func BookFlight(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req bookFlightRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if len(req.FlightOffer) == 0 {
		RespondValidation(c, "flight offer is required", map[string]string{"flightOffer": "flight offer is required"})
		return
	}

	var offer offerSummary
	if err := json.Unmarshal(req.FlightOffer, &offer); err != nil || len(offer.Itineraries) == 0 || len(offer.Itineraries[0].Segments) == 0 {
		RespondValidation(c, "flight offer is malformed", map[string]string{"flightOffer": "offer must be a priced vendor offer"})
		return
	}

	totalCents, err := utils.ParseDollarsToCents(offer.Price.Total)
	if err != nil {
		RespondValidation(c, "flight offer has no usable price", map[string]string{"flightOffer": "offer price is missing"})
		return
	}
	baseCents := totalCents
	if b, err := utils.ParseDollarsToCents(offer.Price.Base); err == nil {
		baseCents = b
	}
	taxesCents := totalCents - baseCents
	if taxesCents < 0 {
		taxesCents = 0
	}

	out := offer.Itineraries[0].Segments
	first := out[0]
	lastOut := out[len(out)-1]

	in := services.FlightBookingInput{
		TripType:        req.TripType,
		Origin:          first.Departure.IATACode,
		Destination:     lastOut.Arrival.IATACode,
		TravelClass:     req.TravelClass,
		FlightOffer:     req.FlightOffer,
		BasePriceCents:  baseCents,
		TaxesCents:      taxesCents,
		IsDomestic:      req.IsDomestic,
		Currency:        offer.Price.Currency,
		Passengers:      req.Passengers,
		SpecialRequests: req.SpecialRequests,
		UseCredits:      req.UseCredits,
	}
	if dep, err := time.Parse("2006-01-02T15:04:05", first.Departure.At); err == nil {
		in.DepartureDate = &dep
	}
	if len(offer.Itineraries) > 1 {
		back := offer.Itineraries[1].Segments
		if len(back) > 0 {
			if ret, err := time.Parse("2006-01-02T15:04:05", back[0].Departure.At); err == nil {
				in.ReturnDate = &ret
			}
		}
		if in.TripType == "" {
			in.TripType = domain.TripRoundTrip
		}
	} else if in.TripType == "" {
		in.TripType = domain.TripOneWay
	}
	if len(offer.ValidatingAirlineCodes) > 0 {
		in.Airline = offer.ValidatingAirlineCodes[0]
	} else {
		in.Airline = first.CarrierCode
	}
	in.FlightNumber = first.CarrierCode + first.Number

	b, err := bookings(c).CreateFlightBooking(u, in, utils.NowUTC())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, "flight booking created", gin.H{"booking": b})
}

type confirmFlightRequest struct {
	BookingID string `json:"bookingId"`
}

// ConfirmFlightBooking places the airline order for a paid booking and
// stores the carrier confirmation.
func ConfirmFlightBooking(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	client, ok := flightsClient(c)
	if !ok {
		return
	}
	var req confirmFlightRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	bookingsRepo := repositories.BookingRepository{}
	b, err := bookingsRepo.GetOwned(req.BookingID, u.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if b.BookingType != domain.BookingTypeFlight {
		RespondError(c, http.StatusConflict, "booking is not a flight", nil)
		return
	}
	if b.Status != domain.BookingConfirmed {
		RespondError(c, http.StatusConflict, "booking must be paid before ticketing", nil)
		return
	}
	if b.AirlineConfirmation != "" {
		RespondError(c, http.StatusConflict, "booking is already ticketed", nil)
		return
	}
	if len(b.FlightOffer) == 0 {
		RespondError(c, http.StatusConflict, "booking has no stored offer", nil)
		return
	}

	passengers, err := repositories.PassengerRepository{}.ListByBooking(b.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	travelers := make([]amadeus.Traveler, 0, len(passengers))
	for i, p := range passengers {
		t := amadeus.Traveler{
			ID:          strconv.Itoa(i + 1),
			DateOfBirth: p.DateOfBirth,
			Name: amadeus.TravelerName{
				FirstName: strings.ToUpper(p.FirstName),
				LastName:  strings.ToUpper(p.LastName),
			},
			Gender: strings.ToUpper(p.Gender),
		}
		if p.PassportNumber != "" {
			t.Documents = []amadeus.Document{{
				DocumentType:    "PASSPORT",
				Number:          p.PassportNumber,
				ExpiryDate:      p.PassportExpiry,
				IssuanceCountry: p.PassportCountry,
				Nationality:     p.Nationality,
				Holder:          true,
			}}
		}
		travelers = append(travelers, t)
	}

	raw, err := client.CreateOrder(c.Request.Context(), b.FlightOffer, travelers)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	var order struct {
		Data struct {
			ID                string `json:"id"`
			AssociatedRecords []struct {
				Reference string `json:"reference"`
			} `json:"associatedRecords"`
		} `json:"data"`
	}
	confirmation := ""
	if err := json.Unmarshal(raw, &order); err == nil {
		confirmation = order.Data.ID
		if len(order.Data.AssociatedRecords) > 0 && order.Data.AssociatedRecords[0].Reference != "" {
			confirmation = order.Data.AssociatedRecords[0].Reference
		}
	}
	if confirmation == "" {
		utils.LogEvent(middleware.GetRequestID(c), "flights", "order_reference_missing", "booking_id="+b.ID)
		RespondError(c, http.StatusBadGateway, "airline order created but no reference returned", nil)
		return
	}

	ticketNumbers, _ := json.Marshal(gin.H{"order_id": order.Data.ID})
	if err := bookingsRepo.SetAirlineOrder(b.ID, confirmation, ticketNumbers); err != nil {
		RespondDomainError(c, err)
		return
	}
	auditor(c).Record(u.ID, "booking.ticketed", "booking", b.ID, "airline order "+confirmation, nil)
	notifier(c).Notify(u.ID, "booking", "Tickets issued",
		"Your airline confirmation for "+b.BookingReference+" is "+confirmation+".", b.ID)

	RespondOK(c, "airline order created", gin.H{
		"airline_confirmation": confirmation,
		"order":                raw,
	})
}

// CancelFlightBooking cancels the airline order when one exists, then runs
// the normal cancellation and refund policy.
func CancelFlightBooking(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req cancelBookingRequest
	if c.Request.Body != nil {
		_ = c.ShouldBindJSON(&req)
	}

	b, err := repositories.BookingRepository{}.GetOwned(c.Param("id"), u.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if b.AirlineConfirmation != "" && deps.Flights != nil {
		var stored struct {
			OrderID string `json:"order_id"`
		}
		_ = json.Unmarshal(b.TicketNumbers, &stored)
		orderID := stored.OrderID
		if orderID == "" {
			orderID = b.AirlineConfirmation
		}
		if err := deps.Flights.CancelOrder(c.Request.Context(), orderID); err != nil {
			// The refund still proceeds; the order is voided manually.
			utils.LogEvent(middleware.GetRequestID(c), "flights", "order_cancel_failed",
				"booking_id="+b.ID+" err="+err.Error())
		}
	}

	requestRefund := true
	if req.RequestRefund != nil {
		requestRefund = *req.RequestRefund
	}
	result, err := bookings(c).Cancel(u, b.ID, req.Reason, requestRefund, utils.NowUTC())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "flight booking cancelled", result)
}
