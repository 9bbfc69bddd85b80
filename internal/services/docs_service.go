package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"thrive/internal/domain/models"
	"thrive/internal/repositories"
	"thrive/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders booking invoices and e-tickets as PDFs.
type DocsService struct {
	BookingRepo   repositories.BookingRepository
	PassengerRepo repositories.PassengerRepository
	UserRepo      repositories.UserRepository
	PaymentRepo   repositories.PaymentRepository
	RequestID     string
}

type bookingDocData struct {
	Booking    models.Booking
	User       models.User
	Passengers []models.Passenger
	Payment    *models.Payment
}

func (s DocsService) loadBookingDocData(bookingID, userID string) (bookingDocData, error) {
	var d bookingDocData
	b, err := s.BookingRepo.GetOwned(bookingID, userID)
	if err != nil {
		return d, err
	}
	u, err := s.UserRepo.GetByID(userID)
	if err != nil {
		return d, err
	}
	passengers, err := s.PassengerRepo.ListByBooking(b.ID)
	if err != nil {
		return d, err
	}
	d.Booking = b
	d.User = u
	d.Passengers = passengers
	if p, err := s.PaymentRepo.GetPaidByBooking(b.ID); err == nil {
		d.Payment = &p
	}
	return d, nil
}

func (s DocsService) GenerateInvoice(bookingID, userID string) ([]byte, string, error) {
	d, err := s.loadBookingDocData(bookingID, userID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_invoice", "booking_id="+bookingID)
	return buildInvoicePDF(d)
}

func (s DocsService) GenerateETicket(bookingID, userID string) ([]byte, string, error) {
	d, err := s.loadBookingDocData(bookingID, userID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", "booking_id="+bookingID)
	return buildETicketPDF(d)
}

func buildInvoicePDF(d bookingDocData) ([]byte, string, error) {
	b := d.Booking
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Invoice No : INV-"+b.BookingReference)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date       : "+time.Now().UTC().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Name  : "+docSafe(d.User.FullName()))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Email : "+docSafe(d.User.Email))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Details:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, "1) "+bookingDescription(b), "", "", false)
	pdf.Ln(2)

	lines := []struct {
		label string
		cents int64
	}{
		{"Base price", b.BasePriceCents},
		{"Service fee", b.ServiceFeeCents},
		{"Taxes", b.TaxesCents},
		{"Discount", -b.DiscountCents},
	}
	for _, l := range lines {
		if l.cents == 0 {
			continue
		}
		pdf.Cell(0, 6, fmt.Sprintf("%-12s: %s", l.label, utils.FormatCents(l.cents)))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatCents(b.TotalCents))
	pdf.Ln(10)

	if d.Payment != nil {
		pdf.SetFont("Helvetica", "", 11)
		paid := "Paid via " + docSafe(d.Payment.PaymentMethod)
		if d.Payment.CardLast4 != "" {
			paid += " ending " + d.Payment.CardLast4
		}
		paid += " (ref " + d.Payment.PaymentReference + ")"
		pdf.Cell(0, 6, paid)
		pdf.Ln(8)
	}

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "This invoice covers all travelers on the booking.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "INVOICE_" + b.BookingReference + ".pdf", nil
}

func buildETicketPDF(d bookingDocData) ([]byte, string, error) {
	b := d.Booking
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	header := []string{
		"Booking Ref   : " + b.BookingReference,
		"Trip          : " + bookingDescription(b),
		"Departure     : " + docDate(b.DepartureDate),
		"Return        : " + docDate(b.ReturnDate),
		"Class         : " + docSafe(b.TravelClass),
	}
	if b.AirlineConfirmation != "" {
		header = append(header, "Airline Conf  : "+b.AirlineConfirmation)
	}
	for _, line := range header {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Travelers:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for i, p := range d.Passengers {
		line := fmt.Sprintf("%d. %s %s %s (%s)", i+1, p.Title, p.FirstName, p.LastName, p.PassengerType)
		if p.TicketNumber != "" {
			line += " ticket " + p.TicketNumber
		}
		if p.SeatNumber != "" {
			line += " seat " + p.SeatNumber
		}
		pdf.Cell(0, 6, strings.Join(strings.Fields(line), " "))
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Present this e-ticket with a valid passport or ID at check-in.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "ETICKET_" + b.BookingReference + ".pdf", nil
}

func bookingDescription(b models.Booking) string {
	switch {
	case b.Origin != "" && b.Destination != "":
		return fmt.Sprintf("%s %s -> %s", titleWord(b.BookingType), b.Origin, b.Destination)
	case b.Destination != "":
		return "Tour package: " + b.Destination
	default:
		return titleWord(b.BookingType) + " booking"
	}
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func docSafe(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func docDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
