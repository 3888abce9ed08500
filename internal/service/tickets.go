package service

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/models"
)

// BuildETicket renders a booking as a printable PDF. The data comes
// entirely from the ledger entry's denormalized snapshot, so tickets for
// retired trains render identically.
func BuildETicket(booking *models.Booking) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, fmt.Sprintf("PNR: %s", booking.PNRNumber))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Train        : %s (%s)", booking.TrainName, booking.TrainNumber),
		fmt.Sprintf("From         : %s, %s, %s", booking.From.Station, booking.From.District, booking.From.State),
		fmt.Sprintf("To           : %s, %s, %s", booking.To.Station, booking.To.District, booking.To.State),
		fmt.Sprintf("Departure    : %s", booking.DepartureTime.Format("02 Jan 2006 15:04")),
		fmt.Sprintf("Journey Date : %s", booking.JourneyDate.Format("02 Jan 2006")),
		fmt.Sprintf("Class        : %s", booking.Class),
		fmt.Sprintf("Status       : %s", booking.Status),
		fmt.Sprintf("Total Fare   : Rs. %d", booking.TotalFare),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for i, p := range booking.Passengers {
		seat := "-"
		if p.SeatNumber != nil {
			seat = *p.SeatNumber
		}
		pdf.Cell(0, 6, fmt.Sprintf("%d. %s  (age %d, %s)  seat %s", i+1, p.Name, p.Age, p.Gender, seat))
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Carry a valid photo ID for every passenger. Ticket status can be checked anytime with the PNR.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s.pdf", booking.PNRNumber)
	return buf.Bytes(), filename, nil
}
