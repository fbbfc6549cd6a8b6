package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/aklilumengesha/Battery-Swap/internal/models"
)

// BuildBookingsXLSX renders the user's booking history as a spreadsheet.
func BuildBookingsXLSX(user *models.User, bookings []models.Booking) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "bookings"
	f.SetSheetName("Sheet1", sheet)

	_ = f.SetCellValue(sheet, "A1", "Booking History")
	_ = f.SetCellValue(sheet, "A2", "Account")
	_ = f.SetCellValue(sheet, "B2", user.Email)
	_ = f.SetCellValue(sheet, "A3", "Generated")
	_ = f.SetCellValue(sheet, "B3", time.Now().UTC().Format(time.RFC3339))

	headers := []string{"Order", "Station", "Battery Company", "Price", "Booked", "Expires", "Paid", "Collected"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 5)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, b := range bookings {
		row := i + 6
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), b.ID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), b.Station.Name)
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), b.Battery.CompanyName)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), b.Battery.Price)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), b.BookedTime.Format(time.RFC3339))
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), b.ExpiryTime.Format(time.RFC3339))
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), b.IsPaid)
		_ = f.SetCellValue(sheet, fmt.Sprintf("H%d", row), b.IsCollected)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildReceiptPDF renders a collection receipt for one booking.
func BuildReceiptPDF(booking *models.Booking) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Battery Swap Receipt")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Order: #%d", booking.ID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Station: %s", booking.Station.Name))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Battery: %s", booking.Battery.CompanyName))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Price: %.2f", booking.Battery.Price))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Booked: %s", booking.BookedTime.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Expires: %s", booking.ExpiryTime.Format(time.RFC3339)))
	pdf.Ln(5)

	status := "reserved"
	if booking.IsCollected {
		status = "collected"
	}
	pdf.Cell(0, 6, fmt.Sprintf("Status: %s", status))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
