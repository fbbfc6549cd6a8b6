package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aklilumengesha/Battery-Swap/internal/http/middleware"
	"github.com/aklilumengesha/Battery-Swap/internal/report"
	"github.com/aklilumengesha/Battery-Swap/internal/repository"
	"github.com/aklilumengesha/Battery-Swap/internal/service"
)

// NewExportOrdersHandler handles GET /user/orders/export.xlsx.
func NewExportOrdersHandler(bookings *service.BookingService, users *repository.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeFail(w, http.StatusUnauthorized, "authentication required")
			return
		}

		user, err := users.GetByID(r.Context(), userID)
		if err != nil {
			writeFail(w, http.StatusInternalServerError, "failed to export bookings")
			return
		}
		orders, err := bookings.List(r.Context(), userID)
		if err != nil {
			writeFail(w, http.StatusInternalServerError, "failed to export bookings")
			return
		}

		data, err := report.BuildBookingsXLSX(user, orders)
		if err != nil {
			writeFail(w, http.StatusInternalServerError, "failed to export bookings")
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="bookings.xlsx"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

// NewOrderReceiptHandler handles GET /user/order/{id}/receipt.pdf.
func NewOrderReceiptHandler(bookings *service.BookingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			writeFail(w, http.StatusUnauthorized, "authentication required")
			return
		}

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			writeFail(w, http.StatusBadRequest, "invalid order id")
			return
		}

		order, err := bookings.Get(r.Context(), id, userID)
		if err != nil {
			if errors.Is(err, repository.ErrBookingNotFound) {
				writeFail(w, http.StatusNotFound, "Order not found")
				return
			}
			writeFail(w, http.StatusInternalServerError, "failed to build receipt")
			return
		}

		data, err := report.BuildReceiptPDF(order)
		if err != nil {
			writeFail(w, http.StatusInternalServerError, "failed to build receipt")
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="receipt.pdf"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
