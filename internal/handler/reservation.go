package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/library-seat-reservation/internal/middleware"
	"github.com/iliyamo/library-seat-reservation/internal/model"
	"github.com/iliyamo/library-seat-reservation/internal/repository"
	"github.com/iliyamo/library-seat-reservation/internal/service"
)

// ReservationHandler exposes the reservation endpoints.  Domain
// failures are surfaced to the client as HTTP 200 with a
// {success:false, message} body and are never propagated as fatal;
// only the session page redirect deviates from that shape.
type ReservationHandler struct {
	Svc     *service.ReservationService
	Catalog *repository.FloorCatalog
}

// NewReservationHandler constructs a ReservationHandler and panics if
// a dependency is nil.
func NewReservationHandler(svc *service.ReservationService, catalog *repository.FloorCatalog) *ReservationHandler {
	if svc == nil || catalog == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Svc: svc, Catalog: catalog}
}

// ----- DTOs -----

// reserveReq is the body of POST /reserve-seat.  SeatNumber is a
// json.Number so clients may send it as a JSON number or a string; the
// seat key uses its textual form either way.
type reserveReq struct {
	SeatNumber json.Number `json:"seat_number"`
	Floor      string      `json:"floor"`
	UserName   string      `json:"user_name"`
}

type cancelReq struct {
	SeatID   string `json:"seat_id"`
	UserName string `json:"user_name"`
}

type reservationPart struct {
	SeatID     string `json:"seat_id"`
	Floor      string `json:"floor"`
	SeatNumber string `json:"seat_number"`
	ExpiresAt  string `json:"expires_at"`
}

// seatView is one cell of the rendered seat matrix.
type seatView struct {
	Number     int
	SeatKey    string
	Charging   bool
	Reserved   bool
	ReservedBy string
	Mine       bool
}

type floorView struct {
	Name  string
	Seats []seatView
}

// SeatMatrix renders the full seat occupancy page.  Unauthenticated
// callers are redirected to the login page.
func (h *ReservationHandler) SeatMatrix(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Redirect(http.StatusFound, "/login")
	}

	reservations, floors := h.Svc.Snapshot()

	views := make([]floorView, 0, len(floors))
	for _, f := range floors {
		fv := floorView{Name: f.Name, Seats: make([]seatView, 0, f.TotalSeats)}
		for n := 1; n <= f.TotalSeats; n++ {
			key := model.SeatKey(f.ID, strconv.Itoa(n))
			sv := seatView{Number: n, SeatKey: key, Charging: f.HasCharging(n)}
			if res, taken := reservations[key]; taken {
				sv.Reserved = true
				sv.ReservedBy = res.UserName
				sv.Mine = res.RegistrationNumber == user.RegistrationNumber
			}
			fv.Seats = append(fv.Seats, sv)
		}
		views = append(views, fv)
	}

	return c.Render(http.StatusOK, "seat_matrix.html", echo.Map{"User": user, "Floors": views})
}

// ReserveSeat handles POST /reserve-seat.
func (h *ReservationHandler) ReserveSeat(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "Please login first"})
	}

	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "Invalid data"})
	}

	res, err := h.Svc.Reserve(c.Request().Context(), user, req.Floor, req.SeatNumber.String(), req.UserName)
	if err != nil {
		if already, ok := repository.AsAlreadyReserved(err); ok {
			return c.JSON(http.StatusOK, echo.Map{
				"success":              false,
				"message":              "You already have a reservation. Please cancel your existing reservation first.",
				"existing_reservation": already.SeatKey,
			})
		}
		if errors.Is(err, repository.ErrSeatTaken) {
			return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "Seat is already reserved"})
		}
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "Invalid data"})
	}

	floorName := res.Floor
	if f, ok := h.Catalog.Describe(res.Floor); ok {
		floorName = f.Name
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"message":    fmt.Sprintf("Seat %s on %s reserved for %s", res.SeatNumber, floorName, res.UserName),
		"expires_at": res.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// CancelReservation handles POST /cancel-reservation.
func (h *ReservationHandler) CancelReservation(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "Please login first"})
	}

	var req cancelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "Reservation not found or unauthorized"})
	}

	res, err := h.Svc.Cancel(c.Request().Context(), user, req.SeatID, req.UserName)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "Reservation not found or unauthorized"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": fmt.Sprintf("Reservation cancelled for seat %s", res.SeatNumber),
	})
}

// GetUserReservation handles GET /get-user-reservation.
func (h *ReservationHandler) GetUserReservation(c echo.Context) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "Please login first"})
	}

	key, res, err := h.Svc.MyReservation(user)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "Please login first"})
	}
	if key == "" {
		return c.JSON(http.StatusOK, echo.Map{"success": false, "message": "No reservation found"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"reservation": reservationPart{
			SeatID:     key,
			Floor:      res.Floor,
			SeatNumber: res.SeatNumber,
			ExpiresAt:  res.ExpiresAt.UTC().Format(time.RFC3339),
		},
	})
}
