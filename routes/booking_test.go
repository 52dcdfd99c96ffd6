package routes

import (
	"encoding/json"
	"net/http"
	"testing"

	"parkpal-server/models"
	"parkpal-server/storage"
)

func bookingPayload(spaceID uint) map[string]interface{} {
	return map[string]interface{}{
		"spaceID":       spaceID,
		"customerName":  "Dana Cole",
		"customerEmail": "Dana.Cole@Example.com",
		"vehicleReg":    "ab12 cde",
		"vehicleType":   "car",
		"amount":        1250,
		"currency":      "GBP",
	}
}

func TestCreateBooking(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)

	space := seedSpace(t, "Driveway", "Kennington, London", "SE17 3RY", 2.5, 2, true)

	resp := doJSON(t, app, http.MethodPost, "/api/booking/", "", bookingPayload(space.ID))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var booking models.Booking
	if err := json.Unmarshal(resp.Body.Bytes(), &booking); err != nil {
		t.Fatalf("failed to decode booking: %v", err)
	}
	if booking.Reference == "" {
		t.Fatal("expected a generated booking reference")
	}
	if booking.CustomerEmail != "dana.cole@example.com" {
		t.Fatalf("expected lowercased email, got %q", booking.CustomerEmail)
	}
	if booking.VehicleReg != "AB12CDE" {
		t.Fatalf("expected normalized vehicle reg, got %q", booking.VehicleReg)
	}
	if booking.Currency != "gbp" {
		t.Fatalf("expected lowercased currency, got %q", booking.Currency)
	}

	// Booking claims one space on the listing's counter
	var reloaded models.ParkingSpace
	storage.DB.First(&reloaded, space.ID)
	if reloaded.BookedSpaces != 1 {
		t.Fatalf("expected booked counter at 1, got %d", reloaded.BookedSpaces)
	}
}

func TestCreateBookingRejectsInvalidAmount(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)

	space := seedSpace(t, "Driveway", "Kennington, London", "SE17 3RY", 2.5, 1, true)

	for _, amount := range []int{0, -500} {
		payload := bookingPayload(space.ID)
		payload["amount"] = amount
		resp := doJSON(t, app, http.MethodPost, "/api/booking/", "", payload)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("amount %d: expected 400, got %d", amount, resp.Code)
		}
	}

	// Counter untouched by rejected requests
	var reloaded models.ParkingSpace
	storage.DB.First(&reloaded, space.ID)
	if reloaded.BookedSpaces != 0 {
		t.Fatalf("expected booked counter untouched, got %d", reloaded.BookedSpaces)
	}
}

func TestCreateBookingWhenFull(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)

	space := seedSpace(t, "Driveway", "Kennington, London", "SE17 3RY", 2.5, 1, true)

	resp := doJSON(t, app, http.MethodPost, "/api/booking/", "", bookingPayload(space.ID))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected first booking to succeed, got %d", resp.Code)
	}

	resp = doJSON(t, app, http.MethodPost, "/api/booking/", "", bookingPayload(space.ID))
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 when the listing is full, got %d: %s", resp.Code, resp.Body.String())
	}

	// Counter never exceeds the listing's capacity
	var reloaded models.ParkingSpace
	storage.DB.First(&reloaded, space.ID)
	if reloaded.BookedSpaces != 1 {
		t.Fatalf("expected booked counter capped at 1, got %d", reloaded.BookedSpaces)
	}
}

func TestCreateBookingUnavailableSpace(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)

	space := seedSpace(t, "Driveway", "Kennington, London", "SE17 3RY", 2.5, 3, false)

	resp := doJSON(t, app, http.MethodPost, "/api/booking/", "", bookingPayload(space.ID))
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a disabled listing, got %d", resp.Code)
	}
}

func TestCreateBookingUnknownSpace(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/booking/", "", bookingPayload(999))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown space, got %d", resp.Code)
	}
}

func TestGetBookingsBySpaceIDHostOnly(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)

	host := seedUser(t, "Amira", "Hassan", "amira@example.com", "user")
	other := seedUser(t, "Ben", "Okafor", "ben@example.com", "user")
	admin := seedUser(t, "Ada", "Root", "ada@example.com", "admin")

	space := seedSpace(t, "Driveway", "Kennington, London", "SE17 3RY", 2.5, 2, true)
	storage.DB.Model(&space).Update("host_id", host.ID)

	resp := doJSON(t, app, http.MethodPost, "/api/booking/", "", bookingPayload(space.ID))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	// Bookings carry customer contact details; only host or admin may list them
	resp = doJSON(t, app, http.MethodGet, "/api/booking/space/1", signTestToken(t, other.ID, "user"), nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-host, got %d", resp.Code)
	}

	for _, tok := range []string{signTestToken(t, host.ID, "user"), signTestToken(t, admin.ID, "admin")} {
		resp = doJSON(t, app, http.MethodGet, "/api/booking/space/1", tok, nil)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for host/admin, got %d: %s", resp.Code, resp.Body.String())
		}
		var bookings []models.Booking
		if err := json.Unmarshal(resp.Body.Bytes(), &bookings); err != nil || len(bookings) != 1 {
			t.Fatalf("expected one booking, got %s (err %v)", resp.Body.String(), err)
		}
	}
}

func TestUpdateBookingStatusDoesNotPersist(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)

	space := seedSpace(t, "Driveway", "Kennington, London", "SE17 3RY", 2.5, 1, true)
	resp := doJSON(t, app, http.MethodPost, "/api/booking/", "", bookingPayload(space.ID))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var booking models.Booking
	json.Unmarshal(resp.Body.Bytes(), &booking)

	token := signTestToken(t, 1, "user")
	resp = doJSON(t, app, http.MethodPost, "/api/booking/1/status", token,
		map[string]interface{}{"status": "cancelled"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 ack, got %d: %s", resp.Code, resp.Body.String())
	}

	// Bookings are immutable; the transition is acknowledged but not stored
	var reloaded models.Booking
	storage.DB.First(&reloaded, booking.ID)
	if reloaded.Reference != booking.Reference || reloaded.Amount != booking.Amount {
		t.Fatalf("expected booking unchanged, got %+v", reloaded)
	}
}

func TestGetVehicleTypes(t *testing.T) {
	setupTestDB(t)
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/booking/vehicle-types", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var types []struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &types); err != nil {
		t.Fatalf("failed to decode vehicle types: %v", err)
	}
	if len(types) != 5 || types[0].ID != "car" {
		t.Fatalf("unexpected vehicle types: %+v", types)
	}
}
