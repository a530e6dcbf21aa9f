package ticket_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventhive/internal/entities"
	"eventhive/internal/ticket"
)

func fixtureBooking() (entities.Booking, entities.EventSummary) {
	event := entities.EventSummary{
		ID:          uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Title:       "GopherCon India",
		Venue:       "Bangalore International Centre",
		StartDate:   time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC),
		TicketPrice: entities.Money{Amount: 50000, Currency: "INR"},
	}

	booking := entities.Booking{
		ID:               uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		EventID:          event.ID,
		AttendeeName:     "Aman Verma",
		AttendeeEmail:    "aman@example.com",
		AttendeeMobile:   "9876543210",
		TicketCount:      3,
		AmountPaid:       entities.Money{Amount: 150000, Currency: "INR"},
		PaymentReference: "pay_123",
	}

	return booking, event
}

func TestRender_Deterministic(t *testing.T) {
	booking, event := fixtureBooking()
	issuedAt := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	first, err := ticket.Render(booking, event, issuedAt)
	require.NoError(t, err)

	second, err := ticket.Render(booking, event, issuedAt)
	require.NoError(t, err)

	assert.Equal(t, first, second, "rendering the same booking twice must be byte-identical")
}

func TestRender_ContainsBookingDetails(t *testing.T) {
	booking, event := fixtureBooking()

	document, err := ticket.Render(booking, event, time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	html := string(document)

	assert.Contains(t, html, "Event Hive")
	assert.Contains(t, html, "GopherCon India")
	assert.Contains(t, html, "Bangalore International Centre")
	assert.Contains(t, html, "10 Feb 2026 to 12 Feb 2026")
	assert.Contains(t, html, "Aman Verma")
	assert.Contains(t, html, "aman@example.com")
	assert.Contains(t, html, "9876543210")
	assert.Contains(t, html, "Number of Tickets: 3")
	assert.Contains(t, html, "Total Amount: 1500 INR")
	assert.Contains(t, html, "pay_123")
	assert.Contains(t, html, "support@eventhive.com")
}

func TestRender_TotalComesFromBookingNotPrice(t *testing.T) {
	booking, event := fixtureBooking()
	// A stale or discounted amount on the booking must be printed as is.
	booking.AmountPaid = entities.Money{Amount: 120000, Currency: "INR"}

	document, err := ticket.Render(booking, event, time.Now())
	require.NoError(t, err)

	assert.Contains(t, string(document), "Total Amount: 1200 INR")
}

func TestRender_SingleDayEvent(t *testing.T) {
	booking, event := fixtureBooking()
	event.EndDate = event.StartDate

	document, err := ticket.Render(booking, event, time.Now())
	require.NoError(t, err)

	html := string(document)
	assert.Contains(t, html, "Date: 10 Feb 2026")
	assert.NotContains(t, html, "10 Feb 2026 to")
}
