package ticket

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"eventhive/internal/entities"
)

// The fixed ticket layout. Field order and formatting are stable: rendering
// the same booking twice yields byte-identical output.
const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<title>Event Hive Ticket</title>
</head>
<body>
<h1>Event Hive</h1>
<h2>EVENT TICKET</h2>
<section>
<h3>Event Details</h3>
<p>Title: {{.EventTitle}}</p>
<p>Date: {{.DateRange}}</p>
<p>Venue: {{.Venue}}</p>
</section>
<section>
<h3>Attendee Information</h3>
<p>Name: {{.AttendeeName}}</p>
<p>Email: {{.AttendeeEmail}}</p>
<p>Mobile: {{.AttendeeMobile}}</p>
</section>
<section>
<h3>Ticket Details</h3>
<p>Number of Tickets: {{.TicketCount}}</p>
<p>Price per Ticket: {{.UnitPrice}} {{.Currency}}</p>
<p>Total Amount: {{.TotalAmount}} {{.Currency}}</p>
</section>
<section>
<h3>Payment Information</h3>
<p>Payment ID: {{.PaymentReference}}</p>
<p>Booking Date: {{.IssuedAt}}</p>
</section>
<footer>
<p>Thank you for using Event Hive!</p>
<p>For any queries, please contact support@eventhive.com</p>
</footer>
</body>
</html>
`

var tmpl = template.Must(template.New("ticket").Parse(documentTemplate))

type templateData struct {
	EventTitle       string
	DateRange        string
	Venue            string
	AttendeeName     string
	AttendeeEmail    string
	AttendeeMobile   string
	TicketCount      int
	UnitPrice        string
	Currency         string
	TotalAmount      string
	PaymentReference string
	IssuedAt         string
}

// Render produces the ticket document for a booking. The total amount is
// taken from the booking as persisted, never recomputed here.
func Render(booking entities.Booking, event entities.EventSummary, issuedAt time.Time) ([]byte, error) {
	data := templateData{
		EventTitle:       event.Title,
		DateRange:        formatDateRange(event.StartDate, event.EndDate),
		Venue:            event.Venue,
		AttendeeName:     booking.AttendeeName,
		AttendeeEmail:    booking.AttendeeEmail,
		AttendeeMobile:   booking.AttendeeMobile,
		TicketCount:      booking.TicketCount,
		UnitPrice:        event.TicketPrice.Display(),
		Currency:         event.TicketPrice.Currency,
		TotalAmount:      booking.AmountPaid.Display(),
		PaymentReference: booking.PaymentReference,
		IssuedAt:         issuedAt.UTC().Format("02 Jan 2006 15:04"),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render ticket: %w", err)
	}

	return buf.Bytes(), nil
}

func formatDateRange(start, end time.Time) string {
	const layout = "02 Jan 2006"

	if end.IsZero() || end.Equal(start) {
		return start.Format(layout)
	}

	return start.Format(layout) + " to " + end.Format(layout)
}
