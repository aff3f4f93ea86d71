package booking

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-sewa/internal/pricing"
)

// fakeRow feeds scanBooking the value kinds the driver produces: uuids and
// timestamps as native types, NUMERIC columns as their text form, the
// aggregated add-ons as a JSON blob.
type fakeRow struct {
	values []any
}

func (f fakeRow) Scan(dest ...any) error {
	if len(dest) != len(f.values) {
		return fmt.Errorf("scan: want %d destinations, got %d", len(f.values), len(dest))
	}
	for i, src := range f.values {
		switch d := dest[i].(type) {
		case *uuid.UUID:
			*d = src.(uuid.UUID)
		case *string:
			*d = src.(string)
		case **string:
			if src == nil {
				*d = nil
			} else {
				s := src.(string)
				*d = &s
			}
		case *int:
			*d = src.(int)
		case *decimal.Decimal:
			v, err := decimal.NewFromString(src.(string))
			if err != nil {
				return err
			}
			*d = v
		case *Status:
			*d = Status(src.(string))
		case *[]byte:
			*d = []byte(src.(string))
		case *time.Time:
			*d = src.(time.Time)
		default:
			return fmt.Errorf("scan: unhandled destination %T", dest[i])
		}
	}
	return nil
}

func bookingRow(total decimal.Decimal, addonsJSON string) fakeRow {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	return fakeRow{values: []any{
		uuid.New(), "BK-1767949200000", uuid.New(), uuid.New(), uuid.New(),
		now, now.AddDate(0, 0, 45), 45, 1, 15,
		"35.00", "650.00", total.StringFixed(2), nil, "PENDING",
		"Jane Renter", "Toyota Avanza", "Sewa Mobil Jaya",
		addonsJSON,
		now, now,
	}}
}

func TestScanBookingRoundTripsQuotedTotal(t *testing.T) {
	// 45 days quoted at one monthly period plus 15 daily: the persisted
	// NUMERIC text must decode back to the exact quoted total.
	quote := pricing.Breakdown(decimal.NewFromInt(1950), decimal.Zero)

	b, err := scanBooking(bookingRow(quote.TotalWithVAT, `[]`))
	require.NoError(t, err)
	require.True(t, b.TotalAmount.Equal(quote.TotalWithVAT),
		"total %s != quote %s", b.TotalAmount, quote.TotalWithVAT)
	require.Equal(t, "2047.50", b.TotalAmount.StringFixed(2))
	require.Empty(t, b.AddOns)
	require.Nil(t, b.Notes)
	require.Equal(t, StatusPending, b.Status)
	require.Equal(t, "Jane Renter", b.CustomerName)
}

func TestScanBookingDecodesAggregatedAddOns(t *testing.T) {
	addonID := uuid.New()
	// json_build_object renders NUMERIC columns as JSON numbers.
	addons := fmt.Sprintf(
		`[{"id":%q,"name":"GPS","dailyRate":15.5,"quantity":1,"totalAmount":465}]`,
		addonID,
	)

	b, err := scanBooking(bookingRow(decimal.RequireFromString("2047.50"), addons))
	require.NoError(t, err)
	require.Len(t, b.AddOns, 1)
	require.Equal(t, addonID, b.AddOns[0].ID)
	require.Equal(t, "GPS", b.AddOns[0].Name)
	require.True(t, b.AddOns[0].DailyRate.Equal(decimal.RequireFromString("15.5")))
	require.True(t, b.AddOns[0].TotalAmount.Equal(decimal.NewFromInt(465)))
}

func TestScanBookingRejectsMalformedAddOns(t *testing.T) {
	_, err := scanBooking(bookingRow(decimal.NewFromInt(100), `{not-json`))
	require.ErrorContains(t, err, "decode addons")
}
