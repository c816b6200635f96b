package cancel_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spoc-booking-service/api"
	"spoc-booking-service/internal/http-server/handlers/bookings/cancel"
	"spoc-booking-service/pkg/response"
)

type cancellerStub struct {
	cancellation *api.CancellationResponse
	err          error

	gotID string
}

func (c *cancellerStub) CancelBooking(_ context.Context, bookingID string) (*api.CancellationResponse, error) {
	c.gotID = bookingID
	return c.cancellation, c.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCancelHandler(t *testing.T) {
	cases := []struct {
		name        string
		bookingID   string
		svcErr      error
		wantStatus  int
		wantErrCode string
	}{
		{
			name:       "success",
			bookingID:  "ab12cd34",
			wantStatus: http.StatusOK,
		},
		{
			name:        "not found",
			bookingID:   "missing",
			svcErr:      response.ErrBookingNotFound,
			wantStatus:  http.StatusNotFound,
			wantErrCode: string(response.BOOKING_NOT_FOUND),
		},
		{
			name:        "already cancelled",
			bookingID:   "ab12cd34",
			svcErr:      response.ErrBookingCancelled,
			wantStatus:  http.StatusBadRequest,
			wantErrCode: string(response.ALREADY_CANCELLED),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &cancellerStub{
				cancellation: &api.CancellationResponse{
					Message:   "Booking cancelled successfully",
					BookingID: tc.bookingID,
					Status:    "Cancelled",
				},
				err: tc.svcErr,
			}

			router := chi.NewRouter()
			router.Post("/bookings/{id}/cancel", cancel.New(discardLogger(), stub))

			req := httptest.NewRequest(http.MethodPost, "/bookings/"+tc.bookingID+"/cancel", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.bookingID, stub.gotID)

			var resp cancel.Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

			if tc.wantErrCode != "" {
				assert.Equal(t, tc.wantErrCode, resp.Code)
				assert.Nil(t, resp.Cancellation)
			} else {
				require.NotNil(t, resp.Cancellation)
				assert.Equal(t, "Booking cancelled successfully", resp.Cancellation.Message)
				assert.Equal(t, "Cancelled", resp.Cancellation.Status)
			}
		})
	}
}
