package paymentservice_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avlasov/TMS-InventoryService/internal/integrations/paymentservice"
)

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestGetPaymentStatus_Paid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/payments/by-booking/42", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"bookingId":42,"status":"paid","amount":"300.00","currency":"USD"}`))
	}))
	defer srv.Close()

	client := paymentservice.NewClient(srv.URL, time.Second, nopLogger{})

	payment, err := client.GetPaymentStatus(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(42), payment.BookingID)
	assert.Equal(t, paymentservice.StatusPaid, payment.Status)
	assert.Equal(t, "300.00", payment.Amount)
}

func TestGetPaymentStatus_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := paymentservice.NewClient(srv.URL, time.Second, nopLogger{})

	_, err := client.GetPaymentStatus(context.Background(), 42)
	assert.ErrorIs(t, err, paymentservice.ErrPaymentNotFound)
}

func TestGetPaymentStatus_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := paymentservice.NewClient(srv.URL, time.Second, nopLogger{})

	_, err := client.GetPaymentStatus(context.Background(), 42)
	assert.ErrorIs(t, err, paymentservice.ErrServiceDegraded)
}

func TestGetPaymentStatus_Unreachable(t *testing.T) {
	// Закрытый сервер: транспортная ошибка
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	client := paymentservice.NewClient(srv.URL, time.Second, nopLogger{})

	_, err := client.GetPaymentStatus(context.Background(), 42)
	assert.ErrorIs(t, err, paymentservice.ErrServiceDegraded)
}

func TestGetPaymentStatus_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"bookingId":`))
	}))
	defer srv.Close()

	client := paymentservice.NewClient(srv.URL, time.Second, nopLogger{})

	_, err := client.GetPaymentStatus(context.Background(), 42)
	assert.ErrorIs(t, err, paymentservice.ErrServiceDegraded)
}
