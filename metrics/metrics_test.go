package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eamirgh/gopay/payment"
)

func TestListenerCounts(t *testing.T) {
	m := New()
	m.MustRegister(prometheus.NewRegistry())

	ctx := context.Background()
	m.Purchased(ctx, payment.PurchasedEvent{Driver: "Zibal", TransactionID: "1"})
	m.Purchased(ctx, payment.PurchasedEvent{Driver: "zibal", TransactionID: "2"})
	m.Verified(ctx, payment.VerifiedEvent{Driver: "zarinpal"})

	assert.Equal(t, float64(2), testutil.ToFloat64(m.payments.WithLabelValues("zibal", "purchased")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.payments.WithLabelValues("zarinpal", "verified")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.payments.WithLabelValues("zarinpal", "purchased")))
}

func TestInstrumentClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := New()
	reg := prometheus.NewRegistry()
	m.MustRegister(reg)

	base := &http.Client{}
	client := m.InstrumentClient(base)
	assert.Nil(t, base.Transport, "the given client must not be modified")

	resp, err := client.Post(srv.URL, "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("200", "post")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.inFlight))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestDuration))
}
