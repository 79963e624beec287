package requests

import (
	"context"
	"testing"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/propagation"

	"github.com/mobilkita/tradein/internal/nats"
	"github.com/mobilkita/tradein/internal/wizard"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	embedded, err := nats.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = embedded.Close() })

	stream, err := nats.SetupRequestStream(ctx, embedded.JS)
	require.NoError(t, err)
	store := NewStore(embedded.JS, stream)
	store.now = func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC) }
	return store
}

func validPayload() map[string]string {
	return map[string]string{
		"name":                  "Budi Santoso",
		"phone":                 "+62 81234567890",
		"email":                 "budi@example.com",
		"tradeInBrand":          "Toyota",
		"tradeInYear":           "2020",
		"tradeInTravelDistance": "50000",
		"tradeInStnkExpiry":     "2025-01-01",
		"locationType":          "home",
		"inspectionDate":        "2026-11-02",
	}
}

func TestCheck(t *testing.T) {
	store := NewStore(nil, nil)

	require.NoError(t, store.Check(validPayload()))

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"missing name", "name", ""},
		{"bad email", "email", "budi@"},
		{"bad phone", "phone", "+62 abc"},
		{"bad date", "inspectionDate", "02/11/2026"},
		{"bad year", "tradeInYear", "20"},
		{"bad distance", "tradeInTravelDistance", "-"},
		{"bad location", "locationType", "office"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			p[tt.key] = tt.value

			err := store.Check(p)
			var rejected *RejectedError
			require.ErrorAs(t, err, &rejected)
			require.Contains(t, rejected.Problems, tt.key)
			require.Len(t, rejected.Problems, 1)
		})
	}
}

func TestReference(t *testing.T) {
	at := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	require.Equal(t, "trade-in-budi-santoso-20261018-093000", Reference("trade-in", "Budi Santoso", at))
}

func TestSubmitAndList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	req, err := store.Submit(ctx, "trade-in", validPayload())
	require.NoError(t, err)
	require.Equal(t, "1", req.ID)
	require.Equal(t, "trade-in-budi-santoso-20261018-093000", req.Reference)

	sell := map[string]string{"name": "Sari", "phone": "+62 8129876543", "email": "sari@example.com", "brand": "Honda"}
	_, err = store.Submit(ctx, "sell", sell)
	require.NoError(t, err)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "trade-in", all[0].Flavor)
	require.Equal(t, "sell", all[1].Flavor)
	require.Equal(t, "2", all[1].ID)

	sells, err := store.List(ctx, "sell")
	require.NoError(t, err)
	require.Len(t, sells, 1)
	require.Equal(t, "Honda", sells[0].Payload["brand"])

	none, err := store.List(ctx, "notify")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestSubmitRejectedIsNotStored(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	p := validPayload()
	delete(p, "email")
	_, err := store.Submit(ctx, "trade-in", p)
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestSubmitterAdapter(t *testing.T) {
	ctx := context.Background()
	sub := Submitter{Store: newTestStore(t)}

	res, err := sub.Submit(ctx, wizard.TradeIn, validPayload())
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, "trade-in-budi-santoso-20261018-093000", res.Data["reference"])

	res, err = sub.Submit(ctx, wizard.TradeIn, wizard.Payload{"name": "Budi"})
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Contains(t, res.Error, "email")
}

func TestHeaderCarrierPropagation(t *testing.T) {
	member, err := baggage.NewMember("request.flavor", "sell")
	require.NoError(t, err)
	bag, err := baggage.New(member)
	require.NoError(t, err)
	ctx := baggage.ContextWithBaggage(context.Background(), bag)

	prop := propagation.Baggage{}
	msg := &natsgo.Msg{Subject: nats.SubjectForFlavor("sell")}
	prop.Inject(ctx, (*nats.HeaderCarrier)(msg))
	require.NotEmpty(t, msg.Header)

	got := baggage.FromContext(prop.Extract(context.Background(), (*nats.HeaderCarrier)(msg)))
	require.Equal(t, "sell", got.Member("request.flavor").Value())
}
