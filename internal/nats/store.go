package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	// RequestStream holds every submitted wizard request.
	RequestStream = "tradein_requests"
	// InventoryBucket is the key-value bucket holding inventory products.
	InventoryBucket = "tradein_inventory"

	requestSubjectRoot = "tradein.requests"
)

// SubjectForFlavor returns the subject requests of one wizard flavor are
// published on. Example: "tradein.requests.trade-in"
func SubjectForFlavor(flavor string) string {
	return fmt.Sprintf("%s.%s", requestSubjectRoot, flavor)
}

// AllRequestsSubject matches requests of every flavor.
func AllRequestsSubject() string {
	return requestSubjectRoot + ".>"
}

// SetupRequestStream creates or updates the request stream with one-year
// retention.
func SetupRequestStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     RequestStream,
		Subjects: []string{AllRequestsSubject()},
		Storage:  jetstream.FileStorage,
		MaxAge:   365 * 24 * time.Hour,
	})
}

// SetupInventoryBucket creates or updates the inventory key-value bucket.
// Only the latest revision of each product is kept.
func SetupInventoryBucket(ctx context.Context, js jetstream.JetStream) (jetstream.KeyValue, error) {
	return js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      InventoryBucket,
		Description: "tradein inventory products",
		History:     1,
		Storage:     jetstream.FileStorage,
	})
}
