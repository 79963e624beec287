// Package requests stores submitted wizard requests in a JetStream stream.
// Requests are append-only: each submission is one message on the subject of
// its flavor, and listing replays the stream.
package requests

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mobilkita/tradein/internal/logger"
	"github.com/mobilkita/tradein/internal/nats"
)

const tracerName = "internal/requests"

// Request is one submitted wizard payload.
type Request struct {
	ID          string            `json:"id"` // stream sequence
	Reference   string            `json:"reference"`
	Flavor      string            `json:"flavor"`
	Payload     map[string]string `json:"payload"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

// RejectedError lists the payload keys that failed server-side checks.
type RejectedError struct {
	Problems map[string]string
}

func (e *RejectedError) Error() string {
	keys := make([]string, 0, len(e.Problems))
	for k := range e.Problems {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Problems[k]
	}
	return "request rejected: " + strings.Join(parts, "; ")
}

// rules are validator tags applied to payload keys. Contact keys are
// required for every flavor; the rest are checked only when present.
var rules = map[string]string{
	"name":                  "required",
	"phone":                 "required,e164",
	"email":                 "required,email",
	"inspectionDate":        "omitempty,datetime=2006-01-02",
	"stnkExpiry":            "omitempty,datetime=2006-01-02",
	"tradeInStnkExpiry":     "omitempty,datetime=2006-01-02",
	"year":                  "omitempty,numeric,len=4",
	"tradeInYear":           "omitempty,numeric,len=4",
	"travelDistance":        "omitempty,numeric",
	"tradeInTravelDistance": "omitempty,numeric",
	"expectedPrice":         "omitempty,numeric",
	"locationType":          "omitempty,oneof=showroom home",
}

// Store publishes and replays requests.
type Store struct {
	js       jetstream.JetStream
	stream   jetstream.Stream
	validate *validator.Validate
	now      func() time.Time
}

// NewStore creates a Store over the request stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{
		js:       js,
		stream:   stream,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Check applies the server-side rules to payload.
func (s *Store) Check(payload map[string]string) error {
	problems := map[string]string{}
	for key, tag := range rules {
		value := payload[key]
		if key == "phone" {
			// Stored as "+62 8123..."; E.164 has no spaces.
			value = strings.ReplaceAll(value, " ", "")
		}
		if err := s.validate.Var(value, tag); err != nil {
			problems[key] = describe(err)
		}
	}
	if len(problems) > 0 {
		return &RejectedError{Problems: problems}
	}
	return nil
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	switch fe := verrs[0]; fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is not a valid email address"
	case "e164":
		return "is not a valid phone number"
	case "datetime":
		return "must be a date (YYYY-MM-DD)"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
		}
		return "failed " + fe.Tag()
	}
}

// Reference builds the human-readable reference of a request.
func Reference(flavor, name string, at time.Time) string {
	return slug.Make(fmt.Sprintf("%s %s %s", flavor, name, at.UTC().Format("20060102 150405")))
}

// Submit checks payload and appends it to the stream. A payload failing the
// checks is not stored and a *RejectedError is returned.
func (s *Store) Submit(ctx context.Context, flavor string, payload map[string]string) (*Request, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "requests.submit")
	defer span.End()
	span.SetAttributes(attribute.String("tradein.flavor", flavor), attribute.Int("tradein.fields", len(payload)))

	if err := s.Check(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rejected")
		logger.Warn("Rejected %s request: %v", flavor, err)
		return nil, err
	}

	now := s.now()
	req := &Request{
		Reference:   Reference(flavor, payload["name"], now),
		Flavor:      flavor,
		Payload:     payload,
		SubmittedAt: now,
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	msg := &natsgo.Msg{Subject: nats.SubjectForFlavor(flavor), Data: data}
	otel.GetTextMapPropagator().Inject(ctx, (*nats.HeaderCarrier)(msg))

	logger.Debug("Publishing %s request %s", flavor, req.Reference)
	ack, err := s.js.PublishMsg(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
		logger.Error("Failed to publish request to subject %s: %v", msg.Subject, err)
		return nil, fmt.Errorf("failed to publish request: %w", err)
	}
	req.ID = strconv.FormatUint(ack.Sequence, 10)
	span.SetAttributes(attribute.String("tradein.reference", req.Reference))
	logger.Info("Stored %s request %s (seq=%d)", flavor, req.Reference, ack.Sequence)
	return req, nil
}

// List replays the stream and returns the requests of flavor in submission
// order. An empty flavor lists every request.
func (s *Store) List(ctx context.Context, flavor string) ([]Request, error) {
	subject := nats.AllRequestsSubject()
	if flavor != "" {
		subject = nats.SubjectForFlavor(flavor)
	}

	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: subject,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		logger.Error("Failed to create consumer for %s: %v", subject, err)
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	const batchSize = 500
	var out []Request
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}
		count := 0
		for msg := range msgs.Messages() {
			count++
			var req Request
			if err := json.Unmarshal(msg.Data(), &req); err != nil {
				meta, _ := msg.Metadata()
				if meta != nil {
					logger.Warn("Skipping malformed request (seq=%d): %v", meta.Sequence.Stream, err)
				}
				_ = msg.Ack()
				continue
			}
			if meta, err := msg.Metadata(); err == nil {
				req.ID = strconv.FormatUint(meta.Sequence.Stream, 10)
			}
			out = append(out, req)
			_ = msg.Ack()
		}
		if count < batchSize {
			break
		}
	}

	logger.Debug("Loaded %d requests for %s", len(out), subject)
	return out, nil
}
