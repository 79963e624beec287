package nats

import "github.com/nats-io/nats.go"

// HeaderCarrier adapts message headers to the OpenTelemetry TextMapCarrier
// interface so trace context travels with published requests.
type HeaderCarrier nats.Msg

func (c *HeaderCarrier) Get(key string) string {
	if c.Header == nil {
		return ""
	}
	return c.Header.Get(key)
}

func (c *HeaderCarrier) Set(key, val string) {
	if c.Header == nil {
		c.Header = make(nats.Header)
	}
	c.Header.Set(key, val)
}

func (c *HeaderCarrier) Keys() []string {
	if c.Header == nil {
		return nil
	}
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}
