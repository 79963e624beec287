package requests

import (
	"context"
	"errors"

	"github.com/mobilkita/tradein/internal/wizard"
)

// Submitter delivers wizard payloads to a Store. Server-side rejections are
// reported as an unsuccessful Result; only transport failures are errors.
type Submitter struct {
	Store *Store
}

// Submit implements wizard.Submitter.
func (s Submitter) Submit(ctx context.Context, flavor wizard.Flavor, payload wizard.Payload) (wizard.Result, error) {
	req, err := s.Store.Submit(ctx, string(flavor), payload)
	if err != nil {
		var rejected *RejectedError
		if errors.As(err, &rejected) {
			return wizard.Result{Success: false, Error: rejected.Error()}, nil
		}
		return wizard.Result{}, err
	}
	return wizard.Result{
		Success: true,
		Data: map[string]string{
			"id":        req.ID,
			"reference": req.Reference,
		},
	}, nil
}
