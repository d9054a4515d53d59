package notifications

import (
	"context"

	"github.com/9ssi7/exponent"
)

// PushSender is the outbound surface review notifications are written
// against. Its signatures are the exponent SDK's own; tests substitute
// a capture implementation instead of mocking Expo's HTTP client.
type PushSender interface {
	Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error)
	PublishSingle(ctx context.Context, msg *exponent.Message) ([]*exponent.MessageResponse, error)
}
