package notifications

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/9ssi7/exponent"

	"reviewdesk/internal/store"
)

type capturePush struct {
	published [][]*exponent.Message
}

func (c *capturePush) Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error) {
	c.published = append(c.published, msgs)
	return nil, nil
}

func (c *capturePush) PublishSingle(ctx context.Context, msg *exponent.Message) ([]*exponent.MessageResponse, error) {
	return c.Publish(ctx, []*exponent.Message{msg})
}

type stubTokenStore struct {
	tokens map[int64][]string
}

func (s *stubTokenStore) AddOrUpdate(ctx context.Context, userID int64, token string, deviceInfo []byte) error {
	return nil
}

func (s *stubTokenStore) Remove(ctx context.Context, userID int64, token string) error {
	return nil
}

func (s *stubTokenStore) RemoveByTokenList(ctx context.Context, tokens []string) error {
	return nil
}

func (s *stubTokenStore) GetTokensByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]string, error) {
	out := make(map[int64][]string)
	for _, id := range userIDs {
		if t, ok := s.tokens[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func (s *stubTokenStore) PruneStale(ctx context.Context, olderThan time.Duration) error {
	return nil
}

func TestExpoAdapterSatisfiesPushSender(t *testing.T) {
	var sender PushSender = NewExpoAdapter(exponent.NewClient())
	if sender == nil {
		t.Fatal("expected a usable sender")
	}
}

func TestSendReviewNotificationFansOutPerDevice(t *testing.T) {
	push := &capturePush{}
	storage := store.Storage{
		PushTokens: &stubTokenStore{tokens: map[int64][]string{
			7: {"ExponentPushToken[aaa]", "ExponentPushToken[bbb]"},
		}},
	}

	err := SendReviewNotification(context.Background(), push, storage, 7, "Mel's Coffee House", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(push.published) != 1 {
		t.Fatalf("expected one publish batch, got %d", len(push.published))
	}
	msgs := push.published[0]
	if len(msgs) != 2 {
		t.Fatalf("expected one message per device, got %d", len(msgs))
	}
	for _, msg := range msgs {
		if !strings.Contains(msg.Body, "Mel's Coffee House") || !strings.Contains(msg.Body, "4-star") {
			t.Fatalf("message body %q missing business name or rate", msg.Body)
		}
		if msg.Data["type"] != "review" {
			t.Fatalf("message data type = %q, want review", msg.Data["type"])
		}
	}
}

func TestSendReviewNotificationNoTokens(t *testing.T) {
	push := &capturePush{}
	storage := store.Storage{
		PushTokens: &stubTokenStore{tokens: map[int64][]string{}},
	}

	err := SendReviewNotification(context.Background(), push, storage, 7, "Mel's Coffee House", 5)
	if err == nil {
		t.Fatal("expected an error when the owner has no registered devices")
	}
	if len(push.published) != 0 {
		t.Fatal("nothing should be published without tokens")
	}
}
