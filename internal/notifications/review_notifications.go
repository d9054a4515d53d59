package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/9ssi7/exponent"

	"reviewdesk/internal/store"
)

// SendReviewNotification tells a business owner a new review arrived.
// It fans out to every device the owner registered a push token for.
func SendReviewNotification(ctx context.Context, push PushSender, storage store.Storage, ownerID int64, businessName string, rate int) error {
	tokensMap, err := storage.PushTokens.GetTokensByUserIDs(ctx, []int64{ownerID})
	if err != nil {
		return err
	}
	tokens := tokensMap[ownerID]
	if len(tokens) == 0 {
		return errors.New("no push tokens")
	}

	title := "New review received"
	body := fmt.Sprintf("%s just got a new %d-star review", businessName, rate)

	msgs := make([]*exponent.Message, 0, len(tokens))
	for _, t := range tokens {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			Data: map[string]string{
				"type":   "review",
				"screen": "business-reviews-screen",
			},
		})
	}

	_, err = push.Publish(ctx, msgs)
	if err != nil {
		return err
	}
	return nil
}
