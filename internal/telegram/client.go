package telegram

import (
	"encoding/json"
	"fmt"

	"richsnake_backend/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// starsCurrency is Telegram's in-platform currency; invoices in Stars
// carry no provider token.
const starsCurrency = "XTR"

// Client wraps the Telegram Bot API calls the backend makes: invoice
// links, pre-checkout acknowledgments and profile photo lookups.
type Client struct {
	bot   *tgbotapi.BotAPI
	token string
}

func NewClient(token string) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.Info("telegram bot authorized", "username", bot.Self.UserName)
	return &Client{bot: bot, token: token}, nil
}

// AnswerPreCheckout approves or declines a pending checkout. Telegram
// expects the answer within its timeout window or cancels the payment.
func (c *Client) AnswerPreCheckout(queryID string, ok bool) error {
	_, err := c.bot.Request(tgbotapi.PreCheckoutConfig{
		PreCheckoutQueryID: queryID,
		OK:                 ok,
	})
	return err
}

// CreateInvoiceLink asks Telegram for a payment link in Stars. The payload
// travels opaquely through the payment flow and comes back on the webhook.
func (c *Client) CreateInvoiceLink(title, description, payload string, amount int64) (string, error) {
	prices, err := json.Marshal([]tgbotapi.LabeledPrice{{Label: title, Amount: int(amount)}})
	if err != nil {
		return "", err
	}

	params := tgbotapi.Params{
		"title":       title,
		"description": description,
		"payload":     payload,
		"currency":    starsCurrency,
		"prices":      string(prices),
	}

	resp, err := c.bot.MakeRequest("createInvoiceLink", params)
	if err != nil {
		return "", err
	}

	var link string
	if err := json.Unmarshal(resp.Result, &link); err != nil {
		return "", fmt.Errorf("decode invoice link: %w", err)
	}
	return link, nil
}

// UserPhotoURL resolves a direct download URL for the user's first profile
// photo. Returns an empty string when the user has none.
func (c *Client) UserPhotoURL(tgID int64) (string, error) {
	cfg := tgbotapi.NewUserProfilePhotos(tgID)
	cfg.Limit = 1

	photos, err := c.bot.GetUserProfilePhotos(cfg)
	if err != nil {
		return "", err
	}
	if photos.TotalCount == 0 || len(photos.Photos) == 0 || len(photos.Photos[0]) == 0 {
		return "", nil
	}

	file, err := c.bot.GetFile(tgbotapi.FileConfig{FileID: photos.Photos[0][0].FileID})
	if err != nil {
		return "", err
	}
	return file.Link(c.token), nil
}
