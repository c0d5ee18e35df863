package telegramclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-reporter/internal/config"
)

type Client interface {
	SendMessage(chatID string, text string) error
}

type TelegramClient struct {
	Cfg        *config.Config
	httpClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	return &TelegramClient{
		Cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// SendMessage envia um texto para o chat pelo Bot API
func (c *TelegramClient) SendMessage(chatID string, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", c.Cfg.Telegram.BaseURL, c.Cfg.Telegram.BotToken)

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição ao Bot API")
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var response sendMessageResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("resposta inesperada do Bot API (status %d): %s", resp.StatusCode, string(body))
	}

	if !response.OK {
		logrus.WithFields(logrus.Fields{
			"error_code":  response.ErrorCode,
			"description": response.Description,
		}).Error("Erro retornado pelo Bot API")
		return fmt.Errorf("erro do Bot API (código %d): %s", response.ErrorCode, response.Description)
	}

	return nil
}
