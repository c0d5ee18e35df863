package telegram

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-reporter/infrastructure/integrator/telegram/telegramclient"
	"github.com/vfg2006/ads-reporter/internal/config"
	"github.com/vfg2006/ads-reporter/pkg/reportErrors"
)

// DeliveryResult descreve o desfecho da entrega de um relatório. Mensagens já
// enviadas não são desfeitas quando uma posterior falha
type DeliveryResult struct {
	MessagesSent  int
	MessagesTotal int
	Err           error
}

// Partial indica que parte das mensagens foi entregue antes da falha
func (r *DeliveryResult) Partial() bool {
	return r.Err != nil && r.MessagesSent > 0
}

// Deliverer entrega texto formatado ao transporte de mensagens
type Deliverer interface {
	Deliver(text string) *DeliveryResult
}

type Service struct {
	cfg    *config.Config
	client telegramclient.Client
}

func New(cfg *config.Config, client telegramclient.Client) *Service {
	return &Service{
		cfg:    cfg,
		client: client,
	}
}

// Deliver envia o texto ao chat configurado, dividindo em múltiplas mensagens
// ordenadas quando excede o limite do transporte. Cada mensagem é repetida
// com backoff até o limite de tentativas
func (s *Service) Deliver(text string) *DeliveryResult {
	chunks := SplitMessage(text, s.cfg.Telegram.MaxMessageLength)
	result := &DeliveryResult{MessagesTotal: len(chunks)}

	for i, chunk := range chunks {
		if err := s.sendWithRetry(chunk); err != nil {
			result.Err = reportErrors.Wrap(err, reportErrors.ErrDeliveryFailed,
				fmt.Sprintf("falha ao entregar mensagem %d de %d", i+1, len(chunks)))
			return result
		}
		result.MessagesSent++
	}

	logrus.WithFields(logrus.Fields{
		"chat_id":  s.cfg.Telegram.ChatID,
		"messages": result.MessagesSent,
	}).Info("Relatório entregue ao Telegram")

	return result
}

func (s *Service) sendWithRetry(text string) error {
	maxRetries := s.cfg.Telegram.MaxRetries
	baseDelay := time.Duration(s.cfg.Telegram.RetryDelay) * time.Second

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := baseDelay * time.Duration(1<<(attempt-1))
			logrus.WithFields(logrus.Fields{
				"attempt": attempt,
				"delay":   delay.String(),
			}).Warn("Repetindo envio ao Telegram")
			time.Sleep(delay)
		}

		if err := s.client.SendMessage(s.cfg.Telegram.ChatID, text); err != nil {
			lastErr = err
			continue
		}
		return nil
	}

	return lastErr
}

// SplitMessage divide o texto em pedaços de no máximo limit caracteres,
// preferindo quebras em parágrafos (linha em branco) e depois em linhas.
// A concatenação dos pedaços reconstitui o texto original
func SplitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	return packSegments(splitKeepSeparator(text, "\n\n"), limit)
}

// packSegments agrupa segmentos consecutivos sem ultrapassar o limite.
// Segmentos individualmente maiores que o limite são subdivididos
func packSegments(segments []string, limit int) []string {
	var chunks []string
	current := ""

	flush := func() {
		if current != "" {
			chunks = append(chunks, current)
			current = ""
		}
	}

	for _, segment := range segments {
		if len(segment) > limit {
			// Parágrafo maior que o limite: tentar por linhas
			lines := splitKeepSeparator(segment, "\n")
			if len(lines) > 1 {
				flush()
				chunks = append(chunks, packSegments(lines, limit)...)
				continue
			}

			// Linha única maior que o limite: corte duro, recuando até o
			// início de uma runa para não partir caracteres multibyte
			flush()
			for len(segment) > limit {
				cut := limit
				for cut > 0 && !utf8.RuneStart(segment[cut]) {
					cut--
				}
				if cut == 0 {
					cut = limit
				}
				chunks = append(chunks, segment[:cut])
				segment = segment[cut:]
			}
			current = segment
			continue
		}

		if len(current)+len(segment) > limit {
			flush()
		}
		current += segment
	}

	flush()
	return chunks
}

// splitKeepSeparator divide mantendo o separador no fim de cada segmento,
// para que a concatenação preserve o texto original
func splitKeepSeparator(text, sep string) []string {
	parts := strings.Split(text, sep)
	segments := make([]string, 0, len(parts))

	for i, part := range parts {
		if i < len(parts)-1 {
			part += sep
		}
		if part != "" {
			segments = append(segments, part)
		}
	}

	return segments
}
