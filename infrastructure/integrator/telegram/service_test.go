package telegram

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-reporter/infrastructure/integrator/telegram/telegramclient/mocks"
	"github.com/vfg2006/ads-reporter/internal/config"
	"github.com/vfg2006/ads-reporter/pkg/reportErrors"
	"go.uber.org/mock/gomock"
)

func telegramConfig(limit int) *config.Config {
	return &config.Config{
		Telegram: config.Telegram{
			ChatID:           "-100123",
			MaxMessageLength: limit,
			MaxRetries:       1,
			RetryDelay:       0,
		},
	}
}

func TestSplitMessage_ShortTextIsSingleChunk(t *testing.T) {
	chunks := SplitMessage("relatório curto", 4096)
	require.Len(t, chunks, 1)
	assert.Equal(t, "relatório curto", chunks[0])
}

func TestSplitMessage_SplitsAtParagraphs(t *testing.T) {
	text := strings.Repeat("a", 50) + "\n\n" + strings.Repeat("b", 50) + "\n\n" + strings.Repeat("c", 50)

	chunks := SplitMessage(text, 60)

	require.GreaterOrEqual(t, len(chunks), 2)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 60, "pedaço %d excede o limite", i)
	}
	assert.Equal(t, text, strings.Join(chunks, ""), "a concatenação deve reconstituir o texto")
}

func TestSplitMessage_FallsBackToLines(t *testing.T) {
	// Parágrafo único maior que o limite, com quebras de linha internas
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = strings.Repeat("x", 30)
	}
	text := strings.Join(lines, "\n")

	chunks := SplitMessage(text, 100)

	require.GreaterOrEqual(t, len(chunks), 2)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 100)
	}
	assert.Equal(t, text, strings.Join(chunks, ""))
}

func TestSplitMessage_HardCutsOversizedLine(t *testing.T) {
	text := strings.Repeat("y", 250)

	chunks := SplitMessage(text, 100)

	require.Len(t, chunks, 3)
	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 100)
	}
}

func TestSplitMessage_HardCutRespectsRuneBoundaries(t *testing.T) {
	// Linha única com caracteres multibyte e limite que cairia no meio
	// de uma runa se o corte fosse por bytes
	text := "⚠️ Investimento: " + strings.Repeat("á", 100)

	chunks := SplitMessage(text, 51)

	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, chunk := range chunks {
		assert.True(t, utf8.ValidString(chunk))
		assert.LessOrEqual(t, len(chunk), 51)
	}
}

func TestSplitMessage_PreservesOrderAndContent(t *testing.T) {
	paragraphs := []string{
		"Primeiro parágrafo do relatório",
		"Segundo parágrafo com mais detalhes",
		"Terceiro parágrafo final",
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := SplitMessage(text, 40)

	joined := strings.Join(chunks, "")
	assert.Equal(t, text, joined)

	// A ordem dos parágrafos sobrevive à divisão
	first := strings.Index(joined, paragraphs[0])
	second := strings.Index(joined, paragraphs[1])
	third := strings.Index(joined, paragraphs[2])
	assert.True(t, first < second && second < third)
}

func TestDeliver_SendsAllChunksInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	service := New(telegramConfig(60), client)

	text := strings.Repeat("a", 50) + "\n\n" + strings.Repeat("b", 50)

	var sent []string
	client.EXPECT().
		SendMessage("-100123", gomock.Any()).
		DoAndReturn(func(_, chunk string) error {
			sent = append(sent, chunk)
			return nil
		}).
		Times(2)

	result := service.Deliver(text)

	require.NoError(t, result.Err)
	assert.Equal(t, 2, result.MessagesSent)
	assert.Equal(t, 2, result.MessagesTotal)
	assert.Equal(t, text, strings.Join(sent, ""))
}

func TestDeliver_PartialFailureKeepsSentCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	service := New(telegramConfig(60), client)

	text := strings.Repeat("a", 50) + "\n\n" + strings.Repeat("b", 50)

	gomock.InOrder(
		client.EXPECT().SendMessage("-100123", gomock.Any()).Return(nil),
		// Segunda mensagem falha em todas as tentativas
		client.EXPECT().SendMessage("-100123", gomock.Any()).Return(errors.New("bot api indisponível")).Times(2),
	)

	result := service.Deliver(text)

	require.Error(t, result.Err)
	assert.True(t, reportErrors.IsDeliveryFailed(result.Err))
	assert.Equal(t, 1, result.MessagesSent)
	assert.True(t, result.Partial())
}

func TestDeliver_RetriesBeforeFailing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockClient(ctrl)
	service := New(telegramConfig(4096), client)

	gomock.InOrder(
		client.EXPECT().SendMessage("-100123", "oi").Return(errors.New("timeout")),
		client.EXPECT().SendMessage("-100123", "oi").Return(nil),
	)

	result := service.Deliver("oi")

	require.NoError(t, result.Err)
	assert.Equal(t, 1, result.MessagesSent)
}
