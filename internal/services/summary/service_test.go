package summary

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/interfaces"
	"github.com/ternarybob/sitescoop/internal/models"
)

type mockGenerator struct {
	response     string
	err          error
	lastMessages []interfaces.Message
}

func (m *mockGenerator) GenerateText(ctx context.Context, messages []interfaces.Message, systemInstruction string, outputSchema map[string]interface{}) (string, error) {
	m.lastMessages = messages
	return m.response, m.err
}

func (m *mockGenerator) Close() error { return nil }

func TestSummarize(t *testing.T) {
	gen := &mockGenerator{response: "  Two products, both under $200.  "}
	service := NewService(gen, arbor.NewLogger())

	summary, err := service.Summarize(context.Background(), `[{"title":"Widget"}]`, "https://shop.example.com")
	require.NoError(t, err)
	assert.Equal(t, "Two products, both under $200.", summary)
	assert.Contains(t, gen.lastMessages[1].Content, "https://shop.example.com")
}

func TestSummarize_EmptyData(t *testing.T) {
	service := NewService(&mockGenerator{}, arbor.NewLogger())

	_, err := service.Summarize(context.Background(), "   ", "https://example.com")
	require.Error(t, err)
}

func TestSummarize_TruncatesOversizeInput(t *testing.T) {
	gen := &mockGenerator{response: "summary"}
	service := NewService(gen, arbor.NewLogger())

	_, err := service.Summarize(context.Background(), strings.Repeat("x", maxSummaryInput+500), "https://example.com")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(gen.lastMessages[1].Content), maxSummaryInput+100)
}

func TestSummarize_GeneratorError(t *testing.T) {
	gen := &mockGenerator{err: errors.New("quota")}
	service := NewService(gen, arbor.NewLogger())

	_, err := service.Summarize(context.Background(), "data", "https://example.com")
	require.Error(t, err)
}

func TestSummarizeRecords(t *testing.T) {
	gen := &mockGenerator{response: "One widget."}
	service := NewService(gen, arbor.NewLogger())

	summary, err := service.SummarizeRecords(context.Background(), []models.Record{
		{ID: "0-Widget", Title: "Widget", Price: 199.99},
	}, "https://shop.example.com")
	require.NoError(t, err)
	assert.Equal(t, "One widget.", summary)
	assert.Contains(t, gen.lastMessages[1].Content, "Widget")
}

func TestSummarizeRecords_Empty(t *testing.T) {
	service := NewService(&mockGenerator{}, arbor.NewLogger())

	_, err := service.SummarizeRecords(context.Background(), nil, "https://example.com")
	require.Error(t, err)
}
