package suggest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitescoop/internal/interfaces"
	"github.com/ternarybob/sitescoop/internal/models"
)

// mockGenerator returns a canned response and records the last request.
type mockGenerator struct {
	response     string
	err          error
	lastMessages []interfaces.Message
	lastSchema   map[string]interface{}
}

func (m *mockGenerator) GenerateText(ctx context.Context, messages []interfaces.Message, systemInstruction string, outputSchema map[string]interface{}) (string, error) {
	m.lastMessages = messages
	m.lastSchema = outputSchema
	return m.response, m.err
}

func (m *mockGenerator) Close() error { return nil }

func TestSuggestSelectors_ValidResponse(t *testing.T) {
	gen := &mockGenerator{
		response: `{"container": ".product-item", "name": ".product-title", "price": ".product-price", "rating": ".product-rating", "imageUrl": ".product-image"}`,
	}
	service := NewService(gen, arbor.NewLogger())

	sel, err := service.SuggestSelectors(context.Background(), "https://shop.example.com", "<html></html>")
	require.NoError(t, err)

	assert.Equal(t, ".product-item", sel.Container)
	assert.Equal(t, ".product-title", sel.Title, "name key maps onto the title field")
	assert.Equal(t, ".product-price", sel.Price)
	assert.Equal(t, ".product-rating", sel.Rating)
	assert.Equal(t, ".product-image", sel.ImageURL)

	require.Len(t, gen.lastMessages, 2)
	assert.Equal(t, "system", gen.lastMessages[0].Role)
	assert.Contains(t, gen.lastMessages[1].Content, "https://shop.example.com")
	assert.NotNil(t, gen.lastSchema, "structured output schema is always sent")
}

func TestSuggestSelectors_FencedResponse(t *testing.T) {
	gen := &mockGenerator{
		response: "```json\n{\"container\": \".item\", \"name\": \".t\"}\n```",
	}
	service := NewService(gen, arbor.NewLogger())

	sel, err := service.SuggestSelectors(context.Background(), "https://example.com", "<html></html>")
	require.NoError(t, err)
	assert.Equal(t, ".item", sel.Container)
	assert.Equal(t, ".t", sel.Title)
}

func TestSuggestSelectors_MalformedJSON(t *testing.T) {
	gen := &mockGenerator{response: "here are your selectors: .product-item"}
	service := NewService(gen, arbor.NewLogger())

	sel, err := service.SuggestSelectors(context.Background(), "https://example.com", "<html></html>")

	assert.Nil(t, sel, "no partial data alongside a validation error")
	var schemaErr *models.SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
}

func TestSuggestSelectors_MissingContainer(t *testing.T) {
	gen := &mockGenerator{response: `{"name": ".title"}`}
	service := NewService(gen, arbor.NewLogger())

	sel, err := service.SuggestSelectors(context.Background(), "https://example.com", "<html></html>")

	assert.Nil(t, sel)
	var schemaErr *models.SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
}

func TestSuggestSelectors_EmptyContainer(t *testing.T) {
	gen := &mockGenerator{response: `{"container": "  ", "name": ".title"}`}
	service := NewService(gen, arbor.NewLogger())

	_, err := service.SuggestSelectors(context.Background(), "https://example.com", "<html></html>")

	var schemaErr *models.SchemaValidationError
	require.ErrorAs(t, err, &schemaErr)
}

func TestSuggestSelectors_GeneratorError(t *testing.T) {
	gen := &mockGenerator{err: errors.New("rate limited")}
	service := NewService(gen, arbor.NewLogger())

	_, err := service.SuggestSelectors(context.Background(), "https://example.com", "<html></html>")

	require.Error(t, err)
	var schemaErr *models.SchemaValidationError
	assert.False(t, errors.As(err, &schemaErr), "transport errors are not schema errors")
}
