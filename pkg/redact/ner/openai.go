package ner

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/pkoukk/tiktoken-go"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/legaltech-cl/redactor/pkg/redact"
)

const (
	defaultOpenAIModel = openai.GPT4oMini
	// Leave room for the instruction and the response inside the context
	// window.
	maxInputTokens = 100_000
)

const nerInstruction = `Eres un extractor de entidades para documentos legales chilenos.
Devuelve únicamente un arreglo JSON. Cada elemento: {"text": "...", "label": "PERSON"|"ORGANIZATION"|"OTHER"}.
Incluye toda persona natural, empresa e institución nombrada en el texto. No agregues comentarios.`

// DefaultOpenAIClient builds a shared client from the environment.
var DefaultOpenAIClient = sync.OnceValue(func() *openai.Client {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		panic("OPENAI_API_KEY is not set")
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		config.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(config)
})

// OpenAI is an LLM-backed recognizer for deployments where the in-process
// model is not accurate enough on Spanish legal text.
type OpenAI struct {
	client *openai.Client
	model  string
	logger *logrus.Logger
}

// NewOpenAI creates an LLM recognizer. An empty model falls back to the
// default.
func NewOpenAI(client *openai.Client, model string, logger *logrus.Logger) *OpenAI {
	if model == "" {
		model = defaultOpenAIModel
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &OpenAI{client: client, model: model, logger: logger}
}

// Recognize implements redact.Recognizer. The chunk text is truncated to the
// token budget before being sent; the model's JSON output is parsed
// leniently.
func (o *OpenAI) Recognize(ctx context.Context, text string) ([]redact.RecognizedEntity, error) {
	input, err := truncateTokens(text, maxInputTokens)
	if err != nil {
		return nil, errors.Wrap(err, "token budgeting")
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: nerInstruction},
			{Role: openai.ChatMessageRoleUser, Content: input},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("empty completion")
	}

	entities := parseEntityJSON(resp.Choices[0].Message.Content, text)
	o.logger.WithFields(logrus.Fields{
		"model":    o.model,
		"entities": len(entities),
	}).Debug("llm recognition completed")
	return entities, nil
}

// parseEntityJSON extracts the entity array from a model response that may
// be wrapped in prose or code fences.
func parseEntityJSON(content, source string) []redact.RecognizedEntity {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return nil
	}

	cursor := make(map[string]int)
	var out []redact.RecognizedEntity

	for _, item := range gjson.Parse(content[start : end+1]).Array() {
		text := item.Get("text").String()
		label := strings.ToUpper(item.Get("label").String())
		if text == "" {
			continue
		}
		if label != redact.LabelPerson && label != redact.LabelOrganization {
			label = redact.LabelOther
		}

		offset := strings.Index(source[cursor[text]:], text)
		if offset < 0 {
			continue
		}
		offset += cursor[text]
		cursor[text] = offset + len(text)

		out = append(out, redact.RecognizedEntity{
			Text:  text,
			Label: label,
			Start: offset,
			End:   offset + len(text),
		})
	}
	return out
}

func truncateTokens(text string, budget int) (string, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return "", err
	}
	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= budget {
		return text, nil
	}
	return enc.Decode(tokens[:budget]), nil
}
