package llm

import (
	"context"
	"errors"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIChat struct {
	client *openai.Client
	model  string
}

func NewOpenAIChat(apiKey, model string) *OpenAIChat {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIChat{client: openai.NewClient(apiKey), model: model}
}

func (o *OpenAIChat) Close() error { return nil }

func (o *OpenAIChat) StreamAnswer(ctx context.Context, prompt string) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		stream, err := o.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
			Model: o.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: 0.2,
		})
		if err != nil {
			errs <- err
			return
		}
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				errs <- err
				return
			}
			for _, ch := range resp.Choices {
				if ch.Delta.Content != "" {
					out <- ch.Delta.Content
				}
			}
		}
	}()

	return out, errs
}
