package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"qac/internal/quiz"

	openai "github.com/sashabaranov/go-openai"
)

func (f *Fetcher) fetchOpenAI(ctx context.Context, settings quiz.Settings, prompt string) (string, error) {
	cfg := openai.DefaultConfig(settings.APIKey)
	cfg.BaseURL = baseURLFromEndpoint(settings.APIURL)
	cfg.HTTPClient = f.httpClient

	client := openai.NewClientWithConfig(cfg)
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: settings.APIModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &NetworkError{
				Endpoint: settings.APIURL,
				Status:   apiErr.HTTPStatusCode,
				Body:     apiErr.Message,
				Err:      apiErr,
			}
		}
		return "", classifyTransportErr(settings.APIURL, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// baseURLFromEndpoint 设置里保存的是完整端点 URL；SDK 需要去掉
// /chat/completions 后缀的 base URL。
// baseURLFromEndpoint derives the SDK base URL from the stored full endpoint
// URL by stripping the /chat/completions suffix.
func baseURLFromEndpoint(endpoint string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	return strings.TrimSuffix(trimmed, "/chat/completions")
}
