package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"qac/internal/quiz"
)

// qwenRequest DashScope 文本生成信封 / qwenRequest is the DashScope text-generation envelope
type qwenRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []qwenMessage `json:"messages"`
	} `json:"input"`
	Parameters struct {
		Temperature float64 `json:"temperature"`
	} `json:"parameters"`
}

type qwenMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// qwenResponse 兼容 output.text 与 output.choices 两种返回形态
// qwenResponse accepts both the output.text and output.choices response shapes
type qwenResponse struct {
	Output struct {
		Text    string `json:"text"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"output"`
	Message string `json:"message"`
}

func (f *Fetcher) fetchQwen(ctx context.Context, settings quiz.Settings, prompt string) (string, error) {
	var payload qwenRequest
	payload.Model = settings.APIModel
	payload.Input.Messages = []qwenMessage{{Role: "user", Content: prompt}}
	payload.Parameters.Temperature = 0.7

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal qwen request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, settings.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create qwen request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+settings.APIKey)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", classifyTransportErr(settings.APIURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransportErr(settings.APIURL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &NetworkError{
			Endpoint:    settings.APIURL,
			Status:      resp.StatusCode,
			RequestBody: string(body),
			Body:        string(data),
		}
	}

	var parsed qwenResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("parse qwen response: %w", err)
	}
	if text := strings.TrimSpace(parsed.Output.Text); text != "" {
		return text, nil
	}
	if len(parsed.Output.Choices) > 0 {
		return parsed.Output.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("qwen response has no output text")
}
