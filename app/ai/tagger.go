package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const systemPrompt = `You are an expert at analyzing Thai business news articles and generating relevant tags.

Your task: Analyze the given article and return a JSON array of 3-8 relevant tags.

Requirements:
- Return ONLY a JSON array, nothing else
- Include both Thai and English tags when appropriate
- Focus on business sectors, regions, industries, and key topics
- Use "นอมินี" (nominee) for articles about nominated individuals or entities

Example output: ["ธุรกิจ SME", "SME", "ภาครัฐ", "government", "เศรษฐกิจ", "economy"]`

// Content sent for analysis is capped to keep prompts within token limits
const maxAnalysisRunes = 2000

// Tagger generates advisory tags for article content via an OpenAI-compatible
// chat completions API
type Tagger struct {
	client *openai.Client
	model  string
}

func NewTagger(apiKey, baseURL, model string) *Tagger {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(opts...)
	return &Tagger{
		client: &client,
		model:  model,
	}
}

func (t *Tagger) Tags(ctx context.Context, title, content string, maxTags int) ([]string, error) {
	userPrompt := fmt.Sprintf("Analyze this news article and generate 3-%d relevant tags:\n\nTitle: %s\nContent: %s\n\nReturn only a JSON array of tag strings.",
		maxTags, title, truncateRunes(content, maxAnalysisRunes))

	resp, err := t.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(t.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		MaxTokens:   openai.Int(200),
		Temperature: openai.Float(0.3),
	})
	if err != nil {
		return nil, fmt.Errorf("tag generation request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("tag generation returned no choices")
	}

	tags, err := parseTags(resp.Choices[0].Message.Content, maxTags)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tag response: %w", err)
	}

	return tags, nil
}

// parseTags extracts a JSON string array from a model response, tolerating
// markdown code fences and surrounding prose
func parseTags(response string, maxTags int) ([]string, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, fmt.Errorf("empty response")
	}

	candidate := response
	if err := json.Unmarshal([]byte(candidate), new([]string)); err != nil {
		start := strings.Index(response, "[")
		end := strings.LastIndex(response, "]")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("no JSON array in response: %q", response)
		}
		candidate = response[start : end+1]
	}

	var raw []string
	if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON array: %w", err)
	}

	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
		if len(tags) >= maxTags {
			break
		}
	}

	return tags, nil
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
