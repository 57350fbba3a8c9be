package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sandevgo/taskchat/internal/core"
)

// Gemini talks to the Google generative language API. Unlike the
// OpenAI-compatible providers it keeps system text in a dedicated
// system_instruction block and calls assistant turns "model".
type Gemini struct {
	baseProvider
}

func NewGemini(baseURL, apiKey, model string) *Gemini {
	return &Gemini{
		baseProvider: newBaseProvider(baseURL, apiKey, model),
	}
}

type geminiPart struct {
	Text         string              `json:"text,omitempty"`
	FunctionCall *geminiFunctionCall `json:"functionCall,omitempty"`
}

type geminiFunctionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	Tools             []geminiTools   `json:"tools,omitempty"`
}

type geminiTools struct {
	FunctionDeclarations []geminiFunctionDecl `json:"function_declarations"`
}

type geminiFunctionDecl struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"`
}

func (g *Gemini) Chat(ctx context.Context, history []core.Message, tools []core.Tool) (core.Message, error) {
	req := geminiRequest{}

	for _, msg := range history {
		switch msg.Role {
		case core.RoleSystem:
			if req.SystemInstruction == nil {
				req.SystemInstruction = &geminiContent{}
			}
			req.SystemInstruction.Parts = append(req.SystemInstruction.Parts, geminiPart{Text: msg.Content})
		case core.RoleAssistant:
			req.Contents = append(req.Contents, geminiContent{
				Role:  "model",
				Parts: []geminiPart{{Text: msg.Content}},
			})
		default:
			req.Contents = append(req.Contents, geminiContent{
				Role:  "user",
				Parts: []geminiPart{{Text: msg.Content}},
			})
		}
	}

	if len(tools) > 0 {
		decls := make([]geminiFunctionDecl, 0, len(tools))
		for _, t := range tools {
			decls = append(decls, geminiFunctionDecl{
				Name:        t.Function.Name,
				Description: t.Function.Description,
				Parameters:  t.Function.Parameters,
			})
		}
		req.Tools = []geminiTools{{FunctionDeclarations: decls}}
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent", g.model)
	headers := map[string]string{"x-goog-api-key": g.apiKey}

	resp, err := g.doRequest(ctx, http.MethodPost, path, req, headers)
	if err != nil {
		return core.Message{}, err
	}
	defer resp.Body.Close()

	return parseGeminiResponse(resp)
}

func parseGeminiResponse(resp *http.Response) (core.Message, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Message{}, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return core.Message{}, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Candidates []struct {
			Content geminiContent `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return core.Message{}, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if len(result.Candidates) == 0 {
		return core.Message{}, fmt.Errorf("%w: empty candidates", ErrInvalidOutput)
	}

	msg := core.Message{Role: core.RoleAssistant}
	for i, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			msg.Content += part.Text
		}
		if part.FunctionCall != nil {
			msg.ToolCalls = append(msg.ToolCalls, core.ToolCall{
				ID:   fmt.Sprintf("call_%d", i),
				Type: "function",
				Function: core.FunctionCall{
					Name:      part.FunctionCall.Name,
					Arguments: string(part.FunctionCall.Args),
				},
			})
		}
	}
	return msg, nil
}
