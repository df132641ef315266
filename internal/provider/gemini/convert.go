package gemini

import (
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/saofund/blender-agent/internal/agent/models"
	provider "github.com/saofund/blender-agent/internal/provider/models"
)

// toGeminiContents converts the conversation to Gemini Content format.
func toGeminiContents(messages []models.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, msg := range messages {
		if content := messageToGeminiContent(msg); content != nil {
			contents = append(contents, content)
		}
	}
	return contents
}

// messageToGeminiContent converts a single message. Tool results become
// FunctionResponse parts in a user-role content.
func messageToGeminiContent(msg models.Message) *genai.Content {
	role := "user"
	if msg.Role == "assistant" {
		role = "model"
	}

	parts := make([]*genai.Part, 0)

	if msg.Content != "" {
		parts = append(parts, genai.NewPartFromText(msg.Content))
	}

	for _, call := range msg.ToolCalls {
		parts = append(parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{
				Name: call.Name,
				Args: call.Args,
			},
		})
	}

	for _, result := range msg.ToolResults {
		content := result.Content
		if result.Error != "" {
			content = fmt.Sprintf("Error: %s", result.Error)
		}
		parts = append(parts, &genai.Part{
			FunctionResponse: &genai.FunctionResponse{
				Name: result.Name,
				Response: map[string]any{
					"content": content,
				},
			},
		})
	}

	if len(parts) == 0 {
		return nil
	}
	return &genai.Content{Role: role, Parts: parts}
}

// toGeminiConfig builds the generation config, including the system prompt
// and tool declarations.
func toGeminiConfig(req *provider.ChatRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}

	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(req.System)},
		}
	}
	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if len(req.Tools) > 0 {
		config.Tools = toGeminiTools(req.Tools)
	}

	return config
}

// toGeminiTools converts tool definitions to Gemini function declarations.
func toGeminiTools(tools []provider.ToolDefinition) []*genai.Tool {
	declarations := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		fd := &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
		}
		if tool.Parameters != nil {
			fd.Parameters = toGeminiSchema(tool.Parameters)
		}
		declarations = append(declarations, fd)
	}
	return []*genai.Tool{{FunctionDeclarations: declarations}}
}

// toGeminiSchema converts ParameterSchema to a Gemini Schema.
func toGeminiSchema(params *provider.ParameterSchema) *genai.Schema {
	schema := &genai.Schema{Type: genai.TypeObject}

	if params.Properties != nil {
		schema.Properties = make(map[string]*genai.Schema)
		for name, prop := range params.Properties {
			propSchema := &genai.Schema{
				Type:        toGeminiType(prop.Type),
				Description: prop.Description,
			}
			if len(prop.Enum) > 0 {
				propSchema.Enum = prop.Enum
			}
			if prop.Items != nil {
				propSchema.Items = &genai.Schema{
					Type:        toGeminiType(prop.Items.Type),
					Description: prop.Items.Description,
				}
			}
			schema.Properties[name] = propSchema
		}
	}
	if len(params.Required) > 0 {
		schema.Required = params.Required
	}

	return schema
}

// toGeminiType converts a JSON Schema type name to the Gemini Type.
func toGeminiType(typeStr string) genai.Type {
	switch typeStr {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeString
	}
}

// fromGeminiResponse maps the first candidate into the uniform turn. Gemini
// function calls carry no ids, so each call gets a generated one; the same
// id keys the function response on the way back.
func fromGeminiResponse(name string, resp *genai.GenerateContentResponse) (*provider.AssistantTurn, error) {
	if len(resp.Candidates) == 0 {
		return nil, provider.NewProviderError(name, provider.ErrorCodeMalformed, "no candidates in response", provider.ErrMalformed)
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return nil, provider.NewProviderError(name, provider.ErrorCodeMalformed, "candidate has no content", provider.ErrMalformed)
	}

	var text string
	var calls []models.ToolCall

	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			if text != "" {
				text += "\n"
			}
			text += part.Text
		}
		if part.FunctionCall != nil {
			calls = append(calls, models.ToolCall{
				ID:   uuid.NewString(),
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
		}
	}

	if len(calls) > 0 {
		return &provider.AssistantTurn{Kind: provider.TurnToolCalls, Calls: calls}, nil
	}
	return &provider.AssistantTurn{Kind: provider.TurnFinalText, Text: text}, nil
}
