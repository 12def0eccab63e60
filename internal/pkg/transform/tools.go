package transform

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownTool rejects tool identifiers outside the registry
	ErrUnknownTool = errors.New("unknown transformation tool")
	// ErrPromptRequired rejects prompt-capable tools without a usable prompt
	ErrPromptRequired = errors.New("prompt required")
)

// Tool is one named image operation the provider can render
type Tool struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	HasPrompt   bool   `json:"has_prompt"`
}

// The provider renders these lazily on first fetch of the derived URL.
var tools = []Tool{
	{ID: "e-bgremove", Name: "Remove Background", Description: "Remove background with AI"},
	{ID: "e-removedotbg", Name: "Remove Background (Pro)", Description: "High-quality background removal"},
	{ID: "e-changebg", Name: "Change Background", Description: "Replace background with AI", HasPrompt: true},
	{ID: "e-edit", Name: "AI Edit", Description: "Edit image with text prompts", HasPrompt: true},
	{ID: "bg-genfill", Name: "Generative Fill", Description: "Fill empty areas with AI", HasPrompt: true},
}

// Tools returns the registry of supported transformations
func Tools() []Tool {
	out := make([]Tool, len(tools))
	copy(out, tools)
	return out
}

// Lookup resolves a tool by its identifier
func Lookup(id string) (Tool, bool) {
	for _, t := range tools {
		if t.ID == id {
			return t, true
		}
	}
	return Tool{}, false
}

// Descriptor builds the provider's transform descriptor for a tool. The
// encoding is provider-defined and must be reproduced byte-for-byte, or the
// readiness probe hits the wrong rendered variant.
func Descriptor(toolID, prompt string) (string, error) {
	tool, ok := Lookup(toolID)
	if !ok {
		return "", ErrUnknownTool
	}

	trimmed := strings.TrimSpace(prompt)
	if tool.HasPrompt && trimmed == "" {
		return "", ErrPromptRequired
	}
	if !tool.HasPrompt {
		return tool.ID, nil
	}

	// e-changebg uses a dash-separated prompt suffix, the others a colon.
	if tool.ID == "e-changebg" {
		return "e-changebg-prompt-" + encodeComponent(trimmed), nil
	}
	return tool.ID + ":" + encodeComponent(trimmed), nil
}

// DerivedURL appends the transform descriptor as the provider's tr query
// parameter: <base>?tr=<descriptor>.
func DerivedURL(baseURL, toolID, prompt string) (string, error) {
	descriptor, err := Descriptor(toolID, prompt)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s?tr=%s", baseURL, descriptor), nil
}

// encodeComponent percent-encodes a prompt the way the provider's browser SDK
// does (JavaScript encodeURIComponent): spaces become %20, and the unreserved
// set A-Z a-z 0-9 - _ . ! ~ * ' ( ) passes through.
func encodeComponent(s string) string {
	const upperhex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
			b.WriteByte(c)
		case c == '-' || c == '_' || c == '.' || c == '!' || c == '~' ||
			c == '*' || c == '\'' || c == '(' || c == ')':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xf])
		}
	}
	return b.String()
}
