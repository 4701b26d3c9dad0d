package transformer

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

// cliOutput is the JSON contract of the transform-headline binary.
type cliOutput struct {
	OriginalHeadline    string `json:"original_headline"`
	TransformedHeadline string `json:"transformed_headline"`
	ProviderUsed        string `json:"provider_used"`
}

// CLIProvider shells out to the external transform-headline binary. When a
// prompt template is supplied it is prepended to the article body, which is
// how the binary's fixed interface accepts custom persona prompts.
type CLIProvider struct {
	// Binary defaults to "transform-headline" on PATH.
	Binary string
	// LLMProvider is forwarded as --provider, defaults to "openai".
	LLMProvider string
}

func NewCLIProvider() *CLIProvider {
	return &CLIProvider{
		Binary:      "transform-headline",
		LLMProvider: "openai",
	}
}

func (p *CLIProvider) Transform(ctx context.Context, headline string, author string, content string, promptTemplate string) (*TransformResult, error) {
	body := content
	if promptTemplate != "" {
		body = promptTemplate + "\n\nOriginal content: " + content
		author = "Custom Prompt"
	}

	cmd := exec.CommandContext(ctx, p.Binary,
		"--headline", headline,
		"--author", author,
		"--body", body,
		"--output-format", "json",
		"--provider", p.LLMProvider,
	)

	stdout, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, errors.Errorf("headline transformation failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, errors.Wrap(err, "fail to run transform binary")
	}

	var output cliOutput
	if err := json.Unmarshal(stdout, &output); err != nil {
		return nil, errors.Wrap(err, "fail to decode transform output")
	}
	return &TransformResult{
		TransformedHeadline: output.TransformedHeadline,
		ProviderUsed:        output.ProviderUsed,
	}, nil
}
