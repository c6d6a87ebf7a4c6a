package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KaramelBytes/dataexplorer/internal/ai"
	cfgpkg "github.com/KaramelBytes/dataexplorer/internal/config"
	"github.com/KaramelBytes/dataexplorer/internal/interpret"
)

// providerAliases maps accepted spellings to registered providers.
var providerAliases = map[string]string{
	"gemini":     ai.ProviderGemini,
	"google":     ai.ProviderGemini,
	"openrouter": ai.ProviderOpenRouter,
	"ollama":     ai.ProviderOllama,
	"local":      ai.ProviderOllama,
}

func normalizeProvider(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if p, ok := providerAliases[s]; ok {
		return p
	}
	return s
}

type runtimeOptions struct {
	ProviderFlag string
	ModelFlag    string
}

// buildRuntime resolves the provider and constructs its runtime. A provider
// that needs a key but has none yields a nil runtime and no error: the
// interpretation step then reports itself as not configured.
// The runtime makes a single attempt per call; a failed interpretation is
// only re-sent when the student asks again.
func buildRuntime(c *cfgpkg.Global, opts runtimeOptions) (ai.Runtime, string, error) {
	rc := ai.RuntimeConfig{
		HTTPTimeout: 60 * time.Second,
		RetryMax:    1,
		Host:        "http://127.0.0.1:11434",
	}
	provider := ""
	if c != nil {
		if c.HTTPTimeoutSec > 0 {
			rc.HTTPTimeout = c.HTTPTimeout()
		}
		if c.OllamaHost != "" {
			rc.Host = c.OllamaHost
		}
		rc.APIKey = c.APIKey
		rc.Endpoint = c.GeminiEndpoint
		provider = c.Provider
	}
	if opts.ProviderFlag != "" {
		provider = opts.ProviderFlag
	}
	provider = normalizeProvider(provider)
	if provider == "" {
		provider = ai.ProviderGemini
	}
	if ai.NeedsKey(provider) && strings.TrimSpace(rc.APIKey) == "" {
		if _, ok := providerAliases[provider]; !ok {
			return nil, provider, fmt.Errorf("provider not supported: %s", provider)
		}
		return nil, provider, nil
	}
	rt, ok := ai.GetRuntime(provider, rc)
	if !ok {
		return nil, provider, fmt.Errorf("provider not supported: %s (use %s)", provider, strings.Join(ai.Providers(), ", "))
	}
	return rt, provider, nil
}

// selectModel prefers the flag, then config, then the provider default.
func selectModel(c *cfgpkg.Global, provider, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if c != nil && c.Model != "" {
		return c.Model
	}
	return ai.DefaultModelFor(provider)
}

func buildRequester(c *cfgpkg.Global, opts runtimeOptions) (*interpret.Requester, string, error) {
	rt, provider, err := buildRuntime(c, opts)
	if err != nil {
		return nil, provider, err
	}
	ropts := []interpret.Option{interpret.WithModel(selectModel(c, provider, opts.ModelFlag))}
	if c != nil {
		ropts = append(ropts, interpret.WithMaxTokens(c.MaxTokens), interpret.WithTemperature(c.Temperature))
	}
	return interpret.NewRequester(rt, ropts...), provider, nil
}

// explainAIError adds a user-facing hint for common provider failures.
func explainAIError(err error, provider, model string) error {
	var (
		authErr *ai.AuthError
		rlErr   *ai.RateLimitError
		nfErr   *ai.ModelNotFoundError
		brErr   *ai.BadRequestError
		qErr    *ai.QuotaExceededError
		sErr    *ai.ServerError
		unreach *ai.UnreachableError
	)
	switch {
	case errors.Is(err, interpret.ErrNotConfigured):
		if provider == ai.ProviderOllama {
			return fmt.Errorf("%s: %w", interpret.NotConfiguredMessage, err)
		}
		return fmt.Errorf("%s Set GEMINI_API_KEY or run 'dataexplorer config set api_key <key>': %w", interpret.NotConfiguredMessage, err)
	case errors.Is(err, interpret.ErrNothingToInterpret):
		return fmt.Errorf("%s: %w", interpret.NothingToInterpretMessage, err)
	case errors.As(err, &unreach):
		if provider == ai.ProviderOllama {
			return fmt.Errorf("Ollama not reachable at %s. Ensure Ollama is running and ollama_host is correct: %w", unreach.Host, err)
		}
		return fmt.Errorf("endpoint unreachable. Check your network and provider settings: %w", err)
	case errors.As(err, &authErr):
		return fmt.Errorf("authentication failed: set GEMINI_API_KEY or add api_key in config (~/.dataexplorer/config.yaml): %w", err)
	case errors.As(err, &rlErr):
		if rlErr.RetryAfter > 0 {
			return fmt.Errorf("rate limited, try again in ~%ds: %w", int(rlErr.RetryAfter.Seconds()), err)
		}
		return fmt.Errorf("rate limited by provider, please retry: %w", err)
	case errors.As(err, &nfErr):
		if provider == ai.ProviderOllama {
			return fmt.Errorf("local model not available (%s). Install it with 'ollama pull %s' or choose another model: %w", model, model, err)
		}
		return fmt.Errorf("model not found (%s). Verify the model name: %w", model, err)
	case errors.As(err, &brErr):
		return fmt.Errorf("request invalid. Try a smaller max_tokens: %w", err)
	case errors.As(err, &qErr):
		return fmt.Errorf("quota/billing issue. Check your provider account: %w", err)
	case errors.As(err, &sErr):
		return fmt.Errorf("provider appears unavailable (server error). Please retry later: %w", err)
	default:
		return fmt.Errorf("%s: %w", interpret.GenerationFailedMessage, err)
	}
}
