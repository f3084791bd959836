package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/voxarena/arena-go/internal/model"
)

// SynthTimeout bounds a single synthesis call against the routing service.
const SynthTimeout = 120 * time.Second

// SynthClient talks to the external synthesis routing service, which fans
// requests out to the individual TTS providers.
type SynthClient struct {
	routerURL string
	token     string
	client    *http.Client
}

func NewSynthClient(routerURL, token string) *SynthClient {
	return &SynthClient{
		routerURL: routerURL,
		token:     token,
		client:    &http.Client{Timeout: SynthTimeout},
	}
}

type synthRequest struct {
	ProviderID string             `json:"provider_id"`
	Text       string             `json:"text,omitempty"`
	Script     []model.ScriptLine `json:"script,omitempty"`
}

type synthResponse struct {
	AudioData string `json:"audio_data"`
	Error     string `json:"error"`
}

// Synthesize renders a single utterance with the given provider and returns
// the raw audio bytes.
func (c *SynthClient) Synthesize(ctx context.Context, providerID, text string) ([]byte, error) {
	return c.call(ctx, synthRequest{ProviderID: providerID, Text: text})
}

// SynthesizeScript renders a multi-speaker conversational script.
func (c *SynthClient) SynthesizeScript(ctx context.Context, providerID string, script []model.ScriptLine) ([]byte, error) {
	return c.call(ctx, synthRequest{ProviderID: providerID, Script: script})
}

func (c *SynthClient) call(ctx context.Context, sr synthRequest) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, SynthTimeout)
	defer cancel()

	body, err := json.Marshal(sr)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.routerURL+"/synthesize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider %s returned status %d", model.ErrGenerationFailed, sr.ProviderID, resp.StatusCode)
	}

	var out synthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", model.ErrGenerationFailed, err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: provider %s: %s", model.ErrGenerationFailed, sr.ProviderID, out.Error)
	}

	audio, err := base64.StdEncoding.DecodeString(out.AudioData)
	if err != nil {
		return nil, fmt.Errorf("%w: decode audio: %v", model.ErrGenerationFailed, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: provider %s returned empty audio", model.ErrGenerationFailed, sr.ProviderID)
	}
	return audio, nil
}
