package imagegen

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/DaanHessen/cometcondo/internal/engine"
)

const defaultModel = "gemini-2.5-flash-image"

// contentGenerator is the slice of *genai.Models the gateway uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GenAIGateway calls Gemini in image output mode.
type GenAIGateway struct {
	models contentGenerator
	model  string
	log    *zap.Logger
}

// NewGenAIGateway creates a Gemini API client for apiKey.
func NewGenAIGateway(ctx context.Context, apiKey, model string, log *zap.Logger) (*GenAIGateway, error) {
	if apiKey == "" {
		return nil, ErrNoCredential
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create genai client")
	}
	return newGenAIGateway(client.Models, model, log), nil
}

func newGenAIGateway(models contentGenerator, model string, log *zap.Logger) *GenAIGateway {
	if model == "" {
		model = defaultModel
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GenAIGateway{models: models, model: model, log: log}
}

func (g *GenAIGateway) PropertyRender(ctx context.Context, p engine.Property) (engine.ImageRef, error) {
	ref, err := g.generate(ctx, "property", PropertyPrompt(p), nil)
	if err != nil {
		g.log.Error("property render failed", zap.Int("property", p.ID), zap.Error(err))
		return engine.ImageRef{}, err
	}
	return ref, nil
}

func (g *GenAIGateway) AvatarRender(ctx context.Context, photo engine.ImageRef, d engine.AvatarDesign) (engine.ImageRef, error) {
	if !photo.Inline() {
		return engine.ImageRef{}, ErrNoPhoto
	}
	ref, err := g.generate(ctx, "avatar", AvatarPrompt(d), &photo)
	if err != nil {
		g.log.Error("avatar render failed", zap.Error(err))
		return engine.ImageRef{}, err
	}
	return ref, nil
}

func (g *GenAIGateway) generate(ctx context.Context, target, prompt string, reference *engine.ImageRef) (engine.ImageRef, error) {
	parts := make([]*genai.Part, 0, 2)
	if reference != nil {
		parts = append(parts, genai.NewPartFromBytes(reference.Data, reference.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(prompt))
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	g.log.Info("image generation request",
		zap.String("target", target),
		zap.String("model", g.model),
		zap.Int("prompt_len", len(prompt)),
		zap.Bool("reference", reference != nil))

	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityImage)},
	})
	if err != nil {
		return engine.ImageRef{}, errors.Wrap(err, "generate content")
	}
	return firstImage(resp)
}

// firstImage returns the first inline payload across all candidates.
func firstImage(resp *genai.GenerateContentResponse) (engine.ImageRef, error) {
	if resp == nil {
		return engine.ImageRef{}, ErrNoImage
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			mime := part.InlineData.MIMEType
			if mime == "" {
				mime = "image/png"
			}
			return engine.ImageRef{MIMEType: mime, Data: part.InlineData.Data}, nil
		}
	}
	return engine.ImageRef{}, ErrNoImage
}
