package imagegen

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/DaanHessen/cometcondo/internal/engine"
	"github.com/DaanHessen/cometcondo/internal/util"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	resp     *genai.GenerateContentResponse
	err      error
	calls    int
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model, f.contents, f.config = model, contents, config
	return f.resp, f.err
}

func imageResponse(mime string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{
			{Text: "here you go"},
			{InlineData: &genai.Blob{MIMEType: mime, Data: data}},
		}},
	}}}
}

func testProperty(t *testing.T) engine.Property {
	t.Helper()
	c, err := engine.LoadCatalog()
	require.NoError(t, err)
	p, ok := c.Property(2)
	require.True(t, ok)
	return p
}

func TestPropertyRenderRequest(t *testing.T) {
	fake := &fakeModels{resp: imageResponse("image/png", []byte{0x89, 'P', 'N', 'G'})}
	gw := newGenAIGateway(fake, "", nil)

	ref, err := gw.PropertyRender(context.Background(), testProperty(t))
	require.NoError(t, err)
	assert.Equal(t, "image/png", ref.MIMEType)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, ref.Data)

	assert.Equal(t, defaultModel, fake.model)
	require.NotNil(t, fake.config)
	assert.Equal(t, []string{string(genai.ModalityImage)}, fake.config.ResponseModalities)
	require.Len(t, fake.contents, 1)
	parts := fake.contents[0].Parts
	require.Len(t, parts, 1, "text only, no reference image")
	assert.Contains(t, parts[0].Text, `"Meteorite Manor", a comfort class condo on a comet`)
}

func TestAvatarRenderSendsPhotoFirst(t *testing.T) {
	fake := &fakeModels{resp: imageResponse("", []byte("img"))}
	gw := newGenAIGateway(fake, "custom-model", nil)
	photo := engine.ImageRef{MIMEType: "image/jpeg", Data: []byte("jpeg-bytes")}

	ref, err := gw.AvatarRender(context.Background(), photo, engine.DefaultDesign())
	require.NoError(t, err)
	assert.Equal(t, "image/png", ref.MIMEType, "missing mime defaults to png")
	assert.Equal(t, "custom-model", fake.model)

	parts := fake.contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, "image/jpeg", parts[0].InlineData.MIMEType)
	assert.Equal(t, photo.Data, parts[0].InlineData.Data)
	assert.Equal(t, AvatarPrompt(engine.DefaultDesign()), parts[1].Text)
}

func TestAvatarRenderNeedsInlinePhoto(t *testing.T) {
	fake := &fakeModels{}
	gw := newGenAIGateway(fake, "", nil)
	_, err := gw.AvatarRender(context.Background(), engine.ImageRef{URL: "https://example.com/me.png"}, engine.DefaultDesign())
	assert.ErrorIs(t, err, ErrNoPhoto)
	assert.Zero(t, fake.calls)
}

func TestRenderWithoutImageIsNoImage(t *testing.T) {
	for name, resp := range map[string]*genai.GenerateContentResponse{
		"nil response":  nil,
		"no candidates": {},
		"text only": {Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{{Text: "sorry"}}}}}},
		"nil content":   {Candidates: []*genai.Candidate{{}}},
	} {
		t.Run(name, func(t *testing.T) {
			gw := newGenAIGateway(&fakeModels{resp: resp}, "", nil)
			_, err := gw.PropertyRender(context.Background(), testProperty(t))
			assert.ErrorIs(t, err, ErrNoImage)
			assert.ErrorIs(t, err, engine.ErrNoImage)
		})
	}
}

func TestFirstImageScansLaterCandidates(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: &genai.Content{Parts: []*genai.Part{{Text: "none here"}}}},
		{Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{MIMEType: "image/webp", Data: []byte("w")}}}}},
	}}
	ref, err := firstImage(resp)
	require.NoError(t, err)
	assert.Equal(t, "image/webp", ref.MIMEType)
}

func TestRenderTransportError(t *testing.T) {
	boom := errors.New("quota exceeded")
	gw := newGenAIGateway(&fakeModels{err: boom}, "", nil)
	_, err := gw.PropertyRender(context.Background(), testProperty(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNoImage)
}

func TestOfflineGateway(t *testing.T) {
	gw, err := NewGateway(context.Background(), util.Defaults(), nil)
	require.NoError(t, err)
	_, err = gw.PropertyRender(context.Background(), testProperty(t))
	assert.ErrorIs(t, err, ErrNoCredential)
	_, err = gw.AvatarRender(context.Background(), engine.ImageRef{}, engine.DefaultDesign())
	assert.ErrorIs(t, err, ErrNoCredential)
}
