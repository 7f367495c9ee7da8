package genai

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client provides a lightweight facade over Gemini's image editing endpoint.
// Without an API key it renders deterministic synthetic portraits so the
// whole generation pipeline stays exercisable in local and CI environments.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *zerolog.Logger
}

// EditRequest carries everything needed for one transformation call.
type EditRequest struct {
	SourceURLs []string
	Prompt     string
	Count      int
	Quality    string
	OutputSize string
	RequestID  string
}

// ImageAsset is the normalized representation returned by the client.
type ImageAsset struct {
	Format string
	Width  int
	Height int
	Data   []byte
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
	FileData   *geminiFileData   `json:"fileData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiFileData struct {
	MimeType string `json:"mimeType,omitempty"`
	FileURI  string `json:"fileUri,omitempty"`
}

type geminiTool struct {
	ImageGeneration *geminiImageTool `json:"image_generation,omitempty"`
}

type geminiImageTool struct{}

type geminiToolConfig struct {
	ImageGenerationConfig *geminiImageGenerationConfig `json:"image_generation_config,omitempty"`
}

type geminiImageGenerationConfig struct {
	NumberOfImages int `json:"number_of_images,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	Tools            []geminiTool            `json:"tools,omitempty"`
	ToolConfig       *geminiToolConfig       `json:"tool_config,omitempty"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiGenerationConfig struct {
	CandidateCount int `json:"candidateCount,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client with sane defaults. Callers may provide
// a nil HTTP client; a reusable one with sensible timeouts will be created.
func NewClient(opts Options) (*Client, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash-image"
	}

	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: client,
		logger:     logger,
	}, nil
}

// Model returns the configured Gemini model identifier.
func (c *Client) Model() string {
	return c.model
}

// EditImages produces Count transformed portraits from the referenced source
// photo. Without credentials it falls back to deterministic synthetic assets
// so downstream storage and result mapping keep working end-to-end.
func (c *Client) EditImages(ctx context.Context, req EditRequest) ([]ImageAsset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.apiKey == "" {
		return c.syntheticImages(req), nil
	}

	assets, err := c.remoteEditImages(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("gemini returned no image content")
	}
	return assets, nil
}

func (c *Client) remoteEditImages(ctx context.Context, req EditRequest) ([]ImageAsset, error) {
	count := req.Count
	if count <= 0 {
		count = 1
	}

	parts := []geminiPart{{Text: buildEditPrompt(req)}}
	for _, src := range req.SourceURLs {
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		parts = append(parts, geminiPart{FileData: &geminiFileData{FileURI: src}})
	}

	payload := geminiGenerateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
		Tools:    []geminiTool{{ImageGeneration: &geminiImageTool{}}},
		ToolConfig: &geminiToolConfig{
			ImageGenerationConfig: &geminiImageGenerationConfig{NumberOfImages: count},
		},
	}

	var response geminiGenerateContentResponse
	if err := c.invokeGemini(ctx, fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.model)), payload, &response); err != nil {
		return nil, err
	}

	width, height := parseOutputSize(req.OutputSize)
	var assets []ImageAsset
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			data, format, err := c.decodeAssetPart(ctx, part)
			if err != nil || len(data) == 0 {
				continue
			}
			if format == "" {
				format = "image/png"
			}
			w, h := decodeImageDimensions(data)
			if w == 0 || h == 0 {
				w, h = width, height
			}
			assets = append(assets, ImageAsset{Format: format, Width: w, Height: h, Data: data})
			if len(assets) >= count {
				break
			}
		}
		if len(assets) >= count {
			break
		}
	}

	c.logger.Debug().
		Str("request_id", req.RequestID).
		Str("model", c.model).
		Int("count", len(assets)).
		Msg("genai: edited remote image assets")

	return assets, nil
}

func (c *Client) invokeGemini(ctx context.Context, path string, payload any, out any) error {
	endpoint := strings.TrimRight(c.baseURL, "/") + path
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr geminiErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		data, _ := io.ReadAll(resp.Body)
		if len(data) > 0 {
			return fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		}
		return fmt.Errorf("gemini status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

func (c *Client) decodeAssetPart(ctx context.Context, part geminiPart) ([]byte, string, error) {
	if part.InlineData != nil && part.InlineData.Data != "" {
		data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
		if err != nil {
			return nil, "", fmt.Errorf("decode inline data: %w", err)
		}
		return data, part.InlineData.MimeType, nil
	}

	if part.FileData != nil && part.FileData.FileURI != "" {
		data, mime, err := c.downloadFile(ctx, part.FileData.FileURI)
		if err != nil {
			return nil, "", err
		}
		if part.FileData.MimeType != "" {
			mime = part.FileData.MimeType
		}
		return data, mime, nil
	}

	return nil, "", nil
}

func (c *Client) downloadFile(ctx context.Context, uri string) ([]byte, string, error) {
	target := uri
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		target = strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(uri, "/")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create download request: %w", err)
	}
	if c.apiKey != "" {
		q := req.URL.Query()
		q.Set("key", c.apiKey)
		req.URL.RawQuery = q.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return nil, "", fmt.Errorf("download file status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	return blob, resp.Header.Get("Content-Type"), nil
}

func buildEditPrompt(req EditRequest) string {
	var b strings.Builder
	if prompt := strings.TrimSpace(req.Prompt); prompt != "" {
		b.WriteString(prompt)
	}
	if quality := strings.TrimSpace(req.Quality); quality != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Quality tier: ")
		b.WriteString(quality)
	}
	if size := strings.TrimSpace(req.OutputSize); size != "" {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Output size: ")
		b.WriteString(size)
	}
	if b.Len() == 0 {
		b.WriteString("Create a professional headshot")
	}
	return b.String()
}

func (c *Client) syntheticImages(req EditRequest) []ImageAsset {
	count := req.Count
	if count <= 0 {
		count = 1
	}

	width, height := parseOutputSize(req.OutputSize)
	assets := make([]ImageAsset, count)
	for i := 0; i < count; i++ {
		seed := deterministicSeed(req.RequestID, req.Prompt, strings.Join(req.SourceURLs, ","), i)
		assets[i] = ImageAsset{
			Format: "image/png",
			Width:  width,
			Height: height,
			Data:   renderSyntheticPortrait(width, height, seed),
		}
	}

	c.logger.Debug().
		Str("request_id", req.RequestID).
		Str("model", c.model).
		Int("count", count).
		Msg("genai: generated synthetic image assets")

	return assets
}

// renderSyntheticPortrait draws a seeded placeholder: a flat backdrop with a
// head-and-shoulders silhouette so the output is recognizably a portrait.
func renderSyntheticPortrait(width, height int, seed string) []byte {
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 1024
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	backdrop := colorFromSeed(seed, 0)
	subject := colorFromSeed(seed, 1)
	draw.Draw(img, img.Bounds(), &image.Uniform{backdrop}, image.Point{}, draw.Src)

	// Head: a filled circle centered in the upper half.
	cx, cy := width/2, height*2/5
	r := height / 6
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r && x >= 0 && x < width && y >= 0 && y < height {
				img.Set(x, y, subject)
			}
		}
	}
	// Shoulders: a rectangle rising from the bottom edge.
	shoulders := image.Rect(width/5, height*3/5, width*4/5, height)
	draw.Draw(img, shoulders, &image.Uniform{subject}, image.Point{}, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

func colorFromSeed(seed string, shift int) color.RGBA {
	if seed == "" {
		seed = "000000"
	}
	doubled := seed + seed
	start := (shift * 6) % len(seed)
	segment := doubled[start : start+6]
	r := mustParseHexByte(segment[0:2])
	g := mustParseHexByte(segment[2:4])
	b := mustParseHexByte(segment[4:6])
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func mustParseHexByte(s string) uint8 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

func deterministicSeed(parts ...any) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(fmt.Sprintf("%v", part)))
		hasher.Write([]byte{'|'})
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}

func decodeImageDimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

func parseOutputSize(size string) (int, int) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(size)), "x", 2)
	if len(parts) == 2 {
		w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
		h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errW == nil && errH == nil && w > 0 && h > 0 {
			return w, h
		}
	}
	return 1024, 1024
}
