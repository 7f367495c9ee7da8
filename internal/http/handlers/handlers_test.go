package handlers_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"headshot/internal/export"
	"headshot/internal/http/handlers"
	"headshot/internal/http/httpapi"
	"headshot/internal/providers/genai"
	image "headshot/internal/providers/image"
	"headshot/internal/storage"
	"headshot/internal/upload"
	"headshot/internal/workflow"
)

type sessionState struct {
	ID         string `json:"id"`
	Stage      string `json:"stage"`
	HasSource  bool   `json:"has_source"`
	Filename   string `json:"filename"`
	PreviewURL string `json:"preview_url"`
	Style      string `json:"style"`
	FreeText   string `json:"free_text"`
	Quantity   int    `json:"quantity"`
	Progress   int    `json:"progress"`
	Results    []struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"results"`
	Notice string `json:"notice"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// newTestAPI wires the full stack against a temp-dir blob store fronted by a
// static file server, so generated result URLs resolve over real HTTP and the
// export paths are exercised end to end.
func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	static := httptest.NewServer(http.FileServer(http.Dir(dir)))
	t.Cleanup(static.Close)

	store, err := storage.NewFileStore(dir, static.URL)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	client, err := genai.NewClient(genai.Options{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	previews := upload.NewPreviewStore()
	app := handlers.NewApp(
		zerolog.Nop(),
		workflow.NewRegistry(previews, time.Hour, zerolog.Nop()),
		workflow.NewOrchestrator(store, image.NewGeminiTransformer(client, store), zerolog.Nop()),
		export.NewExporter(static.Client()),
		upload.NewValidator(previews),
		previews,
	)

	api := httptest.NewServer(httpapi.NewRouter(app, httpapi.Options{Logger: zerolog.Nop()}))
	t.Cleanup(api.Close)
	return api
}

func jpegPayload(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte{0xFF, 0xD8, 0xFF, 0xE0})
	return data
}

func multipartFile(t *testing.T, filename, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	return &body, mw.FormDataContentType()
}

func doJSON(t *testing.T, method, url string, payload any) (int, sessionState, errorBody) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var state sessionState
	var apiErr errorBody
	if resp.StatusCode < http.StatusBadRequest {
		_ = json.Unmarshal(raw, &state)
	} else {
		_ = json.Unmarshal(raw, &apiErr)
	}
	return resp.StatusCode, state, apiErr
}

func createSession(t *testing.T, api *httptest.Server) sessionState {
	t.Helper()
	status, state, _ := doJSON(t, http.MethodPost, api.URL+"/v1/sessions", nil)
	if status != http.StatusCreated {
		t.Fatalf("create session status = %d", status)
	}
	if state.Stage != "upload" || state.ID == "" {
		t.Fatalf("fresh session = %+v", state)
	}
	return state
}

func uploadSource(t *testing.T, api *httptest.Server, id string, filename, contentType string, payload []byte) (int, sessionState, errorBody) {
	t.Helper()
	body, formType := multipartFile(t, filename, contentType, payload)
	resp, err := http.Post(api.URL+"/v1/sessions/"+id+"/upload", formType, body)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()

	var state sessionState
	var apiErr errorBody
	if resp.StatusCode < http.StatusBadRequest {
		_ = json.NewDecoder(resp.Body).Decode(&state)
	} else {
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
	}
	return resp.StatusCode, state, apiErr
}

func pollStage(t *testing.T, api *httptest.Server, id, want string) sessionState {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	var last sessionState
	for time.Now().Before(deadline) {
		status, state, _ := doJSON(t, http.MethodGet, api.URL+"/v1/sessions/"+id, nil)
		if status != http.StatusOK {
			t.Fatalf("poll status = %d", status)
		}
		if state.Stage == want {
			return state
		}
		last = state
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for stage %q (last %+v)", want, last)
	return sessionState{}
}

func TestGuidedWorkflowEndToEnd(t *testing.T) {
	api := newTestAPI(t)
	sess := createSession(t, api)
	base := api.URL + "/v1/sessions/" + sess.ID

	status, state, _ := uploadSource(t, api, sess.ID, "selfie.jpg", "image/jpeg", jpegPayload(2<<20))
	if status != http.StatusOK {
		t.Fatalf("upload status = %d", status)
	}
	if state.Stage != "upload" || !state.HasSource || state.PreviewURL == "" {
		t.Fatalf("after upload = %+v", state)
	}

	resp, err := http.Get(api.URL + state.PreviewURL)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/jpeg" {
		t.Fatalf("preview status = %d, type = %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	status, state, _ = doJSON(t, http.MethodPost, base+"/confirm", nil)
	if status != http.StatusOK || state.Stage != "customize" {
		t.Fatalf("confirm status = %d, stage = %q", status, state.Stage)
	}

	status, state, _ = doJSON(t, http.MethodPatch, base+"/request", map[string]any{
		"style":     "creative",
		"free_text": "outdoor setting",
		"quantity":  6,
	})
	if status != http.StatusOK {
		t.Fatalf("request update status = %d", status)
	}
	if state.Style != "creative" || state.FreeText != "outdoor setting" || state.Quantity != 6 {
		t.Fatalf("after update = %+v", state)
	}

	status, state, _ = doJSON(t, http.MethodPost, base+"/generate", nil)
	if status != http.StatusAccepted || state.Stage != "generating" {
		t.Fatalf("generate status = %d, stage = %q", status, state.Stage)
	}

	state = pollStage(t, api, sess.ID, "results")
	if state.Progress != 100 {
		t.Fatalf("progress = %d, want 100", state.Progress)
	}
	if len(state.Results) != 6 {
		t.Fatalf("results = %d, want 6", len(state.Results))
	}
	for i, r := range state.Results {
		if r.ID == "" || r.URL == "" {
			t.Fatalf("result %d = %+v", i, r)
		}
	}

	resp, err = http.Get(base + "/results/" + state.Results[0].ID + "/download")
	if err != nil {
		t.Fatalf("single download: %v", err)
	}
	payload, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || len(payload) == 0 {
		t.Fatalf("single download status = %d, bytes = %d", resp.StatusCode, len(payload))
	}
	if disposition := resp.Header.Get("Content-Disposition"); !strings.Contains(disposition, "attachment") {
		t.Fatalf("disposition = %q", disposition)
	}

	resp, err = http.Get(base + "/results/download")
	if err != nil {
		t.Fatalf("bulk download: %v", err)
	}
	archive, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/zip" {
		t.Fatalf("bulk download status = %d, type = %q", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 6 {
		t.Fatalf("archive entries = %d, want 6", len(zr.File))
	}

	// Regenerate replaces the result set wholesale from the Results stage.
	status, state, _ = doJSON(t, http.MethodPost, base+"/regenerate", nil)
	if status != http.StatusAccepted || state.Stage != "generating" {
		t.Fatalf("regenerate status = %d, stage = %q", status, state.Stage)
	}
	state = pollStage(t, api, sess.ID, "results")
	if len(state.Results) != 6 {
		t.Fatalf("results after regenerate = %d, want 6", len(state.Results))
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	api := newTestAPI(t)
	sess := createSession(t, api)

	status, _, apiErr := uploadSource(t, api, sess.ID, "huge.jpg", "image/jpeg", jpegPayload(12<<20))
	if status != http.StatusBadRequest || apiErr.Error != "file_too_large" {
		t.Fatalf("status = %d, error = %q", status, apiErr.Error)
	}

	_, state, _ := doJSON(t, http.MethodGet, api.URL+"/v1/sessions/"+sess.ID, nil)
	if state.Stage != "upload" || state.HasSource {
		t.Fatalf("rejection must leave the session untouched: %+v", state)
	}
}

func TestUploadRejectsNonImagePayload(t *testing.T) {
	api := newTestAPI(t)
	sess := createSession(t, api)

	// Renamed text file: declared type lies, the sniffer catches it.
	status, _, apiErr := uploadSource(t, api, sess.ID, "notes.png", "image/png", []byte("just some plain text, definitely not pixels"))
	if status != http.StatusBadRequest || apiErr.Error != "unsupported_type" {
		t.Fatalf("status = %d, error = %q", status, apiErr.Error)
	}

	status, _, apiErr = uploadSource(t, api, sess.ID, "doc.pdf", "application/pdf", jpegPayload(1024))
	if status != http.StatusBadRequest || apiErr.Error != "unsupported_type" {
		t.Fatalf("declared non-image: status = %d, error = %q", status, apiErr.Error)
	}
}

func TestConfirmRequiresSource(t *testing.T) {
	api := newTestAPI(t)
	sess := createSession(t, api)

	status, _, apiErr := doJSON(t, http.MethodPost, api.URL+"/v1/sessions/"+sess.ID+"/confirm", nil)
	if status != http.StatusBadRequest || apiErr.Error != "no_source_image" {
		t.Fatalf("status = %d, error = %q", status, apiErr.Error)
	}
}

func TestGenerateBlockedOutsideCustomize(t *testing.T) {
	api := newTestAPI(t)
	sess := createSession(t, api)

	status, _, apiErr := doJSON(t, http.MethodPost, api.URL+"/v1/sessions/"+sess.ID+"/generate", nil)
	if status != http.StatusConflict || apiErr.Error != "invalid_transition" {
		t.Fatalf("status = %d, error = %q", status, apiErr.Error)
	}
}

func TestBackKeepsSourceAndResetClears(t *testing.T) {
	api := newTestAPI(t)
	sess := createSession(t, api)
	base := api.URL + "/v1/sessions/" + sess.ID

	if status, _, _ := uploadSource(t, api, sess.ID, "a.jpg", "image/jpeg", jpegPayload(1024)); status != http.StatusOK {
		t.Fatalf("upload status = %d", status)
	}
	if status, _, _ := doJSON(t, http.MethodPost, base+"/confirm", nil); status != http.StatusOK {
		t.Fatalf("confirm status = %d", status)
	}

	status, state, _ := doJSON(t, http.MethodPost, base+"/back", nil)
	if status != http.StatusOK || state.Stage != "upload" || !state.HasSource {
		t.Fatalf("back: status = %d, state = %+v", status, state)
	}

	status, state, _ = doJSON(t, http.MethodPost, base+"/reset", nil)
	if status != http.StatusOK {
		t.Fatalf("reset status = %d", status)
	}
	if state.Stage != "upload" || state.HasSource || state.Style != "professional" || state.Quantity != 4 {
		t.Fatalf("reset must restore defaults: %+v", state)
	}
}

func TestUnknownSessionIs404(t *testing.T) {
	api := newTestAPI(t)

	status, _, apiErr := doJSON(t, http.MethodGet, api.URL+"/v1/sessions/does-not-exist", nil)
	if status != http.StatusNotFound || apiErr.Error != "not_found" {
		t.Fatalf("status = %d, error = %q", status, apiErr.Error)
	}
}

func TestBulkDownloadWithoutResultsIs404(t *testing.T) {
	api := newTestAPI(t)
	sess := createSession(t, api)

	status, _, apiErr := doJSON(t, http.MethodGet, api.URL+"/v1/sessions/"+sess.ID+"/results/download", nil)
	if status != http.StatusNotFound || apiErr.Error != "not_found" {
		t.Fatalf("status = %d, error = %q", status, apiErr.Error)
	}
}
