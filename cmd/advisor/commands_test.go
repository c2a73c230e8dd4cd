package main

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/coverly/advisor/internal/attachment"
)

type recordedChat struct {
	Message  string
	Profile  string
	Files    []string
	FileData map[string]string
}

type testServer struct {
	server *httptest.Server
	chats  []recordedChat
}

// newTestServer stands in for a running advisor: it records each /chat
// form and answers with the given response text.
func newTestServer(t *testing.T, response string, status int) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" || r.Method != http.MethodPost {
			w.WriteHeader(404)
			return
		}
		if err := r.ParseMultipartForm(4 << 20); err != nil {
			t.Errorf("parsing form: %v", err)
			w.WriteHeader(400)
			return
		}

		rec := recordedChat{
			Message:  r.FormValue("message"),
			Profile:  r.FormValue("profile"),
			FileData: map[string]string{},
		}
		if r.MultipartForm != nil {
			for _, fh := range r.MultipartForm.File["files"] {
				rec.Files = append(rec.Files, fh.Filename)
				f, err := fh.Open()
				if err != nil {
					t.Errorf("opening part %s: %v", fh.Filename, err)
					continue
				}
				data, err := io.ReadAll(f)
				f.Close()
				if err != nil {
					t.Errorf("reading part %s: %v", fh.Filename, err)
					continue
				}
				rec.FileData[fh.Filename] = string(data)
			}
		}
		ts.chats = append(ts.chats, rec)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		httpClient: ts.server.Client(),
	}
}

var ctx = context.Background()

func TestChat_SendsFormFields(t *testing.T) {
	ts := newTestServer(t, `{"response":"Consider term life.","profile_received":true,"files_received":false}`, 200)

	result, err := ts.client().chat(ctx, "What should I buy?", `{"age":"34"}`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Response != "Consider term life." {
		t.Errorf("response = %q", result.Response)
	}
	if !result.ProfileReceived {
		t.Error("profile_received = false, want true")
	}

	if len(ts.chats) != 1 {
		t.Fatalf("expected 1 request, got %d", len(ts.chats))
	}
	rec := ts.chats[0]
	if rec.Message != "What should I buy?" {
		t.Errorf("message = %q", rec.Message)
	}
	if rec.Profile != `{"age":"34"}` {
		t.Errorf("profile = %q", rec.Profile)
	}
	if len(rec.Files) != 0 {
		t.Errorf("expected no file parts, got %v", rec.Files)
	}
}

func TestChat_SendsAttachmentsAsFileParts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := attachment.FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}

	ts := newTestServer(t, `{"response":"ok","profile_received":false,"files_received":true}`, 200)

	result, err := ts.client().chat(ctx, "review this", "{}", []attachment.Descriptor{d})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.FilesReceived {
		t.Error("files_received = false, want true")
	}

	rec := ts.chats[0]
	if len(rec.Files) != 1 || rec.Files[0] != "policy.pdf" {
		t.Fatalf("files = %v, want [policy.pdf]", rec.Files)
	}
	if rec.FileData["policy.pdf"] != "%PDF-1.4 fake" {
		t.Errorf("file bytes = %q", rec.FileData["policy.pdf"])
	}
}

func TestChat_QuotedFilename(t *testing.T) {
	dir := t.TempDir()
	name := `claims "final".txt`
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := attachment.FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}

	ts := newTestServer(t, `{"response":"ok","profile_received":false,"files_received":true}`, 200)

	if _, err := ts.client().chat(ctx, "check", "{}", []attachment.Descriptor{d}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ts.chats[0].Files[0]; got != name {
		t.Errorf("filename = %q, want %q", got, name)
	}
}

func TestChat_ServerErrorSurfacedAsText(t *testing.T) {
	ts := newTestServer(t, `{"error":"Sorry, there was an error connecting to the server."}`, 500)

	_, err := ts.client().chat(ctx, "hello", "{}", nil)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "error connecting to the server") {
		t.Errorf("error = %q, want the server's error text", err.Error())
	}
}

func TestChat_ServerNotReachable(t *testing.T) {
	ts := newTestServer(t, `{}`, 200)
	ts.server.Close()

	_, err := ts.client().chat(ctx, "hello", "{}", nil)
	if err == nil {
		t.Fatal("expected error for closed server")
	}
	if !strings.Contains(err.Error(), "not reachable") {
		t.Errorf("error = %q, want it to mention 'not reachable'", err.Error())
	}
}

func TestChat_MultipartContentType(t *testing.T) {
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response":"ok","profile_received":false,"files_received":false}`))
	}))
	defer srv.Close()

	client := &apiClient{baseURL: srv.URL, httpClient: srv.Client()}
	if _, err := client.chat(ctx, "hi", "{}", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		t.Fatalf("bad Content-Type %q: %v", contentType, err)
	}
	if mediaType != "multipart/form-data" {
		t.Errorf("media type = %q, want multipart/form-data", mediaType)
	}
	if params["boundary"] == "" {
		t.Error("missing multipart boundary")
	}
}

func TestChat_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	cancelCtx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &apiClient{baseURL: srv.URL, httpClient: srv.Client()}
	if _, err := client.chat(cancelCtx, "hi", "{}", nil); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestLoadProfileJSON(t *testing.T) {
	got, err := loadProfileJSON("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "{}" {
		t.Errorf("empty path = %q, want {}", got)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")
	content := `{"age":"29","occupation":"pilot"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err = loadProfileJSON(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != content {
		t.Errorf("loaded = %q, want %q", got, content)
	}

	if _, err := loadProfileJSON(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAskCommand_RequiresInput(t *testing.T) {
	defer rootCmd.SetArgs(nil)

	rootCmd.SetArgs([]string{"ask"})
	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for empty ask")
	}
	if !strings.Contains(err.Error(), "required") {
		t.Errorf("error = %q, want it to mention 'required'", err.Error())
	}
}

func TestAskCommand_EndToEnd(t *testing.T) {
	ts := newTestServer(t, `{"response":"You are well covered.","profile_received":false,"files_received":false}`, 200)

	oldFactory := newAPIClient
	defer func() { newAPIClient = oldFactory }()
	newAPIClient = func() (*apiClient, error) {
		return ts.client(), nil
	}

	defer rootCmd.SetArgs(nil)
	rootCmd.SetArgs([]string{"ask", "am", "I", "covered?"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ts.chats) != 1 {
		t.Fatalf("expected 1 request, got %d", len(ts.chats))
	}
	if ts.chats[0].Message != "am I covered?" {
		t.Errorf("message = %q, want joined args", ts.chats[0].Message)
	}
	if ts.chats[0].Profile != "{}" {
		t.Errorf("profile = %q, want {}", ts.chats[0].Profile)
	}
}

func TestNoColorFlag(t *testing.T) {
	old := noColor
	defer func() { noColor = old }()

	noColor = true
	result := colorize(ansiGreen, "test message")
	if strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=true should not contain ANSI codes, got %q", result)
	}
	if result != "test message" {
		t.Errorf("result = %q, want %q", result, "test message")
	}

	noColor = false
	result = colorize(ansiGreen, "test message")
	if !strings.Contains(result, "\033[") {
		t.Errorf("colorize with noColor=false should contain ANSI codes, got %q", result)
	}
}

func TestYesNo(t *testing.T) {
	if yesNo(true) != "yes" || yesNo(false) != "no" {
		t.Error("yesNo mapping broken")
	}
}

func TestChatResultDecoding(t *testing.T) {
	var result chatResult
	payload := `{"response":"hi","profile_received":true,"files_received":true,"extra":"ignored"}`
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Response != "hi" || !result.ProfileReceived || !result.FilesReceived {
		t.Errorf("result = %+v", result)
	}
}
