package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cimillas/cert-checkout/internal/storage/dropbox"
)

// FakeDropbox stands in for the Dropbox token, RPC, and content
// endpoints in tests. All counters and stored files are guarded so
// parallel requests from the code under test are safe.
type FakeDropbox struct {
	Server *httptest.Server

	mu           sync.Mutex
	refreshCalls int
	uploadCalls  int
	failRefresh  bool
	failUploads  int
	folders      map[string]bool
	files        map[string][]byte
}

func NewFakeDropbox(t *testing.T) *FakeDropbox {
	t.Helper()

	f := &FakeDropbox{
		folders: make(map[string]bool),
		files:   make(map[string][]byte),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", f.handleToken)
	mux.HandleFunc("/2/files/get_metadata", f.handleGetMetadata)
	mux.HandleFunc("/2/files/create_folder_v2", f.handleCreateFolder)
	mux.HandleFunc("/2/files/upload", f.handleUpload)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// Config returns a client config pointing every endpoint at the fake.
func (f *FakeDropbox) Config() dropbox.Config {
	return dropbox.Config{
		AppKey:          "test-app-key",
		AppSecret:       "test-app-secret",
		RefreshToken:    "test-refresh-token",
		TokenURL:        f.Server.URL + "/oauth2/token",
		APIURL:          f.Server.URL,
		ContentURL:      f.Server.URL,
		RootFolder:      "/orders",
		RefreshInterval: 3 * time.Hour,
	}
}

// FailRefresh makes subsequent token requests return an error payload.
func (f *FakeDropbox) FailRefresh(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failRefresh = fail
}

// FailUploads makes the next n uploads return a server error.
func (f *FakeDropbox) FailUploads(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failUploads = n
}

func (f *FakeDropbox) RefreshCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls
}

func (f *FakeDropbox) UploadCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uploadCalls
}

// Files returns a copy of the stored files keyed by path.
func (f *FakeDropbox) Files() map[string][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string][]byte, len(f.files))
	for path, contents := range f.files {
		out[path] = append([]byte(nil), contents...)
	}
	return out
}

// CreateFolder pre-creates a folder, as if it already existed remotely.
func (f *FakeDropbox) CreateFolder(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.folders[path] = true
}

func (f *FakeDropbox) handleToken(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.refreshCalls++
	calls := f.refreshCalls
	fail := f.failRefresh
	f.mu.Unlock()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil || r.PostFormValue("grant_type") != "refresh_token" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unsupported_grant_type"})
		return
	}
	if r.PostFormValue("refresh_token") == "" || r.PostFormValue("client_id") == "" || r.PostFormValue("client_secret") == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid_request"})
		return
	}
	if fail {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "invalid_grant"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": fmt.Sprintf("test-access-token-%d", calls),
		"token_type":   "bearer",
		"expires_in":   14400,
	})
}

func (f *FakeDropbox) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	var arg struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&arg); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	exists := f.folders[arg.Path]
	f.mu.Unlock()

	if !exists {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error_summary": "path/not_found/..",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		".tag":         "folder",
		"name":         arg.Path,
		"path_display": arg.Path,
	})
}

func (f *FakeDropbox) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	var arg struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&arg); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	exists := f.folders[arg.Path]
	f.folders[arg.Path] = true
	f.mu.Unlock()

	if exists {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error_summary": "path/conflict/folder/..",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"metadata": map[string]any{"name": arg.Path, "path_display": arg.Path},
	})
}

func (f *FakeDropbox) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	var arg struct {
		Path       string `json:"path"`
		Mode       string `json:"mode"`
		Autorename bool   `json:"autorename"`
	}
	if err := json.Unmarshal([]byte(r.Header.Get("Dropbox-API-Arg")), &arg); err != nil {
		http.Error(w, "bad api arg", http.StatusBadRequest)
		return
	}
	contents, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.uploadCalls++
	if f.failUploads > 0 {
		f.failUploads--
		f.mu.Unlock()
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error_summary": "internal_error/..",
		})
		return
	}

	path := arg.Path
	if _, taken := f.files[path]; taken {
		if !arg.Autorename {
			f.mu.Unlock()
			writeJSON(w, http.StatusConflict, map[string]any{
				"error_summary": "path/conflict/file/..",
			})
			return
		}
		for i := 1; ; i++ {
			renamed := fmt.Sprintf("%s (%d)", path, i)
			if _, taken := f.files[renamed]; !taken {
				path = renamed
				break
			}
		}
	}
	f.files[path] = contents
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"name":         path,
		"path_display": path,
		"size":         len(contents),
	})
}

func (f *FakeDropbox) authorized(w http.ResponseWriter, r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if len(auth) < len("Bearer ") || auth[:len("Bearer ")] != "Bearer " {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error_summary": "invalid_access_token/..",
		})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
