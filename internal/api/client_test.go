package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/model-cloud/mcloud/internal/notify"
	"github.com/model-cloud/mcloud/internal/session"
)

type mockNavigator struct {
	mu    sync.Mutex
	calls int
}

func (m *mockNavigator) RedirectToLogin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
}

func (m *mockNavigator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type fixture struct {
	client    *Client
	storage   *session.FileStorage
	sessions  *session.Store
	notifier  *notify.Recorder
	navigator *mockNavigator
}

func newFixture(t *testing.T, serverURL string) *fixture {
	t.Helper()

	storage, err := session.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	sessions, err := session.New(storage, zerolog.Nop())
	require.NoError(t, err)

	notifier := &notify.Recorder{}
	navigator := &mockNavigator{}

	client := New(serverURL, sessions, storage, notifier, zerolog.Nop())
	client.SetNavigator(navigator)

	return &fixture{
		client:    client,
		storage:   storage,
		sessions:  sessions,
		notifier:  notifier,
		navigator: navigator,
	}
}

func envelopeJSON(code int, message string, data any) []byte {
	body, _ := json.Marshal(map[string]any{"code": code, "message": message, "data": data})
	return body
}

func TestClient_UnwrapsEnvelopeData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/business/model/7", r.URL.Path)
		w.Write(envelopeJSON(200, "ok", map[string]any{"id": 7, "name": "resnet", "status": 20}))
	}))
	defer server.Close()

	f := newFixture(t, server.URL)

	model, err := f.client.ModelDetail(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), model.ID)
	assert.Equal(t, "resnet", model.Name)
	assert.Equal(t, "approved", model.StatusText())
	assert.Empty(t, f.notifier.Errors)
}

func TestClient_AttachesBearerTokenFromStorage(t *testing.T) {
	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		w.Write(envelopeJSON(200, "ok", nil))
	}))
	defer server.Close()

	f := newFixture(t, server.URL)

	// Written to storage after the store was constructed: the request
	// stage reads storage directly, so the token is still attached.
	require.NoError(t, f.storage.Set(session.KeyToken, "tok-abc"))
	require.Empty(t, f.sessions.Token())

	require.NoError(t, f.client.Logout(context.Background()))
	assert.Equal(t, "Bearer tok-abc", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_Envelope401_ClearsSessionOnceAndRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelopeJSON(401, "token expired", nil))
	}))
	defer server.Close()

	f := newFixture(t, server.URL)
	require.NoError(t, f.sessions.SetToken("stale"))
	require.NoError(t, f.sessions.SetUserInfo(&session.UserProfile{ID: 1, Username: "ada"}))

	_, err := f.client.ModelDetail(context.Background(), 1)

	var envErr *Error
	require.ErrorAs(t, err, &envErr)
	assert.Equal(t, 401, envErr.Code)
	assert.Equal(t, "token expired", envErr.Message)
	assert.True(t, IsAuthExpired(err))

	// Exactly one clear, one notice, one redirect.
	assert.False(t, f.sessions.IsLoggedIn())
	assert.Nil(t, f.sessions.UserInfo())
	assert.Equal(t, 1, f.navigator.Calls())
	assert.Len(t, f.notifier.Warnings, 1)

	_, ok, storageErr := f.storage.Get(session.KeyToken)
	require.NoError(t, storageErr)
	assert.False(t, ok)
}

func TestClient_EnvelopeError_NotifiesAndRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelopeJSON(500, "model does not exist", nil))
	}))
	defer server.Close()

	f := newFixture(t, server.URL)

	_, err := f.client.ModelDetail(context.Background(), 99)

	var envErr *Error
	require.ErrorAs(t, err, &envErr)
	assert.Equal(t, 500, envErr.Code)
	assert.Equal(t, []string{"model does not exist"}, f.notifier.Errors)
	assert.Equal(t, 0, f.navigator.Calls())
	assert.False(t, IsAuthExpired(err))
}

func TestClient_EnvelopeError_FallsBackToGenericMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelopeJSON(400, "", nil))
	}))
	defer server.Close()

	f := newFixture(t, server.URL)

	_, err := f.client.ModelDetail(context.Background(), 1)

	var envErr *Error
	require.ErrorAs(t, err, &envErr)
	assert.Equal(t, "Request failed", envErr.Message)
}

func TestClient_HTTPStatusTable(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantNotice string
	}{
		{name: "forbidden", status: http.StatusForbidden, wantNotice: "No permission to access this resource"},
		{name: "not found", status: http.StatusNotFound, wantNotice: "Requested resource does not exist"},
		{name: "server error", status: http.StatusInternalServerError, wantNotice: "Internal server error"},
		{name: "other status", status: http.StatusBadGateway, wantNotice: "Request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			f := newFixture(t, server.URL)

			_, err := f.client.ModelDetail(context.Background(), 1)

			var httpErr *HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, []string{tt.wantNotice}, f.notifier.Errors)
			assert.Equal(t, 0, f.navigator.Calls())
		})
	}
}

func TestClient_HTTP401_ClearsSessionAndRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	f := newFixture(t, server.URL)
	require.NoError(t, f.sessions.SetToken("stale"))

	_, err := f.client.ModelDetail(context.Background(), 1)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	assert.True(t, IsAuthExpired(err))
	assert.False(t, f.sessions.IsLoggedIn())
	assert.Equal(t, 1, f.navigator.Calls())
	assert.Len(t, f.notifier.Warnings, 1)
}

func TestClient_NetworkFailure_IsDistinct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	f := newFixture(t, server.URL)

	_, err := f.client.ModelDetail(context.Background(), 1)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, []string{"Network error, please check your connection"}, f.notifier.Errors)
	assert.Equal(t, 0, f.navigator.Calls())
}

func TestClient_MultipartUpload_SetsBoundaryContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType := r.Header.Get("Content-Type")
		assert.True(t, strings.HasPrefix(contentType, "multipart/form-data; boundary="), "content type %q", contentType)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "resnet", r.FormValue("name"))
		assert.Equal(t, "1", r.FormValue("isPublic"))

		file, header, err := r.FormFile("modelFile")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "model.onnx", header.Filename)

		w.Write(envelopeJSON(200, "ok", map[string]any{"id": 12, "name": "resnet", "status": 10}))
	}))
	defer server.Close()

	f := newFixture(t, server.URL)

	model, err := f.client.UploadModel(context.Background(), ModelUpload{
		Name:          "resnet",
		Public:        true,
		ModelFile:     strings.NewReader("weights"),
		ModelFileName: "model.onnx",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), model.ID)
	assert.Equal(t, "pending review", model.StatusText())
}

func TestClient_ConcurrentListCalls_AreIndependent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keyword := r.URL.Query().Get("keyword")
		data := map[string]any{
			"records":    []map[string]any{{"id": 1, "name": keyword}},
			"pageNumber": 1,
			"pageSize":   10,
			"totalPage":  1,
			"totalRow":   1,
		}
		w.Write(envelopeJSON(200, "ok", data))
	}))
	defer server.Close()

	f := newFixture(t, server.URL)

	const workers = 8
	var wg sync.WaitGroup
	results := make([]string, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			keyword := fmt.Sprintf("query-%d", i)
			page, err := f.client.ModelPage(context.Background(), ModelQuery{Keyword: keyword})
			if err != nil {
				errs[i] = err
				return
			}
			if len(page.Records) == 1 {
				results[i] = page.Records[0].Name
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, fmt.Sprintf("query-%d", i), results[i])
	}
}

func TestClient_RefreshTokenRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/refresh", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tok-old", r.Header.Get("Authorization"))
		w.Write(envelopeJSON(200, "ok", "tok-new"))
	}))
	defer server.Close()

	f := newFixture(t, server.URL)
	require.NoError(t, f.sessions.SetToken("tok-old"))

	token, err := f.client.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-new", token)
}

func TestClient_LabelCatalogRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/business/label/list":
			w.Write(envelopeJSON(200, "ok", []map[string]any{
				{"id": 1, "name": "vision", "categoryId": 10},
				{"id": 2, "name": "nlp", "categoryId": 10},
			}))
		case "/business/label/category/list":
			w.Write(envelopeJSON(200, "ok", []map[string]any{
				{"id": 10, "name": "Domain"},
			}))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	f := newFixture(t, server.URL)

	labels, err := f.client.LabelList(context.Background())
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, "vision", labels[0].Name)
	assert.Equal(t, int64(10), labels[0].CategoryID)

	categories, err := f.client.LabelCategoryList(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Domain", categories[0].Name)
}

func TestClient_LoginRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "application/json"))

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ada", req.Username)
		assert.Equal(t, "k-1", req.CaptchaKey)

		data := map[string]any{
			"token": "tok-xyz",
			"userInfo": map[string]any{
				"id": 1, "username": "ada", "nickname": "Ada", "roles": []string{"admin"},
			},
		}
		w.Write(envelopeJSON(200, "ok", data))
	}))
	defer server.Close()

	f := newFixture(t, server.URL)

	resp, err := f.client.Login(context.Background(), LoginRequest{
		Username: "ada", Password: "pw", Captcha: "1234", CaptchaKey: "k-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-xyz", resp.Token)
	assert.Equal(t, []string{"admin"}, resp.UserInfo.Roles)
}
