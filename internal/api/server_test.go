package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftmatch/shiftmatch-server/internal/auth"
	"github.com/shiftmatch/shiftmatch-server/internal/portal"
	"github.com/shiftmatch/shiftmatch-server/internal/ratelimit"
	"github.com/shiftmatch/shiftmatch-server/internal/service"
	"github.com/shiftmatch/shiftmatch-server/internal/store"
	"github.com/shiftmatch/shiftmatch-server/internal/validation"
)

const testLoginPage = `<html><body>
<form id="loginform" action="/services/login/" method="post">
  <input type="hidden" name="csrfmiddlewaretoken" value="tok-1">
  <input type="hidden" name="next" value="/services/home">
</form>
</body></html>`

const testShiftsPage = `<html><body><table>
<tr><th>Day</th><th>Time</th><th>Committee</th><th>Slots</th></tr>
<tr><td>Monday</td><td>8:00AM</td><td>Checkout</td><td>3</td></tr>
<tr><td>Tuesday</td><td>6:00PM</td><td>Receiving</td><td>1</td></tr>
</table></body></html>`

// testServer wraps the API server with a humatest client and fake portal.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// startFakePortal serves the minimal member portal used by match tests.
func startFakePortal(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /services/login/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testLoginPage)
	})
	mux.HandleFunc("POST /services/login/", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.PostFormValue("password") != "secret" {
			fmt.Fprint(w, `<html><body><ul class="errorlist"><li>invalid login</li></ul></body></html>`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "sessionid", Value: "member", Path: "/"})
		fmt.Fprint(w, `<html><body><a href="/logout">Logout</a></body></html>`)
	})
	authed := func(r *http.Request) bool {
		c, err := r.Cookie("sessionid")
		return err == nil && c.Value == "member"
	}
	mux.HandleFunc("GET /services/home", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			http.Redirect(w, r, "/services/login/", http.StatusFound)
			return
		}
		fmt.Fprint(w, "home")
	})
	mux.HandleFunc("GET /services/shifts/", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			http.Redirect(w, r, "/services/login/", http.StatusFound)
			return
		}
		fmt.Fprint(w, testShiftsPage)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := startFakePortal(t)

	limiter := ratelimit.New(100, 100)
	t.Cleanup(limiter.Stop)

	dialer, err := portal.NewDialer(srv.URL, 5*time.Second, limiter, logger)
	require.NoError(t, err)

	st, err := store.New(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	key, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	sealer, err := auth.NewSealer(key)
	require.NoError(t, err)

	v := validation.New()

	matchService := service.NewMatchService(dialer, st, v, logger, time.Minute)
	subscriberService := service.NewSubscriberService(st, sealer, v, logger)

	s := NewServer(st, matchService, subscriberService, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	assert.Contains(t, resp.Body.String(), `"status":"healthy"`)
	assert.Contains(t, resp.Body.String(), `"database"`)
	assert.Contains(t, resp.Body.String(), `"matcher"`)
}

func TestMatchEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/match", map[string]any{
		"memberNumber": "12345",
		"password":     "secret",
		"preferences": map[string]any{
			"days":       []string{"Monday"},
			"committees": []string{"Checkout"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := resp.Body.String()
	assert.Contains(t, body, `"source":"live"`)
	assert.Contains(t, body, `"count":2`)
	assert.Contains(t, body, `"rawToken"`)
	assert.Contains(t, body, "Checkout")
}

func TestMatchEndpoint_BadCredentials(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/match", map[string]any{
		"memberNumber": "12345",
		"password":     "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), "INVALID_CREDENTIALS")
}

func TestMatchEndpoint_MissingFields(t *testing.T) {
	ts := setupTestServer(t)

	// Missing fields are caught by the request schema before the service runs.
	resp := ts.api.Post("/api/v1/match", map[string]any{
		"memberNumber": "12345",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
}

func TestRescoreEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/rescore", map[string]any{
		"shifts": []map[string]any{
			{"id": "shift_001", "day": "Monday", "time_slot": "Morning", "committee": "Checkout", "slots": "4"},
			{"id": "shift_002", "day": "Friday", "time_slot": "Evening", "committee": "Receiving", "slots": "1"},
		},
		"preferences": map[string]any{
			"days": []string{"Friday"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	assert.Contains(t, resp.Body.String(), `"count":2`)
}

func TestRescoreEndpoint_MalformedPreferences(t *testing.T) {
	ts := setupTestServer(t)

	// A scalar where a list belongs degrades to an empty list, so the
	// request still scores on the no-preference branch.
	resp := ts.api.Post("/api/v1/rescore", map[string]any{
		"shifts": []map[string]any{
			{"id": "shift_001", "day": "Monday", "time_slot": "Morning", "committee": "Checkout", "slots": "4"},
		},
		"preferences": map[string]any{
			"committees": "produce",
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	assert.Contains(t, resp.Body.String(), `"count":1`)
	assert.Contains(t, resp.Body.String(), "No committee preference set")
}

func TestSampleEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/sample", map[string]any{
		"preferences": map[string]any{
			"committees": []string{"Checkout"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	assert.Contains(t, resp.Body.String(), `"source":"sample"`)
	assert.Contains(t, resp.Body.String(), `"count":30`)
}

func TestSubscribeEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/subscribers", map[string]any{
		"email":        "member@example.com",
		"memberNumber": "12345",
		"password":     "secret",
		"preferences": map[string]any{
			"days": []string{"Monday"},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"created":true`)

	// Listing never exposes stored credentials.
	list := ts.api.Get("/api/v1/subscribers")
	require.Equal(t, http.StatusOK, list.Code, list.Body.String())
	assert.Contains(t, list.Body.String(), "member@example.com")
	assert.Contains(t, list.Body.String(), `"count":1`)
	assert.NotContains(t, list.Body.String(), "password")
	assert.NotContains(t, list.Body.String(), "secret")
}

func TestSubscribeEndpoint_InvalidEmail(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/subscribers", map[string]any{
		"email":        "not-an-email",
		"memberNumber": "12345",
		"password":     "secret",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
}

func TestRawHTMLEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	match := ts.api.Post("/api/v1/match", map[string]any{
		"memberNumber": "12345",
		"password":     "secret",
	})
	require.Equal(t, http.StatusOK, match.Code, match.Body.String())

	var out struct {
		RawToken string `json:"rawToken"`
	}
	require.NoError(t, json.Unmarshal(match.Body.Bytes(), &out))
	require.NotEmpty(t, out.RawToken)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/raw/"+out.RawToken, nil)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Checkout")
}

func TestRawHTMLEndpoint_UnknownToken(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/raw/nope", nil)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "EXPIRED")
}
