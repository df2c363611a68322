package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const londonBody = `{"name":"London","main":{"temp":15.2,"pressure":1012,"humidity":70},"weather":[{"description":"clear sky"}],"wind":{"speed":3.1}}`

// fakeUpstream points the config at a local server and counts requests.
func fakeUpstream(t *testing.T, status int, body string) *atomic.Int32 {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	chdir(t, t.TempDir())
	t.Setenv("API_KEY", "test-key")
	t.Setenv("OPENWEATHER_API_KEY", "")
	t.Setenv("OPENWEATHER_BASE_URL", srv.URL)
	t.Setenv("HTTP_TIMEOUT", "2s")
	t.Setenv("WATCH_INTERVAL", "")
	t.Setenv("PORT", "")
	return &calls
}

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	cmd := newCommand(console{in: strings.NewReader(stdin), out: &out})
	require.NoError(t, cmd.Run(context.Background(), append([]string{"weather-report"}, args...)))
	return out.String()
}

func TestPromptSuccess(t *testing.T) {
	calls := fakeUpstream(t, http.StatusOK, londonBody)

	out := run(t, "  london  \n")

	assert.True(t, strings.HasPrefix(out, "Enter city name: "))
	assert.Contains(t, out, "📍 Weather Report for: London")
	assert.Contains(t, out, "🌡 Temperature : 15.2 °C")
	assert.Contains(t, out, "🌦 Condition   : clear sky")
	assert.Equal(t, int32(1), calls.Load())
}

func TestPromptBlankInputSkipsNetwork(t *testing.T) {
	for _, stdin := range []string{"", "\n", "   \t \n"} {
		calls := fakeUpstream(t, http.StatusOK, londonBody)

		out := run(t, stdin)

		assert.Equal(t, "Enter city name: "+emptyCityMessage+"\n", out)
		assert.Equal(t, int32(0), calls.Load())
	}
}

func TestFailureExitsCleanly(t *testing.T) {
	calls := fakeUpstream(t, http.StatusNotFound, `{"cod":"404","message":"city not found"}`)

	out := run(t, "", "current", "Atlantis")

	assert.Equal(t, "\n❌ Error: City not found: Atlantis\n", out)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRootArgsSkipPrompt(t *testing.T) {
	fakeUpstream(t, http.StatusUnauthorized, `{"cod":401,"message":"bad key"}`)

	out := run(t, "", "New", "York")

	assert.NotContains(t, out, "Enter city name")
	assert.Contains(t, out, "❌ Error: Invalid API key: bad key")
}

func TestCurrentJSON(t *testing.T) {
	fakeUpstream(t, http.StatusOK, londonBody)

	out := run(t, "", "current", "--json", "London")

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, true, got["ok"])
	assert.Equal(t, "London", got["city"])
	assert.Equal(t, 1012.0, got["pressureHpa"])
}

func TestWatchBlankCity(t *testing.T) {
	calls := fakeUpstream(t, http.StatusOK, londonBody)

	out := run(t, "", "watch")

	assert.Equal(t, emptyCityMessage+"\n", out)
	assert.Equal(t, int32(0), calls.Load())
}

func TestInvalidConfigFails(t *testing.T) {
	fakeUpstream(t, http.StatusOK, londonBody)
	t.Setenv("HTTP_TIMEOUT", "whenever")

	var out bytes.Buffer
	cmd := newCommand(console{in: strings.NewReader(""), out: &out})
	err := cmd.Run(context.Background(), []string{"weather-report", "current", "London"})

	assert.ErrorContains(t, err, "HTTP_TIMEOUT")
}

func TestServePortInUse(t *testing.T) {
	fakeUpstream(t, http.StatusOK, londonBody)

	busy, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer busy.Close()
	port := strconv.Itoa(busy.Addr().(*net.TCPAddr).Port)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	cmd := newCommand(console{in: strings.NewReader(""), out: &out})
	err = cmd.Run(ctx, []string{"weather-report", "serve", "--port", port})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on :"+port)
	assert.NoError(t, ctx.Err(), "serve should fail before the context expires")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
