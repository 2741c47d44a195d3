package integrationtest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/alicebob/miniredis/v2"
)

var (
	miniRedisMock *miniredis.Miniredis
)

func createMockRedisServer() {
	mr, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	miniRedisMock = mr
}

type MockResponse struct {
	Code int
	Body string
}

// mockOWMApi is a switchable stand-in for the three OpenWeatherMap endpoints
// the client uses. Paths missing from routes answer 404.
type mockOWMApi struct {
	mu     sync.Mutex
	routes map[string]MockResponse
	hits   map[string]int
}

func newMockOWMApi() *mockOWMApi {
	return &mockOWMApi{routes: map[string]MockResponse{}, hits: map[string]int{}}
}

func (m *mockOWMApi) set(path string, code int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes[path] = MockResponse{Code: code, Body: body}
}

func (m *mockOWMApi) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = map[string]MockResponse{}
	m.hits = map[string]int{}
}

func (m *mockOWMApi) hitCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits[path]
}

func (m *mockOWMApi) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.hits[r.URL.Path]++
	resp, ok := m.routes[r.URL.Path]
	m.mu.Unlock()

	if strings.HasPrefix(r.URL.Path, "/data/") && r.URL.Query().Get("appid") == "" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"cod": 401, "message": "Invalid API key"}`)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"cod": "404", "message": "city not found"}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Code)
	_, _ = io.WriteString(w, resp.Body)
}

func runMockOWMServer(api *mockOWMApi) *httptest.Server {
	return httptest.NewServer(api)
}

const (
	weatherPath  = "/data/2.5/weather"
	periodicPath = "/data/2.5/forecast"
	oneCallPath  = "/data/3.0/onecall"
	countryPath  = "/v3.1/alpha/US"
)

const unitedStates = `[{"cca2": "US", "name": {"common": "United States"}, "flags": {"png": "https://flagcdn.com/w320/us.png"}}]`

const miamiCurrent = `{
	"coord": {"lon": -80.1918, "lat": 25.7617},
	"weather": [{"id": 500, "main": "Rain", "description": "light rain", "icon": "10d"}],
	"main": {"temp": 29.4, "feels_like": 33.1, "pressure": 1012, "humidity": 74},
	"visibility": 9000,
	"wind": {"speed": 5.2, "deg": 140},
	"sys": {"country": "US", "sunrise": 1715335200, "sunset": 1715384400},
	"timezone": -14400,
	"name": "Miami"
}`

const miamiOneCall = `{
	"lat": 25.7617, "lon": -80.1918, "timezone_offset": -14400,
	"hourly": [
		{"dt": 1715356800, "temp": 29, "pop": 0.4, "weather": [{"icon": "10d", "description": "light rain"}]},
		{"dt": 1715353200, "temp": 28, "pop": 0.2, "weather": [{"icon": "04d", "description": "overcast clouds"}]}
	],
	"daily": [
		{"dt": 1715356800, "temp": {"min": 24, "max": 31}, "weather": [{"icon": "10d", "description": "light rain"}]}
	],
	"alerts": [
		{"sender_name": "NWS Miami", "event": "Hurricane Warning", "start": 1715356800, "end": 1715400000, "description": "Hurricane conditions expected."}
	]
}`

// 9:00, 12:00, 15:00 and 18:00 local (UTC-4) on one day.
const miamiPeriodic = `{
	"list": [
		{"dt": 1715346000, "main": {"temp": 10}, "weather": [{"icon": "01d", "description": "clear sky"}], "pop": 0},
		{"dt": 1715356800, "main": {"temp": 15}, "weather": [{"icon": "03d", "description": "scattered clouds"}], "pop": 0.1},
		{"dt": 1715367600, "main": {"temp": 13}, "weather": [{"icon": "10d", "description": "light rain"}], "pop": 0.6},
		{"dt": 1715378400, "main": {"temp": 8}, "weather": [{"icon": "01n", "description": "clear sky"}], "pop": 0}
	],
	"city": {"name": "Miami", "country": "US", "timezone": -14400}
}`
