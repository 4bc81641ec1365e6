package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adonix/internal/database/memory"
	"adonix/internal/models"
	"adonix/internal/newsletter"
	newslettermetrics "adonix/internal/newsletter/metrics"
	"adonix/internal/platform/metrics"
	"adonix/internal/platform/middleware"
	"adonix/internal/platform/middleware/cors"
	"adonix/pkg/testutil"
)

const adminToken = "staff-secret"

type fixture struct {
	router http.Handler
	models *models.Models
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := memory.New()

	m, err := models.New(ctx, engine)
	require.NoError(t, err)

	httpMetrics := metrics.NewWithRegisterer(prometheus.NewRegistry())
	svc := newsletter.NewService(m.Newsletter.Subscriptions, logger, newslettermetrics.NewWithRegisterer(prometheus.NewRegistry()))
	origins := cors.MustCompile(`^https://(www\.)?hackillinois\.org$`, `^https://[a-z0-9-]+--hackillinois\.netlify\.app$`)

	router := NewRouter(Config{Logger: logger, Metrics: httpMetrics, Storage: engine},
		newsletter.NewHandler(svc, logger, origins, httpMetrics, adminToken))
	return fixture{router: router, models: m}
}

func (f fixture) subscribers(t *testing.T, listID string) []string {
	t.Helper()
	list, err := f.models.Newsletter.Subscriptions.Find(context.Background(), listID)
	require.NoError(t, err)
	return list.Subscribers
}

type subscribeBody struct {
	ListName     string `json:"listName,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
}

func TestNewsletterSubscribeFlow(t *testing.T) {
	testutil.Given(t, "an empty platform", func(t *testing.T) {
		f := newFixture(t)

		testutil.When(t, "a visitor subscribes to testingList from the production site", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/newsletter/subscribe/",
				subscribeBody{ListName: "testingList", EmailAddress: "a@b.com"})
			req.Header.Set("Origin", "https://hackillinois.org")
			rr := testutil.DoRequest(f.router, req)

			testutil.Then(t, "the request succeeds and the list holds the address", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				testutil.AssertJSONContains(t, rr, "status", "Success")
				assert.Equal(t, "https://hackillinois.org", rr.Header().Get("Access-Control-Allow-Origin"))
				assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))
				assert.Equal(t, []string{"a@b.com"}, f.subscribers(t, "testingList"))
			})

			testutil.And(t, "exactly one list exists", func(t *testing.T) {
				engine := f.models.Engine().(*memory.Engine)
				c, ok := engine.Collection(f.models.Newsletter.Subscriptions.Identifier())
				require.True(t, ok)
				assert.Equal(t, 1, c.Len())
			})
		})

		testutil.When(t, "the same visitor subscribes again", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/newsletter/subscribe/",
				subscribeBody{ListName: "testingList", EmailAddress: "a@b.com"})
			rr := testutil.DoRequest(f.router, req)

			testutil.Then(t, "nothing changes", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				assert.Equal(t, []string{"a@b.com"}, f.subscribers(t, "testingList"))
			})
		})

		testutil.When(t, "staff read the list", func(t *testing.T) {
			req := testutil.NewRequest(t, http.MethodGet, "/newsletter/testingList/")
			req.Header.Set(middleware.AdminTokenHeader, adminToken)
			rr := testutil.DoRequest(f.router, req)

			testutil.Then(t, "the persisted record is returned", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				got := testutil.UnmarshalResponse[models.NewsletterSubscription](t, rr)
				assert.Equal(t, "testingList", got.ListID)
				assert.Equal(t, []string{"a@b.com"}, got.Subscribers)
			})
		})

		testutil.When(t, "the email address is missing", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/newsletter/subscribe/",
				subscribeBody{ListName: "otherList"})
			rr := testutil.DoRequest(f.router, req)

			testutil.Then(t, "it responds InvalidParams and creates nothing", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "InvalidParams")
				_, err := f.models.Newsletter.Subscriptions.Find(context.Background(), "otherList")
				assert.Error(t, err)
			})
		})

		testutil.When(t, "a foreign origin calls subscribe", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/newsletter/subscribe/",
				subscribeBody{ListName: "testingList", EmailAddress: "evil@example.com"})
			req.Header.Set("Origin", "https://evil.example.com")
			rr := testutil.DoRequest(f.router, req)

			testutil.Then(t, "it is refused before reaching storage", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusForbidden)
				assert.Empty(t, rr.Body.String())
				assert.Equal(t, []string{"a@b.com"}, f.subscribers(t, "testingList"))
			})
		})
	})
}

func TestConcurrentSubscribesThroughRouter(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i, email := range []string{"x@y.com", "z@y.com"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := testutil.NewJSONRequest(t, http.MethodPost, "/newsletter/subscribe/",
				subscribeBody{ListName: "testingList", EmailAddress: email})
			codes[i] = testutil.DoRequest(f.router, req).Code
		}()
	}
	wg.Wait()

	assert.Equal(t, []int{http.StatusOK, http.StatusOK}, codes)
	assert.ElementsMatch(t, []string{"x@y.com", "z@y.com"}, f.subscribers(t, "testingList"))
}

func TestRegisteredIdentifiersAreDistinct(t *testing.T) {
	f := newFixture(t)

	ids := f.models.Identifiers()
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		assert.False(t, seen[string(id)], "duplicate identifier %s", id)
		seen[string(id)] = true
	}
	assert.Len(t, ids, 15)
	assert.Contains(t, ids, f.models.Newsletter.Subscriptions.Identifier())
}

type downEngine struct{}

func (downEngine) Name() string               { return "postgres" }
func (downEngine) Ping(context.Context) error { return errors.New("dial tcp: connection refused") }

func TestHealthz(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("storage reachable", func(t *testing.T) {
		router := NewRouter(Config{Logger: logger, Storage: memory.New()})
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "ok")
	})

	t.Run("storage down", func(t *testing.T) {
		router := NewRouter(Config{Logger: logger, Storage: downEngine{}})
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
		testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	})
}

func TestRecoveryTurnsPanicInto500(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(Config{Logger: logger, Storage: memory.New()}, panicModule{})

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/boom"))

	testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "internal_error")
}

type panicModule struct{}

func (panicModule) Register(r chi.Router) {
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
}
