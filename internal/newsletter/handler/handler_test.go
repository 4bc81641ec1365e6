package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"adonix/internal/models"
	"adonix/internal/newsletter/handler/mocks"
	platformmetrics "adonix/internal/platform/metrics"
	"adonix/internal/platform/middleware"
	"adonix/internal/platform/middleware/cors"
	dErrors "adonix/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/newsletter-mocks.go -package=mocks Service

const testAdminToken = "staff-secret"

type NewsletterHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestNewsletterHandlerSuite(t *testing.T) {
	suite.Run(t, new(NewsletterHandlerSuite))
}

func (s *NewsletterHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	origins := cors.MustCompile(`^https://(www\.)?hackillinois\.org$`, `^https://[a-z0-9-]+--hackillinois\.netlify\.app$`)

	h := New(s.service, logger, origins, platformmetrics.NewWithRegisterer(prometheus.NewRegistry()), testAdminToken)
	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *NewsletterHandlerSuite) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func subscribeRequest(body, origin string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/newsletter/subscribe/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

func (s *NewsletterHandlerSuite) TestSubscribeSuccess() {
	s.service.EXPECT().Subscribe(gomock.Any(), "testingList", "a@b.com").Return(nil)

	rec := s.do(subscribeRequest(`{"listName":"testingList","emailAddress":"a@b.com"}`, "https://hackillinois.org"))

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"Success"}`, rec.Body.String())
	s.Equal("https://hackillinois.org", rec.Header().Get("Access-Control-Allow-Origin"))
}

func (s *NewsletterHandlerSuite) TestSubscribeWithoutTrailingSlash() {
	s.service.EXPECT().Subscribe(gomock.Any(), "testingList", "a@b.com").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/newsletter/subscribe",
		strings.NewReader(`{"listName":"testingList","emailAddress":"a@b.com"}`))
	rec := s.do(req)

	s.Equal(http.StatusOK, rec.Code)
}

func (s *NewsletterHandlerSuite) TestSubscribeMissingFields() {
	s.service.EXPECT().Subscribe(gomock.Any(), "testingList", "").
		Return(dErrors.New(dErrors.CodeInvalidParams, "listName and emailAddress are required"))

	rec := s.do(subscribeRequest(`{"listName":"testingList"}`, ""))

	s.Equal(http.StatusBadRequest, rec.Code)
	s.JSONEq(`{"error":"InvalidParams"}`, rec.Body.String())
}

func (s *NewsletterHandlerSuite) TestSubscribeMalformedBody() {
	s.service.EXPECT().Subscribe(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	for _, body := range []string{`not json`, `{"listName":5,"emailAddress":"a@b.com"}`, ``} {
		rec := s.do(subscribeRequest(body, ""))
		s.Equal(http.StatusBadRequest, rec.Code, body)
		s.JSONEq(`{"error":"InvalidParams"}`, rec.Body.String(), body)
	}
}

func (s *NewsletterHandlerSuite) TestSubscribeStorageFailure() {
	s.service.EXPECT().Subscribe(gomock.Any(), "testingList", "a@b.com").
		Return(dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodeInternal, "failed to subscribe"))

	rec := s.do(subscribeRequest(`{"listName":"testingList","emailAddress":"a@b.com"}`, ""))

	s.Equal(http.StatusInternalServerError, rec.Code)
	s.JSONEq(`{"error":"internal_error"}`, rec.Body.String())
	s.NotContains(rec.Body.String(), "pq:")
}

func (s *NewsletterHandlerSuite) TestSubscribeRejectedOrigin() {
	s.service.EXPECT().Subscribe(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	rec := s.do(subscribeRequest(`{"listName":"testingList","emailAddress":"a@b.com"}`, "https://evil.example.com"))

	s.Equal(http.StatusForbidden, rec.Code)
	s.Empty(rec.Body.String())
}

func (s *NewsletterHandlerSuite) TestSubscribePreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/newsletter/subscribe/", nil)
	req.Header.Set("Origin", "https://www.hackillinois.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := s.do(req)

	s.Less(rec.Code, 300)
	s.Equal("https://www.hackillinois.org", rec.Header().Get("Access-Control-Allow-Origin"))
}

func (s *NewsletterHandlerSuite) TestGetList() {
	s.service.EXPECT().GetList(gomock.Any(), "testingList").Return(&models.NewsletterSubscription{
		ListID:      "testingList",
		Subscribers: []string{"a@b.com"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/newsletter/testingList/", nil)
	req.Header.Set(middleware.AdminTokenHeader, testAdminToken)
	rec := s.do(req)

	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"listId":"testingList","subscribers":["a@b.com"]}`, rec.Body.String())
}

func (s *NewsletterHandlerSuite) TestGetListNotFound() {
	s.service.EXPECT().GetList(gomock.Any(), "missing").
		Return(nil, dErrors.New(dErrors.CodeNotFound, "newsletter list not found"))

	req := httptest.NewRequest(http.MethodGet, "/newsletter/missing", nil)
	req.Header.Set(middleware.AdminTokenHeader, testAdminToken)
	rec := s.do(req)

	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), `"error":"not_found"`)
}

func (s *NewsletterHandlerSuite) TestGetListRequiresAdminToken() {
	s.service.EXPECT().GetList(gomock.Any(), gomock.Any()).Times(0)

	req := httptest.NewRequest(http.MethodGet, "/newsletter/testingList/", nil)
	req.Header.Set(middleware.AdminTokenHeader, "wrong")
	rec := s.do(req)

	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *NewsletterHandlerSuite) TestSubscribeLimiterRunsAfterOriginGate() {
	s.service.EXPECT().Subscribe(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	limited := 0
	reject := func(http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			limited++
			w.WriteHeader(http.StatusTooManyRequests)
		})
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(s.service, logger, cors.MustCompile(`^https://hackillinois\.org$`),
		platformmetrics.NewWithRegisterer(prometheus.NewRegistry()), testAdminToken,
		WithSubscribeLimiter(reject))
	router := chi.NewRouter()
	h.Register(router)

	body := `{"listName":"testingList","emailAddress":"a@b.com"}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, subscribeRequest(body, "https://evil.example.com"))
	s.Equal(http.StatusForbidden, rec.Code)
	s.Zero(limited)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, subscribeRequest(body, "https://hackillinois.org"))
	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal(1, limited)
}
