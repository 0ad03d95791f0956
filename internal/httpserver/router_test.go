package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"smartband-store/internal/domain"
	productrepo "smartband-store/internal/repository/product"
	"smartband-store/internal/repository/record"
	cartsvc "smartband-store/internal/service/cart"
	contactsvc "smartband-store/internal/service/contact"
	productsvc "smartband-store/internal/service/product"
	"smartband-store/internal/service/session"
)

func logDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubContactService struct {
	msg *domain.ContactMessage
	err error
	got contactsvc.Input
}

func (s *stubContactService) Submit(_ context.Context, in contactsvc.Input) (*domain.ContactMessage, error) {
	s.got = in
	return s.msg, s.err
}

type stubCounter struct {
	count int64
	err   error
}

func (s *stubCounter) Hit(_ context.Context, _ string, window time.Duration) (int64, time.Time, error) {
	s.count++
	return s.count, time.Now().Add(window), s.err
}

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	records *record.Memory
	token   string
}

func newTestServer(t *testing.T, mutate func(*Deps, *Options)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	products := productsvc.New(productrepo.NewStatic(productrepo.DefaultCatalog()))
	records := record.NewMemory()
	mgr := session.NewManager(session.Config{
		Secret: "test-secret-test-secret",
		Issuer: "smartband-test",
		TTL:    time.Hour,
	}, session.NewBuilder(session.Deps{Records: records}), logDiscard())

	deps := Deps{
		ProductSvc: products,
		CartSvc:    cartsvc.New(products),
		ContactSvc: &stubContactService{},
		Sessions:   mgr,
	}
	opts := Options{}
	if mutate != nil {
		mutate(&deps, &opts)
	}
	router, err := buildRouter(logDiscard(), deps, opts)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return &testServer{t: t, router: router, records: records}
}

// do sends a request carrying the session token from earlier responses.
func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set(sessionHeader, s.token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	if tok := rec.Header().Get(sessionHeader); tok != "" {
		s.token = tok
	}
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode body: %v body=%s", err, rec.Body.String())
	}
}

func TestBuildRouter_MissingDeps(t *testing.T) {
	if _, err := buildRouter(logDiscard(), Deps{}, Options{}); err == nil {
		t.Fatalf("expected error for missing deps")
	}
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, func(d *Deps, _ *Options) {
		d.Ready = map[string]Pinger{
			"db": PingFunc(func(context.Context) error { return errors.New("down") }),
		}
	})

	if rec := srv.do(http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	rec := srv.do(http.MethodGet, "/readyz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "db not reachable") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestListProducts(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(http.MethodGet, "/api/products", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var page pagedResponse[productResponse]
	decodeBody(t, rec, &page)
	if page.Total != 2 || page.Count != 2 {
		t.Fatalf("expected 2 products, got total=%d count=%d", page.Total, page.Count)
	}
	if page.Results[0].DiscountPercent != 20 {
		t.Fatalf("expected 20%% discount, got %d", page.Results[0].DiscountPercent)
	}
	if !strings.HasSuffix(page.Results[0].PriceDisplay, " تومان") {
		t.Fatalf("unexpected price display %q", page.Results[0].PriceDisplay)
	}

	rec = srv.do(http.MethodGet, "/api/products?category=existing-user", "")
	decodeBody(t, rec, &page)
	if page.Total != 1 || page.Results[0].ID != "existing-user-package" {
		t.Fatalf("unexpected filtered page: %+v", page)
	}

	rec = srv.do(http.MethodGet, "/api/products?limit=1&offset=1", "")
	decodeBody(t, rec, &page)
	if page.Count != 1 || page.Offset != 1 || page.Total != 2 {
		t.Fatalf("unexpected paging: %+v", page)
	}
}

func TestListProducts_HugeLimit(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(http.MethodGet, "/api/products?limit=9223372036854775807&offset=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var page pagedResponse[productResponse]
	decodeBody(t, rec, &page)
	if page.Limit != maxPageLimit || page.Count != 1 || page.Total != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}

	rec = srv.do(http.MethodGet, "/api/products?offset=50", "")
	decodeBody(t, rec, &page)
	if page.Count != 0 || len(page.Results) != 0 {
		t.Fatalf("offset past the end should be empty: %+v", page)
	}
}

func TestListProducts_UnknownCategory(t *testing.T) {
	srv := newTestServer(t, nil)
	if rec := srv.do(http.MethodGet, "/api/products?category=vip", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetProduct(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(http.MethodGet, "/api/products/new-user-package", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := srv.do(http.MethodGet, "/api/products/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSessionCookieRoundTrip(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "session" || !cookies[0].HttpOnly {
		t.Fatalf("expected session cookie, got %+v", cookies)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(cookies[0])
	rec2 := httptest.NewRecorder()
	srv.router.ServeHTTP(rec2, req)
	if len(rec2.Result().Cookies()) != 0 {
		t.Fatalf("known session must not be re-issued")
	}
	if rec2.Header().Get(sessionHeader) != cookies[0].Value {
		t.Fatalf("expected same token back")
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	a := newTestServer(t, nil)
	a.do(http.MethodPost, "/api/cart/items", `{"productId":"new-user-package"}`)

	b := &testServer{t: t, router: a.router}
	var state cartResponse
	decodeBody(t, b.do(http.MethodGet, "/api/cart", ""), &state)
	if state.ItemCount != 0 {
		t.Fatalf("second visitor sees %d items", state.ItemCount)
	}
}

func TestRateLimiter(t *testing.T) {
	counter := &stubCounter{}
	srv := newTestServer(t, func(d *Deps, o *Options) {
		d.Limiter = counter
		o.AuthRateMax = 1
		o.RateWindow = time.Minute
	})

	body := `{"email":"nobody@example.com","password":"short"}`
	rec := srv.do(http.MethodPost, "/api/auth/login", body)
	if rec.Code == http.StatusTooManyRequests {
		t.Fatalf("first request must pass")
	}
	if rec.Header().Get("X-RateLimit-Limit") != "1" {
		t.Fatalf("missing rate limit headers")
	}
	if rec := srv.do(http.MethodPost, "/api/auth/login", body); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestRateLimiter_CounterFailureLetsRequestThrough(t *testing.T) {
	srv := newTestServer(t, func(d *Deps, o *Options) {
		d.Limiter = &stubCounter{err: errors.New("redis down")}
		o.AuthRateMax = 1
		o.RateWindow = time.Minute
	})
	rec := srv.do(http.MethodPost, "/api/auth/login", `{"email":"bad","password":"x"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestRedactJSON(t *testing.T) {
	out := string(redactJSON([]byte(`{"email":"a@b.c","password":"123456","nested":{"confirmPassword":"x"}}`)))
	if strings.Contains(out, "123456") || strings.Contains(out, `"x"`) {
		t.Fatalf("password leaked: %s", out)
	}
	if !strings.Contains(out, "a@b.c") {
		t.Fatalf("email dropped: %s", out)
	}
	if got := string(redactJSON([]byte("not json"))); got != "not json" {
		t.Fatalf("non-json body changed: %s", got)
	}
}

func TestContact(t *testing.T) {
	stub := &stubContactService{msg: &domain.ContactMessage{ID: "m-1"}}
	srv := newTestServer(t, func(d *Deps, _ *Options) { d.ContactSvc = stub })

	rec := srv.do(http.MethodPost, "/api/contact", `{"name":"علی","email":"ali@example.com","subject":"سوال عمومی","message":"سلام"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), contactsvc.SuccessMessage) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if stub.got.Email != "ali@example.com" {
		t.Fatalf("input not forwarded: %+v", stub.got)
	}

	if rec := srv.do(http.MethodGet, "/api/contact/subjects", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
