package client

import (
	"context"
	"fmt"
	"net"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/apperr"
	"storefront/internal/auth"
	catalogrpc "storefront/internal/handler/grpc"
	handler "storefront/internal/handler/http"
	middleware_grpc "storefront/internal/middleware/grpc"
	middleware_http "storefront/internal/middleware/http"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/service"

	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

type seqIDs struct{ n int }

func (g *seqIDs) NextID() string {
	g.n++
	return fmt.Sprintf("gen-%d", g.n)
}

func newBackend(t *testing.T) (*service.ProductService, *auth.TokenIssuer) {
	t.Helper()
	repo := repository.NewFileRepository(filepath.Join(t.TempDir(), "products.json"))
	svc := service.NewProductService(repo, &seqIDs{})
	if _, err := svc.Seed(context.Background()); err != nil {
		t.Fatal(err)
	}
	return svc, auth.NewTokenIssuer("123", "test-key", time.Hour)
}

func camisa() model.Product {
	return model.Product{
		Category:   model.CategoryBlusas,
		Name:       "Camisa Linho",
		InternalID: "B010",
		Price:      model.MustParsePrice("149.90"),
		Image:      "https://example.com/c.jpg",
	}
}

func newHTTPClient(t *testing.T, guarded bool) *ProductClient {
	t.Helper()
	svc, issuer := newBackend(t)
	h := handler.Handlers{
		Products: handler.NewProductHandler(svc),
		Session:  handler.NewSessionHandler(issuer),
	}
	if guarded {
		h.AdminOnly = middleware_http.AdminOnly(issuer)
	}
	srv := httptest.NewServer(middleware_http.CORS(handler.NewRouter(h)))
	t.Cleanup(srv.Close)
	return NewProductClient(srv.URL)
}

func TestProductClientRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newHTTPClient(t, false)

	products, err := c.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 3 {
		t.Fatalf("got %d seeded products", len(products))
	}

	created, err := c.Create(ctx, camisa())
	if err != nil {
		t.Fatal(err)
	}
	if created.ID != "gen-1" || !created.Price.Equal(model.MustParsePrice("149.90").Decimal) {
		t.Fatalf("created = %+v", created)
	}

	p := camisa()
	p.Name = "Camisa Seda"
	updated, err := c.Update(ctx, created.ID, p)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "Camisa Seda" {
		t.Fatalf("updated = %+v", updated)
	}

	if err := c.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, created.ID); !apperr.IsNotFound(err) {
		t.Fatalf("second delete err = %v", err)
	}
	if _, err := c.Update(ctx, "missing", p); !apperr.IsNotFound(err) {
		t.Fatalf("update missing err = %v", err)
	}

	bad := camisa()
	bad.Category = "sapatos"
	if _, err := c.Create(ctx, bad); !apperr.IsValidation(err) {
		t.Fatalf("bad category err = %v", err)
	}
}

func TestProductClientLogin(t *testing.T) {
	ctx := context.Background()
	c := newHTTPClient(t, true)

	if _, err := c.Create(ctx, camisa()); !apperr.IsAuth(err) {
		t.Fatalf("unauthenticated create err = %v", err)
	}
	if err := c.Login(ctx, "wrong"); !apperr.IsAuth(err) {
		t.Fatalf("wrong secret err = %v", err)
	}
	if err := c.Login(ctx, "123"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Create(ctx, camisa()); err != nil {
		t.Fatalf("authenticated create: %v", err)
	}

	c.Logout()
	if err := c.Delete(ctx, "1"); !apperr.IsAuth(err) {
		t.Fatalf("after logout err = %v", err)
	}
}

func TestProductClientUnreachable(t *testing.T) {
	c := NewProductClient("http://127.0.0.1:1")
	if _, err := c.GetAll(context.Background()); !apperr.IsPersistence(err) {
		t.Fatalf("err = %v", err)
	}
}

func newGRPCClient(t *testing.T) *CatalogClient {
	t.Helper()
	svc, issuer := newBackend(t)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		middleware_grpc.UnaryTracingInterceptor(),
		middleware_grpc.AdminUnaryInterceptor(issuer, catalogrpc.MutatingMethods),
	))
	catalogrpc.RegisterCatalogServer(srv, catalogrpc.NewCatalogHandler(svc, issuer))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := DialCatalog("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewCatalogClient(conn)
}

func TestCatalogClient(t *testing.T) {
	ctx := context.Background()
	c := newGRPCClient(t)

	products, err := c.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 3 || products[0].Price.Text() != "129.90" {
		t.Fatalf("products = %+v", products)
	}

	if _, err := c.Create(ctx, camisa()); !apperr.IsAuth(err) {
		t.Fatalf("unauthenticated create err = %v", err)
	}
	if err := c.Login(ctx, "nope"); !apperr.IsAuth(err) {
		t.Fatalf("wrong secret err = %v", err)
	}
	if err := c.Login(ctx, "123"); err != nil {
		t.Fatal(err)
	}

	created, err := c.Create(ctx, camisa())
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Get(ctx, created.ID)
	if err != nil || got.Name != "Camisa Linho" {
		t.Fatalf("get = %+v, %v", got, err)
	}

	p := camisa()
	p.Price = model.MustParsePrice("139.90")
	updated, err := c.Update(ctx, created.ID, p)
	if err != nil || updated.Price.Text() != "139.90" {
		t.Fatalf("update = %+v, %v", updated, err)
	}

	if err := c.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, created.ID); !apperr.IsNotFound(err) {
		t.Fatalf("second delete err = %v", err)
	}

	bad := camisa()
	bad.Name = ""
	if _, err := c.Create(ctx, bad); !apperr.IsValidation(err) {
		t.Fatalf("missing name err = %v", err)
	}
}
