package client

import (
	"context"
	"sync"

	"storefront/internal/apperr"
	catalogrpc "storefront/internal/handler/grpc"
	middleware_grpc "storefront/internal/middleware/grpc"
	"storefront/internal/model"

	"github.com/go-faster/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// CatalogClient reads and writes the catalog over the storefront.Catalog
// gRPC service.
type CatalogClient struct {
	conn grpc.ClientConnInterface

	mu    sync.RWMutex
	token string
}

// DialCatalog opens a round-robin client connection using the JSON codec.
func DialCatalog(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultServiceConfig(`{"loadBalancingPolicy":"round_robin"}`),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(catalogrpc.CodecName)),
		grpc.WithUnaryInterceptor(middleware_grpc.UnaryClientTracingInterceptor()),
	}, opts...)
	return grpc.NewClient(target, opts...)
}

func NewCatalogClient(conn grpc.ClientConnInterface) *CatalogClient {
	return &CatalogClient{conn: conn}
}

func (c *CatalogClient) outgoing(ctx context.Context) context.Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.token)
}

func (c *CatalogClient) invoke(ctx context.Context, method string, in, out any) error {
	err := c.conn.Invoke(c.outgoing(ctx), method, in, out, grpc.CallContentSubtype(catalogrpc.CodecName))
	return fromStatus(err)
}

// fromStatus maps a gRPC status back to an apperr kind.
func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.NotFound:
		return errors.Wrap(apperr.ErrNotFound, st.Message())
	case codes.InvalidArgument:
		return apperr.Validation(st.Message())
	case codes.Unauthenticated, codes.PermissionDenied:
		return errors.Wrap(apperr.ErrAuth, st.Message())
	default:
		return apperr.Persistence(err, "catalog rpc")
	}
}

func (c *CatalogClient) GetAll(ctx context.Context) ([]model.Product, error) {
	var out catalogrpc.ProductList
	if err := c.invoke(ctx, catalogrpc.CatalogListMethod, &emptypb.Empty{}, &out); err != nil {
		return nil, err
	}
	if out.Products == nil {
		out.Products = []model.Product{}
	}
	return out.Products, nil
}

func (c *CatalogClient) Get(ctx context.Context, id string) (model.Product, error) {
	var out catalogrpc.ProductReply
	if err := c.invoke(ctx, catalogrpc.CatalogGetMethod, &catalogrpc.ProductID{ID: id}, &out); err != nil {
		return model.Product{}, err
	}
	return out.Product, nil
}

func (c *CatalogClient) Create(ctx context.Context, p model.Product) (model.Product, error) {
	var out catalogrpc.ProductReply
	if err := c.invoke(ctx, catalogrpc.CatalogCreateMethod, &p, &out); err != nil {
		return model.Product{}, err
	}
	return out.Product, nil
}

func (c *CatalogClient) Update(ctx context.Context, id string, p model.Product) (model.Product, error) {
	p.ID = id
	var out catalogrpc.ProductReply
	if err := c.invoke(ctx, catalogrpc.CatalogUpdateMethod, &p, &out); err != nil {
		return model.Product{}, err
	}
	return out.Product, nil
}

func (c *CatalogClient) Delete(ctx context.Context, id string) error {
	return c.invoke(ctx, catalogrpc.CatalogDeleteMethod, &catalogrpc.ProductID{ID: id}, &emptypb.Empty{})
}

// Login exchanges the shared secret for an admin token sent with later calls.
func (c *CatalogClient) Login(ctx context.Context, secret string) error {
	var out catalogrpc.SessionReply
	if err := c.invoke(ctx, catalogrpc.CatalogSessionMethod, &catalogrpc.SessionRequest{Secret: secret}, &out); err != nil {
		return err
	}
	c.mu.Lock()
	c.token = out.Token
	c.mu.Unlock()
	return nil
}

func (c *CatalogClient) Logout() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}
