package grpc

import (
	"context"

	"storefront/internal/model"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const CatalogServiceName = "storefront.Catalog"

const (
	CatalogListMethod    = "/" + CatalogServiceName + "/List"
	CatalogGetMethod     = "/" + CatalogServiceName + "/Get"
	CatalogCreateMethod  = "/" + CatalogServiceName + "/Create"
	CatalogUpdateMethod  = "/" + CatalogServiceName + "/Update"
	CatalogDeleteMethod  = "/" + CatalogServiceName + "/Delete"
	CatalogSessionMethod = "/" + CatalogServiceName + "/Session"
)

// MutatingMethods need an admin token when the guard is enabled.
var MutatingMethods = []string{CatalogCreateMethod, CatalogUpdateMethod, CatalogDeleteMethod}

type ProductID struct {
	ID string `json:"id"`
}

type ProductList struct {
	Resolver string          `json:"resolver"`
	Products []model.Product `json:"products"`
}

type ProductReply struct {
	Resolver string        `json:"resolver"`
	Product  model.Product `json:"product"`
}

type SessionRequest struct {
	Secret string `json:"secret"`
}

type SessionReply struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

type CatalogServer interface {
	List(context.Context, *emptypb.Empty) (*ProductList, error)
	Get(context.Context, *ProductID) (*ProductReply, error)
	Create(context.Context, *model.Product) (*ProductReply, error)
	Update(context.Context, *model.Product) (*ProductReply, error)
	Delete(context.Context, *ProductID) (*emptypb.Empty, error)
	Session(context.Context, *SessionRequest) (*SessionReply, error)
}

// unary builds the method handler protoc would otherwise generate.
func unary[Req, Resp any](name string, call func(CatalogServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + CatalogServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(CatalogServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(CatalogServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var CatalogServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("List", CatalogServer.List),
		unary("Get", CatalogServer.Get),
		unary("Create", CatalogServer.Create),
		unary("Update", CatalogServer.Update),
		unary("Delete", CatalogServer.Delete),
		unary("Session", CatalogServer.Session),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/catalog",
}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&CatalogServiceDesc, srv)
}
