package auth

import (
	"context"
	"errors"
	"strings"

	e "github.com/gartstein/hiring/internal/hiring/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// publicServices lists gRPC services reachable without a token.
var publicServices = []string{
	"/grpc.health.v1.Health/",
	"/grpc.reflection.",
}

// Unary returns a gRPC unary interceptor that authenticates every call
// outside the public services.
func (a *Authenticator) Unary() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if isPublicMethod(info.FullMethod) {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "metadata missing")
		}
		header, err := headerFromMetadata(md)
		if err != nil {
			return nil, err
		}

		actor, err := a.Authenticate(ctx, header)
		if err != nil {
			if errors.Is(err, e.ErrUnauthenticated) {
				return nil, status.Error(codes.Unauthenticated, err.Error())
			}
			return nil, status.Error(codes.Internal, "failed to authenticate")
		}
		return handler(WithActor(ctx, actor), req)
	}
}

func isPublicMethod(fullMethod string) bool {
	for _, prefix := range publicServices {
		if strings.HasPrefix(fullMethod, prefix) {
			return true
		}
	}
	return false
}

// headerFromMetadata retrieves the authorization header from gRPC metadata.
func headerFromMetadata(md metadata.MD) (string, error) {
	values := md.Get("authorization")
	if len(values) == 0 {
		return "", status.Error(codes.Unauthenticated, "authorization header missing")
	}
	return values[0], nil
}
