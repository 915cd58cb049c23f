package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/sociopedia/internal/common"
	"github.com/dmitrijs2005/sociopedia/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// authorizationKey is the metadata key of the access token; gRPC lowercases keys.
const authorizationKey = "authorization"

// authenticate verifies the access token of a non-public call and returns a
// context carrying the caller's identity.
func (s *GRPCServer) authenticate(ctx context.Context, method string) (context.Context, error) {
	if s.public[method] {
		return ctx, nil
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(authorizationKey); len(values) > 0 {
			header = values[0]
		}
	}

	token, err := auth.ExtractToken(header)
	if errors.Is(err, common.ErrNoToken) {
		return nil, status.Error(codes.PermissionDenied, "access denied")
	}

	var subject string
	if err == nil {
		subject, err = s.keys.Verify(token)
	}
	if err != nil {
		s.logger.Warn(ctx, "token rejected", "method", method, "error", err)
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	return auth.WithIdentity(ctx, auth.Identity{Subject: subject}), nil
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	ctx, err := s.authenticate(ctx, info.FullMethod)
	if err != nil {
		return nil, err
	}
	return handler(ctx, req)
}

type identityStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *identityStream) Context() context.Context { return s.ctx }

func (s *GRPCServer) streamAccessTokenInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx, err := s.authenticate(ss.Context(), info.FullMethod)
	if err != nil {
		return err
	}
	return handler(srv, &identityStream{ServerStream: ss, ctx: ctx})
}
