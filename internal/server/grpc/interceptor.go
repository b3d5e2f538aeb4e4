package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dailyword/internal/common"
	"github.com/dmitrijs2005/dailyword/internal/server/auth"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	userIDKey    ctxKey = "userID"
	requestIDKey ctxKey = "requestID"
)

// methods that refuse anonymous callers
var userRequired = map[string]bool{
	SetPreferredVersionMethod: true,
}

// accessTokenInterceptor tags every call with a request id and, when the
// caller sent an access token, with the user id it carries. A bad token is
// rejected even on methods that allow anonymous callers.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	reqID := uuid.NewString()
	ctx = context.WithValue(ctx, requestIDKey, reqID)

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}

	switch {
	case accessToken != "":
		userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
		if err != nil {
			s.logger.Info(ctx, "token rejected", "req_id", reqID, "method", info.FullMethod, "error", err)
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		ctx = context.WithValue(ctx, userIDKey, userID)
	case userRequired[info.FullMethod]:
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	start := time.Now()
	resp, err := handler(ctx, req)

	s.logger.Info(ctx, "request served",
		"req_id", reqID,
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start))

	return resp, err
}

func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
