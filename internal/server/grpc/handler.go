package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/dailyword/internal/common"
	"github.com/dmitrijs2005/dailyword/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *GRPCServer) ListVersions(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {

	versions := s.versions.GetAuthorizedVersions()

	list := make([]any, 0, len(versions))
	for _, v := range versions {
		list = append(list, versionFields(v))
	}

	out := map[string]any{"versions": list}
	if d := s.versions.DefaultVersion(); d != nil {
		out["default"] = d.Code
	}

	return s.reply(ctx, out)
}

func (s *GRPCServer) GetVersionInfo(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {

	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "version code is required")
	}

	info, err := s.versions.GetVersionInfo(ctx, req.GetValue())
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	return s.reply(ctx, map[string]any{"code": info.Code, "name": info.Name})
}

func (s *GRPCServer) GetPassage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	readingID := int64(numberField(req, "reading_id"))
	if readingID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "reading_id is required")
	}

	version, err := s.versions.ResolveVersion(ctx, stringField(req, "version"), userIDFromContext(ctx))
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	reading, err := s.passages.Reading(ctx, readingID)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	content, err := s.passages.ResolvePassage(ctx, reading, version)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	return s.reply(ctx, passageFields(reading, version, content))
}

func (s *GRPCServer) GetDailyPassage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	date := s.now()
	if raw := stringField(req, "date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "date must be YYYY-MM-DD")
		}
		date = parsed
	}

	version, err := s.versions.ResolveVersion(ctx, stringField(req, "version"), userIDFromContext(ctx))
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	reading, content, err := s.passages.DailyPassage(ctx, date, version)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	return s.reply(ctx, passageFields(reading, version, content))
}

func (s *GRPCServer) FetchPassage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	reference := stringField(req, "reference")
	if reference == "" {
		return nil, status.Error(codes.InvalidArgument, "reference is required")
	}

	code := stringField(req, "version")
	if code == "" {
		v, err := s.versions.ResolveVersion(ctx, "", userIDFromContext(ctx))
		if err != nil {
			return nil, s.fail(ctx, err)
		}
		code = v.Code
	}

	content, err := s.passages.FetchPassage(ctx, code, reference)
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	return s.reply(ctx, map[string]any{"reference": reference, "version": code, "content": content})
}

func (s *GRPCServer) SetPreferredVersion(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {

	userID := userIDFromContext(ctx)
	if userID == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "version code is required")
	}

	v, err := s.versions.SetPreferredVersion(ctx, userID, req.GetValue())
	if err != nil {
		return nil, s.fail(ctx, err)
	}

	s.logger.Info(ctx, "preferred version set", "req_id", requestIDFromContext(ctx), "user_id", userID, "version", v.Code)
	return s.reply(ctx, versionFields(v))
}

func (s *GRPCServer) reply(ctx context.Context, fields map[string]any) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	return out, nil
}

// fail logs err and converts it to a status error.
func (s *GRPCServer) fail(ctx context.Context, err error) error {
	st := toStatus(err)
	if st.Code() == codes.Internal || st.Code() == codes.Unavailable {
		s.logger.Error(ctx, "request failed", "req_id", requestIDFromContext(ctx), "error", err)
	} else {
		s.logger.Debug(ctx, "request refused", "req_id", requestIDFromContext(ctx), "error", err)
	}
	return st.Err()
}

func toStatus(err error) *status.Status {
	switch {
	case errors.Is(err, common.ErrAuthentication), errors.Is(err, common.ErrUpstreamUnavailable):
		return status.New(codes.Unavailable, "scripture provider unavailable")
	case errors.Is(err, common.ErrUnlicensedVersion):
		return status.New(codes.FailedPrecondition, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.New(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrPrecondition):
		return status.New(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrNoDefaultVersion), errors.Is(err, common.ErrNoAuthorizedVersions):
		return status.New(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.New(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.New(codes.DeadlineExceeded, err.Error())
	default:
		return status.New(codes.Internal, "internal error")
	}
}

func versionFields(v *models.Version) map[string]any {
	return map[string]any{"id": float64(v.ID), "code": v.Code, "title": v.Title}
}

func passageFields(r *models.Reading, v *models.Version, content string) map[string]any {
	return map[string]any{
		"reading_id": float64(r.ID),
		"reference":  r.Reference,
		"title":      r.Title,
		"date":       r.Date.Format(time.DateOnly),
		"version":    v.Code,
		"content":    content,
	}
}

func stringField(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

func numberField(s *structpb.Struct, key string) float64 {
	return s.GetFields()[key].GetNumberValue()
}
