package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dailyword/internal/common"
	gs "github.com/dmitrijs2005/dailyword/internal/server/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type Version struct {
	ID    int64
	Code  string
	Title string
}

type Passage struct {
	ReadingID int64
	Reference string
	Title     string
	Date      string
	Version   string
	Content   string
}

type Client struct {
	conn        *grpc.ClientConn
	service     *gs.ScriptureServiceClient
	accessToken string
	timeout     time.Duration
}

// New dials endpoint lazily; the first call establishes the connection.
func New(endpoint, accessToken string, timeout time.Duration, opts ...grpc.DialOption) (*Client, error) {
	c := &Client{accessToken: accessToken, timeout: timeout}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.service = gs.NewScriptureServiceClient(conn)
	return c, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (c *Client) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if c.accessToken != "" {
		ctx = withAccessToken(ctx, c.accessToken)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// Versions returns the licensed versions and the server's default code.
func (c *Client) Versions(ctx context.Context) ([]Version, string, error) {
	out, err := c.service.ListVersions(ctx)
	if err != nil {
		return nil, "", mapError(err)
	}

	fields := out.GetFields()
	list := fields["versions"].GetListValue().GetValues()

	versions := make([]Version, 0, len(list))
	for _, v := range list {
		versions = append(versions, toVersion(v.GetStructValue()))
	}
	return versions, fields["default"].GetStringValue(), nil
}

func (c *Client) Passage(ctx context.Context, readingID int64, version string) (*Passage, error) {
	in, err := structpb.NewStruct(map[string]any{"reading_id": readingID, "version": version})
	if err != nil {
		return nil, err
	}
	out, err := c.service.GetPassage(ctx, in)
	if err != nil {
		return nil, mapError(err)
	}
	return toPassage(out), nil
}

// Daily returns the passage scheduled for date (YYYY-MM-DD, empty for today).
func (c *Client) Daily(ctx context.Context, date, version string) (*Passage, error) {
	in, err := structpb.NewStruct(map[string]any{"date": date, "version": version})
	if err != nil {
		return nil, err
	}
	out, err := c.service.GetDailyPassage(ctx, in)
	if err != nil {
		return nil, mapError(err)
	}
	return toPassage(out), nil
}

func (c *Client) Fetch(ctx context.Context, reference, version string) (*Passage, error) {
	in, err := structpb.NewStruct(map[string]any{"reference": reference, "version": version})
	if err != nil {
		return nil, err
	}
	out, err := c.service.FetchPassage(ctx, in)
	if err != nil {
		return nil, mapError(err)
	}
	return toPassage(out), nil
}

func (c *Client) VersionInfo(ctx context.Context, code string) (string, error) {
	out, err := c.service.GetVersionInfo(ctx, code)
	if err != nil {
		return "", mapError(err)
	}
	return out.GetFields()["name"].GetStringValue(), nil
}

func (c *Client) SetPreferred(ctx context.Context, code string) (*Version, error) {
	out, err := c.service.SetPreferredVersion(ctx, code)
	if err != nil {
		return nil, mapError(err)
	}
	v := toVersion(out)
	return &v, nil
}

func toVersion(s *structpb.Struct) Version {
	f := s.GetFields()
	return Version{
		ID:    int64(f["id"].GetNumberValue()),
		Code:  f["code"].GetStringValue(),
		Title: f["title"].GetStringValue(),
	}
}

func toPassage(s *structpb.Struct) *Passage {
	f := s.GetFields()
	return &Passage{
		ReadingID: int64(f["reading_id"].GetNumberValue()),
		Reference: f["reference"].GetStringValue(),
		Title:     f["title"].GetStringValue(),
		Date:      f["date"].GetStringValue(),
		Version:   f["version"].GetStringValue(),
		Content:   f["content"].GetStringValue(),
	}
}

func mapError(err error) error {
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrUnlicensed, st.Message())
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrBadRequest, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
