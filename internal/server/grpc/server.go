package grpc

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/dmitrijs2005/dailyword/internal/logging"
	"github.com/dmitrijs2005/dailyword/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type versionCatalog interface {
	GetAuthorizedVersions() []*models.Version
	DefaultVersion() *models.Version
	GetVersionInfo(ctx context.Context, code string) (*models.VersionInfo, error)
	ResolveVersion(ctx context.Context, code string, userID string) (*models.Version, error)
	SetPreferredVersion(ctx context.Context, userID string, code string) (*models.Version, error)
}

type passageResolver interface {
	Reading(ctx context.Context, id int64) (*models.Reading, error)
	ResolvePassage(ctx context.Context, reading *models.Reading, version *models.Version) (string, error)
	DailyPassage(ctx context.Context, date time.Time, version *models.Version) (*models.Reading, string, error)
	FetchPassage(ctx context.Context, versionCode, reference string) (string, error)
}

type GRPCServer struct {
	address   string
	versions  versionCatalog
	passages  passageResolver
	logger    logging.Logger
	jwtSecret []byte
	now       func() time.Time
}

func NewGRPCServer(a string, l logging.Logger, vs versionCatalog, ps passageResolver, secretKey string) (*GRPCServer, error) {
	if secretKey == "" {
		return nil, errors.New("empty secret key")
	}
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		versions:  vs,
		passages:  ps,
		jwtSecret: []byte(secretKey),
		now:       time.Now,
	}, nil
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))

	RegisterScriptureServiceServer(srv, s)

	// versions are loaded before the server is built
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
