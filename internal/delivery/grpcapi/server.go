package grpcapi

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// NewServer registers the operations service behind the admin token check,
// plus the standard health service reporting it as serving.
func NewServer(ops OperationsServer, jwtSecret string) (*grpc.Server, *health.Server) {
	server := grpc.NewServer(grpc.UnaryInterceptor(AuthInterceptor(jwtSecret)))
	RegisterOperationsServer(server, ops)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)

	return server, healthServer
}
