package cli

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/botboard-io/botboard/internal/models"
)

// checkHealth asks the daemon's gRPC health service whether the collector
// is serving.
func checkHealth(ctx context.Context, info *models.DaemonInfo) (healthpb.HealthCheckResponse_ServingStatus, error) {
	conn, err := grpc.NewClient(info.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: models.HealthService})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("health check failed: %w", err)
	}
	return res.GetStatus(), nil
}
