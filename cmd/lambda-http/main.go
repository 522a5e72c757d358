package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"resume-builder/internal/bootstrap"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/telemetry"
)

// gateway builds the router on the first request and reuses it for the
// lifetime of the execution environment.
type gateway struct {
	build func() (*gin.Engine, error)

	once    sync.Once
	err     error
	adapter *ginadapter.GinLambdaV2
}

func (g *gateway) init() {
	router, err := g.build()
	if err != nil {
		g.err = err
		return
	}
	g.adapter = ginadapter.NewV2(router)
}

func (g *gateway) handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	g.once.Do(g.init)
	if g.err != nil {
		telemetry.Error("lambda_http.bootstrap_failed", map[string]any{"error": g.err.Error()})
		return errorResponse("bootstrap_failed", "service unavailable"), nil
	}
	return g.adapter.ProxyWithContext(ctx, req)
}

func errorResponse(code, message string) events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(map[string]any{"error": map[string]string{"code": code, "message": message}})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func buildRouter() (*gin.Engine, error) {
	cfg := config.Load()
	telemetry.Init(cfg.Env)
	app, err := bootstrap.Build(cfg)
	if err != nil {
		return nil, err
	}
	return app.Router, nil
}

func main() {
	g := &gateway{build: buildRouter}
	lambda.Start(g.handle)
}
