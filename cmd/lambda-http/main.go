package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"nutricoach-backend/internal/bootstrap"
	"nutricoach-backend/internal/shared/config"
	"nutricoach-backend/internal/shared/telemetry"
)

const bootstrapFailedBody = `{"error":{"code":"internal","message":"bootstrap failed"}}`

// proxy builds the app on the first invocation so cold starts pay for it
// once.
type proxy struct {
	build func(ctx context.Context) (*gin.Engine, error)

	once    sync.Once
	err     error
	adapter *ginadapter.GinLambdaV2
}

func (p *proxy) handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	p.once.Do(func() {
		router, err := p.build(ctx)
		if err != nil {
			p.err = err
			return
		}
		p.adapter = ginadapter.NewV2(router)
	})
	if p.err != nil {
		telemetry.Error("lambda.bootstrap_failed", map[string]any{"error": p.err.Error()})
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       bootstrapFailedBody,
			Headers:    map[string]string{"Content-Type": "application/json"},
		}, nil
	}
	return p.adapter.ProxyWithContext(ctx, req)
}

func buildRouter(ctx context.Context) (*gin.Engine, error) {
	app, err := bootstrap.Build(ctx, config.Load())
	if err != nil {
		return nil, err
	}
	return app.Router, nil
}

func main() {
	p := &proxy{build: buildRouter}
	lambda.Start(p.handle)
}
