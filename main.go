package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/joho/godotenv"

	"github.com/taskpilot/taskpilot-api/internal/container"
	"github.com/taskpilot/taskpilot-api/internal/router"
)

var chiLambda *chiadapter.ChiLambda

func handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return chiLambda.ProxyWithContext(ctx, req)
}

func main() {
	_ = godotenv.Load()

	c := container.New()
	r := router.New(router.RouterConfig{
		TaskHandler:     c.TaskContainer.Handler,
		CalendarHandler: c.GoogleCalendarContainer.Handler,
	})

	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		chiLambda = chiadapter.New(r)
		lambda.Start(handler)
		return
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("listening on :%s", port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
