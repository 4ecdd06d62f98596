// The certificates-lambda service is the AWS Lambda rendition of the
// certificate issuer, triggered through an API Gateway proxy integration.
// Database, store and renderer are built once per container; the rendering
// engine is still launched and torn down per invocation.
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/goccy/go-json"
	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq"

	"github.com/relabs-tech/certify/certificate"
	"github.com/relabs-tech/certify/certificate/pdf"
	"github.com/relabs-tech/certify/certificate/store"
	"github.com/relabs-tech/certify/core/csql"
	"github.com/relabs-tech/certify/core/logger"
)

// Service holds the configuration for this service
type Service struct {
	Postgres      string        `env:"POSTGRES,required" description:"the connection string for the Postgres DB"`
	Schema        string        `env:"SCHEMA,default=certificates" description:"the database schema for the issuance ledger"`
	Bucket        string        `env:"BUCKET,default=certificate" description:"the S3 bucket certificates are published to"`
	AWSRegion     string        `env:"AWS_REGION,default=us-east-1" description:"the region of the S3 bucket"`
	RenderTimeout time.Duration `env:"RENDER_TIMEOUT,default=30s" description:"upper bound for one PDF export"`
	ChromeBin     string        `env:"CHROME_BIN,optional" description:"path to a Chrome or Chromium binary"`
}

type handler struct {
	issuer *certificate.Issuer
}

func (h *handler) handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	ctx, rlog := logger.ContextWithLogger(ctx)

	req, err := certificate.DecodeRequest([]byte(event.Body))
	if err != nil {
		return errorResponse(err), nil
	}

	issuance, err := h.issuer.Issue(ctx, req)
	if err != nil {
		rlog.WithError(err).Errorln("issuance failed for ", req.ID)
		return errorResponse(err), nil
	}

	body, _ := json.Marshal(certificate.Response{
		Message: "Certificate created successfully.",
		URL:     issuance.URL,
	})
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusCreated,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}

func errorResponse(err error) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(certificate.ErrorResponse{Error: err.Error()})
	return events.APIGatewayProxyResponse{
		StatusCode: certificate.HTTPStatus(err),
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

func main() {
	logger.InitLogger(logrus.InfoLevel)

	service := &Service{}
	if err := envdecode.Decode(service); err != nil {
		panic(err)
	}

	db := csql.OpenWithSchema(service.Postgres, service.Schema)
	defer db.Close()

	driver, err := store.NewS3(store.S3Configuration{
		AWSBucketName: service.Bucket,
		AWSRegion:     service.AWSRegion,
	})
	if err != nil {
		panic(err)
	}

	issuer := certificate.MustNewIssuer(&certificate.Builder{
		DB:            db,
		Engine:        pdf.ChromeEngine{Bin: service.ChromeBin},
		Store:         driver,
		ExportTimeout: service.RenderTimeout,
	})

	lambda.Start((&handler{issuer: issuer}).handle)
}
