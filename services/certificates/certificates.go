package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"

	"github.com/relabs-tech/certify/certificate"
	"github.com/relabs-tech/certify/certificate/pdf"
	"github.com/relabs-tech/certify/certificate/store"
	"github.com/relabs-tech/certify/core/csql"
	"github.com/relabs-tech/certify/core/logger"
)

// Service holds the configuration for this service
//
// use POSTGRES="host=localhost port=5432 user=postgres password=docker dbname=postgres sslmode=disable"
type Service struct {
	Postgres      string        `env:"POSTGRES,required" description:"the connection string for the Postgres DB"`
	Schema        string        `env:"SCHEMA,default=certificates" description:"the database schema for the issuance ledger"`
	Bucket        string        `env:"BUCKET,default=certificate" description:"the S3 bucket certificates are published to"`
	AWSRegion     string        `env:"AWS_REGION,default=us-east-1" description:"the region of the S3 bucket"`
	AccessID      string        `env:"AWS_ACCESS_KEY_ID,optional" description:"AWS access key, the default credentials chain is used when empty"`
	AccessKey     string        `env:"AWS_SECRET_ACCESS_KEY,optional" description:"AWS secret key"`
	Offline       bool          `env:"OFFLINE,default=false" description:"write certificates to the local filesystem instead of S3"`
	LocalDir      string        `env:"LOCAL_DIR,default=./certificates" description:"the folder for offline certificates"`
	PublicURL     string        `env:"PUBLIC_URL,default=http://localhost:3000/certificates" description:"the base URL offline certificates are reported under"`
	RenderTimeout time.Duration `env:"RENDER_TIMEOUT,default=30s" description:"upper bound for one PDF export"`
	ChromeBin     string        `env:"CHROME_BIN,optional" description:"path to a Chrome or Chromium binary"`
	Port          string        `env:"PORT,default=3000" description:"the port the service listens on"`
}

func main() {
	logger.InitLogger(logrus.InfoLevel)

	service := &Service{}
	if err := envdecode.Decode(service); err != nil {
		panic(err)
	}

	db := csql.OpenWithSchema(service.Postgres, service.Schema)
	defer db.Close()

	storeConfig := store.Configuration{
		DriverType: store.DriverTypeAWSS3,
		S3Configuration: &store.S3Configuration{
			AWSBucketName: service.Bucket,
			AWSRegion:     service.AWSRegion,
			AccessID:      service.AccessID,
			AccessKey:     service.AccessKey,
		},
	}
	if service.Offline {
		storeConfig = store.Configuration{
			DriverType: store.DriverTypeLocal,
			LocalConfiguration: &store.LocalConfiguration{
				BasePath:  service.LocalDir,
				PublicURL: service.PublicURL,
			},
		}
	}
	driver, err := store.NewDriver(storeConfig)
	if err != nil {
		panic(err)
	}

	router := mux.NewRouter()
	logger.AddRequestID(router)
	certificate.NewAPI(&certificate.Builder{
		DB:            db,
		Router:        router,
		Engine:        pdf.ChromeEngine{Bin: service.ChromeBin},
		Store:         driver,
		ExportTimeout: service.RenderTimeout,
	})

	log.Println("listen on port :" + service.Port)
	http.ListenAndServe(":"+service.Port, handlers.CombinedLoggingHandler(os.Stdout, router))
}
