package certificate_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/relabs-tech/certify/certificate"
	"github.com/relabs-tech/certify/core/csql"
)

type LedgerTestSuite struct {
	suite.Suite
	postgresContainer testcontainers.Container
	db                *csql.DB
	ledger            *certificate.PostgresLedger
}

func (s *LedgerTestSuite) SetupSuite() {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		s.T().Skipf("docker is not available: %v", err)
	}
	s.postgresContainer = pgC

	pgHost, err := pgC.Host(ctx)
	s.Require().NoError(err)
	pgPort, err := pgC.MappedPort(ctx, "5432")
	s.Require().NoError(err)

	dataSourceName := fmt.Sprintf("host=%s port=%s user=testuser password=testpass dbname=testdb sslmode=disable",
		pgHost, pgPort.Port())
	s.db = csql.OpenWithSchema(dataSourceName, "certificates_test")
	s.ledger = certificate.MustNewPostgresLedger(s.db)
}

func (s *LedgerTestSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.postgresContainer != nil {
		s.postgresContainer.Terminate(context.Background())
	}
}

func (s *LedgerTestSuite) TestHasIssued() {
	ctx := context.Background()

	exists, err := s.ledger.HasIssued(ctx, "never-issued")
	s.Require().NoError(err)
	s.False(exists)

	err = s.ledger.RecordIssuance(ctx, certificate.Record{
		ID: "issued", Name: "Ada Lovelace", Grade: "A", CreatedAt: 1700000000000,
	})
	s.Require().NoError(err)

	exists, err = s.ledger.HasIssued(ctx, "issued")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *LedgerTestSuite) TestFirstTimestampSticks() {
	ctx := context.Background()

	first := certificate.Record{ID: "repeat", Name: "Ada Lovelace", Grade: "A", CreatedAt: 1700000000000}
	s.Require().NoError(s.ledger.RecordIssuance(ctx, first))

	second := first
	second.CreatedAt = 1800000000000
	s.Require().NoError(s.ledger.RecordIssuance(ctx, second))

	var createdAt int64
	err := s.db.QueryRow(
		fmt.Sprintf(`SELECT created_at FROM %s."certificate" WHERE certificate_id=$1;`, s.db.Schema),
		"repeat").Scan(&createdAt)
	s.Require().NoError(err)
	s.Equal(first.CreatedAt, createdAt)

	var count int
	err = s.db.QueryRow(
		fmt.Sprintf(`SELECT count(*) FROM %s."certificate" WHERE certificate_id=$1;`, s.db.Schema),
		"repeat").Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func TestLedgerTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping ledger integration test in short mode")
	}
	suite.Run(t, new(LedgerTestSuite))
}
