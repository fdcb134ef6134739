package test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/crm/internal/crm/controller"
	"github.com/gartstein/crm/internal/crm/db"
	e "github.com/gartstein/crm/internal/crm/errors"
	"github.com/gartstein/crm/internal/crm/events"
	"github.com/gartstein/crm/internal/crm/filters"
	"github.com/gartstein/crm/internal/crm/models"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

var kafkaBrokers = []string{"localhost:9092"}

type IntegrationTestSuite struct {
	suite.Suite
	dbRepo      *db.Repository
	kafkaReader *kafka.Reader
	producer    *events.Producer
	service     *controller.Service
	logger      *zap.Logger
	testTimeout time.Duration
}

func TestIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests")
	}
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.logger = zap.NewNop()
	s.testTimeout = 20 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repo, err := db.Connect(ctx, &db.Config{
		Driver:         db.DriverPostgres,
		Host:           "localhost",
		Port:           5432,
		User:           "test",
		Password:       "test",
		DBName:         "test",
		SSLMode:        "disable",
		ConnectTimeout: 30 * time.Second,
	}, s.logger)
	s.Require().NoError(err, "database initialization failed")
	s.dbRepo = repo

	topic := fmt.Sprintf("crm.events.%d", time.Now().UnixNano())
	s.producer, s.kafkaReader, err = initializeKafkaWithRetry(topic)
	s.Require().NoError(err, "kafka initialization failed")

	s.service = controller.NewService(s.dbRepo, s.producer, s.logger)
}

func initializeKafkaWithRetry(topic string) (*events.Producer, *kafka.Reader, error) {
	var producer *events.Producer
	err := backoff.Retry(func() error {
		var err error
		producer, err = events.NewProducer(events.ProducerConfig{
			Brokers:    kafkaBrokers,
			Topic:      topic,
			Partitions: 1,
		}, zap.NewNop())
		return err
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 10))
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer initialization failed: %w", err)
	}

	err = backoff.Retry(func() error {
		conn, err := kafka.Dial("tcp", kafkaBrokers[0])
		if err != nil {
			return err
		}
		defer conn.Close()

		partitions, err := conn.ReadPartitions(topic)
		if err != nil || len(partitions) == 0 {
			return fmt.Errorf("topic %s not found", topic)
		}
		return nil
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		producer.Close()
		return nil, nil, fmt.Errorf("kafka topic check failed: %w", err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     kafkaBrokers,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
	})
	return producer, reader, nil
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close()
	}
	if s.kafkaReader != nil {
		_ = s.kafkaReader.Close()
	}
	if s.dbRepo != nil {
		_ = s.dbRepo.Close()
	}
}

func (s *IntegrationTestSuite) SetupTest() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	err := s.dbRepo.Exec(ctx, "TRUNCATE TABLE employees, partnerships, companies, professions CASCADE")
	s.Require().NoError(err, "failed to clean database")
}

func (s *IntegrationTestSuite) newCompany(ctx context.Context, name string, partners ...uuid.UUID) *models.Company {
	created, err := s.service.CreateCompany(ctx, &models.Company{
		Name:             name,
		TypeOfCompany:    "IT",
		Country:          "Ukraine",
		YearOfFoundation: time.Date(2010, time.March, 1, 0, 0, 0, 0, time.UTC),
	}, partners)
	s.Require().NoError(err)
	return created
}

func (s *IntegrationTestSuite) TestCompanyLifecycle() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	acme := s.newCompany(ctx, "Acme")
	globex := s.newCompany(ctx, "Globex", acme.ID)
	s.Equal(int64(1), globex.NumberOfPartners)
	s.verifyKafkaEvent(ctx, events.Created, models.CompaniesResource, globex.ID)

	name := "Globex Corporation"
	updated, err := s.service.UpdateCompany(ctx, &models.CompanyUpdate{ID: globex.ID, Name: &name})
	s.Require().NoError(err)
	s.Equal(name, updated.Name)
	s.verifyKafkaEvent(ctx, events.Updated, models.CompaniesResource, globex.ID)

	s.Require().NoError(s.service.DeleteCompany(ctx, acme.ID))
	_, err = s.dbRepo.GetCompany(ctx, acme.ID)
	s.ErrorIs(err, e.ErrNotFound)
	s.verifyKafkaEvent(ctx, events.Deleted, models.CompaniesResource, acme.ID)

	remaining, err := s.service.GetCompany(ctx, globex.ID)
	s.Require().NoError(err)
	s.Zero(remaining.NumberOfPartners, "partnerships go with the deleted company")
}

func (s *IntegrationTestSuite) TestEmployeeCountFilters() {
	ctx, cancel := context.WithTimeout(context.Background(), s.testTimeout)
	defer cancel()

	acme := s.newCompany(ctx, "Acme")
	s.newCompany(ctx, "Globex")
	engineer, err := s.service.CreateProfession(ctx, &models.Profession{Name: "Engineer"})
	s.Require().NoError(err)

	for _, name := range []string{"Alice", "Bob"} {
		_, err := s.service.CreateEmployee(ctx, &models.Employee{
			Name:          name,
			Age:           30,
			CompanyID:     acme.ID,
			ProfessionID:  engineer.ID,
			Salary:        1000,
			PromotionDate: time.Now().UTC(),
		})
		s.Require().NoError(err)
	}

	opts, err := filters.ParseListOptions(nil, models.CompanySchema)
	s.Require().NoError(err)
	minEmployees := int64(2)
	companies, total, err := s.service.ListCompanies(ctx, filters.CompanyFilter{
		Employees: filters.IntRange{Min: &minEmployees},
	}, opts)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(companies, 1)
	s.Equal("Acme", companies[0].Name)
	s.Equal(int64(2), companies[0].NumberOfEmployees)
}

func (s *IntegrationTestSuite) verifyKafkaEvent(ctx context.Context, eventType events.EventType, resource models.Resource, id uuid.UUID) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	key := events.New(eventType, resource, id, "").Key()
	for {
		msg, err := s.kafkaReader.ReadMessage(ctx)
		s.Require().NoError(err, "no %s event received for %s", eventType, key)
		if string(msg.Key) != key {
			continue
		}
		var event events.Event
		s.Require().NoError(json.Unmarshal(msg.Value, &event))
		if event.Type != eventType {
			continue
		}
		s.Equal(id, event.ID)
		s.Equal(resource, event.Resource)
		return
	}
}
