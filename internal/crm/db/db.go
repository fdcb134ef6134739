package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	e "github.com/gartstein/crm/internal/crm/errors"
	"github.com/gartstein/crm/internal/crm/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is the database file for the sqlite driver.
	Path string
	// ConnectTimeout bounds the retries of Connect.
	ConnectTimeout time.Duration
}

// Dialector returns the GORM dialector for the configured driver.
func (c *Config) Dialector() (gorm.Dialector, error) {
	switch c.Driver {
	case DriverPostgres, "":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
		return postgres.Open(dsn), nil
	case DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.User, c.Password, c.Host, c.Port, c.DBName)
		return mysql.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(c.Path), nil
	default:
		return nil, fmt.Errorf("%w: unsupported database driver %q", e.ErrInvalidInput, c.Driver)
	}
}

// GormConfig returns the GORM settings shared by every driver: UTC clock,
// translated constraint errors and a zap-backed query logger.
func GormConfig(logger *zap.Logger) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		Logger: gormlogger.New(
			zap.NewStdLog(logger.Named("gorm")),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}
}

// NewRepository opens the database described by cfg and migrates the schema.
func NewRepository(cfg *Config, logger *zap.Logger) (*Repository, error) {
	dialector, err := cfg.Dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, GormConfig(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return New(db)
}

// New wraps an open GORM handle and migrates the schema.
func New(db *gorm.DB) (*Repository, error) {
	r := &Repository{db: db}
	if err := r.Migrate(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

// Connect retries NewRepository with exponential backoff until it succeeds,
// cfg.ConnectTimeout elapses or ctx is done.
func Connect(ctx context.Context, cfg *Config, logger *zap.Logger) (*Repository, error) {
	policy := backoff.NewExponentialBackOff()
	if cfg.ConnectTimeout > 0 {
		policy.MaxElapsedTime = cfg.ConnectTimeout
	}

	var repo *Repository
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		var err error
		repo, err = NewRepository(cfg, logger)
		if errors.Is(err, e.ErrInvalidInput) {
			return backoff.Permanent(err)
		}
		if err != nil {
			logger.Warn("database not ready", zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	}, backoff.WithContext(policy, ctx))
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// Migrate creates or updates the tables of every model.
func (r *Repository) Migrate(ctx context.Context) error {
	err := r.db.WithContext(ctx).AutoMigrate(
		&models.Profession{},
		&models.Company{},
		&models.PartnerShip{},
		&models.Employee{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Exec(ctx context.Context, query string, params ...interface{}) error {
	result := r.db.WithContext(ctx).Exec(query, params...)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

// exists reports whether a row of model with the given id exists.
func (r *Repository) exists(ctx context.Context, model interface{}, id uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(model).
		Where("id = ?", id).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

// nameTaken reports whether another row of model, other than exclude, uses name.
func (r *Repository) nameTaken(ctx context.Context, model interface{}, name string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(model).
		Select("name").
		Where("name = ?", name)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	result := query.Limit(1).Count(&count)
	return count > 0, result.Error
}

// update applies cols to the row of model with id. A missing row yields
// ErrNotFound; an empty update only checks for existence.
func (r *Repository) update(ctx context.Context, model interface{}, id uuid.UUID, cols map[string]interface{}) error {
	if len(cols) == 0 {
		found, err := r.exists(ctx, model, id)
		if err != nil {
			return err
		}
		if !found {
			return e.ErrNotFound
		}
		return nil
	}

	result := r.db.WithContext(ctx).Model(model).
		Where("id = ?", id).
		Updates(cols)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// duplicateName converts a unique-key violation on a name column into a
// field-level validation error.
func duplicateName(err error, entity string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return DuplicateNameError(entity)
	}
	return err
}

// DuplicateNameError reports that the name of entity is already used.
func DuplicateNameError(entity string) error {
	v := &e.ValidationError{Err: e.ErrDuplicateName}
	v.Add("name", entity+" with this name already exists.")
	return v
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return e.ErrNotFound
	}
	return err
}
