// Package sqlite stores the collections in an SQLite database.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/cotisations/backend/pkg/models"
	"github.com/cotisations/backend/pkg/store"
)

// ErrGeneral is returned for database errors that the user cannot do anything about.
var ErrGeneral = errors.New("a database error occurred")

const (
	collectionNeighbors     = "neighbors"
	collectionContributions = "contributions"
	collectionPayments      = "payments"
)

// counter holds the next ID of one collection.
type counter struct {
	Collection string `gorm:"primaryKey"`
	NextID     uint64
}

// Store is a store.Store backed by SQLite.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// New opens the SQLite database and migrates the schema.
func New(dsn string) (*Store, error) {
	config := &gorm.Config{
		Logger: newLogger(log.Logger),
	}

	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(models.Neighbor{}, models.Contribution{}, models.Payment{}, counter{})
	if err != nil {
		return nil, fmt.Errorf("error during DB migration: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// One connection prevents SQLITE_BUSY errors
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	err = db.Callback().Create().After("*").Register("cotisations:after_create", createCallback)
	if err != nil {
		return nil, err
	}

	err = db.Callback().Create().After("*").Register("cotisations:after_create_general", generalCallback)
	if err != nil {
		return nil, err
	}

	err = db.Callback().Query().After("*").Register("cotisations:after_query_general", generalCallback)
	if err != nil {
		return nil, err
	}

	err = db.Callback().Delete().After("*").Register("cotisations:after_delete_general", generalCallback)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// createCallback replaces constraint errors with the matching sentinel errors
func createCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: neighbors.floor, neighbors.unit") {
		db.Error = models.ErrNeighborNotUnique
	}
}

// generalCallback handles unspecified errors.
//
// The error is logged and a general message is returned instead.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// "sql: database is closed" is hard-coded in the sql module
	if db.Error.Error() == "sql: database is closed" || reflect.TypeOf(db.Error) == reflect.TypeOf(&go_sqlite.Error{}) {
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = ErrGeneral
	}
}

func (s *Store) LoadAll(ctx context.Context) (models.Snapshot, error) {
	db := s.db.WithContext(ctx)

	neighbors, err := load[models.Neighbor](db, collectionNeighbors)
	if err != nil {
		return models.Snapshot{}, err
	}

	contributions, err := load[models.Contribution](db, collectionContributions)
	if err != nil {
		return models.Snapshot{}, err
	}

	payments, err := load[models.Payment](db, collectionPayments)
	if err != nil {
		return models.Snapshot{}, err
	}

	return models.Snapshot{
		Neighbors:     neighbors,
		Contributions: contributions,
		Payments:      payments,
	}, nil
}

func (s *Store) SaveNeighbors(ctx context.Context, c models.Collection[models.Neighbor]) error {
	return save(s.db.WithContext(ctx), collectionNeighbors, c)
}

func (s *Store) SaveContributions(ctx context.Context, c models.Collection[models.Contribution]) error {
	return save(s.db.WithContext(ctx), collectionContributions, c)
}

func (s *Store) SavePayments(ctx context.Context, c models.Collection[models.Payment]) error {
	return save(s.db.WithContext(ctx), collectionPayments, c)
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func load[T models.Record](db *gorm.DB, collection string) (models.Collection[T], error) {
	var records []T
	if err := db.Order("id").Find(&records).Error; err != nil {
		return models.Collection[T]{}, fmt.Errorf("could not load %s: %w", collection, err)
	}

	c := models.NewCollection(records...)

	var next counter
	err := db.Where(&counter{Collection: collection}).Limit(1).Find(&next).Error
	if err != nil {
		return models.Collection[T]{}, fmt.Errorf("could not load the counter for %s: %w", collection, err)
	}

	if next.NextID > c.NextID {
		c.NextID = next.NextID
	}

	return c, nil
}

// save replaces all records and the counter of the collection in one transaction.
func save[T models.Record](db *gorm.DB, collection string, c models.Collection[T]) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var zero T
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&zero).Error; err != nil {
			return fmt.Errorf("could not clear %s: %w", collection, err)
		}

		if len(c.Records) > 0 {
			if err := tx.CreateInBatches(c.Records, 100).Error; err != nil {
				return fmt.Errorf("could not save %s: %w", collection, err)
			}
		}

		if err := tx.Save(&counter{Collection: collection, NextID: c.NextIdentifier()}).Error; err != nil {
			return fmt.Errorf("could not save the counter for %s: %w", collection, err)
		}

		return nil
	})
}
