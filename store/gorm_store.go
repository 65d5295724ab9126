package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/spicehut/food-order-app/models"
)

// GormStore keeps every collection in a single documents table
// (collection + key -> JSON body), so one relational database backs the
// whole document contract.
type GormStore struct {
	db       *gorm.DB
	notifier *notifier

	// onWrite, when set, replaces direct publishing; used inside Transact
	// so notifications wait for the commit.
	onWrite func(collection string)
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:       db,
		notifier: newNotifier(),
	}
}

func (s *GormStore) Get(ctx context.Context, collection string) (Snapshot, error) {
	var docs []models.Document
	if err := s.db.WithContext(ctx).Where("collection = ?", collection).Find(&docs).Error; err != nil {
		return nil, err
	}

	snap := make(Snapshot, len(docs))
	for _, doc := range docs {
		snap[doc.Key] = json.RawMessage(doc.Body)
	}
	return snap, nil
}

func (s *GormStore) Push(ctx context.Context, collection string, value interface{}) (string, error) {
	key := NewKey()
	if err := s.write(ctx, collection, key, value); err != nil {
		return "", err
	}
	s.publish(collection)
	return key, nil
}

func (s *GormStore) Set(ctx context.Context, path string, value interface{}) error {
	collection, key, err := SplitPath(path)
	if err != nil {
		return err
	}
	if err := s.write(ctx, collection, key, value); err != nil {
		return err
	}
	s.publish(collection)
	return nil
}

func (s *GormStore) Update(ctx context.Context, path string, fields map[string]interface{}) error {
	collection, key, err := SplitPath(path)
	if err != nil {
		return err
	}

	merged := make(map[string]interface{})
	var doc models.Document
	err = s.db.WithContext(ctx).
		Where("collection = ? AND `key` = ?", collection, key).
		First(&doc).Error
	switch {
	case err == nil:
		if err := json.Unmarshal([]byte(doc.Body), &merged); err != nil {
			return err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// patching an absent record creates it
	default:
		return err
	}

	for k, v := range fields {
		merged[k] = v
	}
	if err := s.write(ctx, collection, key, merged); err != nil {
		return err
	}
	s.publish(collection)
	return nil
}

func (s *GormStore) Delete(ctx context.Context, path string) error {
	collection, key, err := SplitPath(path)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).
		Where("collection = ? AND `key` = ?", collection, key).
		Delete(&models.Document{}).Error; err != nil {
		return err
	}
	s.publish(collection)
	return nil
}

func (s *GormStore) Subscribe(collection string, fn ChangeHandler) func() {
	return s.notifier.subscribe(collection, fn)
}

// Transact wraps fn in a database transaction; writes inside it either all
// commit or all roll back. Subscribers hear about the affected collections
// once, after commit.
func (s *GormStore) Transact(ctx context.Context, fn func(tx Store) error) error {
	touched := make(map[string]struct{})
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txStore := &GormStore{db: tx, notifier: nil}
		txStore.onWrite = func(collection string) { touched[collection] = struct{}{} }
		return fn(txStore)
	})
	if err != nil {
		return err
	}
	for collection := range touched {
		s.publish(collection)
	}
	return nil
}

func (s *GormStore) write(ctx context.Context, collection, key string, value interface{}) error {
	body, err := json.Marshal(value)
	if err != nil {
		return err
	}

	doc := models.Document{
		Collection: collection,
		Key:        key,
		Body:       string(body),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&doc).Error
}

func (s *GormStore) publish(collection string) {
	if s.onWrite != nil {
		s.onWrite(collection)
		return
	}
	if s.notifier == nil {
		return
	}
	snap, err := s.Get(context.Background(), collection)
	if err != nil {
		return
	}
	s.notifier.publish(collection, snap)
}
