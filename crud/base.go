package crud

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/ivan-22-3-5/e-commerce/apperrors"
)

// repo is a generic create/retrieve/update/delete gateway parametrized over
// the entity type and its key. Entities that need more than the generic
// capability set get dedicated methods on the Store.
type repo[T any, K comparable] struct {
	db     *gorm.DB
	keyCol string
}

func newRepo[T any, K comparable](db *gorm.DB, keyCol string) repo[T, K] {
	return repo[T, K]{db: db, keyCol: keyCol}
}

func (r repo[T, K]) create(ctx context.Context, obj *T) error {
	return translateWriteErr(r.db.WithContext(ctx).Create(obj).Error)
}

// get raises ErrResourceDoesNotExist on miss.
func (r repo[T, K]) get(ctx context.Context, key K) (*T, error) {
	var obj T
	err := r.db.WithContext(ctx).First(&obj, fmt.Sprintf("%s = ?", r.keyCol), key).Error
	if err != nil {
		return nil, translateGetErr(err)
	}
	return &obj, nil
}

// getOrNil returns (nil, nil) on miss, for call sites that treat absence as
// a regular outcome.
func (r repo[T, K]) getOrNil(ctx context.Context, key K) (*T, error) {
	var objs []T
	err := r.db.WithContext(ctx).Limit(1).Find(&objs, fmt.Sprintf("%s = ?", r.keyCol), key).Error
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, nil
	}
	return &objs[0], nil
}

func (r repo[T, K]) save(ctx context.Context, obj *T) error {
	return translateWriteErr(r.db.WithContext(ctx).Save(obj).Error)
}

func (r repo[T, K]) update(ctx context.Context, key K, patch map[string]any) error {
	var obj T
	res := r.db.WithContext(ctx).Model(&obj).
		Where(fmt.Sprintf("%s = ?", r.keyCol), key).
		Updates(patch)
	if res.Error != nil {
		return translateWriteErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrResourceDoesNotExist
	}
	return nil
}

func (r repo[T, K]) delete(ctx context.Context, key K) error {
	var obj T
	res := r.db.WithContext(ctx).Where(fmt.Sprintf("%s = ?", r.keyCol), key).Delete(&obj)
	if res.Error != nil {
		return translateDeleteErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrResourceDoesNotExist
	}
	return nil
}
