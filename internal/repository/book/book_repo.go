package book

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"panelforge/internal/model/comic"
)

// ErrNotFound 绘本不存在
var ErrNotFound = errors.New("book not found")

// BookRepository 绘本仓库接口
type BookRepository interface {
	Create(ctx context.Context, b *comic.Book) error
	FindByID(ctx context.Context, id string) (*comic.Book, error)
	List(ctx context.Context, status comic.BookStatus, limit int64) ([]*comic.Book, error)
	Update(ctx context.Context, b *comic.Book) error
}

// Repo 实现 BookRepository
type Repo struct {
	coll *mongo.Collection
}

// NewRepo 创建绘本仓库
func NewRepo(db *mongo.Database) *Repo {
	var b comic.Book
	return &Repo{coll: db.Collection(b.Collection())}
}

// Create 创建绘本记录
func (r *Repo) Create(ctx context.Context, b *comic.Book) error {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, b)
	return err
}

// FindByID 根据ID查询绘本
func (r *Repo) FindByID(ctx context.Context, id string) (*comic.Book, error) {
	var b comic.Book
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// List 按状态查询最近的绘本
func (r *Repo) List(ctx context.Context, status comic.BookStatus, limit int64) ([]*comic.Book, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var books []*comic.Book
	if err := cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// Update 更新绘本（整体替换）
func (r *Repo) Update(ctx context.Context, b *comic.Book) error {
	b.UpdatedAt = time.Now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": b.ID}, b)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
