package comic

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookPanel 绘本中的一格
type BookPanel struct {
	Index       int            `bson:"index" json:"index"`
	Description string         `bson:"description" json:"description"`
	Dialogue    []DialogueLine `bson:"dialogue" json:"dialogue"`
	Image       *ImageArtifact `bson:"image,omitempty" json:"image,omitempty"`
	Placements  []Placement    `bson:"placements,omitempty" json:"placements,omitempty"`
	Composite   *Composite     `bson:"composite,omitempty" json:"composite,omitempty"`
}

// BookPage 绘本页（2x2 排版）
type BookPage struct {
	Number   int    `bson:"number" json:"number"`
	ImageKey string `bson:"image_key" json:"image_key"`
	ImageURL string `bson:"image_url" json:"image_url"`
	Panels   []int  `bson:"panels" json:"panels"` // 本页包含的格序号
}

// BookDocument 整本绘本的 PDF
type BookDocument struct {
	Key   string `bson:"key" json:"key"`
	URL   string `bson:"url" json:"url"`
	Pages int    `bson:"pages" json:"pages"`
	Size  int64  `bson:"size" json:"size"`
}

// Book 绘本实体
// 一次 POST /books 请求对应一个 Book
type Book struct {
	ID          string        `bson:"id" json:"id"`
	Story       string        `bson:"story" json:"story"`
	Style       string        `bson:"style" json:"style"`
	PanelCount  int           `bson:"panel_count" json:"panel_count"`
	Status      BookStatus    `bson:"status" json:"status"`
	Panels      []BookPanel   `bson:"panels" json:"panels"`
	Pages       []BookPage    `bson:"pages,omitempty" json:"pages,omitempty"`
	PDF         *BookDocument `bson:"pdf,omitempty" json:"pdf,omitempty"`
	Error       string        `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`
	CompletedAt *time.Time    `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// CompositeURLs 按格序返回合成图地址
func (b *Book) CompositeURLs() []string {
	urls := make([]string, len(b.Panels))
	for i, p := range b.Panels {
		if p.Composite != nil {
			urls[i] = p.Composite.URL
		}
	}
	return urls
}

// Collection 返回集合名称
func (b *Book) Collection() string { return "books" }

// EnsureIndexes 创建和维护索引
func (b *Book) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(b.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetName("idx_id").SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_status_created"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
