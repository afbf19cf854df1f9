package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"panelforge/internal/model/comic"
)

// EnsureIndexes 创建所有模型的索引
// 在应用启动时调用，新增模型需要在这里注册
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	models := []Model{
		&comic.Book{},
	}

	return EnsureAllIndexes(ctx, db, models...)
}
