package storagefactory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"panelforge/internal/config"
	"panelforge/internal/pkg/storage"
)

func localConfig(dir string) *config.StorageConfig {
	return &config.StorageConfig{
		Type: "local",
		Local: &config.LocalConfig{
			BasePath:      dir,
			BaseURL:       "http://localhost:8000/download/",
			PresignExpiry: 3600,
		},
	}
}

func TestNewStorage(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		wantErr bool
	}{
		{name: "valid local storage config", cfg: localConfig(t.TempDir())},
		{name: "missing local config", cfg: &config.StorageConfig{Type: "local"}, wantErr: true},
		{name: "missing oss config", cfg: &config.StorageConfig{Type: "oss"}, wantErr: true},
		{name: "unsupported storage type", cfg: &config.StorageConfig{Type: "s3"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStorage(context.Background(), tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewStorage() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewStorage() unexpected error: %v", err)
			}
			if s.GetStorageType() != "local" {
				t.Errorf("GetStorageType() = %s, want local", s.GetStorageType())
			}
		})
	}
}

func TestLocalStorage_Operations(t *testing.T) {
	Convey("本地存储读写", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		s, err := NewStorage(ctx, localConfig(dir))
		So(err, ShouldBeNil)

		key := "books/abc/panel_01.png"
		content := "not really a png"

		Convey("上传后可以读取、查询信息并得到访问URL", func() {
			url, err := s.Upload(ctx, key, strings.NewReader(content), "image/png")
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "http://localhost:8000/download/"+key)

			exists, err := s.Exists(ctx, key)
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)

			data, err := storage.ReadAll(ctx, s, key)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, content)

			info, err := s.GetFileInfo(ctx, key)
			So(err, ShouldBeNil)
			So(info.Size, ShouldEqual, int64(len(content)))
			So(info.ContentType, ShouldEqual, "image/png")
			So(info.ETag, ShouldNotBeEmpty)

			presigned, err := s.GetPresignedDownloadURL(ctx, key, time.Hour)
			So(err, ShouldBeNil)
			So(presigned, ShouldEqual, url)

			lp, ok := s.(storage.LocalPather)
			So(ok, ShouldBeTrue)
			p, err := lp.LocalPath(key)
			So(err, ShouldBeNil)
			So(p, ShouldEqual, filepath.Join(dir, "books", "abc", "panel_01.png"))
			_, err = os.Stat(p)
			So(err, ShouldBeNil)
		})

		Convey("覆盖写入同一个 key", func() {
			_, err := s.Upload(ctx, key, strings.NewReader("one"), "image/png")
			So(err, ShouldBeNil)
			_, err = s.Upload(ctx, key, strings.NewReader("two"), "image/png")
			So(err, ShouldBeNil)

			data, err := storage.ReadAll(ctx, s, key)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "two")
		})

		Convey("不存在的文件返回 ErrNotFound", func() {
			_, err := s.Download(ctx, "nonexistent/file.png")
			So(errors.Is(err, storage.ErrNotFound), ShouldBeTrue)

			_, err = s.GetFileInfo(ctx, "nonexistent/file.png")
			So(errors.Is(err, storage.ErrNotFound), ShouldBeTrue)

			exists, err := s.Exists(ctx, "nonexistent/file.png")
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
		})

		Convey("拒绝逃逸出基础路径的 key", func() {
			for _, bad := range []string{"", "../secret.png", "books/../../etc/passwd", "/"} {
				_, err := s.Download(ctx, bad)
				So(errors.Is(err, storage.ErrInvalidKey), ShouldBeTrue)
			}
		})
	})
}
