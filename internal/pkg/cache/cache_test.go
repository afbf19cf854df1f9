package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"panelforge/internal/config"
)

func TestMemoryCache(t *testing.T) {
	Convey("进程内缓存", t, func() {
		ctx := context.Background()
		c := NewMemoryCache(time.Minute)
		defer c.Close()

		Convey("写入后可以读回", func() {
			So(c.Set(ctx, "k", []string{"a", "b"}, 0), ShouldBeNil)

			var got []string
			So(c.Get(ctx, "k", &got), ShouldBeNil)
			So(got, ShouldResemble, []string{"a", "b"})
		})

		Convey("未命中返回 ErrMiss", func() {
			var got []string
			err := c.Get(ctx, "missing", &got)
			So(errors.Is(err, ErrMiss), ShouldBeTrue)
		})

		Convey("过期后未命中", func() {
			So(c.Set(ctx, "short", 1, 10*time.Millisecond), ShouldBeNil)
			time.Sleep(30 * time.Millisecond)
			var got int
			So(errors.Is(c.Get(ctx, "short", &got), ErrMiss), ShouldBeTrue)
		})
	})
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		typ     string
		wantNil bool
		wantErr bool
	}{
		{name: "empty", typ: "", wantNil: true},
		{name: "none", typ: "none", wantNil: true},
		{name: "memory", typ: "memory"},
		{name: "unknown", typ: "memcached", wantNil: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Cache: config.CacheConfig{Type: tt.typ, TTL: time.Minute}}
			c, err := New(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() err = %v, wantErr %v", err, tt.wantErr)
			}
			if (c == nil) != tt.wantNil {
				t.Fatalf("New() cache = %v, wantNil %v", c, tt.wantNil)
			}
		})
	}
}

func TestKey(t *testing.T) {
	Convey("缓存 key 稳定且区分片段", t, func() {
		a := Key(ScenesKeyPrefix, "story", "6")
		So(a, ShouldEqual, Key(ScenesKeyPrefix, "story", "6"))
		So(a, ShouldNotEqual, Key(ScenesKeyPrefix, "story6"))
		So(a, ShouldStartWith, ScenesKeyPrefix)
	})
}
