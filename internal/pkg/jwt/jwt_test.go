package jwt

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestJWT(t *testing.T) {
	Convey("服务间令牌", t, func() {
		j := NewJWT("secret", time.Minute)

		Convey("签发后可以验证", func() {
			token, err := j.GenerateToken("orchestrator", "scenes")
			So(err, ShouldBeNil)

			claims, err := j.ValidateToken(token, "scenes")
			So(err, ShouldBeNil)
			So(claims.Service, ShouldEqual, "orchestrator")
		})

		Convey("发往其他服务的令牌无效", func() {
			token, _ := j.GenerateToken("orchestrator", "images")
			_, err := j.ValidateToken(token, "scenes")
			So(err, ShouldEqual, ErrInvalidToken)
		})

		Convey("不同密钥签发的令牌无效", func() {
			token, _ := NewJWT("other", time.Minute).GenerateToken("orchestrator", "scenes")
			_, err := j.ValidateToken(token, "scenes")
			So(err, ShouldEqual, ErrInvalidToken)
		})

		Convey("过期令牌", func() {
			expired := &JWT{secret: []byte("secret"), expiration: -time.Minute}
			token, _ := expired.GenerateToken("orchestrator", "scenes")
			_, err := j.ValidateToken(token, "scenes")
			So(err, ShouldEqual, ErrExpiredToken)
		})

		Convey("垃圾字符串", func() {
			_, err := j.ValidateToken("not-a-token", "scenes")
			So(err, ShouldEqual, ErrInvalidToken)
		})
	})
}
