// Package counter encodes the per-client request counter that is round-tripped
// through a cookie.
//
// Without a secret the cookie holds the plain decimal count. With a secret it
// holds an HS256 JWT whose "cnt" claim is the count, so clients cannot pick
// their own value. Anything that does not decode cleanly counts as zero.
package counter

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	Count int `json:"cnt"`
	jwt.RegisteredClaims
}

type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	c := &Codec{}
	if secret != "" {
		c.secret = []byte(secret)
	}
	return c
}

func (c *Codec) Signed() bool {
	return c.secret != nil
}

func (c *Codec) Encode(n int) (string, error) {
	if !c.Signed() {
		return strconv.Itoa(n), nil
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{Count: n})
	return token.SignedString(c.secret)
}

func (c *Codec) Decode(raw string) int {
	if raw == "" {
		return 0
	}

	if !c.Signed() {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return 0
		}
		return n
	}

	var parsed claims
	_, err := jwt.ParseWithClaims(raw, &parsed, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || parsed.Count < 0 {
		return 0
	}
	return parsed.Count
}
