// Package sharecode mints the opaque codes behind public report links.
// A code is a salted hashid of the business id: not secret, but not
// guessable by incrementing an integer either.
package sharecode

import (
	"errors"

	hashids "github.com/speps/go-hashids/v2"
)

var ErrInvalidCode = errors.New("invalid share code")

type Codec struct {
	h *hashids.HashID
}

func New(salt string) (*Codec, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 8

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, err
	}
	return &Codec{h: h}, nil
}

func (c *Codec) Encode(businessID int64) (string, error) {
	return c.h.EncodeInt64([]int64{businessID})
}

func (c *Codec) Decode(code string) (int64, error) {
	ids, err := c.h.DecodeInt64WithError(code)
	if err != nil || len(ids) != 1 {
		return 0, ErrInvalidCode
	}
	return ids[0], nil
}
