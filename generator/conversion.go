package generator

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoTopicEncoding is returned when an indexed filter is requested for a type that cannot be
// encoded as a log topic.
var ErrNoTopicEncoding = errors.New("type has no topic encoding")

// Conversion rewrites a Go expression of one representation into another.
// The zero value is the identity conversion.
type Conversion struct {
	fn func(expr string) string
}

// Identity leaves expressions untouched and produces no generated wrapper.
var Identity = Conversion{}

// Transform returns a conversion that applies fn.
func Transform(fn func(expr string) string) Conversion {
	return Conversion{fn: fn}
}

// Transformf returns a conversion that substitutes the expression into format's single %s verb.
func Transformf(format string) Conversion {
	return Transform(func(expr string) string {
		return fmt.Sprintf(format, expr)
	})
}

func (c Conversion) IsIdentity() bool {
	return c.fn == nil
}

func (c Conversion) Apply(expr string) string {
	if c.fn == nil {
		return expr
	}
	return c.fn(expr)
}

// Then composes c with next, eliding identities on either side.
func (c Conversion) Then(next Conversion) Conversion {
	switch {
	case c.IsIdentity():
		return next
	case next.IsIdentity():
		return c
	}
	return Transform(func(expr string) string {
		return next.Apply(c.Apply(expr))
	})
}

// TopicEncoding renders an internal value as a 32 byte log topic. The rendered text is the result
// list of a function returning (common.Hash, error). The zero value is unsupported.
type TopicEncoding struct {
	fn     func(expr string) string
	reason string
}

func topicf(format string) TopicEncoding {
	return TopicEncoding{fn: func(expr string) string {
		return fmt.Sprintf(format, expr)
	}}
}

func noTopic(reason string) TopicEncoding {
	return TopicEncoding{reason: reason}
}

func (t TopicEncoding) Supported() bool {
	return t.fn != nil
}

func (t TopicEncoding) Apply(expr string) (string, error) {
	if t.fn == nil {
		return "", errors.Wrap(ErrNoTopicEncoding, t.reason)
	}
	return t.fn(expr), nil
}
