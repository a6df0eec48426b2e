package de

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/indigo-web/querystring/config"
	"github.com/indigo-web/querystring/decode"
	"github.com/indigo-web/querystring/number"
	"github.com/indigo-web/querystring/parsers"
	"github.com/stretchr/testify/require"
)

func brackets(query string) Deserializer {
	return NewBrackets(parsers.ParseBrackets([]byte(query)), config.Default())
}

func duplicates(query string) Deserializer {
	return NewDuplicate(parsers.ParseDuplicate([]byte(query)), config.Default())
}

// hintVisitor records size hints of every map and sequence it visits.
type hintVisitor struct {
	BaseVisitor
	hints *[]int
}

func (h hintVisitor) VisitMap(m MapAccess) error {
	n, known := m.SizeHint()
	if !known {
		n = -1
	}

	*h.hints = append(*h.hints, n)
	for {
		_, ok := m.NextKey()
		if !ok {
			return nil
		}

		if err := m.Value().DeserializeAny(h); err != nil {
			return err
		}
	}
}

func (h hintVisitor) VisitSeq(seq SeqAccess) error {
	n, _ := seq.SizeHint()
	*h.hints = append(*h.hints, n)
	for {
		element, ok := seq.NextElement()
		if !ok {
			return nil
		}

		if err := element.DeserializeAny(h); err != nil {
			return err
		}
	}
}

func (h hintVisitor) VisitString(string) error {
	return nil
}

func TestSizeHint(t *testing.T) {
	t.Run("brackets map", func(t *testing.T) {
		var hints []int
		d := brackets("a[x]=1&a[y]=2&a[x]=3&a[z][w]=4")
		require.NoError(t, d.DeserializeMap(hintVisitor{BaseVisitor{"map"}, &hints}))
		// root, a, values of a[x], a[z]
		require.Equal(t, []int{1, 3, 2, 1}, hints)
	})

	t.Run("brackets sequence", func(t *testing.T) {
		var hints []int
		d := brackets("a[]=1&a[]=2&a[]=3")
		require.NoError(t, d.DeserializeMap(hintVisitor{BaseVisitor{"map"}, &hints}))
		require.Equal(t, []int{1, 3}, hints)
	})

	t.Run("duplicate", func(t *testing.T) {
		var hints []int
		d := duplicates("a=1&b=2&a=3")
		require.NoError(t, d.DeserializeMap(hintVisitor{BaseVisitor{"map"}, &hints}))
		require.Equal(t, []int{2, 2}, hints)
	})
}

func TestErrors(t *testing.T) {
	t.Run("overflow", func(t *testing.T) {
		var target struct {
			Age uint8 `query:"age"`
		}

		err := Unmarshal(duplicates("age=300"), config.Default(), &target)
		require.ErrorIs(t, err, MalformedNumber)
		require.ErrorIs(t, err, number.ErrOverflow)

		var derr *Error
		require.ErrorAs(t, err, &derr)
		require.Equal(t, "age", derr.Key)
		require.Equal(t, "300", derr.Value)
		require.Equal(t, "uint8", derr.Expected)
		require.Equal(t,
			`querystring: malformed number at "age" in value "300", expected uint8: number out of range: "300"`,
			err.Error(),
		)
	})

	t.Run("nested key path", func(t *testing.T) {
		var target struct {
			Child struct {
				Book struct {
					Pages uint16 `query:"pages"`
				} `query:"book"`
			} `query:"child"`
		}

		err := Unmarshal(brackets("child[book][pages]=many"), config.Default(), &target)
		var derr *Error
		require.ErrorAs(t, err, &derr)
		require.Equal(t, "child[book][pages]", derr.Key)
		require.ErrorIs(t, err, number.ErrSyntax)
	})

	t.Run("element path", func(t *testing.T) {
		var target struct {
			IDs []int `query:"ids"`
		}

		err := Unmarshal(duplicates("ids=1&ids=2&ids=x"), config.Default(), &target)
		var derr *Error
		require.ErrorAs(t, err, &derr)
		require.Equal(t, "ids[2]", derr.Key)
	})

	t.Run("missing nested field", func(t *testing.T) {
		var target struct {
			User struct {
				Name string `query:"name"`
				Age  int    `query:"age"`
			} `query:"user"`
		}

		err := Unmarshal(brackets("user[name]=Pavlo"), config.Default(), &target)
		require.ErrorIs(t, err, MissingField)

		var derr *Error
		require.ErrorAs(t, err, &derr)
		require.Equal(t, "user[age]", derr.Key)
	})

	t.Run("unknown kind", func(t *testing.T) {
		require.Equal(t, "unknown error", Kind(0).String())
		require.Equal(t, "type mismatch", TypeMismatch.Error())
	})
}

type captureLogger struct {
	lines []string
}

func (c *captureLogger) Printf(format string, v ...any) {
	c.lines = append(c.lines, fmt.Sprintf(format, v...))
}

func TestMalformedEscapes(t *testing.T) {
	type target struct {
		Discount string `query:"discount"`
	}

	query := []byte("discount=100%")

	t.Run("lenient", func(t *testing.T) {
		logger := new(captureLogger)
		cfg := config.Default()
		cfg.Logger = logger

		var v target
		require.NoError(t, Unmarshal(NewUrlEncoded(parsers.ParseUrlEncoded(query), cfg), cfg, &v))
		require.Equal(t, "100%", v.Discount)
		require.Len(t, logger.lines, 1)
		require.Contains(t, logger.lines[0], `"discount"`)
	})

	t.Run("strict value", func(t *testing.T) {
		cfg := config.Default()
		cfg.Decoding.Strict = true

		var v target
		err := Unmarshal(NewUrlEncoded(parsers.ParseUrlEncoded(query), cfg), cfg, &v)
		require.ErrorIs(t, err, InvalidEncoding)
		require.ErrorIs(t, err, decode.ErrMalformed)

		var qerr *Error
		require.ErrorAs(t, err, &qerr)
		require.Equal(t, "100%", qerr.Value)
	})

	t.Run("strict key", func(t *testing.T) {
		cfg := config.Default()
		cfg.Decoding.Strict = true

		var v map[string]string
		err := Unmarshal(NewBrackets(parsers.ParseBrackets([]byte("a[%zz]=1")), cfg), cfg, &v)
		require.Error(t, err)

		var m map[string]map[string]string
		err = Unmarshal(NewBrackets(parsers.ParseBrackets([]byte("a[%zz]=1")), cfg), cfg, &m)
		require.ErrorIs(t, err, InvalidEncoding)

		var qerr *Error
		require.ErrorAs(t, err, &qerr)
		require.Equal(t, "a[%zz]", qerr.Key)
		require.Equal(t, "a[%zz]", qerr.Value)

		var flat map[string]string
		err = Unmarshal(NewUrlEncoded(parsers.ParseUrlEncoded([]byte("b%2=1&b%32=2")), cfg), cfg, &flat)
		require.ErrorAs(t, err, &qerr)
		require.Equal(t, "b%2", qerr.Value)
	})

	t.Run("lenient key", func(t *testing.T) {
		logger := new(captureLogger)
		cfg := config.Default()
		cfg.Logger = logger

		var v map[string]string
		require.NoError(t, Unmarshal(NewUrlEncoded(parsers.ParseUrlEncoded([]byte("b%2=1")), cfg), cfg, &v))
		require.Equal(t, map[string]string{"b%2": "1"}, v)
		require.Len(t, logger.lines, 1)
		require.Contains(t, logger.lines[0], `"b%2"`)
	})

	t.Run("unused malformed values are fine", func(t *testing.T) {
		cfg := config.Default()
		cfg.Decoding.Strict = true

		var v target
		query := []byte("discount=10&other=100%")
		require.NoError(t, Unmarshal(NewUrlEncoded(parsers.ParseUrlEncoded(query), cfg), cfg, &v))
	})
}

func TestDepthLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Brackets.MaxDepth = 3

	deep := func(depth int) []byte {
		return []byte("a" + strings.Repeat("[a]", depth-1) + "=1")
	}

	var v map[string]any
	require.NoError(t, Unmarshal(NewBrackets(parsers.ParseBrackets(deep(3)), cfg), cfg, &v))

	err := Unmarshal(NewBrackets(parsers.ParseBrackets(deep(4)), cfg), cfg, &v)
	require.ErrorIs(t, err, DepthLimitExceeded)

	t.Run("zero config", func(t *testing.T) {
		cfg := new(config.Config)
		var v map[string]any
		require.NoError(t, Unmarshal(NewBrackets(parsers.ParseBrackets(deep(config.DefaultMaxDepth)), cfg), cfg, &v))

		err := Unmarshal(NewBrackets(parsers.ParseBrackets(deep(config.DefaultMaxDepth+1)), cfg), cfg, &v)
		require.ErrorIs(t, err, DepthLimitExceeded)
	})
}

type point struct {
	X, Y int
}

func (p *point) UnmarshalQuery(d Deserializer) error {
	var raw string
	if err := d.DeserializeString(captureVisitor{BaseVisitor{"point"}, &raw}); err != nil {
		return err
	}

	if _, err := fmt.Sscanf(raw, "%d;%d", &p.X, &p.Y); err != nil {
		return errors.New("point must be written as x;y")
	}

	return nil
}

func TestUnmarshaler(t *testing.T) {
	var v struct {
		At point `query:"at"`
	}

	require.NoError(t, Unmarshal(duplicates("at=3;4"), config.Default(), &v))
	require.Equal(t, point{3, 4}, v.At)

	err := Unmarshal(duplicates("at=3"), config.Default(), &v)
	require.ErrorIs(t, err, Custom)

	var derr *Error
	require.ErrorAs(t, err, &derr)
	require.Equal(t, "at", derr.Key)
}

func TestRoot(t *testing.T) {
	var slice []string
	err := Unmarshal(duplicates("a=1"), config.Default(), &slice)
	require.ErrorIs(t, err, TypeMismatch)

	var str string
	require.ErrorIs(t, Unmarshal(brackets("a=1"), config.Default(), &str), TypeMismatch)

	var notPointer struct{}
	require.ErrorIs(t, Unmarshal(brackets("a=1"), config.Default(), notPointer), TypeMismatch)

	var ptr *struct {
		A string `query:"a"`
	}
	require.NoError(t, Unmarshal(brackets("a=1"), config.Default(), &ptr))
	require.Equal(t, "1", ptr.A)
}

func TestPath(t *testing.T) {
	var p *path
	require.Empty(t, p.String())

	p = p.child("user").child("address").element(2).child("zip")
	require.Equal(t, "user[address][2][zip]", p.String())
	require.Equal(t, "user[name]", Join("user", "name"))
	require.Equal(t, "user", Join("", "user"))
}
