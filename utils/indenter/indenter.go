// Package indenter pretty-prints nested structures over multiple lines.
//
//	indenter.Indenter().Start("{").NestStrings("a", "b").End("}")
//
// produces
//
//	{
//	  a
//	  b
//	}
package indenter

import (
	"fmt"
	"strings"
)

type indenter struct {
	buf *strings.Builder
}

func Indenter() indenter {
	return indenter{&strings.Builder{}}
}

const unit = "  "

func (i indenter) Start(str string) indenter {
	i.buf.WriteString(str)
	return i
}

type stringableString string

func (s stringableString) String() string {
	return string(s)
}

func (i indenter) NestStrings(strs ...string) indenter {
	return i.NestStringsSep("", strs...)
}

func (i indenter) NestStringsSep(sep string, strs ...string) indenter {
	stringers := make([]fmt.Stringer, len(strs))
	for i, v := range strs {
		stringers[i] = stringableString(v)
	}
	return i.NestSep(sep, stringers...)
}

func (i indenter) NestSep(sep string, strs ...fmt.Stringer) indenter {
	thunks := make([]func() string, len(strs))
	for j, str := range strs {
		thunks[j] = str.String
	}
	return i.NestThunkedSep(sep, thunks...)
}

// NestThunkedSep places every string on its own line, one level deeper than
// the enclosing text. Multi-line strings are shifted as a block. A single
// string is kept inline.
func (i indenter) NestThunkedSep(sep string, strs ...func() string) indenter {
	if len(strs) == 1 {
		i.buf.WriteString(strs[0]())
		return i
	}

	for j, str := range strs {
		i.buf.WriteString("\n" + unit)
		i.buf.WriteString(strings.ReplaceAll(str(), "\n", "\n"+unit))
		if j < len(strs)-1 {
			i.buf.WriteString(sep)
		}
	}
	i.buf.WriteString("\n")
	return i
}

func (i indenter) End(str string) string {
	i.buf.WriteString(str)
	return i.buf.String()
}
