package jsonio_test

import (
	"bytes"
	"encoding/json"
	"github.com/jungnoh/objio"
	"github.com/jungnoh/objio/jsonio"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"io"
	"testing"
	"testing/iotest"
)

type account struct {
	Name    string   `json:"name"`
	Balance int      `json:"balance"`
	Tags    []string `json:"tags,omitempty"`
}

func TestCodecRoundTrip(t *testing.T) {
	codec := jsonio.New[account]()
	obj := account{Name: "alice", Balance: 42, Tags: []string{"admin"}}

	text, err := objio.WriteString[account](codec, obj)
	assert.Nil(t, err)
	assert.Equal(t, `{"name":"alice","balance":42,"tags":["admin"]}`, text)
	assert.Equal(t, account{Name: "alice", Balance: 42, Tags: []string{"admin"}}, obj)

	got, err := objio.ReadString[account](codec, text)
	assert.Nil(t, err)
	assert.Equal(t, obj, got)
}

func TestCodecIndent(t *testing.T) {
	codec := jsonio.New[account]().WithIndent("", "  ")

	text, err := objio.WriteString[account](codec, account{Name: "alice"})
	assert.Nil(t, err)
	assert.Equal(t, "{\n  \"name\": \"alice\",\n  \"balance\": 0\n}", text)
}

func TestCodecEmptySource(t *testing.T) {
	codec := jsonio.New[account]()

	_, err := codec.Read(bytes.NewReader(nil))
	assert.Equal(t, io.EOF, err)
}

func TestCodecGarbage(t *testing.T) {
	codec := jsonio.New[account]()

	_, err := objio.ReadString[account](codec, `{"name":`)
	assert.NotNil(t, err)
	assert.False(t, objio.IsIO(err))

	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
}

func TestCodecSourceFailure(t *testing.T) {
	cause := errors.New("connection reset")
	codec := jsonio.New[account]()

	_, err := codec.Read(iotest.ErrReader(cause))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, objio.IsIO(err))
}

func TestCodecFramedSequence(t *testing.T) {
	framed := objio.NewFramed[account](jsonio.New[account]())

	var buf bytes.Buffer
	objs := []account{{Name: "a"}, {Name: "b", Balance: 7}, {Name: "c"}}
	assert.Nil(t, objio.WriteAll[account](framed, &buf, objs...))

	got, err := objio.ReadAll[account](framed, &buf)
	assert.Nil(t, err)
	assert.Equal(t, objs, got)
}
