package yamlio_test

import (
	"bytes"
	"github.com/jungnoh/objio"
	"github.com/jungnoh/objio/objiotest"
	"github.com/jungnoh/objio/yamlio"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"io"
	"testing"
	"testing/iotest"
)

type service struct {
	Name     string   `yaml:"name"`
	Replicas int      `yaml:"replicas"`
	Hosts    []string `yaml:"hosts,omitempty"`
}

func TestCodecRoundTrip(t *testing.T) {
	codec := yamlio.New[service]()
	obj := service{Name: "api", Replicas: 3, Hosts: []string{"a", "b"}}

	text, err := objio.WriteString[service](codec, obj)
	assert.Nil(t, err)
	assert.Equal(t, "name: api\nreplicas: 3\nhosts:\n    - a\n    - b\n", text)

	got, err := objio.ReadString[service](codec, text)
	assert.Nil(t, err)
	assert.Equal(t, obj, got)
}

func TestCodecIndent(t *testing.T) {
	codec := yamlio.New[service]().WithIndent(2)
	obj := service{Name: "api", Replicas: 1, Hosts: []string{"a"}}

	text, err := objio.WriteString[service](codec, obj)
	assert.Nil(t, err)
	assert.Equal(t, "name: api\nreplicas: 1\nhosts:\n  - a\n", text)

	got, err := objio.ReadString[service](codec, text)
	assert.Nil(t, err)
	assert.Equal(t, obj, got)
}

func TestCodecEmptySource(t *testing.T) {
	codec := yamlio.New[service]()

	_, err := codec.Read(bytes.NewReader(nil))
	assert.Equal(t, io.EOF, err)
}

func TestCodecGarbage(t *testing.T) {
	codec := yamlio.New[service]()

	_, err := objio.ReadString[service](codec, "name: [unclosed")
	assert.NotNil(t, err)
	assert.False(t, objio.IsIO(err))
}

func TestCodecSourceFailure(t *testing.T) {
	cause := errors.New("connection reset")
	codec := yamlio.New[service]()

	_, err := codec.Read(iotest.ErrReader(cause))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, objio.IsIO(err))
}

func TestCodecConformance(t *testing.T) {
	codec := yamlio.New[service]()

	objiotest.RoundTrip[service](t, codec, []service{
		{},
		{Name: "api", Replicas: 3, Hosts: []string{"a", "b"}},
	})
	objiotest.ReadFailure[service](t, codec)
	objiotest.WriteFailure[service](t, codec, service{Name: "api"})
	objiotest.Garbage[service](t, codec, []byte("name: [unclosed"))
}

func TestCodecFramedSequence(t *testing.T) {
	framed := objio.NewFramed[service](yamlio.New[service]())

	var buf bytes.Buffer
	objs := []service{{Name: "a", Replicas: 1}, {Name: "b", Replicas: 2}}
	assert.Nil(t, objio.WriteAll[service](framed, &buf, objs...))

	got, err := objio.ReadAll[service](framed, &buf)
	assert.Nil(t, err)
	assert.Equal(t, objs, got)
}
