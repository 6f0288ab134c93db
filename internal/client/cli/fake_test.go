package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophfeedback/internal/client/config"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeCall struct {
	method   string
	fields   map[string]any
	deadline bool
}

type fakeCaller struct {
	mu      sync.Mutex
	calls   []fakeCall
	replies map[string]map[string]any
	errs    map[string]error
}

func (f *fakeCaller) Call(ctx context.Context, method string, fields map[string]any, _ ...grpc.CallOption) (*structpb.Struct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := ctx.Deadline()
	f.calls = append(f.calls, fakeCall{method: method, fields: fields, deadline: ok})
	if err := f.errs[method]; err != nil {
		return nil, err
	}
	return structpb.NewStruct(f.replies[method])
}

// last returns the most recent call of method.
func (f *fakeCaller) last(method string) (fakeCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].method == method {
			return f.calls[i], true
		}
	}
	return fakeCall{}, false
}

type fakeCloser struct {
	closed bool
}

func (c *fakeCloser) Close() error {
	c.closed = true
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		ServerEndpointAddr: "127.0.0.1:0",
		RequestTimeout:     time.Second,
		Culture:            "da-DK",
	}
}

func newTestApp(fc *fakeCaller, input string) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return newApp(testConfig(), fc, nil, strings.NewReader(input), out), out
}
