package grpc

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// request reads loosely typed fields of a Struct request. Numbers and
// strings are interchangeable, as they are in query strings.
type request struct {
	fields map[string]*structpb.Value
}

func newRequest(in *structpb.Struct) request {
	return request{fields: in.GetFields()}
}

func (r request) has(name string) bool {
	v, ok := r.fields[name]
	if !ok {
		return false
	}
	_, null := v.GetKind().(*structpb.Value_NullValue)
	return !null
}

func (r request) string(name string) string {
	v, ok := r.fields[name]
	if !ok {
		return ""
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64)
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue)
	default:
		return ""
	}
}

func (r request) int(name string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(r.string(name)))
	if err != nil {
		return def
	}
	return n
}

// bool returns nil when the field is absent or not a boolean.
func (r request) bool(name string) *bool {
	b, err := strconv.ParseBool(r.string(name))
	if err != nil {
		return nil
	}
	return &b
}

// key parses a required key field.
func (r request) key(name string) (uuid.UUID, error) {
	s := strings.TrimSpace(r.string(name))
	if s == "" {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s is required", name)
	}
	k, err := uuid.Parse(s)
	if err != nil || k == uuid.Nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s is not a valid key", name)
	}
	return k, nil
}

// optionalKey parses a key field, returning nil when it is absent, empty
// or malformed.
func (r request) optionalKey(name string) *uuid.UUID {
	k, err := uuid.Parse(strings.TrimSpace(r.string(name)))
	if err != nil || k == uuid.Nil {
		return nil
	}
	return &k
}
