package server

import (
	"reflect"

	"github.com/dpetros/streamcache/internal/communication"
)

type TypedHandler struct {
	Handler     func(msg communication.Message) (*communication.Response, error)
	PayloadType reflect.Type
}

type Server interface {
	Start() error
	Stop() error
	RegisterTypedHandler(msgType string, payloadType reflect.Type, handler func(msg communication.Message) (*communication.Response, error))
}
