package communication

import "context"

type ResponseCode string

const (
	CodeOK            ResponseCode = "OK"
	CodeBadRequest    ResponseCode = "BAD_REQUEST"
	CodeNotFound      ResponseCode = "NOT_FOUND"
	CodeAlreadyExists ResponseCode = "ALREADY_EXISTS"
	CodeInternal      ResponseCode = "INTERNAL"
	CodeUnavailable   ResponseCode = "UNAVAILABLE"
)

type Message struct {
	From    string
	Type    string
	Payload any
}

type Response struct {
	Code    ResponseCode
	Body    []byte
	Headers map[string]string
}

type MessageHandler func(msg Message) (*Response, error)

type Communicator interface {
	Start(handler MessageHandler) error
	Stop() error
	Send(ctx context.Context, to string, msg Message) (*Response, error)
	Address() string
}
