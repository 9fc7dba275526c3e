package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"safe-authenticator/pkg/errno"

	"github.com/ethereum/go-ethereum/rpc"
)

// Request 一条 JSON-RPC 请求，ID 由调用方分配
type Request struct {
	ID     int
	Method string
	Params []interface{}
}

// RPCError 节点返回的错误对象
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Response 与 Request 通过 ID 对应，不保证顺序
type Response struct {
	ID     int
	Result json.RawMessage
	Error  *RPCError
}

// Transport 发送一批请求并返回对应的响应
type Transport interface {
	Send(ctx context.Context, reqs []Request) ([]Response, error)
}

// RPCTransport 基于 go-ethereum rpc.Client 的批量调用
type RPCTransport struct {
	client *rpc.Client
}

// DialRPC 连接 HTTP / WebSocket / IPC 端点
func DialRPC(ctx context.Context, url string) (*RPCTransport, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, errno.ErrChainRead.Wrap(fmt.Errorf("dial %s: %w", url, err))
	}
	return &RPCTransport{client: client}, nil
}

// NewRPCTransport 包装已有的 rpc.Client
func NewRPCTransport(client *rpc.Client) *RPCTransport {
	return &RPCTransport{client: client}
}

func (t *RPCTransport) Send(ctx context.Context, reqs []Request) ([]Response, error) {
	elems := make([]rpc.BatchElem, len(reqs))
	results := make([]json.RawMessage, len(reqs))
	for i, req := range reqs {
		elems[i] = rpc.BatchElem{
			Method: req.Method,
			Args:   req.Params,
			Result: &results[i],
		}
	}

	if err := t.client.BatchCallContext(ctx, elems); err != nil {
		return nil, err
	}

	// rpc.Client 内部已按 id 重新关联，这里把调用方 ID 写回
	resps := make([]Response, len(reqs))
	for i, elem := range elems {
		resps[i] = Response{ID: reqs[i].ID, Result: results[i]}
		if elem.Error != nil {
			resps[i].Error = toRPCError(elem.Error)
		}
	}
	return resps, nil
}

func (t *RPCTransport) Close() {
	t.client.Close()
}

func toRPCError(err error) *RPCError {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return &RPCError{Code: rpcErr.ErrorCode(), Message: rpcErr.Error()}
	}
	return &RPCError{Code: -1, Message: err.Error()}
}
