package chain

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"safe-authenticator/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ethService 进程内的最小 eth 命名空间
type ethService struct {
	nonce *big.Int
}

func (s *ethService) Call(msg map[string]interface{}, block string) (hexutil.Bytes, error) {
	data, _ := msg["data"].(string)
	if !strings.HasPrefix(data, "0xaffed0e0") {
		return nil, errors.New("execution reverted")
	}
	return SafeABI.Methods["nonce"].Outputs.Pack(s.nonce)
}

func (s *ethService) GetStorageAt(addr common.Address, slot string, block string) (hexutil.Bytes, error) {
	return common.LeftPadBytes(common.HexToAddress("0x34cfac646f301356faa8b21e94227e3583fe3f5f").Bytes(), 32), nil
}

func newInProcTransport(t *testing.T, svc *ethService) *RPCTransport {
	t.Helper()
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", svc))
	t.Cleanup(server.Stop)

	transport := NewRPCTransport(rpc.DialInProc(server))
	t.Cleanup(transport.Close)
	return transport
}

func TestRPCTransportBatch(t *testing.T) {
	transport := newInProcTransport(t, &ethService{nonce: big.NewInt(42)})

	nonce, err := NewClient(transport).LoadNonce(context.Background(), testSafe)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(42), nonce)
}

func TestRPCTransportPropagatesCallError(t *testing.T) {
	transport := newInProcTransport(t, &ethService{nonce: big.NewInt(1)})

	// getOwners 在服务端 revert，整个读取失败
	_, err := NewClient(transport).LoadSafeInfo(context.Background(), testSafe)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrChainRead))

	var readErr *ReadError
	require.True(t, errors.As(err, &readErr))
	assert.Equal(t, "eth_call", readErr.Method)
	assert.Contains(t, readErr.Error(), "execution reverted")
}

func TestRPCTransportKeepsCallerIDs(t *testing.T) {
	transport := newInProcTransport(t, &ethService{nonce: big.NewInt(1)})

	resps, err := transport.Send(context.Background(), []Request{
		{ID: 10, Method: "eth_getStorageAt", Params: []interface{}{testSafe, "0x0", "latest"}},
		{ID: 20, Method: "eth_call", Params: []interface{}{map[string]interface{}{"to": testSafe, "data": hexutil.Bytes{0xaf, 0xfe, 0xd0, 0xe0}}, "latest"}},
	})
	require.NoError(t, err)
	require.Len(t, resps, 2)
	assert.Equal(t, 10, resps[0].ID)
	assert.Equal(t, 20, resps[1].ID)
	assert.Nil(t, resps[0].Error)
	assert.Nil(t, resps[1].Error)
}
