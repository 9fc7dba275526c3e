package safe

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"testing"

	"safe-authenticator/internal/model"
	"safe-authenticator/internal/vault"
	"safe-authenticator/pkg/errno"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keySigner 用固定私钥签名的 Signer
type keySigner struct {
	key       *ecdsa.PrivateKey
	claimed   *common.Address
	err       error
	lastHash  common.Hash
	lastIndex *uint32
}

func newKeySigner(t *testing.T) *keySigner {
	key, err := crypto.HexToECDSA("1ab42cc412b618bdea3a599e3c9bae199ebf030895b039e9db1e30dafb12b727")
	require.NoError(t, err)
	return &keySigner{key: key}
}

func (s *keySigner) DeviceAddress(ctx context.Context) (common.Address, error) {
	return crypto.PubkeyToAddress(s.key.PublicKey), nil
}

func (s *keySigner) Sign(ctx context.Context, index uint32, digest common.Hash) (model.Signature, common.Address, error) {
	if s.err != nil {
		return model.Signature{}, common.Address{}, s.err
	}
	s.lastHash = digest
	s.lastIndex = &index
	raw, err := crypto.Sign(digest[:], s.key)
	if err != nil {
		return model.Signature{}, common.Address{}, err
	}
	raw[64] += 27
	sig, err := model.SignatureFromBytes(raw)
	addr := crypto.PubkeyToAddress(s.key.PublicKey)
	if s.claimed != nil {
		addr = *s.claimed
	}
	return sig, addr, err
}

type recordingSubmitter struct {
	submitted []*model.SignedConfirmation
	err       error
}

func (r *recordingSubmitter) SubmitConfirmation(ctx context.Context, c *model.SignedConfirmation) error {
	if r.err != nil {
		return r.err
	}
	r.submitted = append(r.submitted, c)
	return nil
}

var (
	device    = common.HexToAddress("0x9858EfFD232B4033E47d90003D41EC34EcaEda94")
	fixtureTx = model.SafeTx{To: common.HexToAddress("0x02"), Value: big.NewInt(0), Operation: model.Call}
	fixtureEx = model.SafeTxExecInfo{Nonce: big.NewInt(0)}
	fixtureID = common.HexToHash("0x6eb0ec09f76e0245dbbdffdb7d544e06b2ba30b2916ee2aa81efa4a0a815c354")
)

func TestConfirmSubmitsRecoverableSignature(t *testing.T) {
	signer := newKeySigner(t)
	sub := &recordingSubmitter{}
	engine := NewEngine(signer, sub)

	c, err := engine.Confirm(context.Background(), common.HexToAddress("0x01"), fixtureTx, fixtureEx)
	require.NoError(t, err)

	require.Len(t, sub.submitted, 1)
	assert.Same(t, c, sub.submitted[0])
	assert.Equal(t, fixtureID, c.Hash)
	assert.Equal(t, fixtureID, signer.lastHash, "签名对象必须是交易哈希本身")
	require.NotNil(t, signer.lastIndex)
	assert.Equal(t, vault.DeviceKeyIndex, *signer.lastIndex, "确认密钥必须与展示的设备地址同一索引")
	assert.Equal(t, device, c.Sender)
	assert.Len(t, c.Signature.String(), model.SignatureHexLen)

	recovered, err := RecoverSigner(c.Hash, c.Signature)
	require.NoError(t, err)
	assert.Equal(t, device, recovered)
}

func TestConfirmPropagatesSubmissionError(t *testing.T) {
	sub := &recordingSubmitter{err: errno.ErrSubmission.WithMessage("422 owner not found")}
	_, err := NewEngine(newKeySigner(t), sub).Confirm(context.Background(), common.HexToAddress("0x01"), fixtureTx, fixtureEx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errno.ErrSubmission))
}

func TestConfirmSigningFailure(t *testing.T) {
	signer := newKeySigner(t)
	signer.err = errno.ErrCrypto.WithMessage("decrypt failed")
	sub := &recordingSubmitter{}

	_, err := NewEngine(signer, sub).Confirm(context.Background(), common.HexToAddress("0x01"), fixtureTx, fixtureEx)
	assert.True(t, errors.Is(err, errno.ErrCrypto))
	assert.Empty(t, sub.submitted, "签名失败时不应提交")
}

func TestConfirmRejectsSignerMismatch(t *testing.T) {
	signer := newKeySigner(t)
	other := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	signer.claimed = &other
	sub := &recordingSubmitter{}

	_, err := NewEngine(signer, sub).Confirm(context.Background(), common.HexToAddress("0x01"), fixtureTx, fixtureEx)
	assert.True(t, errors.Is(err, errno.ErrCrypto))
	assert.Empty(t, sub.submitted)
}

func TestConfirmServiceTxChecksHash(t *testing.T) {
	safe := common.HexToAddress("0x01")

	t.Run("matching hash", func(t *testing.T) {
		sub := &recordingSubmitter{}
		stx := model.ServiceSafeTx{Hash: fixtureID, Tx: fixtureTx, ExecInfo: fixtureEx}
		c, err := NewEngine(newKeySigner(t), sub).ConfirmServiceTx(context.Background(), safe, stx)
		require.NoError(t, err)
		assert.Equal(t, fixtureID, c.Hash)
		assert.Len(t, sub.submitted, 1)
	})

	t.Run("mismatching hash", func(t *testing.T) {
		sub := &recordingSubmitter{}
		signer := newKeySigner(t)
		stx := model.ServiceSafeTx{Hash: common.HexToHash("0xdead"), Tx: fixtureTx, ExecInfo: fixtureEx}
		_, err := NewEngine(signer, sub).ConfirmServiceTx(context.Background(), safe, stx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errno.ErrCrypto))
		assert.Contains(t, err.Error(), "hash mismatch")
		assert.Empty(t, sub.submitted)
		assert.Equal(t, common.Hash{}, signer.lastHash, "哈希不一致时不应签名")
	})
}

func TestRecoverSignerRejectsBadV(t *testing.T) {
	_, err := RecoverSigner(fixtureID, model.Signature{V: 1})
	assert.True(t, errors.Is(err, errno.ErrCrypto))
}
